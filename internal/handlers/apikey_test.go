package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAPIKeyReturnsFullValueOnce(t *testing.T) {
	s := newStack(t)
	cookie := s.register(t, "Ada", "ada@example.com", "password123")
	projectID := s.createProject(t, cookie, "default")

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/keys", projectID), map[string]string{"name": "ci"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.Key, "ch_"))
	assert.Greater(t, len(created.Key), 11)

	// Listings only expose the prefix.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/keys", projectID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		Name      string `json:"name"`
		KeyPrefix string `json:"key_prefix"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "ci", listed[0].Name)
	assert.Equal(t, created.Key[:11], listed[0].KeyPrefix)
	assert.NotContains(t, w.Body.String(), created.Key)
}

func TestDeleteAPIKey(t *testing.T) {
	s := newStack(t)
	cookie := s.register(t, "Ada", "ada@example.com", "password123")
	projectID := s.createProject(t, cookie, "default")

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/keys", projectID), map[string]string{"name": "ci"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d/keys/%d", projectID, created.ID), nil, cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.APIKey{}))

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d/keys/%d", projectID, created.ID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKeyRoutesRejectNonOwner(t *testing.T) {
	s := newStack(t)
	adaCookie := s.register(t, "Ada", "ada@example.com", "password123")
	bobCookie := s.register(t, "Bob", "bob@example.com", "password123")

	projectID := s.createProject(t, adaCookie, "ada-only")

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/keys", projectID), map[string]string{"name": "sneaky"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.APIKey{}))
}
