package handlers_test

import (
	"net/http"
	"testing"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNormalizesEmail(t *testing.T) {
	s := newStack(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "  Ada@Example.COM ",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, s.db.First(&user).Error)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	s := newStack(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "not-an-email",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.User{}))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newStack(t)
	s.register(t, "Ada", "ada@example.com", "password123")

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Imposter",
		"email":    "ada@example.com",
		"password": "password456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")

	assert.Equal(t, int64(1), countRows(t, s.db, &models.User{}))
}

func TestLogin(t *testing.T) {
	s := newStack(t)
	s.register(t, "Ada", "ada@example.com", "password123")

	w := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login did not set a session cookie")

	w = s.do(t, http.MethodGet, "/api/account", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginNormalizesEmail(t *testing.T) {
	s := newStack(t)
	s.register(t, "Ada", "ada@example.com", "password123")

	w := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "  Ada@Example.COM ",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	s := newStack(t)
	s.register(t, "Ada", "ada@example.com", "password123")

	w := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrongwrong",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newStack(t)
	cookie := s.register(t, "Ada", "ada@example.com", "password123")

	w := s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.Session{}))

	// The old token no longer works.
	w = s.do(t, http.MethodGet, "/api/account", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
