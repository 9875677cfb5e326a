package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is a profile", req.Query)

		json.NewEncoder(w).Encode(QueryResponse{
			Answer: "a profile groups server configs",
			Sources: []Source{
				{DocumentID: "d1", Title: "Handbook", Score: 0.92},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")

	resp, err := client.Query(context.Background(), QueryRequest{Query: "what is a profile", ProjectID: 1})
	require.NoError(t, err)
	assert.Equal(t, "a profile groups server configs", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "d1", resp.Sources[0].DocumentID)
}

func TestQueryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	_, err := client.Query(context.Background(), QueryRequest{Query: "q", ProjectID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/7/quota", r.URL.Path)
		json.NewEncoder(w).Encode(Quota{UsedBytes: 1024, LimitBytes: 10240})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	quota, err := client.Quota(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), quota.UsedBytes)
	assert.Equal(t, int64(10240), quota.LimitBytes)
}

func TestQueryStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/query/stream", r.URL.Path)
		for _, content := range []string{"hello", " world"} {
			fmt.Fprintf(w, "{\"content\":%q}\n", content)
		}
		fmt.Fprintln(w, `{"done":true}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	var got string
	err := client.QueryStream(context.Background(), QueryRequest{Query: "q", ProjectID: 1}, func(chunk StreamChunk) error {
		got += chunk.Content
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}
