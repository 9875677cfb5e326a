// Package rag is the client for the external retrieval service that holds
// document indexes and answers queries.
package rag

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type QueryRequest struct {
	Query     string `json:"query"`
	TopK      int    `json:"top_k,omitempty"`
	ProjectID uint   `json:"project_id"`
}

type Source struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Quota struct {
	UsedBytes  int64 `json:"used_bytes"`
	LimitBytes int64 `json:"limit_bytes"`
}

func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	var resp QueryResponse
	err := c.do(ctx, http.MethodPost, "/v1/query", req, &resp)
	return resp, err
}

func (c *Client) Documents(ctx context.Context, projectID uint) ([]Document, error) {
	var resp struct {
		Documents []Document `json:"documents"`
	}
	path := fmt.Sprintf("/v1/projects/%d/documents", projectID)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp.Documents, err
}

func (c *Client) Quota(ctx context.Context, projectID uint) (Quota, error) {
	var resp Quota
	path := fmt.Sprintf("/v1/projects/%d/quota", projectID)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

// StreamChunk is one piece of a streamed answer.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// QueryStream POSTs a query to the streaming endpoint and calls fn for each
// newline-delimited chunk until the stream ends or fn returns an error.
func (c *Client) QueryStream(ctx context.Context, req QueryRequest, fn func(StreamChunk) error) error {
	body, err := json.Marshal(req)

	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/query/stream", bytes.NewReader(body))

	if err != nil {
		return err
	}

	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("retrieval service: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())

		if len(line) == 0 {
			continue
		}

		var chunk StreamChunk

		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("retrieval service: decoding stream: %w", err)
		}

		if err := fn(chunk); err != nil {
			return err
		}

		if chunk.Done {
			return nil
		}
	}

	return scanner.Err()
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader = bytes.NewReader(nil)

	if in != nil {
		payload, err := json.Marshal(in)

		if err != nil {
			return err
		}

		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)

	if err != nil {
		return err
	}

	c.setHeaders(req)

	resp, err := c.client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("retrieval service: %s", resp.Status)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
