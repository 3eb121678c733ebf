package ai_services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const embeddingsTimeout = 30 * time.Second

// HTTPEmbedder calls a remote embeddings endpoint:
// POST {"input": [...]} and expects {"embeddings": [[...], ...]}.
type HTTPEmbedder struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewHTTPEmbedder(url, apiKey string) *HTTPEmbedder {
	return &HTTPEmbedder{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: embeddingsTimeout},
	}
}

type embedRequest struct {
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encode embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embeddings service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read embeddings response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var out embedResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	return out.Embeddings, nil
}
