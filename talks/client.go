// Package talks is a wire-level HTTP client for the talking-head video
// provider: submit a creation request, poll its status, download the result.
package talks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"clipforge/config"
)

// Client calls the talk provider's REST API.
type Client struct {
	baseURL     string
	credentials string
	httpc       *http.Client
}

// NewClient creates a provider client. credentials is the static Basic
// credential supplied by the provider dashboard.
func NewClient(baseURL, credentials string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: credentials,
		httpc:       &http.Client{Timeout: config.ProviderHTTPTimeout},
	}
}

// CreateTalk submits a talk creation request and returns the provider's
// job record, whose ID is used for subsequent polling.
func (c *Client) CreateTalk(ctx context.Context, req CreateTalkRequest) (*Talk, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal talk request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/talks", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+c.credentials)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create talk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("talk provider returned %d on create: %s", resp.StatusCode, string(body))
	}

	var talk Talk
	if err := json.NewDecoder(resp.Body).Decode(&talk); err != nil {
		return nil, fmt.Errorf("decode create talk response: %w", err)
	}
	if talk.ID == "" {
		return nil, fmt.Errorf("talk provider returned no talk id")
	}
	return &talk, nil
}

// GetTalk fetches the current status of a talk.
func (c *Client) GetTalk(ctx context.Context, id string) (*Talk, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/talks/"+id, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Basic "+c.credentials)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get talk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("talk provider returned %d on status: %s", resp.StatusCode, string(body))
	}

	var talk Talk
	if err := json.NewDecoder(resp.Body).Decode(&talk); err != nil {
		return nil, fmt.Errorf("decode talk status: %w", err)
	}
	return &talk, nil
}

// DownloadResult fetches the finished video from the provider's result URL.
// The URL is short-lived, so callers re-home the bytes in object storage.
func (c *Client) DownloadResult(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("download result failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("result download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read result body: %w", err)
	}
	return data, nil
}
