// Package tts is a thin HTTP client for the speech synthesis gateway.
// The gateway accepts a text script and returns raw WAV audio.
package tts

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

// Client calls the speech synthesis gateway.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a synthesis client for the given gateway base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: config.TTSHTTPTimeout},
	}
}

type synthesizeRequest struct {
	Text      string `json:"text"`
	VoiceName string `json:"voice_name,omitempty"`
}

// Synthesize converts text to WAV audio bytes. An empty voiceName leaves
// voice selection to the gateway.
func (c *Client) Synthesize(ctx context.Context, text, voiceName string) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{Text: text, VoiceName: voiceName})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("synthesis gateway returned %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis gateway returned empty audio")
	}
	return audio, nil
}
