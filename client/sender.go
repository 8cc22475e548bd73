package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const trackPath = "/api/user/track-time"

// Sample is one flushed dwell interval. It is also the content of the
// pending-flush slot.
type Sample struct {
	Page            string `json:"page"`
	Path            string `json:"path"`
	DurationSeconds int64  `json:"duration"`
}

// Sender delivers a sample to the ingestion endpoint.
type Sender interface {
	Send(ctx context.Context, sample Sample) error
}

// HTTPSender posts samples to the tracking API. A flush is bounded only by
// the caller's context and the transport; the client sets no deadline.
type HTTPSender struct {
	baseURL  string
	identity Identity
	client   *http.Client
}

func NewHTTPSender(baseURL string, identity Identity) *HTTPSender {
	return &HTTPSender{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		client:   &http.Client{},
	}
}

type trackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *HTTPSender) Send(ctx context.Context, sample Sample) error {
	token, err := s.identity.Token(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	body, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+trackPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sample: %w", err)
	}
	defer resp.Body.Close()

	var out trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return fmt.Errorf("sample rejected (status %d): %s", resp.StatusCode, out.Message)
	}
	return nil
}
