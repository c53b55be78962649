// Package vahan is the client for the upstream RC lookup API. The upstream is
// treated as untrusted and unreliable: any transport error, non-2xx status,
// or malformed payload maps to CodeFetchFailed, and callers must not mutate
// any state on failure.
package vahan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rcvault/internal/rccache"
	"rcvault/pkg/domain"
	domainerrors "rcvault/pkg/domain-errors"
)

const (
	lookupPath     = "/api/b2b/get-rc"
	defaultTimeout = 15 * time.Second

	// Responses are small; cap reads so a misbehaving upstream cannot hold
	// the connection open indefinitely.
	maxResponseBytes = 1 << 20
)

// Client calls the RC lookup API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type lookupRequest struct {
	VRN string `json:"vrn"`
}

// errorResponse is the upstream's failure envelope. Both fields are optional.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FetchRC requests the RC record for a canonical identifier.
func (c *Client) FetchRC(ctx context.Context, id domain.VehicleID) (*rccache.Record, error) {
	body, err := json.Marshal(lookupRequest{VRN: id.String()})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "could not encode lookup request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+lookupPath, bytes.NewReader(body))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "could not build lookup request")
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "RC lookup service unreachable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "could not read RC lookup response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("RC lookup failed with status %d", resp.StatusCode)
		var envelope errorResponse
		if json.Unmarshal(payload, &envelope) == nil {
			if envelope.Message != "" {
				message = envelope.Message
			} else if envelope.Error != "" {
				message = envelope.Error
			}
		}
		return nil, domainerrors.New(domainerrors.CodeFetchFailed, message)
	}

	var record rccache.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "malformed RC lookup response")
	}
	return &record, nil
}
