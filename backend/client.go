/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package backend is the REST client for the whistle account API.
//
// Every request carries the caller's client id in the correlation header.
// Non-2xx replies become *StatusError. Nothing is retried, and a reply that
// arrives after the request context ended is discarded.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/time/rate"
)

const maxResponseBody = 4 << 20

// Client talks to the backend API.
type Client struct {
	baseURL      string
	clientHeader string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("backend: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientHeader: DefaultClientHeader,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateWhistle creates a whistle and returns it with the whistles it matched.
func (c *Client) CreateWhistle(ctx context.Context, clientID string, w NewWhistle) (*CreatedWhistle, error) {
	if w.Tags == nil {
		w.Tags = []string{}
	}
	var out CreatedWhistle
	if err := c.do(ctx, clientID, http.MethodPost, "/whistle", createWhistleRequest{Whistle: w}, &out); err != nil {
		return nil, err
	}
	if out.Whistle.ID == "" {
		return nil, fmt.Errorf("%w: POST /whistle reply has no newWhistle", ErrMalformedResponse)
	}
	return &out, nil
}

// Profile fetches the caller's profile with its whistles.
func (c *Client) Profile(ctx context.Context, clientID string) (*User, error) {
	var out userEnvelope
	if err := c.do(ctx, clientID, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("%w: GET /user reply has no user", ErrMalformedResponse)
	}
	return out.User, nil
}

// SearchAround returns providers near a point.
func (c *Client) SearchAround(ctx context.Context, clientID string, req SearchRequest) ([]Provider, error) {
	var out searchResponse
	if err := c.do(ctx, clientID, http.MethodPost, "/searchAround", req, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

// UpdateVisibility sets the caller's visibility and returns the updated user.
func (c *Client) UpdateVisibility(ctx context.Context, clientID string, visible bool) (*User, error) {
	var out userEnvelope
	if err := c.do(ctx, clientID, http.MethodPut, "/user", visibilityRequest{Visible: visible}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("%w: PUT /user reply has no user", ErrMalformedResponse)
	}
	return out.User, nil
}

func (c *Client) do(ctx context.Context, clientID, method, path string, body, out any) error {
	if clientID == "" {
		return ErrMissingClientID
	}
	log := clog.FromContext(ctx).With("method", method).With("path", path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("backend: waiting for rate limit: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("backend: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(c.clientHeader, clientID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller has gone away; whatever arrived is stale.
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("backend: reading %s %s response: %w", method, path, err)
	}
	log.With("status", resp.StatusCode).With("elapsed", time.Since(start)).Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: snippet}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}
