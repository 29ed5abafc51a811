/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package backend

import (
	"net/http"

	"golang.org/x/time/rate"
)

// DefaultClientHeader carries the caller's client id on every request.
const DefaultClientHeader = "X-WorkOS-Client-Id"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientHeader overrides the correlation header name.
func WithClientHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.clientHeader = name
		}
	}
}

// WithLimiter bounds the request rate. Requests wait for a token and fail
// when their context ends first.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}
