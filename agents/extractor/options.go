/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"time"

	"github.com/dowhistle/dowhistle-mcp/agents/metrics"
	"golang.org/x/time/rate"
)

// Option configures an extractor.
type Option func(*extractor)

// WithLimiter bounds the rate of completion calls. Extract waits for a token
// and gives up when its context ends first.
func WithLimiter(l *rate.Limiter) Option {
	return func(e *extractor) {
		if l != nil {
			e.limiter = l
		}
	}
}

// WithAttributeEnricher replaces the metrics attribute enricher.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(e *extractor) {
		e.metrics.SetAttributeEnricher(enricher)
	}
}

// WithClock overrides the time source used for the "current time" in prompts.
func WithClock(now func() time.Time) Option {
	return func(e *extractor) {
		e.now = now
	}
}
