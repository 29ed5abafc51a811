/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/dowhistle/dowhistle-mcp/agents/agenttrace"
	"github.com/dowhistle/dowhistle-mcp/agents/metrics"
	"golang.org/x/time/rate"
)

// ErrExtraction is wrapped by every error returned from Extract.
var ErrExtraction = errors.New("extraction failed")

// Interface extracts whistle attributes from free text.
type Interface interface {
	Extract(ctx context.Context, userInput string) (*WhistleData, error)
}

// completion is the raw reply of one completion call.
type completion struct {
	text         string
	inputTokens  int64
	outputTokens int64
}

// completer performs exactly one completion call.
type completer interface {
	complete(ctx context.Context, system, prompt string) (completion, error)
}

type extractor struct {
	model     string
	completer completer
	limiter   *rate.Limiter
	metrics   *metrics.GenAI
	now       func() time.Time
}

var _ Interface = (*extractor)(nil)

func newExtractor(model string, c completer, opts ...Option) *extractor {
	e := &extractor{
		model:     model,
		completer: c,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		metrics:   metrics.NewGenAI("dowhistle.mcp.extractor"),
		now:       time.Now,
	}
	e.metrics.SetAttributeEnricher(metrics.InvocationEnricher)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract implements Interface.
func (e *extractor) Extract(ctx context.Context, userInput string) (data *WhistleData, err error) {
	log := clog.FromContext(ctx).With("model", e.model)

	if strings.TrimSpace(userInput) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrExtraction)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for completion quota: %w", ErrExtraction, err)
	}

	prompt, err := buildPrompt(userInput, e.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	trace := agenttrace.StartTrace[*WhistleData](ctx, e.model, prompt)
	defer func() { trace.Complete(data, err) }()

	start := time.Now()
	c, err := e.completer.complete(ctx, systemInstructions, prompt)
	if err != nil {
		e.metrics.RecordExtraction(ctx, e.model, metrics.OutcomeModelError, time.Since(start))
		log.With("error", err).Warn("Completion call failed")
		return nil, fmt.Errorf("%w: completion call: %w", ErrExtraction, err)
	}
	if err := ctx.Err(); err != nil {
		e.metrics.RecordExtraction(ctx, e.model, metrics.OutcomeCancelled, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	trace.RecordTokenUsage(c.inputTokens, c.outputTokens)
	e.metrics.RecordTokens(ctx, e.model, c.inputTokens, c.outputTokens)

	data, err = parseReply(c.text)
	if err != nil {
		e.metrics.RecordExtraction(ctx, e.model, metrics.OutcomeInvalidReply, time.Since(start))
		log.With("error", err).Warn("Completion reply rejected")
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	e.metrics.RecordExtraction(ctx, e.model, metrics.OutcomeOK, time.Since(start))

	log.With("ask_again", data.AskAgain()).
		With("confidence", data.ConfidenceScore()).
		Info("Extracted whistle data")
	return data, nil
}
