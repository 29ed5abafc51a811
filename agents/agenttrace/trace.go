/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "dowhistle.mcp.agenttrace"

// Trace records a single completion call from prompt to result.
type Trace[T any] struct {
	ID           string            `json:"id"`
	Model        string            `json:"model"`
	InputPrompt  string            `json:"input_prompt"`
	Invocation   InvocationContext `json:"invocation,omitempty"`
	Result       T                 `json:"result"`
	Error        error             `json:"error,omitempty"`
	InputTokens  int64             `json:"input_tokens"`
	OutputTokens int64             `json:"output_tokens"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`

	tracer Tracer[T]
	mu     sync.Mutex
	span   oteltrace.Span
}

// StartTrace opens a trace and its span using the tracer from ctx.
func StartTrace[T any](ctx context.Context, model, prompt string) *Trace[T] {
	inv := GetInvocationContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Int("prompt.length", len(prompt)),
	}
	if inv.Tool != "" {
		attrs = append(attrs, attribute.String("tool", inv.Tool))
	}
	if inv.RequestID != "" {
		attrs = append(attrs, attribute.String("request_id", inv.RequestID))
	}

	_, span := otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0")).
		Start(ctx, "agent.completion", oteltrace.WithAttributes(attrs...))

	return &Trace[T]{
		ID:          uuid.NewString(),
		Model:       model,
		InputPrompt: prompt,
		Invocation:  inv,
		StartTime:   time.Now(),
		tracer:      TracerFromContext[T](ctx),
		span:        span,
	}
}

// RecordTokenUsage stores token counts on the trace and its span.
func (t *Trace[T]) RecordTokenUsage(inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.InputTokens += inputTokens
	t.OutputTokens += outputTokens
	t.span.SetAttributes(
		attribute.Int64("tokens.input", t.InputTokens),
		attribute.Int64("tokens.output", t.OutputTokens),
		attribute.Int64("tokens.total", t.InputTokens+t.OutputTokens),
	)
}

// Complete closes the span and hands the trace to its tracer. Calling it more
// than once records only the first completion.
func (t *Trace[T]) Complete(result T, err error) {
	t.mu.Lock()
	if !t.EndTime.IsZero() {
		t.mu.Unlock()
		return
	}
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
	} else {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End()

	t.tracer.RecordTrace(t)
}

// Duration returns the elapsed time, up to now for an open trace.
func (t *Trace[T]) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}
