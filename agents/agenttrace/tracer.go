/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer[T any] interface {
	RecordTrace(trace *Trace[T])
}

// ByCode returns a Tracer that invokes each callback with completed traces.
func ByCode[T any](callbacks ...func(*Trace[T])) Tracer[T] {
	return byCode[T](callbacks)
}

type byCode[T any] []func(*Trace[T])

func (b byCode[T]) RecordTrace(trace *Trace[T]) {
	for _, cb := range b {
		cb(trace)
	}
}

type tracerKey[T any] struct{}

// WithTracer returns a context carrying tracer for traces of type T.
func WithTracer[T any](ctx context.Context, tracer Tracer[T]) context.Context {
	return context.WithValue(ctx, tracerKey[T]{}, tracer)
}

// TracerFromContext returns the tracer stored in ctx, or one that logs
// completed traces through clog.
func TracerFromContext[T any](ctx context.Context) Tracer[T] {
	if tracer, ok := ctx.Value(tracerKey[T]{}).(Tracer[T]); ok {
		return tracer
	}
	log := clog.FromContext(ctx)
	return ByCode(func(trace *Trace[T]) {
		l := log.With(
			"trace_id", trace.ID,
			"model", trace.Model,
			"duration_ms", trace.Duration().Milliseconds(),
			"tokens_in", trace.InputTokens,
			"tokens_out", trace.OutputTokens,
		)
		if trace.Error != nil {
			l.With("error", trace.Error).Warn("Completion trace failed")
			return
		}
		l.Info("Completion trace completed")
	})
}
