/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// InvocationContext identifies the tool invocation that triggered a
// completion call.
type InvocationContext struct {
	Tool      string `json:"tool,omitempty"`       // MCP tool name, e.g. "create_whistle"
	RequestID string `json:"request_id,omitempty"` // Per-invocation UUID
}

// EnrichAttributes appends bounded invocation attributes to baseAttrs.
// RequestID is unbounded and stays on spans and logs only.
func (i InvocationContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+1)
	copy(attrs, baseAttrs)
	if i.Tool != "" {
		attrs = append(attrs, attribute.String("tool", i.Tool))
	}
	return attrs
}

type invocationKey struct{}

// WithInvocationContext attaches inv to ctx.
func WithInvocationContext(ctx context.Context, inv InvocationContext) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// GetInvocationContext returns the InvocationContext attached to ctx, or the
// zero value.
func GetInvocationContext(ctx context.Context) InvocationContext {
	if inv, ok := ctx.Value(invocationKey{}).(InvocationContext); ok {
		return inv
	}
	return InvocationContext{}
}
