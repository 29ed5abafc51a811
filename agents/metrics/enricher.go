/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"github.com/dowhistle/dowhistle-mcp/agents/agenttrace"
	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher enriches metric attributes with additional context.
// The enricher receives base attributes (model) and returns an enriched set.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue

// InvocationEnricher adds the bounded attributes of the tool invocation
// carried by ctx.
func InvocationEnricher(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	return agenttrace.GetInvocationContext(ctx).EnrichAttributes(baseAttrs)
}
