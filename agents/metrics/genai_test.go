/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/dowhistle/dowhistle-mcp/agents/agenttrace"
	"go.opentelemetry.io/otel/attribute"
)

func TestGenAIRecordsWithEnricher(t *testing.T) {
	m := NewGenAI("dowhistle.test")

	var seen []attribute.KeyValue
	m.SetAttributeEnricher(func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		seen = InvocationEnricher(ctx, base)
		return seen
	})

	ctx := agenttrace.WithInvocationContext(context.Background(), agenttrace.InvocationContext{Tool: "create_whistle"})
	m.RecordTokens(ctx, "gpt-4o-mini", 10, 3)
	m.RecordExtraction(ctx, "gpt-4o-mini", OutcomeOK, 20*time.Millisecond)

	want := map[attribute.Key]string{"model": "gpt-4o-mini", "tool": "create_whistle"}
	if len(seen) != len(want) {
		t.Fatalf("enriched attributes = %v, want %v", seen, want)
	}
	for _, kv := range seen {
		if want[kv.Key] != kv.Value.AsString() {
			t.Errorf("attribute %s = %q, want %q", kv.Key, kv.Value.AsString(), want[kv.Key])
		}
	}
}
