/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Extraction outcomes recorded by RecordExtraction.
const (
	OutcomeOK           = "ok"
	OutcomeModelError   = "model_error"
	OutcomeInvalidReply = "invalid_reply"
	OutcomeCancelled    = "cancelled"
)

// GenAI provides OpenTelemetry metrics for completion calls.
// Counters that fail to initialize degrade to no-ops.
type GenAI struct {
	meter              metric.Meter
	promptTokens       metric.Int64Counter
	completionTokens   metric.Int64Counter
	extractions        metric.Int64Counter
	extractionDuration metric.Float64Histogram
	attrEnricher       AttributeEnricher
}

// NewGenAI creates a new GenAI metrics instance with the specified meter name.
// The model name is a dimension on every recorded metric, so one meter name
// serves all providers.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	extractions, err := meter.Int64Counter("genai.extractions",
		metric.WithDescription("The number of structured extractions attempted"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create extraction counter, metrics will be disabled", "error", err, "meter", meterName)
		extractions = noop.Int64Counter{}
	}

	extractionDuration, err := meter.Float64Histogram("genai.extraction.duration",
		metric.WithDescription("Wall time of a structured extraction"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create extraction duration histogram, metrics will be disabled", "error", err, "meter", meterName)
		extractionDuration = noop.Float64Histogram{}
	}

	return &GenAI{
		meter:              meter,
		promptTokens:       promptTokens,
		completionTokens:   completionTokens,
		extractions:        extractions,
		extractionDuration: extractionDuration,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attributes(ctx context.Context, model string, attrs []attribute.KeyValue) []attribute.KeyValue {
	baseAttrs := []attribute.KeyValue{
		attribute.String("model", model),
	}
	if m.attrEnricher != nil {
		baseAttrs = m.attrEnricher(ctx, baseAttrs)
	}
	return append(baseAttrs, attrs...)
}

// RecordTokens records prompt and completion token usage.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	baseAttrs := m.attributes(ctx, model, attrs)
	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(baseAttrs...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(baseAttrs...))
}

// RecordExtraction records one extraction attempt with its outcome and duration.
func (m *GenAI) RecordExtraction(ctx context.Context, model, outcome string, elapsed time.Duration, attrs ...attribute.KeyValue) {
	baseAttrs := m.attributes(ctx, model, append(attrs, attribute.String("outcome", outcome)))
	m.extractions.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
	m.extractionDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(baseAttrs...))
}
