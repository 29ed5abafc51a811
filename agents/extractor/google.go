/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/dowhistle/dowhistle-mcp/agents/schema"
	"google.golang.org/genai"
)

// google asks Gemini for a JSON reply constrained by a response schema.
type google struct {
	client *genai.Client
	model  string
	schema *genai.Schema
}

func newGoogle(client *genai.Client, model string) *google {
	return &google{
		client: client,
		model:  model,
		schema: schema.ToGenai(replySchema),
	}
}

func ptr[T any](v T) *T { return &v }

func (g *google) complete(ctx context.Context, system, prompt string) (completion, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      ptr[float32](0.1),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
		ResponseSchema:   g.schema,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return completion{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return completion{}, errors.New("gemini reply has no candidates")
	}

	out := completion{text: resp.Text()}
	if resp.UsageMetadata != nil {
		out.inputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.outputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
