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
	"github.com/openai/openai-go"
)

// openAI requests a strict JSON-schema response format.
type openAI struct {
	client openai.Client
	model  string
	format openai.ChatCompletionNewParamsResponseFormatUnion
}

func newOpenAI(client openai.Client, model string) (*openAI, error) {
	m, err := schema.ToMap(replySchema)
	if err != nil {
		return nil, fmt.Errorf("converting reply schema: %w", err)
	}
	return &openAI{
		client: client,
		model:  model,
		format: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        recordToolName,
					Description: openai.String(replySchema.Description),
					Schema:      m,
					Strict:      openai.Bool(true),
				},
			},
		},
	}, nil
}

func (o *openAI) complete(ctx context.Context, system, prompt string) (completion, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature:    openai.Float(0.1),
		ResponseFormat: o.format,
	})
	if err != nil {
		return completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return completion{}, errors.New("openai reply has no choices")
	}
	if refusal := resp.Choices[0].Message.Refusal; refusal != "" {
		return completion{}, fmt.Errorf("openai refused: %s", refusal)
	}

	return completion{
		text:         resp.Choices[0].Message.Content,
		inputTokens:  resp.Usage.PromptTokens,
		outputTokens: resp.Usage.CompletionTokens,
	}, nil
}
