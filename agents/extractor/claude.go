/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/dowhistle/dowhistle-mcp/agents/schema"
)

// claude collects the reply through a forced record_whistle tool call.
type claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	tool      anthropic.ToolParam
}

func newClaude(client anthropic.Client, model string) (*claude, error) {
	m, err := schema.ToMap(replySchema)
	if err != nil {
		return nil, fmt.Errorf("converting reply schema: %w", err)
	}
	return &claude{
		client:    client,
		model:     model,
		maxTokens: 1024,
		tool: anthropic.ToolParam{
			Name:        recordToolName,
			Description: anthropic.String(replySchema.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: m["properties"],
				Required:   replySchema.Required,
			},
		},
	}, nil
}

func (c *claude) complete(ctx context.Context, system, prompt string) (completion, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0.1),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
		Tools: []anthropic.ToolUnionParam{{OfTool: &c.tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: recordToolName},
		},
	})
	if err != nil {
		return completion{}, fmt.Errorf("claude messages: %w", err)
	}

	out := completion{
		inputTokens:  message.Usage.InputTokens,
		outputTokens: message.Usage.OutputTokens,
	}
	for _, block := range message.Content {
		if block.Type == "tool_use" && block.Name == recordToolName {
			out.text = string(block.Input)
			return out, nil
		}
	}
	return out, fmt.Errorf("claude reply has no %s tool call (stop reason %q)", recordToolName, message.StopReason)
}
