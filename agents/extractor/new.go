/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Config selects and authenticates the completion backend.
type Config struct {
	// Model picks the backend by prefix: claude-*, gemini-*, gpt-* or o<digit>*.
	Model string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Project and Region are used for Vertex AI when no API key is set for a
	// claude-* or gemini-* model. Project is looked up from the GCE metadata
	// server when empty.
	Project string
	Region  string

	// BaseURL overrides the provider endpoint. For Gemini it only applies to
	// the Gemini API backend, not Vertex AI.
	BaseURL string

	// HTTPClient is used by every SDK when set.
	HTTPClient *http.Client
}

// Backend names returned by BackendFor.
const (
	BackendClaude = "claude"
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// BackendFor returns the backend serving model, or an error for unsupported
// model names.
func BackendFor(model string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "claude-"):
		return BackendClaude, nil
	case strings.HasPrefix(m, "gemini-"):
		return BackendGemini, nil
	case strings.HasPrefix(m, "gpt-"),
		len(m) > 1 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9':
		return BackendOpenAI, nil
	}
	return "", fmt.Errorf("unsupported model: %q (expected claude-*, gemini-*, gpt-* or o*)", model)
}

// New builds the extractor for cfg.Model.
func New(ctx context.Context, cfg Config, opts ...Option) (Interface, error) {
	backend, err := BackendFor(cfg.Model)
	if err != nil {
		return nil, err
	}

	var c completer
	switch backend {
	case BackendClaude:
		c, err = claudeFromConfig(ctx, cfg)
	case BackendGemini:
		c, err = googleFromConfig(ctx, cfg)
	case BackendOpenAI:
		c, err = openAIFromConfig(cfg)
	}
	if err != nil {
		return nil, err
	}

	clog.FromContext(ctx).With("model", cfg.Model).With("backend", backend).Info("Configured extractor")
	return newExtractor(cfg.Model, c, opts...), nil
}

func claudeFromConfig(ctx context.Context, cfg Config) (*claude, error) {
	opts := []anthropicoption.RequestOption{anthropicoption.WithMaxRetries(0)}
	if cfg.HTTPClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}

	if cfg.AnthropicAPIKey != "" {
		opts = append(opts, anthropicoption.WithAPIKey(cfg.AnthropicAPIKey))
	} else {
		project, err := projectID(ctx, cfg.Project)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vertex.WithGoogleAuth(ctx, cfg.Region, project))
	}
	return newClaude(anthropic.NewClient(opts...), cfg.Model)
}

func googleFromConfig(ctx context.Context, cfg Config) (*google, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	if cfg.GeminiAPIKey != "" {
		cc.APIKey = cfg.GeminiAPIKey
		cc.Backend = genai.BackendGeminiAPI
		if cfg.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
		}
	} else {
		project, err := projectID(ctx, cfg.Project)
		if err != nil {
			return nil, err
		}
		cc.Project = project
		cc.Location = cfg.Region
		cc.Backend = genai.BackendVertexAI
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return newGoogle(client, cfg.Model), nil
}

func openAIFromConfig(cfg Config) (*openAI, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OpenAI API key is required for model " + cfg.Model)
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(cfg.OpenAIAPIKey),
		openaioption.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, openaioption.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(cfg.BaseURL))
	}
	return newOpenAI(openai.NewClient(opts...), cfg.Model)
}

// projectID returns configured, or the project of the GCE instance.
func projectID(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if !metadata.OnGCE() {
		return "", errors.New("a Google Cloud project is required for Vertex AI models")
	}
	project, err := metadata.ProjectIDWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("looking up project from metadata server: %w", err)
	}
	return project, nil
}
