/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for structured LLM output from Go
// types and converts them into the shapes each completion SDK expects.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// Generator wraps jsonschema.Reflector with the defaults used for
// extraction contracts: inline definitions and required fields taken from
// `jsonschema:"required"` tags.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a Generator with project defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	s := g.reflector.Reflect(v)
	// The top-level $schema/$id keys confuse some providers' tool validators.
	s.Version = ""
	s.ID = ""
	return s
}

// ReflectType reflects the zero value of T.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return NewGenerator().Reflect(&zero)
}

// ToMap converts a schema into the generic map form accepted by the
// Anthropic and OpenAI SDKs.
func ToMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return out, nil
}

// ToGenai converts a schema into a genai.Schema for Gemini response schemas.
func ToGenai(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Title:       s.Title,
		Format:      s.Format,
		Type:        genaiType(s.Type),
	}

	for _, v := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(v))
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		out.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		out.MaxItems = &v
	}
	if s.Minimum != "" {
		if v, err := s.Minimum.Float64(); err == nil {
			out.Minimum = &v
		}
	}
	if s.Maximum != "" {
		if v, err := s.Maximum.Float64(); err == nil {
			out.Maximum = &v
		}
	}

	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = ToGenai(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	if s.Items != nil {
		out.Items = ToGenai(s.Items)
	}
	for _, child := range s.AnyOf {
		out.AnyOf = append(out.AnyOf, ToGenai(child))
	}

	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
