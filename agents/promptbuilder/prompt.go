/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
)

// stringLiteral only accepts untyped string constants at call sites, which
// keeps caller-controlled strings out of templates.
type stringLiteral string

// Prompt is an immutable template plus the values bound to its placeholders.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses template and records every placeholder as unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	if _, err := expand(string(template), func(name string) (string, error) {
		bindings[name] = unbound(name)
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: string(template), bindings: bindings}, nil
}

// MustNewPrompt is NewPrompt for package-level templates; it panics on a
// malformed template.
func MustNewPrompt(template stringLiteral) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the sorted placeholder names found in the template.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// BindXML returns a copy of p with name bound to the XML encoding of data.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, xmlValue{data: data})
}

// BindJSON returns a copy of p with name bound to the indented JSON encoding of data.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonValue{data: data})
}

// BindYAML returns a copy of p with name bound to the YAML encoding of data.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlValue{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, isUnbound := current.(unbound); !isUnbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// Build renders the template. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	rendered := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		text, err := b.render()
		if err != nil {
			return "", err
		}
		rendered[name] = text
	}
	return expand(p.template, func(name string) (string, error) {
		return rendered[name], nil
	})
}
