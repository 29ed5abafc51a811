/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles extraction prompts from templates with
// {{placeholder}} bindings.
//
// Templates are string literals owned by the developer. Anything that comes
// from a caller (free text typed into a tool, timestamps, examples) is bound
// as structured data and marshaled as XML, JSON or YAML, so user input can
// never rewrite the surrounding instructions:
//
//	p := promptbuilder.MustNewPrompt(`Extract the alert from: {{input}}`)
//	p, err := p.BindXML("input", struct {
//		XMLName struct{} `xml:"user_input"`
//		Text    string   `xml:",chardata"`
//	}{Text: raw})
//	text, err := p.Build()
//
// Build fails while any placeholder is still unbound.
package promptbuilder
