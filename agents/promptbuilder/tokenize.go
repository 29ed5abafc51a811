/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// expandFunc returns the text substituted for a placeholder name.
type expandFunc func(name string) (string, error)

// expand scans template for {{name}} placeholders and replaces each with the
// result of fn. It is used both to discover placeholders and to render them,
// so parsing and building always agree on what a placeholder is.
func expand(template string, fn expandFunc) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	for {
		open := strings.Index(template, "{{")
		if open < 0 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:open])

		rest := template[open+2:]
		closeIdx := strings.Index(rest, "}}")
		if closeIdx < 0 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}

		name := strings.TrimSpace(rest[:closeIdx])
		if !isIdentifier(name) {
			return "", fmt.Errorf("invalid placeholder name %q", name)
		}
		text, err := fn(name)
		if err != nil {
			return "", err
		}
		out.WriteString(text)

		template = rest[closeIdx+2:]
	}
}

// isIdentifier reports whether s starts with a letter and continues with
// letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
