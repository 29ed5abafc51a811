/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package sanitize normalizes loosely typed tool arguments before they reach
// the backend.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBoolean is wrapped when a value is not a recognized boolean token.
var ErrInvalidBoolean = errors.New("not a boolean")

// ValidationError reports a malformed argument.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Keyword collapses a pipe-delimited list of alternatives to the first
// non-empty, trimmed segment.
func Keyword(raw string) string {
	for segment := range strings.SplitSeq(raw, "|") {
		if s := strings.TrimSpace(segment); s != "" {
			return s
		}
	}
	return ""
}

// Bool coerces v into a strict boolean. Native booleans pass through and
// strings must equal "true" or "false", ignoring case and surrounding space.
// Anything else, including numbers and missing values, is a
// *ValidationError.
func Bool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch {
		case strings.EqualFold(strings.TrimSpace(t), "true"):
			return true, nil
		case strings.EqualFold(strings.TrimSpace(t), "false"):
			return false, nil
		}
	}
	return false, &ValidationError{Field: "visible", Value: v, Err: ErrInvalidBoolean}
}
