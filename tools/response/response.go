/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package response defines the envelope every tool returns.
//
// An Envelope is a success carrying a payload, a request for clarification,
// or a failure of a given Kind. It is built only through Success,
// Clarification and Failure, so a failure can never carry a populated
// payload. On the wire the envelope fields are merged with the payload's
// fields; non-success outcomes emit the payload's zero value so every
// outcome has the same keys.
package response

import (
	"encoding/json"
	"fmt"
)

// Status is the terminal status of one invocation.
type Status string

const (
	StatusSuccess             Status = "success"
	StatusClarificationNeeded Status = "clarification_needed"
	StatusError               Status = "error"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindCollaborator Kind = "collaborator"
)

// Envelope is the result of a tool invocation.
type Envelope[T any] struct {
	status  Status
	message string
	kind    Kind
	payload T
}

// Success wraps payload with a human-readable message.
func Success[T any](payload T, message string) Envelope[T] {
	return Envelope[T]{status: StatusSuccess, message: message, payload: payload}
}

// Clarification asks the caller for more input.
func Clarification[T any](message string) Envelope[T] {
	return Envelope[T]{status: StatusClarificationNeeded, message: message}
}

// Failure reports a failure of the given kind.
func Failure[T any](kind Kind, message string) Envelope[T] {
	return Envelope[T]{status: StatusError, message: message, kind: kind}
}

func (e Envelope[T]) Status() Status  { return e.status }
func (e Envelope[T]) Message() string { return e.message }

// Kind is empty unless the envelope is a failure.
func (e Envelope[T]) Kind() Kind { return e.kind }

// Succeeded reports whether the status is StatusSuccess.
func (e Envelope[T]) Succeeded() bool { return e.status == StatusSuccess }

// Payload returns the payload; ok is false unless the envelope succeeded.
func (e Envelope[T]) Payload() (payload T, ok bool) {
	if !e.Succeeded() {
		var zero T
		return zero, false
	}
	return e.payload, true
}

// MarshalJSON merges the envelope fields into the payload object.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	payload, _ := e.Payload()
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("payload %T must marshal to a JSON object: %w", payload, err)
	}
	for _, key := range []string{"success", "status", "message", "error", "error_kind"} {
		if _, clash := fields[key]; clash {
			return nil, fmt.Errorf("payload %T uses reserved key %q", payload, key)
		}
	}

	fields["success"] = e.Succeeded()
	fields["status"] = e.status
	fields["message"] = e.message
	fields["error"] = nil
	fields["error_kind"] = nil
	if e.status == StatusError {
		fields["error"] = e.message
		fields["error_kind"] = e.kind
	}
	return json.Marshal(fields)
}
