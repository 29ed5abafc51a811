/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{{
		name:     "plain json",
		input:    `{"plain": "json"}`,
		expected: `{"plain": "json"}`,
	}, {
		name:     "plain json with whitespace",
		input:    "\n    {\"plain\": \"json\"}\n    ",
		expected: `{"plain": "json"}`,
	}, {
		name:     "json fence",
		input:    "```json\n{\"key\": \"value\"}\n```",
		expected: `{"key": "value"}`,
	}, {
		name:     "bare fence",
		input:    "```\n{\"key\": \"value\"}\n```",
		expected: `{"key": "value"}`,
	}, {
		name:     "prose before the fence",
		input:    "Here is the extraction:\n```json\n{\"key\": \"value\"}\n```",
		expected: `{"key": "value"}`,
	}, {
		name:     "prose around the fence",
		input:    "Sure.\n\n```json\n{\n  \"key\": \"value\"\n}\n```\n\nLet me know if anything is missing.",
		expected: "{\n  \"key\": \"value\"\n}",
	}, {
		name:     "crlf line endings",
		input:    "```json\r\n{\"key\": \"value\"}\r\n```\r\n",
		expected: `{"key": "value"}`,
	}, {
		name:     "indented fence",
		input:    "  ```json\n{\"key\": \"value\"}\n  ```",
		expected: `{"key": "value"}`,
	}, {
		name:     "first fence wins",
		input:    "```json\n{\"first\": 1}\n```\n```json\n{\"second\": 2}\n```",
		expected: `{"first": 1}`,
	}, {
		name:     "single line fence",
		input:    "```json{\"key\": \"value\"}```",
		expected: `{"key": "value"}`,
	}, {
		name:     "unclosed fence",
		input:    "```json\n{\"incomplete\": true",
		expected: `{"incomplete": true`,
	}, {
		name:     "empty fence",
		input:    "```json\n```",
		expected: "",
	}, {
		name:     "whitespace only fence",
		input:    "```json\n   \n\t\n```",
		expected: "",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, ExtractJSON(tt.input)); diff != "" {
				t.Errorf("ExtractJSON() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    sample
		wantErr error
	}{{
		name:  "plain",
		input: `{"name": "sink", "count": 2}`,
		want:  sample{Name: "sink", Count: 2},
	}, {
		name:  "fenced with prose",
		input: "Here you go:\n```json\n{\"name\": \"sink\", \"count\": 2}\n```\nDone.",
		want:  sample{Name: "sink", Count: 2},
	}, {
		name:    "empty",
		input:   "   ",
		wantErr: ErrEmpty,
	}, {
		name:    "trailing garbage",
		input:   `{"name": "sink", "count": 2} trailing garbage`,
		wantErr: ErrTrailingData,
	}, {
		name:    "second value",
		input:   `{"name": "sink", "count": 2} {"name": "tap"}`,
		wantErr: ErrTrailingData,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract[sample](tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractRejectsUnknownFields(t *testing.T) {
	if _, err := Extract[sample](`{"name": "sink", "count": 2, "extra": true}`); err == nil {
		t.Error("Extract() accepted an unknown field")
	}
}

func TestExtractRejectsMalformedJSON(t *testing.T) {
	if _, err := Extract[sample]("```json\n{invalid json}\n```"); err == nil {
		t.Error("Extract() accepted malformed JSON")
	}
}
