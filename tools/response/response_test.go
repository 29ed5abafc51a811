/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package response

import (
	"encoding/json"
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type items struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func (i items) MarshalJSON() ([]byte, error) {
	type plain items
	if i.Items == nil {
		i.Items = []string{}
	}
	return json.Marshal(plain(i))
}

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestEnvelopeJSON(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope[items]
		want map[string]any
	}{{
		name: "success",
		env:  Success(items{Items: []string{"a"}, Count: 1}, "Found 1 item(s)"),
		want: map[string]any{
			"success": true, "status": "success", "message": "Found 1 item(s)",
			"error": nil, "error_kind": nil,
			"items": []any{"a"}, "count": 1.0,
		},
	}, {
		name: "clarification",
		env:  Clarification[items]("Need more details"),
		want: map[string]any{
			"success": false, "status": "clarification_needed", "message": "Need more details",
			"error": nil, "error_kind": nil,
			"items": []any{}, "count": 0.0,
		},
	}, {
		name: "failure",
		env:  Failure[items](KindUnauthorized, "Unauthorized: No access token provided"),
		want: map[string]any{
			"success": false, "status": "error", "message": "Unauthorized: No access token provided",
			"error": "Unauthorized: No access token provided", "error_kind": "unauthorized",
			"items": []any{}, "count": 0.0,
		},
	}}

	var keySets [][]string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decode(t, tt.env)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("JSON (-want +got):\n%s", diff)
			}
			keySets = append(keySets, slices.Sorted(maps.Keys(got)))
		})
	}
	for _, keys := range keySets[1:] {
		if diff := cmp.Diff(keySets[0], keys); diff != "" {
			t.Errorf("key sets differ across outcomes (-first +other):\n%s", diff)
		}
	}
}

func TestPayload(t *testing.T) {
	if p, ok := Success(items{Count: 2}, "ok").Payload(); !ok || p.Count != 2 {
		t.Errorf("Success.Payload() = %+v, %v", p, ok)
	}
	if _, ok := Failure[items](KindCollaborator, "boom").Payload(); ok {
		t.Error("Failure.Payload() reported a payload")
	}
	if _, ok := Clarification[items]("why").Payload(); ok {
		t.Error("Clarification.Payload() reported a payload")
	}
	if k := Success(items{}, "ok").Kind(); k != "" {
		t.Errorf("Success.Kind() = %q, want empty", k)
	}
}

func TestReservedKeys(t *testing.T) {
	type bad struct {
		Message string `json:"message"`
	}
	if _, err := json.Marshal(Success(bad{Message: "x"}, "ok")); err == nil {
		t.Error("payload with a reserved key marshaled")
	}
}
