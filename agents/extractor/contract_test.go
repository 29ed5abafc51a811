/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"errors"
	"slices"
	"testing"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantErr  bool
		provider Provider
		askAgain bool
	}{{
		name:     "plain json",
		text:     `{"description":"Fixes sinks","alert_radius":5,"tags":["plumbing"],"provider":"yes","expiry":"2030-01-01T00:00:00Z","ask_again":false,"reason":"","confidence_score":0.95}`,
		provider: ProviderYes,
	}, {
		name:     "fenced with boolean provider",
		text:     "```json\n{\"description\":\"Need a plumber\",\"alert_radius\":3,\"tags\":[],\"provider\":false,\"expiry\":\"never\",\"ask_again\":false,\"reason\":\"\",\"confidence_score\":0.8}\n```",
		provider: ProviderNo,
	}, {
		name:     "null provider asking again",
		text:     `{"description":"help","alert_radius":0,"tags":[],"provider":null,"expiry":"never","ask_again":true,"reason":"Need more details","confidence_score":0.2}`,
		provider: ProviderUnknown,
		askAgain: true,
	}, {
		name:    "ask again without reason",
		text:    `{"description":"help","alert_radius":0,"tags":[],"provider":"unknown","expiry":"never","ask_again":true,"reason":"","confidence_score":0.2}`,
		wantErr: true,
	}, {
		name:    "missing confidence",
		text:    `{"description":"x","alert_radius":1,"tags":[],"provider":"yes","expiry":"never","ask_again":false,"reason":""}`,
		wantErr: true,
	}, {
		name:    "unknown field",
		text:    `{"description":"x","alert_radius":1,"tags":[],"provider":"yes","expiry":"never","ask_again":false,"reason":"","confidence_score":1,"extra":1}`,
		wantErr: true,
	}, {
		name:    "not json",
		text:    "I could not decide.",
		wantErr: true,
	}, {
		name:     "prose around a fence",
		text:     "Here is the extraction:\n```json\n{\"description\":\"Fixes sinks\",\"alert_radius\":5,\"tags\":[\"plumbing\"],\"provider\":\"yes\",\"expiry\":\"never\",\"ask_again\":false,\"reason\":\"\",\"confidence_score\":0.9}\n```\nLet me know if anything is off.",
		provider: ProviderYes,
	}, {
		name:    "trailing content after the reply",
		text:    `{"description":"x","alert_radius":1,"tags":[],"provider":"yes","expiry":"never","ask_again":false,"reason":"","confidence_score":1} trailing garbage`,
		wantErr: true,
	}, {
		name:    "empty",
		text:    "  ",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReply() = %+v, want error", got)
				}
				if !errors.Is(err, errMalformedReply) && !errors.Is(err, ErrInvalidWhistleData) {
					t.Errorf("parseReply() error = %v, want malformed or invalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReply() error = %v", err)
			}
			if got.Provider() != tt.provider {
				t.Errorf("Provider() = %v, want %v", got.Provider(), tt.provider)
			}
			if got.AskAgain() != tt.askAgain {
				t.Errorf("AskAgain() = %v, want %v", got.AskAgain(), tt.askAgain)
			}
		})
	}
}

func TestReplySchemaRequiresEveryField(t *testing.T) {
	want := []string{"alert_radius", "ask_again", "confidence_score", "description", "expiry", "provider", "reason", "tags"}
	got := slices.Sorted(slices.Values(replySchema.Required))
	if !slices.Equal(got, want) {
		t.Errorf("Required = %v, want %v", got, want)
	}
}
