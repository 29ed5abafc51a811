/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Provider records whether the whistle offers a service (Yes), requests
// one (No), or could not be determined (Unknown).
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderYes
	ProviderNo
)

// ParseProvider accepts "yes", "no" and "unknown" (case-insensitive).
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return ProviderYes, nil
	case "no", "false":
		return ProviderNo, nil
	case "unknown", "":
		return ProviderUnknown, nil
	}
	return ProviderUnknown, fmt.Errorf("invalid provider %q", s)
}

func (p Provider) String() string {
	switch p {
	case ProviderYes:
		return "yes"
	case ProviderNo:
		return "no"
	default:
		return "unknown"
	}
}

// Bool returns the provider flag as the backend stores it: nil for unknown.
func (p Provider) Bool() *bool {
	switch p {
	case ProviderYes:
		b := true
		return &b
	case ProviderNo:
		b := false
		return &b
	default:
		return nil
	}
}

const neverToken = "never"

// Expiry is either Never or a UTC instant. The zero value is Never.
type Expiry struct {
	at time.Time
}

// Never is the expiry of a whistle that does not expire.
var Never = Expiry{}

// ExpiresAt returns an expiry at t, normalized to UTC.
func ExpiresAt(t time.Time) Expiry {
	return Expiry{at: t.UTC()}
}

// ParseExpiry accepts "never" (case-insensitive) or an RFC 3339 timestamp.
func ParseExpiry(s string) (Expiry, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, neverToken) {
		return Never, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Never, fmt.Errorf("expiry %q is neither %q nor RFC 3339", s, neverToken)
	}
	return ExpiresAt(t), nil
}

// IsNever reports whether the expiry is Never.
func (e Expiry) IsNever() bool { return e.at.IsZero() }

// Time returns the expiry instant; ok is false for Never.
func (e Expiry) Time() (t time.Time, ok bool) {
	return e.at, !e.at.IsZero()
}

// String renders "never" or an RFC 3339 UTC timestamp.
func (e Expiry) String() string {
	if e.IsNever() {
		return neverToken
	}
	return e.at.Format(time.RFC3339)
}

// Fields is the unvalidated input to NewWhistleData.
type Fields struct {
	Description     string
	AlertRadius     float64
	Tags            []string
	Provider        Provider
	Expiry          string
	AskAgain        bool
	Reason          string
	ConfidenceScore float64
}

// ErrInvalidWhistleData is wrapped by every NewWhistleData error.
var ErrInvalidWhistleData = errors.New("invalid whistle data")

// WhistleData is an extraction result that satisfies every field invariant.
// It is only constructed through NewWhistleData.
type WhistleData struct {
	description     string
	alertRadius     float64
	tags            []string
	provider        Provider
	expiry          Expiry
	askAgain        bool
	reason          string
	confidenceScore float64
}

// NewWhistleData validates f and returns the corresponding WhistleData.
//
// A request to ask again must carry a reason. The confidence score must lie
// in [0,1]. The alert radius must be positive, or zero when asking again.
// A committed (non ask-again) result needs a description. Tags are trimmed
// and empty tags dropped, keeping order.
func NewWhistleData(f Fields) (*WhistleData, error) {
	reason := strings.TrimSpace(f.Reason)
	if f.AskAgain && reason == "" {
		return nil, fmt.Errorf("%w: ask_again requires a reason", ErrInvalidWhistleData)
	}
	if math.IsNaN(f.ConfidenceScore) || f.ConfidenceScore < 0 || f.ConfidenceScore > 1 {
		return nil, fmt.Errorf("%w: confidence_score %v outside [0,1]", ErrInvalidWhistleData, f.ConfidenceScore)
	}
	switch {
	case math.IsNaN(f.AlertRadius) || math.IsInf(f.AlertRadius, 0):
		return nil, fmt.Errorf("%w: alert_radius %v is not finite", ErrInvalidWhistleData, f.AlertRadius)
	case f.AlertRadius < 0:
		return nil, fmt.Errorf("%w: alert_radius %v is negative", ErrInvalidWhistleData, f.AlertRadius)
	case f.AlertRadius == 0 && !f.AskAgain:
		return nil, fmt.Errorf("%w: alert_radius must be positive", ErrInvalidWhistleData)
	}
	description := strings.TrimSpace(f.Description)
	if description == "" && !f.AskAgain {
		return nil, fmt.Errorf("%w: description is empty", ErrInvalidWhistleData)
	}
	expiry, err := ParseExpiry(f.Expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWhistleData, err)
	}
	if f.Provider < ProviderUnknown || f.Provider > ProviderNo {
		return nil, fmt.Errorf("%w: provider %d out of range", ErrInvalidWhistleData, int(f.Provider))
	}

	tags := make([]string, 0, len(f.Tags))
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return &WhistleData{
		description:     description,
		alertRadius:     f.AlertRadius,
		tags:            tags,
		provider:        f.Provider,
		expiry:          expiry,
		askAgain:        f.AskAgain,
		reason:          reason,
		confidenceScore: f.ConfidenceScore,
	}, nil
}

func (w *WhistleData) Description() string { return w.description }
func (w *WhistleData) AlertRadius() float64 { return w.alertRadius }

// Tags returns a copy of the tags.
func (w *WhistleData) Tags() []string { return slices.Clone(w.tags) }

func (w *WhistleData) Provider() Provider       { return w.provider }
func (w *WhistleData) Expiry() Expiry           { return w.expiry }
func (w *WhistleData) AskAgain() bool           { return w.askAgain }
func (w *WhistleData) Reason() string           { return w.reason }
func (w *WhistleData) ConfidenceScore() float64 { return w.confidenceScore }
