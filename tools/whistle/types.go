/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package whistle

import (
	"encoding/json"

	"github.com/dowhistle/dowhistle-mcp/backend"
)

// Whistle is the view of a backend whistle returned to the caller.
type Whistle struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	AlertRadius float64  `json:"alert_radius"`
	Expiry      string   `json:"expiry"`
	Provider    *bool    `json:"provider"`
	Active      bool     `json:"active"`
}

func fromBackend(w backend.Whistle) Whistle {
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}
	return Whistle{
		ID:          w.ID,
		Description: w.Description,
		Tags:        tags,
		AlertRadius: w.AlertRadius,
		Expiry:      w.Expiry,
		Provider:    w.Provider,
		Active:      w.Active,
	}
}

func fromBackendAll(ws []backend.Whistle, keep func(backend.Whistle) bool) []Whistle {
	out := make([]Whistle, 0, len(ws))
	for _, w := range ws {
		if keep == nil || keep(w) {
			out = append(out, fromBackend(w))
		}
	}
	return out
}

// CreateInput are the arguments of create_whistle.
type CreateInput struct {
	UserInput string
	// ConfidenceThreshold defaults to decision.DefaultThreshold when nil.
	ConfidenceThreshold *float64
}

// CreateResult is the payload of a created whistle.
type CreateResult struct {
	Whistle          *Whistle  `json:"whistle"`
	MatchingWhistles []Whistle `json:"matching_whistles"`
	MatchingCount    int       `json:"matching_count"`
}

func (r CreateResult) MarshalJSON() ([]byte, error) {
	type plain CreateResult
	if r.MatchingWhistles == nil {
		r.MatchingWhistles = []Whistle{}
	}
	return json.Marshal(plain(r))
}

// ListInput are the arguments of list_whistles.
type ListInput struct {
	ActiveOnly bool
}

// ListResult is the payload of list_whistles.
type ListResult struct {
	Whistles []Whistle `json:"whistles"`
	Count    int       `json:"count"`
}

func (r ListResult) MarshalJSON() ([]byte, error) {
	type plain ListResult
	if r.Whistles == nil {
		r.Whistles = []Whistle{}
	}
	return json.Marshal(plain(r))
}
