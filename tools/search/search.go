/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package search orchestrates search_businesses.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/chainguard-dev/clog"
	"github.com/dowhistle/dowhistle-mcp/backend"
	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/response"
	"github.com/dowhistle/dowhistle-mcp/tools/sanitize"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	noResultsMessage    = "No businesses found nearby"
	searchFailedMessage = "Failed to search businesses. Please try again later."
)

// Backend is the subset of the backend client search uses.
type Backend interface {
	SearchAround(ctx context.Context, clientID string, req backend.SearchRequest) ([]backend.Provider, error)
}

// Query are the arguments of search_businesses.
type Query struct {
	Latitude  float64
	Longitude float64
	Radius    float64
	Keyword   string
	// Limit of 0 means DefaultLimit; other values are clamped to [1, MaxLimit].
	Limit int
}

// Provider is a business in a search result.
type Provider struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	CountryCode string  `json:"country_code"`
	Address     string  `json:"address"`
	Distance    float64 `json:"distance"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Rating      float64 `json:"rating"`
}

// Result is the payload of search_businesses.
type Result struct {
	Providers  []Provider `json:"providers"`
	TotalCount int        `json:"total_count"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.Providers == nil {
		r.Providers = []Provider{}
	}
	return json.Marshal(plain(r))
}

// Orchestrator implements search_businesses.
type Orchestrator struct {
	backend Backend
}

// New returns an Orchestrator.
func New(be Backend) *Orchestrator {
	return &Orchestrator{backend: be}
}

func validate(q Query) error {
	switch {
	case math.IsNaN(q.Latitude) || q.Latitude < -90 || q.Latitude > 90:
		return fmt.Errorf("latitude must be between -90 and 90, got %v", q.Latitude)
	case math.IsNaN(q.Longitude) || q.Longitude < -180 || q.Longitude > 180:
		return fmt.Errorf("longitude must be between -180 and 180, got %v", q.Longitude)
	case math.IsNaN(q.Radius) || math.IsInf(q.Radius, 0) || q.Radius <= 0:
		return fmt.Errorf("radius must be positive, got %v", q.Radius)
	}
	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Search returns providers near the query point.
func (o *Orchestrator) Search(ctx context.Context, cred *access.Credential, q Query) response.Envelope[Result] {
	if err := access.Require(cred); err != nil {
		return response.Failure[Result](response.KindUnauthorized, access.SearchUnauthorizedMessage)
	}
	if err := validate(q); err != nil {
		return response.Failure[Result](response.KindValidation, err.Error())
	}

	req := backend.SearchRequest{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Radius:    q.Radius,
		Keyword:   sanitize.Keyword(q.Keyword),
		Limit:     clampLimit(q.Limit),
	}
	log := clog.FromContext(ctx).With("keyword", req.Keyword).With("radius", req.Radius).With("limit", req.Limit)

	found, err := o.backend.SearchAround(ctx, cred.ClientID, req)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.With("error", err).Error("Searching businesses failed")
		return response.Failure[Result](response.KindCollaborator, searchFailedMessage)
	}

	providers := make([]Provider, 0, len(found))
	for _, p := range found {
		providers = append(providers, Provider{
			ID:          p.ID,
			Name:        p.Name,
			Phone:       p.Phone,
			CountryCode: p.CountryCode,
			Address:     p.Address,
			Distance:    p.Distance,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Rating:      p.Rating,
		})
	}
	log.With("count", len(providers)).Info("Searched businesses")

	msg := noResultsMessage
	if len(providers) > 0 {
		msg = fmt.Sprintf("Found %d business(es) nearby", len(providers))
	}
	return response.Success(Result{Providers: providers, TotalCount: len(providers)}, msg)
}

var _ Backend = (*backend.Client)(nil)
