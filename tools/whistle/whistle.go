/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package whistle orchestrates creating and listing whistles.
//
// Create runs the access gate, extracts structured data from the user's
// text, applies the confidence decision, and only on Commit persists the
// whistle. Every path ends in exactly one envelope status.
package whistle

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/dowhistle/dowhistle-mcp/agents/decision"
	"github.com/dowhistle/dowhistle-mcp/agents/extractor"
	"github.com/dowhistle/dowhistle-mcp/backend"
	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/response"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	createdMessage          = "Whistle created successfully"
	extractionFailedMessage = "Sorry, I couldn't process your request right now. Please try again."
	createFailedMessage     = "Failed to create whistle. Please try again later."
	listFailedMessage       = "Failed to fetch whistles. Please try again later."
	emptyInputMessage       = "Please describe the whistle you want to create."
)

var decisionCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dowhistle_whistle_decisions_total",
		Help: "Create-whistle invocations by terminal outcome",
	},
	[]string{"outcome"},
)

// Backend is the subset of the backend client the orchestrator uses.
type Backend interface {
	CreateWhistle(ctx context.Context, clientID string, w backend.NewWhistle) (*backend.CreatedWhistle, error)
	Profile(ctx context.Context, clientID string) (*backend.User, error)
}

// Orchestrator implements create_whistle and list_whistles.
type Orchestrator struct {
	extractor extractor.Interface
	backend   Backend
}

// New returns an Orchestrator.
func New(ex extractor.Interface, be Backend) *Orchestrator {
	return &Orchestrator{extractor: ex, backend: be}
}

// Create turns in.UserInput into a whistle when the extraction is confident
// enough, and asks for clarification otherwise.
func (o *Orchestrator) Create(ctx context.Context, cred *access.Credential, in CreateInput) response.Envelope[CreateResult] {
	log := clog.FromContext(ctx)

	if err := access.Require(cred); err != nil {
		decisionCounter.WithLabelValues("unauthorized").Inc()
		return response.Failure[CreateResult](response.KindUnauthorized, access.WhistleUnauthorizedMessage)
	}

	userInput := strings.TrimSpace(in.UserInput)
	if userInput == "" {
		decisionCounter.WithLabelValues("invalid").Inc()
		return response.Failure[CreateResult](response.KindValidation, emptyInputMessage)
	}
	threshold := decision.DefaultThreshold
	if in.ConfidenceThreshold != nil {
		threshold = *in.ConfidenceThreshold
	}
	if err := decision.ValidateThreshold(threshold); err != nil {
		decisionCounter.WithLabelValues("invalid").Inc()
		return response.Failure[CreateResult](response.KindValidation, err.Error())
	}

	data, err := o.extractor.Extract(ctx, userInput)
	if err != nil {
		log.With("error", err).Error("Whistle extraction failed")
		decisionCounter.WithLabelValues("extraction_failed").Inc()
		return response.Failure[CreateResult](response.KindCollaborator, extractionFailedMessage)
	}

	outcome := decision.Decide(data, threshold)
	log = log.With("decision", outcome.Kind.String()).
		With("confidence", data.ConfidenceScore()).
		With("threshold", threshold)
	if outcome.Kind == decision.ClarificationNeeded {
		log.Info("Whistle needs clarification")
		decisionCounter.WithLabelValues(outcome.Kind.String()).Inc()
		return response.Clarification[CreateResult](outcome.Message)
	}

	created, err := o.backend.CreateWhistle(ctx, cred.ClientID, backend.NewWhistle{
		Description: data.Description(),
		AlertRadius: data.AlertRadius(),
		Tags:        data.Tags(),
		Provider:    data.Provider().Bool(),
		Expiry:      data.Expiry().String(),
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.With("error", err).Error("Creating whistle failed")
		decisionCounter.WithLabelValues("create_failed").Inc()
		return response.Failure[CreateResult](response.KindCollaborator, createFailedMessage)
	}

	w := fromBackend(created.Whistle)
	matching := fromBackendAll(created.MatchingWhistles, nil)
	log.With("whistle_id", w.ID).With("matches", len(matching)).Info("Whistle created")
	decisionCounter.WithLabelValues(outcome.Kind.String()).Inc()

	msg := createdMessage
	if len(matching) > 0 {
		msg = fmt.Sprintf("%s. Found %d matching whistle(s).", createdMessage, len(matching))
	}
	return response.Success(CreateResult{
		Whistle:          &w,
		MatchingWhistles: matching,
		MatchingCount:    len(matching),
	}, msg)
}

// List returns the caller's whistles, optionally only the active ones.
func (o *Orchestrator) List(ctx context.Context, cred *access.Credential, in ListInput) response.Envelope[ListResult] {
	if err := access.Require(cred); err != nil {
		return response.Failure[ListResult](response.KindUnauthorized, access.WhistleUnauthorizedMessage)
	}

	user, err := o.backend.Profile(ctx, cred.ClientID)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		clog.FromContext(ctx).With("error", err).Error("Fetching whistles failed")
		return response.Failure[ListResult](response.KindCollaborator, listFailedMessage)
	}

	var keep func(backend.Whistle) bool
	if in.ActiveOnly {
		keep = func(w backend.Whistle) bool { return w.Active }
	}
	whistles := fromBackendAll(user.Whistles, keep)

	msg := fmt.Sprintf("Found %d whistle(s)", len(whistles))
	if in.ActiveOnly {
		msg = fmt.Sprintf("Found %d active whistle(s)", len(whistles))
	}
	return response.Success(ListResult{Whistles: whistles, Count: len(whistles)}, msg)
}

var _ Backend = (*backend.Client)(nil)
