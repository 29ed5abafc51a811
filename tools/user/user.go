/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package user orchestrates toggle_visibility and get_user_profile.
package user

import (
	"context"

	"github.com/chainguard-dev/clog"
	"github.com/dowhistle/dowhistle-mcp/backend"
	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/response"
	"github.com/dowhistle/dowhistle-mcp/tools/sanitize"
)

const (
	visibleMessage       = "You are now visible to others"
	hiddenMessage        = "You are now hidden from others"
	profileMessage       = "Profile retrieved successfully"
	updateFailedMessage  = "Failed to update visibility. Please try again later."
	profileFailedMessage = "Failed to fetch profile. Please try again later."
	invalidVisibleFormat = "visible must be true or false"
)

// Backend is the subset of the backend client used for profiles.
type Backend interface {
	Profile(ctx context.Context, clientID string) (*backend.User, error)
	UpdateVisibility(ctx context.Context, clientID string, visible bool) (*backend.User, error)
}

// Profile is the caller's account as returned to the client.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	CountryCode  string `json:"country_code"`
	Visible      bool   `json:"visible"`
	WhistleCount int    `json:"whistle_count"`
}

// Result is the payload of both user tools.
type Result struct {
	Data Profile `json:"data"`
}

func fromBackend(u *backend.User) Profile {
	return Profile{
		ID:           u.ID,
		Name:         u.Name,
		Phone:        u.Phone,
		CountryCode:  u.CountryCode,
		Visible:      u.Visible,
		WhistleCount: len(u.Whistles),
	}
}

// Orchestrator implements the user tools.
type Orchestrator struct {
	backend Backend
}

// New returns an Orchestrator.
func New(be Backend) *Orchestrator {
	return &Orchestrator{backend: be}
}

// ToggleVisibility coerces visible to a strict boolean and stores it. The
// backend must echo back the value sent.
func (o *Orchestrator) ToggleVisibility(ctx context.Context, cred *access.Credential, visible any) response.Envelope[Result] {
	if err := access.Require(cred); err != nil {
		return response.Failure[Result](response.KindUnauthorized, access.UserUnauthorizedMessage)
	}
	want, err := sanitize.Bool(visible)
	if err != nil {
		return response.Failure[Result](response.KindValidation, invalidVisibleFormat)
	}

	log := clog.FromContext(ctx).With("visible", want)
	u, err := o.backend.UpdateVisibility(ctx, cred.ClientID, want)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.With("error", err).Error("Updating visibility failed")
		return response.Failure[Result](response.KindCollaborator, updateFailedMessage)
	}
	if u.Visible != want {
		log.With("echoed", u.Visible).Error("Backend did not apply the visibility change")
		return response.Failure[Result](response.KindCollaborator, updateFailedMessage)
	}

	msg := hiddenMessage
	if want {
		msg = visibleMessage
	}
	return response.Success(Result{Data: fromBackend(u)}, msg)
}

// Profile returns the caller's profile.
func (o *Orchestrator) Profile(ctx context.Context, cred *access.Credential) response.Envelope[Result] {
	if err := access.Require(cred); err != nil {
		return response.Failure[Result](response.KindUnauthorized, access.UserUnauthorizedMessage)
	}

	u, err := o.backend.Profile(ctx, cred.ClientID)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		clog.FromContext(ctx).With("error", err).Error("Fetching profile failed")
		return response.Failure[Result](response.KindCollaborator, profileFailedMessage)
	}
	return response.Success(Result{Data: fromBackend(u)}, profileMessage)
}

var _ Backend = (*backend.Client)(nil)
