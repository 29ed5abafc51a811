/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package access resolves the caller's credential for a tool invocation and
// gates every tool on its presence.
package access

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/auth"
)

// ErrUnauthorized is returned by Require when no usable credential exists.
var ErrUnauthorized = errors.New("unauthorized")

// User-facing messages for a failed gate, per tool family.
const (
	SearchUnauthorizedMessage  = "Unauthorized: No access token provided"
	WhistleUnauthorizedMessage = "Authentication required. Please sign in to continue."
	UserUnauthorizedMessage    = "Unauthorized: please sign in to manage your profile"
)

// Credential identifies the caller. A nil *Credential means no caller.
type Credential struct {
	// ClientID is sent to the backend in the correlation header.
	ClientID string
	Subject  string
}

// Require returns ErrUnauthorized unless cred carries a client id.
func Require(cred *Credential) error {
	if cred == nil || cred.ClientID == "" {
		return ErrUnauthorized
	}
	return nil
}

// Resolver maps the verified token of an invocation to a credential. It
// returns nil when there is no caller.
type Resolver interface {
	Resolve(ctx context.Context, token *auth.TokenInfo) *Credential
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, token *auth.TokenInfo) *Credential

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, token *auth.TokenInfo) *Credential {
	return f(ctx, token)
}

// Claim names read from TokenInfo.Extra.
const (
	ClaimClientID = "client_id"
	ClaimSubject  = "sub"
)

// TokenResolver reads the client id and subject claims of a verified token.
// Without a token it falls back to StaticClientID, which is meant for the
// stdio transport where the operator is the only caller.
type TokenResolver struct {
	StaticClientID string
}

// Resolve implements Resolver.
func (r TokenResolver) Resolve(_ context.Context, token *auth.TokenInfo) *Credential {
	if token == nil {
		if r.StaticClientID == "" {
			return nil
		}
		return &Credential{ClientID: r.StaticClientID, Subject: r.StaticClientID}
	}

	subject, _ := token.Extra[ClaimSubject].(string)
	clientID, _ := token.Extra[ClaimClientID].(string)
	if clientID == "" {
		clientID = subject
	}
	if clientID == "" {
		return nil
	}
	return &Credential{ClientID: clientID, Subject: subject}
}
