/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package access

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/modelcontextprotocol/go-sdk/auth"
)

// NewOIDCVerifier returns a bearer token verifier for the MCP HTTP transport.
// Keys come from jwksURL when set, otherwise from the issuer's discovery
// document. An empty audience skips the audience check.
func NewOIDCVerifier(ctx context.Context, issuer, jwksURL, audience string) (auth.TokenVerifier, error) {
	if issuer == "" {
		return nil, errors.New("access: issuer is required")
	}
	cfg := &oidc.Config{ClientID: audience, SkipClientIDCheck: audience == ""}

	var verifier *oidc.IDTokenVerifier
	if jwksURL != "" {
		verifier = oidc.NewVerifier(issuer, oidc.NewRemoteKeySet(ctx, jwksURL), cfg)
	} else {
		provider, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return nil, fmt.Errorf("access: discovering issuer %q: %w", issuer, err)
		}
		verifier = provider.Verifier(cfg)
	}

	return func(ctx context.Context, token string, _ *http.Request) (*auth.TokenInfo, error) {
		idToken, err := verifier.Verify(ctx, token)
		if err != nil {
			clog.FromContext(ctx).With("error", err).Info("Rejected bearer token")
			return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
		}
		return tokenInfo(idToken)
	}, nil
}

func tokenInfo(idToken *oidc.IDToken) (*auth.TokenInfo, error) {
	claims := map[string]any{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: decoding claims: %w", auth.ErrInvalidToken, err)
	}
	claims[ClaimSubject] = idToken.Subject

	var scopes []string
	if s, ok := claims["scope"].(string); ok {
		scopes = strings.Fields(s)
	}
	return &auth.TokenInfo{
		Scopes:     scopes,
		Expiration: idToken.Expiry,
		Extra:      claims,
	}, nil
}
