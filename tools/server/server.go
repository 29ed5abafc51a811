/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the whistle, search and user tools over MCP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/dowhistle/dowhistle-mcp/agents/agenttrace"
	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/response"
	"github.com/dowhistle/dowhistle-mcp/tools/search"
	"github.com/dowhistle/dowhistle-mcp/tools/user"
	"github.com/dowhistle/dowhistle-mcp/tools/whistle"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and the orchestrators behind its tools.
type Server struct {
	resolver access.Resolver
	whistles *whistle.Orchestrator
	search   *search.Orchestrator
	users    *user.Orchestrator
	server   *mcp.Server
}

// New creates the MCP server and registers every tool.
func New(resolver access.Resolver, whistles *whistle.Orchestrator, searcher *search.Orchestrator, users *user.Orchestrator, version string) *Server {
	s := &Server{
		resolver: resolver,
		whistles: whistles,
		search:   searcher,
		users:    users,
	}

	impl := &mcp.Implementation{
		Name:    "dowhistle",
		Version: version,
	}
	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.server }

// RunStdio serves a single client over stdin/stdout until ctx is done.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler. When verifier is non-nil every
// request must carry a valid bearer token, which reaches the tools as
// TokenInfo.
func (s *Server) Handler(verifier auth.TokenVerifier) http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
	if verifier == nil {
		return h
	}
	return auth.RequireBearerToken(verifier, nil)(h)
}

// invoke runs fn for one tool call: it tags ctx with the invocation, resolves
// the credential, and records the outcome. Domain failures are returned as
// envelopes, never as protocol errors.
func invoke[T any](ctx context.Context, s *Server, tool string, req *mcp.CallToolRequest, fn func(context.Context, *access.Credential) response.Envelope[T]) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	inv := agenttrace.InvocationContext{Tool: tool, RequestID: uuid.NewString()}
	ctx = agenttrace.WithInvocationContext(ctx, inv)

	log := clog.FromContext(ctx).With("tool", tool).With("request_id", inv.RequestID)
	ctx = clog.WithLogger(ctx, log)

	var token *auth.TokenInfo
	if req != nil && req.Extra != nil {
		token = req.Extra.TokenInfo
	}
	cred := s.resolver.Resolve(ctx, token)

	env := fn(ctx, cred)

	elapsed := time.Since(start)
	invocationCounter.WithLabelValues(tool, string(env.Status())).Inc()
	invocationDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
	log.With("status", env.Status()).
		With("error_kind", env.Kind()).
		With("elapsed", elapsed).
		Info("Tool invocation finished")

	return nil, env, nil
}
