/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"

	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/response"
	"github.com/dowhistle/dowhistle-mcp/tools/search"
	"github.com/dowhistle/dowhistle-mcp/tools/user"
	"github.com/dowhistle/dowhistle-mcp/tools/whistle"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolCreateWhistle    = "create_whistle"
	ToolListWhistles     = "list_whistles"
	ToolSearchBusinesses = "search_businesses"
	ToolToggleVisibility = "toggle_visibility"
	ToolGetUserProfile   = "get_user_profile"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolCreateWhistle,
		Description: "Create a whistle from a natural-language description of a service the user offers or needs. " +
			"Returns status success, clarification_needed (ask the user the returned message), or error.",
	}, s.handleCreateWhistle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListWhistles,
		Description: "List the user's whistles, optionally only the active ones.",
	}, s.handleListWhistles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchBusinesses,
		Description: "Search businesses and service providers near a location.",
	}, s.handleSearchBusinesses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolToggleVisibility,
		Description: "Make the user visible or hidden to other users.",
	}, s.handleToggleVisibility)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetUserProfile,
		Description: "Get the user's profile.",
	}, s.handleGetUserProfile)
}

// CreateWhistleArgs defines input for create_whistle.
type CreateWhistleArgs struct {
	UserInput           string   `json:"user_input" jsonschema:"What the user offers or needs, in their own words (e.g. I can fix kitchen sinks within 5km)"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty" jsonschema:"Minimum extraction confidence between 0 and 1 required to create the whistle (default 0.7)"`
}

func (s *Server) handleCreateWhistle(ctx context.Context, req *mcp.CallToolRequest, args CreateWhistleArgs) (*mcp.CallToolResult, any, error) {
	return invoke(ctx, s, ToolCreateWhistle, req, func(ctx context.Context, cred *access.Credential) response.Envelope[whistle.CreateResult] {
		return s.whistles.Create(ctx, cred, whistle.CreateInput{
			UserInput:           args.UserInput,
			ConfidenceThreshold: args.ConfidenceThreshold,
		})
	})
}

// ListWhistlesArgs defines input for list_whistles.
type ListWhistlesArgs struct {
	ActiveOnly bool `json:"active_only,omitempty" jsonschema:"Only return active whistles (default false)"`
}

func (s *Server) handleListWhistles(ctx context.Context, req *mcp.CallToolRequest, args ListWhistlesArgs) (*mcp.CallToolResult, any, error) {
	return invoke(ctx, s, ToolListWhistles, req, func(ctx context.Context, cred *access.Credential) response.Envelope[whistle.ListResult] {
		return s.whistles.List(ctx, cred, whistle.ListInput{ActiveOnly: args.ActiveOnly})
	})
}

// SearchBusinessesArgs defines input for search_businesses.
type SearchBusinessesArgs struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude of the search centre, between -90 and 90"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude of the search centre, between -180 and 180"`
	Radius    float64 `json:"radius" jsonschema:"Search radius in kilometres"`
	Keyword   string  `json:"keyword,omitempty" jsonschema:"A single keyword such as coffee; only the first of several pipe-separated keywords is used"`
	Limit     int     `json:"limit,omitempty" jsonschema:"Maximum number of results, 1 to 50 (default 10)"`
}

func (s *Server) handleSearchBusinesses(ctx context.Context, req *mcp.CallToolRequest, args SearchBusinessesArgs) (*mcp.CallToolResult, any, error) {
	return invoke(ctx, s, ToolSearchBusinesses, req, func(ctx context.Context, cred *access.Credential) response.Envelope[search.Result] {
		return s.search.Search(ctx, cred, search.Query{
			Latitude:  args.Latitude,
			Longitude: args.Longitude,
			Radius:    args.Radius,
			Keyword:   args.Keyword,
			Limit:     args.Limit,
		})
	})
}

// ToggleVisibilityArgs defines input for toggle_visibility.
type ToggleVisibilityArgs struct {
	Visible any `json:"visible,omitempty" jsonschema:"true to become visible, false to hide; the strings true and false are accepted"`
}

func (s *Server) handleToggleVisibility(ctx context.Context, req *mcp.CallToolRequest, args ToggleVisibilityArgs) (*mcp.CallToolResult, any, error) {
	return invoke(ctx, s, ToolToggleVisibility, req, func(ctx context.Context, cred *access.Credential) response.Envelope[user.Result] {
		return s.users.ToggleVisibility(ctx, cred, args.Visible)
	})
}

// GetUserProfileArgs defines input for get_user_profile.
type GetUserProfileArgs struct{}

func (s *Server) handleGetUserProfile(ctx context.Context, req *mcp.CallToolRequest, _ GetUserProfileArgs) (*mcp.CallToolResult, any, error) {
	return invoke(ctx, s, ToolGetUserProfile, req, func(ctx context.Context, cred *access.Credential) response.Envelope[user.Result] {
		return s.users.Profile(ctx, cred)
	})
}
