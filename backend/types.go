/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package backend

// Whistle is a whistle as stored by the backend.
type Whistle struct {
	ID          string   `json:"_id"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	AlertRadius float64  `json:"alertRadius"`
	Expiry      string   `json:"expiry"`
	Provider    *bool    `json:"provider"`
	Active      bool     `json:"active"`
}

// NewWhistle is the body of a create request. A nil Provider means unknown.
type NewWhistle struct {
	Description string   `json:"description"`
	AlertRadius float64  `json:"alertRadius"`
	Tags        []string `json:"tags"`
	Provider    *bool    `json:"provider"`
	Expiry      string   `json:"expiry"`
}

// CreatedWhistle is the backend reply to a create request.
type CreatedWhistle struct {
	Whistle          Whistle   `json:"newWhistle"`
	MatchingWhistles []Whistle `json:"matchingWhistles"`
}

// User is the account profile, including its whistles.
type User struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CountryCode string    `json:"countryCode"`
	Visible     bool      `json:"visible"`
	Whistles    []Whistle `json:"Whistles"`
}

// SearchRequest is the body of a search around a point.
type SearchRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Keyword   string  `json:"keyword"`
	Limit     int     `json:"limit"`
}

// Provider is a business returned by a search.
type Provider struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CountryCode string  `json:"countryCode"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Distance    float64 `json:"distance"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Rating      float64 `json:"rating"`
}

type createWhistleRequest struct {
	Whistle NewWhistle `json:"whistle"`
}

type userEnvelope struct {
	User *User `json:"user"`
}

type searchResponse struct {
	Providers []Provider `json:"providers"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}
