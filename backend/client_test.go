/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type recorded struct {
	method string
	path   string
	header http.Header
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.header = r.Method, r.URL.Path, r.Header.Clone()
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &rec.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, rec
}

func TestCreateWhistle(t *testing.T) {
	c, rec := newServer(t, http.StatusCreated, `{
		"newWhistle": {"_id": "whistle-123", "description": "Fixes sinks", "tags": ["plumbing"],
			"alertRadius": 5, "expiry": "2030-01-01T00:00:00Z", "provider": true, "active": true},
		"matchingWhistles": [{"_id": "w9", "description": "Need a plumber", "tags": ["plumbing"],
			"alertRadius": 2, "expiry": "never", "provider": false, "active": true}]
	}`)

	yes := true
	got, err := c.CreateWhistle(context.Background(), "client-1", NewWhistle{
		Description: "Fixes sinks",
		AlertRadius: 5,
		Tags:        []string{"plumbing"},
		Provider:    &yes,
		Expiry:      "2030-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("CreateWhistle() error = %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/whistle" {
		t.Errorf("request = %s %s, want POST /whistle", rec.method, rec.path)
	}
	if got := rec.header.Get(DefaultClientHeader); got != "client-1" {
		t.Errorf("%s = %q, want client-1", DefaultClientHeader, got)
	}
	wantBody := map[string]any{"whistle": map[string]any{
		"description": "Fixes sinks",
		"alertRadius": 5.0,
		"tags":        []any{"plumbing"},
		"provider":    true,
		"expiry":      "2030-01-01T00:00:00Z",
	}}
	if diff := cmp.Diff(wantBody, rec.body); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}
	if got.Whistle.ID != "whistle-123" || len(got.MatchingWhistles) != 1 {
		t.Errorf("CreateWhistle() = %+v", got)
	}
}

func TestCreateWhistleUnknownProvider(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"newWhistle": {"_id": "w1"}, "matchingWhistles": []}`)

	if _, err := c.CreateWhistle(context.Background(), "client-1", NewWhistle{Description: "d", AlertRadius: 1, Expiry: "never"}); err != nil {
		t.Fatalf("CreateWhistle() error = %v", err)
	}
	w := rec.body["whistle"].(map[string]any)
	if v, ok := w["provider"]; !ok || v != nil {
		t.Errorf("provider = %v (present %v), want explicit null", v, ok)
	}
	if diff := cmp.Diff([]any{}, w["tags"]); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}

func TestProfile(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"user": {"_id": "user-1", "name": "Test User", "phone": "5551234",
		"countryCode": "+1", "visible": true,
		"Whistles": [{"_id": "w1", "active": true}, {"_id": "w2", "active": false}]}}`)

	got, err := c.Profile(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/user" {
		t.Errorf("request = %s %s, want GET /user", rec.method, rec.path)
	}
	if rec.header.Get("Content-Type") != "" {
		t.Errorf("GET carried Content-Type %q", rec.header.Get("Content-Type"))
	}
	if got.ID != "user-1" || got.CountryCode != "+1" || !got.Visible || len(got.Whistles) != 2 {
		t.Errorf("Profile() = %+v", got)
	}
}

func TestSearchAround(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"providers": [{"id": "p1", "name": "Coffee Spot", "countryCode": "+1",
		"phone": "5551234", "address": "123 Bean St", "distance": 1.2, "latitude": 12.34, "longitude": 56.78, "rating": 4.5}]}`)

	got, err := c.SearchAround(context.Background(), "client-1", SearchRequest{
		Latitude: 12.34, Longitude: 56.78, Radius: 10, Keyword: "coffee", Limit: 5,
	})
	if err != nil {
		t.Fatalf("SearchAround() error = %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/searchAround" {
		t.Errorf("request = %s %s, want POST /searchAround", rec.method, rec.path)
	}
	wantBody := map[string]any{"latitude": 12.34, "longitude": 56.78, "radius": 10.0, "keyword": "coffee", "limit": 5.0}
	if diff := cmp.Diff(wantBody, rec.body); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}
	want := []Provider{{ID: "p1", Name: "Coffee Spot", CountryCode: "+1", Phone: "5551234",
		Address: "123 Bean St", Distance: 1.2, Latitude: 12.34, Longitude: 56.78, Rating: 4.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchAround() (-want +got):\n%s", diff)
	}
}

func TestUpdateVisibility(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"user": {"_id": "user-1", "visible": false}}`)

	got, err := c.UpdateVisibility(context.Background(), "client-1", false)
	if err != nil {
		t.Fatalf("UpdateVisibility() error = %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/user" {
		t.Errorf("request = %s %s, want PUT /user", rec.method, rec.path)
	}
	if diff := cmp.Diff(map[string]any{"visible": false}, rec.body); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}
	if got.Visible {
		t.Errorf("Visible = true, want false")
	}
}

func TestErrors(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		c, _ := newServer(t, http.StatusBadGateway, `{"message":"upstream down"}`)
		_, err := c.Profile(context.Background(), "client-1")
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
			t.Fatalf("Profile() error = %v, want *StatusError 502", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		c, _ := newServer(t, http.StatusOK, `not json`)
		if _, err := c.Profile(context.Background(), "client-1"); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("Profile() error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		c, _ := newServer(t, http.StatusOK, `{}`)
		if _, err := c.UpdateVisibility(context.Background(), "client-1", true); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("UpdateVisibility() error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{}`)
		if _, err := c.Profile(context.Background(), ""); !errors.Is(err, ErrMissingClientID) {
			t.Fatalf("Profile() error = %v, want ErrMissingClientID", err)
		}
		if rec.method != "" {
			t.Errorf("request was sent without a client id")
		}
	})
}

func TestNoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.SearchAround(context.Background(), "client-1", SearchRequest{Radius: 1, Limit: 1}); err == nil {
		t.Fatal("SearchAround() succeeded against a 503")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestCancelledContextDiscardsResponse(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"user": {"_id": "user-1"}}`)
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithClientHeader("X-Test-Client"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	got, err := c.Profile(ctx, "client-1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Profile() = %+v, %v; want deadline exceeded", got, err)
	}
}

func TestNewValidatesBaseURL(t *testing.T) {
	for _, base := range []string{"", "ftp://example.com", "://bad"} {
		if _, err := New(base); err == nil {
			t.Errorf("New(%q) succeeded", base)
		}
	}
}
