/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the dowhistle MCP tool server.
//
// The server exposes create_whistle, list_whistles, search_businesses,
// toggle_visibility and get_user_profile over either streamable HTTP or
// stdio, backed by the dowhistle Express API and an LLM used to turn free
// text into whistles.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/chainguard-dev/terraform-infra-common/pkg/httpmetrics"
	"github.com/chainguard-dev/terraform-infra-common/pkg/profiler"
	"github.com/dowhistle/dowhistle-mcp/agents/extractor"
	"github.com/dowhistle/dowhistle-mcp/backend"
	"github.com/dowhistle/dowhistle-mcp/tools/access"
	"github.com/dowhistle/dowhistle-mcp/tools/search"
	"github.com/dowhistle/dowhistle-mcp/tools/server"
	"github.com/dowhistle/dowhistle-mcp/tools/user"
	"github.com/dowhistle/dowhistle-mcp/tools/whistle"
	"github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// version is set at build time with -ldflags.
var version = "devel"

const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

type config struct {
	Transport   string `env:"MCP_TRANSPORT,default=http"`
	Port        int    `env:"PORT,default=8080"`
	MetricsPort int    `env:"METRICS_PORT,default=2112"`

	// Express API
	BackendURL     string        `env:"EXPRESS_API_BASE_URL,required"`
	BackendHeader  string        `env:"BACKEND_CLIENT_HEADER,default=X-WorkOS-Client-Id"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT,default=30s"`
	BackendRPS     float64       `env:"BACKEND_RPS,default=0"` // 0 means unlimited

	// Extraction model configuration
	ExtractionModel string  `env:"EXTRACTION_MODEL,default=gpt-4o-mini"`
	ExtractionRPS   float64 `env:"EXTRACTION_RPS,default=5"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string  `env:"GEMINI_API_KEY"`
	Project         string  `env:"GOOGLE_CLOUD_PROJECT"` // Defaults to the detected GCP project
	Region          string  `env:"GOOGLE_CLOUD_REGION,default=us-east5"`

	// Bearer token verification for the HTTP transport
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
	AuthAudience string `env:"AUTH_AUDIENCE"`

	// Client id used for every call over stdio
	StaticClientID string `env:"STATIC_CLIENT_ID"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "failed to process config: %v", err)
	}
	if cfg.Transport != transportHTTP && cfg.Transport != transportStdio {
		clog.FatalContextf(ctx, "MCP_TRANSPORT must be %q or %q, got %q", transportHTTP, transportStdio, cfg.Transport)
	}

	// Stdout carries the protocol over stdio, so leave it alone.
	if cfg.Transport == transportHTTP {
		go httpmetrics.ScrapeDiskUsage(ctx)
		profiler.SetupProfiler()
		defer httpmetrics.SetupTracer(ctx)()
	}

	log := clog.FromContext(ctx)

	be, err := backend.New(cfg.BackendURL,
		backend.WithHTTPClient(&http.Client{
			Timeout:   cfg.BackendTimeout,
			Transport: httpmetrics.Transport,
		}),
		backend.WithClientHeader(cfg.BackendHeader),
		backend.WithLimiter(limiter(cfg.BackendRPS)),
	)
	if err != nil {
		clog.FatalContextf(ctx, "failed to create backend client: %v", err)
	}

	log.With("model", cfg.ExtractionModel).Info("Initializing whistle extractor")
	ex, err := extractor.New(ctx, extractor.Config{
		Model:           cfg.ExtractionModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		Project:         cfg.Project,
		Region:          cfg.Region,
		HTTPClient:      &http.Client{Transport: httpmetrics.Transport},
	}, extractor.WithLimiter(limiter(cfg.ExtractionRPS)))
	if err != nil {
		clog.FatalContextf(ctx, "failed to create extractor: %v", err)
	}

	resolver := access.TokenResolver{}
	if cfg.Transport == transportStdio {
		resolver.StaticClientID = cfg.StaticClientID
	}

	srv := server.New(resolver,
		whistle.New(ex, be),
		search.New(be),
		user.New(be),
		version,
	)

	switch cfg.Transport {
	case transportStdio:
		if cfg.StaticClientID == "" {
			log.Warn("STATIC_CLIENT_ID is not set, every tool call will be unauthorized")
		}
		log.Info("Serving MCP over stdio")
		if err := srv.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
			clog.FatalContextf(ctx, "stdio server failed: %v", err)
		}

	case transportHTTP:
		var verifier auth.TokenVerifier
		if cfg.AuthIssuer != "" {
			verifier, err = access.NewOIDCVerifier(ctx, cfg.AuthIssuer, cfg.AuthJWKSURL, cfg.AuthAudience)
			if err != nil {
				clog.FatalContextf(ctx, "failed to create token verifier: %v", err)
			}
		} else {
			log.Warn("AUTH_ISSUER is not set, requests carry no credential and every tool call will be unauthorized")
		}

		mux := http.NewServeMux()
		mux.Handle("/mcp", httpmetrics.Handler("mcp", srv.Handler(verifier)))
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		if err := serve(ctx,
			&http.Server{Addr: listenAddr(cfg.Port), Handler: mux, ReadHeaderTimeout: 10 * time.Second},
			&http.Server{Addr: listenAddr(cfg.MetricsPort), Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second},
		); err != nil {
			clog.FatalContextf(ctx, "server failed: %v", err)
		}
	}
	log.Info("Server stopped")
}

// limiter returns nil for an unlimited rate.
func limiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func listenAddr(port int) string {
	return net.JoinHostPort("", strconv.Itoa(port))
}

// serve runs every server until ctx is done or one of them fails, then shuts
// all of them down.
func serve(ctx context.Context, servers ...*http.Server) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		eg.Go(func() error {
			clog.FromContext(ctx).With("addr", s.Addr).Info("Listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listening on %s: %w", s.Addr, err)
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		})
	}
	return eg.Wait()
}
