// Copyright 2025 Leadline AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the wizard to the form shell over HTTP: draft
// snapshots, path updates, step navigation, tool simulation and the
// deploy pipeline.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/leadline-ai/leadline/pkg/config"
	"github.com/leadline-ai/leadline/pkg/deploy"
	"github.com/leadline-ai/leadline/pkg/observability"
	"github.com/leadline-ai/leadline/pkg/sim"
	"github.com/leadline-ai/leadline/pkg/wizard"
)

// Server is the shell-facing HTTP server for one wizard session.
type Server struct {
	cfg         *config.Config
	store       *wizard.Store
	coordinator *deploy.Coordinator
	simulator   *sim.Simulator
	metrics     *observability.Metrics

	httpServer *http.Server
}

// New assembles the server around a wizard session.
func New(cfg *config.Config, store *wizard.Store, coordinator *deploy.Coordinator, simulator *sim.Simulator, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		coordinator: coordinator,
		simulator:   simulator,
		metrics:     metrics,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Metrics.IsEnabled() {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	r.Route("/v1/wizard", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Put("/", s.handleReplace)
		r.Patch("/path", s.handleUpdateAtPath)
		r.Post("/step", s.handleStep)
		r.Post("/reset", s.handleReset)
		r.Get("/validation", s.handleValidation)
		r.Post("/simulate/{tool}", s.handleSimulate)
		r.Post("/deploy", s.handleDeploy)
		r.Post("/agents/{id}", s.handleUpdate)
		r.Post("/agents/{id}/test", s.handleTest)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Wizard server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down wizard server")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
