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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadline-ai/leadline/pkg/backend"
	"github.com/leadline-ai/leadline/pkg/config"
	"github.com/leadline-ai/leadline/pkg/deploy"
	"github.com/leadline-ai/leadline/pkg/httpclient"
	"github.com/leadline-ai/leadline/pkg/observability"
	"github.com/leadline-ai/leadline/pkg/server"
	"github.com/leadline-ai/leadline/pkg/sim"
	"github.com/leadline-ai/leadline/pkg/storage"
	"github.com/leadline-ai/leadline/pkg/wizard"
)

// ServeCmd starts the wizard server.
type ServeCmd struct {
	Port    int    `help:"Port to listen on (overrides config)."`
	Session string `help:"Resume an existing wizard session by id."`
	Watch   bool   `help:"Watch config file for changes."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	cfg, loader, err := loadConfig(ctx, cli.Config)
	if err != nil {
		return err
	}
	if loader != nil {
		defer loader.Close()
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	if c.Watch && loader != nil {
		go func() {
			if err := loader.Watch(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Config watch error", "error", err)
			}
		}()
	}

	kv, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer kv.Close()

	storeOpts := []wizard.Option{wizard.WithStorage(kv)}
	if c.Session != "" {
		storeOpts = append(storeOpts, wizard.WithSessionID(c.Session))
	}
	store := wizard.New(storeOpts...)
	store.Rehydrate(ctx)

	client := newBackendClient(cfg)
	coordinator := deploy.New(client, store)
	simulator := sim.New()

	metrics, err := observability.InitMetrics(ctx, cfg.Metrics.IsEnabled())
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	srv := server.New(cfg, store, coordinator, simulator, metrics)

	fmt.Printf("\nLeadline wizard ready on http://%s\n", cfg.Server.Addr())
	fmt.Printf("   Wizard:   http://%s/v1/wizard\n", cfg.Server.Addr())
	fmt.Printf("   Health:   http://%s/healthz\n", cfg.Server.Addr())
	if cfg.Metrics.IsEnabled() {
		fmt.Printf("   Metrics:  http://%s/metrics\n", cfg.Server.Addr())
	}
	if cfg.Storage.Type == storage.TypeMemory {
		fmt.Printf("   Drafts:   in-memory (not persisted)\n")
	} else {
		fmt.Printf("   Drafts:   %s (%s)\n", cfg.Storage.Type, cfg.Storage.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Run(ctx)
}

// newBackendClient builds the agents API client with the retry policy
// from config.
func newBackendClient(cfg *config.Config) *backend.Client {
	hc := httpclient.New(
		httpclient.WithMaxRetries(cfg.Backend.MaxRetries),
		httpclient.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		}),
	)
	opts := []backend.ClientOption{backend.WithHTTPClient(hc)}
	if cfg.Backend.Token != "" {
		opts = append(opts, backend.WithToken(cfg.Backend.Token))
	}
	return backend.NewClient(cfg.Backend.BaseURL, opts...)
}
