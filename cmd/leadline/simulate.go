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
	"encoding/json"
	"fmt"
	"os"

	"github.com/leadline-ai/leadline/pkg/sim"
	"github.com/leadline-ai/leadline/pkg/storage"
	"github.com/leadline-ai/leadline/pkg/wizard"
)

// SimulateCmd runs one tool simulation against the stored draft and
// prints the result as JSON.
type SimulateCmd struct {
	Tool    string `required:"" help:"Tool to simulate: appointment, knowledge, transfer, bailout."`
	Message string `required:"" help:"Customer message to feed the tool."`
	Session string `help:"Wizard session id to load the draft from."`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	ctx := context.Background()

	cfg, loader, err := loadConfig(ctx, cli.Config)
	if err != nil {
		return err
	}
	if loader != nil {
		defer loader.Close()
	}

	store, kv, err := openStore(cfg.Storage, c.Session)
	if err != nil {
		return err
	}
	defer kv.Close()
	store.Rehydrate(ctx)

	result, err := sim.New().Run(ctx, c.Tool, store.Draft(), c.Message)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// openStore opens the configured storage backend and a wizard store
// bound to it.
func openStore(cfg storage.Config, session string) (*wizard.Store, storage.KV, error) {
	kv, err := storage.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	opts := []wizard.Option{wizard.WithStorage(kv)}
	if session != "" {
		opts = append(opts, wizard.WithSessionID(session))
	}
	return wizard.New(opts...), kv, nil
}
