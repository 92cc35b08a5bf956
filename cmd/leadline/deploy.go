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

	"github.com/leadline-ai/leadline/pkg/deploy"
)

// DeployCmd deploys the stored draft to the backend agents API.
type DeployCmd struct {
	Session string `help:"Wizard session id to load the draft from."`
	Update  string `help:"Update an existing agent by id instead of creating one." placeholder:"AGENT_ID"`
}

func (c *DeployCmd) Run(cli *CLI) error {
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

	coordinator := deploy.New(newBackendClient(cfg), store)

	if c.Update != "" {
		agent, err := coordinator.Update(ctx, c.Update)
		if err != nil {
			return err
		}
		fmt.Printf("Agent %s updated\n", agent.ID)
		return nil
	}

	agent, err := coordinator.Deploy(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Agent %s deployed: %s\n", agent.ID, agent.Name)
	return nil
}
