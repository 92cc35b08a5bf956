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

// Package deploy drives the validate → transform → ship pipeline from
// the wizard draft to the backend agents API. It is the only component
// that surfaces errors to the shell, recorded in the store's error map
// under the operation key.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leadline-ai/leadline/pkg/backend"
	"github.com/leadline-ai/leadline/pkg/draft"
	"github.com/leadline-ai/leadline/pkg/transform"
	"github.com/leadline-ai/leadline/pkg/wizard"
)

// AgentAPI is the slice of the backend client the coordinator needs.
type AgentAPI interface {
	CreateAgent(ctx context.Context, agent *backend.ServerAgent) (*backend.ServerAgent, error)
	UpdateAgent(ctx context.Context, id string, agent *backend.ServerAgent) (*backend.ServerAgent, error)
	Chat(ctx context.Context, id string, req *backend.ChatRequest) (*backend.ChatResponse, error)
}

// Coordinator serializes deploy, update and test operations for one
// wizard session. The mutex both protects the store interaction and
// provides the ordering guarantee: a second test cannot start until the
// previous one resolved, and deploy never runs concurrently with
// update.
type Coordinator struct {
	mu    sync.Mutex
	api   AgentAPI
	store *wizard.Store
}

// New creates a coordinator bound to one wizard store.
func New(api AgentAPI, store *wizard.Store) *Coordinator {
	return &Coordinator{api: api, store: store}
}

// Deploy validates the current draft, ships it as a new agent and, on
// success, resets the draft. On failure the draft is preserved and the
// error is recorded under the "deploy" key.
func (c *Coordinator) Deploy(ctx context.Context) (*backend.ServerAgent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.store.Draft()
	if err := c.validate(d, "deploy"); err != nil {
		return nil, err
	}

	created, err := c.api.CreateAgent(ctx, transform.DraftToServer(d))
	if err != nil {
		return nil, c.fail("deploy", err)
	}

	c.store.Reset()
	return created, nil
}

// Update ships the current draft over an existing agent. The draft is
// kept either way; failures are recorded under the "update" key.
func (c *Coordinator) Update(ctx context.Context, id string) (*backend.ServerAgent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.store.Draft()
	if err := c.validate(d, "update"); err != nil {
		return nil, err
	}

	updated, err := c.api.UpdateAgent(ctx, id, transform.DraftToServer(d))
	if err != nil {
		return nil, c.fail("update", err)
	}

	c.store.ClearErrors()
	return updated, nil
}

// TestRequest is one test-conversation turn against a saved agent.
// Model parameters fall back to the transform defaults when zero.
type TestRequest struct {
	Message     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Test saves the current draft over the agent (a dry-run save: the
// stored agent is mutated) and then runs one chat turn against it.
// Tests are serialized per coordinator.
func (c *Coordinator) Test(ctx context.Context, id string, req TestRequest) (*backend.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.store.Draft()
	if _, err := c.api.UpdateAgent(ctx, id, transform.DraftToServer(d)); err != nil {
		return nil, c.fail("test", err)
	}

	chat := &backend.ChatRequest{
		Message:     req.Message,
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if chat.Model == "" {
		chat.Model = transform.DefaultModel
	}
	if chat.Temperature == 0 {
		chat.Temperature = 0.7
	}
	if chat.MaxTokens == 0 {
		chat.MaxTokens = transform.DefaultMaxTokens
	}

	resp, err := c.api.Chat(ctx, id, chat)
	if err != nil {
		return nil, c.fail("test", err)
	}
	return resp, nil
}

// validate rejects drafts whose required fields cannot be derived,
// before any HTTP request is made.
func (c *Coordinator) validate(d *draft.Draft, op string) error {
	if err := d.Validate(); err != nil {
		verr := &ValidationError{Reason: err.Error()}
		c.store.SetError(op, verr.Error())
		return verr
	}

	name, description, prompt := transform.RequiredFields(d)
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(prompt) == "" {
		missing = append(missing, "prompt_template")
	}
	if len(missing) > 0 {
		verr := &ValidationError{Missing: missing}
		c.store.SetError(op, verr.Error())
		return verr
	}
	return nil
}

// fail converts a client error into the coordinator's error kinds and
// records it in the store.
func (c *Coordinator) fail(op string, err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		derr := &DeployError{StatusCode: apiErr.StatusCode, Detail: apiErr.Detail}
		c.store.SetError(op, derr.Error())
		return derr
	}
	wrapped := fmt.Errorf("%s request failed: %w", op, err)
	c.store.SetError(op, wrapped.Error())
	return wrapped
}
