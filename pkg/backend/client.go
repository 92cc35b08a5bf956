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

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/leadline-ai/leadline/pkg/httpclient"
)

// Client talks to the Leadline backend agents API.
type Client struct {
	baseURL string
	token   string
	http    *httpclient.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken attaches a bearer token to every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the retrying transport (tests).
func WithHTTPClient(hc *httpclient.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a backend client for the given base URL
// (e.g. "https://api.leadline.example").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAgent deploys a new agent and returns the created record.
func (c *Client) CreateAgent(ctx context.Context, agent *ServerAgent) (*ServerAgent, error) {
	var created ServerAgent
	if err := c.do(ctx, http.MethodPost, "/api/agents/", agent, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAgent overwrites an existing agent.
func (c *Client) UpdateAgent(ctx context.Context, id string, agent *ServerAgent) (*ServerAgent, error) {
	var updated ServerAgent
	if err := c.do(ctx, http.MethodPut, "/api/agents/"+id, agent, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetAgent fetches an agent record for edit mode.
func (c *Client) GetAgent(ctx context.Context, id string) (*ServerAgent, error) {
	var agent ServerAgent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+id, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Chat sends one test-conversation turn to a saved agent.
func (c *Client) Chat(ctx context.Context, id string, req *ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/agents/"+id+"/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// readDetail extracts the backend's {detail} error payload, falling
// back to the raw body when it is not JSON.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
