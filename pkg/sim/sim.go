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

// Package sim rehearses the four agent tools offline against the draft
// configuration, without touching real calendars, knowledge bases or
// phone lines. Results mimic the latency and fallibility of the real
// tools so the operator can see how the agent would behave.
//
// Every tool invocation walks the same state machine:
//
//	disabled            -> no-op (toolUsed false, no delay)
//	enabled, unconfigured -> toolStatus "not_configured"
//	enabled, configured   -> delay, then executed (success or failure)
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/leadline-ai/leadline/pkg/draft"
)

// Tool status values reported on terminal results.
const (
	StatusNotConfigured = "not_configured"
	StatusExecuted      = "executed"
)

// Simulated tool latencies.
const (
	appointmentDelay = 1500 * time.Millisecond
	knowledgeDelay   = 800 * time.Millisecond
	transferDelay    = 1200 * time.Millisecond
	bailoutDelay     = 1000 * time.Millisecond
)

// Result is the outcome of one simulated tool invocation.
type Result struct {
	Success           bool           `json:"success"`
	Message           string         `json:"message"`
	ToolUsed          bool           `json:"toolUsed"`
	ToolStatus        string         `json:"toolStatus,omitempty"`
	Details           map[string]any `json:"details,omitempty"`
	FollowUp          string         `json:"followUp,omitempty"`
	IsConversationEnd bool           `json:"isConversationEnd,omitempty"`
}

// Rand is the random source the simulator draws from. Tests substitute
// a deterministic one.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type stdRand struct{}

func (stdRand) Float64() float64 { return rand.Float64() }
func (stdRand) IntN(n int) int   { return rand.IntN(n) }

// Simulator runs offline tool rehearsals. Construct with New; the zero
// value is not usable.
type Simulator struct {
	rand  Rand
	sleep func(context.Context, time.Duration)
	now   func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(s *Simulator) {
		s.rand = r
	}
}

// WithSleeper replaces the artificial-delay function.
func WithSleeper(fn func(context.Context, time.Duration)) Option {
	return func(s *Simulator) {
		s.sleep = fn
	}
}

// WithClock replaces the wall clock used for dates and availability.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// New creates a simulator with real randomness, real delays and the
// wall clock.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		rand:  stdRand{},
		sleep: wait,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wait blocks for d or until the context is done.
func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Run dispatches to the named tool. Tool names match the draft's tool
// keys: appointment, knowledge, transfer, bailout.
func (s *Simulator) Run(ctx context.Context, tool string, d *draft.Draft, message string) (*Result, error) {
	switch tool {
	case draft.ToolAppointment:
		return s.Appointment(ctx, d, message), nil
	case draft.ToolKnowledge:
		return s.Knowledge(ctx, d, message), nil
	case draft.ToolTransfer:
		return s.Transfer(ctx, d, message), nil
	case draft.ToolBailout:
		return s.Bailout(ctx, d, message), nil
	default:
		return nil, fmt.Errorf("unknown tool %q (valid: appointment, knowledge, transfer, bailout)", tool)
	}
}

// gate enforces the disabled and unconfigured short-circuits. A nil
// return means the tool is live and the kind-specific simulation should
// run after its delay.
func gate(state draft.ToolState, tool string) *Result {
	if !state.Enabled {
		return &Result{
			Success:  false,
			ToolUsed: false,
			Message:  fmt.Sprintf("The %s tool is not enabled for this agent.", tool),
		}
	}
	if !state.Configured {
		return &Result{
			Success:    false,
			ToolUsed:   true,
			ToolStatus: StatusNotConfigured,
			Message:    fmt.Sprintf("The %s tool is enabled but has not been configured yet.", tool),
		}
	}
	return nil
}
