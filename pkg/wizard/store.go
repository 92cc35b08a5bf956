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

// Package wizard owns the single agent draft of an editing session.
//
// The store is single-writer: one wizard session, one store, owned by
// the shell. Snapshots returned by Draft are immutable; every mutation
// clones along the updated path and swaps in a fresh root, so
// consumers that memoize on snapshot identity remain correct.
//
// Persistence is best effort. The current draft is serialized to the
// durable key/value store under a fixed key on every significant
// mutation; absence or corruption on rehydrate silently falls back to
// defaults.
package wizard

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/leadline-ai/leadline/pkg/draft"
	"github.com/leadline-ai/leadline/pkg/storage"
)

// DataKey is the fixed durable-storage key holding the in-progress
// wizard state.
const DataKey = "wizardData"

// Wizard step bounds.
const (
	MinStep = 1
	MaxStep = 3
)

// envelope is the persisted wizard state.
type envelope struct {
	SessionID string            `json:"sessionId,omitempty"`
	Step      int               `json:"step"`
	Errors    map[string]string `json:"errors,omitempty"`
	Draft     *draft.Draft      `json:"draft"`
}

// Store owns the draft for one wizard session.
type Store struct {
	mu        sync.Mutex
	sessionID string
	current   *draft.Draft
	step      int
	errs      map[string]string

	kv storage.KV // nil disables persistence

	listeners map[int]func(*draft.Draft)
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithStorage enables best-effort persistence against kv.
func WithStorage(kv storage.KV) Option {
	return func(s *Store) {
		s.kv = kv
	}
}

// WithSessionID pins the session identifier (otherwise a random uuid).
func WithSessionID(id string) Option {
	return func(s *Store) {
		s.sessionID = id
	}
}

// New creates a store holding a fresh default draft.
func New(opts ...Option) *Store {
	s := &Store{
		current:   draft.New(),
		step:      MinStep,
		errs:      map[string]string{},
		listeners: map[int]func(*draft.Draft){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	return s
}

// SessionID returns the wizard session identifier.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Draft returns the current snapshot. The snapshot is immutable:
// callers must not mutate it, and the store never will.
func (s *Store) Draft() *draft.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Step returns the current wizard step.
func (s *Store) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SetStep moves to step n, clamped to the valid range.
func (s *Store) SetStep(n int) {
	s.mu.Lock()
	s.step = clampStep(n)
	d := s.current
	s.mu.Unlock()
	s.commit(d)
}

// NextStep advances one step, clamped to the last step.
func (s *Store) NextStep() {
	s.mu.Lock()
	s.step = clampStep(s.step + 1)
	d := s.current
	s.mu.Unlock()
	s.commit(d)
}

// PrevStep goes back one step, clamped to the first step.
func (s *Store) PrevStep() {
	s.mu.Lock()
	s.step = clampStep(s.step - 1)
	d := s.current
	s.mu.Unlock()
	s.commit(d)
}

func clampStep(n int) int {
	if n < MinStep {
		return MinStep
	}
	if n > MaxStep {
		return MaxStep
	}
	return n
}

// Errors returns a copy of the per-operation error map.
func (s *Store) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// SetErrors replaces the error map.
func (s *Store) SetErrors(errs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = make(map[string]string, len(errs))
	for k, v := range errs {
		s.errs[k] = v
	}
}

// SetError records one operation error (e.g. "deploy", "update").
func (s *Store) SetError(op, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[op] = msg
}

// ClearErrors drops all recorded errors.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = map[string]string{}
}

// UpdateAtPath writes value at the dotted path (e.g.
// "workflows.followUps.noResponse.delayHours"), cloning every record
// along the path. Missing map intermediates are created; paths that
// traverse non-records are rejected without mutating anything.
//
// Two updates on non-overlapping paths commute; on overlapping paths
// the last writer wins in issuance order.
func (s *Store) UpdateAtPath(path string, value any) (*draft.Draft, error) {
	s.mu.Lock()
	next, err := setPath(s.current, path, value)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = next
	s.mu.Unlock()

	s.commit(next)
	return next, nil
}

// Replace shallow-merges partial at the root: every top-level key
// present in partial atomically replaces the corresponding draft
// field. Unknown keys are rejected.
func (s *Store) Replace(partial map[string]any) (*draft.Draft, error) {
	s.mu.Lock()
	next := *s.current
	for key, value := range partial {
		replaced, err := setPath(&next, key, value)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		next = *replaced
	}
	s.current = &next
	s.mu.Unlock()

	s.commit(&next)
	return &next, nil
}

// Reset restores the documented defaults, clears errors, and returns
// to the first step.
func (s *Store) Reset() *draft.Draft {
	s.mu.Lock()
	s.current = draft.New()
	s.step = MinStep
	s.errs = map[string]string{}
	d := s.current
	s.mu.Unlock()

	s.commit(d)
	return d
}

// Subscribe registers fn to be called with the new snapshot after
// every mutation. Returns an unsubscribe func.
func (s *Store) Subscribe(fn func(*draft.Draft)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Persist serializes the wizard state to durable storage. Best effort:
// failures are logged at debug and swallowed.
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	env := envelope{
		SessionID: s.sessionID,
		Step:      s.step,
		Errors:    s.errs,
		Draft:     s.current,
	}
	kv := s.kv
	s.mu.Unlock()

	if kv == nil {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		slog.Debug("Failed to serialize wizard state", "error", err)
		return
	}
	if err := kv.Set(ctx, DataKey, data); err != nil {
		slog.Debug("Failed to persist wizard state", "error", err)
	}
}

// Rehydrate loads persisted wizard state. Absence or parse failure is
// silently ignored and the current (default) state is kept.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	kv := s.kv
	s.mu.Unlock()
	if kv == nil {
		return
	}

	data, err := kv.Get(ctx, DataKey)
	if err != nil {
		if err != storage.ErrNotFound {
			slog.Debug("Failed to read wizard state", "error", err)
		}
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Draft == nil {
		slog.Debug("Ignoring malformed wizard state", "error", err)
		return
	}
	env.Draft.SetDefaults()

	s.mu.Lock()
	s.current = env.Draft
	s.step = clampStep(env.Step)
	if env.Errors != nil {
		s.errs = env.Errors
	}
	d := s.current
	s.mu.Unlock()

	s.notify(d)
}

// commit persists and notifies after a mutation.
func (s *Store) commit(d *draft.Draft) {
	s.Persist(context.Background())
	s.notify(d)
}

func (s *Store) notify(d *draft.Draft) {
	s.mu.Lock()
	fns := make([]func(*draft.Draft), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(d)
	}
}
