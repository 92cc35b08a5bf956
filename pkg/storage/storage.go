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

// Package storage provides the durable key/value store behind the
// wizard's best-effort draft persistence.
//
// The wizard writes a single key ("wizardData") holding the serialized
// current draft. Every backend failure is treated as best effort by the
// caller: absence or corruption falls back to defaults and is never
// surfaced to the operator.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a minimal durable key/value store.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend type names accepted by New.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeSQLite = "sqlite"
)

// Config selects and configures a KV backend.
type Config struct {
	// Type is memory, file or sqlite. Default: memory.
	Type string `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"title=Storage Type,enum=memory,enum=file,enum=sqlite,default=memory"`

	// Path is the data file (sqlite) or directory (file). Ignored for
	// the memory backend.
	Path string `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"title=Storage Path"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Type == "" {
		c.Type = TypeMemory
	}
}

// Validate checks the backend selection.
func (c *Config) Validate() error {
	switch c.Type {
	case "", TypeMemory:
		return nil
	case TypeFile, TypeSQLite:
		if c.Path == "" {
			return fmt.Errorf("storage type %q requires a path", c.Type)
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage type %q (supported: memory, file, sqlite)", c.Type)
	}
}

// New creates a KV backend from config.
func New(cfg Config) (KV, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case TypeMemory:
		return NewMemory(), nil
	case TypeFile:
		return NewFile(cfg.Path)
	case TypeSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
