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
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/leadline-ai/leadline/pkg/config"
	"github.com/leadline-ai/leadline/pkg/draft"
)

// SchemaCmd generates JSON Schema from the agent draft structs. The
// wizard shell uses this schema to render and validate its forms.
// Output goes to stdout so it can be redirected.
type SchemaCmd struct {
	// Target selects which schema to emit
	Target string `arg:"" optional:"" help:"Schema to emit: draft or config." default:"draft" enum:"draft,config"`

	// Compact enables compact JSON output (no indentation)
	Compact bool `short:"c" help:"Compact JSON output (no indentation)."`
}

func (c *SchemaCmd) Run(cli *CLI) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var schema *jsonschema.Schema
	switch c.Target {
	case "config":
		schema = reflector.Reflect(&config.Config{})
		schema.ID = "https://leadline.ai/schemas/config.json"
		schema.Title = "Leadline Wizard Configuration Schema"
		schema.Description = "Service configuration for the Leadline agent wizard"
	default:
		schema = reflector.Reflect(&draft.Draft{})
		schema.ID = "https://leadline.ai/schemas/draft.json"
		schema.Title = "Leadline Agent Draft Schema"
		schema.Description = "Working agent configuration edited by the wizard"
	}
	schema.Version = "http://json-schema.org/draft-07/schema#"

	encoder := json.NewEncoder(os.Stdout)
	if !c.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}
