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

package draft

import (
	"fmt"
	"strings"
)

// Tool kind names, used as keys in enabled-tool lists and as the
// {tool} segment of shell routes.
const (
	ToolAppointment = "appointment"
	ToolBailout     = "bailout"
	ToolTransfer    = "transfer"
	ToolKnowledge   = "knowledge"
)

// ToolState is the common enabled/configured pair shared by all tools.
type ToolState struct {
	// Enabled turns the tool on for the agent.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Configured means the tool-specific policy has been filled in.
	// An enabled but unconfigured tool reports not_configured when
	// simulated.
	Configured bool `json:"configured" yaml:"configured"`

	// TestStatus records the outcome of the last simulator run
	// ("", "passed", "failed").
	TestStatus string `json:"testStatus,omitempty" yaml:"testStatus,omitempty"`
}

// AppointmentType is one bookable appointment category.
type AppointmentType struct {
	// Name is matched case-insensitively against user utterances.
	Name string `json:"name" yaml:"name"`

	// DurationMinutes is the slot length for this type.
	DurationMinutes int `json:"durationMinutes" yaml:"durationMinutes"`
}

// AppointmentTool configures appointment booking.
type AppointmentTool struct {
	ToolState `yaml:",inline"`

	// AppointmentTypes are the bookable categories. When empty the
	// simulator falls back to built-in keyword categories.
	AppointmentTypes []AppointmentType `json:"appointmentTypes,omitempty" yaml:"appointmentTypes,omitempty"`
}

// KnowledgeSource is one source the knowledge tool may answer from.
type KnowledgeSource struct {
	Name string `json:"name" yaml:"name"`

	// Type tags the source kind, e.g. "business_profile" or "faq".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Configured means the source has content behind it.
	Configured bool `json:"configured" yaml:"configured"`
}

// KnowledgeTool configures knowledge-base search.
type KnowledgeTool struct {
	ToolState `yaml:",inline"`

	Sources []KnowledgeSource `json:"sources,omitempty" yaml:"sources,omitempty"`

	// PresentationFormat selects how snippets are rendered:
	// direct_quote, summarized or contextual.
	PresentationFormat PresentationFormat `json:"presentationFormat,omitempty" yaml:"presentationFormat,omitempty"`
}

// DayAvailability is one weekday's availability window for a team.
type DayAvailability struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Start and End are "HH:MM" 24-hour local times.
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// TransferTeam is one live-transfer destination.
type TransferTeam struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`

	// Availability maps lowercase weekday names ("monday") to windows.
	// A nil map means no schedule is known.
	Availability map[string]DayAvailability `json:"availability,omitempty" yaml:"availability,omitempty"`
}

// AvailabilityFallback is surfaced when no team member is reachable.
type AvailabilityFallback struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// TransferTool configures live transfer to human teams.
type TransferTool struct {
	ToolState `yaml:",inline"`

	Teams []TransferTeam `json:"teams,omitempty" yaml:"teams,omitempty"`

	AvailabilityFallback AvailabilityFallback `json:"availabilityFallback" yaml:"availabilityFallback"`
}

// CustomDisposition is an operator-defined conversation outcome.
type CustomDisposition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// BailoutTool configures conversation dispositions and end-of-call
// behavior.
type BailoutTool struct {
	ToolState `yaml:",inline"`

	// Dispositions always contains the six defaults.
	Dispositions []string `json:"dispositions,omitempty" yaml:"dispositions,omitempty"`

	// CustomDispositions are operator-defined outcomes, disjoint from
	// the defaults by name.
	CustomDispositions []CustomDisposition `json:"customDispositions,omitempty" yaml:"customDispositions,omitempty"`

	// EndMessages maps lower_snake(disposition) to a closing message.
	EndMessages map[string]string `json:"endMessages,omitempty" yaml:"endMessages,omitempty"`

	// CRMMapping maps lower_snake(disposition) to a CRM lead status.
	CRMMapping map[string]string `json:"crmMapping,omitempty" yaml:"crmMapping,omitempty"`
}

// DefaultDispositions returns the six built-in dispositions every
// bailout config carries.
func DefaultDispositions() []string {
	return []string{
		"Success/Completed",
		"Appointment set",
		"Transfer",
		"Not interested",
		"Not qualified",
		"Bailout",
	}
}

// Tools configures the four simulatable tools.
type Tools struct {
	Appointment AppointmentTool `json:"appointment" yaml:"appointment"`
	Bailout     BailoutTool     `json:"bailout" yaml:"bailout"`
	Transfer    TransferTool    `json:"transfer" yaml:"transfer"`
	Knowledge   KnowledgeTool   `json:"knowledge" yaml:"knowledge"`
}

// SetDefaults seeds the bailout defaults.
func (t *Tools) SetDefaults() {
	if len(t.Bailout.Dispositions) == 0 {
		t.Bailout.Dispositions = DefaultDispositions()
	}
}

// Validate checks tool invariants: the default dispositions are always
// present and custom dispositions stay disjoint from them by name.
func (t *Tools) Validate() error {
	have := make(map[string]bool, len(t.Bailout.Dispositions))
	for _, d := range t.Bailout.Dispositions {
		have[strings.ToLower(d)] = true
	}
	for _, d := range DefaultDispositions() {
		if !have[strings.ToLower(d)] {
			return fmt.Errorf("bailout dispositions missing default %q", d)
		}
	}
	for _, c := range t.Bailout.CustomDispositions {
		if have[strings.ToLower(c.Name)] {
			return fmt.Errorf("custom disposition %q collides with a default", c.Name)
		}
	}
	if t.Knowledge.PresentationFormat != "" && !t.Knowledge.PresentationFormat.IsValid() {
		return fmt.Errorf("invalid presentation format %q (valid: direct_quote, summarized, contextual)", t.Knowledge.PresentationFormat)
	}
	return nil
}

// EnabledNames returns the names of tools whose Enabled flag is set,
// in the canonical appointment, bailout, transfer, knowledge order.
func (t *Tools) EnabledNames() []string {
	var names []string
	if t.Appointment.Enabled {
		names = append(names, ToolAppointment)
	}
	if t.Bailout.Enabled {
		names = append(names, ToolBailout)
	}
	if t.Transfer.Enabled {
		names = append(names, ToolTransfer)
	}
	if t.Knowledge.Enabled {
		names = append(names, ToolKnowledge)
	}
	return names
}
