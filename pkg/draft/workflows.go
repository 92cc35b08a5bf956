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

import "fmt"

// TriggerConfig enables an event trigger, optionally restricted to a
// set of lead sources.
type TriggerConfig struct {
	// Enabled turns the trigger on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Sources restricts the trigger to leads from these sources. Only
	// honored when lead filtering mode is "filtered".
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// SequenceStep is one entry in an ordered no-response follow-up plan.
// Delays are converted to absolute minutes at transform time.
type SequenceStep struct {
	// ID uniquely identifies the step within its sequence.
	ID string `json:"id" yaml:"id"`

	// Delay is the wait before this step fires, in Unit units. Must be >= 1.
	Delay int `json:"delay" yaml:"delay"`

	// Unit is minutes, hours or days.
	Unit DelayUnit `json:"unit" yaml:"unit"`

	// Message is the outreach message template for this step.
	Message string `json:"message" yaml:"message"`
}

// Validate checks a single sequence step.
func (s *SequenceStep) Validate() error {
	if s.Delay < 1 {
		return fmt.Errorf("step %q: delay must be >= 1, got %d", s.ID, s.Delay)
	}
	if !s.Unit.IsValid() {
		return fmt.Errorf("step %q: invalid unit %q (valid: minutes, hours, days)", s.ID, s.Unit)
	}
	return nil
}

// NoResponseFollowUp re-engages leads that stop responding.
type NoResponseFollowUp struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DelayHours is the legacy single-step delay, used when Sequence
	// is empty.
	DelayHours int `json:"delayHours,omitempty" yaml:"delayHours,omitempty"`

	// Message is the legacy single-step message template.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Sequence is the ordered multi-step plan. When non-empty it
	// supersedes the legacy DelayHours/Message pair.
	Sequence []SequenceStep `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// AppointmentReminder sends a reminder before a booked appointment.
type AppointmentReminder struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// HoursBefore is how long before the appointment the reminder fires.
	HoursBefore int `json:"hoursBefore,omitempty" yaml:"hoursBefore,omitempty"`

	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// ReEngagement reaches back out to cold leads after a quiet period.
type ReEngagement struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DelayDays is the quiet period before re-engagement.
	DelayDays int `json:"delayDays,omitempty" yaml:"delayDays,omitempty"`

	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FollowUps groups the three follow-up plans.
type FollowUps struct {
	NoResponse          NoResponseFollowUp  `json:"noResponse" yaml:"noResponse"`
	AppointmentReminder AppointmentReminder `json:"appointmentReminder" yaml:"appointmentReminder"`
	ReEngagement        ReEngagement        `json:"reEngagement" yaml:"reEngagement"`
}

// LeadFiltering controls which lead sources may fire triggers.
type LeadFiltering struct {
	// Mode is "all" or "filtered". When "all", Sources is empty.
	Mode LeadFilterMode `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Sources is the allow-list of lead sources for "filtered" mode.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Validate checks the mode enum and the all-mode/sources invariant.
func (f *LeadFiltering) Validate() error {
	if f.Mode != "" && !f.Mode.IsValid() {
		return fmt.Errorf("invalid lead filtering mode %q (valid: all, filtered)", f.Mode)
	}
	if f.Mode == FilterAll && len(f.Sources) > 0 {
		return fmt.Errorf("lead filtering mode %q must not carry sources", FilterAll)
	}
	return nil
}

// Workflows holds triggers, follow-up plans and lead filtering.
type Workflows struct {
	// Triggers maps event tokens (e.g. "new_lead") to their config.
	Triggers map[string]TriggerConfig `json:"triggers,omitempty" yaml:"triggers,omitempty"`

	FollowUps     FollowUps     `json:"followUps" yaml:"followUps"`
	LeadFiltering LeadFiltering `json:"leadFiltering" yaml:"leadFiltering"`
}

// Validate checks workflow invariants: filtering mode and follow-up
// sequence steps (delay bounds, unit enum, unique ids).
func (w *Workflows) Validate() error {
	if err := w.LeadFiltering.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(w.FollowUps.NoResponse.Sequence))
	for i := range w.FollowUps.NoResponse.Sequence {
		step := &w.FollowUps.NoResponse.Sequence[i]
		if err := step.Validate(); err != nil {
			return err
		}
		if seen[step.ID] {
			return fmt.Errorf("duplicate sequence step id %q", step.ID)
		}
		seen[step.ID] = true
	}
	return nil
}
