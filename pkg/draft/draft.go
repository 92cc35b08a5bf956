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

// Draft is the root entity of the wizard editor: a deeply nested,
// partially validated agent configuration accumulated across the
// editor panels.
//
// Drafts are treated as immutable snapshots by consumers. All mutation
// goes through the wizard store, which clones along the updated path.
type Draft struct {
	// AgentType is selected in step 1 of the wizard.
	AgentType AgentType `json:"agentType,omitempty" yaml:"agentType,omitempty" jsonschema:"title=Agent Type,enum=inbound,enum=outbound,enum=custom,enum=conversational"`

	// Industry is a free-form industry tag (e.g. "home_services").
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty" jsonschema:"title=Industry"`

	// UseCase is a free-form use-case tag (e.g. "lead_qualification").
	UseCase string `json:"useCase,omitempty" yaml:"useCase,omitempty" jsonschema:"title=Use Case"`

	// SelectedTemplate is the starter template chosen in step 1, if any.
	SelectedTemplate *Template `json:"selectedTemplate,omitempty" yaml:"selectedTemplate,omitempty" jsonschema:"title=Selected Template"`

	// BusinessProfile is a string-keyed mapping of business facts.
	// Known keys: businessName, category, serviceArea, businessHours,
	// servicesOffered, pricingInfo, emergencyPolicy. The "faqs" key
	// holds a sequence rather than a string.
	BusinessProfile BusinessProfile `json:"businessProfile,omitempty" yaml:"businessProfile,omitempty" jsonschema:"title=Business Profile"`

	// Persona configures the agent's conversational identity.
	Persona Persona `json:"persona" yaml:"persona" jsonschema:"title=Persona"`

	// Instructions holds the system prompt and tool/workflow references.
	Instructions Instructions `json:"instructions" yaml:"instructions" jsonschema:"title=Instructions"`

	// Rules maps conversation outcomes to lead-status actions.
	Rules Rules `json:"rules" yaml:"rules" jsonschema:"title=Rules"`

	// Scheduling is the appointment-scheduling policy.
	Scheduling Scheduling `json:"scheduling" yaml:"scheduling" jsonschema:"title=Scheduling"`

	// FollowUp is the retry policy for unanswered outreach.
	FollowUp FollowUp `json:"followUp" yaml:"followUp" jsonschema:"title=Follow Up"`

	// Workflows holds triggers, follow-up plans and lead filtering.
	Workflows Workflows `json:"workflows" yaml:"workflows" jsonschema:"title=Workflows"`

	// Tools configures the four simulatable tools.
	Tools Tools `json:"tools" yaml:"tools" jsonschema:"title=Tools"`

	// IsActive marks the agent as active once deployed. Default true.
	IsActive bool `json:"isActive" yaml:"isActive" jsonschema:"title=Is Active,default=true"`

	// FAQ is populated on edit-load from the server knowledge array.
	FAQ []FAQItem `json:"faq,omitempty" yaml:"faq,omitempty" jsonschema:"title=FAQ"`
}

// Template is a starter template selected in step 1.
type Template struct {
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	UseCase        string `json:"useCase,omitempty" yaml:"useCase,omitempty"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	PromptTemplate string `json:"promptTemplate,omitempty" yaml:"promptTemplate,omitempty"`
}

// BusinessProfile is a string-keyed mapping of business facts. Values
// are strings for the known scalar keys; the "faqs" key holds a
// sequence of question/answer pairs.
type BusinessProfile map[string]any

// GetString returns the string value for key, or "" when the key is
// absent or not a string.
func (p BusinessProfile) GetString(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// IsEmpty reports whether the profile carries no data at all.
func (p BusinessProfile) IsEmpty() bool {
	return len(p) == 0
}

// FAQItem is a single question/answer pair.
type FAQItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// IsEmpty reports whether both sides of the pair are blank.
func (f FAQItem) IsEmpty() bool {
	return strings.TrimSpace(f.Question) == "" && strings.TrimSpace(f.Answer) == ""
}

// Persona configures the agent's conversational identity.
type Persona struct {
	// AgentName is the display name used in conversation and as the
	// deployed agent name.
	AgentName string `json:"agentName,omitempty" yaml:"agentName,omitempty" jsonschema:"title=Agent Name"`

	// Traits is a duplicate-free set of trait identifiers
	// (e.g. "professional", "friendly"). Order is irrelevant.
	Traits []string `json:"traits,omitempty" yaml:"traits,omitempty" jsonschema:"title=Traits"`

	// CommunicationMode selects voice, text or both channels.
	CommunicationMode CommunicationMode `json:"communicationMode,omitempty" yaml:"communicationMode,omitempty" jsonschema:"title=Communication Mode,enum=voice,enum=text,enum=both"`

	// AdditionalInstructions are free-form persona instructions.
	AdditionalInstructions string `json:"additionalInstructions,omitempty" yaml:"additionalInstructions,omitempty"`
}

// HasTrait reports whether the trait set contains id (case-insensitive).
func (p Persona) HasTrait(id string) bool {
	for _, t := range p.Traits {
		if strings.EqualFold(t, id) {
			return true
		}
	}
	return false
}

// AddTrait returns the trait set with id added, preserving set semantics.
func (p Persona) AddTrait(id string) []string {
	if p.HasTrait(id) {
		return p.Traits
	}
	return append(append([]string(nil), p.Traits...), id)
}

// Validate checks the persona invariants.
func (p *Persona) Validate() error {
	seen := make(map[string]bool, len(p.Traits))
	for _, t := range p.Traits {
		key := strings.ToLower(t)
		if seen[key] {
			return fmt.Errorf("duplicate persona trait %q", t)
		}
		seen[key] = true
	}
	if p.CommunicationMode != "" && !p.CommunicationMode.IsValid() {
		return fmt.Errorf("invalid communication mode %q (valid: voice, text, both)", p.CommunicationMode)
	}
	return nil
}

// ToolRef names a tool enabled for the agent.
type ToolRef struct {
	Name string `json:"name" yaml:"name"`
}

// Instructions holds the system prompt and tool/workflow references.
type Instructions struct {
	// SystemPrompt overrides the template prompt when non-empty.
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`

	// TemplateName records which prompt template the prompt came from.
	TemplateName string `json:"templateName,omitempty" yaml:"templateName,omitempty"`

	// Tools lists tools referenced by the prompt. When non-empty it
	// takes precedence over the enabled flags under Draft.Tools.
	Tools []ToolRef `json:"tools,omitempty" yaml:"tools,omitempty"`

	// Workflows are opaque workflow references carried through edits.
	Workflows []map[string]any `json:"workflows,omitempty" yaml:"workflows,omitempty"`
}

// Rule maps one conversation outcome to a lead-status action.
type Rule struct {
	// Action is the lead status to assign, or "" when unset.
	Action RuleAction `json:"action,omitempty" yaml:"action,omitempty"`

	// AssignTo optionally names the user the lead is assigned to.
	AssignTo string `json:"assignTo,omitempty" yaml:"assignTo,omitempty"`

	// Message is shown to the operator when the rule fires.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Validate checks the action enum.
func (r *Rule) Validate() error {
	if r.Action != "" && !r.Action.IsValid() {
		return fmt.Errorf("invalid rule action %q", r.Action)
	}
	return nil
}

// Rules maps each conversation outcome to its rule.
type Rules struct {
	Success Rule `json:"success" yaml:"success"`
	Bailout Rule `json:"bailout" yaml:"bailout"`
	Discard Rule `json:"discard" yaml:"discard"`
}

// Validate checks all three rule actions.
func (r *Rules) Validate() error {
	if err := r.Success.Validate(); err != nil {
		return fmt.Errorf("success: %w", err)
	}
	if err := r.Bailout.Validate(); err != nil {
		return fmt.Errorf("bailout: %w", err)
	}
	if err := r.Discard.Validate(); err != nil {
		return fmt.Errorf("discard: %w", err)
	}
	return nil
}

// Scheduling is the appointment-scheduling policy.
type Scheduling struct {
	// Enabled turns scheduling on for the agent.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Timezone is an IANA zone name, e.g. "America/Chicago".
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`

	// MinNoticeHours is the minimum lead time before a bookable slot.
	MinNoticeHours int `json:"minNoticeHours,omitempty" yaml:"minNoticeHours,omitempty"`

	// MaxPerDay caps bookings per calendar day. Zero means no cap.
	MaxPerDay int `json:"maxPerDay,omitempty" yaml:"maxPerDay,omitempty"`
}

// FollowUp is the retry policy for unanswered outreach.
type FollowUp struct {
	RetryAttempts   int    `json:"retryAttempts,omitempty" yaml:"retryAttempts,omitempty"`
	RetryDelay      int    `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
	MessageTemplate string `json:"messageTemplate,omitempty" yaml:"messageTemplate,omitempty"`
	FinalAction     string `json:"finalAction,omitempty" yaml:"finalAction,omitempty"`
}

// Validate checks the draft's structural invariants. The draft is
// allowed to be incomplete at any point; Validate only rejects states
// the editor should never produce.
func (d *Draft) Validate() error {
	if d.AgentType != "" && !d.AgentType.IsValid() {
		return fmt.Errorf("invalid agent type %q", d.AgentType)
	}
	if err := d.Persona.Validate(); err != nil {
		return fmt.Errorf("persona: %w", err)
	}
	if err := d.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := d.Workflows.Validate(); err != nil {
		return fmt.Errorf("workflows: %w", err)
	}
	if err := d.Tools.Validate(); err != nil {
		return fmt.Errorf("tools: %w", err)
	}
	return nil
}

// New returns a fresh draft with the documented defaults applied.
func New() *Draft {
	d := &Draft{IsActive: true}
	d.SetDefaults()
	return d
}

// SetDefaults fills unset containers and the bailout defaults. It is
// safe to call on a rehydrated draft: explicit values (including
// IsActive=false) are preserved.
func (d *Draft) SetDefaults() {
	if d.BusinessProfile == nil {
		d.BusinessProfile = BusinessProfile{}
	}
	if d.Workflows.Triggers == nil {
		d.Workflows.Triggers = map[string]TriggerConfig{}
	}
	if d.Workflows.LeadFiltering.Mode == "" {
		d.Workflows.LeadFiltering.Mode = FilterAll
	}
	d.Tools.SetDefaults()
}
