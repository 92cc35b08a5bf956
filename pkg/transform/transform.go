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

// Package transform converts between the wizard's editor-shaped draft
// and the backend's flat agent record. It is the only package that
// knows both shapes.
//
// DraftToServer is total: it produces a record for any draft, filling
// gaps with derived defaults. Deploy-time required-field checking is a
// separate concern, exposed through RequiredFields.
package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leadline-ai/leadline/pkg/backend"
	"github.com/leadline-ai/leadline/pkg/draft"
)

// Model defaults applied when the draft does not specify them.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = "0.7"
	DefaultMaxTokens   = 500
)

// personalityStyles in priority order; the first one present in the
// trait set wins.
var personalityStyles = []string{"professional", "friendly", "enthusiastic"}

// DraftToServer derives the flat backend record from a draft.
func DraftToServer(d *draft.Draft) *backend.ServerAgent {
	name := draft.NameSource(d)
	if name == "" {
		name = "Unnamed Agent"
	}
	style := personalityStyle(d.Persona)

	agent := &backend.ServerAgent{
		Name:        name,
		Description: describe(d),
		Type:        string(d.AgentType),
		UseCase:     useCase(d),

		PromptTemplate:     promptTemplate(d, name, style),
		PromptTemplateName: promptTemplateName(d),

		PersonalityTraits:             append([]string{}, d.Persona.Traits...),
		PersonalityStyle:              style,
		ResponseLength:                responseLength(d.Persona.CommunicationMode),
		CustomPersonalityInstructions: d.Persona.AdditionalInstructions,

		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,

		EnabledTools: enabledTools(d),
		ToolConfigs:  toolConfigs(d),

		ConversationSettings: backend.ConversationSettings{
			VoiceEnabled: d.Persona.CommunicationMode.VoiceEnabled(),
			TextEnabled:  d.Persona.CommunicationMode.TextEnabled(),
			ResponseTime: "normal",
			Language:     "en",
		},

		Triggers:      triggers(d),
		Actions:       actions(d),
		WorkflowSteps: workflowSteps(d),
		Integrations:  []any{},

		IsActive:  d.IsActive,
		IsPublic:  false,
		CreatedBy: "user",

		Knowledge:           knowledge(d),
		SampleConversations: []any{},
	}
	return agent
}

// RequiredFields derives the three deploy-required fields without the
// synthetic fallbacks DraftToServer applies. An empty name means the
// draft has no name source at all ("Unnamed Agent" never ships); the
// description and prompt here match what DraftToServer would emit.
func RequiredFields(d *draft.Draft) (name, description, prompt string) {
	name = draft.NameSource(d)
	description = describe(d)
	prompt = promptTemplate(d, name, personalityStyle(d.Persona))
	return name, description, prompt
}

func describe(d *draft.Draft) string {
	if company := strings.TrimSpace(d.BusinessProfile.GetString("company_name")); company != "" {
		desc := "AI agent for " + company
		if area := strings.TrimSpace(d.BusinessProfile.GetString("service_area")); area != "" {
			desc += " serving " + area
		}
		return desc
	}
	if d.SelectedTemplate != nil && strings.TrimSpace(d.SelectedTemplate.Description) != "" {
		return strings.TrimSpace(d.SelectedTemplate.Description)
	}
	industry := strings.ReplaceAll(d.Industry, "_", " ")
	return fmt.Sprintf("%s agent for %s industry", d.AgentType, industry)
}

func useCase(d *draft.Draft) string {
	if d.UseCase != "" {
		return d.UseCase
	}
	if d.SelectedTemplate != nil {
		return d.SelectedTemplate.UseCase
	}
	return ""
}

func personalityStyle(p draft.Persona) string {
	for _, style := range personalityStyles {
		if p.HasTrait(style) {
			return style
		}
	}
	return "professional"
}

func responseLength(mode draft.CommunicationMode) string {
	if mode == draft.ModeVoice {
		return "brief"
	}
	return "moderate"
}

func promptTemplate(d *draft.Draft, name, style string) string {
	if p := draft.PromptSource(d); p != "" {
		return p
	}
	return fmt.Sprintf("You are %s, a helpful AI assistant. Be %s and assist customers with their needs.", name, style)
}

func promptTemplateName(d *draft.Draft) string {
	if d.Instructions.TemplateName != "" {
		return d.Instructions.TemplateName
	}
	if d.SelectedTemplate != nil {
		return d.SelectedTemplate.Name
	}
	return ""
}

// enabledTools prefers the explicit instruction references; the
// per-tool enabled flags are the fallback.
func enabledTools(d *draft.Draft) []string {
	if len(d.Instructions.Tools) > 0 {
		names := make([]string, 0, len(d.Instructions.Tools))
		for _, ref := range d.Instructions.Tools {
			names = append(names, ref.Name)
		}
		return names
	}
	names := d.Tools.EnabledNames()
	if names == nil {
		return []string{}
	}
	return names
}

// toolConfigs carries the editor-side tool policies for enabled tools.
// The backend treats this as opaque.
func toolConfigs(d *draft.Draft) map[string]any {
	configs := map[string]any{}
	if d.Tools.Appointment.Enabled {
		configs[draft.ToolAppointment] = d.Tools.Appointment
	}
	if d.Tools.Bailout.Enabled {
		configs[draft.ToolBailout] = d.Tools.Bailout
	}
	if d.Tools.Transfer.Enabled {
		configs[draft.ToolTransfer] = d.Tools.Transfer
	}
	if d.Tools.Knowledge.Enabled {
		configs[draft.ToolKnowledge] = d.Tools.Knowledge
	}
	if len(configs) == 0 {
		return nil
	}
	return configs
}

func triggers(d *draft.Draft) []backend.Trigger {
	filtered := d.Workflows.LeadFiltering.Mode == draft.FilterFiltered &&
		len(d.Workflows.LeadFiltering.Sources) > 0

	events := make([]string, 0, len(d.Workflows.Triggers))
	for event, cfg := range d.Workflows.Triggers {
		if cfg.Enabled {
			events = append(events, event)
		}
	}
	sort.Strings(events)

	out := make([]backend.Trigger, 0, len(events))
	for _, event := range events {
		trigger := backend.Trigger{Event: event, Condition: "any"}
		if filtered {
			trigger.Sources = append([]string{}, d.Workflows.LeadFiltering.Sources...)
		}
		out = append(out, trigger)
	}
	if len(out) > 0 {
		return out
	}

	// No triggers configured: fall back per agent type.
	switch d.AgentType {
	case draft.AgentTypeInbound:
		return []backend.Trigger{
			{Event: "new_lead", Condition: "any"},
			{Event: "chat_initiated", Condition: "any"},
		}
	case draft.AgentTypeOutbound:
		return []backend.Trigger{
			{Event: "follow_up_due", Condition: "any"},
			{Event: "lead_status_change", Condition: "contacted"},
		}
	default:
		return []backend.Trigger{}
	}
}

func actions(d *draft.Draft) []backend.Action {
	if d.Rules.Success.Action == "" {
		return []backend.Action{}
	}
	return []backend.Action{{
		Type:     "update_lead_status",
		Status:   string(d.Rules.Success.Action),
		AssignTo: d.Rules.Success.AssignTo,
	}}
}

const defaultFollowUpMessage = "Just following up on your inquiry. Are you still interested?"

func workflowSteps(d *draft.Draft) []backend.WorkflowStep {
	steps := []backend.WorkflowStep{}
	fu := d.Workflows.FollowUps

	if fu.NoResponse.Enabled {
		if len(fu.NoResponse.Sequence) > 0 {
			for i, step := range fu.NoResponse.Sequence {
				message := step.Message
				if message == "" {
					message = defaultFollowUpMessage
				}
				steps = append(steps, backend.WorkflowStep{
					ID:               fmt.Sprintf("no_response_sequence_%d", i+1),
					Type:             "time_based_trigger",
					SequencePosition: i + 1,
					Trigger: backend.StepTrigger{
						Event:         "no_response",
						DelayMinutes:  step.Unit.Minutes(step.Delay),
						OriginalDelay: step.Delay,
						OriginalUnit:  string(step.Unit),
					},
					Action: backend.StepAction{
						Type:         "send_message",
						Template:     message,
						TemplateType: "no_response_sequence",
					},
				})
			}
		} else {
			message := fu.NoResponse.Message
			if message == "" {
				message = defaultFollowUpMessage
			}
			steps = append(steps, backend.WorkflowStep{
				ID:   "no_response_followup",
				Type: "time_based_trigger",
				Trigger: backend.StepTrigger{
					Event:        "no_response",
					DelayMinutes: fu.NoResponse.DelayHours * 60,
				},
				Action: backend.StepAction{
					Type:         "send_message",
					Template:     message,
					TemplateType: "no_response_sequence",
				},
			})
		}
	}

	if fu.AppointmentReminder.Enabled {
		message := fu.AppointmentReminder.Message
		if message == "" {
			message = "Reminder: you have an upcoming appointment with us."
		}
		steps = append(steps, backend.WorkflowStep{
			ID:   "appointment_reminder",
			Type: "time_based_trigger",
			Trigger: backend.StepTrigger{
				Event: "appointment_scheduled",
				// Negative delay fires before the anchor event.
				DelayMinutes: -fu.AppointmentReminder.HoursBefore * 60,
			},
			Action: backend.StepAction{
				Type:         "send_message",
				Template:     message,
				TemplateType: "appointment_reminder",
			},
		})
	}

	if fu.ReEngagement.Enabled {
		message := fu.ReEngagement.Message
		if message == "" {
			message = "It's been a while since we last spoke. Can we help with anything?"
		}
		steps = append(steps, backend.WorkflowStep{
			ID:   "reengagement",
			Type: "time_based_trigger",
			Trigger: backend.StepTrigger{
				Event:        "lead_inactive",
				DelayMinutes: fu.ReEngagement.DelayDays * 1440,
			},
			Action: backend.StepAction{
				Type:         "send_message",
				Template:     message,
				TemplateType: "reengagement",
			},
		})
	}

	return steps
}

func knowledge(d *draft.Draft) []backend.KnowledgeRecord {
	records := []backend.KnowledgeRecord{}
	if !d.BusinessProfile.IsEmpty() {
		records = append(records, backend.KnowledgeRecord{
			Type:    backend.KnowledgeBusinessProfile,
			Name:    "Business Profile",
			Content: d.BusinessProfile,
		})
	}
	if len(d.FAQ) > 0 {
		records = append(records, backend.KnowledgeRecord{
			Type:    backend.KnowledgeFAQ,
			Name:    "FAQ",
			Content: d.FAQ,
		})
	}
	return records
}
