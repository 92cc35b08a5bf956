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

package transform

import (
	"encoding/json"

	"github.com/leadline-ai/leadline/pkg/backend"
	"github.com/leadline-ai/leadline/pkg/draft"
)

// ServerToDraft reconstructs an editor draft from a stored agent, for
// edit mode. The inverse is best-effort: the server shape does not
// carry rules or the original industry, so rules come back as defaults
// and industry as "general".
func ServerToDraft(agent *backend.ServerAgent) *draft.Draft {
	d := draft.New()

	d.AgentType = draft.AgentType(agent.Type)
	d.Industry = "general"
	d.UseCase = agent.UseCase
	d.IsActive = agent.IsActive

	d.Persona = draft.Persona{
		AgentName:              agent.Name,
		Traits:                 append([]string{}, agent.PersonalityTraits...),
		CommunicationMode:      communicationMode(agent.ConversationSettings),
		AdditionalInstructions: agent.CustomPersonalityInstructions,
	}

	d.Instructions = draft.Instructions{
		SystemPrompt: agent.PromptTemplate,
		TemplateName: agent.PromptTemplateName,
	}
	for _, name := range agent.EnabledTools {
		d.Instructions.Tools = append(d.Instructions.Tools, draft.ToolRef{Name: name})
		enableTool(&d.Tools, name)
	}
	restoreToolConfigs(&d.Tools, agent.ToolConfigs)

	for _, record := range agent.Knowledge {
		switch record.Type {
		case backend.KnowledgeBusinessProfile:
			var profile draft.BusinessProfile
			if recode(record.Content, &profile) == nil && profile != nil {
				d.BusinessProfile = profile
			}
		case backend.KnowledgeFAQ:
			var faq []draft.FAQItem
			if recode(record.Content, &faq) == nil {
				d.FAQ = faq
			}
		}
	}

	d.SetDefaults()
	return d
}

func communicationMode(cs backend.ConversationSettings) draft.CommunicationMode {
	switch {
	case cs.VoiceEnabled && cs.TextEnabled:
		return draft.ModeBoth
	case cs.VoiceEnabled:
		return draft.ModeVoice
	case cs.TextEnabled:
		return draft.ModeText
	default:
		return ""
	}
}

func enableTool(t *draft.Tools, name string) {
	switch name {
	case draft.ToolAppointment:
		t.Appointment.Enabled = true
	case draft.ToolBailout:
		t.Bailout.Enabled = true
	case draft.ToolTransfer:
		t.Transfer.Enabled = true
	case draft.ToolKnowledge:
		t.Knowledge.Enabled = true
	}
}

// restoreToolConfigs rehydrates the opaque tool policies stored under
// tool_configs. Unknown or malformed entries are skipped.
func restoreToolConfigs(t *draft.Tools, configs map[string]any) {
	for name, raw := range configs {
		switch name {
		case draft.ToolAppointment:
			var cfg draft.AppointmentTool
			if recode(raw, &cfg) == nil {
				t.Appointment = cfg
			}
		case draft.ToolBailout:
			var cfg draft.BailoutTool
			if recode(raw, &cfg) == nil {
				t.Bailout = cfg
			}
		case draft.ToolTransfer:
			var cfg draft.TransferTool
			if recode(raw, &cfg) == nil {
				t.Transfer = cfg
			}
		case draft.ToolKnowledge:
			var cfg draft.KnowledgeTool
			if recode(raw, &cfg) == nil {
				t.Knowledge = cfg
			}
		}
	}
}

// recode converts between wire-decoded values and typed records via a
// JSON round trip.
func recode(from, to any) error {
	raw, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, to)
}
