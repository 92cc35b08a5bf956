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

// Package draft defines the canonical editor-shaped agent configuration
// built up by the wizard, together with its defaults and the pure
// completeness predicates used to gate wizard steps and deployment.
//
// A Draft is a tree of records. Unset fields hold an explicit absent
// marker (zero value, nil pointer, or empty map/slice) rather than an
// ambiguous missing key, so the form shell can always distinguish
// "never touched" from "cleared".
package draft

// AgentType selects the overall calling pattern of the agent.
type AgentType string

const (
	AgentTypeInbound        AgentType = "inbound"
	AgentTypeOutbound       AgentType = "outbound"
	AgentTypeCustom         AgentType = "custom"
	AgentTypeConversational AgentType = "conversational"
)

// IsValid reports whether the agent type is a recognized value.
// The empty string is the explicit absent marker and is not valid.
func (t AgentType) IsValid() bool {
	switch t {
	case AgentTypeInbound, AgentTypeOutbound, AgentTypeCustom, AgentTypeConversational:
		return true
	default:
		return false
	}
}

// CommunicationMode is the channel the agent converses over.
type CommunicationMode string

const (
	ModeVoice CommunicationMode = "voice"
	ModeText  CommunicationMode = "text"
	ModeBoth  CommunicationMode = "both"
)

// IsValid reports whether the communication mode is a recognized value.
func (m CommunicationMode) IsValid() bool {
	switch m {
	case ModeVoice, ModeText, ModeBoth:
		return true
	default:
		return false
	}
}

// VoiceEnabled reports whether the mode includes a voice channel.
func (m CommunicationMode) VoiceEnabled() bool {
	return m == ModeVoice || m == ModeBoth
}

// TextEnabled reports whether the mode includes a text channel.
func (m CommunicationMode) TextEnabled() bool {
	return m == ModeText || m == ModeBoth
}

// LeadFilterMode controls which lead sources may fire triggers.
type LeadFilterMode string

const (
	FilterAll      LeadFilterMode = "all"
	FilterFiltered LeadFilterMode = "filtered"
)

// IsValid reports whether the filter mode is a recognized value.
func (m LeadFilterMode) IsValid() bool {
	return m == FilterAll || m == FilterFiltered
}

// DelayUnit is the unit of a follow-up sequence step delay.
type DelayUnit string

const (
	UnitMinutes DelayUnit = "minutes"
	UnitHours   DelayUnit = "hours"
	UnitDays    DelayUnit = "days"
)

// IsValid reports whether the delay unit is a recognized value.
func (u DelayUnit) IsValid() bool {
	switch u {
	case UnitMinutes, UnitHours, UnitDays:
		return true
	default:
		return false
	}
}

// Minutes converts a delay expressed in this unit to absolute minutes.
// Unknown units are treated as hours, matching the transform fallback.
func (u DelayUnit) Minutes(delay int) int {
	switch u {
	case UnitMinutes:
		return delay
	case UnitHours:
		return delay * 60
	case UnitDays:
		return delay * 1440
	default:
		return delay * 60
	}
}

// RuleAction is the lead-status outcome assigned by a conversation rule.
type RuleAction string

const (
	ActionQualified      RuleAction = "qualified"
	ActionAppointmentSet RuleAction = "appointment_set"
	ActionTransferred    RuleAction = "transferred"
	ActionNotInterested  RuleAction = "not_interested"
	ActionUnqualified    RuleAction = "unqualified"
	ActionDiscarded      RuleAction = "discarded"
)

// IsValid reports whether the rule action is a recognized value.
// The empty string is the explicit absent marker and is not valid.
func (a RuleAction) IsValid() bool {
	switch a {
	case ActionQualified, ActionAppointmentSet, ActionTransferred,
		ActionNotInterested, ActionUnqualified, ActionDiscarded:
		return true
	default:
		return false
	}
}

// PresentationFormat is the rendering mode of a knowledge snippet.
type PresentationFormat string

const (
	FormatDirectQuote PresentationFormat = "direct_quote"
	FormatSummarized  PresentationFormat = "summarized"
	FormatContextual  PresentationFormat = "contextual"
)

// IsValid reports whether the presentation format is a recognized value.
func (f PresentationFormat) IsValid() bool {
	switch f {
	case FormatDirectQuote, FormatSummarized, FormatContextual:
		return true
	default:
		return false
	}
}
