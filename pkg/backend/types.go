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

// Package backend holds the flat agent record consumed by the Leadline
// backend and the HTTP client that speaks to it. No other package
// except the transform layer should depend on this shape.
package backend

import "fmt"

// ServerAgent is the flat record the backend stores. Field names follow
// the backend's snake_case wire convention, not the draft's camelCase.
type ServerAgent struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	UseCase     string `json:"use_case,omitempty"`

	PromptTemplate     string `json:"prompt_template"`
	PromptTemplateName string `json:"prompt_template_name,omitempty"`

	PersonalityTraits             []string `json:"personality_traits"`
	PersonalityStyle              string   `json:"personality_style"`
	ResponseLength                string   `json:"response_length"`
	CustomPersonalityInstructions string   `json:"custom_personality_instructions,omitempty"`

	// Model parameters. Temperature is a string on the wire.
	Model       string `json:"model"`
	Temperature string `json:"temperature"`
	MaxTokens   int    `json:"max_tokens"`

	EnabledTools []string       `json:"enabled_tools"`
	ToolConfigs  map[string]any `json:"tool_configs,omitempty"`

	ConversationSettings ConversationSettings `json:"conversation_settings"`

	Triggers      []Trigger      `json:"triggers"`
	Actions       []Action       `json:"actions"`
	WorkflowSteps []WorkflowStep `json:"workflow_steps"`
	Integrations  []any          `json:"integrations"`

	IsActive  bool   `json:"is_active"`
	IsPublic  bool   `json:"is_public"`
	CreatedBy string `json:"created_by"`

	Knowledge           []KnowledgeRecord `json:"knowledge"`
	SampleConversations []any             `json:"sample_conversations"`
}

// ConversationSettings describes which channels the agent answers on.
type ConversationSettings struct {
	VoiceEnabled bool   `json:"voice_enabled"`
	TextEnabled  bool   `json:"text_enabled"`
	ResponseTime string `json:"response_time"`
	Language     string `json:"language"`
}

// Trigger starts the agent on a lead event.
type Trigger struct {
	Event     string   `json:"event"`
	Condition string   `json:"condition"`
	Sources   []string `json:"sources,omitempty"`
}

// Action is a post-conversation side effect, currently only lead-status
// updates.
type Action struct {
	Type     string `json:"type"`
	Status   string `json:"status,omitempty"`
	AssignTo string `json:"assignTo,omitempty"`
}

// WorkflowStep is a scheduled follow-up emitted from the draft's
// workflow configuration.
type WorkflowStep struct {
	ID               string      `json:"id"`
	Type             string      `json:"type"`
	SequencePosition int         `json:"sequence_position,omitempty"`
	Trigger          StepTrigger `json:"trigger"`
	Action           StepAction  `json:"action"`
}

// StepTrigger schedules a workflow step relative to its anchor event.
// DelayMinutes may be negative (fires before the anchor, used for
// appointment reminders).
type StepTrigger struct {
	Event         string `json:"event"`
	DelayMinutes  int    `json:"delay_minutes"`
	OriginalDelay int    `json:"original_delay,omitempty"`
	OriginalUnit  string `json:"original_unit,omitempty"`
}

// StepAction is what a workflow step does when it fires.
type StepAction struct {
	Type         string `json:"type"`
	Template     string `json:"template"`
	TemplateType string `json:"template_type"`
}

// KnowledgeRecord is one knowledge entry attached to the agent. Content
// is a string-keyed record for type "business_profile" and a sequence
// of question/answer pairs for type "faq".
type KnowledgeRecord struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content any    `json:"content"`
}

const (
	KnowledgeBusinessProfile = "business_profile"
	KnowledgeFAQ             = "faq"
)

// ChatRequest is the body of a test-conversation turn.
type ChatRequest struct {
	Message     string  `json:"message"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// ChatResponse is the backend's reply to a test-conversation turn.
type ChatResponse struct {
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
	Success  bool   `json:"success"`
}

// Usage reports token accounting for a chat turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError is a non-2xx response from the backend, carrying the detail
// string from its error payload.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Detail)
}
