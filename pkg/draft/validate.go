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

import "strings"

// IsPersonaComplete reports whether the persona panel is complete:
// a non-blank agent name, a valid communication mode, and at least
// two traits.
func IsPersonaComplete(d *Draft) bool {
	if d == nil {
		return false
	}
	if strings.TrimSpace(d.Persona.AgentName) == "" {
		return false
	}
	if !d.Persona.CommunicationMode.IsValid() {
		return false
	}
	return len(d.Persona.Traits) >= 2
}

// IsKnowledgeUsable reports whether the agent has anything to answer
// from: a business name or at least one non-empty FAQ item. Advisory
// only; it does not block deployment.
func IsKnowledgeUsable(d *Draft) bool {
	if d == nil {
		return false
	}
	if strings.TrimSpace(d.BusinessProfile.GetString("businessName")) != "" {
		return true
	}
	for _, item := range d.FAQ {
		if !item.IsEmpty() {
			return true
		}
	}
	return false
}

// CanDeploy reports whether the deploy-time preconditions hold: the
// draft's structural invariants pass and the transform can derive an
// agent name without resorting to the "Unnamed Agent" fallback.
// Description and prompt always have derivable defaults, so a missing
// name source is the only unrecoverable gap.
func CanDeploy(d *Draft) bool {
	if d == nil {
		return false
	}
	if d.Validate() != nil {
		return false
	}
	return NameSource(d) != ""
}

// NameSource returns the deployed agent name without the "Unnamed
// Agent" fallback: the persona name, else the template title, else "".
func NameSource(d *Draft) string {
	if name := strings.TrimSpace(d.Persona.AgentName); name != "" {
		return name
	}
	if d.SelectedTemplate != nil {
		return strings.TrimSpace(d.SelectedTemplate.Title)
	}
	return ""
}

// PromptSource returns the prompt template without the synthetic
// default: the explicit system prompt, else the template prompt,
// else "".
func PromptSource(d *Draft) string {
	if p := strings.TrimSpace(d.Instructions.SystemPrompt); p != "" {
		return p
	}
	if d.SelectedTemplate != nil {
		return strings.TrimSpace(d.SelectedTemplate.PromptTemplate)
	}
	return ""
}

// DescriptionSource returns the description derivation input: the
// business profile company name, else the template description, else
// the agent type (the transform renders "{type} agent for {industry}
// industry" from it). Empty means no description can be derived.
func DescriptionSource(d *Draft) string {
	if company := strings.TrimSpace(d.BusinessProfile.GetString("company_name")); company != "" {
		return company
	}
	if d.SelectedTemplate != nil && strings.TrimSpace(d.SelectedTemplate.Description) != "" {
		return strings.TrimSpace(d.SelectedTemplate.Description)
	}
	return string(d.AgentType)
}
