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

package sim

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadline-ai/leadline/pkg/draft"
)

// Bailout simulates ending the conversation with a disposition. The
// utterance is the requested disposition; it is resolved against the
// configured set with substring fallbacks. Bailout always ends the
// conversation.
func (s *Simulator) Bailout(ctx context.Context, d *draft.Draft, message string) *Result {
	tool := d.Tools.Bailout
	if r := gate(tool.ToolState, draft.ToolBailout); r != nil {
		return r
	}
	s.sleep(ctx, bailoutDelay)

	disposition := resolveDisposition(tool, message)
	key := lowerSnake(disposition)

	endMessage := tool.EndMessages[key]
	if endMessage == "" {
		endMessage = fmt.Sprintf("Thank you for your time. We've marked this conversation as %s.", disposition)
	}
	crmStatus := tool.CRMMapping[key]
	if crmStatus == "" {
		crmStatus = "unqualified"
	}

	return &Result{
		Success:           true,
		ToolUsed:          true,
		ToolStatus:        StatusExecuted,
		Message:           endMessage,
		IsConversationEnd: true,
		Details: map[string]any{
			"disposition": disposition,
			"crmStatus":   crmStatus,
		},
	}
}

// resolveDisposition matches the requested disposition against the
// defaults and custom dispositions, then falls back to substring
// heuristics, then to "Bailout".
func resolveDisposition(tool draft.BailoutTool, requested string) string {
	trimmed := strings.TrimSpace(requested)

	for _, d := range tool.Dispositions {
		if strings.EqualFold(d, trimmed) {
			return d
		}
	}
	for _, c := range tool.CustomDispositions {
		if strings.EqualFold(c.Name, trimmed) {
			return c.Name
		}
	}

	lower := strings.ToLower(trimmed)
	switch {
	case containsAny(lower, "appointment", "scheduled"):
		return "Appointment set"
	case containsAny(lower, "transfer", "escalate"):
		return "Transfer"
	case containsAny(lower, "success", "complete"):
		return "Success/Completed"
	default:
		return "Bailout"
	}
}

// lowerSnake converts a disposition label to its lookup key:
// lowercase, with runs of non-alphanumerics collapsed to single
// underscores ("Success/Completed" -> "success_completed").
func lowerSnake(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
