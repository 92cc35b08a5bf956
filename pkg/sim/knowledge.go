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

// Knowledge simulates a knowledge-base lookup for the utterance.
func (s *Simulator) Knowledge(ctx context.Context, d *draft.Draft, message string) *Result {
	tool := d.Tools.Knowledge
	if r := gate(tool.ToolState, draft.ToolKnowledge); r != nil {
		return r
	}
	s.sleep(ctx, knowledgeDelay)

	source := firstConfiguredSource(tool.Sources)
	snippet, confidence := matchSnippet(message)
	if snippet == "" {
		return &Result{
			Success:    false,
			ToolUsed:   true,
			ToolStatus: StatusExecuted,
			Message:    "I couldn't find an answer to that in the knowledge base.",
			FollowUp:   "Would you like me to transfer you to a team member who can help?",
			Details: map[string]any{
				"sourceUsed": source,
				"query":      message,
			},
		}
	}

	return &Result{
		Success:    true,
		ToolUsed:   true,
		ToolStatus: StatusExecuted,
		Message:    presentSnippet(tool.PresentationFormat, snippet, source),
		Details: map[string]any{
			"sourceUsed": source,
			"confidence": confidence,
			"snippet":    snippet,
		},
	}
}

func firstConfiguredSource(sources []draft.KnowledgeSource) string {
	for _, src := range sources {
		if src.Configured {
			return src.Name
		}
	}
	return "knowledge base"
}

// matchSnippet synthesizes an answer for the recognized question
// categories. An empty snippet means no match.
func matchSnippet(message string) (snippet string, confidence float64) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "price"), strings.Contains(lower, "cost"):
		return "Our standard service call is $89, and estimates for replacements are always free.", 0.92
	case strings.Contains(lower, "hours"), strings.Contains(lower, "open"):
		return "We're open Monday through Friday 8 AM to 6 PM.", 0.95
	case strings.Contains(lower, "service"), strings.Contains(lower, "area"):
		return "We serve the greater metro area, up to a 30-mile radius from downtown.", 0.88
	default:
		return "", 0
	}
}

// presentSnippet renders the snippet in the configured presentation
// format. Contextual is the default.
func presentSnippet(format draft.PresentationFormat, snippet, source string) string {
	switch format {
	case draft.FormatDirectQuote:
		return fmt.Sprintf("%q — %s", snippet, source)
	case draft.FormatSummarized:
		return "Based on our knowledge base, " + strings.ToLower(snippet)
	default:
		return fmt.Sprintf("%s (source: %s)", snippet, source)
	}
}
