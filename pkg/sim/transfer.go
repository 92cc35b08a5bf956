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
	"time"

	"github.com/leadline-ai/leadline/pkg/draft"
)

// Reachability odds by schedule situation.
const (
	reachInsideHours = 0.8
	reachOutside     = 0.3
	reachNoSchedule  = 0.7
)

// Transfer simulates routing the caller to a human team.
func (s *Simulator) Transfer(ctx context.Context, d *draft.Draft, message string) *Result {
	tool := d.Tools.Transfer
	if r := gate(tool.ToolState, draft.ToolTransfer); r != nil {
		return r
	}
	s.sleep(ctx, transferDelay)

	fallback := tool.AvailabilityFallback.Message
	if fallback == "" {
		fallback = "No one is available to take the call right now. We'll have someone reach out as soon as possible."
	}

	if len(tool.Teams) == 0 {
		return &Result{
			Success:    false,
			ToolUsed:   true,
			ToolStatus: StatusExecuted,
			Message:    fallback,
			Details:    map[string]any{"reason": "no transfer teams configured"},
		}
	}

	team := selectTeam(tool.Teams, message)
	if s.teamReachable(team) {
		return &Result{
			Success:    true,
			ToolUsed:   true,
			ToolStatus: StatusExecuted,
			Message:    fmt.Sprintf("One moment please, connecting you to our %s team now.", team.Name),
			Details: map[string]any{
				"team":  team.Name,
				"phone": team.Phone,
			},
		}
	}

	return &Result{
		Success:    false,
		ToolUsed:   true,
		ToolStatus: StatusExecuted,
		Message:    fallback,
		FollowUp:   "Collect a callback number and preferred time.",
		Details:    map[string]any{"team": team.Name},
	}
}

// selectTeam routes the utterance to a team by keyword priority, then
// falls back to the first team.
func selectTeam(teams []draft.TransferTeam, message string) draft.TransferTeam {
	lower := strings.ToLower(message)

	find := func(fragments ...string) (draft.TransferTeam, bool) {
		for _, team := range teams {
			name := strings.ToLower(team.Name)
			for _, fragment := range fragments {
				if strings.Contains(name, fragment) {
					return team, true
				}
			}
		}
		return draft.TransferTeam{}, false
	}

	switch {
	case containsAny(lower, "emergency", "urgent", "leak"):
		if team, ok := find("emergency"); ok {
			return team
		}
	case containsAny(lower, "technical", "install", "repair"):
		if team, ok := find("technical", "support"); ok {
			return team
		}
	case containsAny(lower, "quote", "price", "buy"):
		if team, ok := find("sales"); ok {
			return team
		}
	case containsAny(lower, "bill", "payment", "charge"):
		if team, ok := find("billing"); ok {
			return team
		}
	}
	return teams[0]
}

func containsAny(s string, fragments ...string) bool {
	for _, fragment := range fragments {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

// teamReachable applies the team's weekday schedule: a disabled day is
// a hard no, otherwise reachability is probabilistic depending on
// whether the current time falls inside the window.
func (s *Simulator) teamReachable(team draft.TransferTeam) bool {
	now := s.now()
	day := strings.ToLower(now.Weekday().String())

	window, ok := team.Availability[day]
	if !ok {
		return s.rand.Float64() < reachNoSchedule
	}
	if !window.Enabled {
		return false
	}
	if insideWindow(now, window) {
		return s.rand.Float64() < reachInsideHours
	}
	return s.rand.Float64() < reachOutside
}

// insideWindow reports whether now falls within the "HH:MM" window.
// Malformed bounds count as inside.
func insideWindow(now time.Time, window draft.DayAvailability) bool {
	start, err1 := time.Parse("15:04", window.Start)
	end, err2 := time.Parse("15:04", window.End)
	if err1 != nil || err2 != nil {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	return minutes >= startMin && minutes < endMin
}
