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

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// slotDropProbability is the chance each candidate slot is already
// taken.
const slotDropProbability = 0.3

// Appointment simulates booking an appointment from the utterance.
func (s *Simulator) Appointment(ctx context.Context, d *draft.Draft, message string) *Result {
	tool := d.Tools.Appointment
	if r := gate(tool.ToolState, draft.ToolAppointment); r != nil {
		return r
	}
	s.sleep(ctx, appointmentDelay)

	aptType, duration := classifyAppointment(tool.AppointmentTypes, message)
	date := extractDate(s.now(), message)

	var available []string
	for _, slot := range []string{"10:00", "14:00", "16:00"} {
		if s.rand.Float64() >= slotDropProbability {
			available = append(available, slot)
		}
	}

	if len(available) == 0 {
		alt := s.now().AddDate(0, 0, 2).Format("2006-01-02")
		return &Result{
			Success:    false,
			ToolUsed:   true,
			ToolStatus: StatusExecuted,
			Message:    fmt.Sprintf("I'm sorry, we're fully booked on %s. Would one of these times work instead?", date),
			FollowUp:   "Offer the alternative slots to the customer.",
			Details: map[string]any{
				"appointmentType":  aptType,
				"requestedDate":    date,
				"alternativeDate":  alt,
				"alternativeSlots": []string{"09:00", "13:00", "15:00"},
			},
		}
	}

	confirmation := s.confirmationID()
	slot := available[0]
	return &Result{
		Success:    true,
		ToolUsed:   true,
		ToolStatus: StatusExecuted,
		Message: fmt.Sprintf("You're all set! I've booked a %s on %s at %s. Your confirmation number is %s.",
			aptType, date, slot, confirmation),
		Details: map[string]any{
			"appointmentType": aptType,
			"durationMinutes": duration,
			"date":            date,
			"time":            slot,
			"confirmationId":  confirmation,
			"availableSlots":  available,
		},
	}
}

// classifyAppointment matches the utterance against the configured
// appointment types by name, falling back to built-in keyword
// categories.
func classifyAppointment(types []draft.AppointmentType, message string) (name string, durationMinutes int) {
	lower := strings.ToLower(message)
	for _, t := range types {
		if t.Name != "" && strings.Contains(lower, strings.ToLower(t.Name)) {
			return t.Name, t.DurationMinutes
		}
	}
	switch {
	case strings.Contains(lower, "emergency"), strings.Contains(lower, "urgent"):
		return "Emergency Service", 60
	case strings.Contains(lower, "install"):
		return "Installation", 240
	case strings.Contains(lower, "repair"), strings.Contains(lower, "fix"):
		return "Repair", 120
	default:
		return "Consultation", 30
	}
}

// extractDate picks the requested day from the utterance. Tomorrow is
// the default when nothing matches.
func extractDate(now time.Time, message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "today"):
		return now.Format("2006-01-02")
	case strings.Contains(lower, "next week"):
		return now.AddDate(0, 0, 7).Format("2006-01-02")
	default:
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}
}

// confirmationID generates an "APT-" id with nine uppercase
// alphanumerics.
func (s *Simulator) confirmationID() string {
	var b strings.Builder
	b.WriteString("APT-")
	for i := 0; i < 9; i++ {
		b.WriteByte(confirmationAlphabet[s.rand.IntN(len(confirmationAlphabet))])
	}
	return b.String()
}
