package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/pkg/draft"
)

// fixedRand always returns the same draw, making dropout and
// availability outcomes deterministic.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(n int) int   { return r.n % n }

// monday is a fixed clock: Monday 2026-08-24 10:00 UTC.
var monday = time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)

func newTestSim(t *testing.T, r Rand) (*Simulator, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	s := New(
		WithRand(r),
		WithClock(func() time.Time { return monday }),
		WithSleeper(func(_ context.Context, d time.Duration) { slept = append(slept, d) }),
	)
	return s, &slept
}

func configuredDraft() *draft.Draft {
	d := draft.New()
	d.Tools.Appointment.Enabled = true
	d.Tools.Appointment.Configured = true
	d.Tools.Knowledge.Enabled = true
	d.Tools.Knowledge.Configured = true
	d.Tools.Knowledge.Sources = []draft.KnowledgeSource{
		{Name: "Business Profile", Type: "business_profile", Configured: true},
	}
	d.Tools.Transfer.Enabled = true
	d.Tools.Transfer.Configured = true
	d.Tools.Transfer.Teams = []draft.TransferTeam{{Name: "Front Desk"}}
	d.Tools.Bailout.Enabled = true
	d.Tools.Bailout.Configured = true
	return d
}

func TestStateMachine(t *testing.T) {
	ctx := context.Background()
	tools := []string{
		draft.ToolAppointment,
		draft.ToolKnowledge,
		draft.ToolTransfer,
		draft.ToolBailout,
	}

	for _, tool := range tools {
		t.Run(tool+"_disabled", func(t *testing.T) {
			s, slept := newTestSim(t, fixedRand{f: 0.5})
			r, err := s.Run(ctx, tool, draft.New(), "hello")
			require.NoError(t, err)
			assert.False(t, r.Success)
			assert.False(t, r.ToolUsed)
			assert.Empty(t, r.ToolStatus)
			assert.Empty(t, *slept, "disabled tools must not delay")
		})

		t.Run(tool+"_unconfigured", func(t *testing.T) {
			s, slept := newTestSim(t, fixedRand{f: 0.5})
			d := configuredDraft()
			setToolConfigured(d, tool, false)

			r, err := s.Run(ctx, tool, d, "hello")
			require.NoError(t, err)
			assert.False(t, r.Success)
			assert.True(t, r.ToolUsed)
			assert.Equal(t, StatusNotConfigured, r.ToolStatus)
			assert.Empty(t, *slept)
		})

		t.Run(tool+"_configured", func(t *testing.T) {
			s, slept := newTestSim(t, fixedRand{f: 0.5})
			r, err := s.Run(ctx, tool, configuredDraft(), "hello")
			require.NoError(t, err)
			assert.True(t, r.ToolUsed)
			assert.Equal(t, StatusExecuted, r.ToolStatus)
			require.Len(t, *slept, 1)
		})
	}
}

func setToolConfigured(d *draft.Draft, tool string, configured bool) {
	switch tool {
	case draft.ToolAppointment:
		d.Tools.Appointment.Configured = configured
	case draft.ToolKnowledge:
		d.Tools.Knowledge.Configured = configured
	case draft.ToolTransfer:
		d.Tools.Transfer.Configured = configured
	case draft.ToolBailout:
		d.Tools.Bailout.Configured = configured
	}
}

func TestRunUnknownTool(t *testing.T) {
	s, _ := newTestSim(t, fixedRand{})
	_, err := s.Run(context.Background(), "calendar", draft.New(), "")
	assert.Error(t, err)
}

func TestToolDelays(t *testing.T) {
	tests := []struct {
		tool string
		want time.Duration
	}{
		{draft.ToolAppointment, 1500 * time.Millisecond},
		{draft.ToolKnowledge, 800 * time.Millisecond},
		{draft.ToolTransfer, 1200 * time.Millisecond},
		{draft.ToolBailout, 1000 * time.Millisecond},
	}
	for _, tt := range tests {
		s, slept := newTestSim(t, fixedRand{f: 0.5})
		_, err := s.Run(context.Background(), tt.tool, configuredDraft(), "hello")
		require.NoError(t, err)
		require.Len(t, *slept, 1)
		assert.Equal(t, tt.want, (*slept)[0], "tool %s", tt.tool)
	}
}

func TestAppointmentDisabledShortCircuits(t *testing.T) {
	s, slept := newTestSim(t, fixedRand{f: 0.5})
	d := draft.New()

	r := s.Appointment(context.Background(), d, "book tomorrow")
	assert.False(t, r.Success)
	assert.False(t, r.ToolUsed)
	assert.Empty(t, *slept)
}

func TestAppointmentBooksSlot(t *testing.T) {
	// 0.5 >= 0.3 keeps every candidate slot; IntN always 0 pins the
	// confirmation id.
	s, _ := newTestSim(t, fixedRand{f: 0.5, n: 0})
	d := configuredDraft()

	r := s.Appointment(context.Background(), d, "I need someone to fix my sink tomorrow")
	require.True(t, r.Success)
	assert.Equal(t, StatusExecuted, r.ToolStatus)
	assert.Equal(t, "Repair", r.Details["appointmentType"])
	assert.Equal(t, 120, r.Details["durationMinutes"])
	assert.Equal(t, "2026-08-25", r.Details["date"], "tomorrow relative to the fixed clock")
	assert.Equal(t, "10:00", r.Details["time"])
	assert.Equal(t, "APT-AAAAAAAAA", r.Details["confirmationId"])
	assert.Contains(t, r.Message, "APT-AAAAAAAAA")
}

func TestAppointmentAllSlotsTaken(t *testing.T) {
	// 0.0 < 0.3 drops every slot.
	s, _ := newTestSim(t, fixedRand{f: 0.0})
	d := configuredDraft()

	r := s.Appointment(context.Background(), d, "book a consultation today")
	assert.False(t, r.Success)
	assert.True(t, r.ToolUsed)
	assert.Equal(t, StatusExecuted, r.ToolStatus)
	assert.Equal(t, "2026-08-26", r.Details["alternativeDate"], "today+2")
	assert.Equal(t, []string{"09:00", "13:00", "15:00"}, r.Details["alternativeSlots"])
}

func TestAppointmentClassification(t *testing.T) {
	tests := []struct {
		message      string
		wantType     string
		wantDuration int
	}{
		{"urgent! water everywhere", "Emergency Service", 60},
		{"can you install a new unit", "Installation", 240},
		{"please repair my furnace", "Repair", 120},
		{"just want to talk", "Consultation", 30},
	}
	for _, tt := range tests {
		name, duration := classifyAppointment(nil, tt.message)
		assert.Equal(t, tt.wantType, name, tt.message)
		assert.Equal(t, tt.wantDuration, duration, tt.message)
	}

	// Configured types win over the keyword fallback.
	types := []draft.AppointmentType{{Name: "Tune-up", DurationMinutes: 45}}
	name, duration := classifyAppointment(types, "book a tune-up to fix things")
	assert.Equal(t, "Tune-up", name)
	assert.Equal(t, 45, duration)
}

func TestAppointmentDateExtraction(t *testing.T) {
	assert.Equal(t, "2026-08-24", extractDate(monday, "come today"))
	assert.Equal(t, "2026-08-31", extractDate(monday, "sometime next week"))
	assert.Equal(t, "2026-08-25", extractDate(monday, "book tomorrow"))
	assert.Equal(t, "2026-08-25", extractDate(monday, "whenever"), "tomorrow is the default")
}

func TestKnowledgeHoursQuestion(t *testing.T) {
	s, _ := newTestSim(t, fixedRand{})
	d := configuredDraft()

	r := s.Knowledge(context.Background(), d, "what are your hours?")
	require.True(t, r.Success)
	assert.Contains(t, r.Message, "Monday through Friday 8 AM to 6 PM")
	assert.Equal(t, "Business Profile", r.Details["sourceUsed"])
	assert.Equal(t, 0.95, r.Details["confidence"])
}

func TestKnowledgeCategories(t *testing.T) {
	tests := []struct {
		message        string
		wantConfidence float64
	}{
		{"how much does it cost?", 0.92},
		{"are you open on saturday", 0.95},
		{"do you service my area?", 0.88},
	}
	for _, tt := range tests {
		snippet, confidence := matchSnippet(tt.message)
		assert.NotEmpty(t, snippet, tt.message)
		assert.Equal(t, tt.wantConfidence, confidence, tt.message)
	}
}

func TestKnowledgeNoMatchSuggestsTransfer(t *testing.T) {
	s, _ := newTestSim(t, fixedRand{})
	d := configuredDraft()

	r := s.Knowledge(context.Background(), d, "tell me a joke")
	assert.False(t, r.Success)
	assert.True(t, r.ToolUsed)
	assert.Equal(t, StatusExecuted, r.ToolStatus)
	assert.Contains(t, r.FollowUp, "transfer")
}

func TestKnowledgePresentationFormats(t *testing.T) {
	snippet := "We're open Monday through Friday 8 AM to 6 PM."

	quoted := presentSnippet(draft.FormatDirectQuote, snippet, "FAQ")
	assert.Contains(t, quoted, `"We're open Monday through Friday 8 AM to 6 PM."`)
	assert.Contains(t, quoted, "FAQ")

	summarized := presentSnippet(draft.FormatSummarized, snippet, "FAQ")
	assert.Equal(t, "Based on our knowledge base, we're open monday through friday 8 am to 6 pm.", summarized)

	contextual := presentSnippet(draft.FormatContextual, snippet, "FAQ")
	assert.Contains(t, contextual, snippet)
	assert.Contains(t, contextual, "FAQ")
}

func transferDraft(teams ...draft.TransferTeam) *draft.Draft {
	d := configuredDraft()
	d.Tools.Transfer.Teams = teams
	return d
}

func TestTransferTeamRouting(t *testing.T) {
	teams := []draft.TransferTeam{
		{Name: "Front Desk"},
		{Name: "Emergency Dispatch"},
		{Name: "Technical Support"},
		{Name: "Sales"},
		{Name: "Billing"},
	}

	tests := []struct {
		message  string
		wantTeam string
	}{
		{"there's a leak in my basement", "Emergency Dispatch"},
		{"my install is acting up", "Technical Support"},
		{"I'd like a quote please", "Sales"},
		{"question about a charge on my bill", "Billing"},
		{"hello there", "Front Desk"},
	}
	for _, tt := range tests {
		team := selectTeam(teams, tt.message)
		assert.Equal(t, tt.wantTeam, team.Name, tt.message)
	}
}

func TestTransferNoScheduleIsProbabilistic(t *testing.T) {
	team := draft.TransferTeam{Name: "Front Desk", Phone: "555-0100"}

	s, _ := newTestSim(t, fixedRand{f: 0.5}) // 0.5 < 0.7
	r := s.Transfer(context.Background(), transferDraft(team), "hello")
	require.True(t, r.Success)
	assert.Equal(t, "Front Desk", r.Details["team"])
	assert.Equal(t, "555-0100", r.Details["phone"])

	s, _ = newTestSim(t, fixedRand{f: 0.9}) // 0.9 >= 0.7
	r = s.Transfer(context.Background(), transferDraft(team), "hello")
	assert.False(t, r.Success)
}

func TestTransferDisabledDayIsHardNo(t *testing.T) {
	team := draft.TransferTeam{
		Name: "Front Desk",
		Availability: map[string]draft.DayAvailability{
			"monday": {Enabled: false},
		},
	}

	// Even a lucky draw cannot reach a team on a disabled day.
	s, _ := newTestSim(t, fixedRand{f: 0.0})
	d := transferDraft(team)
	d.Tools.Transfer.AvailabilityFallback.Message = "Leave a message after the tone."

	r := s.Transfer(context.Background(), d, "hello")
	assert.False(t, r.Success)
	assert.Equal(t, "Leave a message after the tone.", r.Message)
}

func TestTransferHoursWindow(t *testing.T) {
	team := draft.TransferTeam{
		Name: "Front Desk",
		Availability: map[string]draft.DayAvailability{
			"monday": {Enabled: true, Start: "08:00", End: "18:00"},
		},
	}

	// The fixed clock is 10:00, inside the window: 0.5 < 0.8 reaches.
	s, _ := newTestSim(t, fixedRand{f: 0.5})
	r := s.Transfer(context.Background(), transferDraft(team), "hello")
	assert.True(t, r.Success)

	// Outside the window the same draw fails: 0.5 >= 0.3.
	team.Availability["monday"] = draft.DayAvailability{Enabled: true, Start: "12:00", End: "13:00"}
	s, _ = newTestSim(t, fixedRand{f: 0.5})
	r = s.Transfer(context.Background(), transferDraft(team), "hello")
	assert.False(t, r.Success)
}

func TestBailoutSubstringFallback(t *testing.T) {
	s, _ := newTestSim(t, fixedRand{})
	d := configuredDraft()

	r := s.Bailout(context.Background(), d, "escalate now")
	require.True(t, r.Success)
	assert.True(t, r.IsConversationEnd)
	assert.Equal(t, "Transfer", r.Details["disposition"])
	assert.Equal(t, "unqualified", r.Details["crmStatus"])
}

func TestBailoutResolution(t *testing.T) {
	tool := draft.BailoutTool{
		Dispositions: draft.DefaultDispositions(),
		CustomDispositions: []draft.CustomDisposition{
			{Name: "Spam caller"},
		},
	}

	tests := []struct {
		requested string
		want      string
	}{
		{"not interested", "Not interested"},
		{"spam caller", "Spam caller"},
		{"appointment was scheduled", "Appointment set"},
		{"all done, success", "Success/Completed"},
		{"whatever", "Bailout"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveDisposition(tool, tt.requested), tt.requested)
	}
}

func TestBailoutEndMessageAndCRMMapping(t *testing.T) {
	s, _ := newTestSim(t, fixedRand{})
	d := configuredDraft()
	d.Tools.Bailout.EndMessages = map[string]string{
		"appointment_set": "See you then!",
	}
	d.Tools.Bailout.CRMMapping = map[string]string{
		"appointment_set": "appointment_set",
	}

	r := s.Bailout(context.Background(), d, "Appointment set")
	assert.Equal(t, "See you then!", r.Message)
	assert.Equal(t, "appointment_set", r.Details["crmStatus"])
	assert.True(t, r.IsConversationEnd)
}

func TestLowerSnake(t *testing.T) {
	assert.Equal(t, "success_completed", lowerSnake("Success/Completed"))
	assert.Equal(t, "appointment_set", lowerSnake("Appointment set"))
	assert.Equal(t, "not_interested", lowerSnake("Not interested"))
	assert.Equal(t, "bailout", lowerSnake("Bailout"))
}
