package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/pkg/backend"
	"github.com/leadline-ai/leadline/pkg/draft"
)

func TestDraftToServerMinimalDeploy(t *testing.T) {
	d := draft.New()
	d.AgentType = draft.AgentTypeInbound
	d.Persona = draft.Persona{
		AgentName:         "Sarah",
		Traits:            []string{"professional", "friendly"},
		CommunicationMode: draft.ModeBoth,
	}

	agent := DraftToServer(d)

	assert.Equal(t, "Sarah", agent.Name)
	assert.Equal(t, "inbound agent for  industry", agent.Description)
	assert.Equal(t, "You are Sarah, a helpful AI assistant. Be professional and assist customers with their needs.", agent.PromptTemplate)
	assert.Equal(t, []backend.Trigger{
		{Event: "new_lead", Condition: "any"},
		{Event: "chat_initiated", Condition: "any"},
	}, agent.Triggers)
	assert.True(t, agent.ConversationSettings.VoiceEnabled)
	assert.True(t, agent.ConversationSettings.TextEnabled)
	assert.Equal(t, "normal", agent.ConversationSettings.ResponseTime)
	assert.Equal(t, "en", agent.ConversationSettings.Language)

	assert.Equal(t, DefaultModel, agent.Model)
	assert.Equal(t, DefaultTemperature, agent.Temperature)
	assert.Equal(t, DefaultMaxTokens, agent.MaxTokens)
	assert.True(t, agent.IsActive)
	assert.False(t, agent.IsPublic)
	assert.Equal(t, "user", agent.CreatedBy)
}

func TestDraftToServerName(t *testing.T) {
	d := draft.New()
	assert.Equal(t, "Unnamed Agent", DraftToServer(d).Name)

	d.SelectedTemplate = &draft.Template{Title: "Inbound Receptionist"}
	assert.Equal(t, "Inbound Receptionist", DraftToServer(d).Name)

	d.Persona.AgentName = "Sarah"
	assert.Equal(t, "Sarah", DraftToServer(d).Name)
}

func TestDraftToServerDescription(t *testing.T) {
	d := draft.New()
	d.AgentType = draft.AgentTypeOutbound
	d.Industry = "home_services"
	assert.Equal(t, "outbound agent for home services industry", DraftToServer(d).Description)

	d.SelectedTemplate = &draft.Template{Description: "Books HVAC estimates"}
	assert.Equal(t, "Books HVAC estimates", DraftToServer(d).Description)

	d.BusinessProfile["company_name"] = "Acme Plumbing"
	assert.Equal(t, "AI agent for Acme Plumbing", DraftToServer(d).Description)

	d.BusinessProfile["service_area"] = "Austin, TX"
	assert.Equal(t, "AI agent for Acme Plumbing serving Austin, TX", DraftToServer(d).Description)
}

func TestDraftToServerPersonalityStyle(t *testing.T) {
	tests := []struct {
		traits []string
		want   string
	}{
		{nil, "professional"},
		{[]string{"patient", "Friendly"}, "friendly"},
		{[]string{"enthusiastic", "friendly"}, "friendly"},
		{[]string{"enthusiastic"}, "enthusiastic"},
		{[]string{"friendly", "professional"}, "professional"},
	}
	for _, tt := range tests {
		d := draft.New()
		d.Persona.Traits = tt.traits
		assert.Equal(t, tt.want, DraftToServer(d).PersonalityStyle, "traits %v", tt.traits)
	}
}

func TestDraftToServerResponseLength(t *testing.T) {
	d := draft.New()
	d.Persona.CommunicationMode = draft.ModeVoice
	assert.Equal(t, "brief", DraftToServer(d).ResponseLength)

	d.Persona.CommunicationMode = draft.ModeBoth
	assert.Equal(t, "moderate", DraftToServer(d).ResponseLength)
}

func TestDraftToServerChannelFlags(t *testing.T) {
	tests := []struct {
		mode      draft.CommunicationMode
		wantVoice bool
		wantText  bool
	}{
		{draft.ModeVoice, true, false},
		{draft.ModeText, false, true},
		{draft.ModeBoth, true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		d := draft.New()
		d.Persona.CommunicationMode = tt.mode
		cs := DraftToServer(d).ConversationSettings
		assert.Equal(t, tt.wantVoice, cs.VoiceEnabled, "mode %q", tt.mode)
		assert.Equal(t, tt.wantText, cs.TextEnabled, "mode %q", tt.mode)
	}
}

func TestDraftToServerEnabledTools(t *testing.T) {
	d := draft.New()
	d.Tools.Knowledge.Enabled = true
	d.Tools.Appointment.Enabled = true
	assert.Equal(t, []string{"appointment", "knowledge"}, DraftToServer(d).EnabledTools)

	// Explicit instruction references win over the enabled flags.
	d.Instructions.Tools = []draft.ToolRef{{Name: "bailout"}}
	assert.Equal(t, []string{"bailout"}, DraftToServer(d).EnabledTools)
}

func TestDraftToServerNoResponseSequence(t *testing.T) {
	d := draft.New()
	d.Workflows.FollowUps.NoResponse = draft.NoResponseFollowUp{
		Enabled: true,
		Sequence: []draft.SequenceStep{
			{ID: "a", Delay: 30, Unit: draft.UnitMinutes, Message: "Hi"},
			{ID: "b", Delay: 2, Unit: draft.UnitHours, Message: "Follow"},
			{ID: "c", Delay: 1, Unit: draft.UnitDays, Message: "Last"},
		},
	}

	steps := DraftToServer(d).WorkflowSteps
	require.Len(t, steps, 3)

	assert.Equal(t, "no_response_sequence_1", steps[0].ID)
	assert.Equal(t, 1, steps[0].SequencePosition)
	assert.Equal(t, 30, steps[0].Trigger.DelayMinutes)
	assert.Equal(t, 30, steps[0].Trigger.OriginalDelay)
	assert.Equal(t, "minutes", steps[0].Trigger.OriginalUnit)
	assert.Equal(t, "Hi", steps[0].Action.Template)
	assert.Equal(t, "no_response_sequence", steps[0].Action.TemplateType)

	assert.Equal(t, "no_response_sequence_2", steps[1].ID)
	assert.Equal(t, 2, steps[1].SequencePosition)
	assert.Equal(t, 120, steps[1].Trigger.DelayMinutes)

	assert.Equal(t, "no_response_sequence_3", steps[2].ID)
	assert.Equal(t, 3, steps[2].SequencePosition)
	assert.Equal(t, 1440, steps[2].Trigger.DelayMinutes)
}

func TestDraftToServerLegacyNoResponse(t *testing.T) {
	d := draft.New()
	d.Workflows.FollowUps.NoResponse = draft.NoResponseFollowUp{
		Enabled:    true,
		DelayHours: 4,
	}

	steps := DraftToServer(d).WorkflowSteps
	require.Len(t, steps, 1)
	assert.Equal(t, 240, steps[0].Trigger.DelayMinutes)
	assert.Equal(t, "no_response", steps[0].Trigger.Event)
	assert.NotEmpty(t, steps[0].Action.Template)
}

func TestDraftToServerReminderAndReEngagement(t *testing.T) {
	d := draft.New()
	d.Workflows.FollowUps.AppointmentReminder = draft.AppointmentReminder{
		Enabled:     true,
		HoursBefore: 24,
	}
	d.Workflows.FollowUps.ReEngagement = draft.ReEngagement{
		Enabled:   true,
		DelayDays: 7,
	}

	steps := DraftToServer(d).WorkflowSteps
	require.Len(t, steps, 2)

	assert.Equal(t, -1440, steps[0].Trigger.DelayMinutes, "reminder fires before the appointment")
	assert.Equal(t, "appointment_reminder", steps[0].Action.TemplateType)

	assert.Equal(t, 10080, steps[1].Trigger.DelayMinutes)
	assert.Equal(t, "reengagement", steps[1].Action.TemplateType)
}

func TestDraftToServerFilteredTriggers(t *testing.T) {
	d := draft.New()
	d.Workflows.Triggers["new_lead"] = draft.TriggerConfig{Enabled: true}
	d.Workflows.Triggers["missed_call"] = draft.TriggerConfig{Enabled: false}
	d.Workflows.LeadFiltering = draft.LeadFiltering{
		Mode:    draft.FilterFiltered,
		Sources: []string{"yelp", "google"},
	}

	triggers := DraftToServer(d).Triggers
	require.Len(t, triggers, 1)
	assert.Equal(t, backend.Trigger{
		Event:     "new_lead",
		Condition: "any",
		Sources:   []string{"yelp", "google"},
	}, triggers[0])
}

func TestDraftToServerOutboundTriggerFallback(t *testing.T) {
	d := draft.New()
	d.AgentType = draft.AgentTypeOutbound

	assert.Equal(t, []backend.Trigger{
		{Event: "follow_up_due", Condition: "any"},
		{Event: "lead_status_change", Condition: "contacted"},
	}, DraftToServer(d).Triggers)

	d.AgentType = draft.AgentTypeCustom
	assert.Empty(t, DraftToServer(d).Triggers)
}

func TestDraftToServerActions(t *testing.T) {
	d := draft.New()
	assert.Empty(t, DraftToServer(d).Actions)

	d.Rules.Success = draft.Rule{Action: draft.ActionQualified, AssignTo: "ops"}
	assert.Equal(t, []backend.Action{
		{Type: "update_lead_status", Status: "qualified", AssignTo: "ops"},
	}, DraftToServer(d).Actions)
}

func TestDraftToServerKnowledge(t *testing.T) {
	d := draft.New()
	assert.Empty(t, DraftToServer(d).Knowledge)

	d.BusinessProfile["businessName"] = "Acme Plumbing"
	d.FAQ = []draft.FAQItem{{Question: "Hours?", Answer: "8-6"}}

	records := DraftToServer(d).Knowledge
	require.Len(t, records, 2)
	assert.Equal(t, backend.KnowledgeBusinessProfile, records[0].Type)
	assert.Equal(t, "Business Profile", records[0].Name)
	assert.Equal(t, backend.KnowledgeFAQ, records[1].Type)
	assert.Equal(t, "FAQ", records[1].Name)
}

func TestServerToDraftReconstruction(t *testing.T) {
	agent := &backend.ServerAgent{
		Name:           "Sarah",
		Type:           "inbound",
		PromptTemplate: "You are Sarah.",
		PersonalityTraits: []string{
			"professional", "friendly",
		},
		EnabledTools: []string{"appointment", "knowledge"},
		ConversationSettings: backend.ConversationSettings{
			VoiceEnabled: true,
			TextEnabled:  false,
		},
		IsActive: true,
		Knowledge: []backend.KnowledgeRecord{
			{Type: "business_profile", Name: "Business Profile", Content: map[string]any{"businessName": "Acme"}},
			{Type: "faq", Name: "FAQ", Content: []any{map[string]any{"question": "Hours?", "answer": "8-6"}}},
		},
	}

	d := ServerToDraft(agent)

	assert.Equal(t, "Sarah", d.Persona.AgentName)
	assert.Equal(t, draft.ModeVoice, d.Persona.CommunicationMode)
	assert.Equal(t, draft.AgentTypeInbound, d.AgentType)
	assert.Equal(t, "general", d.Industry)
	assert.Equal(t, "You are Sarah.", d.Instructions.SystemPrompt)
	assert.Equal(t, []draft.ToolRef{{Name: "appointment"}, {Name: "knowledge"}}, d.Instructions.Tools)
	assert.True(t, d.Tools.Appointment.Enabled)
	assert.True(t, d.Tools.Knowledge.Enabled)
	assert.False(t, d.Tools.Transfer.Enabled)
	assert.Equal(t, "Acme", d.BusinessProfile.GetString("businessName"))
	require.Len(t, d.FAQ, 1)
	assert.Equal(t, "Hours?", d.FAQ[0].Question)

	// Rules and dispositions come back as defaults.
	assert.Empty(t, d.Rules.Success.Action)
	assert.Equal(t, draft.DefaultDispositions(), d.Tools.Bailout.Dispositions)
}

func TestRoundTripPreservesCoreFields(t *testing.T) {
	original := &backend.ServerAgent{
		Name:              "Sarah",
		Type:              "inbound",
		PromptTemplate:    "You are Sarah, the scheduler.",
		PersonalityTraits: []string{"friendly", "patient"},
		EnabledTools:      []string{"appointment", "bailout"},
		ConversationSettings: backend.ConversationSettings{
			VoiceEnabled: true,
			TextEnabled:  true,
			ResponseTime: "normal",
			Language:     "en",
		},
		IsActive: true,
		Knowledge: []backend.KnowledgeRecord{
			{Type: "business_profile", Name: "Business Profile", Content: map[string]any{"businessName": "Acme"}},
			{Type: "faq", Name: "FAQ", Content: []any{map[string]any{"question": "Hours?", "answer": "8-6"}}},
		},
	}

	got := DraftToServer(ServerToDraft(original))

	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.PromptTemplate, got.PromptTemplate)
	assert.ElementsMatch(t, original.EnabledTools, got.EnabledTools)
	assert.ElementsMatch(t, original.PersonalityTraits, got.PersonalityTraits)
	assert.Equal(t, original.ConversationSettings, got.ConversationSettings)

	require.Len(t, got.Knowledge, 2)
	assertJSONEqual(t, original.Knowledge[0].Content, got.Knowledge[0].Content)
	assertJSONEqual(t, original.Knowledge[1].Content, got.Knowledge[1].Content)
}

func TestRequiredFields(t *testing.T) {
	d := draft.New()
	name, description, prompt := RequiredFields(d)
	assert.Empty(t, name, "no name source means no deployable name")
	assert.NotEmpty(t, description)
	assert.NotEmpty(t, prompt)

	d.Persona.AgentName = "Sarah"
	name, _, _ = RequiredFields(d)
	assert.Equal(t, "Sarah", name)
}

func assertJSONEqual(t *testing.T, want, got any) {
	t.Helper()
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}
