package draft

import (
	"testing"
)

func TestIsPersonaComplete(t *testing.T) {
	tests := []struct {
		name    string
		persona Persona
		want    bool
	}{
		{
			name: "complete_persona",
			persona: Persona{
				AgentName:         "Sarah",
				Traits:            []string{"professional", "friendly"},
				CommunicationMode: ModeBoth,
			},
			want: true,
		},
		{
			name: "blank_name",
			persona: Persona{
				AgentName:         "   ",
				Traits:            []string{"professional", "friendly"},
				CommunicationMode: ModeVoice,
			},
			want: false,
		},
		{
			name: "missing_mode",
			persona: Persona{
				AgentName: "Sarah",
				Traits:    []string{"professional", "friendly"},
			},
			want: false,
		},
		{
			name: "invalid_mode",
			persona: Persona{
				AgentName:         "Sarah",
				Traits:            []string{"professional", "friendly"},
				CommunicationMode: "telepathy",
			},
			want: false,
		},
		{
			name: "single_trait",
			persona: Persona{
				AgentName:         "Sarah",
				Traits:            []string{"professional"},
				CommunicationMode: ModeText,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			d.Persona = tt.persona
			if got := IsPersonaComplete(d); got != tt.want {
				t.Errorf("IsPersonaComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKnowledgeUsable(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		want    bool
	}{
		{
			name:   "empty_draft",
			mutate: func(d *Draft) {},
			want:   false,
		},
		{
			name: "business_name_set",
			mutate: func(d *Draft) {
				d.BusinessProfile["businessName"] = "Acme Plumbing"
			},
			want: true,
		},
		{
			name: "one_faq_item",
			mutate: func(d *Draft) {
				d.FAQ = []FAQItem{{Question: "Do you serve Austin?", Answer: "Yes"}}
			},
			want: true,
		},
		{
			name: "only_blank_faq_items",
			mutate: func(d *Draft) {
				d.FAQ = []FAQItem{{Question: "  ", Answer: ""}}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tt.mutate(d)
			if got := IsKnowledgeUsable(d); got != tt.want {
				t.Errorf("IsKnowledgeUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDeploy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   bool
	}{
		{
			name:   "blank_draft_rejected",
			mutate: func(d *Draft) {},
			want:   false,
		},
		{
			name: "persona_name_suffices",
			mutate: func(d *Draft) {
				d.Persona.AgentName = "Sarah"
			},
			want: true,
		},
		{
			name: "template_title_suffices",
			mutate: func(d *Draft) {
				d.SelectedTemplate = &Template{Title: "Inbound Receptionist"}
			},
			want: true,
		},
		{
			name: "invalid_structure_rejected",
			mutate: func(d *Draft) {
				d.Persona.AgentName = "Sarah"
				d.Workflows.LeadFiltering = LeadFiltering{Mode: FilterAll, Sources: []string{"yelp"}}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tt.mutate(d)
			if got := CanDeploy(d); got != tt.want {
				t.Errorf("CanDeploy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr bool
	}{
		{
			name:    "fresh_draft_valid",
			mutate:  func(d *Draft) {},
			wantErr: false,
		},
		{
			name: "duplicate_traits",
			mutate: func(d *Draft) {
				d.Persona.Traits = []string{"friendly", "Friendly"}
			},
			wantErr: true,
		},
		{
			name: "invalid_agent_type",
			mutate: func(d *Draft) {
				d.AgentType = "psychic"
			},
			wantErr: true,
		},
		{
			name: "invalid_rule_action",
			mutate: func(d *Draft) {
				d.Rules.Success.Action = "launch"
			},
			wantErr: true,
		},
		{
			name: "all_mode_with_sources",
			mutate: func(d *Draft) {
				d.Workflows.LeadFiltering = LeadFiltering{Mode: FilterAll, Sources: []string{"google"}}
			},
			wantErr: true,
		},
		{
			name: "filtered_mode_with_sources",
			mutate: func(d *Draft) {
				d.Workflows.LeadFiltering = LeadFiltering{Mode: FilterFiltered, Sources: []string{"google"}}
			},
			wantErr: false,
		},
		{
			name: "duplicate_sequence_step_ids",
			mutate: func(d *Draft) {
				d.Workflows.FollowUps.NoResponse.Sequence = []SequenceStep{
					{ID: "s1", Delay: 30, Unit: UnitMinutes},
					{ID: "s1", Delay: 2, Unit: UnitHours},
				}
			},
			wantErr: true,
		},
		{
			name: "zero_delay_step",
			mutate: func(d *Draft) {
				d.Workflows.FollowUps.NoResponse.Sequence = []SequenceStep{
					{ID: "s1", Delay: 0, Unit: UnitMinutes},
				}
			},
			wantErr: true,
		},
		{
			name: "missing_default_disposition",
			mutate: func(d *Draft) {
				d.Tools.Bailout.Dispositions = []string{"Transfer"}
			},
			wantErr: true,
		},
		{
			name: "custom_disposition_collides_with_default",
			mutate: func(d *Draft) {
				d.Tools.Bailout.CustomDispositions = []CustomDisposition{{Name: "transfer"}}
			},
			wantErr: true,
		},
		{
			name: "disjoint_custom_disposition",
			mutate: func(d *Draft) {
				d.Tools.Bailout.CustomDispositions = []CustomDisposition{{Name: "Callback requested"}}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tt.mutate(d)
			err := d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDelayUnitMinutes(t *testing.T) {
	tests := []struct {
		unit  DelayUnit
		delay int
		want  int
	}{
		{UnitMinutes, 15, 15},
		{UnitHours, 2, 120},
		{UnitDays, 3, 4320},
		{"fortnights", 1, 60}, // unknown unit treated as hours
	}

	for _, tt := range tests {
		if got := tt.unit.Minutes(tt.delay); got != tt.want {
			t.Errorf("%s.Minutes(%d) = %d, want %d", tt.unit, tt.delay, got, tt.want)
		}
	}
}

func TestCommunicationModeChannels(t *testing.T) {
	if !ModeVoice.VoiceEnabled() || ModeVoice.TextEnabled() {
		t.Error("voice mode should enable voice only")
	}
	if ModeText.VoiceEnabled() || !ModeText.TextEnabled() {
		t.Error("text mode should enable text only")
	}
	if !ModeBoth.VoiceEnabled() || !ModeBoth.TextEnabled() {
		t.Error("both mode should enable both channels")
	}
}
