package content

import (
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// TemplateSet bundles the three event pools handed to the engine on every
// advance. Pools are plain data; the engine only reads them.
type TemplateSet struct {
	Global       []game.EventTemplate
	City         []game.EventTemplate
	Neighborhood []game.EventTemplate
}

func intPtr(v int) *int { return &v }

// DefaultTemplates returns the built-in catalog. Sessions run fine on this
// set alone; operators can swap in their own pools without touching the
// engine.
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		Global: []game.EventTemplate{
			{
				ID:        "gl_executive_order",
				Scope:     game.ScopeGlobal,
				Title:     "Executive order expands enforcement priorities",
				Narrative: "A new directive widens who counts as a priority for removal.",
				Weight:    3,
				Trigger: game.Trigger{
					MinTurn: 2,
					All: []game.Condition{
						{Field: "policyVolatility", Op: game.OpAtLeast, Value: 40},
					},
				},
				Mode:     game.EffectInstant,
				Effects:  pulse.Effects{"enforcementClimate": 10, "mediaNarrative": -5},
				Duration: 0,
			},
			{
				ID:        "gl_court_injunction",
				Scope:     game.ScopeGlobal,
				Title:     "Federal court blocks the directive",
				Narrative: "An appellate panel stays the order pending review.",
				Weight:    2,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "judicialAlignment", Op: game.OpAtMost, Value: -20},
						{Field: "enforcementClimate", Op: game.OpAtLeast, Value: 60},
					},
				},
				Mode:     game.EffectPerTurn,
				Effects:  pulse.Effects{"enforcementClimate": -4},
				Duration: 3,
			},
			{
				ID:        "gl_viral_footage",
				Scope:     game.ScopeGlobal,
				Title:     "Raid footage goes viral",
				Narrative: "Phone video of a dawn operation dominates the news cycle.",
				Weight:    2,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "enforcementClimate", Op: game.OpAtLeast, Value: 55},
					},
				},
				Mode:     game.EffectInstant,
				Effects:  pulse.Effects{"mediaNarrative": -20, "policyVolatility": 5},
			},
		},

		City: []game.EventTemplate{
			{
				ID:        "ct_council_vote",
				Scope:     game.ScopeCity,
				Title:     "City council debates cooperation agreement",
				Narrative: "The 287(g) renewal lands on the council agenda.",
				Weight:    3,
				Trigger: game.Trigger{
					MinTurn: 3,
					All: []game.Condition{
						{Field: "mediaAttention", Op: game.OpAtLeast, Value: 50},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"politicalCover": 8},
				Decision: &game.Decision{
					ID:        "dc_council_vote",
					Title:     "Speak at the council hearing?",
					Narrative: "Public comment is open. Showing up means being seen.",
					Choices: []game.Choice{
						{
							ID:      "ch_testify",
							Label:   "Testify publicly",
							Effects: pulse.Effects{"politicalCover": 10, "visibility": 15, "stress": 5},
						},
						{
							ID:      "ch_written_comment",
							Label:   "Submit written comment through the legal clinic",
							Effects: pulse.Effects{"politicalCover": 5, "legalSupport": 5},
							Unlock: &game.UnlockConditions{
								RightsKnowledge: []string{"legal_clinic"},
							},
						},
						{
							ID:      "ch_stay_home",
							Label:   "Stay home",
							Effects: pulse.Effects{"stress": -5, "solidarity": -5},
						},
					},
					Urgency: 2,
				},
			},
			{
				ID:        "ct_surge_operation",
				Scope:     game.ScopeCity,
				Title:     "Regional surge operation announced",
				Narrative: "Extra federal teams rotate into the metro area for two weeks.",
				Weight:    2,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "enforcementClimate", Op: game.OpAtLeast, Value: 60},
						{Field: "federalCooperation", Op: game.OpAtLeast, Value: 40},
					},
				},
				Mode:     game.EffectPerTurn,
				Effects:  pulse.Effects{"policePresence": 6, "mediaAttention": 4},
				Duration: 2,
			},
			{
				ID:        "ct_sanctuary_resolution",
				Scope:     game.ScopeCity,
				Title:     "Sanctuary resolution passes",
				Narrative: "The city formally limits local cooperation with detainers.",
				Weight:    1,
				Trigger: game.Trigger{
					MinTurn: 5,
					All: []game.Condition{
						{Field: "politicalCover", Op: game.OpAtLeast, Value: 65},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"federalCooperation": -15, "legalSupport": 10},
			},
		},

		Neighborhood: []game.EventTemplate{
			{
				ID:        "nb_checkpoint",
				Scope:     game.ScopeNeighborhood,
				Title:     "Checkpoint near the bus depot",
				Narrative: "Unmarked vans idle by the morning transfer point.",
				Weight:    3,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "policePresence", Op: game.OpAtLeast, Value: 55},
					},
				},
				Mode:     game.EffectPerTurn,
				Effects:  pulse.Effects{"checkpointActivity": 8, "stress": 4},
				Duration: 2,
			},
			{
				ID:        "nb_rights_workshop",
				Scope:     game.ScopeNeighborhood,
				Title:     "Know-your-rights workshop at the parish hall",
				Narrative: "Volunteers hand out red cards after the evening service.",
				Weight:    2,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "solidarity", Op: game.OpAtLeast, Value: 45},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"trust": 5},
				Decision: &game.Decision{
					ID:        "dc_rights_workshop",
					Title:     "Attend the workshop?",
					Narrative: "Two hours, childcare provided, everyone keeps their hood up.",
					Choices: []game.Choice{
						{
							ID:              "ch_attend",
							Label:           "Attend with the whole family",
							Effects:         pulse.Effects{"stress": -5, "trustNetworkStrength": 10, "visibility": 5},
							GrantsKnowledge: []string{"red_card", "legal_clinic"},
						},
						{
							ID:              "ch_send_eldest",
							Label:           "Send the eldest alone",
							Effects:         pulse.Effects{"trustNetworkStrength": 5},
							GrantsKnowledge: []string{"red_card"},
							Unlock: &game.UnlockConditions{
								MinTurn: 4,
							},
						},
						{
							ID:      "ch_skip_workshop",
							Label:   "Too risky right now",
							Effects: pulse.Effects{"stress": 3},
						},
					},
				},
			},
			{
				ID:        "nb_rumor_wave",
				Scope:     game.ScopeNeighborhood,
				Title:     "Raid rumors sweep the group chats",
				Narrative: "Half the messages are secondhand; all of them move fast.",
				Weight:    2,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "rumorLevel", Op: game.OpAtLeast, Value: 55},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"stress": 8, "communityDensity": -4},
			},
			{
				ID:        "nb_mutual_aid",
				Scope:     game.ScopeNeighborhood,
				Title:     "Mutual aid network organizes grocery runs",
				Narrative: "Neighbors cover shifts for anyone avoiding the main roads.",
				Weight:    2,
				Trigger: game.Trigger{
					MinTurn: 2,
					All: []game.Condition{
						{Field: "trust", Op: game.OpAtLeast, Value: 50},
					},
				},
				Mode:     game.EffectPerTurn,
				Effects:  pulse.Effects{"solidarity": 4, "trustNetworkStrength": 3},
				Duration: 3,
			},
			{
				ID:        "nb_legal_observer",
				Scope:     game.ScopeNeighborhood,
				Title:     "Legal observers start patrolling",
				Narrative: "Clipboards and cameras trail the enforcement vans.",
				Weight:    1,
				Trigger: game.Trigger{
					All: []game.Condition{
						{Field: "checkpointActivity", Op: game.OpAtLeast, Value: 60},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"checkpointActivity": -10, "trust": 5},
			},
			{
				ID:        "nb_family_decision_move",
				Scope:     game.ScopeNeighborhood,
				Title:     "The landlord is asking questions",
				Narrative: "He wants updated papers for the lease renewal.",
				Weight:    1,
				Trigger: game.Trigger{
					MinTurn: 6,
					All: []game.Condition{
						{Field: "visibility", Op: game.OpAtLeast, Value: 55},
					},
				},
				Mode:    game.EffectInstant,
				Effects: pulse.Effects{"stress": 5},
				Decision: &game.Decision{
					ID:          "dc_lease_renewal",
					Title:       "Handle the lease renewal",
					Narrative:   "Options depend on who the family can lean on.",
					MultiSelect: true,
					Choices: []game.Choice{
						{
							ID:      "ch_ask_pastor",
							Label:   "Ask the pastor to co-sign",
							Effects: pulse.Effects{"trustNetworkStrength": 5, "visibility": -5},
							Unlock: &game.UnlockConditions{
								MinTrustNetwork: intPtr(40),
							},
						},
						{
							ID:      "ch_know_rights",
							Label:   "Cite tenant protections",
							Effects: pulse.Effects{"stress": -5, "cohesion": 5},
							Unlock: &game.UnlockConditions{
								RightsKnowledge: []string{"red_card", "legal_clinic"},
							},
						},
						{
							ID:      "ch_pay_cash",
							Label:   "Offer three months cash up front",
							Effects: pulse.Effects{"stress": 8, "visibility": -10},
						},
					},
					Urgency: 3,
				},
			},
		},
	}
}
