package content

import "github.com/lmedrano/pulso/internal/domain/pulse"

// DefaultCities returns the seed profiles loaded into an empty content
// store on first boot. Values are symbolic starting points, not statistics.
func DefaultCities() []CityProfile {
	return []CityProfile{
		{
			ID:     "los-angeles",
			Name:   "Los Angeles",
			Region: "CA",
			Pulse: pulse.CityPulse{
				PoliticalCover:     60,
				FederalCooperation: 30,
				PolicePresence:     55,
				LegalSupport:       60,
				MediaAttention:     55,
			},
			Neighborhoods: []NeighborhoodProfile{
				{
					ID:   "boyle-heights",
					Name: "Boyle Heights",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 60, CommunityDensity: 75, CheckpointActivity: 45, RumorLevel: 50, Solidarity: 65,
					},
				},
				{
					ID:   "pacoima",
					Name: "Pacoima",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 55, CommunityDensity: 65, CheckpointActivity: 40, RumorLevel: 45, Solidarity: 55,
					},
				},
				{
					ID:   "westlake",
					Name: "Westlake",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 50, CommunityDensity: 80, CheckpointActivity: 55, RumorLevel: 60, Solidarity: 60,
					},
				},
			},
		},
		{
			ID:     "houston",
			Name:   "Houston",
			Region: "TX",
			Pulse: pulse.CityPulse{
				PoliticalCover:     35,
				FederalCooperation: 65,
				PolicePresence:     60,
				LegalSupport:       40,
				MediaAttention:     45,
			},
			Neighborhoods: []NeighborhoodProfile{
				{
					ID:   "gulfton",
					Name: "Gulfton",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 50, CommunityDensity: 70, CheckpointActivity: 55, RumorLevel: 55, Solidarity: 50,
					},
				},
				{
					ID:   "magnolia-park",
					Name: "Magnolia Park",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 55, CommunityDensity: 60, CheckpointActivity: 50, RumorLevel: 50, Solidarity: 55,
					},
				},
			},
		},
		{
			ID:     "chicago",
			Name:   "Chicago",
			Region: "IL",
			Pulse: pulse.CityPulse{
				PoliticalCover:     55,
				FederalCooperation: 35,
				PolicePresence:     50,
				LegalSupport:       55,
				MediaAttention:     50,
			},
			Neighborhoods: []NeighborhoodProfile{
				{
					ID:   "little-village",
					Name: "Little Village",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 60, CommunityDensity: 70, CheckpointActivity: 45, RumorLevel: 50, Solidarity: 60,
					},
				},
				{
					ID:   "albany-park",
					Name: "Albany Park",
					Pulse: pulse.NeighborhoodPulse{
						Trust: 55, CommunityDensity: 65, CheckpointActivity: 40, RumorLevel: 45, Solidarity: 55,
					},
				},
			},
		},
	}
}

// DefaultFamily returns the starting family vector for a new session.
func DefaultFamily() pulse.FamilyImpact {
	return pulse.FamilyImpact{
		Visibility:           40,
		Stress:               35,
		Cohesion:             70,
		TrustNetworkStrength: 45,
	}
}

// DefaultGlobal returns the starting national vector for a new session.
func DefaultGlobal() pulse.GlobalPulse {
	return pulse.GlobalPulse{
		EnforcementClimate: 60,
		PolicyVolatility:   55,
		MediaNarrative:     -10,
		JudicialAlignment:  -15,
	}
}
