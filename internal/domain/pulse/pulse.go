// Package pulse defines the layered pressure vectors of the simulation.
// This package is PURE and must NOT import any infrastructure packages (network, journal, platform).
//
// Each layer is a distinct struct with named fields rather than a generic
// key-value map, so a mistyped field name fails at compile time instead of
// silently creating a new metric.
package pulse

// Bounds for unsigned and signed pulse fields.
const (
	Min = 0
	Max = 100

	SignedMin = -100
	SignedMax = 100
)

// GlobalPulse is the national layer: policy sets the weather.
type GlobalPulse struct {
	EnforcementClimate int `json:"enforcementClimate"` // 0-100
	PolicyVolatility   int `json:"policyVolatility"`   // 0-100
	MediaNarrative     int `json:"mediaNarrative"`     // -100..100 (negative = hostile coverage of enforcement)
	JudicialAlignment  int `json:"judicialAlignment"`  // -100..100 (negative = courts pushing back)
}

// CityPulse is the municipal layer: cities translate policy.
type CityPulse struct {
	PoliticalCover     int `json:"politicalCover"`     // 0-100
	FederalCooperation int `json:"federalCooperation"` // 0-100
	PolicePresence     int `json:"policePresence"`     // 0-100
	LegalSupport       int `json:"legalSupport"`       // 0-100
	MediaAttention     int `json:"mediaAttention"`     // 0-100
}

// NeighborhoodPulse is the street layer: neighborhoods express pressure.
type NeighborhoodPulse struct {
	Trust              int `json:"trust"`              // 0-100
	CommunityDensity   int `json:"communityDensity"`   // 0-100
	CheckpointActivity int `json:"checkpointActivity"` // 0-100
	RumorLevel         int `json:"rumorLevel"`         // 0-100
	Solidarity         int `json:"solidarity"`         // 0-100
}

// FamilyImpact is the innermost layer: the family absorbs everything above it.
type FamilyImpact struct {
	Visibility           int `json:"visibility"`           // 0-100
	Stress               int `json:"stress"`               // 0-100
	Cohesion             int `json:"cohesion"`             // 0-100
	TrustNetworkStrength int `json:"trustNetworkStrength"` // 0-100
}

// Clamp bounds an unsigned pulse value to [Min, Max].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// ClampSigned bounds a signed pulse value to [SignedMin, SignedMax].
func ClampSigned(v int) int {
	if v < SignedMin {
		return SignedMin
	}
	if v > SignedMax {
		return SignedMax
	}
	return v
}

// Normalize re-clamps every field of every vector. Called after
// deserializing a snapshot so hand-edited or migrated values cannot
// smuggle out-of-range numbers into the engine.
func Normalize(g *GlobalPulse, c *CityPulse, n *NeighborhoodPulse, f *FamilyImpact) {
	if g != nil {
		g.EnforcementClimate = Clamp(g.EnforcementClimate)
		g.PolicyVolatility = Clamp(g.PolicyVolatility)
		g.MediaNarrative = ClampSigned(g.MediaNarrative)
		g.JudicialAlignment = ClampSigned(g.JudicialAlignment)
	}
	if c != nil {
		c.PoliticalCover = Clamp(c.PoliticalCover)
		c.FederalCooperation = Clamp(c.FederalCooperation)
		c.PolicePresence = Clamp(c.PolicePresence)
		c.LegalSupport = Clamp(c.LegalSupport)
		c.MediaAttention = Clamp(c.MediaAttention)
	}
	if n != nil {
		n.Trust = Clamp(n.Trust)
		n.CommunityDensity = Clamp(n.CommunityDensity)
		n.CheckpointActivity = Clamp(n.CheckpointActivity)
		n.RumorLevel = Clamp(n.RumorLevel)
		n.Solidarity = Clamp(n.Solidarity)
	}
	if f != nil {
		f.Visibility = Clamp(f.Visibility)
		f.Stress = Clamp(f.Stress)
		f.Cohesion = Clamp(f.Cohesion)
		f.TrustNetworkStrength = Clamp(f.TrustNetworkStrength)
	}
}
