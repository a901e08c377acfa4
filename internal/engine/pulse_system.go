package engine

import (
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// Propagation constants. All terms are small integer deltas so every field
// movement stays explainable from the previous snapshot; there is no
// randomness anywhere in this system.
const (
	// midpoint is the resting value unsigned fields drift toward.
	midpoint = 50

	// driftStep is the per-turn pull toward the resting value.
	driftStep = 1

	// strongDivisor and weakDivisor scale cross-layer influence: a layer at
	// an extreme (0 or 100) pushes the layer below by at most 2 (strong)
	// or 1 (weak) per turn.
	strongDivisor = 25
	weakDivisor   = 50
)

// PulseSystem propagates pressure through the four layers once per turn.
// Influence is strictly top-down: national policy sets the weather, cities
// translate, neighborhoods express, the family absorbs. Nothing flows back
// up within a single propagation step.
type PulseSystem struct {
	logger *logger.Logger
}

// NewPulseSystem creates the pulse propagation system.
func NewPulseSystem(log *logger.Logger) *PulseSystem {
	return &PulseSystem{logger: log}
}

// Propagate runs one top-down propagation step over the whole state. Each
// layer is computed from the already-updated layer above it.
func (ps *PulseSystem) Propagate(st *game.GameState) {
	ps.driftGlobal(&st.GlobalPulse)
	ps.propagateCity(&st.City.Pulse, &st.GlobalPulse)
	for i := range st.City.Neighborhoods {
		ps.propagateNeighborhood(&st.City.Neighborhoods[i].Pulse, &st.City.Pulse)
	}
	if n := st.City.CurrentNeighborhood(); n != nil {
		ps.propagateFamily(&st.Family, &n.Pulse)
	}
}

// driftGlobal has no layer above it: fields only drift toward rest.
func (ps *PulseSystem) driftGlobal(g *pulse.GlobalPulse) {
	g.EnforcementClimate = pulse.Clamp(drift(g.EnforcementClimate, midpoint))
	g.PolicyVolatility = pulse.Clamp(drift(g.PolicyVolatility, midpoint))
	g.MediaNarrative = pulse.ClampSigned(drift(g.MediaNarrative, 0))
	g.JudicialAlignment = pulse.ClampSigned(drift(g.JudicialAlignment, 0))
}

func (ps *PulseSystem) propagateCity(c *pulse.CityPulse, g *pulse.GlobalPulse) {
	// A hot enforcement climate raises police presence and federal
	// cooperation; courts pushing back (negative alignment) erode the
	// cooperation again.
	c.PolicePresence = pulse.Clamp(drift(c.PolicePresence, midpoint) + lean(g.EnforcementClimate, strongDivisor))
	c.FederalCooperation = pulse.Clamp(drift(c.FederalCooperation, midpoint) + lean(g.EnforcementClimate, weakDivisor) + g.JudicialAlignment/weakDivisor)

	// Hostile coverage of enforcement (negative narrative) gives city hall
	// cover to resist; volatility keeps cameras pointed at the city.
	c.PoliticalCover = pulse.Clamp(drift(c.PoliticalCover, midpoint) - g.MediaNarrative/weakDivisor)
	c.MediaAttention = pulse.Clamp(drift(c.MediaAttention, midpoint) + lean(g.PolicyVolatility, strongDivisor))

	// Legal support grows when the courts lean against enforcement.
	c.LegalSupport = pulse.Clamp(drift(c.LegalSupport, midpoint) - g.JudicialAlignment/weakDivisor)
}

func (ps *PulseSystem) propagateNeighborhood(n *pulse.NeighborhoodPulse, c *pulse.CityPulse) {
	n.CheckpointActivity = pulse.Clamp(drift(n.CheckpointActivity, midpoint) + lean(c.PolicePresence, strongDivisor) + lean(c.FederalCooperation, weakDivisor))
	n.Trust = pulse.Clamp(drift(n.Trust, midpoint) - lean(c.PolicePresence, weakDivisor) + lean(c.LegalSupport, weakDivisor))
	n.RumorLevel = pulse.Clamp(drift(n.RumorLevel, midpoint) + lean(c.MediaAttention, strongDivisor))
	n.Solidarity = pulse.Clamp(drift(n.Solidarity, midpoint) + lean(c.PoliticalCover, weakDivisor))
	// Density moves slowly: checkpoints thin the streets out.
	n.CommunityDensity = pulse.Clamp(n.CommunityDensity - lean(n.CheckpointActivity, strongDivisor)/2)
}

func (ps *PulseSystem) propagateFamily(f *pulse.FamilyImpact, n *pulse.NeighborhoodPulse) {
	f.Stress = pulse.Clamp(drift(f.Stress, midpoint) + lean(n.CheckpointActivity, strongDivisor) + lean(n.RumorLevel, weakDivisor))
	f.Visibility = pulse.Clamp(f.Visibility + lean(n.CheckpointActivity, weakDivisor))
	f.Cohesion = pulse.Clamp(drift(f.Cohesion, midpoint) + lean(n.Solidarity, weakDivisor))
	f.TrustNetworkStrength = pulse.Clamp(f.TrustNetworkStrength + lean(n.Trust, weakDivisor))
}

// drift pulls a value one step toward its resting point.
func drift(v, rest int) int {
	if v > rest {
		return v - driftStep
	}
	if v < rest {
		return v + driftStep
	}
	return v
}

// lean measures how far a field sits from the midpoint, scaled down to a
// small influence term. Integer division keeps the result in [-2, 2] for
// the strong divisor and [-1, 1] for the weak one.
func lean(v, divisor int) int {
	return (v - midpoint) / divisor
}
