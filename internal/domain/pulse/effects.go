package pulse

// Effects is a delta map keyed by the canonical (JSON) field name of a pulse
// field. Event templates and decision choices declare their impact this way.
type Effects map[string]int

// Merge returns the field-wise sum of two effect maps. Neither input is
// mutated; keys present in both accumulate additively.
func Merge(a, b Effects) Effects {
	out := make(Effects, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

// Value looks up a pulse field by its canonical name across the four layers.
// The second return is false for an unknown name.
func Value(g *GlobalPulse, c *CityPulse, n *NeighborhoodPulse, f *FamilyImpact, key string) (int, bool) {
	switch key {
	case "enforcementClimate":
		return g.EnforcementClimate, true
	case "policyVolatility":
		return g.PolicyVolatility, true
	case "mediaNarrative":
		return g.MediaNarrative, true
	case "judicialAlignment":
		return g.JudicialAlignment, true
	case "politicalCover":
		return c.PoliticalCover, true
	case "federalCooperation":
		return c.FederalCooperation, true
	case "policePresence":
		return c.PolicePresence, true
	case "legalSupport":
		return c.LegalSupport, true
	case "mediaAttention":
		return c.MediaAttention, true
	case "trust":
		return n.Trust, true
	case "communityDensity":
		return n.CommunityDensity, true
	case "checkpointActivity":
		return n.CheckpointActivity, true
	case "rumorLevel":
		return n.RumorLevel, true
	case "solidarity":
		return n.Solidarity, true
	case "visibility":
		return f.Visibility, true
	case "stress":
		return f.Stress, true
	case "cohesion":
		return f.Cohesion, true
	case "trustNetworkStrength":
		return f.TrustNetworkStrength, true
	}
	return 0, false
}

// Apply routes every named delta to the owning layer's field, clamping after
// each mutation. Keys that match no known field are returned so the caller
// can log them; they are never silently dropped into a generic bag.
func Apply(g *GlobalPulse, c *CityPulse, n *NeighborhoodPulse, f *FamilyImpact, effects Effects) (unknown []string) {
	for key, delta := range effects {
		switch key {
		// Global layer
		case "enforcementClimate":
			g.EnforcementClimate = Clamp(g.EnforcementClimate + delta)
		case "policyVolatility":
			g.PolicyVolatility = Clamp(g.PolicyVolatility + delta)
		case "mediaNarrative":
			g.MediaNarrative = ClampSigned(g.MediaNarrative + delta)
		case "judicialAlignment":
			g.JudicialAlignment = ClampSigned(g.JudicialAlignment + delta)

		// City layer
		case "politicalCover":
			c.PoliticalCover = Clamp(c.PoliticalCover + delta)
		case "federalCooperation":
			c.FederalCooperation = Clamp(c.FederalCooperation + delta)
		case "policePresence":
			c.PolicePresence = Clamp(c.PolicePresence + delta)
		case "legalSupport":
			c.LegalSupport = Clamp(c.LegalSupport + delta)
		case "mediaAttention":
			c.MediaAttention = Clamp(c.MediaAttention + delta)

		// Neighborhood layer
		case "trust":
			n.Trust = Clamp(n.Trust + delta)
		case "communityDensity":
			n.CommunityDensity = Clamp(n.CommunityDensity + delta)
		case "checkpointActivity":
			n.CheckpointActivity = Clamp(n.CheckpointActivity + delta)
		case "rumorLevel":
			n.RumorLevel = Clamp(n.RumorLevel + delta)
		case "solidarity":
			n.Solidarity = Clamp(n.Solidarity + delta)

		// Family layer
		case "visibility":
			f.Visibility = Clamp(f.Visibility + delta)
		case "stress":
			f.Stress = Clamp(f.Stress + delta)
		case "cohesion":
			f.Cohesion = Clamp(f.Cohesion + delta)
		case "trustNetworkStrength":
			f.TrustNetworkStrength = Clamp(f.TrustNetworkStrength + delta)

		default:
			unknown = append(unknown, key)
		}
	}
	return unknown
}
