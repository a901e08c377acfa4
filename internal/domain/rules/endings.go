package rules

import "github.com/lmedrano/pulso/internal/domain/game"

// Ending thresholds. Fixed constants: the evaluation must stay explainable,
// so nothing here is tunable at runtime.
const (
	FailureStressAbove   = 90 // stress must exceed this AND
	FailureCohesionBelow = 15 // cohesion must fall below this

	SanctuaryTrustAbove        = 80
	SanctuaryDensityAbove      = 70
	SanctuaryTrustNetworkAbove = 80

	OutlastClimateBelow = 40 // at turn == maxTurns

	TransformCoverAbove       = 80
	TransformCooperationBelow = 20
	TransformNarrativeBelow   = -50
)

// Failure reason strings recorded on the ending.
const (
	// FailureReasonFamilyCollapse: the family broke under pressure.
	FailureReasonFamilyCollapse = "family_collapse"
	// FailureReasonTimeExpired: maxTurns elapsed with the enforcement
	// climate still high and no victory condition met.
	FailureReasonTimeExpired = "time_expired"
)

// EvaluateEnding inspects the post-consequence state and returns the ending
// it has reached, or nil. Failure takes priority over victory; victories are
// checked in fixed order sanctuary, outlast, transform.
func EvaluateEnding(st *game.GameState) *game.Ending {
	if st.Family.Stress > FailureStressAbove && st.Family.Cohesion < FailureCohesionBelow {
		return game.NewFailure(FailureReasonFamilyCollapse, st.Turn)
	}

	if n := st.City.CurrentNeighborhood(); n != nil {
		if n.Pulse.Trust > SanctuaryTrustAbove &&
			n.Pulse.CommunityDensity > SanctuaryDensityAbove &&
			st.Family.TrustNetworkStrength > SanctuaryTrustNetworkAbove {
			return game.NewVictory(game.VictorySanctuary, st.Turn)
		}
	}

	if st.Turn >= st.MaxTurns && st.GlobalPulse.EnforcementClimate < OutlastClimateBelow {
		return game.NewVictory(game.VictoryOutlast, st.Turn)
	}

	if st.City.Pulse.PoliticalCover > TransformCoverAbove &&
		st.City.Pulse.FederalCooperation < TransformCooperationBelow &&
		st.GlobalPulse.MediaNarrative < TransformNarrativeBelow {
		return game.NewVictory(game.VictoryTransform, st.Turn)
	}

	// The clock running out without a victory is itself terminal, checked
	// last so an outlast or transform win at the final turn still counts.
	if st.Turn >= st.MaxTurns {
		return game.NewFailure(FailureReasonTimeExpired, st.Turn)
	}

	return nil
}
