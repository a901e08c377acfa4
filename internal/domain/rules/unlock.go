// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"fmt"

	"github.com/lmedrano/pulso/internal/domain/game"
)

// UnlockResult is the outcome of evaluating a choice's unlock conditions.
// Failing lists the predicates that did not hold, for UI explainability.
type UnlockResult struct {
	Unlocked bool     `json:"unlocked"`
	Failing  []string `json:"failing,omitempty"`
}

// unlockPredicate is one named unlock check. The explicit predicate list
// replaces ad-hoc boolean accumulation: every check runs, every failure is
// named, and the combined result is the AND of all of them.
type unlockPredicate struct {
	name string
	ok   func() bool
}

// EvaluateUnlock checks a choice's unlock conditions against the session
// state. A choice with no conditions is always unlocked. Conditions combine
// with AND; requiredChoices and rightsKnowledge use OR semantics across
// their own entries.
func EvaluateUnlock(ch *game.Choice, st *game.GameState) UnlockResult {
	if ch.Unlock == nil {
		return UnlockResult{Unlocked: true}
	}
	u := ch.Unlock

	var preds []unlockPredicate

	if u.MinTurn > 0 {
		preds = append(preds, unlockPredicate{
			name: fmt.Sprintf("minTurn:%d", u.MinTurn),
			ok:   func() bool { return st.Turn >= u.MinTurn },
		})
	}
	if u.MaxStress != nil {
		preds = append(preds, unlockPredicate{
			name: fmt.Sprintf("maxStress:%d", *u.MaxStress),
			ok:   func() bool { return st.Family.Stress <= *u.MaxStress },
		})
	}
	if u.MinCohesion != nil {
		preds = append(preds, unlockPredicate{
			name: fmt.Sprintf("minCohesion:%d", *u.MinCohesion),
			ok:   func() bool { return st.Family.Cohesion >= *u.MinCohesion },
		})
	}
	if u.MinTrustNetwork != nil {
		preds = append(preds, unlockPredicate{
			name: fmt.Sprintf("minTrustNetwork:%d", *u.MinTrustNetwork),
			ok:   func() bool { return st.Family.TrustNetworkStrength >= *u.MinTrustNetwork },
		})
	}
	if u.MaxVisibility != nil {
		preds = append(preds, unlockPredicate{
			name: fmt.Sprintf("maxVisibility:%d", *u.MaxVisibility),
			ok:   func() bool { return st.Family.Visibility <= *u.MaxVisibility },
		})
	}
	if len(u.RequiredChoices) > 0 {
		preds = append(preds, unlockPredicate{
			name: "requiredChoices",
			ok: func() bool {
				for _, id := range u.RequiredChoices {
					if st.HasChosen(id) {
						return true
					}
				}
				return false
			},
		})
	}
	if len(u.RightsKnowledge) > 0 {
		preds = append(preds, unlockPredicate{
			name: "rightsKnowledge",
			ok: func() bool {
				for _, tag := range u.RightsKnowledge {
					if st.HasRightsKnowledge(tag) {
						return true
					}
				}
				return false
			},
		})
	}

	result := UnlockResult{Unlocked: true}
	for _, p := range preds {
		if !p.ok() {
			result.Unlocked = false
			result.Failing = append(result.Failing, p.name)
		}
	}
	return result
}
