package engine

import (
	"fmt"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/domain/rules"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// ChoiceUnlock pairs a choice with its unlock evaluation for presentation.
type ChoiceUnlock struct {
	ChoiceID string             `json:"choiceId"`
	Result   rules.UnlockResult `json:"result"`
}

// DecisionSystem validates submitted choices and applies their effects.
type DecisionSystem struct {
	logger *logger.Logger
}

// NewDecisionSystem creates the decision resolution system.
func NewDecisionSystem(log *logger.Logger) *DecisionSystem {
	return &DecisionSystem{logger: log}
}

// SubmitChoices resolves the pending decision with the given choice ids.
// All validation happens before any mutation, so a failed submit leaves the
// state exactly as it was.
//
// Multi-select policy: when multiSelect is false, more than one id is
// rejected as ErrInvalidChoice. Presentation layers already enforce
// single-select, so a multi-id submit against a single-select decision is a
// client bug, not a preference to be guessed at.
func (ds *DecisionSystem) SubmitChoices(st *game.GameState, choiceIDs []string) (pulse.Effects, error) {
	decision := st.CurrentDecision
	if decision == nil {
		return nil, ErrNoActiveDecision
	}
	if len(choiceIDs) == 0 {
		return nil, fmt.Errorf("%w: empty selection for decision %s", ErrInvalidChoice, decision.ID)
	}
	if !decision.MultiSelect && len(choiceIDs) > 1 {
		return nil, fmt.Errorf("%w: decision %s is single-select, got %d ids", ErrInvalidChoice, decision.ID, len(choiceIDs))
	}

	seen := make(map[string]bool, len(choiceIDs))
	chosen := make([]*game.Choice, 0, len(choiceIDs))
	for _, id := range choiceIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidChoice, id)
		}
		seen[id] = true

		ch := decision.Choice(id)
		if ch == nil {
			return nil, fmt.Errorf("%w: id %q not in decision %s", ErrInvalidChoice, id, decision.ID)
		}
		chosen = append(chosen, ch)
	}

	// Validation done; from here on the mutation is all-or-nothing.
	aggregate := pulse.Effects{}
	for _, ch := range chosen {
		aggregate = pulse.Merge(aggregate, ch.Effects)
	}

	unknown := pulse.Apply(&st.GlobalPulse, &st.City.Pulse, neighborhoodPulse(st), &st.Family, aggregate)
	for _, key := range unknown {
		ds.logger.Warn("Unknown effect field " + key + " in decision " + decision.ID)
	}

	for _, ch := range chosen {
		for _, tag := range ch.GrantsKnowledge {
			st.AddRightsKnowledge(tag)
		}
	}

	st.ChoiceHistory = append(st.ChoiceHistory, game.ChoiceRecord{
		Turn:       st.Turn,
		DecisionID: decision.ID,
		ChoiceIDs:  append([]string(nil), choiceIDs...),
		Effects:    aggregate,
	})
	st.CurrentDecision = nil

	ds.logger.Event("DECISION_RESOLVED", st.SessionID, decision.ID)
	return aggregate, nil
}

// EvaluateUnlocks runs the unlock predicates of every choice in the pending
// decision. Returns nil when no decision is pending.
func (ds *DecisionSystem) EvaluateUnlocks(st *game.GameState) []ChoiceUnlock {
	if st.CurrentDecision == nil {
		return nil
	}
	out := make([]ChoiceUnlock, 0, len(st.CurrentDecision.Choices))
	for i := range st.CurrentDecision.Choices {
		ch := &st.CurrentDecision.Choices[i]
		out = append(out, ChoiceUnlock{
			ChoiceID: ch.ID,
			Result:   rules.EvaluateUnlock(ch, st),
		})
	}
	return out
}
