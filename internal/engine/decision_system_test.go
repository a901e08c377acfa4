package engine

import (
	"errors"
	"testing"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

func newDecisionSystem() *DecisionSystem {
	return NewDecisionSystem(logger.NewLogger())
}

func stateWithDecision(multiSelect bool) *game.GameState {
	st := newTestState("decision-test")
	st.Phase = game.PhaseDecision
	st.CurrentDecision = &game.Decision{
		ID:          "shelter-call",
		MultiSelect: multiSelect,
		Choices: []game.Choice{
			{ID: "warn-neighbors", Effects: pulse.Effects{"trust": 5, "visibility": 3}},
			{ID: "stay-quiet", Effects: pulse.Effects{"stress": 4}},
			{ID: "call-lawyer", Effects: pulse.Effects{"stress": -3}, GrantsKnowledge: []string{"hotline"}},
		},
		StagedTurn: st.Turn,
	}
	return st
}

func TestSubmitChoicesNoActiveDecision(t *testing.T) {
	ds := newDecisionSystem()
	st := newTestState("no-decision")

	_, err := ds.SubmitChoices(st, []string{"x"})
	if !errors.Is(err, ErrNoActiveDecision) {
		t.Errorf("err = %v, want ErrNoActiveDecision", err)
	}
}

func TestSubmitChoicesSingleSelectRejectsMultiple(t *testing.T) {
	ds := newDecisionSystem()
	st := stateWithDecision(false)

	_, err := ds.SubmitChoices(st, []string{"warn-neighbors", "stay-quiet"})
	if !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("err = %v, want ErrInvalidChoice", err)
	}
	if st.CurrentDecision == nil || len(st.ChoiceHistory) != 0 || st.Family.Stress != 50 {
		t.Error("rejected submit must leave the state untouched")
	}
}

func TestSubmitChoicesRejectsUnknownAndDuplicateIDs(t *testing.T) {
	ds := newDecisionSystem()

	st := stateWithDecision(true)
	if _, err := ds.SubmitChoices(st, []string{"warn-neighbors", "no-such"}); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("unknown id: err = %v, want ErrInvalidChoice", err)
	}

	st = stateWithDecision(true)
	if _, err := ds.SubmitChoices(st, []string{"stay-quiet", "stay-quiet"}); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("duplicate id: err = %v, want ErrInvalidChoice", err)
	}
	if st.Family.Stress != 50 {
		t.Error("duplicate submit must not apply effects")
	}
}

func TestSubmitChoicesSingleSelect(t *testing.T) {
	ds := newDecisionSystem()
	st := stateWithDecision(false)

	applied, err := ds.SubmitChoices(st, []string{"call-lawyer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Family.Stress != 47 {
		t.Errorf("stress = %d, want 47", st.Family.Stress)
	}
	if !st.HasRightsKnowledge("hotline") {
		t.Error("granted knowledge missing")
	}
	if st.CurrentDecision != nil {
		t.Error("decision should be cleared")
	}
	if applied["stress"] != -3 {
		t.Errorf("applied = %+v", applied)
	}
}

func TestSubmitChoicesMultiSelectAggregates(t *testing.T) {
	ds := newDecisionSystem()
	st := stateWithDecision(true)

	applied, err := ds.SubmitChoices(st, []string{"warn-neighbors", "stay-quiet"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied["trust"] != 5 || applied["visibility"] != 3 || applied["stress"] != 4 {
		t.Errorf("aggregate = %+v", applied)
	}
	if st.City.Neighborhoods[0].Pulse.Trust != 55 {
		t.Errorf("trust = %d, want 55", st.City.Neighborhoods[0].Pulse.Trust)
	}
	if st.Family.Stress != 54 {
		t.Errorf("stress = %d, want 54", st.Family.Stress)
	}

	if len(st.ChoiceHistory) != 1 {
		t.Fatalf("history = %+v, want one record", st.ChoiceHistory)
	}
	rec := st.ChoiceHistory[0]
	if rec.DecisionID != "shelter-call" || len(rec.ChoiceIDs) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Turn != st.Turn {
		t.Errorf("record turn = %d, want %d", rec.Turn, st.Turn)
	}
}

func TestEvaluateUnlocksNilWithoutDecision(t *testing.T) {
	ds := newDecisionSystem()
	st := newTestState("unlock-nil")
	if got := ds.EvaluateUnlocks(st); got != nil {
		t.Errorf("unlocks = %+v, want nil", got)
	}
}

func TestEvaluateUnlocksCoversEveryChoice(t *testing.T) {
	ds := newDecisionSystem()
	st := stateWithDecision(false)
	maxStress := 40
	st.CurrentDecision.Choices[2].Unlock = &game.UnlockConditions{MaxStress: &maxStress}

	got := ds.EvaluateUnlocks(st)
	if len(got) != 3 {
		t.Fatalf("unlocks = %+v, want 3 entries", got)
	}
	if !got[0].Result.Unlocked || !got[1].Result.Unlocked {
		t.Error("unconditioned choices must be unlocked")
	}
	if got[2].Result.Unlocked {
		t.Error("stress 50 against maxStress 40 should lock the choice")
	}
	if len(got[2].Result.Failing) != 1 {
		t.Errorf("failing = %+v", got[2].Result.Failing)
	}
}

func TestSubmitChoicesDoesNotEnforceUnlocks(t *testing.T) {
	// Unlock evaluation is presentation-level; a direct submit of a locked
	// choice still resolves. Clients filter, the engine records.
	ds := newDecisionSystem()
	st := stateWithDecision(false)
	maxStress := 10
	st.CurrentDecision.Choices[1].Unlock = &game.UnlockConditions{MaxStress: &maxStress}

	if _, err := ds.SubmitChoices(st, []string{"stay-quiet"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.ChoiceHistory) != 1 {
		t.Error("locked choice submit should still record")
	}
}
