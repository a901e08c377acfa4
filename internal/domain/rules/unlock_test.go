package rules

import (
	"testing"

	"github.com/lmedrano/pulso/internal/domain/game"
)

func intp(v int) *int { return &v }

func TestUnlockNoConditions(t *testing.T) {
	st := testState()
	ch := &game.Choice{ID: "open"}

	r := EvaluateUnlock(ch, st)
	if !r.Unlocked || len(r.Failing) != 0 {
		t.Fatalf("choice without conditions must always unlock, got %+v", r)
	}
}

func TestUnlockMinTurn(t *testing.T) {
	st := testState()
	ch := &game.Choice{ID: "late", Unlock: &game.UnlockConditions{MinTurn: 5}}

	st.Turn = 4
	if r := EvaluateUnlock(ch, st); r.Unlocked {
		t.Fatal("minTurn 5 must stay locked at turn 4")
	}

	st.Turn = 5
	if r := EvaluateUnlock(ch, st); !r.Unlocked {
		t.Fatalf("minTurn 5 must unlock at turn 5, failing: %v", r.Failing)
	}
}

func TestUnlockFamilyThresholds(t *testing.T) {
	st := testState()
	st.Family.Stress = 70
	st.Family.Cohesion = 40
	st.Family.TrustNetworkStrength = 30
	st.Family.Visibility = 60

	ch := &game.Choice{ID: "risky", Unlock: &game.UnlockConditions{
		MaxStress:       intp(60),
		MinCohesion:     intp(50),
		MinTrustNetwork: intp(40),
		MaxVisibility:   intp(50),
	}}

	r := EvaluateUnlock(ch, st)
	if r.Unlocked {
		t.Fatal("all four thresholds are violated, choice must stay locked")
	}
	if len(r.Failing) != 4 {
		t.Fatalf("every failing predicate must be named, got %v", r.Failing)
	}

	st.Family.Stress = 60
	st.Family.Cohesion = 50
	st.Family.TrustNetworkStrength = 40
	st.Family.Visibility = 50
	if r := EvaluateUnlock(ch, st); !r.Unlocked {
		t.Fatalf("thresholds are inclusive, failing: %v", r.Failing)
	}
}

func TestUnlockRequiredChoicesOr(t *testing.T) {
	st := testState()
	ch := &game.Choice{ID: "followup", Unlock: &game.UnlockConditions{
		RequiredChoices: []string{"talk-to-lawyer", "attend-meeting"},
	}}

	if r := EvaluateUnlock(ch, st); r.Unlocked {
		t.Fatal("no prior choices recorded, must stay locked")
	}

	st.ChoiceHistory = append(st.ChoiceHistory, game.ChoiceRecord{
		Turn:       2,
		DecisionID: "d1",
		ChoiceIDs:  []string{"attend-meeting"},
	})
	if r := EvaluateUnlock(ch, st); !r.Unlocked {
		t.Fatalf("any one required choice suffices, failing: %v", r.Failing)
	}
}

func TestUnlockRightsKnowledgeOr(t *testing.T) {
	st := testState()
	ch := &game.Choice{ID: "assert-rights", Unlock: &game.UnlockConditions{
		RightsKnowledge: []string{"red_card", "legal_clinic"},
	}}

	if r := EvaluateUnlock(ch, st); r.Unlocked {
		t.Fatal("no knowledge tags, must stay locked")
	}

	st.AddRightsKnowledge("legal_clinic")
	if r := EvaluateUnlock(ch, st); !r.Unlocked {
		t.Fatalf("any one knowledge tag suffices, failing: %v", r.Failing)
	}
}

func TestUnlockCombinesWithAnd(t *testing.T) {
	st := testState()
	st.Turn = 10
	st.AddRightsKnowledge("red_card")
	st.Family.Stress = 95

	ch := &game.Choice{ID: "combined", Unlock: &game.UnlockConditions{
		MinTurn:         5,
		MaxStress:       intp(80),
		RightsKnowledge: []string{"red_card"},
	}}

	r := EvaluateUnlock(ch, st)
	if r.Unlocked {
		t.Fatal("one failing predicate locks the whole choice")
	}
	if len(r.Failing) != 1 || r.Failing[0] != "maxStress:80" {
		t.Fatalf("failing = %v, want only maxStress:80", r.Failing)
	}
}
