package rules

import (
	"testing"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

func testState() *game.GameState {
	city := game.CityState{
		ID:   "test-city",
		Name: "Test City",
		Neighborhoods: []game.Neighborhood{
			{ID: "n1", Name: "First", Pulse: pulse.NeighborhoodPulse{Trust: 50, CommunityDensity: 50}},
		},
		CurrentNeighborhoodID: "n1",
	}
	return game.NewGameState("ending-test", city, pulse.FamilyImpact{
		Stress:   50,
		Cohesion: 50,
	}, pulse.GlobalPulse{EnforcementClimate: 60}, 30)
}

func TestNoEndingMidGame(t *testing.T) {
	st := testState()
	if e := EvaluateEnding(st); e != nil {
		t.Fatalf("expected no ending, got %+v", e)
	}
}

func TestFamilyCollapseThresholds(t *testing.T) {
	st := testState()
	st.Family.Stress = 91
	st.Family.Cohesion = 14

	e := EvaluateEnding(st)
	if e == nil || e.Kind != game.EndingFailure || e.Reason != FailureReasonFamilyCollapse {
		t.Fatalf("expected family_collapse failure, got %+v", e)
	}

	// Both conditions must hold: high stress alone is survivable.
	st = testState()
	st.Family.Stress = 99
	st.Family.Cohesion = 15
	if e := EvaluateEnding(st); e != nil {
		t.Fatalf("cohesion at boundary should not collapse, got %+v", e)
	}

	st = testState()
	st.Family.Stress = 90
	st.Family.Cohesion = 5
	if e := EvaluateEnding(st); e != nil {
		t.Fatalf("stress at boundary should not collapse, got %+v", e)
	}
}

func TestFailureBeatsVictory(t *testing.T) {
	st := testState()
	// Sanctuary conditions met...
	st.City.Neighborhoods[0].Pulse.Trust = 90
	st.City.Neighborhoods[0].Pulse.CommunityDensity = 80
	st.Family.TrustNetworkStrength = 90
	// ...but the family broke first.
	st.Family.Stress = 95
	st.Family.Cohesion = 10

	e := EvaluateEnding(st)
	if e == nil || e.Kind != game.EndingFailure {
		t.Fatalf("failure must take priority over victory, got %+v", e)
	}
}

func TestSanctuaryVictory(t *testing.T) {
	st := testState()
	st.City.Neighborhoods[0].Pulse.Trust = 81
	st.City.Neighborhoods[0].Pulse.CommunityDensity = 71
	st.Family.TrustNetworkStrength = 81

	e := EvaluateEnding(st)
	if e == nil || e.VictoryType != game.VictorySanctuary {
		t.Fatalf("expected sanctuary victory, got %+v", e)
	}

	// Exactly at the thresholds must not trigger.
	st.City.Neighborhoods[0].Pulse.Trust = 80
	if e := EvaluateEnding(st); e != nil {
		t.Fatalf("trust at threshold should not win, got %+v", e)
	}
}

func TestOutlastOnlyAtFinalTurn(t *testing.T) {
	st := testState()
	st.GlobalPulse.EnforcementClimate = 30

	st.Turn = 29
	if e := EvaluateEnding(st); e != nil {
		t.Fatalf("outlast before maxTurns should not fire, got %+v", e)
	}

	st.Turn = 30
	e := EvaluateEnding(st)
	if e == nil || e.VictoryType != game.VictoryOutlast {
		t.Fatalf("expected outlast at maxTurns, got %+v", e)
	}
}

func TestTransformVictory(t *testing.T) {
	st := testState()
	st.City.Pulse.PoliticalCover = 85
	st.City.Pulse.FederalCooperation = 10
	st.GlobalPulse.MediaNarrative = -60

	e := EvaluateEnding(st)
	if e == nil || e.VictoryType != game.VictoryTransform {
		t.Fatalf("expected transform victory, got %+v", e)
	}
}

func TestTimeExpiredFailure(t *testing.T) {
	st := testState()
	st.Turn = 30
	st.GlobalPulse.EnforcementClimate = 75 // too high for outlast

	e := EvaluateEnding(st)
	if e == nil || e.Kind != game.EndingFailure || e.Reason != FailureReasonTimeExpired {
		t.Fatalf("expected time_expired failure, got %+v", e)
	}
}

func TestFinalTurnVictoryBeatsTimeExpired(t *testing.T) {
	st := testState()
	st.Turn = 30
	st.GlobalPulse.EnforcementClimate = 20

	e := EvaluateEnding(st)
	if e == nil || e.VictoryType != game.VictoryOutlast {
		t.Fatalf("outlast at final turn must beat time_expired, got %+v", e)
	}
}
