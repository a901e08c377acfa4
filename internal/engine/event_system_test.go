package engine

import (
	"reflect"
	"testing"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

func newEventSystem() *EventSystem {
	return NewEventSystem(logger.NewLogger())
}

func TestInjectEmptyPools(t *testing.T) {
	es := newEventSystem()
	st := newTestState("empty-pools")

	result := es.Inject(st, TurnContext{})
	if len(result.Events) != 0 {
		t.Errorf("events = %+v, want none", result.Events)
	}
	if result.InstantEffects != nil {
		t.Errorf("instant effects = %+v, want nil", result.InstantEffects)
	}
	if st.CurrentDecision != nil {
		t.Error("no decision should be staged")
	}
}

func TestInjectAppliesInstantEffects(t *testing.T) {
	es := newEventSystem()
	st := newTestState("instant-effects")
	ctx := TurnContext{
		CityEventTemplates: []game.EventTemplate{{
			ID:      "press-push",
			Scope:   game.ScopeCity,
			Title:   "Press push",
			Mode:    game.EffectInstant,
			Effects: pulse.Effects{"mediaAttention": 15},
		}},
	}

	result := es.Inject(st, ctx)
	if len(result.Events) != 1 || result.Events[0].TemplateID != "press-push" {
		t.Fatalf("events = %+v", result.Events)
	}
	if st.City.Pulse.MediaAttention != 65 {
		t.Errorf("mediaAttention = %d, want 65", st.City.Pulse.MediaAttention)
	}
	// Zero duration: fired and gone, nothing stays active.
	if len(st.ActiveEvents.City) != 0 {
		t.Errorf("active city events = %+v, want none", st.ActiveEvents.City)
	}
	if result.InstantEffects["mediaAttention"] != 15 {
		t.Errorf("instant effects = %+v", result.InstantEffects)
	}
}

func TestInjectRegistersDurationEvents(t *testing.T) {
	es := newEventSystem()
	st := newTestState("duration-events")
	ctx := TurnContext{
		NeighborhoodEventTemplates: []game.EventTemplate{{
			ID:       "patrol-wave",
			Scope:    game.ScopeNeighborhood,
			Title:    "Patrol wave",
			Mode:     game.EffectPerTurn,
			Effects:  pulse.Effects{"checkpointActivity": 5},
			Duration: 3,
		}},
	}

	es.Inject(st, ctx)
	if len(st.ActiveEvents.Neighborhood) != 1 {
		t.Fatalf("active neighborhood events = %+v, want one", st.ActiveEvents.Neighborhood)
	}
	ev := st.ActiveEvents.Neighborhood[0]
	if ev.Remaining != 3 || ev.StartTurn != st.Turn {
		t.Errorf("instance = %+v", ev)
	}
	// Per-turn effects wait for the consequence phase.
	if st.City.Neighborhoods[0].Pulse.CheckpointActivity != 50 {
		t.Errorf("checkpointActivity = %d, per-turn effect must not apply at injection", st.City.Neighborhoods[0].Pulse.CheckpointActivity)
	}
}

func TestInjectSkipsAlreadyActiveTemplate(t *testing.T) {
	es := newEventSystem()
	st := newTestState("no-duplicates")
	st.ActiveEvents.Global = []game.ActiveEvent{{TemplateID: "crackdown", Scope: game.ScopeGlobal, Remaining: 2}}
	ctx := TurnContext{
		GlobalEventTemplates: []game.EventTemplate{{
			ID:       "crackdown",
			Scope:    game.ScopeGlobal,
			Mode:     game.EffectPerTurn,
			Duration: 2,
		}},
	}

	result := es.Inject(st, ctx)
	if len(result.Events) != 0 {
		t.Errorf("events = %+v, active template must not fire again", result.Events)
	}
	if len(st.ActiveEvents.Global) != 1 {
		t.Errorf("active global events = %+v", st.ActiveEvents.Global)
	}
}

func TestInjectTriggerWindowAndConditions(t *testing.T) {
	es := newEventSystem()

	tests := []struct {
		name     string
		turn     int
		trust    int
		trigger  game.Trigger
		eligible bool
	}{
		{"before minTurn", 2, 50, game.Trigger{MinTurn: 5}, false},
		{"at minTurn", 5, 50, game.Trigger{MinTurn: 5}, true},
		{"after maxTurn", 9, 50, game.Trigger{MaxTurn: 8}, false},
		{"atLeast holds", 3, 70, game.Trigger{All: []game.Condition{{Field: "trust", Op: game.OpAtLeast, Value: 60}}}, true},
		{"atLeast fails", 3, 50, game.Trigger{All: []game.Condition{{Field: "trust", Op: game.OpAtLeast, Value: 60}}}, false},
		{"atMost holds", 3, 40, game.Trigger{All: []game.Condition{{Field: "trust", Op: game.OpAtMost, Value: 40}}}, true},
		{"unknown field", 3, 50, game.Trigger{All: []game.Condition{{Field: "vibes", Op: game.OpAtLeast, Value: 1}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState("trigger-test")
			st.Turn = tt.turn
			st.City.Neighborhoods[0].Pulse.Trust = tt.trust

			tpl := game.EventTemplate{ID: "gated", Scope: game.ScopeNeighborhood, Mode: game.EffectInstant, Trigger: tt.trigger}
			got := es.eligible(st, []game.EventTemplate{tpl}, nil)
			if (len(got) == 1) != tt.eligible {
				t.Errorf("eligible = %v, want %v", len(got) == 1, tt.eligible)
			}
		})
	}
}

func TestInjectStagesOnlyFirstDecision(t *testing.T) {
	es := newEventSystem()
	st := newTestState("one-decision")
	ctx := TurnContext{
		GlobalEventTemplates: []game.EventTemplate{{
			ID: "g1", Scope: game.ScopeGlobal, Mode: game.EffectInstant,
			Decision: &game.Decision{ID: "first", Choices: []game.Choice{{ID: "a"}}},
		}},
		CityEventTemplates: []game.EventTemplate{{
			ID: "c1", Scope: game.ScopeCity, Mode: game.EffectInstant,
			Decision: &game.Decision{ID: "second", Choices: []game.Choice{{ID: "b"}}},
		}},
	}

	es.Inject(st, ctx)
	if st.CurrentDecision == nil || st.CurrentDecision.ID != "first" {
		t.Fatalf("pending decision = %+v, want first", st.CurrentDecision)
	}
	if st.CurrentDecision.StagedTurn != st.Turn {
		t.Errorf("stagedTurn = %d, want %d", st.CurrentDecision.StagedTurn, st.Turn)
	}
}

func TestInjectIsDeterministicPerSessionAndTurn(t *testing.T) {
	pool := []game.EventTemplate{
		{ID: "a", Scope: game.ScopeCity, Mode: game.EffectInstant, Weight: 3},
		{ID: "b", Scope: game.ScopeCity, Mode: game.EffectInstant, Weight: 2},
		{ID: "c", Scope: game.ScopeCity, Mode: game.EffectInstant, Weight: 1},
	}
	ctx := TurnContext{CityEventTemplates: pool}

	run := func(sessionID string, turn int) []game.ActiveEvent {
		es := newEventSystem()
		st := newTestState(sessionID)
		st.Turn = turn
		return es.Inject(st, ctx).Events
	}

	first := run("replay-me", 7)
	second := run("replay-me", 7)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same session and turn picked different events: %+v vs %+v", first, second)
	}

	// Different turns must reseed; over many turns the picks cannot all
	// collapse onto one template given three weighted candidates.
	seen := map[string]bool{}
	for turn := 1; turn <= 40; turn++ {
		for _, ev := range run("spread-me", turn) {
			seen[ev.TemplateID] = true
		}
	}
	if len(seen) < 2 {
		t.Errorf("40 turns picked only %v, weighting looks broken", seen)
	}
}

func TestPickWeightedFloorsWeightAtOne(t *testing.T) {
	candidates := []game.EventTemplate{
		{ID: "zero", Weight: 0},
		{ID: "neg", Weight: -5},
	}
	if got := weightOf(candidates[0]); got != 1 {
		t.Errorf("weightOf(0) = %d, want 1", got)
	}
	if got := weightOf(candidates[1]); got != 1 {
		t.Errorf("weightOf(-5) = %d, want 1", got)
	}
}

func TestSessionSeedStability(t *testing.T) {
	if sessionSeed("s1", 4) != sessionSeed("s1", 4) {
		t.Error("seed must be stable for identical inputs")
	}
	if sessionSeed("s1", 4) == sessionSeed("s1", 5) {
		t.Error("seed must vary with the turn")
	}
	if sessionSeed("s1", 4) == sessionSeed("s2", 4) {
		t.Error("seed must vary with the session id")
	}
}
