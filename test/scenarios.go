// Package test - scenarios.go
// End-to-end scenario runs: full sessions driven through the engine
// in-process, validating whole-playthrough behavior that unit tests
// cannot cover one phase at a time.
package test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lmedrano/pulso/internal/content"
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/engine"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// ScenarioResult captures the outcome of each scenario.
type ScenarioResult struct {
	ScenarioName string
	Passed       bool
	Reason       string
}

// Harness runs full-session scenarios against a fresh engine.
type Harness struct {
	engine  *engine.Engine
	logger  *logger.Logger
	results []ScenarioResult
}

// NewHarness creates the scenario harness.
func NewHarness() *Harness {
	log := logger.NewLogger()
	return &Harness{
		engine:  engine.NewEngine(log),
		logger:  log,
		results: make([]ScenarioResult, 0),
	}
}

// RunAll executes every scenario and returns the results.
func (h *Harness) RunAll(ctx context.Context) []ScenarioResult {
	h.runFamilyCollapse()
	h.runSanctuaryPath()
	h.runDeterministicReplay()
	h.runFullPlaythrough()
	return h.results
}

// GetResults returns all scenario results.
func (h *Harness) GetResults() []ScenarioResult {
	return h.results
}

func (h *Harness) record(name string, passed bool, reason string) {
	h.results = append(h.results, ScenarioResult{
		ScenarioName: name,
		Passed:       passed,
		Reason:       reason,
	})
	marker := "✅"
	if !passed {
		marker = "❌"
	}
	fmt.Printf("%s %s: %s\n", marker, name, reason)
}

// newSession builds a fresh session on the first default city.
func newSession(sessionID string, maxTurns int) *game.GameState {
	city := content.DefaultCities()[0]
	return game.NewGameState(sessionID, city.ToState(), content.DefaultFamily(), content.DefaultGlobal(), maxTurns)
}

func templates() engine.TurnContext {
	ts := content.DefaultTemplates()
	return engine.TurnContext{
		GlobalEventTemplates:       ts.Global,
		CityEventTemplates:         ts.City,
		NeighborhoodEventTemplates: ts.Neighborhood,
	}
}

// step advances one phase, answering any pending decision with its
// first listed choice so the run never stalls.
func (h *Harness) step(st *game.GameState, ctx engine.TurnContext) (*game.GameState, error) {
	var choiceIDs []string
	if st.Phase == game.PhaseDecision && st.CurrentDecision != nil && !st.CurrentDecision.Expired(st.Turn) {
		choiceIDs = []string{st.CurrentDecision.Choices[0].ID}
	}
	next, _, err := h.engine.Advance(st, ctx, choiceIDs)
	return next, err
}

// runToEnd drives a session until it terminates or the cap is hit.
func (h *Harness) runToEnd(st *game.GameState, ctx engine.TurnContext, cap int) (*game.GameState, error) {
	for i := 0; i < cap; i++ {
		if st.Ended() {
			return st, nil
		}
		next, err := h.step(st, ctx)
		if err != nil {
			return st, err
		}
		st = next
	}
	return st, fmt.Errorf("session did not terminate within %d steps", cap)
}

// runFamilyCollapse verifies that extreme stress plus broken cohesion
// ends the session in failure at the next consequence phase.
func (h *Harness) runFamilyCollapse() {
	const name = "Family collapse"

	st := newSession("scenario-collapse", 30)
	st.Family.Stress = 97
	st.Family.Cohesion = 8
	st.Phase = game.PhaseConsequence

	next, _, err := h.engine.Advance(st, templates(), nil)
	if err != nil {
		h.record(name, false, "advance failed: "+err.Error())
		return
	}
	if next.Ending == nil || next.Ending.Kind != game.EndingFailure {
		h.record(name, false, "expected a failure ending, session kept going")
		return
	}
	h.record(name, true, "failure ending raised ("+next.Ending.Reason+")")
}

// runSanctuaryPath verifies the sanctuary victory thresholds.
func (h *Harness) runSanctuaryPath() {
	const name = "Sanctuary path"

	st := newSession("scenario-sanctuary", 30)
	if n := st.City.CurrentNeighborhood(); n != nil {
		n.Pulse.Trust = 85
		n.Pulse.CommunityDensity = 75
	}
	st.Family.TrustNetworkStrength = 85
	st.Phase = game.PhaseConsequence

	next, _, err := h.engine.Advance(st, templates(), nil)
	if err != nil {
		h.record(name, false, "advance failed: "+err.Error())
		return
	}
	if next.Ending == nil || next.Ending.VictoryType != game.VictorySanctuary {
		h.record(name, false, "expected sanctuary victory")
		return
	}
	h.record(name, true, "sanctuary victory at turn "+itoa(next.Ending.Turn))
}

// runDeterministicReplay verifies that two sessions with the same id and
// the same inputs walk through identical states.
func (h *Harness) runDeterministicReplay() {
	const name = "Deterministic replay"
	const steps = 40

	a := newSession("scenario-replay", 30)
	b := newSession("scenario-replay", 30)

	for i := 0; i < steps; i++ {
		if a.Ended() || b.Ended() {
			break
		}
		var err error
		a, err = h.step(a, templates())
		if err != nil {
			h.record(name, false, "run A failed: "+err.Error())
			return
		}
		b, err = h.step(b, templates())
		if err != nil {
			h.record(name, false, "run B failed: "+err.Error())
			return
		}
	}

	if canonical(a) != canonical(b) {
		h.record(name, false, "state diverged between identical runs")
		return
	}
	h.record(name, true, "identical states after "+itoa(steps)+" steps")
}

// runFullPlaythrough verifies that an unattended session always reaches
// a terminal state and that the terminal state is a stable no-op.
func (h *Harness) runFullPlaythrough() {
	const name = "Full playthrough"

	st := newSession("scenario-full", 12)
	final, err := h.runToEnd(st, templates(), 12*6+20)
	if err != nil {
		h.record(name, false, err.Error())
		return
	}
	if final.Ending == nil {
		h.record(name, false, "session exceeded max turns without an ending")
		return
	}

	again, _, err := h.engine.Advance(final, templates(), nil)
	if err != nil {
		h.record(name, false, "terminal advance errored: "+err.Error())
		return
	}
	if canonical(again) != canonical(final) {
		h.record(name, false, "terminal advance mutated the snapshot")
		return
	}
	h.record(name, true, "ended with "+string(final.Ending.Kind)+" and stayed terminal")
}

// canonical serializes a state with its volatile timestamps zeroed so
// two runs can be compared byte for byte.
func canonical(st *game.GameState) string {
	c := st.Clone()
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	data, _ := json.Marshal(c)
	return string(data)
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
