package engine

import (
	"fmt"
	"time"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// TurnContext carries the external event template pools for one advance
// call. The pools are owned by the caller; the engine only reads them.
type TurnContext struct {
	GlobalEventTemplates       []game.EventTemplate
	CityEventTemplates         []game.EventTemplate
	NeighborhoodEventTemplates []game.EventTemplate
}

// TurnResult describes what one advance call changed.
type TurnResult struct {
	Phase           game.Phase         `json:"phase"` // phase that was processed
	NewEvents       []game.ActiveEvent `json:"newEvents,omitempty"`
	ExpiredEvents   []game.ActiveEvent `json:"expiredEvents,omitempty"`
	EffectsApplied  pulse.Effects      `json:"effectsApplied,omitempty"`
	Decision        *game.Decision     `json:"decision,omitempty"` // pending after this step
	DecisionExpired bool               `json:"decisionExpired,omitempty"`
	Ending          *game.Ending       `json:"ending,omitempty"`
}

// SkipIterationCap bounds the skip-to-decision loop. Five phases make one
// full turn, so 20 iterations cover several turns; hitting the cap means a
// phase loop bug and is logged as a warning, never raised as an error.
const SkipIterationCap = 20

// Engine is the turn state machine. It orchestrates the phase systems and
// owns no session state of its own: one Engine instance serves every
// session, and concurrent advances against the same session must be
// serialized by the caller.
type Engine struct {
	logger *logger.Logger

	pulseSystem    *PulseSystem
	eventSystem    *EventSystem
	decisionSystem *DecisionSystem
	endingSystem   *EndingSystem
}

// NewEngine wires up the phase systems.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger:         log,
		pulseSystem:    NewPulseSystem(log),
		eventSystem:    NewEventSystem(log),
		decisionSystem: NewDecisionSystem(log),
		endingSystem:   NewEndingSystem(log),
	}
}

// Advance processes the session's current phase and transitions to the next
// one. It returns a new snapshot; the input state is never mutated. On a
// terminal state it is an idempotent no-op returning the existing ending.
//
// choiceIDs is required (non-empty) only in the decision phase, and only
// while the pending decision has not expired.
func (e *Engine) Advance(state *game.GameState, ctx TurnContext, choiceIDs []string) (*game.GameState, *TurnResult, error) {
	if state.Ended() {
		// Benign no-op so idempotent retries stay safe.
		return state, &TurnResult{Phase: state.Phase, Ending: state.Ending}, nil
	}

	st := state.Clone()
	result := &TurnResult{Phase: st.Phase}

	switch st.Phase {
	case game.PhasePlan:
		// Planning mutates nothing; the phase exists so presentation can
		// show the upcoming turn before the world moves.
		st.Phase = game.PhasePulseUpdate

	case game.PhasePulseUpdate:
		e.pulseSystem.Propagate(st)
		st.Phase = game.PhaseEvent

	case game.PhaseEvent:
		injected := e.eventSystem.Inject(st, ctx)
		result.NewEvents = injected.Events
		result.EffectsApplied = injected.InstantEffects
		if st.CurrentDecision != nil {
			result.Decision = st.CurrentDecision
			st.Phase = game.PhaseDecision
		} else {
			st.Phase = game.PhaseConsequence
		}

	case game.PhaseDecision:
		if st.CurrentDecision == nil {
			// A snapshot should never sit in the decision phase without a
			// pending decision; recover by moving on.
			e.logger.Warn("Decision phase with no pending decision, session " + st.SessionID)
			st.Phase = game.PhaseConsequence
			break
		}
		if st.CurrentDecision.Expired(st.Turn) {
			e.logger.Event("DECISION_EXPIRED", st.SessionID, st.CurrentDecision.ID)
			st.CurrentDecision = nil
			result.DecisionExpired = true
			st.Phase = game.PhaseConsequence
			break
		}
		if len(choiceIDs) == 0 {
			return state, nil, ErrMissingChoices
		}
		applied, err := e.decisionSystem.SubmitChoices(st, choiceIDs)
		if err != nil {
			// st is a discarded clone: the caller's snapshot is untouched.
			return state, nil, err
		}
		result.EffectsApplied = applied
		st.Phase = game.PhaseConsequence

	case game.PhaseConsequence:
		expired, perTurn := e.tickActiveEvents(st)
		result.ExpiredEvents = expired
		result.EffectsApplied = perTurn

		if ending := e.endingSystem.Evaluate(st); ending != nil {
			st.Ending = ending
			result.Ending = ending
			e.logger.Event("SESSION_ENDED", st.SessionID, endingSummary(ending))
		} else {
			st.Phase = game.PhasePlan
			st.Turn++
		}

	default:
		return state, nil, fmt.Errorf("unknown phase %q", st.Phase)
	}

	st.UpdatedAt = time.Now().UTC()
	e.logger.Event("PHASE", st.SessionID, fmt.Sprintf("%s -> %s (turn %d)", result.Phase, st.Phase, st.Turn))
	return st, result, nil
}

// AdvanceToDecision repeats Advance until a decision becomes pending, an
// ending is set, or the iteration cap is reached. The cap is a soft guard:
// it logs a warning and returns the state reached so far.
func (e *Engine) AdvanceToDecision(state *game.GameState, ctx TurnContext) (*game.GameState, *TurnResult, error) {
	st := state
	last := &TurnResult{Phase: st.Phase, Ending: st.Ending}

	for i := 0; i < SkipIterationCap; i++ {
		if st.Ended() {
			return st, last, nil
		}
		if st.Phase == game.PhaseDecision && st.CurrentDecision != nil && !st.CurrentDecision.Expired(st.Turn) {
			last.Decision = st.CurrentDecision
			return st, last, nil
		}

		next, result, err := e.Advance(st, ctx, nil)
		if err != nil {
			return st, last, err
		}
		st, last = next, result
	}

	e.logger.Warn(fmt.Sprintf("Skip cap (%d) reached for session %s at turn %d; possible phase loop", SkipIterationCap, st.SessionID, st.Turn))
	return st, last, nil
}

// UnlockedChoices evaluates every choice of the pending decision for
// presentation. It never blocks gameplay; callers decide whether to filter.
func (e *Engine) UnlockedChoices(state *game.GameState) []ChoiceUnlock {
	return e.decisionSystem.EvaluateUnlocks(state)
}

// tickActiveEvents applies per-turn effects, decrements durations, and
// drops expired events from all three layers.
func (e *Engine) tickActiveEvents(st *game.GameState) (expired []game.ActiveEvent, applied pulse.Effects) {
	applied = pulse.Effects{}

	tick := func(events []game.ActiveEvent) []game.ActiveEvent {
		kept := events[:0]
		for _, ev := range events {
			if ev.Mode == game.EffectPerTurn {
				unknown := pulse.Apply(&st.GlobalPulse, &st.City.Pulse, neighborhoodPulse(st), &st.Family, ev.Effects)
				for _, key := range unknown {
					e.logger.Warn("Unknown effect field " + key + " in event " + ev.TemplateID)
				}
				applied = pulse.Merge(applied, ev.Effects)
			}
			ev.Remaining--
			if ev.Remaining <= 0 {
				expired = append(expired, ev)
				continue
			}
			kept = append(kept, ev)
		}
		return kept
	}

	st.ActiveEvents.Global = tick(st.ActiveEvents.Global)
	st.ActiveEvents.City = tick(st.ActiveEvents.City)
	st.ActiveEvents.Neighborhood = tick(st.ActiveEvents.Neighborhood)

	if len(applied) == 0 {
		applied = nil
	}
	return expired, applied
}

// neighborhoodPulse resolves the current neighborhood's vector, falling back
// to a throwaway vector when the snapshot references a missing neighborhood
// so effect application still clamps safely.
func neighborhoodPulse(st *game.GameState) *pulse.NeighborhoodPulse {
	if n := st.City.CurrentNeighborhood(); n != nil {
		return &n.Pulse
	}
	return &pulse.NeighborhoodPulse{}
}

func endingSummary(e *game.Ending) string {
	if e.Kind == game.EndingVictory {
		return "victory:" + string(e.VictoryType)
	}
	return "failure:" + e.Reason
}
