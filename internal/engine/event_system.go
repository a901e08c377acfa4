package engine

import (
	"hash/fnv"
	"math/rand"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// InjectionResult describes what the event phase produced.
type InjectionResult struct {
	Events         []game.ActiveEvent
	InstantEffects pulse.Effects
}

// EventSystem selects and instantiates event templates. Selection is
// reproducible: the RNG is seeded from the session id and turn number, so
// two advances from an identical snapshot with identical pools pick
// identical events.
type EventSystem struct {
	logger *logger.Logger
}

// NewEventSystem creates the event injection system.
func NewEventSystem(log *logger.Logger) *EventSystem {
	return &EventSystem{logger: log}
}

// Inject fires at most one eligible template per scope for this turn,
// applying instant effects immediately and registering duration-bearing
// instances as active events. A fired template may also stage a decision;
// only the first staged decision of the turn becomes pending.
func (es *EventSystem) Inject(st *game.GameState, ctx TurnContext) InjectionResult {
	rng := rand.New(rand.NewSource(sessionSeed(st.SessionID, st.Turn)))
	result := InjectionResult{InstantEffects: pulse.Effects{}}

	// Fixed scope order keeps the RNG consumption deterministic.
	es.injectScope(st, rng, ctx.GlobalEventTemplates, &st.ActiveEvents.Global, &result)
	es.injectScope(st, rng, ctx.CityEventTemplates, &st.ActiveEvents.City, &result)
	es.injectScope(st, rng, ctx.NeighborhoodEventTemplates, &st.ActiveEvents.Neighborhood, &result)

	if len(result.InstantEffects) == 0 {
		result.InstantEffects = nil
	}
	return result
}

func (es *EventSystem) injectScope(st *game.GameState, rng *rand.Rand, pool []game.EventTemplate, active *[]game.ActiveEvent, result *InjectionResult) {
	candidates := es.eligible(st, pool, *active)
	if len(candidates) == 0 {
		return
	}

	tpl := pickWeighted(rng, candidates)
	es.logger.Event("EVENT_FIRED", st.SessionID, tpl.ID)

	if tpl.Mode == game.EffectInstant {
		unknown := pulse.Apply(&st.GlobalPulse, &st.City.Pulse, neighborhoodPulse(st), &st.Family, tpl.Effects)
		for _, key := range unknown {
			es.logger.Warn("Unknown effect field " + key + " in template " + tpl.ID)
		}
		result.InstantEffects = pulse.Merge(result.InstantEffects, tpl.Effects)
	}

	instance := game.ActiveEvent{
		TemplateID: tpl.ID,
		Scope:      tpl.Scope,
		Title:      tpl.Title,
		Mode:       tpl.Mode,
		Effects:    tpl.Effects,
		StartTurn:  st.Turn,
		Remaining:  tpl.Duration,
	}
	result.Events = append(result.Events, instance)

	// Instant zero-duration templates fire and vanish; everything else
	// lives in activeEvents until the consequence phase retires it.
	if tpl.Duration > 0 {
		*active = append(*active, instance)
	}

	if tpl.Decision != nil && st.CurrentDecision == nil {
		d := tpl.Decision.Clone()
		d.StagedTurn = st.Turn
		st.CurrentDecision = &d
		es.logger.Event("DECISION_STAGED", st.SessionID, d.ID)
	}
}

// eligible filters the pool down to templates whose trigger holds and whose
// instance is not already active in this scope.
func (es *EventSystem) eligible(st *game.GameState, pool []game.EventTemplate, active []game.ActiveEvent) []game.EventTemplate {
	var out []game.EventTemplate
	for _, tpl := range pool {
		if isActive(active, tpl.ID) {
			continue
		}
		if !es.triggerHolds(st, tpl) {
			continue
		}
		out = append(out, tpl)
	}
	return out
}

func (es *EventSystem) triggerHolds(st *game.GameState, tpl game.EventTemplate) bool {
	t := tpl.Trigger
	if t.MinTurn > 0 && st.Turn < t.MinTurn {
		return false
	}
	if t.MaxTurn > 0 && st.Turn > t.MaxTurn {
		return false
	}
	for _, cond := range t.All {
		v, ok := pulse.Value(&st.GlobalPulse, &st.City.Pulse, neighborhoodPulse(st), &st.Family, cond.Field)
		if !ok {
			es.logger.Warn("Unknown trigger field " + cond.Field + " in template " + tpl.ID)
			return false
		}
		switch cond.Op {
		case game.OpAtLeast:
			if v < cond.Value {
				return false
			}
		case game.OpAtMost:
			if v > cond.Value {
				return false
			}
		default:
			es.logger.Warn("Unknown trigger op " + string(cond.Op) + " in template " + tpl.ID)
			return false
		}
	}
	return true
}

// pickWeighted selects one candidate proportionally to its weight. Weights
// below 1 count as 1 so a forgotten weight never silences a template.
func pickWeighted(rng *rand.Rand, candidates []game.EventTemplate) game.EventTemplate {
	total := 0
	for _, tpl := range candidates {
		total += weightOf(tpl)
	}
	roll := rng.Intn(total)
	for _, tpl := range candidates {
		roll -= weightOf(tpl)
		if roll < 0 {
			return tpl
		}
	}
	return candidates[len(candidates)-1]
}

func weightOf(tpl game.EventTemplate) int {
	if tpl.Weight < 1 {
		return 1
	}
	return tpl.Weight
}

func isActive(active []game.ActiveEvent, templateID string) bool {
	for _, ev := range active {
		if ev.TemplateID == templateID {
			return true
		}
	}
	return false
}

// sessionSeed derives the deterministic per-turn RNG seed from the session
// id and turn number.
func sessionSeed(sessionID string, turn int) int64 {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(turn >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}
