// Package game defines the core session entities for the simulation.
// This package is PURE and must NOT import any infrastructure packages (network, journal, platform).
package game

import (
	"time"

	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// Phase is one stage of the fixed per-turn cycle.
type Phase string

const (
	PhasePlan        Phase = "plan"
	PhasePulseUpdate Phase = "pulse_update"
	PhaseEvent       Phase = "event"
	PhaseDecision    Phase = "decision"
	PhaseConsequence Phase = "consequence"
)

// Neighborhood is one barrio inside the session's city.
type Neighborhood struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Pulse pulse.NeighborhoodPulse `json:"pulse"`
}

// CityState is the session's city together with its neighborhoods.
type CityState struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Region                string          `json:"region"`
	Pulse                 pulse.CityPulse `json:"pulse"`
	Neighborhoods         []Neighborhood  `json:"neighborhoods"`
	CurrentNeighborhoodID string          `json:"currentNeighborhoodId"`
}

// CurrentNeighborhood returns the neighborhood the family lives in, or nil
// if the id references nothing (a corrupt snapshot).
func (c *CityState) CurrentNeighborhood() *Neighborhood {
	for i := range c.Neighborhoods {
		if c.Neighborhoods[i].ID == c.CurrentNeighborhoodID {
			return &c.Neighborhoods[i]
		}
	}
	return nil
}

// ActiveEventSet holds the live events per layer.
type ActiveEventSet struct {
	Global       []ActiveEvent `json:"global"`
	City         []ActiveEvent `json:"city"`
	Neighborhood []ActiveEvent `json:"neighborhood"`
}

// GameState is the aggregate root for one session. It is plain serializable
// data: everything the engine needs is either in here or passed explicitly
// to each advance call.
type GameState struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Turn     int   `json:"turn"`
	Phase    Phase `json:"phase"`
	MaxTurns int   `json:"maxTurns"`

	GlobalPulse pulse.GlobalPulse  `json:"globalPulse"`
	City        CityState          `json:"city"`
	Family      pulse.FamilyImpact `json:"family"`

	ActiveEvents    ActiveEventSet `json:"activeEvents"`
	CurrentDecision *Decision      `json:"currentDecision,omitempty"`
	ChoiceHistory   []ChoiceRecord `json:"choiceHistory"`
	RightsKnowledge []string       `json:"rightsKnowledge"`
	Ending          *Ending        `json:"ending,omitempty"`
}

// NewGameState creates a fresh session at turn 1, plan phase.
func NewGameState(sessionID string, city CityState, family pulse.FamilyImpact, global pulse.GlobalPulse, maxTurns int) *GameState {
	now := time.Now().UTC()
	return &GameState{
		SessionID:       sessionID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Turn:            1,
		Phase:           PhasePlan,
		MaxTurns:        maxTurns,
		GlobalPulse:     global,
		City:            city,
		Family:          family,
		ChoiceHistory:   []ChoiceRecord{},
		RightsKnowledge: []string{},
	}
}

// Ended reports whether the session reached a terminal state.
func (s *GameState) Ended() bool {
	return s.Ending != nil
}

// HasRightsKnowledge reports whether a knowledge tag has been unlocked.
func (s *GameState) HasRightsKnowledge(tag string) bool {
	for _, t := range s.RightsKnowledge {
		if t == tag {
			return true
		}
	}
	return false
}

// AddRightsKnowledge unlocks a knowledge tag. Adding an already-known tag
// is a no-op, keeping the slice set-like.
func (s *GameState) AddRightsKnowledge(tag string) {
	if tag == "" || s.HasRightsKnowledge(tag) {
		return
	}
	s.RightsKnowledge = append(s.RightsKnowledge, tag)
}

// HasChosen reports whether any prior choice record contains the given
// choice id.
func (s *GameState) HasChosen(choiceID string) bool {
	for _, rec := range s.ChoiceHistory {
		for _, id := range rec.ChoiceIDs {
			if id == choiceID {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the state. The engine always mutates a clone
// so a failed advance leaves the caller's snapshot untouched.
func (s *GameState) Clone() *GameState {
	out := *s

	out.City.Neighborhoods = append([]Neighborhood(nil), s.City.Neighborhoods...)
	out.ActiveEvents.Global = cloneActiveEvents(s.ActiveEvents.Global)
	out.ActiveEvents.City = cloneActiveEvents(s.ActiveEvents.City)
	out.ActiveEvents.Neighborhood = cloneActiveEvents(s.ActiveEvents.Neighborhood)

	out.ChoiceHistory = make([]ChoiceRecord, len(s.ChoiceHistory))
	for i, rec := range s.ChoiceHistory {
		out.ChoiceHistory[i] = rec
		out.ChoiceHistory[i].ChoiceIDs = append([]string(nil), rec.ChoiceIDs...)
		out.ChoiceHistory[i].Effects = cloneEffects(rec.Effects)
	}

	out.RightsKnowledge = append([]string(nil), s.RightsKnowledge...)

	if s.CurrentDecision != nil {
		d := s.CurrentDecision.Clone()
		out.CurrentDecision = &d
	}
	if s.Ending != nil {
		e := *s.Ending
		out.Ending = &e
	}
	return &out
}

func cloneActiveEvents(in []ActiveEvent) []ActiveEvent {
	if in == nil {
		return nil
	}
	out := make([]ActiveEvent, len(in))
	for i, ev := range in {
		out[i] = ev
		out[i].Effects = cloneEffects(ev.Effects)
	}
	return out
}

func cloneEffects(in pulse.Effects) pulse.Effects {
	if in == nil {
		return nil
	}
	out := make(pulse.Effects, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
