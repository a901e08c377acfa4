package game

import "github.com/lmedrano/pulso/internal/domain/pulse"

// UnlockConditions gate a choice's availability. Conditions present together
// combine with AND; the list-valued ones use OR semantics internally.
// Inequality fields are pointers so that zero is a usable threshold.
type UnlockConditions struct {
	MinTurn         int      `json:"minTurn,omitempty"`
	MaxStress       *int     `json:"maxStress,omitempty"`
	MinCohesion     *int     `json:"minCohesion,omitempty"`
	MinTrustNetwork *int     `json:"minTrustNetwork,omitempty"`
	MaxVisibility   *int     `json:"maxVisibility,omitempty"`
	RequiredChoices []string `json:"requiredChoices,omitempty"` // at least one must appear in the choice history
	RightsKnowledge []string `json:"rightsKnowledge,omitempty"` // at least one tag must be unlocked
}

// Choice is one selectable option of a decision.
type Choice struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description,omitempty"`
	Effects     pulse.Effects     `json:"effects"`
	Unlock      *UnlockConditions `json:"unlockConditions,omitempty"`

	// GrantsKnowledge lists rights-knowledge tags unlocked by taking this
	// choice (e.g. attending a know-your-rights workshop).
	GrantsKnowledge []string `json:"grantsKnowledge,omitempty"`
}

// Decision is a player-facing prompt. Exactly one may be pending at a time.
type Decision struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Narrative   string   `json:"narrative,omitempty"`
	Choices     []Choice `json:"choices"`
	MultiSelect bool     `json:"multiSelect"`
	Urgency     int      `json:"urgency,omitempty"` // turns until auto-expiry; 0 = never expires

	// StagedTurn records when the decision became pending, anchoring the
	// urgency countdown. Set by the engine, not by template authors.
	StagedTurn int `json:"stagedTurn,omitempty"`
}

// Choice returns the choice with the given id, or nil.
func (d *Decision) Choice(id string) *Choice {
	for i := range d.Choices {
		if d.Choices[i].ID == id {
			return &d.Choices[i]
		}
	}
	return nil
}

// Expired reports whether the decision outlived its urgency window at the
// given turn.
func (d *Decision) Expired(turn int) bool {
	return d.Urgency > 0 && turn-d.StagedTurn >= d.Urgency
}

// Clone returns a deep copy of the decision.
func (d *Decision) Clone() Decision {
	out := *d
	out.Choices = make([]Choice, len(d.Choices))
	for i, ch := range d.Choices {
		out.Choices[i] = ch
		out.Choices[i].Effects = cloneEffects(ch.Effects)
		out.Choices[i].GrantsKnowledge = append([]string(nil), ch.GrantsKnowledge...)
		if ch.Unlock != nil {
			u := *ch.Unlock
			u.RequiredChoices = append([]string(nil), ch.Unlock.RequiredChoices...)
			u.RightsKnowledge = append([]string(nil), ch.Unlock.RightsKnowledge...)
			out.Choices[i].Unlock = &u
		}
	}
	return out
}

// ChoiceRecord is an immutable log entry of a resolved decision. Records are
// append-only: never mutated or removed.
type ChoiceRecord struct {
	Turn       int           `json:"turn"`
	DecisionID string        `json:"decisionId"`
	ChoiceIDs  []string      `json:"choiceIds"`
	Effects    pulse.Effects `json:"effects"`
}
