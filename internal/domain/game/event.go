package game

import "github.com/lmedrano/pulso/internal/domain/pulse"

// Scope identifies the layer an event template belongs to.
type Scope string

const (
	ScopeGlobal       Scope = "global"
	ScopeCity         Scope = "city"
	ScopeNeighborhood Scope = "neighborhood"
)

// EffectMode declares when a template's effects are applied.
type EffectMode string

const (
	// EffectInstant applies the delta once, at instantiation.
	EffectInstant EffectMode = "instant"
	// EffectPerTurn applies the delta every consequence phase while active.
	EffectPerTurn EffectMode = "per_turn"
)

// ConditionOp is the comparison used by a trigger condition.
type ConditionOp string

const (
	OpAtLeast ConditionOp = "atLeast"
	OpAtMost  ConditionOp = "atMost"
)

// Condition is a single threshold predicate over a named pulse field.
type Condition struct {
	Field string      `json:"field"`
	Op    ConditionOp `json:"op"`
	Value int         `json:"value"`
}

// Trigger gates when a template is eligible to fire. All present parts must
// hold: turn window AND every threshold condition.
type Trigger struct {
	MinTurn int         `json:"minTurn,omitempty"` // 0 = no lower bound
	MaxTurn int         `json:"maxTurn,omitempty"` // 0 = no upper bound
	All     []Condition `json:"all,omitempty"`
}

// EventTemplate is an externally supplied event definition. Templates are
// pool data owned by the caller; the engine only reads them.
type EventTemplate struct {
	ID        string        `json:"id"`
	Scope     Scope         `json:"scope"`
	Title     string        `json:"title"`
	Narrative string        `json:"narrative,omitempty"`
	Weight    int           `json:"weight"` // selection weight among eligible candidates; values < 1 count as 1
	Trigger   Trigger       `json:"trigger"`
	Mode      EffectMode    `json:"mode"`
	Effects   pulse.Effects `json:"effects"`
	Duration  int           `json:"duration"` // turns the instance stays active; 0 for pure instant events

	// Decision optionally stages a player decision when this template fires.
	// At most one staged decision becomes the pending decision per turn.
	Decision *Decision `json:"decision,omitempty"`
}

// ActiveEvent is an instantiated, time-bounded template.
type ActiveEvent struct {
	TemplateID string        `json:"templateId"`
	Scope      Scope         `json:"scope"`
	Title      string        `json:"title"`
	Mode       EffectMode    `json:"mode"`
	Effects    pulse.Effects `json:"effects"`
	StartTurn  int           `json:"startTurn"`
	Remaining  int           `json:"remaining"`
}
