package engine

import "errors"

// Engine failures are deterministic pure-function outcomes: no partial state
// mutation occurs before any of these is returned.
var (
	// ErrInvalidChoice: a submitted id is not among the pending decision's
	// choices, or the multi-select policy was violated.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrNoActiveDecision: choices were submitted with no pending decision.
	ErrNoActiveDecision = errors.New("no active decision")

	// ErrMissingChoices: the session is in the decision phase and the
	// pending decision has not expired, so an advance needs choice ids.
	ErrMissingChoices = errors.New("decision phase requires choice ids")
)
