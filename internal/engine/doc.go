// Package engine contains the turn state machine and simulation logic.
// This is the heartbeat of Pulso.
//
// ARCHITECTURAL RULE: the engine is a pure state transformer. Advance takes
// a snapshot plus a TurnContext and returns a new snapshot; it performs no
// I/O, holds no shared mutable state, and never mutates its input. Loading
// templates and persisting the result belong to the caller.
package engine
