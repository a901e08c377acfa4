package engine

import (
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/rules"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// EndingSystem runs after every consequence phase and decides whether the
// session has reached a terminal outcome. The actual thresholds live in the
// pure rules package; this system only ties them into the phase machine.
type EndingSystem struct {
	logger *logger.Logger
}

// NewEndingSystem creates the ending evaluation system.
func NewEndingSystem(log *logger.Logger) *EndingSystem {
	return &EndingSystem{logger: log}
}

// Evaluate returns the ending the post-consequence state has reached, or
// nil when the session continues.
func (es *EndingSystem) Evaluate(st *game.GameState) *game.Ending {
	return rules.EvaluateEnding(st)
}
