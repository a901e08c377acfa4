package game

// EndingKind discriminates the two terminal outcomes.
type EndingKind string

const (
	EndingVictory EndingKind = "victory"
	EndingFailure EndingKind = "failure"
)

// VictoryType names how the family won.
type VictoryType string

const (
	VictorySanctuary VictoryType = "sanctuary"
	VictoryOutlast   VictoryType = "outlast"
	VictoryTransform VictoryType = "transform"
)

// Ending is the terminal outcome of a session. Once set on a GameState it is
// final: no further phase advancement is permitted.
type Ending struct {
	Kind        EndingKind  `json:"kind"`
	VictoryType VictoryType `json:"victoryType,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Turn        int         `json:"turn"`
}

// NewVictory builds a victory ending.
func NewVictory(vt VictoryType, turn int) *Ending {
	return &Ending{Kind: EndingVictory, VictoryType: vt, Turn: turn}
}

// NewFailure builds a failure ending.
func NewFailure(reason string, turn int) *Ending {
	return &Ending{Kind: EndingFailure, Reason: reason, Turn: turn}
}
