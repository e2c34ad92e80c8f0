package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownOutcome = errors.New("unknown outcome")

// OutcomeKind tags the result of a move attempt. The zero value is
// Rejected, so a forgotten outcome never reads as progress.
type OutcomeKind uint8

const (
	OutcomeRejected OutcomeKind = iota
	OutcomeContinue
	OutcomeWin
	OutcomeTie
)

func (that OutcomeKind) String() string {
	switch that {
	case OutcomeRejected:
		return "rejected"
	case OutcomeContinue:
		return "continue"
	case OutcomeWin:
		return "win"
	case OutcomeTie:
		return "tie"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(that))
	}
}

func (that OutcomeKind) MarshalJSON() ([]byte, error) {
	if that > OutcomeTie {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, that)
	}
	return json.Marshal(that.String())
}

func (that *OutcomeKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal outcome kind: %w", err)
	}

	switch raw {
	case "rejected":
		*that = OutcomeRejected
	case "continue":
		*that = OutcomeContinue
	case "win":
		*that = OutcomeWin
	case "tie":
		*that = OutcomeTie
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, raw)
	}

	return nil
}

// Outcome is the tagged result of one move attempt. Winner is set only
// when Kind is OutcomeWin.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner *Player     `json:"winner,omitempty"`
}

// Terminal reports whether the outcome ended the match.
func (that Outcome) Terminal() bool {
	return that.Kind == OutcomeWin || that.Kind == OutcomeTie
}
