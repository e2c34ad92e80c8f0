package entity

import (
	"fmt"

	"github.com/krizelrika/tictactoe/internal/tictactoe"
)

// Session binds one UI client to the match it is playing. It is the unit
// of storage and the payload rendered back to the client.
type Session struct {
	ID    string          `json:"id"`
	Match tictactoe.State `json:"match"`
}

// NewSession returns a session holding a match that has not started yet.
func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Match: tictactoe.NewMatch(tictactoe.NewBoard()).State(),
	}
}

// Resume rebuilds the live match captured in the session.
func (that *Session) Resume() (*tictactoe.Match, error) {
	match, err := tictactoe.Resume(that.Match)
	if err != nil {
		return nil, fmt.Errorf("failed to resume match: %w", err)
	}

	return match, nil
}

// Capture stores the match state back into the session.
func (that *Session) Capture(match *tictactoe.Match) {
	that.Match = match.State()
}
