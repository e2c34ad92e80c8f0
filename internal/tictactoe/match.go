package tictactoe

import (
	"errors"
	"fmt"
)

var (
	ErrMatchNotStarted = errors.New("match is not started")
	ErrInvalidState    = errors.New("invalid match state")
)

// Player is an immutable name/marker pair fixed at match start.
type Player struct {
	Name   string `json:"name"`
	Marker Marker `json:"marker"`
}

// Match sequences turns for two players over one board and stops
// accepting moves once a terminal outcome is reached.
type Match struct {
	board   *Board
	players [2]Player
	turn    int // index into players of the side to move
	active  bool
	started bool
}

// NewMatch binds a match to the board it plays on. A nil board gets a
// fresh one.
func NewMatch(board *Board) *Match {
	if board == nil {
		board = NewBoard()
	}

	return &Match{board: board}
}

// Start begins a fresh match: the first-named player takes X and moves
// first, the second takes O. A match already in progress is abandoned
// without confirmation. Blank-name defaulting is the caller's job.
func (that *Match) Start(nameOne, nameTwo string) {
	that.players = [2]Player{
		{Name: nameOne, Marker: MarkerX},
		{Name: nameTwo, Marker: MarkerO},
	}
	that.turn = 0
	that.active = true
	that.started = true
	that.board.Reset()
}

// CurrentPlayer returns the side to move.
func (that *Match) CurrentPlayer() (Player, error) {
	if !that.started {
		return Player{}, ErrMatchNotStarted
	}

	return that.players[that.turn], nil
}

// IsActive reports whether moves are currently accepted.
func (that *Match) IsActive() bool {
	return that.active
}

// Move places the current player's marker on cell. Anything that prevents
// the placement - an unstarted or finished match, an occupied cell, an
// index off the board - yields a Rejected outcome and changes nothing.
func (that *Match) Move(cell int) Outcome {
	if !that.active {
		return Outcome{Kind: OutcomeRejected}
	}

	mover := that.players[that.turn]
	if err := that.board.Place(cell, mover.Marker); err != nil {
		return Outcome{Kind: OutcomeRejected}
	}

	// The mover is the winner: captured before any turn switch.
	if _, won := that.board.Winner(); won {
		that.active = false
		return Outcome{Kind: OutcomeWin, Winner: &mover}
	}

	if that.board.IsTie() {
		that.active = false
		return Outcome{Kind: OutcomeTie}
	}

	that.turn = 1 - that.turn

	return Outcome{Kind: OutcomeContinue}
}

// Restart replays the same two players from a clean board. Unlike Start
// it never touches the player pair.
func (that *Match) Restart() error {
	if !that.started {
		return ErrMatchNotStarted
	}

	that.board.Reset()
	that.turn = 0
	that.active = true

	return nil
}

// State is a serializable snapshot of a match, sufficient to resume it.
type State struct {
	Players [2]Player        `json:"players"`
	Turn    int              `json:"turn"`
	Active  bool             `json:"active"`
	Started bool             `json:"started"`
	Board   [BoardCells]Cell `json:"board"`
}

// State captures the match for storage or rendering.
func (that *Match) State() State {
	return State{
		Players: that.players,
		Turn:    that.turn,
		Active:  that.active,
		Started: that.started,
		Board:   that.board.Snapshot(),
	}
}

// Resume rebuilds a match from a captured state. Resuming an unstarted
// state is equivalent to NewMatch.
func Resume(state State) (*Match, error) {
	if err := state.validate(); err != nil {
		return nil, err
	}

	match := NewMatch(NewBoard())
	match.players = state.Players
	match.turn = state.Turn
	match.active = state.Active
	match.started = state.Started
	match.board.cells = state.Board

	return match, nil
}

func (that State) validate() error {
	if that.Turn != 0 && that.Turn != 1 {
		return fmt.Errorf("%w: turn index %d", ErrInvalidState, that.Turn)
	}

	if that.Active && !that.Started {
		return fmt.Errorf("%w: active before start", ErrInvalidState)
	}

	for i, cell := range that.Board {
		if cell > CellO {
			return fmt.Errorf("%w: cell %d holds %d", ErrInvalidState, i, cell)
		}
	}

	if !that.Started {
		return nil
	}

	if that.Players[0].Marker != MarkerX || that.Players[1].Marker != MarkerO {
		return fmt.Errorf("%w: marker assignment", ErrInvalidState)
	}

	return nil
}
