package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownMark = errors.New("unknown mark")

// Marker identifies the symbol a player places on the board. The zero
// value means "unset" and is never accepted by the board.
type Marker uint8

const (
	MarkerX Marker = iota + 1
	MarkerO
)

func (that Marker) String() string {
	switch that {
	case MarkerX:
		return "X"
	case MarkerO:
		return "O"
	default:
		return ""
	}
}

// Opposite returns the other player's marker.
func (that Marker) Opposite() Marker {
	if that == MarkerX {
		return MarkerO
	}
	return MarkerX
}

func (that Marker) MarshalJSON() ([]byte, error) {
	if that > MarkerO {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMark, that)
	}
	return json.Marshal(that.String())
}

func (that *Marker) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal marker: %w", err)
	}

	switch raw {
	case "X":
		*that = MarkerX
	case "O":
		*that = MarkerO
	case "":
		*that = 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, raw)
	}

	return nil
}

// Cell is the content of a single board position: empty or a marker.
type Cell uint8

const (
	CellEmpty Cell = 0
	CellX     Cell = Cell(MarkerX)
	CellO     Cell = Cell(MarkerO)
)

func (that Cell) IsEmpty() bool {
	return that == CellEmpty
}

// Mark returns the marker occupying the cell, if any.
func (that Cell) Mark() (Marker, bool) {
	switch that {
	case CellX:
		return MarkerX, true
	case CellO:
		return MarkerO, true
	default:
		return 0, false
	}
}

func (that Cell) String() string {
	return Marker(that).String()
}

func (that Cell) MarshalJSON() ([]byte, error) {
	if that > CellO {
		return nil, fmt.Errorf("%w: cell holds %d", ErrUnknownMark, that)
	}
	return json.Marshal(that.String())
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var mark Marker
	if err := mark.UnmarshalJSON(data); err != nil {
		return err
	}

	*that = Cell(mark)

	return nil
}
