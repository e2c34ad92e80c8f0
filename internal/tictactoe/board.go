package tictactoe

import (
	"errors"
	"fmt"
)

// BoardCells is the number of cells on the 3x3 board, indexed 0-8 in
// row-major order.
const BoardCells = 9

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")

	// winTriples lists every winning line: 3 rows, 3 columns, 2 diagonals.
	// Winner scans them in this order, so results are reproducible.
	winTriples = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the sole owner of the grid: cells change only through Place
// and Reset.
type Board struct {
	cells [BoardCells]Cell
}

func NewBoard() *Board {
	return &Board{}
}

// Snapshot returns a copy of the current cells; mutating the copy does
// not touch the board.
func (that *Board) Snapshot() [BoardCells]Cell {
	return that.cells
}

// Place marks an empty cell. An index off the board is a caller contract
// violation and fails with ErrInvalidCell; an occupied cell fails with
// ErrCellOccupied. The board is unchanged on any failure.
func (that *Board) Place(cell int, mark Marker) error {
	if cell < 0 || cell >= len(that.cells) {
		return fmt.Errorf("%w: %d", ErrInvalidCell, cell)
	}

	if mark != MarkerX && mark != MarkerO {
		return fmt.Errorf("%w: %d", ErrUnknownMark, mark)
	}

	if !that.cells[cell].IsEmpty() {
		return ErrCellOccupied
	}

	that.cells[cell] = Cell(mark)

	return nil
}

// Winner returns the marker of the first completed triple, scanning rows,
// then columns, then diagonals.
func (that *Board) Winner() (Marker, bool) {
	for _, triple := range winTriples {
		a, b, c := that.cells[triple[0]], that.cells[triple[1]], that.cells[triple[2]]
		if !a.IsEmpty() && a == b && b == c {
			return a.Mark()
		}
	}

	return 0, false
}

// IsFull reports whether no empty cell remains.
func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell.IsEmpty() {
			return false
		}
	}

	return true
}

// IsTie reports whether the board is full without a completed triple.
func (that *Board) IsTie() bool {
	if !that.IsFull() {
		return false
	}

	_, won := that.Winner()

	return !won
}

// Reset clears every cell back to empty.
func (that *Board) Reset() {
	that.cells = [BoardCells]Cell{}
}
