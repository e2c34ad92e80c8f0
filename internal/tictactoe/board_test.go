package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Marks an empty cell", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: X is placed on cell 4
		err := board.Place(4, MarkerX)

		// Then: the placement succeeds and the snapshot shows it
		require.NoError(t, err)

		expected := [BoardCells]Cell{}
		expected[4] = CellX
		assert.Equal(t, expected, board.Snapshot())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a board with X on cell 0
		board := NewBoard()
		require.NoError(t, board.Place(0, MarkerX))

		// When: O is placed on the same cell
		err := board.Place(0, MarkerO)

		// Then: an ErrCellOccupied error must be returned
		require.ErrorIs(t, err, ErrCellOccupied)

		// Then: the cell keeps its first marker
		assert.Equal(t, CellX, board.Snapshot()[0])
	})

	t.Run("Error on cell index greater than range", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: an index past the board is used
		err := board.Place(9, MarkerX)

		// Then: an ErrInvalidCell error must be returned and nothing changed
		require.ErrorIs(t, err, ErrInvalidCell)
		assert.Equal(t, [BoardCells]Cell{}, board.Snapshot())
	})

	t.Run("Error on negative cell index", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: a negative index is used
		err := board.Place(-1, MarkerO)

		// Then: an ErrInvalidCell error must be returned and nothing changed
		require.ErrorIs(t, err, ErrInvalidCell)
		assert.Equal(t, [BoardCells]Cell{}, board.Snapshot())
	})

	t.Run("Error on unset marker", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: the zero marker is placed
		err := board.Place(0, Marker(0))

		// Then: an ErrUnknownMark error must be returned and nothing changed
		require.ErrorIs(t, err, ErrUnknownMark)
		assert.Equal(t, [BoardCells]Cell{}, board.Snapshot())
	})
}

func TestBoard_Snapshot(t *testing.T) {
	t.Run("Mutating the snapshot does not touch the board", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: a snapshot copy is scribbled on
		snapshot := board.Snapshot()
		snapshot[0] = CellO

		// Then: the board still reads empty
		assert.Equal(t, CellEmpty, board.Snapshot()[0])
	})
}

func TestBoard_Winner(t *testing.T) {
	t.Run("Finds a row of X", func(t *testing.T) {
		// Given: X holds the top row
		board := boardWith(t, map[int]Marker{0: MarkerX, 1: MarkerX, 2: MarkerX, 3: MarkerO, 4: MarkerO})

		// When: the board is scanned
		mark, won := board.Winner()

		// Then: X is the winner
		require.True(t, won)
		assert.Equal(t, MarkerX, mark)
	})

	t.Run("Finds a column of O", func(t *testing.T) {
		// Given: O holds the middle column
		board := boardWith(t, map[int]Marker{1: MarkerO, 4: MarkerO, 7: MarkerO, 0: MarkerX, 2: MarkerX})

		// When: the board is scanned
		mark, won := board.Winner()

		// Then: O is the winner
		require.True(t, won)
		assert.Equal(t, MarkerO, mark)
	})

	t.Run("Finds a diagonal", func(t *testing.T) {
		// Given: X holds the main diagonal
		board := boardWith(t, map[int]Marker{0: MarkerX, 4: MarkerX, 8: MarkerX, 1: MarkerO, 2: MarkerO})

		// When: the board is scanned
		mark, won := board.Winner()

		// Then: X is the winner
		require.True(t, won)
		assert.Equal(t, MarkerX, mark)
	})

	t.Run("Two simultaneous lines of the same marker resolve deterministically", func(t *testing.T) {
		// Given: X completes both the top row and the left column
		board := boardWith(t, map[int]Marker{0: MarkerX, 1: MarkerX, 2: MarkerX, 3: MarkerX, 6: MarkerX})

		// When: the board is scanned
		mark, won := board.Winner()

		// Then: the scan lands on X via the first triple in the fixed order
		require.True(t, won)
		assert.Equal(t, MarkerX, mark)
	})

	t.Run("No winner on an open board", func(t *testing.T) {
		// Given: a few scattered marks
		board := boardWith(t, map[int]Marker{0: MarkerX, 4: MarkerO, 8: MarkerX})

		// When: the board is scanned
		_, won := board.Winner()

		// Then: no triple is complete
		assert.False(t, won)
	})
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("False while any cell is empty", func(t *testing.T) {
		board := boardWith(t, map[int]Marker{0: MarkerX, 1: MarkerO})

		assert.False(t, board.IsFull())
	})

	t.Run("True once every cell is marked", func(t *testing.T) {
		board := fullTieBoard(t)

		assert.True(t, board.IsFull())
	})
}

func TestBoard_IsTie(t *testing.T) {
	t.Run("True on a full board without a winner", func(t *testing.T) {
		// Given: a full board where no triple is uniform
		board := fullTieBoard(t)

		// Then: the board is a tie
		assert.True(t, board.IsTie())
	})

	t.Run("False when a winner exists", func(t *testing.T) {
		// Given: the top row belongs to X
		board := boardWith(t, map[int]Marker{0: MarkerX, 1: MarkerX, 2: MarkerX})

		// Then: a won board is never a tie
		assert.False(t, board.IsTie())
	})

	t.Run("False while the board is open", func(t *testing.T) {
		board := boardWith(t, map[int]Marker{0: MarkerX})

		assert.False(t, board.IsTie())
	})
}

func TestBoard_Reset(t *testing.T) {
	t.Run("Clears every cell", func(t *testing.T) {
		// Given: a board with a few marks
		board := boardWith(t, map[int]Marker{0: MarkerX, 4: MarkerO, 8: MarkerX})

		// When: the board is reset
		board.Reset()

		// Then: every cell reads empty again
		assert.Equal(t, [BoardCells]Cell{}, board.Snapshot())
	})
}

// boardWith places the given marks and fails the test on any bad index.
func boardWith(t *testing.T, marks map[int]Marker) *Board {
	t.Helper()

	board := NewBoard()
	for cell, mark := range marks {
		require.NoError(t, board.Place(cell, mark))
	}

	return board
}

// fullTieBoard fills the whole board without a single uniform triple:
//
//	X X O
//	O O X
//	X X O
func fullTieBoard(t *testing.T) *Board {
	t.Helper()

	return boardWith(t, map[int]Marker{
		0: MarkerX, 1: MarkerX, 2: MarkerO,
		3: MarkerO, 4: MarkerO, 5: MarkerX,
		6: MarkerX, 7: MarkerX, 8: MarkerO,
	})
}
