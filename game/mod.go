package game

import (
	"errors"
	"fmt"
)

// Mark is the single character a contestant places in a cell.
type Mark byte

func (m Mark) String() string {
	return string(rune(m))
}

// Move is a (row, col) coordinate on the grid.
type Move struct {
	Row int
	Col int
}

// NoMove is the sentinel returned when the grid has no empty cell left.
var NoMove = Move{Row: -1, Col: -1}

func (m Move) IsNone() bool {
	return m == NoMove
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row, m.Col)
}

// ErrOutOfBounds is returned by any grid access outside [0, N) on either axis.
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Directions scanned for runs: right, down, down-right, down-left.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}
