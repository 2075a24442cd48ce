package game

import (
	"fmt"
	"strings"
)

// Grid is a square matrix of marks stored row-major. One mark is designated
// as empty; every other cell holds a contestant's mark.
type Grid struct {
	size  int
	empty Mark
	cells []Mark
}

// NewGrid returns a size x size grid filled with the empty mark.
func NewGrid(size int, empty Mark) *Grid {
	if size < 1 {
		panic(fmt.Sprintf("grid size must be positive, got %d", size))
	}
	cells := make([]Mark, size*size)
	for i := range cells {
		cells[i] = empty
	}
	return &Grid{size: size, empty: empty, cells: cells}
}

// ParseGrid builds a grid from rows of cells. A row is either whitespace
// separated ("X . O") or packed ("X.O"); the row count sets the size.
func ParseGrid(rows []string, empty Mark) (*Grid, error) {
	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("cannot parse grid: no rows")
	}
	g := NewGrid(size, empty)
	for row, line := range rows {
		cells, err := splitRow(line, size)
		if err != nil {
			return nil, fmt.Errorf("cannot parse grid row %d: %w", row, err)
		}
		copy(g.cells[row*size:(row+1)*size], cells)
	}
	return g, nil
}

func splitRow(line string, size int) ([]Mark, error) {
	if fields := strings.Fields(line); len(fields) == size {
		cells := make([]Mark, size)
		for i, field := range fields {
			if len(field) != 1 {
				return nil, fmt.Errorf("cell %q is not a single character", field)
			}
			cells[i] = Mark(field[0])
		}
		return cells, nil
	}
	if len(line) == size {
		return []Mark(line), nil
	}
	return nil, fmt.Errorf("got %q, want %d cells", line, size)
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) EmptyMark() Mark {
	return g.empty
}

func (g *Grid) index(row, col int) int {
	return row*g.size + col
}

// InBounds reports whether both coordinates lie in [0, N).
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

func (g *Grid) boundsError(row, col int) error {
	return fmt.Errorf("%w: (%d, %d) on a %dx%d grid", ErrOutOfBounds, row, col, g.size, g.size)
}

// IsEmptyCell is false for out of range coordinates, never an error.
func (g *Grid) IsEmptyCell(row, col int) bool {
	return g.InBounds(row, col) && g.cells[g.index(row, col)] == g.empty
}

func (g *Grid) Get(row, col int) (Mark, error) {
	if !g.InBounds(row, col) {
		return 0, g.boundsError(row, col)
	}
	return g.cells[g.index(row, col)], nil
}

// At is Get for callers that already guarantee the coordinates; a bad
// coordinate is a bug and panics.
func (g *Grid) At(row, col int) Mark {
	mark, err := g.Get(row, col)
	if err != nil {
		panic(err)
	}
	return mark
}

func (g *Grid) Set(row, col int, mark Mark) error {
	if !g.InBounds(row, col) {
		return g.boundsError(row, col)
	}
	g.cells[g.index(row, col)] = mark
	return nil
}

// Place sets mark and returns the mark it replaced, to be handed back to
// Restore. Nested simulations stay exact because each Restore writes back
// what its own Place overwrote.
func (g *Grid) Place(row, col int, mark Mark) (Mark, error) {
	prior, err := g.Get(row, col)
	if err != nil {
		return 0, err
	}
	g.cells[g.index(row, col)] = mark
	return prior, nil
}

func (g *Grid) Restore(row, col int, prior Mark) error {
	return g.Set(row, col, prior)
}

func (g *Grid) IsFull() bool {
	for _, cell := range g.cells {
		if cell == g.empty {
			return false
		}
	}
	return true
}

// IsClear reports whether no cell is occupied.
func (g *Grid) IsClear() bool {
	for _, cell := range g.cells {
		if cell != g.empty {
			return false
		}
	}
	return true
}

// EmptyCells lists empty coordinates in row-major order.
func (g *Grid) EmptyCells() []Move {
	var cells []Move
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if g.cells[g.index(row, col)] == g.empty {
				cells = append(cells, Move{Row: row, Col: col})
			}
		}
	}
	return cells
}

// CheckWin scans every cell holding mark for runLength consecutive cells of
// mark along one of the four directions.
func (g *Grid) CheckWin(mark Mark, runLength int) bool {
	_, _, found := g.findRun(mark, runLength)
	return found
}

// WinningLine returns the cells of the first run found, or nil.
func (g *Grid) WinningLine(mark Mark, runLength int) []Move {
	start, dir, found := g.findRun(mark, runLength)
	if !found {
		return nil
	}
	line := make([]Move, runLength)
	for k := range line {
		line[k] = Move{Row: start.Row + dir[0]*k, Col: start.Col + dir[1]*k}
	}
	return line
}

func (g *Grid) findRun(mark Mark, runLength int) (Move, [2]int, bool) {
	if runLength < 1 {
		return NoMove, [2]int{}, false
	}
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if g.cells[g.index(row, col)] != mark {
				continue
			}
			for _, dir := range directions {
				if g.runFrom(row, col, dir[0], dir[1], mark, runLength) {
					return Move{Row: row, Col: col}, dir, true
				}
			}
		}
	}
	return NoMove, [2]int{}, false
}

func (g *Grid) runFrom(row, col, dr, dc int, mark Mark, runLength int) bool {
	for k := 0; k < runLength; k++ {
		r, c := row+dr*k, col+dc*k
		if !g.InBounds(r, c) || g.cells[g.index(r, c)] != mark {
			return false
		}
	}
	return true
}

// CompletesRun reports whether the cell at (row, col), assumed to hold mark,
// lies on a run of at least runLength along some direction. Only runs through
// that cell are considered.
func (g *Grid) CompletesRun(row, col int, mark Mark, runLength int) bool {
	for _, dir := range directions {
		count := 1
		count += g.countFrom(row, col, dir[0], dir[1], mark)
		count += g.countFrom(row, col, -dir[0], -dir[1], mark)
		if count >= runLength {
			return true
		}
	}
	return false
}

func (g *Grid) countFrom(row, col, dr, dc int, mark Mark) int {
	count := 0
	for r, c := row+dr, col+dc; g.InBounds(r, c) && g.cells[g.index(r, c)] == mark; r, c = r+dr, c+dc {
		count++
	}
	return count
}

func (g *Grid) Copy() *Grid {
	cells := make([]Mark, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, empty: g.empty, cells: cells}
}

func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size || g.empty != other.empty {
		return false
	}
	for i, cell := range g.cells {
		if other.cells[i] != cell {
			return false
		}
	}
	return true
}

// Serialize writes one byte per cell, row-major, with the empty mark replaced
// by placeholder.
func (g *Grid) Serialize(placeholder Mark) string {
	buf := make([]byte, len(g.cells))
	for i, cell := range g.cells {
		if cell == g.empty {
			buf[i] = byte(placeholder)
		} else {
			buf[i] = byte(cell)
		}
	}
	return string(buf)
}

func (g *Grid) String() string {
	var sb strings.Builder
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(byte(g.cells[g.index(row, col)]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
