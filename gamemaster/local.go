package gamemaster

import (
	"errors"
	"fmt"

	"kinrow/game"
	"kinrow/utils"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Update describes one accepted move and the grid right after it.
type Update struct {
	Step int
	Mark game.Mark
	Move game.Move
	Grid *game.Grid
}

// UpdateGetter returns the next unread update without blocking; ok is false
// when there is none yet or the game is over and every update was read.
type UpdateGetter func() (update Update, ok bool)

type Master interface {
	Init(start game.Mark, position *game.Grid) (*game.Grid, UpdateGetter, error)
	Play(move game.Move) error
	Turn() game.Mark
	Status() Status
	Winner() game.Mark
	WinningLine() []game.Move
	Grid() *game.Grid
	History() []Update
}

// LocalMaster owns the authoritative grid of one game between two marks and
// enforces turn order and legality.
type LocalMaster struct {
	size      int
	empty     game.Mark
	runLength int
	marks     [2]game.Mark

	grid     *game.Grid
	turn     int // Index into marks
	status   Status
	winner   game.Mark
	line     []game.Move
	history  []Update
	updateCh chan Update
}

func NewLocalMaster(size int, empty game.Mark, runLength int, first, second game.Mark) *LocalMaster {
	if first == second || first == empty || second == empty {
		panic(fmt.Sprintf("marks %s, %s and empty %s must be distinct", first, second, empty))
	}
	if runLength < 1 || runLength > size {
		panic(fmt.Sprintf("run length %d does not fit a %dx%d grid", runLength, size, size))
	}
	return &LocalMaster{
		size:      size,
		empty:     empty,
		runLength: runLength,
		marks:     [2]game.Mark{first, second},
	}
}

// Init starts a game with start to move, on a clear grid or on a copy of
// position. The position may hold only the two marks and no finished run.
func (m *LocalMaster) Init(start game.Mark, position *game.Grid) (*game.Grid, UpdateGetter, error) {
	turn := utils.FindIndex(m.marks[:], start)
	if turn < 0 {
		return nil, nil, fmt.Errorf("starting mark %s is not one of %s and %s", start, m.marks[0], m.marks[1])
	}
	m.turn = turn

	grid := game.NewGrid(m.size, m.empty)
	if position != nil {
		if err := m.checkPosition(position); err != nil {
			return nil, nil, err
		}
		grid = position.Copy()
	}

	m.grid = grid
	m.status = InProgress
	m.winner = 0
	m.line = nil
	m.history = nil
	if grid.IsFull() {
		m.status = Draw
	}
	m.updateCh = make(chan Update, len(grid.EmptyCells())+1)
	if m.status != InProgress {
		close(m.updateCh)
	}

	updateCh := m.updateCh
	return grid.Copy(), func() (Update, bool) {
		select {
		case u, ok := <-updateCh:
			if !ok { // Game over
				return Update{}, false
			}
			return u, true
		default:
			// No updates yet, return immediately
			return Update{}, false
		}
	}, nil
}

func (m *LocalMaster) checkPosition(position *game.Grid) error {
	if position.Size() != m.size || position.EmptyMark() != m.empty {
		return fmt.Errorf("position is %dx%d with empty %s, want %dx%d with empty %s",
			position.Size(), position.Size(), position.EmptyMark(), m.size, m.size, m.empty)
	}
	for row := 0; row < m.size; row++ {
		for col := 0; col < m.size; col++ {
			mark := position.At(row, col)
			if mark != m.empty && mark != m.marks[0] && mark != m.marks[1] {
				return fmt.Errorf("position holds unknown mark %s at %s", mark, game.Move{Row: row, Col: col})
			}
		}
	}
	for _, mark := range m.marks {
		if position.CheckWin(mark, m.runLength) {
			return fmt.Errorf("position is already won by %s", mark)
		}
	}
	return nil
}

// Play applies move for the contestant whose turn it is.
func (m *LocalMaster) Play(move game.Move) error {
	if m.grid == nil {
		return fmt.Errorf("game not initialized")
	}
	if m.status != InProgress {
		return ErrGameOver
	}
	if _, err := m.grid.Get(move.Row, move.Col); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	if !m.grid.IsEmptyCell(move.Row, move.Col) {
		return fmt.Errorf("%w: cell %s is occupied", ErrIllegalMove, move)
	}

	mark := m.marks[m.turn]
	if err := m.grid.Set(move.Row, move.Col, mark); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}

	if m.grid.CompletesRun(move.Row, move.Col, mark, m.runLength) {
		m.status = Won
		m.winner = mark
		m.line = m.grid.WinningLine(mark, m.runLength)
	} else if m.grid.IsFull() {
		m.status = Draw
	} else {
		m.turn = 1 - m.turn
	}

	u := Update{Step: len(m.history) + 1, Mark: mark, Move: move, Grid: m.grid.Copy()}
	m.history = append(m.history, u)
	m.updateCh <- u
	if m.status != InProgress {
		close(m.updateCh)
	}
	return nil
}

// Turn returns the mark to move next, or the last mover once the game is over.
func (m *LocalMaster) Turn() game.Mark {
	return m.marks[m.turn]
}

func (m *LocalMaster) Status() Status {
	return m.status
}

// Winner returns the winning mark, or 0 if nobody has won.
func (m *LocalMaster) Winner() game.Mark {
	return m.winner
}

func (m *LocalMaster) WinningLine() []game.Move {
	return append([]game.Move(nil), m.line...)
}

func (m *LocalMaster) Grid() *game.Grid {
	return m.grid.Copy()
}

func (m *LocalMaster) History() []Update {
	return append([]Update(nil), m.history...)
}
