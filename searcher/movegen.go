package searcher

import (
	"sort"

	"kinrow/game"
	"kinrow/utils"
)

// candidateMoves returns the empty cells next to an occupied cell, in the
// order they are discovered scanning occupied cells row-major. A clear grid
// yields only the center.
func candidateMoves(g *game.Grid) []game.Move {
	n := g.Size()
	if g.IsClear() {
		return []game.Move{{Row: n / 2, Col: n / 2}}
	}

	seen := make([]bool, n*n)
	var moves []game.Move
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if g.IsEmptyCell(row, col) {
				continue
			}
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					r, c := row+dr, col+dc
					if !g.IsEmptyCell(r, c) || seen[r*n+c] {
						continue
					}
					seen[r*n+c] = true
					moves = append(moves, game.Move{Row: r, Col: c})
				}
			}
		}
	}

	// Unreachable: a grid that is neither clear nor full always has an empty
	// cell next to an occupied one. Kept so no empty grid yields nothing.
	if len(moves) == 0 {
		return g.EmptyCells()
	}
	return moves
}

// orderedMoves ranks candidateMoves by quickMoveScore for mover, best first.
// Equal scores keep discovery order.
func orderedMoves(g *game.Grid, mover, other game.Mark, runLength int) []game.Move {
	moves := candidateMoves(g)
	scores := make(map[game.Move]int, len(moves))
	for _, move := range moves {
		scores[move] = quickMoveScore(g, move, mover, other, runLength)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return scores[moves[i]] > scores[moves[j]]
	})
	return moves
}

// quickMoveScore favors the center, then moves that win for mover, then moves
// that take a winning cell away from other. The cell must be empty.
func quickMoveScore(g *game.Grid, move game.Move, mover, other game.Mark, runLength int) int {
	n := g.Size()
	score := (n - utils.Manhattan(move.Row, move.Col, n/2, n/2)) * centerWeight

	if completes(g, move, mover, runLength) {
		score += winMoveBonus
	}
	if completes(g, move, other, runLength) {
		score += blockMoveBonus
	}
	return score
}

func completes(g *game.Grid, move game.Move, mark game.Mark, runLength int) bool {
	prior := mustPlace(g, move, mark)
	defer mustRestore(g, move, prior)
	return g.CompletesRun(move.Row, move.Col, mark, runLength)
}

// The searcher only generates coordinates from the grid itself, so a bounds
// error here is a bug.
func mustPlace(g *game.Grid, move game.Move, mark game.Mark) game.Mark {
	prior, err := g.Place(move.Row, move.Col, mark)
	if err != nil {
		panic(err)
	}
	return prior
}

func mustRestore(g *game.Grid, move game.Move, prior game.Mark) {
	if err := g.Restore(move.Row, move.Col, prior); err != nil {
		panic(err)
	}
}
