package searcher

import "kinrow/game"

// Evaluate scores g from the AI's point of view: +WinScore if ai has a run,
// -WinScore if opp has one, else a heuristic over every window of runLength
// cells plus center control.
func Evaluate(g *game.Grid, ai, opp game.Mark, runLength int) int {
	if g.CheckWin(ai, runLength) {
		return WinScore
	} else if g.CheckWin(opp, runLength) {
		return LossScore
	}
	return evaluatePosition(g, ai, opp, runLength)
}

var windowDirections = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

func evaluatePosition(g *game.Grid, ai, opp game.Mark, runLength int) int {
	n := g.Size()
	score := 0
	for _, dir := range windowDirections {
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				// A window fits when its last cell is on the grid
				if !g.InBounds(row+dir[0]*(runLength-1), col+dir[1]*(runLength-1)) {
					continue
				}
				score += evaluateWindow(g, row, col, dir, ai, opp, runLength)
			}
		}
	}
	return score + evaluateCenter(g, ai, opp)
}

func evaluateWindow(g *game.Grid, row, col int, dir [2]int, ai, opp game.Mark, runLength int) int {
	aiCount, oppCount, emptyCount := 0, 0, 0
	empty := g.EmptyMark()
	for i := 0; i < runLength; i++ {
		switch g.At(row+i*dir[0], col+i*dir[1]) {
		case ai:
			aiCount++
		case opp:
			oppCount++
		case empty:
			emptyCount++
		}
	}
	return scoreWindow(aiCount, oppCount, emptyCount)
}

// scoreWindow is symmetric: a window blocked by both sides is worth nothing,
// otherwise the side present scores lineScore(count), multiplied by
// (empty+1) while the window can still be extended.
func scoreWindow(aiCount, oppCount, emptyCount int) int {
	switch {
	case aiCount > 0 && oppCount > 0:
		return 0
	case aiCount > 0:
		return openScale(lineScore(aiCount), emptyCount)
	case oppCount > 0:
		return -openScale(lineScore(oppCount), emptyCount)
	}
	return 0
}

func openScale(base, emptyCount int) int {
	if emptyCount > 0 {
		return base * (emptyCount + 1)
	}
	return base
}

func lineScore(count int) int {
	if count >= len(lineScores) {
		return lineScores[len(lineScores)-1]
	}
	return lineScores[count]
}

func evaluateCenter(g *game.Grid, ai, opp game.Mark) int {
	score := 0
	center := g.Size() / 2
	for row := center - 1; row <= center+1; row++ {
		for col := center - 1; col <= center+1; col++ {
			if !g.InBounds(row, col) {
				continue
			}
			switch g.At(row, col) {
			case ai:
				score += centerBonus
			case opp:
				score -= centerBonus
			}
		}
	}
	return score
}
