package agent

import (
	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/searcher"
)

type evaluationAgent struct {
	ab *searcher.AlphaBeta
}

// NewEvaluationAgent returns an agent that always plays the searcher's best move.
func NewEvaluationAgent(ab *searcher.AlphaBeta) Agent {
	return evaluationAgent{ab: ab}
}

func (a evaluationAgent) FindMove(g *game.Grid) (game.Move, metrics.SearchMetric) {
	result, metric := a.ab.Search(g)
	return result.Move, metric
}

func (a evaluationAgent) Thinking() []string {
	return a.ab.Thinking()
}
