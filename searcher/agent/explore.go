package agent

import (
	"math"

	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/searcher"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

type explorationAgent struct {
	ab          *searcher.AlphaBeta
	temperature float64
	rng         *rand.Rand
}

// NewExplorationAgent returns an agent that samples among the exactly scored
// root moves of the deepest completed search with a softmax over their scores. Temperature
// is in score units; 0 plays like the evaluation agent. Used to vary games
// between the same pair of agents.
func NewExplorationAgent(ab *searcher.AlphaBeta, temperature float64, seed uint64) Agent {
	return &explorationAgent{
		ab:          ab,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *explorationAgent) FindMove(g *game.Grid) (game.Move, metrics.SearchMetric) {
	result, metric := a.ab.Search(g)
	// Immediate wins, blocks and forced wins are never traded for variety
	if a.temperature <= 0 || (result.Reason != searcher.StopDepth && result.Reason != searcher.StopTime) {
		return result.Move, metric
	}
	// Bounds from moves that failed low say nothing about how much worse they are
	candidates := lo.Filter(result.Root, func(scored searcher.ScoredMove, _ int) bool { return scored.Exact })
	if len(candidates) < 2 {
		return result.Move, metric
	}
	policy := adjustTemperature(candidates, a.temperature)
	return sample(candidates, policy, a.rng.Float64()), metric
}

func (a *explorationAgent) Thinking() []string {
	return a.ab.Thinking()
}

// adjustTemperature returns softmax probabilities over the root scores, in the
// same order as root.
func adjustTemperature(root []searcher.ScoredMove, temperature float64) []float64 {
	best := root[0].Score
	for _, scored := range root {
		best = max(best, scored.Score)
	}
	// Shift by the best score so the exponent never overflows
	sum := 0.0
	policy := make([]float64, len(root))
	for i, scored := range root {
		policy[i] = math.Exp(float64(scored.Score-best) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(root []searcher.ScoredMove, policy []float64, sampled float64) game.Move {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return root[i].Move
		}
	}
	return root[len(root)-1].Move // Fallback in case of rounding errors
}
