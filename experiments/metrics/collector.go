package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth     int // Deepest fully completed iteration
	Duration  time.Duration
	Nodes     int
	CacheHits int
	Cutoffs   int
	Reason    string // Why the search stopped
	Score     int
}

type MoveMetric struct {
	Step int
	Mark string
	Row  int
	Col  int
	SearchMetric
}

type GameMetric struct {
	Starter    string // Mark of the contestant who moved first
	Winner     string // Mark of the winner, "" on a draw
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start()
	AddNode()
	AddCacheHit()
	AddCutoff()
	CompleteDepth(depth int)
	Complete(reason string, score int) SearchMetric
}

type collector struct {
	startTime time.Time
	depth     atomic.Int32
	nodes     atomic.Int64
	cacheHits atomic.Int64
	cutoffs   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.depth.Store(0)
	m.nodes.Store(0)
	m.cacheHits.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) CompleteDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) Complete(reason string, score int) SearchMetric {
	return SearchMetric{
		Depth:     int(m.depth.Load()),
		Duration:  time.Since(m.startTime),
		Nodes:     int(m.nodes.Load()),
		CacheHits: int(m.cacheHits.Load()),
		Cutoffs:   int(m.cutoffs.Load()),
		Reason:    reason,
		Score:     score,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                                         {}
func (m *dummyCollector) AddNode()                                       {}
func (m *dummyCollector) AddCacheHit()                                   {}
func (m *dummyCollector) AddCutoff()                                     {}
func (m *dummyCollector) CompleteDepth(depth int)                        {}
func (m *dummyCollector) Complete(reason string, score int) SearchMetric { return SearchMetric{} }
