package metrics

import (
	"sync/atomic"
	"time"

	"yinsh/game"
)

// Action classifies what an input did to the game.
type Action int

const (
	Ignored Action = iota
	Placed
	Selected
	Deselected
	Moved
	Removed
)

func (a Action) String() string {
	switch a {
	case Placed:
		return "placed"
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	case Moved:
		return "moved"
	case Removed:
		return "removed"
	default:
		return "ignored"
	}
}

type InputMetric struct {
	Step    int
	Player  game.Color // player expected to act when the input arrived
	Input   game.Coord
	Action  Action
	Phase   game.Phase // phase after the input
	Flipped int        // markers flipped by a move
	Lines   int        // lines completed by a move
}

type GameMetric struct {
	Seed      uint64
	Winner    game.Color // Empty when the game stalled or was cut off
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Inputs    int
	Moves     int
	Flips     int
	Lines     int
	Removals  int
	Score     [2]int // Red, Blue
}

type Collector interface {
	Start(seed uint64)
	AddInput(m InputMetric)
	Complete(final *game.GameState) GameMetric
}

type collector struct {
	seed      uint64
	startTime time.Time
	inputs    atomic.Int32
	moves     atomic.Int32
	flips     atomic.Int32
	lines     atomic.Int32
	removals  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(seed uint64) {
	m.startTime = time.Now()
	m.seed = seed
	m.inputs.Store(0)
	m.moves.Store(0)
	m.flips.Store(0)
	m.lines.Store(0)
	m.removals.Store(0)
}

func (m *collector) AddInput(im InputMetric) {
	m.inputs.Add(1)
	switch im.Action {
	case Moved:
		m.moves.Add(1)
		m.flips.Add(int32(im.Flipped))
		m.lines.Add(int32(im.Lines))
	case Removed:
		m.removals.Add(1)
	}
}

func (m *collector) Complete(final *game.GameState) GameMetric {
	end := time.Now()
	return GameMetric{
		Seed:      m.seed,
		Winner:    final.Winner(),
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
		Inputs:    int(m.inputs.Load()),
		Moves:     int(m.moves.Load()),
		Flips:     int(m.flips.Load()),
		Lines:     int(m.lines.Load()),
		Removals:  int(m.removals.Load()),
		Score:     [2]int{final.Score(game.Red), final.Score(game.Blue)},
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(seed uint64)                         {}
func (m *dummyCollector) AddInput(im InputMetric)                   {}
func (m *dummyCollector) Complete(final *game.GameState) GameMetric { return GameMetric{} }
