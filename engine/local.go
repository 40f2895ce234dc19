package engine

import (
	"yinsh/experiments/metrics"
	"yinsh/game"

	"github.com/rs/zerolog/log"
)

// Update describes the effect of one input.
type Update struct {
	metrics.InputMetric
	Hash game.StateHash
}

type Option func(e *Engine)

// WithLayout sets the pixel layout used by Click.
func WithLayout(layout game.Layout) Option {
	return func(e *Engine) {
		e.layout = layout
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// WithSeed is recorded in the game metrics.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// Engine runs a single local game, turning inputs into state changes and
// reporting each of them to its observers.
type Engine struct {
	state     *game.GameState
	layout    game.Layout
	metrics   metrics.Collector
	seed      uint64
	updates   []Update
	observers []func(Update, *game.GameState)
}

func New(rules *game.Rules, options ...Option) *Engine {
	e := &Engine{
		state:   game.NewGameState(rules),
		layout:  game.DefaultLayout(game.DefaultWindowSize),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	e.metrics.Start(e.seed)
	return e
}

// OnUpdate registers f to be called after every input with the update and a
// snapshot of the state it produced.
func (e *Engine) OnUpdate(f func(Update, *game.GameState)) {
	e.observers = append(e.observers, f)
}

// State returns a snapshot of the current game state.
func (e *Engine) State() *game.GameState { return e.state.Copy() }

func (e *Engine) Updates() []Update { return e.updates }

func (e *Engine) Layout() game.Layout { return e.layout }

func (e *Engine) Targets() []game.Coord { return e.state.Targets() }

func (e *Engine) Winner() game.Color { return e.state.Winner() }

// Metrics completes the collector's game metrics for the current state.
func (e *Engine) Metrics() metrics.GameMetric { return e.metrics.Complete(e.state) }

// Click feeds a screen position, converted to the nearest grid coordinate.
func (e *Engine) Click(p game.Point) (*game.GameOverEvent, error) {
	return e.Input(e.layout.ToCoord(p))
}

// Input feeds one coordinate into the game.
func (e *Engine) Input(c game.Coord) (*game.GameOverEvent, error) {
	if e.state.Over() {
		return nil, ErrGameOver
	}

	before := e.state.Phase()
	actor := e.state.CurrentPlayer()
	if before == game.LineRemovalPhase {
		actor = e.state.RemovingPlayer()
	}
	_, selected := e.state.Selected()
	move, isMove := game.FindMove(e.state.Reachable(), c)
	placed := e.state.Placed(actor)
	score := e.state.Score(actor)

	event := e.state.HandleInput(c)

	u := Update{
		InputMetric: metrics.InputMetric{
			Step:   len(e.updates) + 1,
			Player: actor,
			Input:  c,
			Phase:  e.state.Phase(),
		},
		Hash: e.state.Hash(),
	}
	switch before {
	case game.PlacementPhase:
		if e.state.Placed(actor) > placed {
			u.Action = metrics.Placed
		}
	case game.MovementPhase:
		_, selectedAfter := e.state.Selected()
		switch {
		case selected && isMove:
			u.Action = metrics.Moved
			u.Flipped = len(move.Flipped)
			u.Lines = len(e.state.PendingLines())
		case selected && !selectedAfter:
			u.Action = metrics.Deselected
		case !selected && selectedAfter:
			u.Action = metrics.Selected
		}
	case game.LineRemovalPhase:
		if e.state.Score(actor) > score {
			u.Action = metrics.Removed
		}
	}
	e.record(u)

	if event != nil {
		log.Info().Msgf("player %s wins after %d inputs", event.Winner, u.Step)
	}
	return event, nil
}

func (e *Engine) record(u Update) {
	e.updates = append(e.updates, u)
	e.metrics.AddInput(u.InputMetric)

	log.Debug().
		Int("step", u.Step).
		Stringer("player", u.Player).
		Stringer("input", u.Input).
		Stringer("action", u.Action).
		Stringer("phase", u.Phase).
		Msg("input handled")

	if len(e.observers) == 0 {
		return
	}
	snapshot := e.state.Copy()
	for _, f := range e.observers {
		f(u, snapshot)
	}
}

// Run feeds inputs from src until the game is won or src is exhausted, and
// returns the winner (Empty if the game did not finish).
func (e *Engine) Run(src InputSource) (game.Color, error) {
	log.Info().Msgf("player %s is starting", e.state.CurrentPlayer())

	for !e.state.Over() {
		c, ok := src.Next()
		if !ok {
			log.Info().Msgf("input exhausted after %d inputs without a winner", len(e.updates))
			return game.Empty, nil
		}
		if _, err := e.Input(c); err != nil {
			return game.Empty, err
		}
	}
	return e.state.Winner(), nil
}
