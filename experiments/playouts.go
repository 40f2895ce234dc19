package experiments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"yinsh/config"
	"yinsh/engine"
	"yinsh/experiments/metrics"
	"yinsh/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Result holds the records of a playout batch, ordered by game ID.
type Result struct {
	Games  []metrics.GameRecord
	Inputs []metrics.InputRecord
}

// Wins counts the finished games per winner.
func (r Result) Wins() map[game.Color]int {
	wins := map[game.Color]int{}
	for _, g := range r.Games {
		wins[g.Winner]++
	}
	return wins
}

type playout struct {
	game   metrics.GameRecord
	inputs []metrics.InputRecord
	err    error
}

// RunPlayouts plays cfg.Games games of random clicks over cfg.Workers
// goroutines. Every game checks the state invariants after each input and
// the first violation is returned as an error.
func RunPlayouts(ctx context.Context, rules *game.Rules, cfg config.ExperimentConfig) (Result, error) {
	if err := rules.Validate(); err != nil {
		return Result{}, err
	}
	if cfg.Games <= 0 || cfg.Workers <= 0 || cfg.MaxInputs <= 0 {
		return Result{}, fmt.Errorf("invalid experiment config: %+v", cfg)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	log.Info().Msgf("starting %s experiment with %d games on %d workers (seed %d)...", cfg.Name, cfg.Games, cfg.Workers, seed)

	task := make(chan int, cfg.Games)
	for i := 0; i < cfg.Games; i++ {
		task <- i
	}
	close(task)

	results := make([]playout, cfg.Games)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				if ctx.Err() != nil {
					results[i] = playout{game: metrics.GameRecord{ID: i + 1}, err: ctx.Err()}
					continue
				}
				results[i] = runGame(ctx, i+1, rules, seed+uint64(i), cfg.MaxInputs)
			}
		}()
	}
	wg.Wait()

	var res Result
	for _, p := range results {
		if p.err != nil {
			return res, fmt.Errorf("game %d: %w", p.game.ID, p.err)
		}
		res.Games = append(res.Games, p.game)
		res.Inputs = append(res.Inputs, p.inputs...)
	}

	wins := res.Wins()
	log.Info().Msgf("completed %s experiment: red %d, blue %d, unfinished %d",
		cfg.Name, wins[game.Red], wins[game.Blue], wins[game.Empty])
	return res, nil
}

// runGame clicks random targets until the game is won, stalls or runs out of
// inputs.
func runGame(ctx context.Context, id int, rules *game.Rules, seed uint64, maxInputs int) playout {
	rng := rand.New(rand.NewSource(seed))
	e := engine.New(rules, engine.WithMetrics(metrics.NewCollector()), engine.WithSeed(seed))

	p := playout{game: metrics.GameRecord{ID: id}}
	checker := newChecker(rules)
	e.OnUpdate(func(u engine.Update, gs *game.GameState) {
		p.inputs = append(p.inputs, metrics.InputRecord{Game: id, InputMetric: u.InputMetric})
		if p.err == nil {
			p.err = checker.check(gs)
		}
	})

	src := engine.SourceFunc(func() (game.Coord, bool) {
		if p.err != nil || ctx.Err() != nil || len(e.Updates()) >= maxInputs {
			return game.Coord{}, false
		}
		targets := e.Targets()
		if len(targets) == 0 {
			log.Debug().Int("game", id).Stringer("phase", e.State().Phase()).Msg("no targets left, game stalled")
			return game.Coord{}, false
		}
		return targets[rng.Intn(len(targets))], true
	})

	winner, err := e.Run(src)
	if err == nil {
		err = p.err
	}
	if err == nil {
		err = ctx.Err()
	}
	p.err = err
	p.game.GameMetric = e.Metrics()

	log.Debug().Int("game", id).Stringer("winner", winner).Int("inputs", p.game.Inputs).Msg("completed playout")
	return p
}

// checker verifies the state invariants between two consecutive inputs.
type checker struct {
	rules  *game.Rules
	scores map[game.Color]int
}

func newChecker(rules *game.Rules) *checker {
	return &checker{rules: rules, scores: map[game.Color]int{}}
}

func (c *checker) check(gs *game.GameState) error {
	b := gs.Board()
	for _, color := range game.Players {
		placed := gs.Placed(color)
		if placed > c.rules.RingsPerPlayer {
			return fmt.Errorf("%s placed %d rings, limit is %d", color, placed, c.rules.RingsPerPlayer)
		}
		if rings := b.Rings(color); rings+gs.Score(color) != placed {
			return fmt.Errorf("%s has %d rings and %d points but placed %d", color, rings, gs.Score(color), placed)
		}
		if gs.Score(color) < c.scores[color] {
			return fmt.Errorf("%s score dropped from %d to %d", color, c.scores[color], gs.Score(color))
		}
		c.scores[color] = gs.Score(color)
	}

	lines, active := gs.PendingLines(), gs.ActiveLine()
	if gs.Phase() == game.LineRemovalPhase && !gs.Over() {
		if len(lines) == 0 || active < 0 || active >= len(lines) {
			return fmt.Errorf("active line %d out of %d pending lines", active, len(lines))
		}
		for _, l := range lines {
			if len(l.Cells) < c.rules.LineLength {
				return fmt.Errorf("pending line of %d cells is shorter than %d", len(l.Cells), c.rules.LineLength)
			}
		}
	} else if gs.Phase() != game.LineRemovalPhase && (len(lines) != 0 || active != -1) {
		return fmt.Errorf("%d pending lines outside the line removal phase", len(lines))
	}

	if winner := gs.Winner(); winner != game.Empty && gs.Score(winner) < c.rules.WinScore {
		return fmt.Errorf("%s won with %d points", winner, gs.Score(winner))
	}
	return nil
}
