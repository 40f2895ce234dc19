package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Phase int

const (
	PlacementPhase Phase = iota
	MovementPhase
	LineRemovalPhase
)

func (p Phase) String() string {
	switch p {
	case PlacementPhase:
		return "placement"
	case MovementPhase:
		return "movement"
	case LineRemovalPhase:
		return "line removal"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Selection is the ring picked during the movement phase and the moves
// cached for it.
type Selection struct {
	Ring  Coord
	Moves []Move
}

// Removal tracks the lines completed by the last move while their owners
// remove rings for them.
type Removal struct {
	Lines  []Line
	Active int   // index of the line being resolved
	Mover  Color // player whose move completed the lines
}

// Remover is the player who must remove a ring for the active line.
func (r *Removal) Remover() Color { return r.Lines[r.Active].Color }

// GameState is the whole game: the board plus the phase machine driving it.
// Only HandleInput mutates it.
type GameState struct {
	board         *Board
	rules         Rules
	phase         Phase
	currentPlayer Color
	selection     *Selection // movement phase only, nil when nothing selected
	removal       *Removal   // line removal phase only
	winner        Color      // Empty while the game is running
}

// NewGameState starts a game in the placement phase with Red to play.
func NewGameState(rules *Rules) *GameState {
	if err := rules.Validate(); err != nil {
		panic(err)
	}
	return &GameState{
		board:         NewBoard(rules.BoardRadius),
		rules:         *rules,
		phase:         PlacementPhase,
		currentPlayer: Red,
	}
}

func (gs *GameState) Copy() *GameState {
	cp := *gs
	cp.board = gs.board.Copy()
	if gs.selection != nil {
		sel := *gs.selection
		sel.Moves = slices.Clone(sel.Moves)
		cp.selection = &sel
	}
	if gs.removal != nil {
		rem := *gs.removal
		rem.Lines = slices.Clone(rem.Lines)
		cp.removal = &rem
	}
	return &cp
}

func (gs *GameState) Board() *Board         { return gs.board }
func (gs *GameState) Rules() Rules          { return gs.rules }
func (gs *GameState) Phase() Phase          { return gs.phase }
func (gs *GameState) CurrentPlayer() Color  { return gs.currentPlayer }
func (gs *GameState) Winner() Color         { return gs.winner }
func (gs *GameState) Over() bool            { return gs.winner != Empty }
func (gs *GameState) Score(c Color) int     { return gs.board.Score(c) }
func (gs *GameState) Placed(c Color) int    { return gs.board.Placed(c) }
func (gs *GameState) Cells() map[Coord]Cell { return gs.board.Cells() }

// Selected returns the selected ring, if any.
func (gs *GameState) Selected() (Coord, bool) {
	if gs.selection == nil {
		return Coord{}, false
	}
	return gs.selection.Ring, true
}

// Reachable returns the moves cached for the selected ring.
func (gs *GameState) Reachable() []Move {
	if gs.selection == nil {
		return nil
	}
	return gs.selection.Moves
}

func (gs *GameState) PendingLines() []Line {
	if gs.removal == nil {
		return nil
	}
	return gs.removal.Lines
}

// ActiveLine is the index of the pending line being resolved, -1 outside
// the line removal phase.
func (gs *GameState) ActiveLine() int {
	if gs.removal == nil {
		return -1
	}
	return gs.removal.Active
}

// RemovingPlayer is the player expected to remove a ring, Empty outside the
// line removal phase.
func (gs *GameState) RemovingPlayer() Color {
	if gs.removal == nil {
		return Empty
	}
	return gs.removal.Remover()
}

// HandleInput processes one click on c. Inputs that do not apply to the
// current phase are ignored. The returned event is non-nil only on the
// input that wins the game; later inputs are ignored.
func (gs *GameState) HandleInput(c Coord) *GameOverEvent {
	if gs.Over() || !gs.board.Contains(c) {
		return nil
	}

	switch gs.phase {
	case PlacementPhase:
		gs.place(c)
	case MovementPhase:
		gs.move(c)
	case LineRemovalPhase:
		return gs.removeRing(c)
	default:
		panic(fmt.Sprintf("unknown game phase %d", gs.phase))
	}
	return nil
}

func (gs *GameState) place(c Coord) {
	if !gs.board.Cell(c).IsEmpty() {
		return
	}
	gs.board.placeRing(c, gs.currentPlayer)
	gs.currentPlayer = gs.currentPlayer.Opponent()

	if gs.board.Placed(Red) == gs.rules.RingsPerPlayer && gs.board.Placed(Blue) == gs.rules.RingsPerPlayer {
		gs.phase = MovementPhase
		gs.currentPlayer = Red
		log.Debug().Msg("all rings placed, starting movement phase")
	}
}

func (gs *GameState) move(c Coord) {
	if gs.selection == nil {
		cell := gs.board.Cell(c)
		if cell.Ring && cell.Owner == gs.currentPlayer {
			gs.selection = &Selection{
				Ring:  c,
				Moves: gs.board.ReachableMoves(c, gs.rules.MaxJumpSteps),
			}
		}
		return
	}

	mv, ok := FindMove(gs.selection.Moves, c)
	start := gs.selection.Ring
	gs.selection = nil
	if !ok {
		return
	}
	gs.applyMove(start, mv)
}

// applyMove moves the current player's ring from start, leaving a marker
// behind, then queues every line on the board for removal.
func (gs *GameState) applyMove(start Coord, mv Move) {
	mover := gs.currentPlayer
	gs.board.Set(start, markerCell(mover))
	gs.board.Set(mv.To, ringCell(mover))
	for _, f := range mv.Flipped {
		gs.board.Flip(f)
	}

	lines := gs.detectLines()
	if len(lines) == 0 {
		gs.currentPlayer = mover.Opponent()
		return
	}

	gs.phase = LineRemovalPhase
	gs.removal = &Removal{Lines: lines, Mover: mover}
	log.Debug().
		Stringer("mover", mover).
		Int("lines", len(lines)).
		Stringer("remover", gs.removal.Remover()).
		Msg("lines completed")
}

// detectLines collects the lines of both colours into one list with no two
// entries covering the same cells.
func (gs *GameState) detectLines() []Line {
	var pending []Line
	for _, color := range Players {
		for _, line := range gs.board.FindLines(color, gs.rules.LineLength) {
			if !containsLine(pending, line.Cells) {
				pending = append(pending, line)
			}
		}
	}
	return pending
}

func (gs *GameState) removeRing(c Coord) *GameOverEvent {
	rem := gs.removal
	if rem == nil || rem.Active < 0 || rem.Active >= len(rem.Lines) {
		panic(fmt.Sprintf("line removal phase with invalid pending lines: %+v", rem))
	}
	remover := rem.Remover()
	cell := gs.board.Cell(c)
	if !cell.Ring || cell.Owner != remover {
		return nil
	}

	gs.board.removeRing(c, remover)
	if gs.board.Score(remover) >= gs.rules.WinScore {
		gs.winner = remover
		log.Debug().Stringer("winner", remover).Msg("game over")
		return &GameOverEvent{Winner: remover}
	}

	line := rem.Lines[rem.Active]
	for _, pos := range line.Removable(gs.rules.LineLength) {
		// a marker flipped or cleared by an earlier removal stays as it is
		if gs.board.Cell(pos).Owner == line.Color {
			gs.board.Clear(pos)
		}
	}

	if rem.Active < len(rem.Lines)-1 {
		rem.Active++
		return nil
	}

	gs.removal = nil
	gs.selection = nil
	gs.phase = MovementPhase
	gs.currentPlayer = rem.Mover.Opponent()
	return nil
}

// Targets lists the coordinates on which an input advances the game: empty
// cells while placing, the current player's rings that can move (or the
// selected ring's destinations), and the remover's rings. An empty result
// outside game over means the player to act is stuck.
func (gs *GameState) Targets() []Coord {
	if gs.Over() {
		return nil
	}
	var out []Coord
	switch gs.phase {
	case PlacementPhase:
		for _, c := range gs.board.coords {
			if gs.board.Cell(c).IsEmpty() {
				out = append(out, c)
			}
		}
	case MovementPhase:
		if gs.selection != nil {
			for _, m := range gs.selection.Moves {
				out = append(out, m.To)
			}
			return out
		}
		for _, c := range gs.board.coords {
			cell := gs.board.Cell(c)
			if cell.Ring && cell.Owner == gs.currentPlayer && len(gs.board.ReachableMoves(c, gs.rules.MaxJumpSteps)) > 0 {
				out = append(out, c)
			}
		}
	case LineRemovalPhase:
		remover := gs.RemovingPlayer()
		for _, c := range gs.board.coords {
			cell := gs.board.Cell(c)
			if cell.Ring && cell.Owner == remover {
				out = append(out, c)
			}
		}
	}
	return out
}

// Hash fingerprints the observable state.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.phase))
	binary.Write(hasher, binary.LittleEndian, int64(gs.currentPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(gs.winner))

	for _, color := range Players {
		binary.Write(hasher, binary.LittleEndian, int64(gs.board.Placed(color)))
		binary.Write(hasher, binary.LittleEndian, int64(gs.board.Score(color)))
	}

	for _, cell := range gs.board.cells {
		v := int64(cell.Owner)
		if cell.Ring {
			v |= 1 << 8
		}
		binary.Write(hasher, binary.LittleEndian, v)
	}

	if gs.selection != nil {
		writeCoord(hasher, gs.selection.Ring)
		binary.Write(hasher, binary.LittleEndian, int64(len(gs.selection.Moves)))
		for _, m := range gs.selection.Moves {
			writeCoord(hasher, m.To)
			binary.Write(hasher, binary.LittleEndian, int64(len(m.Flipped)))
			for _, f := range m.Flipped {
				writeCoord(hasher, f)
			}
		}
	}
	if gs.removal != nil {
		binary.Write(hasher, binary.LittleEndian, int64(gs.removal.Active))
		binary.Write(hasher, binary.LittleEndian, int64(gs.removal.Mover))
		binary.Write(hasher, binary.LittleEndian, int64(len(gs.removal.Lines)))
		for _, line := range gs.removal.Lines {
			binary.Write(hasher, binary.LittleEndian, int64(line.Color))
			binary.Write(hasher, binary.LittleEndian, int64(len(line.Cells)))
			for _, c := range line.Cells {
				writeCoord(hasher, c)
			}
		}
	}

	return StateHash(hasher.Sum64())
}

func writeCoord(w io.Writer, c Coord) {
	binary.Write(w, binary.LittleEndian, int64(c.Row))
	binary.Write(w, binary.LittleEndian, int64(c.Col))
}
