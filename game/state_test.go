package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// movementGame returns a game already in the movement phase with the given
// rings on the board.
func movementGame(t *testing.T, rules *Rules, rings map[Coord]Color) *GameState {
	t.Helper()
	gs := NewGameState(rules)
	for c, owner := range rings {
		gs.board.placeRing(c, owner)
	}
	gs.phase = MovementPhase
	gs.currentPlayer = Red
	return gs
}

func TestPlacementPhase(t *testing.T) {
	rules := NewStandardRules()
	rules.RingsPerPlayer = 2
	rules.WinScore = 2
	gs := NewGameState(rules)

	require.Equal(t, PlacementPhase, gs.Phase())
	require.Equal(t, Red, gs.CurrentPlayer())

	t.Run("placing a ring switches player", func(t *testing.T) {
		require.Nil(t, gs.HandleInput(Coord{0, 0}))
		require.Equal(t, Cell{Owner: Red, Ring: true}, gs.Board().Cell(Coord{0, 0}))
		require.Equal(t, 1, gs.Placed(Red))
		require.Equal(t, Blue, gs.CurrentPlayer())
	})

	t.Run("occupied and off board cells are ignored", func(t *testing.T) {
		before := gs.Hash()
		gs.HandleInput(Coord{0, 0})
		gs.HandleInput(Coord{9, 9})
		require.Equal(t, before, gs.Hash())
		require.Equal(t, Blue, gs.CurrentPlayer())
	})

	t.Run("placing the last ring starts movement with Red", func(t *testing.T) {
		gs.HandleInput(Coord{1, 0})
		gs.HandleInput(Coord{2, 0})
		require.Equal(t, PlacementPhase, gs.Phase())
		gs.HandleInput(Coord{3, 0})

		require.Equal(t, MovementPhase, gs.Phase())
		require.Equal(t, Red, gs.CurrentPlayer(), "Red should start movement regardless of who placed last")
		require.Equal(t, 2, gs.Placed(Red))
		require.Equal(t, 2, gs.Placed(Blue))
	})
}

func TestSelection(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{
		{0, 0}: Red,
		{2, 2}: Blue,
	})

	t.Run("foreign rings cannot be selected", func(t *testing.T) {
		gs.HandleInput(Coord{2, 2})
		_, ok := gs.Selected()
		require.False(t, ok)
		require.Nil(t, gs.Reachable())
	})

	t.Run("selecting an own ring caches its moves", func(t *testing.T) {
		gs.HandleInput(Coord{0, 0})
		sel, ok := gs.Selected()
		require.True(t, ok)
		require.Equal(t, Coord{0, 0}, sel)
		require.Equal(t, gs.Board().ReachableMoves(Coord{0, 0}, 10), gs.Reachable())
		require.Equal(t, Red, gs.Board().Cell(Coord{0, 0}).Owner, "Selection should not recolour the ring")
	})

	t.Run("clicking an unreachable cell cancels", func(t *testing.T) {
		before := gs.Board().Cells()
		gs.HandleInput(Coord{2, 2})

		_, ok := gs.Selected()
		require.False(t, ok)
		require.Nil(t, gs.Reachable())
		require.Equal(t, before, gs.Board().Cells())
		require.Equal(t, Red, gs.CurrentPlayer())
		require.Equal(t, MovementPhase, gs.Phase())
	})
}

func TestMoveWithoutLines(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{
		{0, 0}:  Red,
		{-4, 4}: Blue,
	})
	gs.board.Set(Coord{1, 0}, markerCell(Blue))
	gs.board.Set(Coord{2, 0}, markerCell(Blue))

	gs.HandleInput(Coord{0, 0})
	require.Contains(t, gs.Reachable(), Move{To: Coord{3, 0}, Flipped: []Coord{{1, 0}, {2, 0}}})
	gs.HandleInput(Coord{3, 0})

	b := gs.Board()
	require.Equal(t, Cell{Owner: Red}, b.Cell(Coord{0, 0}), "Start should hold the mover's marker")
	require.Equal(t, Cell{Owner: Red, Ring: true}, b.Cell(Coord{3, 0}))
	require.Equal(t, Cell{Owner: Red}, b.Cell(Coord{1, 0}), "Jumped markers should flip")
	require.Equal(t, Cell{Owner: Red}, b.Cell(Coord{2, 0}), "Jumped markers should flip")
	require.Equal(t, Blue, gs.CurrentPlayer())
	require.Equal(t, MovementPhase, gs.Phase())
	_, ok := gs.Selected()
	require.False(t, ok)
}

func TestLineRemovalSequence(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{
		{0, 2}:  Red,
		{4, -4}: Red,
		{-4, 4}: Blue,
		{2, 2}:  Blue,
	})
	redLine := []Coord{{0, -2}, {0, -1}, {0, 0}, {0, 1}, {0, 2}}
	blueLine := []Coord{{-3, -1}, {-3, 0}, {-3, 1}, {-3, 2}, {-3, 3}}
	setMarkers(gs.board, Red, redLine[:4]...)
	setMarkers(gs.board, Blue, blueLine...)

	// Red's ring leaves its marker on (0,2), completing the Red line
	gs.HandleInput(Coord{0, 2})
	gs.HandleInput(Coord{1, 2})

	require.Equal(t, LineRemovalPhase, gs.Phase())
	require.Len(t, gs.PendingLines(), 2)
	require.Equal(t, Line{Color: Red, Cells: redLine}, gs.PendingLines()[0])
	require.Equal(t, Line{Color: Blue, Cells: blueLine}, gs.PendingLines()[1])
	require.Equal(t, 0, gs.ActiveLine())
	require.Equal(t, Red, gs.RemovingPlayer())

	t.Run("only the remover's rings count", func(t *testing.T) {
		before := gs.Hash()
		gs.HandleInput(Coord{2, 2})
		gs.HandleInput(Coord{0, 0})
		require.Equal(t, before, gs.Hash())
	})

	t.Run("resolving the first line hands over to the second owner", func(t *testing.T) {
		require.Nil(t, gs.HandleInput(Coord{4, -4}))

		require.Equal(t, 1, gs.Score(Red))
		require.True(t, gs.Board().Cell(Coord{4, -4}).IsEmpty())
		for _, c := range redLine {
			require.True(t, gs.Board().Cell(c).IsEmpty(), "Red line cell %v should be cleared", c)
		}
		require.Equal(t, LineRemovalPhase, gs.Phase())
		require.Equal(t, 1, gs.ActiveLine())
		require.Equal(t, Blue, gs.RemovingPlayer())
	})

	t.Run("resolving the last line returns the turn to the mover's opponent", func(t *testing.T) {
		require.Nil(t, gs.HandleInput(Coord{2, 2}))

		require.Equal(t, 1, gs.Score(Blue))
		for _, c := range blueLine {
			require.True(t, gs.Board().Cell(c).IsEmpty(), "Blue line cell %v should be cleared", c)
		}
		require.Equal(t, MovementPhase, gs.Phase())
		require.Equal(t, Blue, gs.CurrentPlayer(), "Turn should pass to the opponent of the mover")
		require.Nil(t, gs.PendingLines())
		require.Equal(t, -1, gs.ActiveLine())
		require.Equal(t, Empty, gs.RemovingPlayer())
		_, ok := gs.Selected()
		require.False(t, ok)
	})
}

func TestLongLineClearsFirstFive(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{
		{3, 0}:  Red,
		{-4, 4}: Blue,
	})
	setMarkers(gs.board, Red, Coord{-2, 0}, Coord{-1, 0}, Coord{0, 0}, Coord{1, 0}, Coord{2, 0})

	gs.HandleInput(Coord{3, 0})
	gs.HandleInput(Coord{3, 1})

	require.Len(t, gs.PendingLines(), 1)
	require.Len(t, gs.PendingLines()[0].Cells, 6)

	gs.HandleInput(Coord{3, 1})

	for _, c := range []Coord{{-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0}} {
		require.True(t, gs.Board().Cell(c).IsEmpty())
	}
	require.Equal(t, Cell{Owner: Red}, gs.Board().Cell(Coord{3, 0}), "Sixth marker should stay")
	require.Equal(t, MovementPhase, gs.Phase())
	require.Equal(t, Blue, gs.CurrentPlayer())
}

func TestCrossingLinesShareACell(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{
		{0, 3}:  Red,
		{4, -4}: Red,
		{-4, 4}: Blue,
	})
	// two Red lines crossing at (0,0); the move completes the row
	setMarkers(gs.board, Red, Coord{-2, 0}, Coord{-1, 0}, Coord{0, 0}, Coord{1, 0}, Coord{2, 0})
	setMarkers(gs.board, Red, Coord{0, -1}, Coord{0, 1}, Coord{0, 2})

	gs.HandleInput(Coord{0, 3})
	gs.HandleInput(Coord{1, 3})

	require.Len(t, gs.PendingLines(), 2)
	require.Equal(t, Red, gs.RemovingPlayer())

	gs.HandleInput(Coord{4, -4})
	require.True(t, gs.Board().Cell(Coord{0, 0}).IsEmpty(), "Shared cell is cleared with the first line")
	require.Equal(t, Red, gs.RemovingPlayer())

	gs.HandleInput(Coord{1, 3})
	for _, c := range []Coord{{0, -1}, {0, 1}, {0, 2}, {0, 3}} {
		require.True(t, gs.Board().Cell(c).IsEmpty())
	}
	require.Equal(t, 2, gs.Score(Red))
	require.Equal(t, Blue, gs.CurrentPlayer())
}

func TestWinEndsTheGame(t *testing.T) {
	rules := NewStandardRules()
	rules.WinScore = 1
	gs := movementGame(t, rules, map[Coord]Color{
		{0, 2}:  Red,
		{4, -4}: Red,
		{-4, 4}: Blue,
	})
	setMarkers(gs.board, Red, Coord{0, -2}, Coord{0, -1}, Coord{0, 0}, Coord{0, 1})

	require.Nil(t, gs.HandleInput(Coord{0, 2}))
	require.Nil(t, gs.HandleInput(Coord{1, 2}))
	event := gs.HandleInput(Coord{4, -4})

	require.NotNil(t, event)
	require.Equal(t, GameOverEvent{Winner: Red}, *event)
	require.Equal(t, Red, gs.Winner())
	require.True(t, gs.Over())
	require.Empty(t, gs.Targets())

	before := gs.Hash()
	require.Nil(t, gs.HandleInput(Coord{1, 2}))
	require.Equal(t, before, gs.Hash(), "Input after game over should be ignored")
}

func TestTargets(t *testing.T) {
	rules := NewStandardRules()
	rules.RingsPerPlayer = 1
	rules.WinScore = 1
	gs := NewGameState(rules)
	require.Len(t, gs.Targets(), 91)

	gs.HandleInput(Coord{0, 0})
	require.Len(t, gs.Targets(), 90)

	gs.HandleInput(Coord{5, 0})
	require.Equal(t, MovementPhase, gs.Phase())
	require.Equal(t, []Coord{{0, 0}}, gs.Targets())

	gs.HandleInput(Coord{0, 0})
	require.Len(t, gs.Targets(), len(gs.Reachable()))
}

func TestRemovalInvariantPanics(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{{0, 0}: Red})
	gs.phase = LineRemovalPhase

	require.Panics(t, func() { gs.HandleInput(Coord{0, 0}) })
}

func TestCopyIsSnapshot(t *testing.T) {
	gs := movementGame(t, NewStandardRules(), map[Coord]Color{{0, 0}: Red, {3, 0}: Blue})
	gs.HandleInput(Coord{0, 0})

	snapshot := gs.Copy()
	gs.HandleInput(Coord{1, 0})

	require.Equal(t, Red, snapshot.CurrentPlayer())
	sel, ok := snapshot.Selected()
	require.True(t, ok)
	require.Equal(t, Coord{0, 0}, sel)
	require.True(t, snapshot.Board().Cell(Coord{1, 0}).IsEmpty())
	require.NotEqual(t, snapshot.Hash(), gs.Hash())
}

func TestHashCoversPendingState(t *testing.T) {
	gs := NewGameState(NewStandardRules())
	gs.phase = LineRemovalPhase
	gs.removal = &Removal{
		Lines: []Line{{Color: Red, Cells: []Coord{{-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0}}}},
		Mover: Red,
	}

	t.Run("pending line cells", func(t *testing.T) {
		other := gs.Copy()
		other.removal.Lines = []Line{{Color: Red, Cells: []Coord{{0, -2}, {0, -1}, {0, 0}, {0, 1}, {0, 2}}}}
		require.NotEqual(t, gs.Hash(), other.Hash())
	})

	t.Run("pending line colour", func(t *testing.T) {
		other := gs.Copy()
		other.removal.Lines = []Line{{Color: Blue, Cells: gs.removal.Lines[0].Cells}}
		require.NotEqual(t, gs.Hash(), other.Hash())
	})

	t.Run("cached moves", func(t *testing.T) {
		a := NewGameState(NewStandardRules())
		a.phase = MovementPhase
		a.selection = &Selection{Ring: Coord{0, 0}, Moves: []Move{{To: Coord{1, 0}}}}
		b := a.Copy()
		b.selection.Moves = []Move{{To: Coord{2, 0}, Flipped: []Coord{{1, 0}}}}
		require.NotEqual(t, a.Hash(), b.Hash())
		require.Equal(t, a.Hash(), a.Copy().Hash())
	})
}
