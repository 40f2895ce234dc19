package engine

import (
	"errors"

	"yinsh/game"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

// InputSource yields board coordinates, one per click.
type InputSource interface {
	// Next returns the next input, or false once the source is exhausted.
	Next() (game.Coord, bool)
}

type scriptSource struct {
	coords []game.Coord
	next   int
}

// Script replays a fixed sequence of inputs.
func Script(coords ...game.Coord) InputSource {
	return &scriptSource{coords: coords}
}

func (s *scriptSource) Next() (game.Coord, bool) {
	if s.next >= len(s.coords) {
		return game.Coord{}, false
	}
	c := s.coords[s.next]
	s.next++
	return c, true
}

// SourceFunc adapts a function to InputSource.
type SourceFunc func() (game.Coord, bool)

func (f SourceFunc) Next() (game.Coord, bool) { return f() }
