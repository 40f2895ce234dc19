package game

import "fmt"

// Color is the owner of a cell. Empty is a real value, not the absence of one.
type Color int8

const (
	Empty Color = iota
	Red         // PlayerA, always moves first
	Blue        // PlayerB
)

// Players lists the two playing colours in scan order.
var Players = [2]Color{Red, Blue}

func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		panic(fmt.Sprintf("colour %d has no opponent", c))
	}
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return fmt.Sprintf("Color(%d)", int8(c))
	}
}

type StateHash uint64

// GameOverEvent is returned by HandleInput on the input that decides the game.
type GameOverEvent struct {
	Winner Color
}
