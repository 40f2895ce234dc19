package game

import (
	"fmt"
	"math"
)

// Coord is an axial hex coordinate.
type Coord struct {
	Row int
	Col int
}

// Directions are the six axial unit steps. Line and move scans walk them in
// this order.
var Directions = [6]Coord{
	{1, 0},  // right
	{0, 1},  // down right
	{-1, 1}, // down left
	{-1, 0}, // left
	{0, -1}, // up left
	{1, -1}, // up right
}

func (c Coord) Add(d Coord) Coord { return Coord{c.Row + d.Row, c.Col + d.Col} }

func (c Coord) Mul(k int) Coord { return Coord{c.Row * k, c.Col * k} }

// Neighbors returns the six adjacent coordinates. They are not checked
// against any board.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// ValidCoords enumerates every cell of a board with the given radius, row by
// row with columns ascending.
func ValidCoords(radius int) []Coord {
	coords := make([]Coord, 0, 1+3*radius*(radius+1))
	for row := -radius; row <= radius; row++ {
		for col := -radius; col <= radius; col++ {
			if abs(row+col) <= radius {
				coords = append(coords, Coord{row, col})
			}
		}
	}
	return coords
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Point is a position in screen space.
type Point struct {
	X float64
	Y float64
}

// Layout maps grid coordinates to screen space. The row axis is horizontal,
// the column axis is skewed by ColX per step.
type Layout struct {
	Origin Point
	RowX   float64
	ColX   float64
	ColY   float64
}

const DefaultWindowSize = 800

// DefaultLayout centres the board in a square window of the given size.
func DefaultLayout(size int) Layout {
	center := float64(size / 2)
	return Layout{
		Origin: Point{center, center},
		RowX:   55,
		ColX:   28,
		ColY:   48,
	}
}

func (l Layout) ToScreen(c Coord) Point {
	return Point{
		X: l.Origin.X + float64(c.Row)*l.RowX + float64(c.Col)*l.ColX,
		Y: l.Origin.Y + float64(c.Col)*l.ColY,
	}
}

// ToCoord inverts ToScreen, rounding to the nearest grid coordinate. The
// result may lie outside any board.
func (l Layout) ToCoord(p Point) Coord {
	col := math.Round((p.Y - l.Origin.Y) / l.ColY)
	row := math.Round((p.X - l.Origin.X - col*l.ColX) / l.RowX)
	return Coord{Row: int(row), Col: int(col)}
}
