package game

import (
	"golang.org/x/exp/slices"
)

// Line is a maximal run of same-coloured markers along one direction, in
// board order along that direction.
type Line struct {
	Color Color
	Cells []Coord
}

// Removable returns the cells cleared when the line is resolved: the first
// n of them.
func (l Line) Removable(n int) []Coord {
	if len(l.Cells) < n {
		return l.Cells
	}
	return l.Cells[:n]
}

// FindLines reports every run of at least minLen markers of color. A run is
// recorded once however many of its cells start a scan, and runs longer than
// minLen are reported whole.
func (b *Board) FindLines(color Color, minLen int) []Line {
	var lines []Line
	visited := make(map[Coord]bool)

	for _, pos := range b.coords {
		if visited[pos] || !b.isMarkerOf(pos, color) {
			continue
		}
		for _, d := range Directions {
			run := b.runThrough(pos, d, color)
			if len(run) < minLen || containsLine(lines, run) {
				continue
			}
			lines = append(lines, Line{Color: color, Cells: run})
			for _, c := range run {
				visited[c] = true
			}
		}
	}
	return lines
}

// runThrough extends from pos forward along d and then backward, returning
// the run ordered along d.
func (b *Board) runThrough(pos, d Coord, color Color) []Coord {
	var run []Coord
	for c := pos; b.isMarkerOf(c, color); c = c.Add(d) {
		run = append(run, c)
	}
	back := d.Mul(-1)
	var behind []Coord
	for c := pos.Add(back); b.isMarkerOf(c, color); c = c.Add(back) {
		behind = append(behind, c)
	}
	slices.Reverse(behind)
	return append(behind, run...)
}

func (b *Board) isMarkerOf(c Coord, color Color) bool {
	cell, ok := b.At(c)
	return ok && cell.IsMarker() && cell.Owner == color
}

// SameCells reports whether a and b hold the same coordinates, ignoring
// order.
func SameCells(a, b []Coord) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(sortedCoords(a), sortedCoords(b))
}

func sortedCoords(cs []Coord) []Coord {
	out := slices.Clone(cs)
	slices.SortFunc(out, compareCoords)
	return out
}

func compareCoords(a, b Coord) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

func containsLine(lines []Line, cells []Coord) bool {
	return slices.ContainsFunc(lines, func(l Line) bool {
		return SameCells(l.Cells, cells)
	})
}
