package game

import (
	"fmt"

	"golang.org/x/exp/maps"
)

// Cell is the content of a single board position.
type Cell struct {
	Owner Color
	Ring  bool
}

func (c Cell) IsEmpty() bool { return c.Owner == Empty }

// IsMarker reports whether the cell holds a coloured non-ring piece.
func (c Cell) IsMarker() bool { return c.Owner != Empty && !c.Ring }

func (c Cell) IsRing() bool { return c.Ring }

func ringCell(owner Color) Cell   { return Cell{Owner: owner, Ring: true} }
func markerCell(owner Color) Cell { return Cell{Owner: owner} }

// Board stores one cell per valid coordinate in a flat slice addressed
// through a coordinate index. Entries are overwritten in place, never
// removed.
type Board struct {
	radius int
	coords []Coord       // index -> coordinate, row-major
	index  map[Coord]int // coordinate -> index
	cells  []Cell        // indexed like coords
	placed map[Color]int // rings placed during the placement phase
	scores map[Color]int // rings removed after completing lines
}

func NewBoard(radius int) *Board {
	coords := ValidCoords(radius)
	b := &Board{
		radius: radius,
		coords: coords,
		index:  make(map[Coord]int, len(coords)),
		cells:  make([]Cell, len(coords)),
		placed: map[Color]int{Red: 0, Blue: 0},
		scores: map[Color]int{Red: 0, Blue: 0},
	}
	for i, c := range coords {
		b.index[c] = i
	}
	return b
}

func (b *Board) Copy() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		radius: b.radius,
		coords: b.coords, // immutable
		index:  b.index,  // immutable
		cells:  cells,
		placed: maps.Clone(b.placed),
		scores: maps.Clone(b.scores),
	}
}

func (b *Board) Radius() int { return b.radius }

// Coords returns the valid coordinates in scan order. The slice is shared
// and must not be modified.
func (b *Board) Coords() []Coord { return b.coords }

func (b *Board) Contains(c Coord) bool {
	_, ok := b.index[c]
	return ok
}

// At returns the cell at c and whether c is on the board.
func (b *Board) At(c Coord) (Cell, bool) {
	i, ok := b.index[c]
	if !ok {
		return Cell{}, false
	}
	return b.cells[i], true
}

// Cell returns the cell at c. It panics if c is off the board.
func (b *Board) Cell(c Coord) Cell {
	return b.cells[b.mustIndex(c)]
}

func (b *Board) Set(c Coord, cell Cell) {
	if cell.Owner == Empty && cell.Ring {
		panic(fmt.Sprintf("empty ring stored at %v", c))
	}
	b.cells[b.mustIndex(c)] = cell
}

func (b *Board) Clear(c Coord) {
	b.cells[b.mustIndex(c)] = Cell{}
}

// Flip swaps the colour of the marker at c.
func (b *Board) Flip(c Coord) {
	i := b.mustIndex(c)
	if !b.cells[i].IsMarker() {
		panic(fmt.Sprintf("cannot flip %+v at %v", b.cells[i], c))
	}
	b.cells[i].Owner = b.cells[i].Owner.Opponent()
}

func (b *Board) mustIndex(c Coord) int {
	i, ok := b.index[c]
	if !ok {
		panic(fmt.Sprintf("coordinate %v is not on the board", c))
	}
	return i
}

func (b *Board) Placed(c Color) int { return b.placed[c] }

func (b *Board) Score(c Color) int { return b.scores[c] }

// placeRing puts a new ring for owner at c and counts it.
func (b *Board) placeRing(c Coord, owner Color) {
	b.Set(c, ringCell(owner))
	b.placed[owner]++
}

// removeRing takes owner's ring off c and scores it.
func (b *Board) removeRing(c Coord, owner Color) {
	if cell := b.Cell(c); !cell.Ring || cell.Owner != owner {
		panic(fmt.Sprintf("no %v ring at %v", owner, c))
	}
	b.Clear(c)
	b.scores[owner]++
}

// Cells returns a snapshot of the whole board.
func (b *Board) Cells() map[Coord]Cell {
	out := make(map[Coord]Cell, len(b.coords))
	for i, c := range b.coords {
		out[c] = b.cells[i]
	}
	return out
}

// Rings counts the rings owner has on the board.
func (b *Board) Rings(owner Color) int {
	return b.count(func(cell Cell) bool { return cell.Ring && cell.Owner == owner })
}

// Markers counts the markers owner has on the board.
func (b *Board) Markers(owner Color) int {
	return b.count(func(cell Cell) bool { return cell.IsMarker() && cell.Owner == owner })
}

func (b *Board) count(match func(Cell) bool) int {
	n := 0
	for _, cell := range b.cells {
		if match(cell) {
			n++
		}
	}
	return n
}
