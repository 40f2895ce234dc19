package game

// Move is a destination reachable by the selected ring together with the
// markers it flips on the way. Slides have no flipped cells.
type Move struct {
	To      Coord
	Flipped []Coord
}

func (m Move) IsJump() bool { return len(m.Flipped) > 0 }

// ReachableMoves lists every destination the ring at start can move to.
// Each direction contributes its empty run (slides) and at most one jump:
// from the end of the empty run, a contiguous run of markers followed by an
// empty cell, found within maxJump steps.
func (b *Board) ReachableMoves(start Coord, maxJump int) []Move {
	var moves []Move
	for _, d := range Directions {
		// 1) slide through empty cells
		last := start
		for {
			next := last.Add(d)
			cell, ok := b.At(next)
			if !ok || !cell.IsEmpty() {
				break
			}
			moves = append(moves, Move{To: next})
			last = next
		}

		// 2) jump the marker run that follows
		var flipped []Coord
		for step := 1; step <= maxJump; step++ {
			pos := last.Add(d.Mul(step))
			cell, ok := b.At(pos)
			if !ok || cell.Ring {
				break
			}
			if cell.IsEmpty() {
				if len(flipped) > 0 {
					moves = append(moves, Move{To: pos, Flipped: flipped})
				}
				break
			}
			flipped = append(flipped, pos)
		}
	}
	return moves
}

// FindMove returns the cached move ending at to.
func FindMove(moves []Move, to Coord) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
