package model

// ValidMoves returns every destination reachable by p, each with the pieces
// captured on the way. Men scan toward the opponent only, kings scan both
// ways. Jumps chain into further jumps in the same vertical direction.
func (b *Board) ValidMoves(p *Piece) *Moves {
	moves := NewMoves()
	left := p.Col - 1
	right := p.Col + 1

	for _, step := range [...]int{-1, 1} {
		if !p.IsKing && step != p.Color.forward() {
			continue
		}
		stop := rowBound(p.Row, step)
		moves.Merge(b.traverseLeft(p.Row+step, stop, step, p.Color, left, nil))
		moves.Merge(b.traverseRight(p.Row+step, stop, step, p.Color, right, nil))
	}
	return moves
}

// HasLegalMove reports whether any piece of color can move.
func (b *Board) HasLegalMove(color Color) bool {
	for _, p := range b.AllPieces(color) {
		if b.ValidMoves(p).Len() > 0 {
			return true
		}
	}
	return false
}

func (b *Board) traverseLeft(start, stop, step int, color Color, left int, skipped []*Piece) *Moves {
	return b.traverse(start, stop, step, color, left, -1, skipped)
}

func (b *Board) traverseRight(start, stop, step int, color Color, right int, skipped []*Piece) *Moves {
	return b.traverse(start, stop, step, color, right, 1, skipped)
}

// traverse walks one diagonal leg from (start, col). skipped holds the
// pieces already jumped earlier in the chain; it is never modified.
func (b *Board) traverse(start, stop, step int, color Color, col, colStep int, skipped []*Piece) *Moves {
	moves := NewMoves()
	var last *Piece

	for r := start; before(r, stop, step); r += step {
		if col < 0 || col >= Cols {
			break
		}

		current := b.grid[r][col]
		if current == nil {
			if len(skipped) > 0 && last == nil {
				break
			}
			captured := chain(skipped, last)
			moves.Set(Position{Row: r, Col: col}, captured)

			if last != nil {
				next := rowBound(r, step)
				moves.Merge(b.traverseLeft(r+step, next, step, color, col-1, captured))
				moves.Merge(b.traverseRight(r+step, next, step, color, col+1, captured))
			}
			break
		}
		if current.Color == color {
			break
		}
		if last != nil {
			// two enemies in a row cannot be jumped
			break
		}
		last = current
		col += colStep
	}

	return moves
}

// chain returns a fresh slice of skipped followed by last, if any.
func chain(skipped []*Piece, last *Piece) []*Piece {
	out := make([]*Piece, 0, len(skipped)+1)
	out = append(out, skipped...)
	if last != nil {
		out = append(out, last)
	}
	return out
}

// rowBound is the exclusive row limit for a leg starting next to row: two
// rows away, clamped to just past the board edge. Upward legs clamp at -1,
// not 0, so a red chain can still land on row 0 and be crowned.
func rowBound(row, step int) int {
	if step < 0 {
		return max(row-3, -1)
	}
	return min(row+3, Rows)
}

func before(r, stop, step int) bool {
	if step < 0 {
		return r > stop
	}
	return r < stop
}
