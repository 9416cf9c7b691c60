package model

import (
	"fmt"
	"strings"
)

const (
	Rows = 8
	Cols = 8

	// PiecesPerSide is the number of men each color starts with.
	PiecesPerSide = 12
)

// Board is the 8x8 grid. It exclusively owns the pieces it holds; use Clone
// to explore a continuation without touching the original.
type Board struct {
	grid  [Rows][Cols]*Piece
	left  [2]int
	kings [2]int
}

// NewBoard returns a board in the standard starting layout: White on the dark
// squares of rows 0-2, Red on the dark squares of rows 5-7.
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if col%2 != (row+1)%2 {
				continue
			}
			switch {
			case row < 3:
				b.grid[row][col] = NewPiece(row, col, White)
			case row > 4:
				b.grid[row][col] = NewPiece(row, col, Red)
			}
		}
	}
	b.left[Red] = PiecesPerSide
	b.left[White] = PiecesPerSide
	return b
}

// NewEmptyBoard returns a board with no pieces. Place adds pieces to it.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Place puts a new piece on an empty square and counts it. It is meant for
// building positions in tools and tests.
func (b *Board) Place(row, col int, color Color, king bool) *Piece {
	mustBeInBounds(row, col)
	if b.grid[row][col] != nil {
		panic(fmt.Sprintf("model: square (%d,%d) is occupied", row, col))
	}
	p := NewPiece(row, col, color)
	p.IsKing = king
	b.grid[row][col] = p
	b.left[color]++
	if king {
		b.kings[color]++
	}
	return p
}

// ParseBoard builds a board from eight rows of eight cells, top row first:
// '.' or ' ' empty, r/R red man/king, w/W white man/king.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) != Rows {
		return nil, fmt.Errorf("parse board: want %d rows, got %d", Rows, len(rows))
	}
	b := NewEmptyBoard()
	for row, line := range rows {
		if len(line) != Cols {
			return nil, fmt.Errorf("parse board: row %d has %d cells, want %d", row, len(line), Cols)
		}
		for col := 0; col < Cols; col++ {
			switch line[col] {
			case '.', ' ':
			case 'r':
				b.Place(row, col, Red, false)
			case 'R':
				b.Place(row, col, Red, true)
			case 'w':
				b.Place(row, col, White, false)
			case 'W':
				b.Place(row, col, White, true)
			default:
				return nil, fmt.Errorf("parse board: unknown cell %q at (%d,%d)", line[col], row, col)
			}
		}
	}
	return b, nil
}

// Piece returns the piece at row, col or nil for an empty square.
func (b *Board) Piece(row, col int) *Piece {
	mustBeInBounds(row, col)
	return b.grid[row][col]
}

// AllPieces returns the pieces of color in row-major order.
func (b *Board) AllPieces(color Color) []*Piece {
	var pieces []*Piece
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if p := b.grid[row][col]; p != nil && p.Color == color {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) Remaining(color Color) int {
	return b.left[color]
}

func (b *Board) Kings(color Color) int {
	return b.kings[color]
}

// Move swaps the piece into row, col and promotes it when it reaches the
// farthest rank. A piece that is already a king is not counted again.
func (b *Board) Move(p *Piece, row, col int) {
	mustBeInBounds(row, col)
	mustBeInBounds(p.Row, p.Col)
	b.grid[p.Row][p.Col], b.grid[row][col] = b.grid[row][col], b.grid[p.Row][p.Col]
	p.moveTo(row, col)

	if row == p.Color.kingRow() && !p.IsKing {
		p.IsKing = true
		b.kings[p.Color]++
	}
}

// Remove clears the cells of the given pieces and decrements their colors'
// remaining counts. Each call decrements, so a piece must not be passed twice.
func (b *Board) Remove(pieces []*Piece) {
	for _, p := range pieces {
		if p == nil {
			continue
		}
		mustBeInBounds(p.Row, p.Col)
		b.grid[p.Row][p.Col] = nil
		b.left[p.Color]--
	}
}

// Evaluate scores the position from White's point of view.
func (b *Board) Evaluate() float64 {
	material := float64(b.left[White] - b.left[Red])
	kings := float64(b.kings[White])*0.5 - float64(b.kings[Red])*0.5
	return material + kings
}

// Winner returns the color whose opponent has no pieces left. A side with
// pieces but no legal move does not lose here.
func (b *Board) Winner() (Color, bool) {
	if b.left[Red] <= 0 {
		return White, true
	}
	if b.left[White] <= 0 {
		return Red, true
	}
	return Red, false
}

// Clone returns a deep copy with independent pieces.
func (b *Board) Clone() *Board {
	cp := &Board{left: b.left, kings: b.kings}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if p := b.grid[row][col]; p != nil {
				cp.grid[row][col] = p.clone()
			}
		}
	}
	return cp
}

// String draws the board with r/R for red men/kings and w/W for white.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			sb.WriteByte(cellRune(b.grid[row][col]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellRune(p *Piece) byte {
	switch {
	case p == nil:
		return '.'
	case p.Color == Red && p.IsKing:
		return 'R'
	case p.Color == Red:
		return 'r'
	case p.IsKing:
		return 'W'
	default:
		return 'w'
	}
}

func mustBeInBounds(row, col int) {
	if !InBounds(row, col) {
		panic(fmt.Sprintf("model: square (%d,%d) out of bounds", row, col))
	}
}
