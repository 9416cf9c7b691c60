package model

import "fmt"

// Piece is a single checker. Its coordinates are kept in sync with the cell
// that holds it by Board.Move.
type Piece struct {
	Row    int
	Col    int
	Color  Color
	IsKing bool
}

func NewPiece(row, col int, color Color) *Piece {
	return &Piece{Row: row, Col: col, Color: color}
}

func (p *Piece) Position() Position {
	return Position{Row: p.Row, Col: p.Col}
}

// Center is the pixel centre of the piece on a board drawn with square cells
// of the given size. Only renderers use it.
func (p *Piece) Center(squareSize int) (x, y int) {
	return squareSize*p.Col + squareSize/2, squareSize*p.Row + squareSize/2
}

func (p *Piece) moveTo(row, col int) {
	p.Row = row
	p.Col = col
}

func (p *Piece) clone() *Piece {
	cp := *p
	return &cp
}

func (p *Piece) String() string {
	if p.IsKing {
		return fmt.Sprintf("%s king at %s", p.Color, p.Position())
	}
	return fmt.Sprintf("%s at %s", p.Color, p.Position())
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// InBounds reports whether row and col address a square on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}
