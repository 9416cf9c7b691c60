// Package render draws a board as coloured text for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/fatih/color"
)

// Theme holds the colours used for each kind of cell.
type Theme struct {
	Red        *color.Color
	White      *color.Color
	DarkSquare *color.Color
	Highlight  *color.Color
	Label      *color.Color
}

// DefaultTheme is the theme Board uses.
var DefaultTheme = Theme{
	Red:        color.New(color.FgHiRed, color.Bold),
	White:      color.New(color.FgHiWhite, color.Bold),
	DarkSquare: color.New(color.FgHiBlack),
	Highlight:  color.New(color.FgHiBlue, color.Bold),
	Label:      color.New(color.FgYellow),
}

// Board writes b to w with row and column labels. Squares listed in
// highlights are marked with '*'.
func Board(w io.Writer, b *model.Board, highlights []model.Position) error {
	return DefaultTheme.Board(w, b, highlights)
}

func (t Theme) Board(w io.Writer, b *model.Board, highlights []model.Position) error {
	marked := make(map[model.Position]bool, len(highlights))
	for _, pos := range highlights {
		marked[pos] = true
	}

	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < model.Cols; col++ {
		sb.WriteString(t.Label.Sprintf(" %d", col))
	}
	sb.WriteByte('\n')

	for row := 0; row < model.Rows; row++ {
		sb.WriteString(t.Label.Sprintf("%d ", row))
		for col := 0; col < model.Cols; col++ {
			sb.WriteByte(' ')
			sb.WriteString(t.cell(b.Piece(row, col), row, col, marked[model.Position{Row: row, Col: col}]))
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Summary is a one-line account of the material on b.
func Summary(b *model.Board) string {
	return fmt.Sprintf("red %d (%d kings)  white %d (%d kings)  eval %+.1f",
		b.Remaining(model.Red), b.Kings(model.Red),
		b.Remaining(model.White), b.Kings(model.White),
		b.Evaluate())
}

func (t Theme) cell(p *model.Piece, row, col int, marked bool) string {
	switch {
	case p != nil && p.Color == model.Red:
		return t.Red.Sprint(glyph(p, "r"))
	case p != nil:
		return t.White.Sprint(glyph(p, "w"))
	case marked:
		return t.Highlight.Sprint("*")
	case col%2 == (row+1)%2:
		return t.DarkSquare.Sprint(".")
	default:
		return " "
	}
}

func glyph(p *model.Piece, man string) string {
	if p.IsKing {
		return strings.ToUpper(man)
	}
	return man
}
