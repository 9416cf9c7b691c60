package model

// SquareSize is the cell size, in pixels, the reference frontend draws with.
const SquareSize = 75

type PieceView struct {
	Color Color `json:"color"`
	King  bool  `json:"king"`
	X     int   `json:"x"`
	Y     int   `json:"y"`
}

type BoardView struct {
	Cells      [Rows][Cols]*PieceView `json:"cells"`
	RedLeft    int                    `json:"redLeft"`
	WhiteLeft  int                    `json:"whiteLeft"`
	RedKings   int                    `json:"redKings"`
	WhiteKings int                    `json:"whiteKings"`
}

// GameView is the JSON state sent to clients.
type GameView struct {
	ID         string     `json:"id"`
	Mode       GameMode   `json:"mode"`
	Board      BoardView  `json:"board"`
	Turn       Color      `json:"turn"`
	Selected   *Position  `json:"selected"`
	Highlights []Position `json:"highlights"`
	Winner     *Color     `json:"winner"`
	// Blocked is set when the side to move has no legal move. It is not a
	// win for either side.
	Blocked    bool    `json:"blocked"`
	Evaluation float64 `json:"evaluation"`
	Players    struct {
		Red   ClientPlayer `json:"red"`
		White ClientPlayer `json:"white"`
	} `json:"players"`
}

// View builds the JSON form of the board.
func (b *Board) View() BoardView {
	v := BoardView{
		RedLeft:    b.left[Red],
		WhiteLeft:  b.left[White],
		RedKings:   b.kings[Red],
		WhiteKings: b.kings[White],
	}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			p := b.grid[row][col]
			if p == nil {
				continue
			}
			x, y := p.Center(SquareSize)
			v.Cells[row][col] = &PieceView{Color: p.Color, King: p.IsKing, X: x, Y: y}
		}
	}
	return v
}
