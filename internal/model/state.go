package model

// GameState tracks whose turn it is and the piece the player to move has
// selected, together with that piece's valid moves.
type GameState struct {
	board      *Board
	turn       Color
	selected   *Piece
	validMoves *Moves
}

func NewGameState() *GameState {
	s := &GameState{}
	s.Reset()
	return s
}

// NewGameStateFrom starts from board with turn to move.
func NewGameStateFrom(board *Board, turn Color) *GameState {
	return &GameState{board: board, turn: turn, validMoves: NewMoves()}
}

// Reset starts a new game from the standard layout with Red to move.
func (s *GameState) Reset() {
	s.board = NewBoard()
	s.turn = Red
	s.selected = nil
	s.validMoves = NewMoves()
}

func (s *GameState) Board() *Board {
	return s.board
}

func (s *GameState) Turn() Color {
	return s.turn
}

// Selected returns the selected piece or nil.
func (s *GameState) Selected() *Piece {
	return s.selected
}

// ValidMoves returns the move mapping of the current selection. It is empty
// when nothing is selected.
func (s *GameState) ValidMoves() *Moves {
	return s.validMoves
}

func (s *GameState) Winner() (Color, bool) {
	return s.board.Winner()
}

// Select handles a click on row, col. With a piece already selected it first
// tries to move there; if that fails the selection is dropped. It then
// selects the piece on row, col if it belongs to the side to move, and
// reports whether a piece is selected as a result of this call.
func (s *GameState) Select(row, col int) bool {
	if s.selected != nil {
		if !s.attemptMove(row, col) {
			s.clearSelection()
		}
	}

	p := s.board.Piece(row, col)
	if p != nil && p.Color == s.turn {
		s.selected = p
		s.validMoves = s.board.ValidMoves(p)
		return true
	}
	return false
}

// attemptMove moves the selected piece to row, col when that square is empty
// and listed in the valid moves. The state is untouched on failure.
func (s *GameState) attemptMove(row, col int) bool {
	if s.selected == nil || s.board.Piece(row, col) != nil {
		return false
	}
	dest := Position{Row: row, Col: col}
	captured, ok := s.validMoves.Get(dest)
	if !ok {
		return false
	}

	s.board.Move(s.selected, row, col)
	if len(captured) > 0 {
		s.board.Remove(captured)
	}
	s.changeTurn()
	return true
}

// ApplyAIResult replaces the board with one produced by the search and hands
// the turn over.
func (s *GameState) ApplyAIResult(board *Board) {
	s.board = board
	s.changeTurn()
}

func (s *GameState) changeTurn() {
	s.clearSelection()
	s.turn = s.turn.Opponent()
}

func (s *GameState) clearSelection() {
	s.selected = nil
	s.validMoves = NewMoves()
}
