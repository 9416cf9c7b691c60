package model

// Moves maps a destination square to the pieces captured on the way there.
// Iteration follows insertion order; overwriting a destination keeps its
// original slot.
type Moves struct {
	order    []Position
	captures map[Position][]*Piece
}

func NewMoves() *Moves {
	return &Moves{captures: make(map[Position][]*Piece)}
}

// Set records dest with its capture list.
func (m *Moves) Set(dest Position, captured []*Piece) {
	if _, ok := m.captures[dest]; !ok {
		m.order = append(m.order, dest)
	}
	m.captures[dest] = captured
}

// Merge copies every entry of other into m; entries of other win.
func (m *Moves) Merge(other *Moves) {
	for _, dest := range other.order {
		m.Set(dest, other.captures[dest])
	}
}

func (m *Moves) Get(dest Position) ([]*Piece, bool) {
	captured, ok := m.captures[dest]
	return captured, ok
}

func (m *Moves) Has(dest Position) bool {
	_, ok := m.captures[dest]
	return ok
}

// Destinations returns the destinations in insertion order.
func (m *Moves) Destinations() []Position {
	out := make([]Position, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Moves) Len() int {
	return len(m.order)
}

// HasCapture reports whether any destination requires a jump.
func (m *Moves) HasCapture() bool {
	for _, dest := range m.order {
		if len(m.captures[dest]) > 0 {
			return true
		}
	}
	return false
}
