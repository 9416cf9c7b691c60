package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	s := NewGameState()

	require.Equal(t, Red, s.Turn())
	require.Nil(t, s.Selected())
	require.Zero(t, s.ValidMoves().Len())
	require.Equal(t, NewBoard().String(), s.Board().String())
	_, over := s.Winner()
	require.False(t, over)
}

func TestSelectOpponentPiece(t *testing.T) {
	s := NewGameState()

	require.False(t, s.Select(2, 1))
	require.Nil(t, s.Selected())
	require.False(t, s.Select(3, 0))
	require.Nil(t, s.Selected())
}

func TestSelectThenMove(t *testing.T) {
	s := NewGameState()

	require.True(t, s.Select(5, 2))
	require.Equal(t, pos(5, 2), s.Selected().Position())
	require.Equal(t, []Position{pos(4, 1), pos(4, 3)}, s.ValidMoves().Destinations())

	// a completed move leaves nothing selected
	require.False(t, s.Select(4, 3))
	require.Equal(t, White, s.Turn())
	require.Nil(t, s.Selected())
	require.Zero(t, s.ValidMoves().Len())
	require.Nil(t, s.Board().Piece(5, 2))
	require.Equal(t, Red, s.Board().Piece(4, 3).Color)
	require.Equal(t, PiecesPerSide, s.Board().Remaining(Red))
	require.Equal(t, PiecesPerSide, s.Board().Remaining(White))

	require.True(t, s.Select(2, 3))
	require.False(t, s.Select(3, 4))
	require.Equal(t, Red, s.Turn())
}

func TestSelectInvalidDestinationDropsSelection(t *testing.T) {
	s := NewGameState()

	require.True(t, s.Select(5, 2))
	require.False(t, s.Select(3, 3))
	require.Nil(t, s.Selected())
	require.Zero(t, s.ValidMoves().Len())
	require.Equal(t, Red, s.Turn())
	require.Equal(t, NewBoard().String(), s.Board().String())
}

func TestSelectSwitchesPiece(t *testing.T) {
	s := NewGameState()

	require.True(t, s.Select(5, 2))
	require.True(t, s.Select(5, 4))
	require.Equal(t, pos(5, 4), s.Selected().Position())
	require.Equal(t, []Position{pos(4, 3), pos(4, 5)}, s.ValidMoves().Destinations())

	// clicking the selected piece again keeps it selected
	require.True(t, s.Select(5, 4))
	require.Equal(t, pos(5, 4), s.Selected().Position())
	require.Equal(t, Red, s.Turn())
}

func TestSelectCapture(t *testing.T) {
	b := mustParse(t,
		".w......",
		"........",
		"...w....",
		"........",
		".w......",
		"r.......",
		"........",
		"........",
	)
	s := NewGameStateFrom(b, Red)

	require.True(t, s.Select(5, 0))
	require.True(t, s.ValidMoves().HasCapture())
	require.False(t, s.Select(1, 4))

	require.Equal(t, White, s.Turn())
	require.Nil(t, s.Board().Piece(4, 1))
	require.Nil(t, s.Board().Piece(2, 3))
	require.Equal(t, Red, s.Board().Piece(1, 4).Color)
	require.Equal(t, 1, s.Board().Remaining(White))
	require.Equal(t, 1, s.Board().Remaining(Red))
	_, over := s.Winner()
	require.False(t, over)
}

func TestSelectCaptureWinsGame(t *testing.T) {
	b := mustParse(t,
		"........",
		"........",
		"........",
		"........",
		"...w....",
		"..r.....",
		"........",
		"........",
	)
	s := NewGameStateFrom(b, Red)

	require.True(t, s.Select(5, 2))
	s.Select(3, 4)

	winner, over := s.Winner()
	require.True(t, over)
	require.Equal(t, Red, winner)
}

func TestSelectPromotes(t *testing.T) {
	b := mustParse(t,
		"........",
		"..r.....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"w.......",
	)
	s := NewGameStateFrom(b, Red)

	require.True(t, s.Select(1, 2))
	s.Select(0, 1)
	require.True(t, s.Board().Piece(0, 1).IsKing)
	require.Equal(t, 1, s.Board().Kings(Red))
	require.Equal(t, -0.5, s.Board().Evaluate())
}

func TestApplyAIResult(t *testing.T) {
	s := NewGameState()
	require.True(t, s.Select(5, 2))

	next := s.Board().Clone()
	next.Move(next.Piece(5, 0), 4, 1)
	s.ApplyAIResult(next)

	require.Same(t, next, s.Board())
	require.Equal(t, White, s.Turn())
	require.Nil(t, s.Selected())
	require.Zero(t, s.ValidMoves().Len())
}

func TestReset(t *testing.T) {
	s := NewGameState()
	require.True(t, s.Select(5, 2))
	s.Select(4, 3)

	s.Reset()
	require.Equal(t, Red, s.Turn())
	require.Nil(t, s.Selected())
	require.Equal(t, NewBoard().String(), s.Board().String())
}
