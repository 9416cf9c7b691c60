// Package minimax picks moves for the engine with a plain fixed-depth
// minimax over cloned boards. There is no pruning: every node down to the
// requested depth is visited.
package minimax

import (
	"math"
	"sync/atomic"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// Search evaluates position to depth plies. White maximizes, Red minimizes.
// It returns the best score and the child board that achieves it. When
// several children tie, the last one enumerated wins. A side with no legal
// move scores -Inf (maximizer) or +Inf (minimizer) and yields a nil board.
func Search(position *model.Board, depth int, maximizing bool) (float64, *model.Board) {
	return search(position, depth, maximizing, nil)
}

func search(position *model.Board, depth int, maximizing bool, nodes *atomic.Int64) (float64, *model.Board) {
	if nodes != nil {
		nodes.Add(1)
	}
	if depth == 0 {
		return position.Evaluate(), position
	}
	if _, ok := position.Winner(); ok {
		return position.Evaluate(), position
	}

	best := worst(maximizing)
	var bestBoard *model.Board
	for _, child := range AllMoves(position, sideToMove(maximizing)) {
		eval, _ := search(child, depth-1, !maximizing, nodes)
		if atLeastAsGood(eval, best, maximizing) {
			best, bestBoard = eval, child
		}
	}
	return best, bestBoard
}

// AllMoves returns one cloned board per legal move of color. Pieces are taken
// in row-major order and destinations in move-mapping order.
func AllMoves(board *model.Board, color model.Color) []*model.Board {
	var boards []*model.Board
	for _, piece := range board.AllPieces(color) {
		moves := board.ValidMoves(piece)
		for _, dest := range moves.Destinations() {
			captured, _ := moves.Get(dest)
			boards = append(boards, SimulateMove(board, piece, dest, captured))
		}
	}
	return boards
}

// SimulateMove plays piece to dest on a clone of board and removes the
// captured pieces. The pieces are looked up on the clone by square, so board
// itself is never touched.
func SimulateMove(board *model.Board, piece *model.Piece, dest model.Position, captured []*model.Piece) *model.Board {
	next := board.Clone()
	var skip []*model.Piece
	for _, c := range captured {
		skip = append(skip, next.Piece(c.Row, c.Col))
	}

	next.Move(next.Piece(piece.Row, piece.Col), dest.Row, dest.Col)
	if len(skip) > 0 {
		next.Remove(skip)
	}
	return next
}

func sideToMove(maximizing bool) model.Color {
	if maximizing {
		return model.White
	}
	return model.Red
}

func worst(maximizing bool) float64 {
	if maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// atLeastAsGood lets an equal score replace the current best, which makes
// the last tied child the one returned.
func atLeastAsGood(eval, best float64, maximizing bool) bool {
	if maximizing {
		return eval >= best
	}
	return eval <= best
}
