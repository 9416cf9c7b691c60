package model

import "errors"

// Sentinel errors returned by game sessions. Check them with errors.Is.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrForbidden    = errors.New("player is not allowed to act in this game")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("square out of bounds")
	ErrGameOver     = errors.New("game is over")
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrInvalidMode  = errors.New("invalid game mode")
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidDepth = errors.New("invalid search depth")
)
