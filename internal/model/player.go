package model

import "encoding/json"

// Color identifies one of the two sides. White starts on rows 0-2 and is the
// maximizing side, Red starts on rows 5-7 and moves first.
type Color int

const (
	Red Color = iota
	White
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "red"
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Red
	}
	return White
}

// forward is the row step a non-king piece of this color moves along.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// kingRow is the farthest rank from this color's starting side.
func (c Color) kingRow() int {
	if c == White {
		return Rows - 1
	}
	return 0
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParseColor accepts "red" or "white".
func ParseColor(s string) (Color, error) {
	switch s {
	case "red":
		return Red, nil
	case "white":
		return White, nil
	}
	return Red, ErrInvalidColor
}

type GameMode string

const (
	GameModeAI    GameMode = "ai"
	GameModeLocal GameMode = "local"
)

func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case GameModeAI, GameModeLocal:
		return GameMode(s), nil
	case "":
		return GameModeAI, nil
	}
	return "", ErrInvalidMode
}

type ClientPlayer struct {
	ID        string `json:"name"`
	Color     Color  `json:"color"`
	IsEngine  bool   `json:"isEngine"`
	ThinkTime int    `json:"thinkTime"`
}
