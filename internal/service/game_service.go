package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/minimax"
	"github.com/benbeisheim/checkers-backend/internal/model"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type GameService struct {
	gameManager *GameManager
	engine      *minimax.Engine
	engineName  func() string
}

// CreateGameRequest is the body of a create request. Empty fields take
// defaults: ai mode, red for the human, the engine's own depth.
type CreateGameRequest struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
	Depth int    `json:"depth"`
}

type CreateGameResponse struct {
	GameID   string         `json:"game_id"`
	Color    model.Color    `json:"color"`
	Opponent string         `json:"opponent"`
	State    model.GameView `json:"state"`
}

// SelectResponse carries a click's outcome and the state after any engine
// reply.
type SelectResponse struct {
	model.SelectResult
	State model.GameView `json:"state"`
}

func NewGameService(gameManager *GameManager, engine *minimax.Engine) *GameService {
	return &GameService{
		gameManager: gameManager,
		engine:      engine,
		engineName:  func() string { return petname.Generate(2, "-") },
	}
}

func (gs *GameService) CreateGame(ownerID string, req CreateGameRequest) (CreateGameResponse, error) {
	mode, err := model.ParseGameMode(req.Mode)
	if err != nil {
		return CreateGameResponse{}, fmt.Errorf("mode %q: %w", req.Mode, err)
	}
	color := model.Red
	if req.Color != "" {
		if color, err = model.ParseColor(req.Color); err != nil {
			return CreateGameResponse{}, fmt.Errorf("color %q: %w", req.Color, err)
		}
	}
	if req.Depth < 0 || req.Depth > config.MaxSearchDepth {
		return CreateGameResponse{}, fmt.Errorf("depth %d: %w", req.Depth, model.ErrInvalidDepth)
	}

	opponent := ""
	if mode == model.GameModeAI {
		opponent = gs.engineName()
	}
	game := model.NewGame(uuid.New().String(), ownerID, mode, color, opponent)
	game.Depth = req.Depth

	if err := gs.gameManager.AddGame(game); err != nil {
		return CreateGameResponse{}, fmt.Errorf("failed to create game: %w", err)
	}
	if err := gs.playEngine(game); err != nil {
		return CreateGameResponse{}, err
	}

	return CreateGameResponse{
		GameID:   game.ID,
		Color:    color,
		Opponent: opponent,
		State:    game.GetState(),
	}, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameView, error) {
	return gs.gameManager.GetGameState(gameID)
}

// HandleSelect applies a click and, when it completed a move against the
// engine, lets the engine answer before returning.
func (gs *GameService) HandleSelect(gameID, playerID string, row, col int) (SelectResponse, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return SelectResponse{}, err
	}

	result, err := game.Select(playerID, row, col)
	if err != nil {
		return SelectResponse{}, err
	}
	if result.Moved {
		if err := gs.playEngine(game); err != nil {
			return SelectResponse{}, err
		}
	}

	return SelectResponse{SelectResult: result, State: game.GetState()}, nil
}

func (gs *GameService) Reset(gameID, playerID string) (model.GameView, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameView{}, err
	}
	if err := game.Reset(playerID); err != nil {
		return model.GameView{}, err
	}
	if err := gs.playEngine(game); err != nil {
		return model.GameView{}, err
	}
	return game.GetState(), nil
}

// playEngine moves for the engine if it is its turn. An engine with no legal
// move leaves the game blocked; that is reported in the state, not as an
// error.
func (gs *GameService) playEngine(game *model.Game) error {
	if !game.AwaitingEngine() {
		return nil
	}

	engine := gs.engine
	if game.Depth > 0 {
		engine = engine.AtDepth(game.Depth)
	}
	err := game.PlayAI(engine)
	if errors.Is(err, model.ErrNoLegalMoves) {
		log.Warn().Str("game", game.ID).Msg("engine has no legal move")
		return nil
	}
	return err
}

// HasGame reports whether gameID names a live session.
func (gs *GameService) HasGame(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Connection) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Connection) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
