package controller

import (
	"errors"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type selectRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	res, err := gc.gameService.CreateGame(playerID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Game created",
		"game_id":  res.GameID,
		"color":    res.Color,
		"opponent": res.Opponent,
		"state":    res.State,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var req selectRequest
	if err := c.BodyParser(&req); err != nil || req.Row == nil || req.Col == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col are required",
		})
	}

	res, err := gc.gameService.HandleSelect(gameID, playerID, *req.Row, *req.Col)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	state, err := gc.gameService.Reset(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

// errorResponse maps service errors onto HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, model.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, model.ErrOutOfBounds),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrInvalidColor),
		errors.Is(err, model.ErrInvalidDepth):
		status = fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNoLegalMoves):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
