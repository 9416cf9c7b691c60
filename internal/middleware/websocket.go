package middleware

import (
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// WebSocketUpgrade admits a websocket handshake only from a caller with a
// player ID and only for a game that gameExists knows about. Anything else is
// answered over plain HTTP before the upgrade.
func WebSocketUpgrade(gameExists func(gameID string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Set by EnsurePlayerID
		if c.Locals("playerID") == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		gameID := c.Params("gameId")
		if gameID == "" || !gameExists(gameID) {
			log.Debug().Str("game", gameID).Msg("websocket for unknown game")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.ErrGameNotFound.Error(),
			})
		}

		return c.Next()
	}
}
