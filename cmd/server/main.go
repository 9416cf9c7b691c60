package main

import (
	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/logging"
	"github.com/benbeisheim/checkers-backend/internal/minimax"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	// Initialize services
	engine := minimax.NewEngine(
		minimax.WithDepth(cfg.SearchDepth),
		minimax.WithWorkers(cfg.SearchWorkers),
	)
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager, engine)

	app := controller.NewApp(gameService, cfg.AllowedOrigins)

	log.Info().Str("addr", cfg.Addr()).Int("depth", cfg.SearchDepth).Int("workers", cfg.SearchWorkers).Msg("starting checkers server")
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
