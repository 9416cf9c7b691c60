package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/logging"
	"github.com/benbeisheim/checkers-backend/internal/minimax"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/render"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	depthFlag := &cli.IntFlag{
		Name:    "depth",
		Aliases: []string{"d"},
		Usage:   "search depth in plies",
		Value:   cfg.SearchDepth,
	}

	app := &cli.App{
		Name:  "checkers",
		Usage: "Play draughts against a minimax engine",
		Action: func(*cli.Context) error {
			fmt.Println("--help for more information.")
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play against the engine; enter squares as \"row col\"",
				Flags: []cli.Flag{
					depthFlag,
					&cli.StringFlag{
						Name:  "color",
						Usage: "your color, red or white (red moves first)",
						Value: "red",
					},
				},
				Action: func(cCtx *cli.Context) error {
					human, err := model.ParseColor(cCtx.String("color"))
					if err != nil {
						return err
					}
					engine := minimax.NewEngine(minimax.WithDepth(cCtx.Int("depth")), minimax.WithWorkers(cfg.SearchWorkers))
					return play(os.Stdin, os.Stdout, engine, human)
				},
			},
			{
				Name:  "selfplay",
				Usage: "let the engine play both sides",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "red-depth", Value: cfg.SearchDepth, Usage: "search depth for red"},
					&cli.IntFlag{Name: "white-depth", Value: cfg.SearchDepth, Usage: "search depth for white"},
					&cli.IntFlag{Name: "max-plies", Value: 200, Usage: "stop after this many plies"},
				},
				Action: func(cCtx *cli.Context) error {
					engines := [2]*minimax.Engine{
						model.Red:   minimax.NewEngine(minimax.WithDepth(cCtx.Int("red-depth")), minimax.WithWorkers(cfg.SearchWorkers)),
						model.White: minimax.NewEngine(minimax.WithDepth(cCtx.Int("white-depth")), minimax.WithWorkers(cfg.SearchWorkers)),
					}
					return selfPlay(os.Stdout, engines, cCtx.Int("max-plies"))
				},
			},
			{
				Name:  "moves",
				Usage: "list the legal moves of the side to move in the starting position",
				Action: func(cCtx *cli.Context) error {
					return listMoves(os.Stdout, model.NewGameState())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("checkers failed")
	}
}

func play(in io.Reader, out io.Writer, engine *minimax.Engine, human model.Color) error {
	state := model.NewGameState()
	name := petname.Generate(2, "-")
	fmt.Fprintf(out, "You play %s against %s (depth %d).\n", human, name, engine.Depth())

	scanner := bufio.NewScanner(in)
	for {
		if winner, ok := state.Winner(); ok {
			if err := render.Board(out, state.Board(), nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s wins.\n", winner)
			return nil
		}
		if !state.Board().HasLegalMove(state.Turn()) {
			if err := render.Board(out, state.Board(), nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s has no legal move. Game stopped.\n", state.Turn())
			return nil
		}

		if state.Turn() != human {
			next, err := engine.Move(state.Board(), state.Turn())
			if err != nil {
				return err
			}
			state.ApplyAIResult(next)
			fmt.Fprintf(out, "%s moved.\n", name)
			continue
		}

		if err := render.Board(out, state.Board(), state.ValidMoves().Destinations()); err != nil {
			return err
		}
		fmt.Fprintln(out, render.Summary(state.Board()))
		fmt.Fprintf(out, "%s> ", human)
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" {
			return nil
		}
		var row, col int
		if _, err := fmt.Sscanf(line, "%d %d", &row, &col); err != nil || !model.InBounds(row, col) {
			fmt.Fprintln(out, "enter a square as \"row col\" with values 0-7")
			continue
		}
		state.Select(row, col)
	}
}

func selfPlay(out io.Writer, engines [2]*minimax.Engine, maxPlies int) error {
	board := model.NewBoard()
	turn := model.Red

	for ply := 1; ply <= maxPlies; ply++ {
		if winner, ok := board.Winner(); ok {
			fmt.Fprintf(out, "%s wins after %d plies.\n", winner, ply-1)
			return nil
		}

		res := engines[turn].Best(board, turn)
		if res.Board == nil {
			fmt.Fprintf(out, "%s has no legal move after %d plies.\n", turn, ply-1)
			return nil
		}
		board = res.Board

		fmt.Fprintf(out, "ply %d: %s (score %+.1f, %d nodes, %s)\n", ply, turn, res.Score, res.Nodes, res.Elapsed.Round(time.Millisecond))
		if err := render.Board(out, board, nil); err != nil {
			return err
		}
		fmt.Fprintln(out, render.Summary(board))
		turn = turn.Opponent()
	}

	fmt.Fprintf(out, "stopped after %d plies.\n", maxPlies)
	return nil
}

func listMoves(out io.Writer, state *model.GameState) error {
	board := state.Board()
	for _, p := range board.AllPieces(state.Turn()) {
		moves := board.ValidMoves(p)
		for _, dest := range moves.Destinations() {
			captured, _ := moves.Get(dest)
			fmt.Fprintf(out, "%s -> %s", p.Position(), dest)
			if len(captured) > 0 {
				fmt.Fprintf(out, " captures %d", len(captured))
			}
			fmt.Fprintln(out)
		}
	}
	return render.Board(out, board, nil)
}
