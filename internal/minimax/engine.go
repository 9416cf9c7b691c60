package minimax

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultDepth = 4

// Engine runs Search for one color at a fixed depth, scoring the root's
// children concurrently. Its choice is always the one Search would make.
type Engine struct {
	depth   int
	workers int
}

// Result is the outcome of one engine search.
type Result struct {
	Score    float64
	Board    *model.Board
	Children int
	Nodes    int64
	Elapsed  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithDepth sets the search depth in plies.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 1 {
			e.depth = depth
		}
	}
}

// WithWorkers bounds how many root children are searched at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		depth:   DefaultDepth,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Depth() int {
	return e.depth
}

// AtDepth returns a copy of e searching to depth.
func (e *Engine) AtDepth(depth int) *Engine {
	cp := *e
	WithDepth(depth)(&cp)
	return &cp
}

// Best searches board for color. board is read concurrently but never
// modified.
func (e *Engine) Best(board *model.Board, color model.Color) Result {
	start := time.Now()
	maximizing := color == model.White
	var nodes atomic.Int64
	nodes.Add(1)

	if _, ok := board.Winner(); ok {
		return Result{Score: board.Evaluate(), Board: board, Nodes: 1, Elapsed: time.Since(start)}
	}

	children := AllMoves(board, color)
	scores := make([]float64, len(children))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, child := range children {
		g.Go(func() error {
			scores[i], _ = search(child, e.depth-1, !maximizing, &nodes)
			return nil
		})
	}
	_ = g.Wait()

	best := worst(maximizing)
	var bestBoard *model.Board
	for i, score := range scores {
		if atLeastAsGood(score, best, maximizing) {
			best, bestBoard = score, children[i]
		}
	}

	res := Result{
		Score:    best,
		Board:    bestBoard,
		Children: len(children),
		Nodes:    nodes.Load(),
		Elapsed:  time.Since(start),
	}
	log.Debug().Stringer("color", color).Int("depth", e.depth).Int("children", res.Children).Int64("nodes", res.Nodes).Dur("took", res.Elapsed).Float64("score", res.Score).Msg("search finished")
	return res
}

// Move returns the board the engine chooses for color.
func (e *Engine) Move(board *model.Board, color model.Color) (*model.Board, error) {
	res := e.Best(board, color)
	if res.Board == nil {
		return nil, fmt.Errorf("%s to move: %w", color, model.ErrNoLegalMoves)
	}
	return res.Board, nil
}
