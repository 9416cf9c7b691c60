package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// Mover produces the engine's next board for color.
type Mover interface {
	Move(board *Board, color Color) (*Board, error)
}

// Connection is the subset of a websocket connection a game writes to.
type Connection interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Connection // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Connection),
	}
}

// SyncConn serialises writes to a Connection. Websocket connections allow a
// single writer, and a game's broadcasts share the socket with error replies.
type SyncConn struct {
	mu   sync.Mutex
	conn Connection
}

func NewSyncConn(conn Connection) *SyncConn {
	return &SyncConn{conn: conn}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SyncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// outbox queues state views so they go out in the order they were taken,
// drained by at most one goroutine at a time.
type outbox struct {
	mu       sync.Mutex
	pending  []GameView
	draining bool
}

// Game is one session: a GameState, who may act on it, and its observers.
type Game struct {
	ID         string
	Mode       GameMode
	OwnerID    string
	HumanColor Color
	EngineName string
	// Depth is the engine's search depth; zero means the service default.
	Depth int

	mu          sync.Mutex
	state       *GameState
	connections *GameConnections
	outbox      outbox
	clocks      [2]*Clock
}

// SelectResult describes the outcome of a click.
type SelectResult struct {
	Selected bool `json:"selected"`
	Moved    bool `json:"moved"`
}

func NewGame(id, ownerID string, mode GameMode, humanColor Color, engineName string) *Game {
	g := &Game{
		ID:          id,
		Mode:        mode,
		OwnerID:     ownerID,
		HumanColor:  humanColor,
		EngineName:  engineName,
		state:       NewGameState(),
		connections: NewGameConnections(),
		clocks:      [2]*Clock{NewClock(), NewClock()},
	}
	g.clocks[Red].Start()
	return g
}

// Select forwards a click from playerID to the game state.
func (g *Game) Select(playerID string, row, col int) (SelectResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.OwnerID {
		return SelectResult{}, ErrForbidden
	}
	if !InBounds(row, col) {
		return SelectResult{}, fmt.Errorf("select (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	if _, over := g.state.Winner(); over {
		return SelectResult{}, ErrGameOver
	}
	if g.engineToMove() {
		return SelectResult{}, ErrNotYourTurn
	}

	mover := g.state.Turn()
	selected := g.state.Select(row, col)
	result := SelectResult{Selected: selected, Moved: g.state.Turn() != mover}
	if result.Moved {
		g.handOver(mover)
		log.Debug().Str("game", g.ID).Stringer("color", mover).Int("row", row).Int("col", col).Msg("move played")
	}

	g.publish(g.view())
	return result, nil
}

// AwaitingEngine reports whether the engine should move next.
func (g *Game) AwaitingEngine() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, over := g.state.Winner()
	return !over && g.engineToMove()
}

// PlayAI lets the engine move for its color and hands the turn over.
func (g *Game) PlayAI(m Mover) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, over := g.state.Winner(); over {
		return ErrGameOver
	}
	if !g.engineToMove() {
		return ErrNotYourTurn
	}

	color := g.state.Turn()
	start := time.Now()
	next, err := m.Move(g.state.Board(), color)
	if err != nil {
		return fmt.Errorf("engine move for %s: %w", color, err)
	}
	g.state.ApplyAIResult(next)
	g.handOver(color)
	log.Info().Str("game", g.ID).Stringer("color", color).Dur("took", time.Since(start)).Float64("eval", next.Evaluate()).Msg("engine moved")

	g.publish(g.view())
	return nil
}

// Reset restarts the session from the starting layout.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.OwnerID {
		return ErrForbidden
	}
	g.state.Reset()
	for _, c := range g.clocks {
		c.Reset()
	}
	g.clocks[Red].Start()

	g.publish(g.view())
	return nil
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Board().Clone()
}

func (g *Game) Turn() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Turn()
}

func (g *Game) GetState() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	return playerID != "" && playerID == g.OwnerID
}

func (g *Game) engineToMove() bool {
	return g.Mode == GameModeAI && g.state.Turn() != g.HumanColor
}

// handOver moves the running clock from the side that just moved to the
// side to move, or stops both once the game is decided.
func (g *Game) handOver(from Color) {
	g.clocks[from].Stop()
	if _, over := g.state.Winner(); over {
		return
	}
	g.clocks[g.state.Turn()].Start()
}

func (g *Game) view() GameView {
	v := GameView{
		ID:         g.ID,
		Mode:       g.Mode,
		Board:      g.state.Board().View(),
		Turn:       g.state.Turn(),
		Highlights: g.state.ValidMoves().Destinations(),
		Evaluation: g.state.Board().Evaluate(),
		Blocked:    !g.state.Board().HasLegalMove(g.state.Turn()),
	}
	if p := g.state.Selected(); p != nil {
		pos := p.Position()
		v.Selected = &pos
	}
	if winner, ok := g.state.Winner(); ok {
		v.Winner = &winner
	}
	v.Players.Red = g.clientPlayer(Red)
	v.Players.White = g.clientPlayer(White)
	return v
}

func (g *Game) clientPlayer(color Color) ClientPlayer {
	p := ClientPlayer{
		ID:        g.OwnerID,
		Color:     color,
		ThinkTime: int(g.clocks[color].Spent().Milliseconds() / 100),
	}
	if g.Mode == GameModeAI && color != g.HumanColor {
		p.ID = g.EngineName
		p.IsEngine = true
	}
	return p
}

// RegisterConnection adds a websocket for the owner or a spectator. A second
// connection for the same player is closed and the first one kept.
func (g *Game) RegisterConnection(playerID string, conn Connection) error {
	connID := fmt.Sprintf("%p", conn)

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debug().Str("game", g.ID).Str("player", playerID).Str("conn", connID).Bool("spectator", !g.IsPlayerInGame(playerID)).Msg("registered connection")

	g.mu.Lock()
	g.publish(g.view())
	g.mu.Unlock()
	return nil
}

// UnregisterConnection drops playerID's connection if conn is still the one
// registered.
func (g *Game) UnregisterConnection(playerID string, conn Connection) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debug().Str("game", g.ID).Str("player", playerID).Msg("unregistered connection")
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// publish queues view for broadcast. Callers hold g.mu, so views are queued
// in the order the state changed.
func (g *Game) publish(view GameView) {
	g.outbox.mu.Lock()
	g.outbox.pending = append(g.outbox.pending, view)
	if g.outbox.draining {
		g.outbox.mu.Unlock()
		return
	}
	g.outbox.draining = true
	g.outbox.mu.Unlock()

	go g.drain()
}

func (g *Game) drain() {
	for {
		g.outbox.mu.Lock()
		if len(g.outbox.pending) == 0 {
			g.outbox.draining = false
			g.outbox.mu.Unlock()
			return
		}
		view := g.outbox.pending[0]
		g.outbox.pending = g.outbox.pending[1:]
		g.outbox.mu.Unlock()

		g.broadcastState(view)
	}
}

// broadcastState sends view to every connection and drops the ones that fail.
func (g *Game) broadcastState(view GameView) {
	payload, err := json.Marshal(view)
	if err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("failed to marshal state")
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]Connection, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warn().Err(err).Str("game", g.ID).Str("player", playerID).Msg("failed to send state")
			g.UnregisterConnection(playerID, conn)
		}
	}
}
