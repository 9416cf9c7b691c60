package model

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/stretchr/testify/require"
)

const owner = "player-1"

type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	controls int
	closed   bool
	fail     bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(ws.Message))
	return nil
}

func (c *fakeConn) WriteMessage(int, []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls++
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// turns decodes the side to move from every state message received so far.
func (c *fakeConn) turns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, m := range c.messages {
		if m.Type != ws.MessageTypeGameState {
			continue
		}
		var v struct {
			Turn string `json:"turn"`
		}
		if json.Unmarshal(m.Payload, &v) == nil {
			out = append(out, v.Turn)
		}
	}
	return out
}

// slowConn records like fakeConn but holds each write open for a moment and
// counts writes that started while another was still running.
type slowConn struct {
	fakeConn
	inFlight atomic.Int32
	overlaps atomic.Int32
}

func (c *slowConn) WriteJSON(v interface{}) error {
	if c.inFlight.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	defer c.inFlight.Add(-1)
	time.Sleep(2 * time.Millisecond)
	return c.fakeConn.WriteJSON(v)
}

// scriptedMover plays the first legal move it finds for color.
type scriptedMover struct {
	err   error
	calls int
}

func (m *scriptedMover) Move(board *Board, color Color) (*Board, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range board.AllPieces(color) {
		moves := board.ValidMoves(p)
		if moves.Len() == 0 {
			continue
		}
		next := board.Clone()
		dest := moves.Destinations()[0]
		next.Move(next.Piece(p.Row, p.Col), dest.Row, dest.Col)
		return next, nil
	}
	return nil, ErrNoLegalMoves
}

func newAIGame(human Color) *Game {
	return NewGame("game-1", owner, GameModeAI, human, "brave-otter")
}

func TestNewGameView(t *testing.T) {
	g := newAIGame(Red)
	v := g.GetState()

	require.Equal(t, "game-1", v.ID)
	require.Equal(t, GameModeAI, v.Mode)
	require.Equal(t, Red, v.Turn)
	require.Nil(t, v.Selected)
	require.Nil(t, v.Winner)
	require.False(t, v.Blocked)
	require.Empty(t, v.Highlights)
	require.Equal(t, owner, v.Players.Red.ID)
	require.False(t, v.Players.Red.IsEngine)
	require.Equal(t, "brave-otter", v.Players.White.ID)
	require.True(t, v.Players.White.IsEngine)
	require.False(t, g.AwaitingEngine())
	require.True(t, g.IsPlayerInGame(owner))
	require.False(t, g.IsPlayerInGame("someone-else"))
	require.False(t, g.IsPlayerInGame(""))
}

func TestGameSelectRejects(t *testing.T) {
	g := newAIGame(Red)

	_, err := g.Select("someone-else", 5, 2)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = g.Select(owner, 8, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = g.Select(owner, 0, -1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestGameMoveAndEngineReply(t *testing.T) {
	g := newAIGame(Red)

	res, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	require.Equal(t, SelectResult{Selected: true}, res)

	v := g.GetState()
	require.NotNil(t, v.Selected)
	require.Equal(t, Position{Row: 5, Col: 2}, *v.Selected)
	require.Equal(t, []Position{{Row: 4, Col: 1}, {Row: 4, Col: 3}}, v.Highlights)

	res, err = g.Select(owner, 4, 3)
	require.NoError(t, err)
	require.Equal(t, SelectResult{Moved: true}, res)
	require.Equal(t, White, g.Turn())
	require.True(t, g.AwaitingEngine())

	_, err = g.Select(owner, 2, 1)
	require.ErrorIs(t, err, ErrNotYourTurn)

	mover := &scriptedMover{}
	require.NoError(t, g.PlayAI(mover))
	require.Equal(t, 1, mover.calls)
	require.Equal(t, Red, g.Turn())
	require.False(t, g.AwaitingEngine())

	err = g.PlayAI(mover)
	require.ErrorIs(t, err, ErrNotYourTurn)
	require.Equal(t, 1, mover.calls)
}

func TestGameEngineMovesFirst(t *testing.T) {
	g := newAIGame(White)
	require.True(t, g.AwaitingEngine())

	_, err := g.Select(owner, 5, 2)
	require.ErrorIs(t, err, ErrNotYourTurn)

	require.NoError(t, g.PlayAI(&scriptedMover{}))
	require.Equal(t, White, g.Turn())

	v := g.GetState()
	require.True(t, v.Players.Red.IsEngine)
	require.Equal(t, owner, v.Players.White.ID)
}

func TestGamePlayAIError(t *testing.T) {
	g := newAIGame(White)

	err := g.PlayAI(&scriptedMover{err: ErrNoLegalMoves})
	require.ErrorIs(t, err, ErrNoLegalMoves)
	require.Equal(t, Red, g.Turn())
}

func TestLocalGameOwnerPlaysBothSides(t *testing.T) {
	g := NewGame("local-1", owner, GameModeLocal, Red, "")

	_, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	res, err := g.Select(owner, 4, 3)
	require.NoError(t, err)
	require.True(t, res.Moved)
	require.False(t, g.AwaitingEngine())

	res, err = g.Select(owner, 2, 3)
	require.NoError(t, err)
	require.True(t, res.Selected)
	res, err = g.Select(owner, 3, 2)
	require.NoError(t, err)
	require.True(t, res.Moved)
	require.Equal(t, Red, g.Turn())

	v := g.GetState()
	require.False(t, v.Players.Red.IsEngine)
	require.False(t, v.Players.White.IsEngine)
}

func TestGameOver(t *testing.T) {
	g := newAIGame(Red)
	b := mustParse(t,
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"r.......",
	)
	g.state = NewGameStateFrom(b, White)

	v := g.GetState()
	require.NotNil(t, v.Winner)
	require.Equal(t, Red, *v.Winner)
	require.False(t, g.AwaitingEngine())

	_, err := g.Select(owner, 7, 0)
	require.ErrorIs(t, err, ErrGameOver)
	require.ErrorIs(t, g.PlayAI(&scriptedMover{}), ErrGameOver)
}

func TestGameBlockedIsNotAWin(t *testing.T) {
	g := newAIGame(Red)
	b := mustParse(t,
		"........",
		"........",
		"........",
		"........",
		"........",
		"..w.....",
		".w......",
		"r.......",
	)
	g.state = NewGameStateFrom(b, Red)

	v := g.GetState()
	require.True(t, v.Blocked)
	require.Nil(t, v.Winner)
}

func TestGameReset(t *testing.T) {
	g := newAIGame(Red)
	_, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	_, err = g.Select(owner, 4, 3)
	require.NoError(t, err)

	require.ErrorIs(t, g.Reset("someone-else"), ErrForbidden)
	require.Equal(t, White, g.Turn())

	require.NoError(t, g.Reset(owner))
	require.Equal(t, Red, g.Turn())
	require.Equal(t, NewBoard().String(), g.Board().String())
}

func TestGameBoardIsACopy(t *testing.T) {
	g := newAIGame(Red)
	b := g.Board()
	b.Remove([]*Piece{b.Piece(2, 1)})

	require.NotNil(t, g.Board().Piece(2, 1))
	require.Equal(t, PiecesPerSide, g.GetState().Board.WhiteLeft)
}

func TestGameBroadcastsState(t *testing.T) {
	g := newAIGame(Red)
	conn := &fakeConn{}
	spectator := &fakeConn{}

	require.NoError(t, g.RegisterConnection(owner, conn))
	require.NoError(t, g.RegisterConnection("spectator", spectator))
	require.Equal(t, 2, g.ConnectionCount())

	_, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	_, err = g.Select(owner, 4, 3)
	require.NoError(t, err)

	for _, c := range []*fakeConn{conn, spectator} {
		require.Eventually(t, func() bool {
			for _, turn := range c.turns() {
				if turn == "white" {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	}
}

func TestGameBroadcastsInOrder(t *testing.T) {
	g := newAIGame(Red)
	conn := &slowConn{}
	require.NoError(t, g.RegisterConnection(owner, conn))

	_, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	_, err = g.Select(owner, 4, 3)
	require.NoError(t, err)
	require.NoError(t, g.PlayAI(&scriptedMover{}))

	require.Eventually(t, func() bool {
		return len(conn.turns()) == 4
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"red", "red", "white", "red"}, conn.turns())
	require.Zero(t, conn.overlaps.Load())
}

func TestSyncConnSerialisesWriters(t *testing.T) {
	g := newAIGame(Red)
	raw := &slowConn{}
	conn := NewSyncConn(raw)
	require.NoError(t, g.RegisterConnection(owner, conn))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = conn.WriteJSON(ws.Message{Type: ws.MessageTypeError})
		}()
	}
	_, err := g.Select(owner, 5, 2)
	require.NoError(t, err)
	_, err = g.Select(owner, 4, 3)
	require.NoError(t, err)
	require.NoError(t, g.PlayAI(&scriptedMover{}))
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(raw.turns()) == 4
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "red", raw.turns()[3])
	require.Zero(t, raw.overlaps.Load())

	require.NoError(t, conn.Close())
	raw.mu.Lock()
	require.True(t, raw.closed)
	raw.mu.Unlock()
}

func TestGameDuplicateConnection(t *testing.T) {
	g := newAIGame(Red)
	first := &fakeConn{}
	second := &fakeConn{}

	require.NoError(t, g.RegisterConnection(owner, first))
	require.NoError(t, g.RegisterConnection(owner, second))
	require.Equal(t, 1, g.ConnectionCount())

	second.mu.Lock()
	require.True(t, second.closed)
	require.Equal(t, 1, second.controls)
	second.mu.Unlock()

	// only the registered connection can unregister itself
	g.UnregisterConnection(owner, second)
	require.Equal(t, 1, g.ConnectionCount())
	g.UnregisterConnection(owner, first)
	require.Zero(t, g.ConnectionCount())
}

func TestGameDropsFailingConnection(t *testing.T) {
	g := newAIGame(Red)
	require.NoError(t, g.RegisterConnection(owner, &fakeConn{fail: true}))

	require.Eventually(t, func() bool {
		return g.ConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestClock(t *testing.T) {
	c := NewClock()
	require.False(t, c.IsRunning())
	require.Zero(t, c.Spent())

	c.Start()
	require.True(t, c.IsRunning())
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	require.False(t, c.IsRunning())

	spent := c.Spent()
	require.GreaterOrEqual(t, spent, 5*time.Millisecond)
	require.Equal(t, spent, c.Spent())

	c.Reset()
	require.Zero(t, c.Spent())
}
