package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	frames   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, data)
}

func (m *mockBroadcaster) envelopes(kind string) []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Envelope
	for _, msg := range m.messages {
		if env, ok := msg.(Envelope); ok && env.T == kind {
			out = append(out, env)
		}
	}
	return out
}

func newTestGame(t *testing.T, db *DB, analytics *Analytics) (*Game, *mockBroadcaster) {
	t.Helper()
	g := NewGame(newTestWorld(t, nil), 20, zerolog.Nop(), db, analytics)
	b := &mockBroadcaster{}
	g.AddViewer(b)
	return g, b
}

func TestGameStepBroadcastsSnapshot(t *testing.T) {
	g, b := newTestGame(t, nil, nil)
	g.Step()

	require.Len(t, b.frames, 1)
	snap, err := DecodeSnapshot(b.frames[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Len(t, snap.Ships, DefaultShips)
}

func TestGameViewers(t *testing.T) {
	g, b := newTestGame(t, nil, nil)
	assert.Equal(t, 1, g.ViewerCount())

	g.RemoveViewer(b)
	assert.Zero(t, g.ViewerCount())
	g.Step()
	assert.Empty(t, b.frames)
}

func TestGameInputReachesLocalShip(t *testing.T) {
	g, _ := newTestGame(t, nil, nil)
	require.True(t, g.Enqueue(InputThrustBegin))
	g.Step()
	assert.True(t, g.world.Local().Thrusting)
}

func TestGameEnqueueLimit(t *testing.T) {
	g, _ := newTestGame(t, nil, nil)
	for i := 0; i < maxQueuedInputs; i++ {
		require.True(t, g.Enqueue(InputFireBegin))
	}
	assert.False(t, g.Enqueue(InputFireEnd))
}

func TestGamePauseFreezesAndDropsInput(t *testing.T) {
	g, b := newTestGame(t, nil, nil)
	g.Enqueue(InputThrustBegin)
	g.Pause()
	require.True(t, g.Paused())

	g.Step()
	snap := g.Snapshot()
	assert.Zero(t, snap.Frame)
	assert.True(t, snap.Paused)
	assert.Empty(t, b.frames)

	g.Resume()
	g.Step()
	assert.Equal(t, uint64(1), g.Snapshot().Frame)
	assert.False(t, g.world.Local().Thrusting, "input queued while paused is discarded")
}

func TestGameRecordsWinOnce(t *testing.T) {
	db := openTestDB(t)
	analytics := NewAnalytics(db, zerolog.Nop())
	g, b := newTestGame(t, db, analytics)
	for i := range g.world.Planets {
		g.world.Planets[i].Owner = TeamA
	}

	g.Step()
	g.Step()

	wins := b.envelopes(MsgWin)
	require.Len(t, wins, 1)
	assert.Equal(t, WinMsg{Team: "A", Frame: 1}, wins[0].Data)
	assert.NotEmpty(t, b.envelopes(MsgEvent))

	stats := g.Stats()
	assert.Equal(t, PhaseResult, stats.Phase)
	assert.Equal(t, TeamA, stats.Winner)

	rows, err := db.RecentMatches(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int(TeamA), rows[0].WinnerTeam)
	assert.Equal(t, uint64(1), rows[0].Frames)
	assert.Len(t, rows[0].Teams, 2)

	analytics.Stop()
	counts, err := analytics.EventCounts(g.MatchKey())
	require.NoError(t, err)
	assert.Equal(t, 1, counts["win"])
}

func TestGameWinnerChangeRecordsOneMatch(t *testing.T) {
	db := openTestDB(t)
	g, b := newTestGame(t, db, nil)
	for i := range g.world.Planets {
		g.world.Planets[i].Owner = TeamA
	}
	g.Step()
	for i := range g.world.Planets {
		g.world.Planets[i].Owner = TeamB
	}
	g.Step()

	wins := b.envelopes(MsgWin)
	require.Len(t, wins, 2)
	assert.Equal(t, WinMsg{Team: "B", Frame: 2}, wins[1].Data)
	assert.Equal(t, TeamB, g.Stats().Winner)

	rows, err := db.RecentMatches(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int(TeamA), rows[0].WinnerTeam)
}

func TestGameReset(t *testing.T) {
	g, _ := newTestGame(t, nil, nil)
	key := g.MatchKey()
	for i := range g.world.Planets {
		g.world.Planets[i].Owner = TeamB
	}
	g.Step()
	require.Equal(t, PhaseResult, g.Stats().Phase)

	g.Reset()
	assert.NotEqual(t, key, g.MatchKey())
	assert.Equal(t, MatchStats{}, g.Stats())
	assert.Zero(t, g.Snapshot().Frame)
	assert.Zero(t, g.Snapshot().Winner)
}

func TestGameWelcome(t *testing.T) {
	g, _ := newTestGame(t, nil, nil)
	w := g.Welcome("abc")
	assert.Equal(t, WelcomeMsg{
		ID:          "abc",
		LevelWidth:  DefaultLevelWidth,
		LevelHeight: DefaultLevelHeight,
		FPS:         20,
		Local:       SlotLocal,
	}, w)
}

func TestGameRunStopsWithContext(t *testing.T) {
	g, _ := newTestGame(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return g.Snapshot().Frame >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("game loop did not stop")
	}
}
