package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const maxQueuedInputs = 64

// Broadcaster receives what the game publishes each frame
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game drives one World at a fixed frame rate and fans its output out to viewers.
// The world itself is only touched while holding mu.
type Game struct {
	mu       sync.Mutex
	world    *World
	fps      int
	log      zerolog.Logger
	inputs   []InputEvent
	viewers  map[Broadcaster]struct{}
	paused   bool
	matchKey string
	started  time.Time
	stats    MatchStats
	recorded bool

	db        *DB
	analytics *Analytics
}

// NewGame wraps world. db and analytics may be nil to run without persistence.
func NewGame(world *World, fps int, log zerolog.Logger, db *DB, analytics *Analytics) *Game {
	return &Game{
		world:     world,
		fps:       fps,
		log:       log.With().Str("component", "game").Logger(),
		viewers:   make(map[Broadcaster]struct{}),
		matchKey:  GenerateID(8),
		started:   time.Now(),
		db:        db,
		analytics: analytics,
	}
}

// Run ticks the world until ctx is cancelled
func (g *Game) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	g.log.Info().Int("fps", g.fps).Str("match", g.MatchKey()).Msg("game loop started")
	for {
		select {
		case <-ticker.C:
			g.Step()
		case <-ctx.Done():
			g.log.Info().Msg("game loop stopped")
			return
		}
	}
}

// Enqueue queues a control event for the local ship's next frame
func (g *Game) Enqueue(ev InputEvent) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.inputs) >= maxQueuedInputs {
		return false
	}
	g.inputs = append(g.inputs, ev)
	return true
}

// Pause freezes the simulation; queued input is discarded while paused
func (g *Game) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
	g.log.Info().Msg("paused")
}

// Resume continues a paused simulation
func (g *Game) Resume() {
	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
	g.log.Info().Msg("resumed")
}

// Paused reports whether the simulation is frozen
func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Reset starts a fresh match with the same configuration
func (g *Game) Reset() {
	g.mu.Lock()
	g.world.Reset()
	g.inputs = g.inputs[:0]
	g.stats = MatchStats{}
	g.recorded = false
	g.matchKey = GenerateID(8)
	g.started = time.Now()
	key := g.matchKey
	g.mu.Unlock()
	g.log.Info().Str("match", key).Msg("match reset")
}

// MatchKey identifies the current match in analytics
func (g *Game) MatchKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.matchKey
}

// Stats returns the running totals of the current match
func (g *Game) Stats() MatchStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Snapshot returns the renderable state of the latest frame
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := g.world.Snapshot()
	snap.Paused = g.paused
	return snap
}

// Welcome describes the match to a newly connected viewer
func (g *Game) Welcome(id string) WelcomeMsg {
	g.mu.Lock()
	defer g.mu.Unlock()
	cfg := g.world.Config()
	return WelcomeMsg{
		ID:          id,
		LevelWidth:  cfg.LevelWidth,
		LevelHeight: cfg.LevelHeight,
		FPS:         g.fps,
		Local:       SlotLocal,
	}
}

// AddViewer subscribes b to snapshots and events
func (g *Game) AddViewer(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewers[b] = struct{}{}
}

// RemoveViewer unsubscribes b
func (g *Game) RemoveViewer(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.viewers, b)
}

// ViewerCount returns the number of subscribed viewers
func (g *Game) ViewerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.viewers)
}

// Step runs one frame: drain input, tick, publish
func (g *Game) Step() {
	g.mu.Lock()
	if g.paused {
		g.inputs = g.inputs[:0]
		g.mu.Unlock()
		return
	}
	events := g.world.Tick(g.inputs)
	g.inputs = g.inputs[:0]

	var msgs []Envelope
	var finished *MatchRow
	for _, ev := range events {
		g.stats.Record(ev)
		g.logEvent(ev)
		if g.analytics != nil {
			g.analytics.Track(g.matchKey, ev)
		}
		msgs = append(msgs, Envelope{T: MsgEvent, Data: ev})
		if ev.Kind == EventWin {
			msgs = append(msgs, Envelope{T: MsgWin, Data: WinMsg{Team: ev.Team.String(), Frame: ev.Frame}})
			if !g.recorded {
				g.recorded = true
				finished = g.matchRow()
			}
		}
	}

	snap := g.world.Snapshot()
	data, err := EncodeSnapshot(&snap)
	if err != nil {
		g.log.Error().Err(err).Uint64("frame", snap.Frame).Msg("snapshot")
	}
	viewers := make([]Broadcaster, 0, len(g.viewers))
	for v := range g.viewers {
		viewers = append(viewers, v)
	}
	g.mu.Unlock()

	for _, v := range viewers {
		for _, m := range msgs {
			v.SendJSON(m)
		}
		if data != nil {
			v.SendBinary(data)
		}
	}

	if finished != nil && g.db != nil {
		id, err := g.db.RecordMatch(*finished)
		if err != nil {
			g.log.Error().Err(err).Msg("record match")
		} else {
			g.log.Info().Int64("id", id).Int("winner", finished.WinnerTeam).Msg("match recorded")
		}
	}
}

// matchRow summarizes the finished match. Caller holds mu.
func (g *Game) matchRow() *MatchRow {
	cfg := g.world.Config()
	row := &MatchRow{
		WinnerTeam: int(g.stats.Winner),
		Frames:     g.world.Frame,
		Duration:   time.Since(g.started).Seconds(),
		Ships:      cfg.Ships,
		Planets:    cfg.Planets,
	}
	for _, team := range []Team{TeamA, TeamB} {
		ts := g.stats.Teams[team]
		row.Teams = append(row.Teams, TeamRow{
			Team:     int(team),
			Kills:    ts.Kills,
			Losses:   ts.Losses,
			Captures: ts.Captures,
			Respawns: ts.Respawns,
		})
	}
	return row
}

func (g *Game) logEvent(ev Event) {
	var e *zerolog.Event
	switch ev.Kind {
	case EventKill, EventCapture, EventWin:
		e = g.log.Info()
	default:
		e = g.log.Debug()
	}
	e.Str("event", string(ev.Kind)).
		Uint64("frame", ev.Frame).
		Int("slot", ev.Slot).
		Str("team", ev.Team.String())
	switch ev.Kind {
	case EventKill:
		e.Int("victim", ev.Other)
	case EventCapture:
		e.Int("planet", ev.Planet)
	}
	e.Msg("match event")
}
