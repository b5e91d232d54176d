package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	analyticsBuffer    = 1024
	analyticsBatchSize = 50
	analyticsFlush     = 5 * time.Second
)

// trackedEvent is a simulation event tagged with the match it belongs to
type trackedEvent struct {
	MatchKey  string
	Event     Event
	Timestamp time.Time
}

// Analytics persists the simulation event stream with batched background writes
type Analytics struct {
	db     *DB
	log    zerolog.Logger
	events chan trackedEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB, log zerolog.Logger) *Analytics {
	a := &Analytics{
		db:     db,
		log:    log.With().Str("component", "analytics").Logger(),
		events: make(chan trackedEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(matchKey string, ev Event) {
	select {
	case a.events <- trackedEvent{MatchKey: matchKey, Event: ev, Timestamp: time.Now().UTC()}:
	default:
		// Channel full: drop rather than stall the tick loop
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
	}
}

// Dropped returns how many events were discarded because the buffer was full
func (a *Analytics) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Stop flushes pending events and shuts down the writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]trackedEvent, 0, analyticsBatchSize)
	ticker := time.NewTicker(analyticsFlush)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for drained := false; !drained; {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					drained = true
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []trackedEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		a.log.Error().Err(err).Msg("begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (match_key, frame, kind, slot, other, team, planet, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		a.log.Error().Err(err).Msg("prepare insert")
		return
	}
	defer stmt.Close()

	for _, t := range events {
		ev := t.Event
		_, err := stmt.Exec(t.MatchKey, ev.Frame, string(ev.Kind), ev.Slot, ev.Other, int(ev.Team), ev.Planet,
			t.Timestamp.Format(time.RFC3339))
		if err != nil {
			a.log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("insert event")
		}
	}
	if err := tx.Commit(); err != nil {
		a.log.Error().Err(err).Msg("commit")
		return
	}
	a.log.Debug().Int("events", len(events)).Msg("flushed")
}

// EventCounts returns counts of each event kind, for one match or all when matchKey is empty
func (a *Analytics) EventCounts(matchKey string) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT kind, COUNT(*) FROM analytics_events
		WHERE ? = '' OR match_key = ?
		GROUP BY kind ORDER BY COUNT(*) DESC
	`, matchKey, matchKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		result[kind] = count
	}
	return result, rows.Err()
}

// KillsBySlot returns kill counts per shooter slot for a match
func (a *Analytics) KillsBySlot(matchKey string) (map[int]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT slot, COUNT(*) FROM analytics_events
		WHERE match_key = ? AND kind = ?
		GROUP BY slot
	`, matchKey, string(EventKill))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]int)
	for rows.Next() {
		var slot, count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, err
		}
		result[slot] = count
	}
	return result, rows.Err()
}
