package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// MatchRow represents a finished match
type MatchRow struct {
	ID         int64     `json:"id"`
	WinnerTeam int       `json:"winner"`
	Frames     uint64    `json:"frames"`
	Duration   float64   `json:"duration"` // seconds of wall clock
	Ships      int       `json:"ships"`
	Planets    int       `json:"planets"`
	CreatedAt  time.Time `json:"createdAt"`
	Teams      []TeamRow `json:"teams,omitempty"`
}

// TeamRow is one side's totals for a match
type TeamRow struct {
	Team     int `json:"team"`
	Kills    int `json:"kills"`
	Losses   int `json:"losses"`
	Captures int `json:"captures"`
	Respawns int `json:"respawns"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner_team INTEGER NOT NULL DEFAULT 0,
		frames INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		ships INTEGER NOT NULL DEFAULT 0,
		planets INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_teams (
		match_id INTEGER NOT NULL REFERENCES matches(id),
		team INTEGER NOT NULL,
		kills INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		captures INTEGER NOT NULL DEFAULT 0,
		respawns INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (match_id, team)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_key TEXT NOT NULL,
		frame INTEGER NOT NULL,
		kind TEXT NOT NULL,
		slot INTEGER NOT NULL DEFAULT 0,
		other INTEGER NOT NULL DEFAULT 0,
		team INTEGER NOT NULL DEFAULT 0,
		planet INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_match ON analytics_events(match_key);
	CREATE INDEX IF NOT EXISTS idx_analytics_kind ON analytics_events(kind);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// GetSetting returns a stored setting or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordMatch stores a finished match and its per-team totals, returning the match ID
func (db *DB) RecordMatch(m MatchRow) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("record match: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO matches (winner_team, frames, duration, ships, planets) VALUES (?, ?, ?, ?, ?)",
		m.WinnerTeam, m.Frames, m.Duration, m.Ships, m.Planets,
	)
	if err != nil {
		return 0, fmt.Errorf("record match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record match: %w", err)
	}
	for _, t := range m.Teams {
		_, err := tx.Exec(
			`INSERT INTO match_teams (match_id, team, kills, losses, captures, respawns)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, t.Team, t.Kills, t.Losses, t.Captures, t.Respawns,
		)
		if err != nil {
			return 0, fmt.Errorf("record match team %d: %w", t.Team, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record match: %w", err)
	}
	return id, nil
}

// RecentMatches returns the newest matches first, with their team totals
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, winner_team, frames, duration, ships, planets, created_at
		FROM matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.WinnerTeam, &m.Frames, &m.Duration, &m.Ships, &m.Planets, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		teams, err := db.matchTeams(result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Teams = teams
	}
	return result, nil
}

func (db *DB) matchTeams(matchID int64) ([]TeamRow, error) {
	rows, err := db.conn.Query(`
		SELECT team, kills, losses, captures, respawns
		FROM match_teams WHERE match_id = ? ORDER BY team`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TeamRow
	for rows.Next() {
		var t TeamRow
		if err := rows.Scan(&t.Team, &t.Kills, &t.Losses, &t.Captures, &t.Respawns); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// MatchByID returns one match, or nil if it does not exist
func (db *DB) MatchByID(id int64) (*MatchRow, error) {
	m := &MatchRow{}
	err := db.conn.QueryRow(`
		SELECT id, winner_team, frames, duration, ships, planets, created_at
		FROM matches WHERE id = ?`, id,
	).Scan(&m.ID, &m.WinnerTeam, &m.Frames, &m.Duration, &m.Ships, &m.Planets, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Teams, err = db.matchTeams(id); err != nil {
		return nil, err
	}
	return m, nil
}
