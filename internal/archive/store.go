// Package archive persists finished match summaries to SQLite and answers
// the history queries behind the server's archive endpoints.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MatchRecord is the archived summary of one finished match.
type MatchRecord struct {
	ID          string    `json:"id"`
	Players     int       `json:"players"`
	Winner      int       `json:"winner"` // seat id, -1 when nobody won
	WinnerColor string    `json:"winner_color,omitempty"`
	Reason      string    `json:"reason"`
	Moves       int       `json:"moves"`
	Explosions  int       `json:"explosions"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// PlayerRecord is one seat of an archived match. EliminatedTurn is zero for
// seats that were still standing at the end.
type PlayerRecord struct {
	MatchID        string `json:"match_id"`
	Seat           int    `json:"seat"`
	Color          string `json:"color"`
	EliminatedTurn int    `json:"eliminated_turn"`
}

// ColorStanding aggregates results per color across all archived matches.
type ColorStanding struct {
	Color  string `json:"color"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
}

// Store provides SQLite-backed match persistence.
type Store struct {
	sqlDB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	players INTEGER NOT NULL,
	winner INTEGER NOT NULL,
	winner_color TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL,
	moves INTEGER NOT NULL,
	explosions INTEGER NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS match_players (
	match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
	seat INTEGER NOT NULL,
	color TEXT NOT NULL,
	eliminated_turn INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (match_id, seat)
);

CREATE INDEX IF NOT EXISTS idx_matches_finished_at ON matches(finished_at DESC);
`

// Open opens a match archive at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveMatch persists one finished match and its seats in a transaction.
func (s *Store) SaveMatch(ctx context.Context, match MatchRecord, seats []PlayerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("archive is not configured")
	}
	if strings.TrimSpace(match.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if match.Reason == "" {
		return fmt.Errorf("end reason is required")
	}
	if match.FinishedAt.IsZero() {
		match.FinishedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO matches (
	id,
	players,
	winner,
	winner_color,
	reason,
	moves,
	explosions,
	started_at,
	finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		match.ID,
		match.Players,
		match.Winner,
		match.WinnerColor,
		match.Reason,
		match.Moves,
		match.Explosions,
		match.StartedAt.UTC().UnixMilli(),
		match.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}

	for _, seat := range seats {
		_, err = tx.ExecContext(ctx, `
INSERT INTO match_players (match_id, seat, color, eliminated_turn)
VALUES (?, ?, ?, ?)
`,
			match.ID,
			seat.Seat,
			seat.Color,
			seat.EliminatedTurn,
		)
		if err != nil {
			return fmt.Errorf("save seat %d: %w", seat.Seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// RecentMatches lists newest-first match summaries.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	players,
	winner,
	winner_color,
	reason,
	moves,
	explosions,
	started_at,
	finished_at
FROM matches
ORDER BY finished_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	records := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var record MatchRecord
		var startedAt, finishedAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Players,
			&record.Winner,
			&record.WinnerColor,
			&record.Reason,
			&record.Moves,
			&record.Explosions,
			&startedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		record.StartedAt = time.UnixMilli(startedAt).UTC()
		record.FinishedAt = time.UnixMilli(finishedAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return records, nil
}

// MatchPlayers lists the seats of one archived match in seat order.
func (s *Store) MatchPlayers(ctx context.Context, matchID string) ([]PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT match_id, seat, color, eliminated_turn
FROM match_players
WHERE match_id = ?
ORDER BY seat ASC
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var records []PlayerRecord
	for rows.Next() {
		var record PlayerRecord
		if err := rows.Scan(
			&record.MatchID,
			&record.Seat,
			&record.Color,
			&record.EliminatedTurn,
		); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return records, nil
}

// Standings aggregates played and won counts per color, best first.
func (s *Store) Standings(ctx context.Context) ([]ColorStanding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	mp.color,
	COUNT(*) AS played,
	SUM(CASE WHEN m.winner = mp.seat THEN 1 ELSE 0 END) AS won
FROM match_players mp
JOIN matches m ON m.id = mp.match_id
GROUP BY mp.color
ORDER BY won DESC, played DESC, mp.color ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var standings []ColorStanding
	for rows.Next() {
		var row ColorStanding
		if err := rows.Scan(&row.Color, &row.Played, &row.Won); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return standings, nil
}
