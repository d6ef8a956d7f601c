// Package history persists the completed combat/system log to a local
// SQLite transcript, so scrollback survives restarts and can be reviewed
// with `lantern log`.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cyue/lantern/internal/sequence"
	"github.com/cyue/lantern/internal/types"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
-- Completed log entries, append-only
CREATE TABLE IF NOT EXISTS lantern_transcript (
  guid TEXT PRIMARY KEY,            -- e.g., "ent-a1b2c3d4"
  session_id TEXT NOT NULL,         -- owning play-through, "ses-..."
  slot INTEGER NOT NULL,            -- save slot the entry belongs to
  kind TEXT NOT NULL,               -- 'combat' or 'system'
  lines TEXT NOT NULL,              -- JSON array of narrative lines
  roll TEXT,                        -- JSON dice outcome, null if none
  created_at INTEGER NOT NULL       -- unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_lantern_transcript_slot ON lantern_transcript(slot, created_at);
`

// Store wraps the transcript database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the transcript database in dir.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, "transcript.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply transcript schema: %w", err)
	}
	return &Store{db: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Append records one completed entry.
func (s *Store) Append(sessionID string, slot int, entry *sequence.LogEntry) error {
	linesJSON, err := json.Marshal(entry.Lines)
	if err != nil {
		return err
	}
	var rollJSON *string
	if entry.Roll != nil {
		data, err := json.Marshal(entry.Roll)
		if err != nil {
			return err
		}
		value := string(data)
		rollJSON = &value
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO lantern_transcript (guid, session_id, slot, kind, lines, roll, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, sessionID, slot, string(entry.Kind), string(linesJSON), rollJSON, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append transcript entry: %w", err)
	}
	return nil
}

// Recent returns up to limit completed entries for a slot, oldest first.
func (s *Store) Recent(slot, limit int) ([]*sequence.LogEntry, error) {
	rows, err := s.db.Query(
		`SELECT guid, kind, lines, roll FROM (
		   SELECT guid, kind, lines, roll, created_at, rowid FROM lantern_transcript
		   WHERE slot = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		 ) ORDER BY created_at ASC, rowid ASC`,
		slot, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*sequence.LogEntry
	for rows.Next() {
		var guid, kind, linesJSON string
		var rollJSON *string
		if err := rows.Scan(&guid, &kind, &linesJSON, &rollJSON); err != nil {
			return nil, err
		}
		var lines []string
		if err := json.Unmarshal([]byte(linesJSON), &lines); err != nil {
			return nil, fmt.Errorf("decode transcript lines for %s: %w", guid, err)
		}
		var roll *types.DiceOutcome
		if rollJSON != nil {
			roll = &types.DiceOutcome{}
			if err := json.Unmarshal([]byte(*rollJSON), roll); err != nil {
				return nil, fmt.Errorf("decode transcript roll for %s: %w", guid, err)
			}
		}
		entries = append(entries, sequence.NewLogEntry(guid, sequence.EntryKind(kind), lines, roll))
	}
	return entries, rows.Err()
}

// ClearSlot drops the transcript for a slot, used when a save is deleted
// or restarted from scratch.
func (s *Store) ClearSlot(slot int) error {
	_, err := s.db.Exec(`DELETE FROM lantern_transcript WHERE slot = ?`, slot)
	return err
}
