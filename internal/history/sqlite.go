package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
)

// SQLiteStore persists the history log in a SQLite database. It honors the
// same contract as FileStore: capped FIFO log, corruption treated as an
// empty history.
type SQLiteStore struct {
	db     *sql.DB
	cap    int
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed history store.
func NewSQLiteStore(dbPath string, cap int, logger zerolog.Logger) (*SQLiteStore, error) {
	if cap <= 0 {
		cap = DefaultCap
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, cap: cap, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		tickers TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the persisted log ordered oldest to newest. An unreadable
// database or unparsable row yields an empty log.
func (s *SQLiteStore) Load() ([]models.ScanSnapshot, error) {
	rows, err := s.db.Query(`SELECT timestamp, tickers FROM snapshots ORDER BY id ASC`)
	if err != nil {
		s.logger.Warn().Err(err).Msg("History database unreadable, starting empty")
		return nil, nil
	}
	defer rows.Close()

	var log []models.ScanSnapshot
	for rows.Next() {
		var ts time.Time
		var tickersJSON string
		if err := rows.Scan(&ts, &tickersJSON); err != nil {
			s.logger.Warn().Err(err).Msg("History row corrupt, starting empty")
			return nil, nil
		}
		var tickers models.Tally
		if err := json.Unmarshal([]byte(tickersJSON), &tickers); err != nil {
			s.logger.Warn().Err(err).Msg("History row corrupt, starting empty")
			return nil, nil
		}
		log = append(log, models.ScanSnapshot{Timestamp: ts, Tickers: tickers})
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("History database unreadable, starting empty")
		return nil, nil
	}
	return log, nil
}

// Append inserts the snapshot and evicts rows beyond the newest cap.
func (s *SQLiteStore) Append(snapshot models.ScanSnapshot) error {
	tickersJSON, err := json.Marshal(snapshot.Tickers)
	if err != nil {
		return errors.NewHistoryError("marshal", "snapshots", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewHistoryError("begin", "snapshots", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (timestamp, tickers) VALUES (?, ?)`,
		snapshot.Timestamp, string(tickersJSON),
	); err != nil {
		return errors.NewHistoryError("insert", "snapshots", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)`, s.cap,
	); err != nil {
		return errors.NewHistoryError("evict", "snapshots", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewHistoryError("commit", "snapshots", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
