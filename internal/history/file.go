package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
)

// FileStore persists the history log as a JSON array of snapshots,
// oldest to newest. This is the documented external format:
// [{"timestamp": "<ISO-8601>", "tickers": {"SYMBOL": <int>, ...}}, ...]
type FileStore struct {
	path   string
	cap    int
	logger zerolog.Logger
}

// NewFileStore creates a file-backed history store. A cap of 0 falls back
// to DefaultCap.
func NewFileStore(path string, cap int, logger zerolog.Logger) *FileStore {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &FileStore{path: path, cap: cap, logger: logger}
}

// Load returns the persisted log. A missing or unparsable file yields an
// empty log; the next successful Append overwrites it.
func (s *FileStore) Load() ([]models.ScanSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("History unreadable, starting empty")
		return nil, nil
	}

	var log []models.ScanSnapshot
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Warn().
			Err(errors.NewHistoryError("load", s.path, errors.ErrHistoryCorrupt)).
			Str("detail", err.Error()).
			Msg("History corrupt, starting empty")
		return nil, nil
	}
	return log, nil
}

// Append adds the snapshot, truncates to the most recent cap entries and
// rewrites the file. The write is atomic via a temp file rename so a crash
// mid-write leaves the prior log intact.
func (s *FileStore) Append(snapshot models.ScanSnapshot) error {
	log, err := s.Load()
	if err != nil {
		return err
	}

	log = truncate(append(log, snapshot), s.cap)

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return errors.NewHistoryError("marshal", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.NewHistoryError("mkdir", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.NewHistoryError("write", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.NewHistoryError("rename", s.path, err)
	}
	return nil
}
