// Package history provides the durable, capped scan history log.
package history

import (
	"narrative-tracker/internal/models"
)

// DefaultCap is the maximum number of snapshots retained in the log.
const DefaultCap = 100

// Store persists the chronologically ordered scan history, oldest first.
// Single writer per process invocation; no cross-process locking.
type Store interface {
	// Load returns the persisted log, or an empty log if the store is
	// absent or unreadable. Corruption is non-fatal.
	Load() ([]models.ScanSnapshot, error)

	// Append adds a snapshot, evicts the oldest entries beyond the cap,
	// and persists the resulting log, overwriting prior contents.
	Append(snapshot models.ScanSnapshot) error
}

// truncate keeps the most recent cap entries, oldest discarded first.
func truncate(log []models.ScanSnapshot, cap int) []models.ScanSnapshot {
	if cap <= 0 || len(log) <= cap {
		return log
	}
	return log[len(log)-cap:]
}
