package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"narrative-tracker/internal/models"
)

func snapshotAt(t *testing.T, ts time.Time, tickers models.Tally) models.ScanSnapshot {
	t.Helper()
	snap, err := models.NewScanSnapshot(ts, tickers)
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "history.json"), 100, zerolog.Nop())

	log, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty log, got %d entries", len(log))
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path, 100, zerolog.Nop())
	log, err := store.Load()
	if err != nil {
		t.Fatalf("corruption must be non-fatal, got %v", err)
	}
	if len(log) != 0 {
		t.Errorf("corrupt file should read as empty log, got %d entries", len(log))
	}

	// Next append overwrites the corrupt file.
	snap := snapshotAt(t, time.Now(), models.Tally{"PEPE": 4})
	if err := store.Append(snap); err != nil {
		t.Fatalf("Append after corruption: %v", err)
	}
	log, _ = store.Load()
	if len(log) != 1 || log[0].Tickers["PEPE"] != 4 {
		t.Errorf("append did not recover from corruption: %+v", log)
	}
}

func TestFileStoreAppendOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewFileStore(path, 100, zerolog.Nop())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := snapshotAt(t, base.Add(time.Duration(i)*time.Hour), models.Tally{"AAA": i + 1})
		if err := store.Append(snap); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	log, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(log))
	}
	for i, snap := range log {
		if snap.Tickers["AAA"] != i+1 {
			t.Errorf("entry %d out of order: count=%d", i, snap.Tickers["AAA"])
		}
	}
}

func TestFileStoreEvictsOldestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewFileStore(path, 5, zerolog.Nop())

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 8; i++ {
		snap := snapshotAt(t, base.Add(time.Duration(i)*time.Hour), models.Tally{"AAA": i})
		if err := store.Append(snap); err != nil {
			t.Fatal(err)
		}
	}

	log, _ := store.Load()
	if len(log) != 5 {
		t.Fatalf("cap not enforced: %d entries", len(log))
	}
	// The earliest retained entry is the 5th-from-last append.
	if log[0].Tickers["AAA"] != 4 {
		t.Errorf("oldest retained entry = %d, want 4", log[0].Tickers["AAA"])
	}
	if log[4].Tickers["AAA"] != 8 {
		t.Errorf("newest entry = %d, want 8", log[4].Tickers["AAA"])
	}
}

func TestFileStoreWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewFileStore(path, 100, zerolog.Nop())

	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if err := store.Append(snapshotAt(t, ts, models.Tally{"WIF": 7})); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stored file is not a JSON array of objects: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(raw))
	}

	var stamp string
	if err := json.Unmarshal(raw[0]["timestamp"], &stamp); err != nil {
		t.Fatalf("timestamp field: %v", err)
	}
	parsed, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatalf("timestamp %q is not RFC 3339: %v", stamp, err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("timestamp round-trip: got %v, want %v", parsed, ts)
	}

	var tickers map[string]int
	if err := json.Unmarshal(raw[0]["tickers"], &tickers); err != nil {
		t.Fatalf("tickers field: %v", err)
	}
	if tickers["WIF"] != 7 {
		t.Errorf("tickers round-trip: %v", tickers)
	}
}
