package audit

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenWriteRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.db")

	store, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	store.Write(Record{
		Operation:  "get_glyph",
		Outcome:    "host_failure",
		ExitCode:   1,
		DurationMS: 120,
		Error:      "/Users/alice/fonts/work.vfc: no font open, line 42",
	})
	store.Write(Record{Operation: "list_glyphs", Outcome: "success"})

	recs, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	// Newest first.
	if recs[0].Operation != "list_glyphs" {
		t.Errorf("recs[0].Operation = %q, want list_glyphs", recs[0].Operation)
	}
	// The audit log keeps the raw, unredacted error text.
	if recs[1].Error == "" || recs[1].ExitCode != 1 {
		t.Errorf("failure record lost detail: %+v", recs[1])
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("", testLogger()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNilStoreWriteIsNoop(t *testing.T) {
	var s *Store
	s.Write(Record{Operation: "noop"}) // must not panic
}
