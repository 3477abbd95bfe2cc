package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshots.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	now := time.Unix(1700000000, 0)
	s.Record("job-1", true, now)
	s.Record("job-2", false, now.Add(time.Second))

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() returned %d snapshots, want 2", len(recent))
	}
	if recent[0].Label != "job-2" {
		t.Fatalf("Recent()[0].Label = %q, want job-2 (newest first)", recent[0].Label)
	}
	if recent[1].Label != "job-1" {
		t.Fatalf("Recent()[1].Label = %q, want job-1", recent[1].Label)
	}
}

// TestPersistenceAcrossReopen confirms snapshots survive a simulated
// process restart: closing and reopening the same bbolt file.
func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshots.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Record("job-1", true, time.Unix(1700000000, 0))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Label != "job-1" {
		t.Fatalf("Recent() after reopen = %+v, want [job-1]", recent)
	}
}

func TestRecentLimitsCount(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "snapshots.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		s.Record("job", false, base.Add(time.Duration(i)*time.Second))
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d entries, want 2", len(recent))
	}
}
