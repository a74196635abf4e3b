package watermark

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Absent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "last_run_timestamp.txt"))

	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing watermark")
	}
}

func TestCommitThenLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "last_run_timestamp.txt"))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Commit(ts); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, ok, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after commit")
	}
	if !got.Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, got)
	}
}

func TestCommit_CreatesParentDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "dir", "wm.txt"))

	if err := s.Commit(time.Now()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok, err := s.Load(); err != nil || !ok {
		t.Fatalf("load after commit: ok=%v err=%v", ok, err)
	}
}

func TestCommit_MonotonicNonDecreasing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "wm.txt"))
	newer := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Commit(newer); err != nil {
		t.Fatalf("commit newer: %v", err)
	}
	if err := s.Commit(older); err != nil {
		t.Fatalf("commit older: %v", err)
	}

	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(newer) {
		t.Fatalf("watermark regressed: expected %v, got %v", newer, got)
	}
}

func TestCommit_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "wm.txt"))

	if err := s.Commit(time.Now()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "wm.txt" {
		t.Fatalf("expected only wm.txt in dir, got %v", entries)
	}
}

func TestLoad_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wm.txt")
	if err := os.WriteFile(path, []byte("not a timestamp\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := New(path).Load()
	if err == nil {
		t.Fatal("expected parse error for garbage watermark")
	}
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wm.txt")
	if err := os.WriteFile(path, []byte("  2024-01-01T00:00:00Z\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok, err := New(path).Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
