package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsRecordFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/data/records/2026-08-30.json", true},
		{"/data/records/2026-08-30.json.tmp", false},
		{"/data/records/notes.txt", false},
		{"/data/records/.json", true},
	}
	for _, c := range cases {
		if got := isRecordFile(c.path); got != c.want {
			t.Errorf("isRecordFile(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestPollWatcherFiresOnceForNewBatch(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := NewPollWatcher(dir, func() { runs.Add(1) }, 10*time.Millisecond)

	// Pre-existing files must not trigger a run.
	if err := os.WriteFile(filepath.Join(dir, "2026-08-28.json"), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	w.scan(false)

	w.scan(true)
	if runs.Load() != 0 {
		t.Fatalf("no new files: expected 0 runs, got %d", runs.Load())
	}

	// Two new files in one scan fire a single run.
	os.WriteFile(filepath.Join(dir, "2026-08-29.json"), []byte("{}"), 0600)
	os.WriteFile(filepath.Join(dir, "2026-08-30.json"), []byte("{}"), 0600)
	w.scan(true)
	if runs.Load() != 1 {
		t.Fatalf("expected 1 run for the batch, got %d", runs.Load())
	}

	// Already-seen files stay quiet.
	w.scan(true)
	if runs.Load() != 1 {
		t.Fatalf("expected no further runs, got %d", runs.Load())
	}

	// Partial writes are ignored.
	os.WriteFile(filepath.Join(dir, "2026-08-31.json.tmp"), []byte("{}"), 0600)
	w.scan(true)
	if runs.Load() != 1 {
		t.Fatalf("tmp file should not trigger a run, got %d", runs.Load())
	}
}

func TestPollWatcherMissingDir(t *testing.T) {
	w := NewPollWatcher(filepath.Join(t.TempDir(), "absent"), func() {
		t.Error("handler should not fire for a missing directory")
	}, 10*time.Millisecond)
	w.scan(true)
}
