// Package state persists the single governance state record, its 30-day
// history, and the days-at-high-level accumulator.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

// DefaultRetention is how long state history entries are kept.
const DefaultRetention = 30 * 24 * time.Hour

// lockReasonFallback keeps the lock/constraint invariant intact when a
// caller locks without giving a reason.
const lockReasonFallback = "expansion locked"

// Store manages the governance state files in a directory. All mutation goes
// through an atomic read-modify-write guarded by a mutex within the process
// and an advisory flock across processes.
type Store struct {
	dir       string
	retention time.Duration
	mu        sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates a Store backed by the given directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}
	return &Store{
		dir:       dir,
		retention: DefaultRetention,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// SetRetention overrides the history retention horizon.
func (s *Store) SetRetention(d time.Duration) {
	if d > 0 {
		s.retention = d
	}
}

func (s *Store) statePath() string   { return filepath.Join(s.dir, "state.json") }
func (s *Store) historyPath() string { return filepath.Join(s.dir, "state_history.jsonl") }
func (s *Store) lockPath() string    { return filepath.Join(s.dir, ".state.lock") }

// Get returns the current governance state. Missing or unreadable storage
// falls back to defaults; Get never fails.
func (s *Store) Get() model.GovernanceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOrDefault()
}

// Update merges delta into the current state, stamps last_update, persists
// atomically, and appends a history entry. Two concurrent processes cannot
// interleave their read-modify-write (advisory flock).
func (s *Store) Update(delta model.StateDelta) (model.GovernanceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.flock()
	if err != nil {
		return model.GovernanceState{}, err
	}
	defer unlock()

	cur := s.readOrDefault()
	merged, err := delta.Apply(cur)
	if err != nil {
		return model.GovernanceState{}, err
	}
	merged.LastUpdate = s.now()
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = merged.LastUpdate
	}

	if err := s.write(merged); err != nil {
		return model.GovernanceState{}, err
	}
	if err := s.appendHistory(merged); err != nil {
		return model.GovernanceState{}, err
	}
	return merged, nil
}

// SetLevel sets the intervention level. Levels outside [1,3] are rejected
// with ErrInvalidLevel before any storage access.
func (s *Store) SetLevel(n int) (model.GovernanceState, error) {
	if !model.ValidLevel(n) {
		return model.GovernanceState{}, model.ErrInvalidLevel
	}
	return s.Update(model.StateDelta{InterventionLevel: &n})
}

// SetFocusMode sets the focus mode. Unknown modes are rejected.
func (s *Store) SetFocusMode(fm model.FocusMode) (model.GovernanceState, error) {
	if !fm.Valid() {
		return model.GovernanceState{}, model.ErrInvalidFocusMode
	}
	return s.Update(model.StateDelta{FocusMode: &fm})
}

// SetCurrentGoal replaces the current goal text.
func (s *Store) SetCurrentGoal(text string) (model.GovernanceState, error) {
	return s.Update(model.StateDelta{CurrentGoal: &text})
}

// LockExpansion disallows creation of new work items. The reason becomes the
// active constraint; an empty reason gets a fallback so the lock/constraint
// invariant holds.
func (s *Store) LockExpansion(reason string) (model.GovernanceState, error) {
	if reason == "" {
		reason = lockReasonFallback
	}
	locked := true
	return s.Update(model.StateDelta{ExpansionLock: &locked, ActiveConstraint: &reason})
}

// UnlockExpansion clears the expansion lock and its constraint.
func (s *Store) UnlockExpansion() (model.GovernanceState, error) {
	unlocked := false
	empty := ""
	return s.Update(model.StateDelta{ExpansionLock: &unlocked, ActiveConstraint: &empty})
}

// Reset restores defaults with a fresh created_at. Destructive and
// explicit-only; the reset itself is recorded in history.
func (s *Store) Reset() (model.GovernanceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.flock()
	if err != nil {
		return model.GovernanceState{}, err
	}
	defer unlock()

	fresh := model.DefaultState(s.now())
	if err := s.write(fresh); err != nil {
		return model.GovernanceState{}, err
	}
	if err := s.appendHistory(fresh); err != nil {
		return model.GovernanceState{}, err
	}
	return fresh, nil
}

func (s *Store) readOrDefault() model.GovernanceState {
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		return model.DefaultState(s.now())
	}
	var st model.GovernanceState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.DefaultState(s.now())
	}
	if st.Validate() != nil {
		return model.DefaultState(s.now())
	}
	return st
}

func (s *Store) write(st model.GovernanceState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}
	tmp := s.statePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	if err := os.Rename(tmp, s.statePath()); err != nil {
		return fmt.Errorf("state: rename: %w", err)
	}
	return nil
}

// flock takes an exclusive advisory lock on the store's lock file and
// returns the release function. Protects the read-modify-write against a
// second cogos process; a single process is already serialized by mu.
func (s *Store) flock() (func(), error) {
	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("state: open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("state: acquire lock: %w", err)
	}
	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}
