package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

// elevationRecord tracks consecutive calendar days observed at severe level.
// The counter feeds the high_level_duration rule; without it the rule would
// have no input and automatic de-escalation could never fire.
type elevationRecord struct {
	Date string `json:"date"` // 2006-01-02, UTC
	Days int    `json:"days"`
}

const dateLayout = "2006-01-02"

func (s *Store) elevationPath() string {
	return filepath.Join(s.dir, "elevation.json")
}

// ObserveElevation updates the days-at-high-level counter for a run observing
// st at the given time, and returns the counter's new value. A day at level
// below severe resets the counter; at most one increment is taken per
// calendar day no matter how many runs happen.
func (s *Store) ObserveElevation(st model.GovernanceState, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := now.UTC().Format(dateLayout)
	rec := s.readElevation()

	if st.InterventionLevel < model.LevelSevere {
		if rec.Days == 0 && rec.Date == today {
			return 0, nil
		}
		if err := s.writeElevation(elevationRecord{Date: today, Days: 0}); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if rec.Date == today && rec.Days > 0 {
		return rec.Days, nil
	}
	next := elevationRecord{Date: today, Days: rec.Days + 1}
	if err := s.writeElevation(next); err != nil {
		return 0, err
	}
	return next.Days, nil
}

// DaysAtHighLevel returns the current counter value without mutating it.
func (s *Store) DaysAtHighLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readElevation().Days
}

func (s *Store) readElevation() elevationRecord {
	data, err := os.ReadFile(s.elevationPath())
	if err != nil {
		return elevationRecord{}
	}
	var rec elevationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return elevationRecord{}
	}
	if _, err := time.Parse(dateLayout, rec.Date); err != nil {
		return elevationRecord{}
	}
	return rec
}

func (s *Store) writeElevation(rec elevationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("state: marshal elevation: %w", err)
	}
	tmp := s.elevationPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("state: write elevation: %w", err)
	}
	return os.Rename(tmp, s.elevationPath())
}
