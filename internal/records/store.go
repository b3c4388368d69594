// Package records reads the per-day behavioral records and the two
// registries maintained by external collaborators. Access is read-only.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

// DateLayout is the record date format.
const DateLayout = "2006-01-02"

// Registry status values.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
	StatusOpen     = "open"
)

// Mistake is a single mistake noted on a daily record.
type Mistake struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// DailyRecord is one day's behavioral record. The date field is explicit;
// file modification times are never consulted for windowing.
type DailyRecord struct {
	Date       string            `json:"date"`
	MainTopic  string            `json:"main_topic,omitempty"`
	Energy     model.EnergyState `json:"energy_state,omitempty"`
	Decisions  []string          `json:"decisions,omitempty"`
	Mistakes   []Mistake         `json:"mistakes,omitempty"`
	Insights   []string          `json:"insights,omitempty"`
	Unfinished []string          `json:"unfinished,omitempty"`
}

// Day returns the parsed record date.
func (r DailyRecord) Day() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// MistakeEntry is a mistake registry record. Occurrences increments each
// time a mistake with identical type text is recorded; status transitions
// to resolved only through external action.
type MistakeEntry struct {
	Type        string    `json:"type"`
	Category    string    `json:"category,omitempty"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Occurrences int       `json:"occurrences"`
	Status      string    `json:"status"`
}

// UnresolvedEntry is an unresolved-item registry record.
type UnresolvedEntry struct {
	Topic       string    `json:"topic"`
	Opened      time.Time `json:"opened"`
	LastTouched time.Time `json:"last_touched"`
	Status      string    `json:"status"`
}

// Store reads records and registries from the data directory layout:
//
//	<dir>/records/<date>.json  daily records
//	<dir>/mistakes.json        mistake registry
//	<dir>/unresolved.json      unresolved-item registry
type Store struct {
	dir string
}

// NewStore creates a read-only Store over the given data directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// RecordsDir returns the directory holding daily record files.
func (s *Store) RecordsDir() string {
	return filepath.Join(s.dir, "records")
}

// Window returns records whose date falls within the trailing window of
// `days` days ending at now, sorted ascending by date. Malformed files and
// records without a parseable date are skipped. A missing records directory
// yields an empty window, not an error.
func (s *Store) Window(now time.Time, days int) ([]DailyRecord, error) {
	entries, err := os.ReadDir(s.RecordsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("records: read directory: %w", err)
	}

	cutoff := now.UTC().AddDate(0, 0, -days)
	var out []DailyRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.RecordsDir(), e.Name()))
		if err != nil {
			continue
		}
		var rec DailyRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		day, err := rec.Day()
		if err != nil {
			continue
		}
		if day.Before(cutoff) || day.After(now.UTC()) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// MistakeRegistry returns the full mistake registry. A missing file yields
// an empty registry.
func (s *Store) MistakeRegistry() ([]MistakeEntry, error) {
	var entries []MistakeEntry
	if err := s.readJSON("mistakes.json", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UnresolvedRegistry returns the full unresolved-item registry. A missing
// file yields an empty registry.
func (s *Store) UnresolvedRegistry() ([]UnresolvedEntry, error) {
	var entries []UnresolvedEntry
	if err := s.readJSON("unresolved.json", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("records: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("records: parse %s: %w", name, err)
	}
	return nil
}
