package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "records"), 0700); err != nil {
		t.Fatal(err)
	}
	return NewStore(dir), dir
}

func writeRecord(t *testing.T, dir string, rec DailyRecord) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "records", rec.Date+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestWindowSelectsByDate(t *testing.T) {
	s, dir := newTestStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	writeRecord(t, dir, DailyRecord{Date: "2026-08-29", MainTopic: "parser"})
	writeRecord(t, dir, DailyRecord{Date: "2026-08-25", MainTopic: "cache"})
	writeRecord(t, dir, DailyRecord{Date: "2026-08-10", MainTopic: "old"}) // outside window

	recs, err := s.Window(now, 7)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records in window, got %d", len(recs))
	}
	if recs[0].Date != "2026-08-25" || recs[1].Date != "2026-08-29" {
		t.Errorf("records not sorted ascending by date: %v, %v", recs[0].Date, recs[1].Date)
	}
}

func TestWindowSkipsMalformed(t *testing.T) {
	s, dir := newTestStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	writeRecord(t, dir, DailyRecord{Date: "2026-08-29", Energy: model.EnergyLow})
	if err := os.WriteFile(filepath.Join(dir, "records", "broken.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "records", "nodate.json"), []byte(`{"main_topic":"x"}`), 0600); err != nil {
		t.Fatal(err)
	}

	recs, err := s.Window(now, 7)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected only the valid record, got %d", len(recs))
	}
}

func TestWindowMissingDirIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	recs, err := s.Window(time.Now().UTC(), 7)
	if err != nil {
		t.Fatalf("missing directory should not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty window, got %d records", len(recs))
	}
}

func TestRegistries(t *testing.T) {
	s, dir := newTestStore(t)

	mistakes := []MistakeEntry{
		{Type: "overengineering", Category: "design", Occurrences: 3, Status: StatusActive},
	}
	data, _ := json.Marshal(mistakes)
	if err := os.WriteFile(filepath.Join(dir, "mistakes.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	unresolved := []UnresolvedEntry{
		{Topic: "migrate CI", Status: StatusOpen},
		{Topic: "old spike", Status: StatusResolved},
	}
	data, _ = json.Marshal(unresolved)
	if err := os.WriteFile(filepath.Join(dir, "unresolved.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	m, err := s.MistakeRegistry()
	if err != nil {
		t.Fatalf("MistakeRegistry failed: %v", err)
	}
	if len(m) != 1 || m[0].Type != "overengineering" {
		t.Errorf("unexpected mistake registry: %+v", m)
	}

	u, err := s.UnresolvedRegistry()
	if err != nil {
		t.Fatalf("UnresolvedRegistry failed: %v", err)
	}
	if len(u) != 2 {
		t.Errorf("expected 2 unresolved entries, got %d", len(u))
	}
}

func TestRegistriesMissingFiles(t *testing.T) {
	s, _ := newTestStore(t)

	m, err := s.MistakeRegistry()
	if err != nil || len(m) != 0 {
		t.Errorf("expected empty mistake registry, got %v, %v", m, err)
	}
	u, err := s.UnresolvedRegistry()
	if err != nil || len(u) != 0 {
		t.Errorf("expected empty unresolved registry, got %v, %v", u, err)
	}
}

func FuzzDecodeDailyRecord(f *testing.F) {
	f.Add([]byte(`{"date":"2026-08-29","main_topic":"parser","energy_state":"low"}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`not json`))
	f.Fuzz(func(t *testing.T, data []byte) {
		var rec DailyRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return
		}
		// Day must either parse or error; it must not panic.
		rec.Day()
	})
}
