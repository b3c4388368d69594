package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

// HistoryEntry is an immutable snapshot taken on every state mutation.
type HistoryEntry struct {
	Timestamp string                `json:"timestamp"`
	State     model.GovernanceState `json:"state"`
}

// TimestampFormat is the layout used for history and log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// appendHistory records st as a new history entry and prunes entries older
// than the retention horizon, measured from st.LastUpdate. Caller holds the
// store lock.
func (s *Store) appendHistory(st model.GovernanceState) error {
	entries, err := s.readHistory()
	if err != nil {
		// A corrupt history file is not worth failing a state write over;
		// start a fresh one.
		entries = nil
	}

	entries = append(entries, HistoryEntry{
		Timestamp: st.LastUpdate.UTC().Format(TimestampFormat),
		State:     st,
	})

	horizon := st.LastUpdate.Add(-s.retention)
	kept := entries[:0]
	for _, e := range entries {
		if !e.State.LastUpdate.Before(horizon) {
			kept = append(kept, e)
		}
	}

	return s.writeHistory(kept)
}

// History returns the retained state snapshots, oldest first.
func (s *Store) History() ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readHistory()
}

func (s *Store) readHistory() ([]HistoryEntry, error) {
	f, err := os.Open(s.historyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: open history: %w", err)
	}
	defer f.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e HistoryEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("state: read history: %w", err)
	}
	return entries, nil
}

func (s *Store) writeHistory(entries []HistoryEntry) error {
	tmp := s.historyPath() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("state: write history: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		line, err := json.Marshal(e)
		if err != nil {
			f.Close()
			return fmt.Errorf("state: marshal history entry: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("state: flush history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("state: close history: %w", err)
	}
	return os.Rename(tmp, s.historyPath())
}
