// Package intervene applies intervention events to the state store and
// records every evaluated event in an append-only log.
package intervene

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

// TimestampFormat is the layout used in log entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Outcome labels for log entries.
const (
	OutcomeExecuted = "executed"
	OutcomeSkipped  = "skipped"
)

// LogEntry is one evaluated event, executed or skipped. Entries are never
// mutated or deleted.
type LogEntry struct {
	Timestamp string           `json:"timestamp"`
	RunID     string           `json:"run_id,omitempty"`
	Type      string           `json:"type"`
	Level     int              `json:"level"`
	Message   string           `json:"message"`
	Action    model.ActionKind `json:"action"`
	Outcome   string           `json:"outcome"`
	Reason    string           `json:"reason,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
}

// Log is the append-only JSONL intervention log.
type Log struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// OpenLog opens (or creates) the intervention log for appending.
func OpenLog(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("intervene: create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("intervene: open log: %w", err)
	}
	return &Log{path: path, file: file}, nil
}

// Record appends an entry and syncs to disk. The timestamp is stamped if
// empty.
func (l *Log) Record(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("intervene: marshal log entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("intervene: write log entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("intervene: sync log: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// TailFilter narrows which entries Tail returns.
type TailFilter struct {
	RunID string // exact match when non-empty
	Limit int    // keep the last N entries when > 0
}

// Tail reads the log and returns entries matching the filter, oldest first.
// Malformed lines are skipped. A missing log file yields no entries.
func Tail(path string, filter TailFilter) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("intervene: open log: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if filter.RunID != "" && e.RunID != filter.RunID {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("intervene: read log: %w", err)
	}

	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[len(entries)-filter.Limit:]
	}
	return entries, nil
}
