package intervene

import (
	"fmt"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
	"github.com/skyconnfig/cognitive-os/internal/state"
)

// reasonFloorLevel explains a degrade_level skip at the minimum level.
const reasonFloorLevel = "already at floor level"

// reasonUnknownAction explains a skip for an action kind the executor does
// not recognize (possible when events are replayed from old log data).
const reasonUnknownAction = "unrecognized action"

// Execution pairs an event with its outcome.
type Execution struct {
	Event  model.InterventionEvent `json:"event"`
	Reason string                  `json:"reason,omitempty"`
}

// Outcome is the result of executing a batch of events. LogErrors collects
// log-append failures; they are reported but never roll back state
// mutations already applied.
type Outcome struct {
	Executed  []Execution `json:"executed"`
	Skipped   []Execution `json:"skipped"`
	LogErrors []string    `json:"log_errors,omitempty"`
}

// Executor applies intervention events to the state store and appends every
// evaluated event to the intervention log.
type Executor struct {
	store *state.Store
	log   *Log
}

// NewExecutor creates an Executor. The log may be nil, in which case events
// are executed without being recorded.
func NewExecutor(store *state.Store, log *Log) *Executor {
	return &Executor{store: store, log: log}
}

// Execute processes events in order. A state store failure aborts the run
// (fatal to this run only); a log-append failure is recorded in the outcome
// and execution continues. Every event is logged whether executed or
// skipped.
func (e *Executor) Execute(events []model.InterventionEvent, runID string) (Outcome, error) {
	var out Outcome

	for _, ev := range events {
		executed, reason, err := e.apply(ev)
		if err != nil {
			return out, fmt.Errorf("intervene: apply %s: %w", ev.Action, err)
		}

		exec := Execution{Event: ev, Reason: reason}
		outcome := OutcomeSkipped
		if executed {
			outcome = OutcomeExecuted
			out.Executed = append(out.Executed, exec)
		} else {
			out.Skipped = append(out.Skipped, exec)
		}

		e.record(&out, LogEntry{
			Timestamp: time.Now().UTC().Format(TimestampFormat),
			RunID:     runID,
			Type:      ev.Type,
			Level:     ev.Level,
			Message:   ev.Message,
			Action:    ev.Action,
			Outcome:   outcome,
			Reason:    reason,
			Data:      ev.Data,
		})
	}

	return out, nil
}

// apply performs the state mutation for one event. Returns whether the
// event executed and, when skipped, the reason.
func (e *Executor) apply(ev model.InterventionEvent) (bool, string, error) {
	switch ev.Action {
	case model.ActionLockExpansion:
		if _, err := e.store.LockExpansion(ev.Message); err != nil {
			return false, "", err
		}
		if _, err := e.store.SetLevel(ev.Level); err != nil {
			return false, "", err
		}
		return true, "", nil

	case model.ActionForceCounterStrategy:
		// Surfaced to the user, not enforced automatically.
		return true, "", nil

	case model.ActionDegradeLevel:
		cur := e.store.Get()
		if cur.InterventionLevel <= model.MinLevel {
			return false, reasonFloorLevel, nil
		}
		if _, err := e.store.SetLevel(cur.InterventionLevel - 1); err != nil {
			return false, "", err
		}
		return true, "", nil

	case model.ActionWarnScattered:
		return true, "", nil

	default:
		return false, reasonUnknownAction, nil
	}
}

func (e *Executor) record(out *Outcome, entry LogEntry) {
	if e.log == nil {
		return
	}
	if err := e.log.Record(entry); err != nil {
		out.LogErrors = append(out.LogErrors, err.Error())
	}
}
