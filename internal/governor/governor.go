// Package governor binds the stores, aggregator, evaluator, and executor
// into the behavioral governance control loop.
package governor

import (
	"fmt"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/config"
	"github.com/skyconnfig/cognitive-os/internal/intervene"
	"github.com/skyconnfig/cognitive-os/internal/metrics"
	"github.com/skyconnfig/cognitive-os/internal/model"
	"github.com/skyconnfig/cognitive-os/internal/records"
	"github.com/skyconnfig/cognitive-os/internal/rules"
	"github.com/skyconnfig/cognitive-os/internal/state"
	"github.com/skyconnfig/cognitive-os/internal/unlock"
)

// Governor is the collaborator-facing handle over the governance loop.
type Governor struct {
	cfg     *config.Config
	store   *state.Store
	records *records.Store
}

// Expansion is the canExpand verdict.
type Expansion struct {
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason,omitempty"`
	InterventionLevel int    `json:"intervention_level"`
}

// RunReport summarizes one control-loop pass.
type RunReport struct {
	RunID    string                    `json:"run_id"`
	Snapshot metrics.Snapshot          `json:"snapshot"`
	Events   []model.InterventionEvent `json:"events"`
	Outcome  intervene.Outcome         `json:"outcome"`
	State    model.GovernanceState     `json:"state"`
}

// New creates a Governor over the configured data directory.
func New(cfg *config.Config) (*Governor, error) {
	store, err := state.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("governor: %w", err)
	}
	store.SetRetention(cfg.HistoryRetention())
	return &Governor{
		cfg:     cfg,
		store:   store,
		records: records.NewStore(cfg.DataDir),
	}, nil
}

// GetState returns the current governance state.
func (g *Governor) GetState() model.GovernanceState {
	return g.store.Get()
}

// CanExpand reports whether new work items may be created right now.
func (g *Governor) CanExpand() Expansion {
	st := g.store.Get()
	return Expansion{
		Allowed:           !st.ExpansionLock,
		Reason:            st.ActiveConstraint,
		InterventionLevel: st.InterventionLevel,
	}
}

// SetCurrentGoal replaces the current goal text.
func (g *Governor) SetCurrentGoal(text string) (model.GovernanceState, error) {
	return g.store.SetCurrentGoal(text)
}

// LockExpansion applies the expansion lock with the given reason.
func (g *Governor) LockExpansion(reason string) (model.GovernanceState, error) {
	return g.store.LockExpansion(reason)
}

// UnlockExpansion lifts the lock. The advisory verdict is not consulted
// here; callers decide whether to honor it.
func (g *Governor) UnlockExpansion() (model.GovernanceState, error) {
	return g.store.UnlockExpansion()
}

// Reset restores the default state. Destructive and explicit-only.
func (g *Governor) Reset() (model.GovernanceState, error) {
	return g.store.Reset()
}

// History returns the retained state snapshots.
func (g *Governor) History() ([]state.HistoryEntry, error) {
	return g.store.History()
}

// DaysAtHighLevel reports the persisted elevation counter without
// advancing it.
func (g *Governor) DaysAtHighLevel() int {
	return g.store.DaysAtHighLevel()
}

// CanUnlock runs the advisory unlock evaluation against the current open
// unresolved-item count.
func (g *Governor) CanUnlock() (unlock.Verdict, error) {
	unresolved, err := g.records.UnresolvedRegistry()
	if err != nil {
		return unlock.Verdict{}, err
	}
	open := 0
	for _, u := range unresolved {
		if u.Status == records.StatusOpen {
			open++
		}
	}
	return unlock.Check(g.store.Get(), open, g.cfg.Thresholds.UnlockMaxUnresolved), nil
}

// Snapshot aggregates metrics over the trailing record window and the
// registries as of now.
func (g *Governor) Snapshot(now time.Time) (metrics.Snapshot, error) {
	recs, err := g.records.Window(now, g.cfg.WindowDays)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	mistakes, err := g.records.MistakeRegistry()
	if err != nil {
		return metrics.Snapshot{}, err
	}
	unresolved, err := g.records.UnresolvedRegistry()
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Aggregate(recs, mistakes, unresolved), nil
}

// CheckIntervention evaluates the rule table against a snapshot without
// executing anything. Uses the persisted days-at-high-level counter without
// advancing it.
func (g *Governor) CheckIntervention(snap metrics.Snapshot) []model.InterventionEvent {
	return rules.Evaluate(g.store.Get(), snap, g.store.DaysAtHighLevel(), g.thresholds())
}

// ExecuteIntervention applies events to the state store, logging every one.
func (g *Governor) ExecuteIntervention(events []model.InterventionEvent, runID string) (intervene.Outcome, error) {
	log, err := intervene.OpenLog(g.cfg.LogPath())
	if err != nil {
		return intervene.Outcome{}, err
	}
	defer log.Close()
	return intervene.NewExecutor(g.store, log).Execute(events, runID)
}

// RunOnce performs one control-loop pass: aggregate, evaluate, execute.
// Each pass carries a fresh run identifier stamped on its log entries.
func (g *Governor) RunOnce(now time.Time) (*RunReport, error) {
	runID := NewRunID()

	snap, err := g.Snapshot(now)
	if err != nil {
		return nil, err
	}

	st := g.store.Get()
	days, err := g.store.ObserveElevation(st, now)
	if err != nil {
		return nil, err
	}

	events := rules.Evaluate(st, snap, days, g.thresholds())

	outcome, err := g.ExecuteIntervention(events, runID)
	if err != nil {
		return nil, err
	}

	return &RunReport{
		RunID:    runID,
		Snapshot: snap,
		Events:   events,
		Outcome:  outcome,
		State:    g.store.Get(),
	}, nil
}

func (g *Governor) thresholds() rules.Thresholds {
	th := g.cfg.Thresholds
	def := rules.DefaultThresholds()
	out := rules.Thresholds{
		TopicWindowLimit: th.TopicWindowLimit,
		UnfinishedLimit:  th.UnfinishedLimit,
		ErrorOccurrences: th.ErrorOccurrences,
		ScatteredStreak:  th.ScatteredStreak,
		HighLevelDays:    th.HighLevelDays,
	}
	if out.TopicWindowLimit <= 0 {
		out.TopicWindowLimit = def.TopicWindowLimit
	}
	if out.UnfinishedLimit <= 0 {
		out.UnfinishedLimit = def.UnfinishedLimit
	}
	if out.ErrorOccurrences <= 0 {
		out.ErrorOccurrences = def.ErrorOccurrences
	}
	if out.ScatteredStreak <= 0 {
		out.ScatteredStreak = def.ScatteredStreak
	}
	if out.HighLevelDays <= 0 {
		out.HighLevelDays = def.HighLevelDays
	}
	return out
}
