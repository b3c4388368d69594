package model

import (
	"errors"
	"time"
)

// FocusMode classifies the user's current attention pattern.
type FocusMode string

const (
	FocusDeep      FocusMode = "deep"
	FocusScattered FocusMode = "scattered"
	FocusNeutral   FocusMode = "neutral"
)

// Valid reports whether the focus mode is one of the known values.
func (fm FocusMode) Valid() bool {
	switch fm {
	case FocusDeep, FocusScattered, FocusNeutral:
		return true
	}
	return false
}

// EnergyState classifies the energy level reported on a daily record.
type EnergyState string

const (
	EnergyHigh    EnergyState = "high"
	EnergyNeutral EnergyState = "neutral"
	EnergyLow     EnergyState = "low"
)

// Intervention level bounds. Level 1 is the floor and the default.
const (
	LevelLight    = 1
	LevelModerate = 2
	LevelSevere   = 3

	MinLevel = LevelLight
	MaxLevel = LevelSevere
)

// ValidLevel reports whether n is inside the intervention level bounds.
func ValidLevel(n int) bool {
	return n >= MinLevel && n <= MaxLevel
}

// ErrInvalidLevel is returned when a mutation would push the intervention
// level outside [MinLevel, MaxLevel].
var ErrInvalidLevel = errors.New("intervention level outside [1,3]")

// ErrInvalidFocusMode is returned when a mutation carries an unknown focus mode.
var ErrInvalidFocusMode = errors.New("unknown focus mode")

// GovernanceState is the single persisted governance record.
//
// INVARIANT: InterventionLevel is always in [MinLevel, MaxLevel].
// INVARIANT: ActiveConstraint is non-empty if and only if ExpansionLock is true.
type GovernanceState struct {
	FocusMode         FocusMode `json:"focus_mode"`
	ExpansionLock     bool      `json:"expansion_lock"`
	ActiveConstraint  string    `json:"active_constraint,omitempty"`
	InterventionLevel int       `json:"intervention_level"`
	CurrentGoal       string    `json:"current_goal,omitempty"`
	StreakDays        int       `json:"streak_days"`
	LastUpdate        time.Time `json:"last_update"`
	CreatedAt         time.Time `json:"created_at"`
}

// DefaultState returns the state created on first access: level 1, no lock.
func DefaultState(now time.Time) GovernanceState {
	return GovernanceState{
		FocusMode:         FocusNeutral,
		InterventionLevel: LevelLight,
		LastUpdate:        now,
		CreatedAt:         now,
	}
}

// Validate checks the state invariants.
func (s GovernanceState) Validate() error {
	if !ValidLevel(s.InterventionLevel) {
		return ErrInvalidLevel
	}
	if !s.FocusMode.Valid() {
		return ErrInvalidFocusMode
	}
	if s.ExpansionLock != (s.ActiveConstraint != "") {
		return errors.New("expansion lock and active constraint out of sync")
	}
	return nil
}

// StateDelta is a partial update to GovernanceState. Nil fields are left
// unchanged by Apply.
type StateDelta struct {
	FocusMode         *FocusMode
	ExpansionLock     *bool
	ActiveConstraint  *string
	InterventionLevel *int
	CurrentGoal       *string
	StreakDays        *int
}

// Apply merges the delta into s and validates the result. The receiver is
// not modified; the merged state is returned.
func (d StateDelta) Apply(s GovernanceState) (GovernanceState, error) {
	if d.FocusMode != nil {
		s.FocusMode = *d.FocusMode
	}
	if d.ExpansionLock != nil {
		s.ExpansionLock = *d.ExpansionLock
	}
	if d.ActiveConstraint != nil {
		s.ActiveConstraint = *d.ActiveConstraint
	}
	if d.InterventionLevel != nil {
		s.InterventionLevel = *d.InterventionLevel
	}
	if d.CurrentGoal != nil {
		s.CurrentGoal = *d.CurrentGoal
	}
	if d.StreakDays != nil {
		s.StreakDays = *d.StreakDays
	}
	if err := s.Validate(); err != nil {
		return GovernanceState{}, err
	}
	return s, nil
}

// ActionKind identifies what an intervention event asks the executor to do.
type ActionKind string

const (
	ActionLockExpansion        ActionKind = "lock_expansion"
	ActionForceCounterStrategy ActionKind = "force_counter_strategy"
	ActionDegradeLevel         ActionKind = "degrade_level"
	ActionWarnScattered        ActionKind = "warn_scattered"
)

// InterventionEvent is a proposed constraint produced by rule evaluation.
// It is not applied until the executor processes it.
type InterventionEvent struct {
	Type    string         `json:"type"`
	Level   int            `json:"level"`
	Message string         `json:"message"`
	Action  ActionKind     `json:"action"`
	Data    map[string]any `json:"data,omitempty"`
}
