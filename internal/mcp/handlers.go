package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skyconnfig/cognitive-os/internal/intervene"
	"github.com/skyconnfig/cognitive-os/internal/model"
)

// --- Input/Output types ---

// StatusInput is empty — no parameters needed.
type StatusInput struct{}

// StatusOutput reports the current governance state.
type StatusOutput struct {
	FocusMode         string `json:"focus_mode"`
	InterventionLevel int    `json:"intervention_level"`
	ExpansionLock     bool   `json:"expansion_lock"`
	ActiveConstraint  string `json:"active_constraint,omitempty"`
	CurrentGoal       string `json:"current_goal,omitempty"`
	StreakDays        int    `json:"streak_days"`
}

// RunInput defines parameters for the cogos_run tool.
type RunInput struct {
	DryRun bool `json:"dry_run,omitempty" jsonschema:"evaluate rules without applying interventions"`
}

// RunOutput summarizes one governance pass.
type RunOutput struct {
	RunID    string                    `json:"run_id,omitempty"`
	Events   []model.InterventionEvent `json:"events"`
	Executed int                       `json:"executed"`
	Skipped  int                       `json:"skipped"`
	Level    int                       `json:"intervention_level"`
	Locked   bool                      `json:"expansion_lock"`
}

// CanExpandInput is empty — no parameters needed.
type CanExpandInput struct{}

// CanExpandOutput is the expansion verdict.
type CanExpandOutput struct {
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason,omitempty"`
	InterventionLevel int    `json:"intervention_level"`
}

// SetGoalInput defines parameters for the cogos_set_goal tool.
type SetGoalInput struct {
	Goal string `json:"goal" jsonschema:"goal text to set on the governance state"`
}

// SetGoalOutput confirms the new goal.
type SetGoalOutput struct {
	CurrentGoal string `json:"current_goal"`
}

// UnlockInput defines parameters for the cogos_unlock tool.
type UnlockInput struct {
	Force bool `json:"force,omitempty" jsonschema:"lift the lock even if the advisory check refuses"`
}

// UnlockOutput reports whether the lock was lifted.
type UnlockOutput struct {
	Unlocked bool   `json:"unlocked"`
	Reason   string `json:"reason,omitempty"`
}

// LogInput defines parameters for the cogos_log tool.
type LogInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"keep only the most recent N entries"`
	RunID string `json:"run_id,omitempty" jsonschema:"filter entries to one run"`
}

// LogOutput lists intervention log entries, oldest first.
type LogOutput struct {
	Entries []intervene.LogEntry `json:"entries"`
}

// --- Handlers ---

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st := s.gov.GetState()
	return nil, StatusOutput{
		FocusMode:         string(st.FocusMode),
		InterventionLevel: st.InterventionLevel,
		ExpansionLock:     st.ExpansionLock,
		ActiveConstraint:  st.ActiveConstraint,
		CurrentGoal:       st.CurrentGoal,
		StreakDays:        st.StreakDays,
	}, nil
}

func (s *Server) handleRun(ctx context.Context, req *mcpsdk.CallToolRequest, input RunInput) (*mcpsdk.CallToolResult, RunOutput, error) {
	now := time.Now().UTC()

	if input.DryRun {
		snap, err := s.gov.Snapshot(now)
		if err != nil {
			return nil, RunOutput{}, err
		}
		events := s.gov.CheckIntervention(snap)
		st := s.gov.GetState()
		return nil, RunOutput{
			Events: events,
			Level:  st.InterventionLevel,
			Locked: st.ExpansionLock,
		}, nil
	}

	report, err := s.gov.RunOnce(now)
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, RunOutput{
		RunID:    report.RunID,
		Events:   report.Events,
		Executed: len(report.Outcome.Executed),
		Skipped:  len(report.Outcome.Skipped),
		Level:    report.State.InterventionLevel,
		Locked:   report.State.ExpansionLock,
	}, nil
}

func (s *Server) handleCanExpand(ctx context.Context, req *mcpsdk.CallToolRequest, input CanExpandInput) (*mcpsdk.CallToolResult, CanExpandOutput, error) {
	exp := s.gov.CanExpand()
	return nil, CanExpandOutput{
		Allowed:           exp.Allowed,
		Reason:            exp.Reason,
		InterventionLevel: exp.InterventionLevel,
	}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, req *mcpsdk.CallToolRequest, input SetGoalInput) (*mcpsdk.CallToolResult, SetGoalOutput, error) {
	st, err := s.gov.SetCurrentGoal(input.Goal)
	if err != nil {
		return nil, SetGoalOutput{}, err
	}
	return nil, SetGoalOutput{CurrentGoal: st.CurrentGoal}, nil
}

func (s *Server) handleUnlock(ctx context.Context, req *mcpsdk.CallToolRequest, input UnlockInput) (*mcpsdk.CallToolResult, UnlockOutput, error) {
	if !input.Force {
		verdict, err := s.gov.CanUnlock()
		if err != nil {
			return nil, UnlockOutput{}, err
		}
		if !verdict.CanUnlock {
			return &mcpsdk.CallToolResult{IsError: true}, UnlockOutput{
				Unlocked: false,
				Reason:   verdict.Reason,
			}, nil
		}
	}

	if _, err := s.gov.UnlockExpansion(); err != nil {
		return nil, UnlockOutput{}, err
	}
	return nil, UnlockOutput{Unlocked: true}, nil
}

func (s *Server) handleLog(ctx context.Context, req *mcpsdk.CallToolRequest, input LogInput) (*mcpsdk.CallToolResult, LogOutput, error) {
	entries, err := intervene.Tail(s.logPath, intervene.TailFilter{
		RunID: input.RunID,
		Limit: input.Limit,
	})
	if err != nil {
		return nil, LogOutput{}, err
	}
	return nil, LogOutput{Entries: entries}, nil
}
