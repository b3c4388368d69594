// Package rules maps a governance state and metrics snapshot to intervention
// events. Evaluation is pure: no storage access, no mutation.
package rules

import (
	"fmt"

	"github.com/skyconnfig/cognitive-os/internal/metrics"
	"github.com/skyconnfig/cognitive-os/internal/model"
)

// Rule type names, in table order.
const (
	RuleExpansionLimit    = "expansion_limit"
	RuleUnfinishedLimit   = "unfinished_limit"
	RuleErrorRecurrence   = "error_recurrence"
	RuleScatteredStreak   = "scattered_streak"
	RuleHighLevelDuration = "high_level_duration"
)

// Thresholds holds the firing conditions for the rule table.
type Thresholds struct {
	TopicWindowLimit int // expansion_limit: top topic count in window
	UnfinishedLimit  int // unfinished_limit: open unresolved items
	ErrorOccurrences int // error_recurrence: registry occurrences
	ScatteredStreak  int // scattered_streak: trailing low-energy records
	HighLevelDays    int // high_level_duration: days at severe level
}

// DefaultThresholds returns the built-in rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TopicWindowLimit: 7,
		UnfinishedLimit:  5,
		ErrorOccurrences: 3,
		ScatteredStreak:  3,
		HighLevelDays:    3,
	}
}

// Evaluate runs the fixed rule table against the snapshot and returns the
// events that fire, in table order. Each rule is evaluated independently;
// several may fire in one pass. daysAtHighLevel is the separately tracked
// count of consecutive days spent at severe level.
func Evaluate(state model.GovernanceState, snap metrics.Snapshot, daysAtHighLevel int, th Thresholds) []model.InterventionEvent {
	var events []model.InterventionEvent

	// expansion_limit: one topic dominates the window.
	if len(snap.TopTopics) > 0 && snap.TopTopics[0].Count >= th.TopicWindowLimit {
		top := snap.TopTopics[0]
		events = append(events, model.InterventionEvent{
			Type:   RuleExpansionLimit,
			Level:  model.LevelModerate,
			Action: model.ActionLockExpansion,
			Message: fmt.Sprintf("topic %q appeared in %d of the last %d records; no new work items until it cools down",
				top.Topic, top.Count, snap.DaysAnalyzed),
			Data: map[string]any{"topic": top.Topic, "count": top.Count},
		})
	}

	// unfinished_limit: too many open items registry-wide.
	if snap.UnfinishedCount >= th.UnfinishedLimit {
		events = append(events, model.InterventionEvent{
			Type:   RuleUnfinishedLimit,
			Level:  model.LevelSevere,
			Action: model.ActionLockExpansion,
			Message: fmt.Sprintf("%d unfinished items open; close some before starting anything new",
				snap.UnfinishedCount),
			Data: map[string]any{"unfinished_count": snap.UnfinishedCount},
		})
	}

	// error_recurrence: one event per qualifying repeated error. The
	// snapshot already orders repeated errors by descending occurrences.
	for _, re := range snap.RepeatedErrors {
		if re.Occurrences < th.ErrorOccurrences {
			continue
		}
		events = append(events, model.InterventionEvent{
			Type:   RuleErrorRecurrence,
			Level:  model.LevelModerate,
			Action: model.ActionForceCounterStrategy,
			Message: fmt.Sprintf("mistake %q has recurred %d times; apply a counter-strategy before continuing",
				re.Type, re.Occurrences),
			Data: map[string]any{
				"type":        re.Type,
				"category":    re.Category,
				"occurrences": re.Occurrences,
			},
		})
	}

	// scattered_streak: trailing run of low-energy records.
	if snap.ScatteredStreak >= th.ScatteredStreak {
		events = append(events, model.InterventionEvent{
			Type:   RuleScatteredStreak,
			Level:  model.LevelLight,
			Action: model.ActionWarnScattered,
			Message: fmt.Sprintf("energy has been low for %d records in a row; consider a recovery day",
				snap.ScatteredStreak),
			Data: map[string]any{"scattered_streak": snap.ScatteredStreak},
		})
	}

	// high_level_duration: enough days at severe level earn a step down.
	if state.InterventionLevel >= model.LevelSevere && daysAtHighLevel >= th.HighLevelDays {
		events = append(events, model.InterventionEvent{
			Type:   RuleHighLevelDuration,
			Level:  model.LevelLight,
			Action: model.ActionDegradeLevel,
			Message: fmt.Sprintf("%d days at severe level; stepping the constraint down",
				daysAtHighLevel),
			Data: map[string]any{"days_at_high_level": daysAtHighLevel},
		})
	}

	return events
}
