// Package metrics computes an immutable snapshot over a trailing window of
// behavioral records plus the mistake and unresolved registries.
package metrics

import (
	"sort"

	"github.com/skyconnfig/cognitive-os/internal/model"
	"github.com/skyconnfig/cognitive-os/internal/records"
)

// topTopicLimit caps the ranked topic list.
const topTopicLimit = 5

// repeatedMin is the minimum count for an error or mistake type to be
// reported as repeated.
const repeatedMin = 2

// TopicCount ranks a topic by its frequency in the window.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// RepeatedError is an unresolved mistake registry entry seen at least twice.
type RepeatedError struct {
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Occurrences int    `json:"occurrences"`
	Status      string `json:"status"`
}

// MistakeTypeCount tallies a mistake type across the window's records.
type MistakeTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// EnergyDistribution counts records per energy state.
type EnergyDistribution struct {
	High    int `json:"high"`
	Neutral int `json:"neutral"`
	Low     int `json:"low"`
}

// Snapshot is the aggregator's output. Recomputed on every evaluation and
// never persisted.
type Snapshot struct {
	DaysAnalyzed         int                `json:"days_analyzed"`
	TotalDecisions       int                `json:"total_decisions"`
	TotalMistakes        int                `json:"total_mistakes"`
	TotalInsights        int                `json:"total_insights"`
	Energy               EnergyDistribution `json:"energy_distribution"`
	TopTopics            []TopicCount       `json:"top_topics,omitempty"`
	RepeatedErrors       []RepeatedError    `json:"repeated_errors,omitempty"`
	RepeatedMistakeTypes []MistakeTypeCount `json:"repeated_mistake_types,omitempty"`
	ScatteredStreak      int                `json:"scattered_streak"`
	UnfinishedCount      int                `json:"unfinished_count"`
}

// Aggregate computes a snapshot from the window records and registries.
// Records are processed in ascending date order regardless of input order.
// An empty window yields a zero-valued snapshot; Aggregate never fails.
func Aggregate(recs []records.DailyRecord, mistakes []records.MistakeEntry, unresolved []records.UnresolvedEntry) Snapshot {
	sorted := make([]records.DailyRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	snap := Snapshot{DaysAnalyzed: len(sorted)}

	topicCounts := make(map[string]int)
	var topicOrder []string
	mistakeCounts := make(map[string]int)
	var mistakeOrder []string

	for _, rec := range sorted {
		snap.TotalDecisions += len(rec.Decisions)
		snap.TotalMistakes += len(rec.Mistakes)
		snap.TotalInsights += len(rec.Insights)

		switch rec.Energy {
		case model.EnergyHigh:
			snap.Energy.High++
		case model.EnergyLow:
			snap.Energy.Low++
		default:
			snap.Energy.Neutral++
		}

		// Streak of low-energy records ending at the most recent record.
		// Any other value resets it, so a mid-window streak reports zero.
		if rec.Energy == model.EnergyLow {
			snap.ScatteredStreak++
		} else {
			snap.ScatteredStreak = 0
		}

		if rec.MainTopic != "" {
			if _, seen := topicCounts[rec.MainTopic]; !seen {
				topicOrder = append(topicOrder, rec.MainTopic)
			}
			topicCounts[rec.MainTopic]++
		}

		for _, m := range rec.Mistakes {
			if m.Type == "" {
				continue
			}
			if _, seen := mistakeCounts[m.Type]; !seen {
				mistakeOrder = append(mistakeOrder, m.Type)
			}
			mistakeCounts[m.Type]++
		}
	}

	snap.TopTopics = rankTopics(topicCounts, topicOrder)
	snap.RepeatedErrors = repeatedErrors(mistakes)
	snap.RepeatedMistakeTypes = repeatedMistakeTypes(mistakeCounts, mistakeOrder)

	for _, u := range unresolved {
		if u.Status == records.StatusOpen {
			snap.UnfinishedCount++
		}
	}

	return snap
}

// rankTopics sorts topics by descending count, ties broken by
// first-encountered order, truncated to the top five.
func rankTopics(counts map[string]int, order []string) []TopicCount {
	out := make([]TopicCount, 0, len(order))
	for _, topic := range order {
		out = append(out, TopicCount{Topic: topic, Count: counts[topic]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > topTopicLimit {
		out = out[:topTopicLimit]
	}
	return out
}

// repeatedErrors keeps unresolved registry entries seen at least twice,
// sorted by descending occurrences.
func repeatedErrors(entries []records.MistakeEntry) []RepeatedError {
	var out []RepeatedError
	for _, e := range entries {
		if e.Occurrences < repeatedMin || e.Status == records.StatusResolved {
			continue
		}
		out = append(out, RepeatedError{
			Type:        e.Type,
			Category:    e.Category,
			Occurrences: e.Occurrences,
			Status:      e.Status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Occurrences > out[j].Occurrences
	})
	return out
}

func repeatedMistakeTypes(counts map[string]int, order []string) []MistakeTypeCount {
	var out []MistakeTypeCount
	for _, typ := range order {
		if counts[typ] >= repeatedMin {
			out = append(out, MistakeTypeCount{Type: typ, Count: counts[typ]})
		}
	}
	return out
}
