package metrics

import (
	"testing"

	"github.com/skyconnfig/cognitive-os/internal/model"
	"github.com/skyconnfig/cognitive-os/internal/records"
)

func rec(date, topic string, energy model.EnergyState) records.DailyRecord {
	return records.DailyRecord{Date: date, MainTopic: topic, Energy: energy}
}

func TestAggregateEmptyWindow(t *testing.T) {
	snap := Aggregate(nil, nil, nil)
	if snap.DaysAnalyzed != 0 || snap.ScatteredStreak != 0 || snap.UnfinishedCount != 0 {
		t.Errorf("empty window should be zero-valued: %+v", snap)
	}
	if len(snap.TopTopics) != 0 || len(snap.RepeatedErrors) != 0 {
		t.Errorf("empty window should have no rankings: %+v", snap)
	}
}

func TestScatteredStreakEndsAtLatestRecord(t *testing.T) {
	recs := []records.DailyRecord{
		rec("2026-08-24", "a", model.EnergyLow),
		rec("2026-08-25", "a", model.EnergyHigh),
		rec("2026-08-26", "a", model.EnergyLow),
		rec("2026-08-27", "a", model.EnergyLow),
		rec("2026-08-28", "a", model.EnergyLow),
	}
	snap := Aggregate(recs, nil, nil)
	if snap.ScatteredStreak != 3 {
		t.Errorf("expected streak 3 ending at latest record, got %d", snap.ScatteredStreak)
	}
}

func TestScatteredStreakResetByLaterRecord(t *testing.T) {
	recs := []records.DailyRecord{
		rec("2026-08-24", "a", model.EnergyLow),
		rec("2026-08-25", "a", model.EnergyLow),
		rec("2026-08-26", "a", model.EnergyLow),
		rec("2026-08-27", "a", model.EnergyNeutral),
	}
	snap := Aggregate(recs, nil, nil)
	if snap.ScatteredStreak != 0 {
		t.Errorf("streak broken by latest record should report 0, got %d", snap.ScatteredStreak)
	}
}

func TestScatteredStreakUsesDateOrderNotInputOrder(t *testing.T) {
	recs := []records.DailyRecord{
		rec("2026-08-28", "a", model.EnergyLow),
		rec("2026-08-26", "a", model.EnergyLow),
		rec("2026-08-27", "a", model.EnergyLow),
		rec("2026-08-25", "a", model.EnergyHigh),
	}
	snap := Aggregate(recs, nil, nil)
	if snap.ScatteredStreak != 3 {
		t.Errorf("expected streak 3 after date sort, got %d", snap.ScatteredStreak)
	}
}

func TestTopTopicsRankingAndTies(t *testing.T) {
	recs := []records.DailyRecord{
		rec("2026-08-20", "cache", model.EnergyNeutral),
		rec("2026-08-21", "parser", model.EnergyNeutral),
		rec("2026-08-22", "cache", model.EnergyNeutral),
		rec("2026-08-23", "parser", model.EnergyNeutral),
		rec("2026-08-24", "deploy", model.EnergyNeutral),
	}
	snap := Aggregate(recs, nil, nil)

	if len(snap.TopTopics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(snap.TopTopics))
	}
	// cache and parser tie at 2; cache was encountered first.
	if snap.TopTopics[0].Topic != "cache" || snap.TopTopics[1].Topic != "parser" {
		t.Errorf("tie should preserve first-encountered order: %+v", snap.TopTopics)
	}
	if snap.TopTopics[2].Topic != "deploy" || snap.TopTopics[2].Count != 1 {
		t.Errorf("unexpected third topic: %+v", snap.TopTopics[2])
	}
}

func TestTopTopicsTruncatedToFive(t *testing.T) {
	var recs []records.DailyRecord
	topics := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, topic := range topics {
		recs = append(recs, rec("2026-08-2"+string(rune('0'+i)), topic, model.EnergyNeutral))
	}
	snap := Aggregate(recs, nil, nil)
	if len(snap.TopTopics) != 5 {
		t.Errorf("expected 5 topics after truncation, got %d", len(snap.TopTopics))
	}
}

func TestRepeatedErrorsFilterAndOrder(t *testing.T) {
	mistakes := []records.MistakeEntry{
		{Type: "scope creep", Occurrences: 2, Status: records.StatusActive},
		{Type: "overengineering", Occurrences: 4, Status: records.StatusActive},
		{Type: "fixed", Occurrences: 5, Status: records.StatusResolved},
		{Type: "once", Occurrences: 1, Status: records.StatusActive},
	}
	snap := Aggregate(nil, mistakes, nil)

	if len(snap.RepeatedErrors) != 2 {
		t.Fatalf("expected 2 repeated errors, got %d", len(snap.RepeatedErrors))
	}
	if snap.RepeatedErrors[0].Type != "overengineering" || snap.RepeatedErrors[1].Type != "scope creep" {
		t.Errorf("expected descending occurrences order: %+v", snap.RepeatedErrors)
	}
}

func TestRepeatedMistakeTypesFromWindow(t *testing.T) {
	recs := []records.DailyRecord{
		{Date: "2026-08-25", Mistakes: []records.Mistake{{Type: "skipped tests"}, {Type: "rushed review"}}},
		{Date: "2026-08-26", Mistakes: []records.Mistake{{Type: "skipped tests"}}},
	}
	snap := Aggregate(recs, nil, nil)

	if len(snap.RepeatedMistakeTypes) != 1 {
		t.Fatalf("expected 1 repeated mistake type, got %d", len(snap.RepeatedMistakeTypes))
	}
	if snap.RepeatedMistakeTypes[0].Type != "skipped tests" || snap.RepeatedMistakeTypes[0].Count != 2 {
		t.Errorf("unexpected repeated mistake: %+v", snap.RepeatedMistakeTypes[0])
	}
	if snap.TotalMistakes != 3 {
		t.Errorf("expected 3 total mistakes, got %d", snap.TotalMistakes)
	}
}

func TestUnfinishedCountRegistryWide(t *testing.T) {
	unresolved := []records.UnresolvedEntry{
		{Topic: "a", Status: records.StatusOpen},
		{Topic: "b", Status: records.StatusOpen},
		{Topic: "c", Status: records.StatusResolved},
	}
	snap := Aggregate(nil, nil, unresolved)
	if snap.UnfinishedCount != 2 {
		t.Errorf("expected 2 open items, got %d", snap.UnfinishedCount)
	}
}

func TestEnergyDistribution(t *testing.T) {
	recs := []records.DailyRecord{
		rec("2026-08-24", "a", model.EnergyHigh),
		rec("2026-08-25", "a", model.EnergyLow),
		rec("2026-08-26", "a", ""),
		rec("2026-08-27", "a", model.EnergyNeutral),
	}
	snap := Aggregate(recs, nil, nil)
	if snap.Energy.High != 1 || snap.Energy.Low != 1 || snap.Energy.Neutral != 2 {
		t.Errorf("unexpected distribution: %+v", snap.Energy)
	}
}
