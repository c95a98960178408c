package costing

import (
	"testing"
	"time"

	"mise/internal/models"
)

func TestRecordSnapshot_AppendsAcrossDays(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	var history []models.CostSnapshot
	history = RecordSnapshot(history, 12.5, day1)
	history = RecordSnapshot(history, 13.0, day2)

	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}
	nearlyEqual(t, "first cost", history[0].Cost, 12.5)
	nearlyEqual(t, "second cost", history[1].Cost, 13.0)
}

func TestRecordSnapshot_SameDayOverwritesInPlace(t *testing.T) {
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	var history []models.CostSnapshot
	history = RecordSnapshot(history, 12.5, morning)
	history = RecordSnapshot(history, 14.25, evening)

	if len(history) != 1 {
		t.Fatalf("expected same-day snapshots to collapse, got %d entries", len(history))
	}
	nearlyEqual(t, "cost", history[0].Cost, 14.25)
	if !history[0].Date.Equal(evening) {
		t.Fatalf("expected timestamp %v, got %v", evening, history[0].Date)
	}
}

func TestRecordSnapshot_OnlyLatestEntryIsCompared(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	var history []models.CostSnapshot
	history = RecordSnapshot(history, 10, day1)
	history = RecordSnapshot(history, 11, day2)
	// A snapshot dated like the first entry still appends: dedupe is
	// against the latest entry only, history stays append-ordered.
	history = RecordSnapshot(history, 12, day1.Add(2*time.Hour))

	if len(history) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(history))
	}
}

func TestSummarizeHistory(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	history := []models.CostSnapshot{
		{Date: base, Cost: 10},
		{Date: base.AddDate(0, 0, 1), Cost: 14},
		{Date: base.AddDate(0, 0, 2), Cost: 12},
	}

	trend := SummarizeHistory(history)

	if trend.Samples != 3 {
		t.Fatalf("expected 3 samples, got %d", trend.Samples)
	}
	nearlyEqual(t, "first", trend.FirstCost, 10)
	nearlyEqual(t, "latest", trend.LatestCost, 12)
	nearlyEqual(t, "min", trend.MinCost, 10)
	nearlyEqual(t, "max", trend.MaxCost, 14)
	nearlyEqual(t, "average", trend.AverageCost, 12)
	nearlyEqual(t, "change", trend.Change, 2)
	nearlyEqual(t, "change percent", trend.ChangePercent, 20)
}

func TestSummarizeHistory_Empty(t *testing.T) {
	trend := SummarizeHistory(nil)
	if trend.Samples != 0 {
		t.Fatalf("expected 0 samples, got %d", trend.Samples)
	}
	nearlyEqual(t, "average", trend.AverageCost, 0)
}
