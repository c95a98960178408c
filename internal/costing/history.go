package costing

import (
	"time"

	"mise/internal/models"
)

// RecordSnapshot appends a cost snapshot to a recipe's history. A snapshot
// taken on the same calendar day as the latest entry overwrites that entry
// instead of appending, so recalculating several times a day keeps a single
// figure per day.
func RecordSnapshot(history []models.CostSnapshot, cost float64, now time.Time) []models.CostSnapshot {
	if n := len(history); n > 0 && sameDay(history[n-1].Date, now) {
		history[n-1].Cost = cost
		history[n-1].Date = now
		return history
	}
	return append(history, models.CostSnapshot{Date: now, Cost: cost})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Trend summarizes a recipe's cost history
type Trend struct {
	Samples       int     `json:"samples"`
	FirstCost     float64 `json:"first_cost"`
	LatestCost    float64 `json:"latest_cost"`
	MinCost       float64 `json:"min_cost"`
	MaxCost       float64 `json:"max_cost"`
	AverageCost   float64 `json:"average_cost"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// SummarizeHistory computes trend figures over a history, oldest first
func SummarizeHistory(history []models.CostSnapshot) Trend {
	t := Trend{Samples: len(history)}
	if len(history) == 0 {
		return t
	}
	t.FirstCost = history[0].Cost
	t.LatestCost = history[len(history)-1].Cost
	t.MinCost = history[0].Cost
	t.MaxCost = history[0].Cost
	var sum float64
	for _, s := range history {
		if s.Cost < t.MinCost {
			t.MinCost = s.Cost
		}
		if s.Cost > t.MaxCost {
			t.MaxCost = s.Cost
		}
		sum += s.Cost
	}
	t.AverageCost = sum / float64(len(history))
	t.Change = t.LatestCost - t.FirstCost
	if t.FirstCost != 0 {
		t.ChangePercent = t.Change / t.FirstCost * 100
	}
	return t
}
