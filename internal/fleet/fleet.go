// Package fleet aggregates per-ship biofouling states into a fleet-wide
// condition summary.
package fleet

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// topListSize caps the worst/best ship rankings.
const topListSize = 5

// recoverableShare is the fraction of the critical-ship fuel penalty a
// cleaning campaign is assumed to win back.
const recoverableShare = 0.7

// Summarize builds a fleet summary from the latest index per ship.
// criticalCostPerDay prices the excess fuel burn of one critical ship.
func Summarize(latest []models.ShipStatus, criticalCostPerDay float64, now time.Time) *models.FleetSummary {
	summary := &models.FleetSummary{
		Overview: models.FleetOverview{
			TotalShips:         len(latest),
			LevelDistribution:  make(map[int]int),
			StatusDistribution: make(map[models.AlertStatus]int),
		},
		GeneratedAt: now,
	}

	if len(latest) == 0 {
		return summary
	}

	total := 0.0
	for _, s := range latest {
		total += s.Index
		summary.Overview.LevelDistribution[s.Level]++
		summary.Overview.StatusDistribution[s.Status]++
	}
	summary.Overview.AverageIndex = round1(total / float64(len(latest)))

	ranked := make([]models.ShipStatus, len(latest))
	copy(ranked, latest)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Index > ranked[j].Index })

	summary.WorstShips = topN(ranked, topListSize)
	summary.BestShips = bottomN(ranked, topListSize)
	summary.CriticalActions, summary.WatchList = actionLists(ranked)
	summary.Recommendations = recommendations(summary.Overview, len(summary.CriticalActions))
	summary.CostImpact = costImpact(len(summary.CriticalActions), criticalCostPerDay)

	return summary
}

func topN(ranked []models.ShipStatus, n int) []models.ShipStatus {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]models.ShipStatus, n)
	copy(out, ranked[:n])
	return out
}

func bottomN(ranked []models.ShipStatus, n int) []models.ShipStatus {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]models.ShipStatus, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		out = append(out, ranked[i])
	}
	return out
}

func actionLists(ranked []models.ShipStatus) (critical, watch []models.ShipAction) {
	for _, s := range ranked {
		switch s.Status {
		case models.StatusCritical:
			action := "schedule_cleaning"
			if s.Level >= 4 {
				action = "immediate_cleaning"
			}
			critical = append(critical, models.ShipAction{
				ShipName: s.ShipName,
				Index:    s.Index,
				Level:    s.Level,
				Action:   action,
			})
		case models.StatusWarning:
			watch = append(watch, models.ShipAction{
				ShipName: s.ShipName,
				Index:    s.Index,
				Level:    s.Level,
				Action:   "monitor_closely",
			})
		}
	}
	return critical, watch
}

func recommendations(overview models.FleetOverview, criticalCount int) []string {
	var recs []string

	if overview.AverageIndex > 60 {
		recs = append(recs, "Fleet average index exceeds 60. Start a proactive cleaning programme.")
	}
	if overview.TotalShips > 0 {
		criticalShare := float64(criticalCount) / float64(overview.TotalShips)
		if criticalShare > 0.3 {
			recs = append(recs, fmt.Sprintf(
				"%d of %d ships are in critical condition. Review the maintenance protocol.",
				criticalCount, overview.TotalShips))
		}
	}

	return recs
}

func costImpact(criticalCount int, costPerDay float64) models.CostImpact {
	monthly := float64(criticalCount) * costPerDay * 30
	return models.CostImpact{
		CriticalShips:        criticalCount,
		EstimatedMonthlyCost: round2(monthly),
		RecoverableByClean:   round2(monthly * recoverableShare),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
