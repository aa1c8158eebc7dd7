package fleet

import (
	"testing"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

var summaryTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func status(name string, index float64, level int, alert models.AlertStatus) models.ShipStatus {
	return models.ShipStatus{
		ShipName:     name,
		Index:        index,
		Level:        level,
		Status:       alert,
		CalculatedAt: summaryTime,
	}
}

func TestSummarizeEmptyFleet(t *testing.T) {
	s := Summarize(nil, 5000, summaryTime)
	if s.Overview.TotalShips != 0 {
		t.Fatalf("total ships = %d, want 0", s.Overview.TotalShips)
	}
	if s.Overview.AverageIndex != 0 {
		t.Errorf("average = %v, want 0", s.Overview.AverageIndex)
	}
	if len(s.Recommendations) != 0 {
		t.Errorf("unexpected recommendations %v", s.Recommendations)
	}
	if !s.GeneratedAt.Equal(summaryTime) {
		t.Errorf("generated at %v, want %v", s.GeneratedAt, summaryTime)
	}
}

func TestSummarizeDistributionsAndAverage(t *testing.T) {
	latest := []models.ShipStatus{
		status("alpha", 10, 0, models.StatusOK),
		status("bravo", 30, 1, models.StatusOK),
		status("charlie", 45, 2, models.StatusWarning),
		status("delta", 60, 3, models.StatusCritical),
	}

	s := Summarize(latest, 5000, summaryTime)

	if s.Overview.TotalShips != 4 {
		t.Fatalf("total = %d, want 4", s.Overview.TotalShips)
	}
	if s.Overview.AverageIndex != 36.3 {
		t.Errorf("average = %v, want 36.3", s.Overview.AverageIndex)
	}
	if s.Overview.LevelDistribution[0] != 1 || s.Overview.LevelDistribution[3] != 1 {
		t.Errorf("level distribution %v", s.Overview.LevelDistribution)
	}
	if s.Overview.StatusDistribution[models.StatusOK] != 2 ||
		s.Overview.StatusDistribution[models.StatusWarning] != 1 ||
		s.Overview.StatusDistribution[models.StatusCritical] != 1 {
		t.Errorf("status distribution %v", s.Overview.StatusDistribution)
	}
}

func TestSummarizeRankings(t *testing.T) {
	latest := []models.ShipStatus{
		status("a", 10, 0, models.StatusOK),
		status("b", 80, 4, models.StatusCritical),
		status("c", 45, 2, models.StatusWarning),
		status("d", 62, 3, models.StatusCritical),
		status("e", 25, 1, models.StatusOK),
		status("f", 5, 0, models.StatusOK),
		status("g", 55, 3, models.StatusCritical),
	}

	s := Summarize(latest, 5000, summaryTime)

	if len(s.WorstShips) != 5 || len(s.BestShips) != 5 {
		t.Fatalf("rankings capped at 5, got %d/%d", len(s.WorstShips), len(s.BestShips))
	}
	if s.WorstShips[0].ShipName != "b" || s.WorstShips[1].ShipName != "d" {
		t.Errorf("worst order wrong: %v, %v", s.WorstShips[0].ShipName, s.WorstShips[1].ShipName)
	}
	if s.BestShips[0].ShipName != "f" || s.BestShips[1].ShipName != "a" {
		t.Errorf("best order wrong: %v, %v", s.BestShips[0].ShipName, s.BestShips[1].ShipName)
	}
}

func TestSummarizeActionLists(t *testing.T) {
	latest := []models.ShipStatus{
		status("level4", 80, 4, models.StatusCritical),
		status("level3", 60, 3, models.StatusCritical),
		status("level2", 45, 2, models.StatusWarning),
		status("clean", 10, 0, models.StatusOK),
	}

	s := Summarize(latest, 5000, summaryTime)

	if len(s.CriticalActions) != 2 {
		t.Fatalf("critical actions = %d, want 2", len(s.CriticalActions))
	}
	if s.CriticalActions[0].ShipName != "level4" || s.CriticalActions[0].Action != "immediate_cleaning" {
		t.Errorf("level-4 ship action = %+v", s.CriticalActions[0])
	}
	if s.CriticalActions[1].Action != "schedule_cleaning" {
		t.Errorf("level-3 ship action = %q, want schedule_cleaning", s.CriticalActions[1].Action)
	}
	if len(s.WatchList) != 1 || s.WatchList[0].Action != "monitor_closely" {
		t.Errorf("watch list = %+v", s.WatchList)
	}
}

func TestSummarizeRecommendations(t *testing.T) {
	// Average 70 with every ship critical: both rules fire.
	latest := []models.ShipStatus{
		status("a", 80, 4, models.StatusCritical),
		status("b", 70, 3, models.StatusCritical),
		status("c", 60, 3, models.StatusCritical),
	}

	s := Summarize(latest, 5000, summaryTime)
	if len(s.Recommendations) != 2 {
		t.Fatalf("recommendations = %v, want 2 entries", s.Recommendations)
	}

	// A healthy fleet triggers neither rule.
	healthy := []models.ShipStatus{
		status("x", 10, 0, models.StatusOK),
		status("y", 25, 1, models.StatusOK),
	}
	if s := Summarize(healthy, 5000, summaryTime); len(s.Recommendations) != 0 {
		t.Errorf("healthy fleet recommendations = %v, want none", s.Recommendations)
	}
}

func TestSummarizeCostImpact(t *testing.T) {
	latest := []models.ShipStatus{
		status("a", 80, 4, models.StatusCritical),
		status("b", 60, 3, models.StatusCritical),
		status("c", 10, 0, models.StatusOK),
	}

	s := Summarize(latest, 5000, summaryTime)
	ci := s.CostImpact
	if ci.CriticalShips != 2 {
		t.Fatalf("critical ships = %d, want 2", ci.CriticalShips)
	}
	if ci.EstimatedMonthlyCost != 300000 {
		t.Errorf("monthly cost = %v, want 300000", ci.EstimatedMonthlyCost)
	}
	if ci.RecoverableByClean != 210000 {
		t.Errorf("recoverable = %v, want 210000", ci.RecoverableByClean)
	}
}
