package biofouling

import (
	"testing"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

func testPredictor() *Predictor {
	p := NewPredictor(DefaultParams())
	p.Now = func() time.Time { return testTime }
	return p
}

func TestPredictCheckpointSchedule(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(30, 90, 0.5, ScenarioOptions{CurrentPattern: true})

	if len(forecast.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(forecast.Scenarios))
	}
	s := forecast.Scenarios[0]
	if s.Name != models.ScenarioCurrentPattern {
		t.Fatalf("unexpected scenario name %q", s.Name)
	}

	wantDays := []int{0, 7, 14, 30, 60, 90}
	if len(s.Predictions) != len(wantDays) {
		t.Fatalf("expected %d points, got %d", len(wantDays), len(s.Predictions))
	}
	for i, want := range wantDays {
		if s.Predictions[i].Day != want {
			t.Errorf("point %d at day %d, want %d", i, s.Predictions[i].Day, want)
		}
	}
}

func TestPredictIncludesNonCheckpointHorizon(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(30, 45, 0.5, ScenarioOptions{CurrentPattern: true})
	points := forecast.Scenarios[0].Predictions
	last := points[len(points)-1]
	if last.Day != 45 {
		t.Fatalf("expected final point at the horizon day 45, got %d", last.Day)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Day <= points[i-1].Day {
			t.Fatal("prediction days must be strictly ascending")
		}
	}
}

func TestPredictConfidenceWidens(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(30, 365, 0.5, ScenarioOptions{CurrentPattern: true})
	points := forecast.Scenarios[0].Predictions

	first := points[0]
	last := points[len(points)-1]
	firstWidth := first.Confidence.Upper - first.Confidence.Lower
	lastWidth := last.Confidence.Upper - last.Confidence.Lower
	if lastWidth <= firstWidth {
		t.Fatalf("confidence interval should widen with horizon: %v vs %v", firstWidth, lastWidth)
	}
}

func TestPredictRouteScenariosForceExposure(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(40, 180, 0.5, DefaultScenarios())
	if len(forecast.Scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(forecast.Scenarios))
	}

	tropical := findScenario(forecast.Scenarios, models.ScenarioTropicalRoute)
	temperate := findScenario(forecast.Scenarios, models.ScenarioTemperateRoute)
	if tropical == nil || temperate == nil {
		t.Fatal("missing route scenarios")
	}

	// 80% exposure grows faster than 20% at every non-zero checkpoint.
	for i := range tropical.Predictions {
		tp, te := tropical.Predictions[i], temperate.Predictions[i]
		if tp.Day == 0 {
			continue
		}
		if tp.Index <= te.Index {
			t.Fatalf("tropical route should outgrow temperate at day %d: %v <= %v", tp.Day, tp.Index, te.Index)
		}
	}
}

func TestMilestoneConsistency(t *testing.T) {
	p := testPredictor()
	params := DefaultParams()
	const current, tropicalPct = 50.0, 0.5

	forecast := p.Predict(current, 365, tropicalPct, ScenarioOptions{CurrentPattern: true})
	s := forecast.Scenarios[0]

	m := findMilestone(s.Milestones, "reaches_level_3")
	if m == nil {
		t.Fatal("expected a level-3 milestone within 365 days")
	}

	threshold := LevelThreshold(3)
	if got := params.FutureIndex(current, m.Day, tropicalPct); got < threshold {
		t.Fatalf("index at milestone day %d is %v, below threshold %v", m.Day, got, threshold)
	}
	if m.Day > 0 {
		if got := params.FutureIndex(current, m.Day-1, tropicalPct); got >= threshold {
			t.Fatalf("index one day before milestone is already %v >= %v", got, threshold)
		}
	}

	wantDate := testTime.AddDate(0, 0, m.Day)
	if !m.EstimatedDate.Equal(wantDate) {
		t.Fatalf("milestone date %v, want %v", m.EstimatedDate, wantDate)
	}
}

func TestMilestonesSortedAndUnique(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(70, 365, 0.8, ScenarioOptions{CurrentPattern: true})
	ms := forecast.Scenarios[0].Milestones

	seen := map[string]bool{}
	for i, m := range ms {
		if seen[m.Event] {
			t.Fatalf("milestone %q recorded twice", m.Event)
		}
		seen[m.Event] = true
		if i > 0 && ms[i].Day < ms[i-1].Day {
			t.Fatal("milestones not sorted by day")
		}
	}
}

func TestCleaningScenario(t *testing.T) {
	p := testPredictor()
	cleaningDay := 20
	forecast := p.Predict(60, 90, 0.5, ScenarioOptions{CleaningAtDay: &cleaningDay})

	s := findScenario(forecast.Scenarios, models.ScenarioCleaningAtDay)
	if s == nil {
		t.Fatal("expected cleaning scenario")
	}

	var atCleaning *models.PredictionPoint
	for i := range s.Predictions {
		if s.Predictions[i].Day == cleaningDay {
			atCleaning = &s.Predictions[i]
		}
	}
	if atCleaning == nil {
		t.Fatal("expected a point exactly at the cleaning day")
	}
	if atCleaning.Index != 5.0 || atCleaning.Level != 0 {
		t.Fatalf("cleaning day point = (%v, level %d), want (5.0, 0)", atCleaning.Index, atCleaning.Level)
	}

	// Post-cleaning points regrow from the reset index, so they sit far
	// below the uncleaned trajectory.
	for _, pt := range s.Predictions {
		if pt.Day > cleaningDay && pt.Index >= 60 {
			t.Fatalf("post-cleaning index at day %d is %v, should have reset", pt.Day, pt.Index)
		}
	}

	if len(s.Milestones) != 1 || s.Milestones[0].Event != "cleaning_performed" || s.Milestones[0].Day != cleaningDay {
		t.Fatalf("expected a single cleaning_performed milestone at day %d, got %+v", cleaningDay, s.Milestones)
	}
}

func TestRecommendImmediateCleaningAtLevel3(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(70, 90, 0.5, ScenarioOptions{CurrentPattern: true})

	var immediate *models.Recommendation
	var schedule *models.Recommendation
	for i := range forecast.Recommendations {
		switch forecast.Recommendations[i].Action {
		case models.ActionImmediateCleaning:
			immediate = &forecast.Recommendations[i]
		case models.ActionScheduleCleaning:
			schedule = &forecast.Recommendations[i]
		}
	}

	if immediate == nil {
		t.Fatal("expected immediate cleaning recommendation at level 3")
	}
	if immediate.Urgency != models.UrgencyHigh {
		t.Errorf("urgency = %q, want high for level 3", immediate.Urgency)
	}
	if immediate.OptimalTimingDays == nil || *immediate.OptimalTimingDays != 0 {
		t.Error("immediate cleaning should have zero timing")
	}

	// Index 70 grows past 75 well within the horizon, so a scheduled
	// cleaning ahead of the level-4 crossing is also recommended.
	if schedule == nil {
		t.Fatal("expected schedule_cleaning recommendation before the level-4 crossing")
	}
	m4 := findMilestone(forecast.Scenarios[0].Milestones, "reaches_level_4")
	if m4 == nil {
		t.Fatal("expected level-4 milestone")
	}
	wantTiming := m4.Day - 3
	if wantTiming < 0 {
		wantTiming = 0
	}
	if schedule.OptimalTimingDays == nil || *schedule.OptimalTimingDays != wantTiming {
		t.Errorf("schedule timing = %v, want %d", schedule.OptimalTimingDays, wantTiming)
	}
	if m4.Day <= 30 && schedule.Urgency != models.UrgencyHigh {
		t.Errorf("urgency = %q, want high for a crossing within 30 days", schedule.Urgency)
	}
}

func TestRecommendRouteOptimization(t *testing.T) {
	p := testPredictor()

	// Index 45 at full tropical exposure crosses level 3 within 60 days;
	// temperate routing delays that crossing by more than 15 days.
	forecast := p.Predict(45, 120, 1.0, DefaultScenarios())

	var route *models.Recommendation
	for i := range forecast.Recommendations {
		if forecast.Recommendations[i].Action == models.ActionRouteOptimization {
			route = &forecast.Recommendations[i]
		}
	}
	if route == nil {
		t.Fatal("expected route optimization recommendation")
	}
	if route.Urgency != models.UrgencyMedium {
		t.Errorf("urgency = %q, want medium", route.Urgency)
	}
	if route.OptimalTimingDays != nil {
		t.Error("route optimization carries no fixed timing")
	}
}

func TestNoRecommendationsForCleanSlowGrowingHull(t *testing.T) {
	p := testPredictor()
	forecast := p.Predict(5, 30, 0.2, DefaultScenarios())
	if len(forecast.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %+v", forecast.Recommendations)
	}
}
