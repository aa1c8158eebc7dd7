package biofouling

import (
	"fmt"
	"sort"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// checkpointDays is the fixed sampling schedule for scenario projections.
var checkpointDays = []int{0, 7, 14, 30, 60, 90, 120, 180, 365}

// milestoneSearchHorizon bounds the binary search for level crossings.
const milestoneSearchHorizon = 365

// Predictor projects the biofouling index forward under named operating
// scenarios and derives maintenance recommendations. Safe for concurrent
// use.
type Predictor struct {
	params Params

	// Now anchors milestone calendar dates. Overridable in tests;
	// defaults to time.Now.
	Now func() time.Time
}

// NewPredictor returns a predictor using the given parameter set.
func NewPredictor(p Params) *Predictor {
	return &Predictor{params: p, Now: time.Now}
}

// ScenarioOptions selects which scenarios a forecast includes.
type ScenarioOptions struct {
	CurrentPattern bool `json:"current_pattern"`
	TropicalRoute  bool `json:"tropical_route"`
	TemperateRoute bool `json:"temperate_route"`

	// CleaningAtDay, when set, adds a scenario where a cleaning resets the
	// index at the given day offset.
	CleaningAtDay *int `json:"cleaning_at_day,omitempty"`
}

// DefaultScenarios enables the three route scenarios and no cleaning.
func DefaultScenarios() ScenarioOptions {
	return ScenarioOptions{CurrentPattern: true, TropicalRoute: true, TemperateRoute: true}
}

// Predict builds the requested scenarios from the current index and
// exposure mix, then synthesises recommendations against the
// current-pattern baseline.
func (p *Predictor) Predict(currentIndex float64, forecastDays int, tropicalPct float64, opts ScenarioOptions) models.Forecast {
	var scenarios []models.Scenario

	if opts.CurrentPattern {
		scenarios = append(scenarios, p.projectScenario(
			models.ScenarioCurrentPattern,
			"Maintaining the current operating pattern",
			currentIndex, forecastDays, tropicalPct,
		))
	}
	if opts.TropicalRoute {
		scenarios = append(scenarios, p.projectScenario(
			models.ScenarioTropicalRoute,
			"Predominantly tropical routing (lat < 20 deg)",
			currentIndex, forecastDays, 0.8,
		))
	}
	if opts.TemperateRoute {
		scenarios = append(scenarios, p.projectScenario(
			models.ScenarioTemperateRoute,
			"Predominantly temperate routing (lat > 35 deg)",
			currentIndex, forecastDays, 0.2,
		))
	}
	if opts.CleaningAtDay != nil {
		scenarios = append(scenarios, p.projectCleaningScenario(
			currentIndex, forecastDays, *opts.CleaningAtDay, tropicalPct,
		))
	}

	return models.Forecast{
		Scenarios:       scenarios,
		Recommendations: p.recommendations(currentIndex, scenarios, forecastDays),
	}
}

// projectScenario samples the growth curve over the checkpoint schedule and
// records level-3/level-4 crossing milestones.
func (p *Predictor) projectScenario(name models.ScenarioName, description string, currentIndex float64, forecastDays int, tropicalPct float64) models.Scenario {
	days := make([]int, 0, len(checkpointDays)+1)
	seen := false
	for _, d := range checkpointDays {
		if d > forecastDays {
			continue
		}
		if d == forecastDays {
			seen = true
		}
		days = append(days, d)
	}
	if !seen {
		days = append(days, forecastDays)
	}
	sort.Ints(days)

	predictions := make([]models.PredictionPoint, 0, len(days))
	maxLevel := 0
	for _, day := range days {
		predicted := p.params.FutureIndex(currentIndex, day, tropicalPct)
		level := Level(predicted)
		if level > maxLevel {
			maxLevel = level
		}
		margin := confidenceMargin(day)
		predictions = append(predictions, models.PredictionPoint{
			Day:   day,
			Index: round1(predicted),
			Level: level,
			Confidence: models.ConfidenceInterval{
				Lower: round1(predicted - margin),
				Upper: round1(predicted + margin),
			},
		})
	}

	today := p.Now()
	var milestones []models.Milestone
	for _, level := range []int{3, 4} {
		if maxLevel < level {
			continue
		}
		day := p.estimateDayForLevel(currentIndex, level, tropicalPct)
		if day > forecastDays {
			continue
		}
		milestones = append(milestones, models.Milestone{
			Event:         fmt.Sprintf("reaches_level_%d", level),
			Day:           day,
			EstimatedDate: today.AddDate(0, 0, day),
		})
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].Day < milestones[j].Day })

	return models.Scenario{
		Name:        name,
		Description: description,
		Predictions: predictions,
		Milestones:  milestones,
	}
}

// projectCleaningScenario samples weekly up to the cleaning day, resets the
// index at the cleaning itself, then resamples every 30 days regrowing from
// the post-cleaning index.
func (p *Predictor) projectCleaningScenario(currentIndex float64, forecastDays, cleaningDay int, tropicalPct float64) models.Scenario {
	var predictions []models.PredictionPoint

	for day := 0; day < cleaningDay && day <= forecastDays; day += 7 {
		predicted := p.params.FutureIndex(currentIndex, day, tropicalPct)
		predictions = append(predictions, models.PredictionPoint{
			Day:   day,
			Index: round1(predicted),
			Level: Level(predicted),
			Confidence: models.ConfidenceInterval{
				Lower: round1(predicted - 3),
				Upper: round1(predicted + 3),
			},
		})
	}

	if cleaningDay <= forecastDays {
		predictions = append(predictions, models.PredictionPoint{
			Day:   cleaningDay,
			Index: p.params.PostCleaningIndex,
			Level: Level(p.params.PostCleaningIndex),
			Confidence: models.ConfidenceInterval{
				Lower: 3.0,
				Upper: 10.0,
			},
		})
	}

	for day := cleaningDay + 30; day <= forecastDays; day += 30 {
		predicted := p.params.FutureIndex(p.params.PostCleaningIndex, day-cleaningDay, tropicalPct)
		predictions = append(predictions, models.PredictionPoint{
			Day:   day,
			Index: round1(predicted),
			Level: Level(predicted),
			Confidence: models.ConfidenceInterval{
				Lower: round1(predicted - 5),
				Upper: round1(predicted + 5),
			},
		})
	}

	sort.Slice(predictions, func(i, j int) bool { return predictions[i].Day < predictions[j].Day })

	return models.Scenario{
		Name:        models.ScenarioCleaningAtDay,
		Description: fmt.Sprintf("Cleaning performed on day %d", cleaningDay),
		Predictions: predictions,
		Milestones: []models.Milestone{{
			Event:         "cleaning_performed",
			Day:           cleaningDay,
			EstimatedDate: p.Now().AddDate(0, 0, cleaningDay),
		}},
	}
}

// estimateDayForLevel binary-searches for the smallest day at which the
// projected index crosses the given level's threshold. Correct because
// FutureIndex is monotonically non-decreasing in the day offset.
func (p *Predictor) estimateDayForLevel(currentIndex float64, level int, tropicalPct float64) int {
	target := LevelThreshold(level)
	if currentIndex >= target {
		return 0
	}

	low, high := 0, milestoneSearchHorizon
	for low < high {
		mid := (low + high) / 2
		if p.params.FutureIndex(currentIndex, mid, tropicalPct) < target {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// recommendations applies the deterministic rule list against the
// current-pattern scenario (or the first scenario when absent).
func (p *Predictor) recommendations(currentIndex float64, scenarios []models.Scenario, forecastDays int) []models.Recommendation {
	var recs []models.Recommendation

	base := findScenario(scenarios, models.ScenarioCurrentPattern)
	if base == nil && len(scenarios) > 0 {
		base = &scenarios[0]
	}
	if base == nil {
		return recs
	}

	if m := findMilestone(base.Milestones, "reaches_level_4"); m != nil && m.Day <= forecastDays {
		timing := m.Day - 3
		if timing < 0 {
			timing = 0
		}
		urgency := models.UrgencyMedium
		if m.Day <= 30 {
			urgency = models.UrgencyHigh
		}
		recs = append(recs, models.Recommendation{
			Action:            models.ActionScheduleCleaning,
			Urgency:           urgency,
			OptimalTimingDays: &timing,
			Reasoning:         fmt.Sprintf("Cleaning before day %d avoids reaching the critical level", m.Day),
		})
	}

	if currentLevel := Level(currentIndex); currentLevel >= 3 {
		urgency := models.UrgencyHigh
		if currentLevel >= 4 {
			urgency = models.UrgencyCritical
		}
		timing := 0
		recs = append(recs, models.Recommendation{
			Action:            models.ActionImmediateCleaning,
			Urgency:           urgency,
			OptimalTimingDays: &timing,
			Reasoning:         fmt.Sprintf("Ship is at NORMAM level %d. Immediate cleaning recommended.", currentLevel),
		})
	}

	if m3 := findMilestone(base.Milestones, "reaches_level_3"); m3 != nil && m3.Day <= 60 {
		if temperate := findScenario(scenarios, models.ScenarioTemperateRoute); temperate != nil {
			if t3 := findMilestone(temperate.Milestones, "reaches_level_3"); t3 != nil && t3.Day > m3.Day+15 {
				recs = append(recs, models.Recommendation{
					Action:    models.ActionRouteOptimization,
					Urgency:   models.UrgencyMedium,
					Reasoning: fmt.Sprintf("Temperate routing could delay level 3 by %d days", t3.Day-m3.Day),
				})
			}
		}
	}

	return recs
}

func findScenario(scenarios []models.Scenario, name models.ScenarioName) *models.Scenario {
	for i := range scenarios {
		if scenarios[i].Name == name {
			return &scenarios[i]
		}
	}
	return nil
}

func findMilestone(milestones []models.Milestone, event string) *models.Milestone {
	for i := range milestones {
		if milestones[i].Event == event {
			return &milestones[i]
		}
	}
	return nil
}
