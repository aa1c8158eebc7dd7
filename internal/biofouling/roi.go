package biofouling

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// savingsHorizonDays is the window over which cleaning savings are
// credited.
const savingsHorizonDays = 365

// maxSavingsLeadDays is the latest a cleaning may be scheduled and still be
// credited present-value savings; beyond it the delayed intervention only
// accrues cost.
const maxSavingsLeadDays = 30

// ROIEngine computes the economic return of candidate cleaning strategies.
// Safe for concurrent use.
type ROIEngine struct {
	params Params

	// Now anchors days-until-cleaning. Overridable in tests; defaults to
	// time.Now.
	Now func() time.Time
}

// NewROIEngine returns an engine using the given parameter set.
func NewROIEngine(p Params) *ROIEngine {
	return &ROIEngine{params: p, Now: time.Now}
}

// EvalOptions tunes one evaluation. Zero values take the configured
// defaults.
type EvalOptions struct {
	FuelPricePerTon        float64
	OperationalDaysPerYear int
	DowntimeCostPerDay     float64
	TropicalExposurePct    float64
}

// Evaluate analyses every strategy, picks the highest-ROI one, and attaches
// a rationale plus a two-point fuel-price sensitivity. An empty strategy
// list is an error: there is nothing to recommend.
func (e *ROIEngine) Evaluate(currentIndex float64, strategies []models.Strategy, opts EvalOptions) (*models.ROIEvaluation, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies to evaluate")
	}

	fuelPrice := opts.FuelPricePerTon
	if fuelPrice <= 0 {
		fuelPrice = e.params.DefaultFuelPricePerTon
	}
	downtimeCost := opts.DowntimeCostPerDay
	if downtimeCost <= 0 {
		downtimeCost = e.params.DefaultDowntimeCostPerDay
	}
	operationalDays := opts.OperationalDaysPerYear
	if operationalDays <= 0 {
		operationalDays = 330
	}

	today := e.Now()

	analyzed := make([]models.StrategyAnalysis, 0, len(strategies))
	for _, s := range strategies {
		analyzed = append(analyzed, e.analyzeStrategy(s, currentIndex, fuelPrice, downtimeCost, opts.TropicalExposurePct, today))
	}

	// Ties break in input order: first maximum wins.
	best := 0
	for i := range analyzed {
		if analyzed[i].ROIPercentage > analyzed[best].ROIPercentage {
			best = i
		}
	}

	sensitivity := e.sensitivity(strategies[best], currentIndex, downtimeCost, fuelPrice, opts.TropicalExposurePct, today)

	return &models.ROIEvaluation{
		Analyzed: analyzed,
		Recommendation: models.ROIRecommendation{
			BestStrategy: analyzed[best].Name,
			Rationale:    rationale(analyzed[best], analyzed),
			Sensitivity:  sensitivity,
		},
		Assumptions: models.ROIAssumptions{
			FuelPricePerTon:        fuelPrice,
			DowntimeCostPerDay:     downtimeCost,
			DowntimeDays:           e.params.DowntimeDays,
			OperationalDaysPerYear: operationalDays,
			TropicalExposurePct:    opts.TropicalExposurePct,
		},
	}, nil
}

func (e *ROIEngine) analyzeStrategy(s models.Strategy, currentIndex, fuelPrice, downtimeCost, tropicalPct float64, today time.Time) models.StrategyAnalysis {
	cleaningCost := s.CleaningCost
	if cleaningCost <= 0 {
		cleaningCost = e.params.DefaultCleaningCost
	}

	daysUntilCleaning := daysBetween(today, s.CleaningDate)
	if daysUntilCleaning < 0 {
		daysUntilCleaning = 0
	}

	downtimeTotal := float64(e.params.DowntimeDays) * downtimeCost

	// The cost of waiting: excess fuel burned between today and the
	// cleaning, with the index growing over the delay.
	additionalFuelCost := e.fuelCostOverPeriod(currentIndex, daysUntilCleaning, fuelPrice, tropicalPct, true)

	totalCost := cleaningCost + downtimeTotal + additionalFuelCost

	var fuelCostSaved, fuelSavedTons float64
	if daysUntilCleaning <= maxSavingsLeadDays {
		savingsPeriod := savingsHorizonDays - daysUntilCleaning

		// Post-clean degradation over the horizon is treated as negligible:
		// the restarted index stays below the fuel-penalty floor.
		postCleaningCost := e.fuelCostOverPeriod(e.params.PostCleaningIndex, savingsPeriod, fuelPrice, tropicalPct, false)
		baselineCost := e.fuelCostOverPeriod(currentIndex, savingsPeriod, fuelPrice, tropicalPct, true)

		fuelCostSaved = baselineCost - postCleaningCost
		fuelSavedTons = fuelCostSaved / fuelPrice
	}

	netSavings := fuelCostSaved - totalCost

	var roiPct float64
	if totalCost > 0 {
		roiPct = netSavings / totalCost * 100
	}

	var payback *int
	if dailySavings := fuelCostSaved / savingsHorizonDays; dailySavings > 0 {
		days := int(totalCost / dailySavings)
		payback = &days
	}

	npv := e.npv(totalCost, fuelCostSaved/12, 12)

	return models.StrategyAnalysis{
		Name: s.Name,
		Costs: models.StrategyCosts{
			CleaningCost:       cleaningCost,
			DowntimeCost:       downtimeTotal,
			AdditionalFuelCost: additionalFuelCost,
			TotalCost:          totalCost,
		},
		Savings: models.StrategySavings{
			FuelSavedTons: round1(fuelSavedTons),
			FuelCostSaved: round2(fuelCostSaved),
			NetSavings:    round2(netSavings),
		},
		ROIPercentage:     round1(roiPct),
		PaybackPeriodDays: payback,
		NPV12Months:       round2(npv),
	}
}

// fuelCostOverPeriod integrates the excess fuel cost attributable to
// fouling over the given number of days, partitioned into 30-day buckets.
// With includeGrowth the index is re-projected at each bucket start;
// otherwise it is held constant.
func (e *ROIEngine) fuelCostOverPeriod(index float64, days int, fuelPrice, tropicalPct float64, includeGrowth bool) float64 {
	if days <= 0 {
		return 0
	}

	total := 0.0
	for bucketStart := 0; bucketStart < days; bucketStart += 30 {
		bucketDays := days - bucketStart
		if bucketDays > 30 {
			bucketDays = 30
		}

		bucketIndex := index
		if includeGrowth {
			bucketIndex = e.params.FutureIndex(index, bucketStart, tropicalPct)
		}

		excessFraction := math.Max(0, (bucketIndex-e.params.FoulingFreeIndex)*e.params.ExcessPerIndexPoint)
		excessTonsPerDay := e.params.DailyFuelConsumptionTons * excessFraction

		total += excessTonsPerDay * float64(bucketDays) * fuelPrice
	}
	return total
}

// npv discounts the monthly savings stream against the upfront investment
// at the configured monthly rate.
func (e *ROIEngine) npv(investment, monthlySavings float64, months int) float64 {
	npv := -investment
	for m := 1; m <= months; m++ {
		npv += monthlySavings / math.Pow(1+e.params.MonthlyDiscountRate, float64(m))
	}
	return npv
}

// sensitivity re-runs the best strategy's analysis at fuel price x0.8 and
// x1.2.
func (e *ROIEngine) sensitivity(best models.Strategy, currentIndex, downtimeCost, basePrice, tropicalPct float64, today time.Time) models.SensitivityAnalysis {
	minus := e.analyzeStrategy(best, currentIndex, basePrice*0.8, downtimeCost, tropicalPct, today)
	plus := e.analyzeStrategy(best, currentIndex, basePrice*1.2, downtimeCost, tropicalPct, today)
	return models.SensitivityAnalysis{
		FuelPriceMinus20ROI: minus.ROIPercentage,
		FuelPricePlus20ROI:  plus.ROIPercentage,
	}
}

// rationale concatenates the applicable justification clauses for the
// recommended strategy.
func rationale(best models.StrategyAnalysis, all []models.StrategyAnalysis) string {
	var parts []string

	if best.ROIPercentage > 0 {
		parts = append(parts, fmt.Sprintf("positive ROI of %.1f%%", best.ROIPercentage))
	}
	if best.PaybackPeriodDays != nil && *best.PaybackPeriodDays < 60 {
		parts = append(parts, fmt.Sprintf("payback in %d days", *best.PaybackPeriodDays))
	}
	if best.NPV12Months > 0 {
		parts = append(parts, fmt.Sprintf("12-month NPV of $%.0f", best.NPV12Months))
	}

	var worseTotal float64
	worseCount := 0
	for _, s := range all {
		if s.Name != best.Name && s.ROIPercentage < best.ROIPercentage {
			worseTotal += s.ROIPercentage
			worseCount++
		}
	}
	if worseCount > 0 {
		avg := worseTotal / float64(worseCount)
		parts = append(parts, fmt.Sprintf("ROI %.1f%% better than alternatives", best.ROIPercentage-avg))
	}

	if len(parts) == 0 {
		return "Best available option given the provided parameters."
	}
	return strings.Join(parts, ". ") + "."
}

// daysBetween counts whole calendar days from a to b, negative when b is
// in the past.
func daysBetween(a, b time.Time) int {
	aDate := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDate := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDate.Sub(aDate).Hours() / 24)
}
