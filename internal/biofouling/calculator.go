package biofouling

import (
	"math"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

const (
	metersToFeet        = 3.28084
	defaultDisplacement = 120000 // tonnes, applied when an event reports none
	defaultDurationH    = 24     // hours, applied when an event reports none
)

// Calculator converts navigation events into biofouling index results.
// It is safe for concurrent use; every call is a pure function of its
// inputs apart from the injectable clock.
type Calculator struct {
	params Params

	// Now supplies the calculation timestamp. Overridable in tests;
	// defaults to time.Now.
	Now func() time.Time
}

// NewCalculator returns a calculator using the given parameter set.
func NewCalculator(p Params) *Calculator {
	return &Calculator{params: p, Now: time.Now}
}

// ComputeOptions tunes a single Compute call.
type ComputeOptions struct {
	// ShipLengthM overrides the per-class default hull length. Zero means
	// use the class default.
	ShipLengthM float64

	// LastCleaned gives an explicit last-cleaning date per ship name for
	// the temporal component. Ships absent from the map fall back to the
	// earliest event timestamp within the batch, the documented proxy for
	// a cleaning date the telemetry does not carry.
	LastCleaned map[string]time.Time
}

// Compute scores each event and returns one IndexResult per input event, in
// input order. An empty input yields an empty result, not an error. Events
// are assumed pre-validated by the boundary layer; missing optional fields
// take documented defaults.
func (c *Calculator) Compute(events []models.NavigationEvent, opts ComputeOptions) []models.IndexResult {
	results := make([]models.IndexResult, 0, len(events))
	if len(events) == 0 {
		return results
	}

	refDates := c.referenceDates(events, opts.LastCleaned)
	now := c.Now()

	for i, ev := range events {
		eff := c.efficiencyScore(ev, opts.ShipLengthM)
		env := environmentalScore(ev)
		tmp := temporalScore(ev, refDates)
		ops := operationalScore(ev)

		w := c.params.Weights
		index := w.Efficiency*eff + w.Environmental*env + w.Temporal*tmp + w.Operational*ops
		index = clamp(index, 0, 100)

		level := Level(index)

		result := models.IndexResult{
			EventIndex: i,
			ShipName:   ev.ShipName,
			Index:      round1(index),
			Level:      level,
			Status:     Status(level),
			Components: models.ComponentScores{
				Efficiency:    round1(eff),
				Environmental: round1(env),
				Temporal:      round1(tmp),
				Operational:   round1(ops),
			},
			CalculatedAt: now,
		}

		if ev.DistanceNM > 0 && ev.Displacement > 0 {
			result.EfficiencyMetrics = c.efficiencyMetrics(ev)
		}

		results = append(results, result)
	}

	return results
}

// referenceDates resolves the temporal-component reference date per ship:
// an explicit last-cleaning date when provided, otherwise the earliest
// event timestamp for that ship within the batch.
func (c *Calculator) referenceDates(events []models.NavigationEvent, lastCleaned map[string]time.Time) map[string]time.Time {
	refs := make(map[string]time.Time)
	for _, ev := range events {
		if ev.ShipName == "" || ev.StartDate.IsZero() {
			continue
		}
		if ref, ok := refs[ev.ShipName]; !ok || ev.StartDate.Before(ref) {
			refs[ev.ShipName] = ev.StartDate
		}
	}
	for name, cleaned := range lastCleaned {
		refs[name] = cleaned
	}
	return refs
}

// efficiencyScore measures hydrodynamic degradation: fouling raises hull
// roughness, and resistance grows roughly with the square of speed. Blend
// of speed-length-ratio deficit (50%), speed-vs-displacement deficit (30%)
// and trim penalty (20%), clamped to [0, 100].
func (c *Calculator) efficiencyScore(ev models.NavigationEvent, lengthM float64) float64 {
	baseline := c.params.baseline(ev.ShipClass)

	if lengthM <= 0 {
		lengthM = baseline.DefaultLengthM
	}
	lengthFeet := lengthM * metersToFeet

	// SLR = V(kn) / sqrt(L(ft)); running below the class optimum signals
	// added resistance.
	slr := ev.SpeedKn / math.Sqrt(lengthFeet)
	slrDeficit := math.Max(0, (baseline.OptimalSLR-slr)/baseline.OptimalSLR*100)

	// Heavier ships run slower; compare against the economically expected
	// speed for the reported displacement.
	displacement := ev.Displacement
	if displacement == 0 {
		displacement = defaultDisplacement
	}
	expectedSpeed := baseline.EconomicSpeedKn * (1 - (displacement-100000)/500000)

	var speedDeficit float64
	if ev.SpeedKn > 0 {
		speedDeficit = math.Max(0, (expectedSpeed-ev.SpeedKn)/expectedSpeed*100)
	} else {
		speedDeficit = 50 // no speed reading, assume midpoint
	}

	// Trim away from the ~0.5 m optimum adds resistance.
	trim := math.Abs(ev.Trim)
	var trimPenalty float64
	if trim > 0.5 {
		trimPenalty = math.Min(30, (trim-0.5)*10)
	}

	score := 0.5*slrDeficit + 0.3*speedDeficit + 0.2*trimPenalty
	return clamp(score, 0, 100)
}

// environmentalScore measures exposure to conditions that favour growth:
// warm water (latitude proxy), slow speed (larval settlement), calm seas,
// and coastal nutrient load. Blend 40/30/20/10; every input is already
// bounded so no clamp is needed.
func environmentalScore(ev models.NavigationEvent) float64 {
	latAbs := math.Abs(ev.Latitude)
	var tempScore float64
	switch {
	case latAbs <= 20:
		tempScore = 100 // tropical, maximum growth
	case latAbs <= 35:
		tempScore = 70 - (latAbs-20)*2 // subtropical
	default:
		tempScore = 30 // temperate, slow growth
	}

	var speedScore float64
	switch {
	case ev.SpeedKn < 5:
		speedScore = 80 // near-stationary, maximum settlement
	case ev.SpeedKn < 10:
		speedScore = 50
	default:
		speedScore = 20
	}

	// Rough seas scrub organisms off the hull.
	beaufortScore := math.Max(0, 60-float64(ev.BeaufortScale)*10)

	// No bathymetry data available; assume a middling coastal exposure.
	const coastalScore = 40

	return 0.40*tempScore + 0.30*speedScore + 0.20*beaufortScore + 0.10*coastalScore
}

// temporalScore models progressive accumulation since the reference date:
// biofilm first, macro-organism settlement, accelerated growth, then a
// saturating critical state. Missing ship or date falls back to the
// midpoint score.
func temporalScore(ev models.NavigationEvent, refDates map[string]time.Time) float64 {
	if ev.ShipName == "" || ev.StartDate.IsZero() {
		return 50
	}
	ref, ok := refDates[ev.ShipName]
	if !ok {
		return 50
	}

	// A cleaning date after the event means a freshly cleaned hull at the
	// time of the event, not negative accumulation.
	days := ev.StartDate.Sub(ref).Hours() / 24
	if days < 0 {
		days = 0
	}
	switch {
	case days <= 60:
		return days / 60 * 20
	case days <= 180:
		return 20 + (days-60)/120*30
	case days <= 365:
		return 50 + (days-180)/185*30
	default:
		return 80 + math.Min(20, (days-365)/365*20)
	}
}

// operationalScore measures operating patterns that favour fouling: low
// utilisation, constant loading and intermittent navigation. Blend 50/30/20.
func operationalScore(ev models.NavigationEvent) float64 {
	var utilScore float64
	switch {
	case ev.SpeedKn < 8:
		utilScore = 70
	case ev.SpeedKn < 12:
		utilScore = 40
	default:
		utilScore = 20
	}

	// Constant displacement keeps the same waterline submerged; a proper
	// treatment needs draft time-series analysis, so hold the midpoint.
	const loadScore = 50

	duration := ev.DurationHours
	if duration == 0 {
		duration = defaultDurationH
	}
	var continuityScore float64
	if duration > 20 {
		continuityScore = 20 // continuous operation suppresses settlement
	} else {
		continuityScore = 60
	}

	return 0.50*utilScore + 0.30*loadScore + 0.20*continuityScore
}

// efficiencyMetrics derives miles-per-tonne degradation against the fixed
// fleet baseline. Caller guarantees distance and displacement are present.
func (c *Calculator) efficiencyMetrics(ev models.NavigationEvent) *models.EfficiencyMetrics {
	nmPerTon := ev.DistanceNM / (ev.Displacement / 1000)
	degradation := math.Max(0, (c.params.BaselineNmPerTon-nmPerTon)/c.params.BaselineNmPerTon*100)
	return &models.EfficiencyMetrics{
		NmPerTon:         round2(nmPerTon),
		BaselineNmPerTon: c.params.BaselineNmPerTon,
		DegradationPct:   round1(degradation),
	}
}
