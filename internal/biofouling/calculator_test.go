package biofouling

import (
	"math"
	"testing"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testCalculator() *Calculator {
	c := NewCalculator(DefaultParams())
	c.Now = func() time.Time { return testTime }
	return c
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.05 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	c := testCalculator()
	results := c.Compute(nil, ComputeOptions{})
	if len(results) != 0 {
		t.Fatalf("expected empty results for empty input, got %d", len(results))
	}
	results = c.Compute([]models.NavigationEvent{}, ComputeOptions{})
	if len(results) != 0 {
		t.Fatalf("expected empty results for empty slice, got %d", len(results))
	}
}

func TestComputeSingleAframaxEvent(t *testing.T) {
	c := testCalculator()
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	events := []models.NavigationEvent{{
		ShipName:      "SS CABO FRIO",
		ShipClass:     models.ClassAframax,
		StartDate:     start,
		EndDate:       start.Add(24 * time.Hour),
		DistanceNM:    280,
		DurationHours: 24,
		SpeedKn:       12.0,
		Displacement:  120000,
		Trim:          0.5,
		BeaufortScale: 3,
		Latitude:      -23.5,
		Longitude:     -45.0,
	}}

	results := c.Compute(events, ComputeOptions{ShipLengthM: 250})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]

	// SLR = 12/sqrt(250*3.28084) = 0.419 exceeds the Aframax optimum 0.29,
	// so the SLR deficit is clamped at zero. Speed-vs-displacement deficit:
	// expected speed 14.5*(1-20000/500000) = 13.92, deficit 13.79%.
	// Efficiency = 0.3*13.79 = 4.14.
	approx(t, "efficiency", r.Components.Efficiency, 4.1)

	// |lat| 23.5 is subtropical: temp 63; speed 12 -> 20; beaufort 3 -> 30;
	// coastal 40. Blend = 41.2.
	approx(t, "environmental", r.Components.Environmental, 41.2)

	// Single event: batch minimum is its own date, zero days elapsed.
	approx(t, "temporal", r.Components.Temporal, 0)

	// speed 12 -> 20, load 50, 24h continuous -> 20. Blend = 29.
	approx(t, "operational", r.Components.Operational, 29)

	approx(t, "index", r.Index, 16.9)
	if r.Level != 0 {
		t.Errorf("level = %d, want 0", r.Level)
	}
	if r.Status != models.StatusOK {
		t.Errorf("status = %q, want ok", r.Status)
	}

	if r.EfficiencyMetrics == nil {
		t.Fatal("expected efficiency metrics for event with distance and displacement")
	}
	approx(t, "nm_per_ton", r.EfficiencyMetrics.NmPerTon, 2.33)
	approx(t, "degradation_pct", r.EfficiencyMetrics.DegradationPct, 61.1)

	if !r.CalculatedAt.Equal(testTime) {
		t.Errorf("calculated_at = %v, want injected clock %v", r.CalculatedAt, testTime)
	}
}

func TestTemporalComponentCurve(t *testing.T) {
	c := testCalculator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		offsetDays int
		want       float64
	}{
		{0, 0},
		{30, 10},
		{60, 20},
		{90, 27.5},
		{180, 50},
		{365, 80},
		{548, 90},
		{1200, 100},
	}

	for _, tc := range cases {
		events := []models.NavigationEvent{
			{ShipName: "SHIP A", ShipClass: models.ClassSuezmax, StartDate: base, SpeedKn: 13},
			{ShipName: "SHIP A", ShipClass: models.ClassSuezmax, StartDate: base.AddDate(0, 0, tc.offsetDays), SpeedKn: 13},
		}
		results := c.Compute(events, ComputeOptions{})
		got := results[1].Components.Temporal
		if math.Abs(got-tc.want) > 0.1 {
			t.Errorf("temporal at +%d days = %v, want %v", tc.offsetDays, got, tc.want)
		}
	}
}

func TestTemporalExplicitLastCleaning(t *testing.T) {
	c := testCalculator()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []models.NavigationEvent{{
		ShipName:  "SHIP B",
		StartDate: start,
		SpeedKn:   10,
	}}

	cleaned := start.AddDate(0, 0, -100)
	results := c.Compute(events, ComputeOptions{
		LastCleaned: map[string]time.Time{"SHIP B": cleaned},
	})

	// 100 days since cleaning: 20 + 40/120*30 = 30.
	approx(t, "temporal with explicit cleaning date", results[0].Components.Temporal, 30)
}

func TestTemporalCleaningAfterEventClamped(t *testing.T) {
	c := testCalculator()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []models.NavigationEvent{{
		ShipName:  "SHIP B",
		StartDate: start,
		SpeedKn:   10,
	}}

	// Cleaning recorded 30 days after the event: the hull counts as fresh,
	// never as negative accumulation.
	cleaned := start.AddDate(0, 0, 30)
	results := c.Compute(events, ComputeOptions{
		LastCleaned: map[string]time.Time{"SHIP B": cleaned},
	})

	approx(t, "temporal with future cleaning date", results[0].Components.Temporal, 0)
}

func TestTemporalMissingShipDefaults(t *testing.T) {
	c := testCalculator()
	events := []models.NavigationEvent{{SpeedKn: 10, StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}}
	results := c.Compute(events, ComputeOptions{})
	approx(t, "temporal without ship name", results[0].Components.Temporal, 50)
}

func TestEfficiencyZeroSpeedMidpoint(t *testing.T) {
	c := testCalculator()
	events := []models.NavigationEvent{{
		ShipName:  "SHIP C",
		ShipClass: models.ClassAframax,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SpeedKn:   0,
		Trim:      0.5,
	}}
	results := c.Compute(events, ComputeOptions{})

	// Zero speed: SLR deficit 100 (full shortfall) and speed deficit held
	// at the 50 midpoint. Efficiency = 0.5*100 + 0.3*50 = 65.
	approx(t, "efficiency at zero speed", results[0].Components.Efficiency, 65)
}

func TestTrimPenaltyCapped(t *testing.T) {
	c := testCalculator()
	mk := func(trim float64) models.NavigationEvent {
		return models.NavigationEvent{
			ShipName:  "SHIP D",
			ShipClass: models.ClassAframax,
			StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			SpeedKn:   14.5,
			Trim:      trim,
		}
	}

	// At 14.5 kn both speed deficits vanish for a light Aframax; only the
	// trim penalty contributes. |trim| 4.0 -> (4-0.5)*10 = 35, capped at 30.
	results := c.Compute([]models.NavigationEvent{mk(4.0), mk(-4.0), mk(0.3)}, ComputeOptions{})

	capped := results[0].Components.Efficiency
	if math.Abs(capped-results[1].Components.Efficiency) > 0.01 {
		t.Error("trim penalty should use absolute trim")
	}
	if capped > 0.2*30+0.01 {
		t.Errorf("trim penalty not capped: efficiency = %v", capped)
	}
	if results[2].Components.Efficiency != 0 {
		t.Errorf("trim below 0.5 m should carry no penalty, got %v", results[2].Components.Efficiency)
	}
}

func TestUnknownClassFallsBack(t *testing.T) {
	c := testCalculator()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(class models.ShipClass) models.NavigationEvent {
		return models.NavigationEvent{
			ShipName: "SHIP E", ShipClass: class, StartDate: start,
			SpeedKn: 11, Displacement: 130000, Trim: 0.5, BeaufortScale: 4, Latitude: -10,
		}
	}
	known := c.Compute([]models.NavigationEvent{mk(models.ClassAframax)}, ComputeOptions{})
	unknown := c.Compute([]models.NavigationEvent{mk(models.ShipClass("Panamax"))}, ComputeOptions{})

	if known[0].Index != unknown[0].Index {
		t.Errorf("unknown class should use the fallback baseline: %v != %v", unknown[0].Index, known[0].Index)
	}
}

func TestIndexClampedToRange(t *testing.T) {
	c := testCalculator()
	events := []models.NavigationEvent{{
		ShipName:  "SHIP F",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SpeedKn:   0.1,
		Trim:      50, // pathological
		Latitude:  -5,
	}}
	results := c.Compute(events, ComputeOptions{})
	if results[0].Index < 0 || results[0].Index > 100 {
		t.Fatalf("index out of range: %v", results[0].Index)
	}
}

func TestEfficiencyMetricsOmittedWithoutDistance(t *testing.T) {
	c := testCalculator()
	events := []models.NavigationEvent{{
		ShipName:  "SHIP G",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SpeedKn:   12,
	}}
	results := c.Compute(events, ComputeOptions{})
	if results[0].EfficiencyMetrics != nil {
		t.Fatal("expected no efficiency metrics without distance and displacement")
	}
}
