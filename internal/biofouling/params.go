// Package biofouling implements the hull biofouling estimation core: a
// physically-motivated scoring model over navigation telemetry, a nonlinear
// growth forecaster and a cleaning-economics engine. Everything here is pure
// in-memory computation; persistence and transport live elsewhere.
//
// Parameter values follow the published naval literature the model was
// designed around: IMO MEPC.207(62) biofouling guidelines, Schultz (2007)
// on coating roughness and ship resistance, and Townsin (2003) on the hull
// fouling penalty.
package biofouling

import (
	"fmt"
	"math"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// ClassBaseline holds the per-class reference figures the efficiency
// component compares against.
type ClassBaseline struct {
	EconomicSpeedKn float64
	OptimalSLR      float64
	DefaultLengthM  float64
}

// Weights are the component weights of the composite index. They must sum
// to 1.0.
type Weights struct {
	Efficiency    float64
	Environmental float64
	Temporal      float64
	Operational   float64
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Efficiency + w.Environmental + w.Temporal + w.Operational
}

// Params carries every tunable of the core. Components receive a Params by
// value at construction; there is no process-wide settings object, so
// parallel callers may run with different parameter sets.
type Params struct {
	Weights       Weights
	Baselines     map[models.ShipClass]ClassBaseline
	FallbackClass models.ShipClass

	// Growth model
	GrowthRatePerMonth   float64 // index points per month at zero tropical exposure
	TropicalAcceleration float64 // rate multiplier per unit of tropical exposure
	PostCleaningIndex    float64 // index a hull restarts from after cleaning

	// Economics
	DailyFuelConsumptionTons  float64 // fleet-average baseline burn
	ExcessPerIndexPoint       float64 // consumption fraction per index point above clean
	FoulingFreeIndex          float64 // index below which no fuel penalty accrues
	MonthlyDiscountRate       float64
	DefaultCleaningCost       float64
	DefaultFuelPricePerTon    float64
	DefaultDowntimeCostPerDay float64
	DowntimeDays              int

	// Efficiency-degradation reference
	BaselineNmPerTon float64
}

// DefaultParams returns the production parameter set.
func DefaultParams() Params {
	return Params{
		Weights: Weights{
			Efficiency:    0.40,
			Environmental: 0.30,
			Temporal:      0.20,
			Operational:   0.10,
		},
		Baselines: map[models.ShipClass]ClassBaseline{
			models.ClassAframax:    {EconomicSpeedKn: 14.5, OptimalSLR: 0.29, DefaultLengthM: 250},
			models.ClassSuezmax:    {EconomicSpeedKn: 14.0, OptimalSLR: 0.27, DefaultLengthM: 274},
			models.ClassMR2:        {EconomicSpeedKn: 14.0, OptimalSLR: 0.30, DefaultLengthM: 180},
			models.ClassGaseiros7k: {EconomicSpeedKn: 15.0, OptimalSLR: 0.31, DefaultLengthM: 140},
		},
		FallbackClass: models.ClassAframax,

		GrowthRatePerMonth:   8.0,
		TropicalAcceleration: 1.5,
		PostCleaningIndex:    5.0,

		DailyFuelConsumptionTons:  50,
		ExcessPerIndexPoint:       0.003,
		FoulingFreeIndex:          20,
		MonthlyDiscountRate:       0.01,
		DefaultCleaningCost:       85000,
		DefaultFuelPricePerTon:    4200,
		DefaultDowntimeCostPerDay: 120000,
		DowntimeDays:              3,

		BaselineNmPerTon: 6.0,
	}
}

// Validate checks the invariants a parameter set must hold.
func (p Params) Validate() error {
	if math.Abs(p.Weights.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("component weights must sum to 1.0, got %v", p.Weights.Sum())
	}
	if _, ok := p.Baselines[p.FallbackClass]; !ok {
		return fmt.Errorf("fallback class %q has no baseline", p.FallbackClass)
	}
	if p.GrowthRatePerMonth <= 0 {
		return fmt.Errorf("growth rate must be positive, got %v", p.GrowthRatePerMonth)
	}
	return nil
}

// baseline resolves the reference figures for a class, falling back to the
// configured default class for unknown values.
func (p Params) baseline(class models.ShipClass) ClassBaseline {
	if b, ok := p.Baselines[class]; ok {
		return b
	}
	return p.Baselines[p.FallbackClass]
}
