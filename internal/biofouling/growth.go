package biofouling

import "math"

// FutureIndex projects a biofouling index daysAhead days into the future.
// The model is logarithmic growth scaled by tropical exposure and damped as
// the hull saturates: already-fouled hulls accumulate more slowly in
// relative terms. The result is monotonically non-decreasing in daysAhead
// and clamped to [0, 100].
//
// This is the shared kernel of the predictor and the ROI engine.
func (p Params) FutureIndex(current float64, daysAhead int, tropicalPct float64) float64 {
	if daysAhead <= 0 {
		return current
	}

	tropicalFactor := 1 + tropicalPct*p.TropicalAcceleration

	months := float64(daysAhead) / 30
	growth := p.GrowthRatePerMonth * tropicalFactor * math.Log1p(months)

	saturation := 1 - current/200
	if saturation < 0.3 {
		saturation = 0.3
	}
	growth *= saturation

	return clamp(current+growth, 0, 100)
}

// confidenceMargin widens the prediction interval with the horizon.
func confidenceMargin(days int) float64 {
	return 3.0 + 2*math.Log1p(float64(days)/30)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
