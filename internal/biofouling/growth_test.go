package biofouling

import "testing"

func TestFutureIndexZeroDays(t *testing.T) {
	p := DefaultParams()
	if got := p.FutureIndex(50, 0, 0.5); got != 50 {
		t.Fatalf("expected unchanged index for zero days, got %v", got)
	}
	if got := p.FutureIndex(50, -10, 0.5); got != 50 {
		t.Fatalf("expected unchanged index for negative days, got %v", got)
	}
}

func TestFutureIndexGrowsAndStaysBounded(t *testing.T) {
	p := DefaultParams()
	got := p.FutureIndex(50, 30, 0.5)
	if got <= 50 {
		t.Fatalf("expected growth after 30 days, got %v", got)
	}
	if got > 100 {
		t.Fatalf("index exceeded 100: %v", got)
	}
}

func TestFutureIndexSaturation(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		current     float64
		days        int
		tropicalPct float64
	}{
		{95, 365, 0.9},
		{100, 365, 1.0},
		{80, 730, 0.8},
		{0, 3650, 1.0},
	}
	for _, tc := range cases {
		got := p.FutureIndex(tc.current, tc.days, tc.tropicalPct)
		if got > 100 {
			t.Errorf("FutureIndex(%v, %d, %v) = %v, exceeds 100", tc.current, tc.days, tc.tropicalPct, got)
		}
		if got < tc.current {
			t.Errorf("FutureIndex(%v, %d, %v) = %v, dropped below current", tc.current, tc.days, tc.tropicalPct, got)
		}
	}
}

// The milestone binary search depends on the growth curve never decreasing
// with the day offset.
func TestFutureIndexMonotonicInDays(t *testing.T) {
	p := DefaultParams()
	for _, current := range []float64{0, 5, 20, 50, 75, 95} {
		for _, tropicalPct := range []float64{0, 0.2, 0.5, 0.8, 1.0} {
			prev := p.FutureIndex(current, 0, tropicalPct)
			for day := 1; day <= 365; day++ {
				got := p.FutureIndex(current, day, tropicalPct)
				if got < prev {
					t.Fatalf("FutureIndex(%v, %d, %v) = %v < %v at day %d", current, day, tropicalPct, got, prev, day-1)
				}
				prev = got
			}
		}
	}
}

func TestConfidenceMarginWidensWithHorizon(t *testing.T) {
	if confidenceMargin(0) != 3.0 {
		t.Errorf("expected base margin 3.0 at day 0, got %v", confidenceMargin(0))
	}
	if confidenceMargin(365) <= confidenceMargin(7) {
		t.Error("expected margin to widen with horizon")
	}
}
