// Package geo classifies latitudes into biofouling-relevant water bands
// and aggregates position history into exposure summaries.
package geo

import (
	"sort"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// ClassifyWater maps an absolute latitude to its band. Tropical waters end
// at 20 degrees, subtropical at 35.
func ClassifyWater(latitude float64) models.WaterType {
	abs := latitude
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 20:
		return models.WaterTropical
	case abs <= 35:
		return models.WaterSubtropical
	default:
		return models.WaterTemperate
	}
}

// ExposureSummary accumulates time spent per water band.
type ExposureSummary struct {
	TropicalHours    float64 `json:"tropical_hours"`
	SubtropicalHours float64 `json:"subtropical_hours"`
	TemperateHours   float64 `json:"temperate_hours"`
}

// TotalHours is the sum across all bands.
func (s ExposureSummary) TotalHours() float64 {
	return s.TropicalHours + s.SubtropicalHours + s.TemperateHours
}

// TropicalFraction is the share of total time spent in tropical waters.
// Zero when no time has been accumulated.
func (s ExposureSummary) TropicalFraction() float64 {
	total := s.TotalHours()
	if total == 0 {
		return 0
	}
	return s.TropicalHours / total
}

// AggregateExposure attributes the interval between consecutive fixes to
// the band of the earlier fix. Intervals longer than maxGap are treated as
// reporting outages and skipped. Positions are sorted by timestamp before
// aggregation; fewer than two usable fixes yield a zero summary.
func AggregateExposure(positions []models.Position, maxGap time.Duration) ExposureSummary {
	var summary ExposureSummary
	if len(positions) < 2 {
		return summary
	}

	sorted := make([]models.Position, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for i := 0; i < len(sorted)-1; i++ {
		dt := sorted[i+1].Timestamp.Sub(sorted[i].Timestamp)
		if dt <= 0 || dt > maxGap {
			continue
		}
		hours := dt.Hours()
		switch ClassifyWater(sorted[i].Latitude) {
		case models.WaterTropical:
			summary.TropicalHours += hours
		case models.WaterSubtropical:
			summary.SubtropicalHours += hours
		case models.WaterTemperate:
			summary.TemperateHours += hours
		}
	}
	return summary
}
