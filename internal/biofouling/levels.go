package biofouling

import "github.com/nereus-marine/hullwatch/internal/models"

// levelThresholds are the index boundaries of the NORMAM 0-4 scale. A level
// spans [levelThresholds[n], levelThresholds[n+1]).
var levelThresholds = [6]float64{0, 20, 35, 55, 75, 100}

// Level maps a biofouling index to its NORMAM severity level (0-4).
func Level(index float64) int {
	switch {
	case index < 20:
		return 0
	case index < 35:
		return 1
	case index < 55:
		return 2
	case index < 75:
		return 3
	default:
		return 4
	}
}

// LevelThreshold returns the index at which the given level begins.
func LevelThreshold(level int) float64 {
	if level < 0 {
		return 0
	}
	if level > 5 {
		level = 5
	}
	return levelThresholds[level]
}

// Status maps a NORMAM level to its alert status.
func Status(level int) models.AlertStatus {
	switch {
	case level <= 1:
		return models.StatusOK
	case level == 2:
		return models.StatusWarning
	default:
		return models.StatusCritical
	}
}

// LevelDescription returns the inspection-scale description of a level.
func LevelDescription(level int) string {
	switch level {
	case 0:
		return "Clean - no visible fouling"
	case 1:
		return "Microfouling - biofilm/slime, minimal impact"
	case 2:
		return "Light macrofouling - 1-15% coverage"
	case 3:
		return "Moderate macrofouling - 16-40% coverage"
	case 4:
		return "Heavy macrofouling - >40% coverage"
	default:
		return "Unknown level"
	}
}

// StatusColor returns the display colour associated with an alert status.
func StatusColor(status models.AlertStatus) string {
	switch status {
	case models.StatusOK:
		return "#22c55e"
	case models.StatusWarning:
		return "#f59e0b"
	case models.StatusCritical:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}
