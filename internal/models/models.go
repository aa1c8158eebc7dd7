package models

import "time"

// --- Enumerations ---

// ShipClass identifies a vessel class. Unknown classes fall back to the
// Aframax baselines during index calculation.
type ShipClass string

const (
	ClassAframax    ShipClass = "Aframax"
	ClassSuezmax    ShipClass = "Suezmax"
	ClassMR2        ShipClass = "MR2"
	ClassGaseiros7k ShipClass = "Gaseiros 7k"
)

// AlertStatus is the coarse alert state derived from the NORMAM level.
type AlertStatus string

const (
	StatusOK       AlertStatus = "ok"
	StatusWarning  AlertStatus = "warning"
	StatusCritical AlertStatus = "critical"
)

// WaterType is the latitude-band classification used as a growth-rate proxy.
type WaterType string

const (
	WaterTropical    WaterType = "tropical"
	WaterSubtropical WaterType = "subtropical"
	WaterTemperate   WaterType = "temperate"
)

// ScenarioName identifies a forecast scenario.
type ScenarioName string

const (
	ScenarioCurrentPattern ScenarioName = "current_pattern"
	ScenarioTropicalRoute  ScenarioName = "tropical_route"
	ScenarioTemperateRoute ScenarioName = "temperate_route"
	ScenarioCleaningAtDay  ScenarioName = "cleaning_at_day"
)

// Urgency grades a maintenance recommendation.
type Urgency string

const (
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// RecommendedAction is the action a recommendation asks for.
type RecommendedAction string

const (
	ActionScheduleCleaning  RecommendedAction = "schedule_cleaning"
	ActionImmediateCleaning RecommendedAction = "immediate_cleaning"
	ActionRouteOptimization RecommendedAction = "consider_route_optimization"
)

// --- Fleet registry ---

type Ship struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Class          ShipClass  `json:"class"`
	LengthM        float64    `json:"length_m,omitempty"`
	LastCleaningAt *time.Time `json:"last_cleaning_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// --- Navigation events (calculator input) ---

// NavigationEvent is one voyage/day segment of operational telemetry.
// Zero values on Displacement and DurationHours are treated as absent and
// replaced with the documented defaults (120,000 t and 24 h) during
// calculation; all other fields are taken as reported.
type NavigationEvent struct {
	ShipName      string    `json:"ship_name"`
	ShipClass     ShipClass `json:"ship_class,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DistanceNM    float64   `json:"distance_nm"`
	DurationHours float64   `json:"duration_hours"`
	SpeedKn       float64   `json:"speed"`
	Displacement  float64   `json:"displacement"`
	AftDraft      float64   `json:"aft_draft"`
	FwdDraft      float64   `json:"fwd_draft"`
	MidDraft      float64   `json:"mid_draft"`
	Trim          float64   `json:"trim"`
	BeaufortScale int       `json:"beaufort_scale"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
}

// --- Index results (calculator output) ---

type ComponentScores struct {
	Efficiency    float64 `json:"efficiency"`
	Environmental float64 `json:"environmental"`
	Temporal      float64 `json:"temporal"`
	Operational   float64 `json:"operational"`
}

type EfficiencyMetrics struct {
	NmPerTon         float64 `json:"nm_per_ton"`
	BaselineNmPerTon float64 `json:"baseline_nm_per_ton"`
	DegradationPct   float64 `json:"degradation_pct"`
}

// IndexResult is the computed biofouling state for one navigation event.
// Derived, never mutated after creation.
type IndexResult struct {
	EventIndex        int                `json:"event_index"`
	ShipName          string             `json:"ship_name"`
	Index             float64            `json:"index"`
	Level             int                `json:"normam_level"`
	Status            AlertStatus        `json:"status"`
	Components        ComponentScores    `json:"components"`
	EfficiencyMetrics *EfficiencyMetrics `json:"efficiency_metrics,omitempty"`
	CalculatedAt      time.Time          `json:"calculated_at"`
}

// IndexRecord is a persisted IndexResult tied to a registered ship.
type IndexRecord struct {
	ID           int             `json:"id"`
	ShipID       int             `json:"ship_id"`
	ShipName     string          `json:"ship_name,omitempty"`
	CalculatedAt time.Time       `json:"calculated_at"`
	Index        float64         `json:"index"`
	Level        int             `json:"normam_level"`
	Components   ComponentScores `json:"components"`
}

// --- Forecasting ---

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type PredictionPoint struct {
	Day        int                `json:"day"`
	Index      float64            `json:"index"`
	Level      int                `json:"normam_level"`
	Confidence ConfidenceInterval `json:"confidence_interval"`
}

type Milestone struct {
	Event         string    `json:"event"`
	Day           int       `json:"estimated_day"`
	EstimatedDate time.Time `json:"estimated_date"`
}

type Scenario struct {
	Name        ScenarioName      `json:"scenario_name"`
	Description string            `json:"description"`
	Predictions []PredictionPoint `json:"predictions"`
	Milestones  []Milestone       `json:"milestones"`
}

type Recommendation struct {
	Action            RecommendedAction `json:"action"`
	Urgency           Urgency           `json:"urgency"`
	OptimalTimingDays *int              `json:"optimal_timing_days"`
	Reasoning         string            `json:"reasoning"`
}

type Forecast struct {
	Scenarios       []Scenario       `json:"scenarios"`
	Recommendations []Recommendation `json:"recommendations"`
}

// --- Cleaning economics ---

// Strategy is a candidate cleaning intervention. A zero CleaningCost means
// the configured default cost applies.
type Strategy struct {
	Name         string    `json:"name"`
	CleaningDate time.Time `json:"cleaning_date"`
	CleaningCost float64   `json:"cleaning_cost,omitempty"`
}

type StrategyCosts struct {
	CleaningCost       float64 `json:"cleaning_cost"`
	DowntimeCost       float64 `json:"downtime_cost"`
	AdditionalFuelCost float64 `json:"additional_fuel_cost"`
	TotalCost          float64 `json:"total_cost"`
}

type StrategySavings struct {
	FuelSavedTons float64 `json:"fuel_saved_tons"`
	FuelCostSaved float64 `json:"fuel_cost_saved"`
	NetSavings    float64 `json:"net_savings"`
}

type StrategyAnalysis struct {
	Name              string          `json:"name"`
	Costs             StrategyCosts   `json:"costs"`
	Savings           StrategySavings `json:"savings"`
	ROIPercentage     float64         `json:"roi_percentage"`
	PaybackPeriodDays *int            `json:"payback_period_days"`
	NPV12Months       float64         `json:"npv_12_months"`
}

// SensitivityAnalysis reports the best strategy's ROI under fuel-price
// variation of +/-20%.
type SensitivityAnalysis struct {
	FuelPriceMinus20ROI float64 `json:"fuel_price_minus_20_pct_roi"`
	FuelPricePlus20ROI  float64 `json:"fuel_price_plus_20_pct_roi"`
}

type ROIRecommendation struct {
	BestStrategy string              `json:"best_strategy"`
	Rationale    string              `json:"rationale"`
	Sensitivity  SensitivityAnalysis `json:"sensitivity_analysis"`
}

// ROIAssumptions echoes the parameters an evaluation ran under.
type ROIAssumptions struct {
	FuelPricePerTon        float64 `json:"fuel_price_per_ton"`
	DowntimeCostPerDay     float64 `json:"downtime_cost_per_day"`
	DowntimeDays           int     `json:"downtime_days"`
	OperationalDaysPerYear int     `json:"operational_days_per_year"`
	TropicalExposurePct    float64 `json:"tropical_exposure_pct"`
}

type ROIEvaluation struct {
	Analyzed       []StrategyAnalysis `json:"analyzed_strategies"`
	Recommendation ROIRecommendation  `json:"recommendation"`
	Assumptions    ROIAssumptions     `json:"assumptions"`
}

// --- Fleet summary ---

// ShipStatus is the latest computed state of one ship, used as fleet
// summary input.
type ShipStatus struct {
	ShipName     string      `json:"ship_name"`
	Class        ShipClass   `json:"class,omitempty"`
	Index        float64     `json:"index"`
	Level        int         `json:"normam_level"`
	Status       AlertStatus `json:"status"`
	CalculatedAt time.Time   `json:"calculated_at"`
}

type FleetOverview struct {
	TotalShips         int                 `json:"total_ships"`
	AverageIndex       float64             `json:"average_index"`
	LevelDistribution  map[int]int         `json:"level_distribution"`
	StatusDistribution map[AlertStatus]int `json:"status_distribution"`
}

// ShipAction pairs a ship with the maintenance action its state calls for.
type ShipAction struct {
	ShipName string  `json:"ship_name"`
	Index    float64 `json:"index"`
	Level    int     `json:"normam_level"`
	Action   string  `json:"action"`
}

// CostImpact estimates the monthly fuel penalty of the fleet's critical
// ships and the share recoverable by cleaning.
type CostImpact struct {
	CriticalShips        int     `json:"critical_ships"`
	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`
	RecoverableByClean   float64 `json:"recoverable_by_cleaning"`
}

type FleetSummary struct {
	Overview        FleetOverview `json:"overview"`
	WorstShips      []ShipStatus  `json:"worst_ships"`
	BestShips       []ShipStatus  `json:"best_ships"`
	CriticalActions []ShipAction  `json:"critical_actions"`
	WatchList       []ShipAction  `json:"watch_list"`
	Recommendations []string      `json:"recommendations"`
	CostImpact      CostImpact    `json:"cost_impact"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// --- Position history ---

type Position struct {
	ID        int       `json:"id,omitempty"`
	ShipID    int       `json:"ship_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SpeedKn   float64   `json:"speed,omitempty"`
	Heading   float64   `json:"heading,omitempty"`
}

// --- Background recalculation audit ---

type RecalcRun struct {
	ID           int       `json:"id"`
	RunType      string    `json:"run_type"`
	Status       string    `json:"status"`
	ItemCount    int       `json:"item_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}
