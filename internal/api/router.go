package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/nereus-marine/hullwatch/internal/biofouling"
	"github.com/nereus-marine/hullwatch/internal/config"
	"github.com/nereus-marine/hullwatch/internal/database"
	"github.com/nereus-marine/hullwatch/internal/fleet"
	"github.com/nereus-marine/hullwatch/internal/geo"
	"github.com/nereus-marine/hullwatch/internal/models"
	"github.com/nereus-marine/hullwatch/internal/recalc"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxGapBetweenFixes bounds the interval attributed to a single AIS fix
// when aggregating exposure.
const maxGapBetweenFixes = 48 * time.Hour

// defaultTropicalExposure is assumed when a ship has no position history.
const defaultTropicalExposure = 0.5

type Server struct {
	db              *database.DB
	cfg             *config.Config
	scheduler       *recalc.Scheduler
	calc            *biofouling.Calculator
	predictor       *biofouling.Predictor
	roi             *biofouling.ROIEngine
	forecastLimiter *rate.Limiter
}

func NewServer(db *database.DB, cfg *config.Config, scheduler *recalc.Scheduler, params biofouling.Params) *Server {
	return &Server{
		db:              db,
		cfg:             cfg,
		scheduler:       scheduler,
		calc:            biofouling.NewCalculator(params),
		predictor:       biofouling.NewPredictor(params),
		roi:             biofouling.NewROIEngine(params),
		forecastLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthCheck)
		r.Get("/status", s.getStatus)

		// Ship registry
		r.Route("/ships", func(r chi.Router) {
			r.Get("/", s.listShips)
			r.Post("/", s.upsertShip)
			r.Get("/{name}", s.getShip)
			r.Get("/{name}/history", s.getShipHistory)
		})

		// Telemetry ingestion
		r.Post("/events", s.ingestEvents)
		r.Post("/positions", s.ingestPositions)

		// Biofouling engine
		r.Route("/biofouling", func(r chi.Router) {
			r.Post("/calculate", s.calculate)
			r.Get("/summary", s.fleetSummary)
		})

		r.With(s.rateLimitForecast).Post("/predictions/forecast", s.forecast)
		r.With(s.rateLimitForecast).Post("/roi/analyze", s.analyzeROI)
	})

	return r
}

// --- Middleware ---

func (s *Server) rateLimitForecast(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.forecastLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded - please wait before requesting another projection")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Health & Status ---

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shipCount, _ := s.db.GetShipCount(ctx)
	runs, _ := s.db.GetLatestRecalcRuns(ctx)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ships":         shipCount,
		"recalc_status": runs,
		"config": map[string]interface{}{
			"recalc_schedule": s.cfg.RecalcSchedule,
			"db_driver":       s.cfg.DBDriver,
		},
	})
}

// --- Ship Registry ---

func (s *Server) listShips(w http.ResponseWriter, r *http.Request) {
	ships, err := s.db.GetAllShips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch ships: "+err.Error())
		return
	}
	if ships == nil {
		ships = []models.Ship{}
	}
	writeJSON(w, http.StatusOK, ships)
}

func (s *Server) upsertShip(w http.ResponseWriter, r *http.Request) {
	var ship models.Ship
	if err := decodeBody(r, &ship); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if ship.Name == "" {
		writeError(w, http.StatusBadRequest, "Ship name is required")
		return
	}

	if err := s.db.UpsertShip(r.Context(), &ship); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ship: "+err.Error())
		return
	}

	saved, err := s.db.GetShipByName(r.Context(), ship.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) getShip(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ship, err := s.db.GetShipByName(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ship == nil {
		writeError(w, http.StatusNotFound, "Ship not found")
		return
	}

	latest, err := s.db.GetLatestIndex(r.Context(), ship.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{"ship": ship}
	if latest != nil {
		status := biofouling.Status(latest.Level)
		resp["current_index"] = latest
		resp["status"] = status
		resp["status_color"] = biofouling.StatusColor(status)
		resp["level_description"] = biofouling.LevelDescription(latest.Level)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getShipHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ship, err := s.db.GetShipByName(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ship == nil {
		writeError(w, http.StatusNotFound, "Ship not found")
		return
	}

	limit := 90
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	history, err := s.db.GetIndexHistory(r.Context(), ship.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []models.IndexRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

// --- Telemetry Ingestion ---

type eventBatch struct {
	ShipName string                   `json:"ship_name"`
	Events   []models.NavigationEvent `json:"events"`
}

func (s *Server) ingestEvents(w http.ResponseWriter, r *http.Request) {
	var batch eventBatch
	if err := decodeBody(r, &batch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if batch.ShipName == "" {
		writeError(w, http.StatusBadRequest, "ship_name is required")
		return
	}
	if len(batch.Events) == 0 {
		writeError(w, http.StatusBadRequest, "No events provided")
		return
	}

	ctx := r.Context()
	ship, err := s.db.GetShipByName(ctx, batch.ShipName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ship == nil {
		// Auto-register unknown ships from the batch's own metadata.
		stub := &models.Ship{Name: batch.ShipName, Class: batch.Events[0].ShipClass}
		if err := s.db.UpsertShip(ctx, stub); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to register ship: "+err.Error())
			return
		}
		ship, err = s.db.GetShipByName(ctx, batch.ShipName)
		if err != nil || ship == nil {
			writeError(w, http.StatusInternalServerError, "Failed to load registered ship")
			return
		}
	}

	for i := range batch.Events {
		batch.Events[i].ShipName = ship.Name
	}

	if err := s.db.InsertEvents(ctx, ship.ID, batch.Events); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store events: "+err.Error())
		return
	}

	if err := s.scheduler.RecalcShip(ctx, ship.Name); err != nil {
		log.Warn().Err(err).Str("ship", ship.Name).Msg("post-ingestion recalculation failed")
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"processing_id": uuid.NewString(),
		"ship":          ship.Name,
		"accepted":      len(batch.Events),
	})
}

type positionBatch struct {
	ShipName  string            `json:"ship_name"`
	Positions []models.Position `json:"positions"`
}

func (s *Server) ingestPositions(w http.ResponseWriter, r *http.Request) {
	var batch positionBatch
	if err := decodeBody(r, &batch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if batch.ShipName == "" {
		writeError(w, http.StatusBadRequest, "ship_name is required")
		return
	}

	ctx := r.Context()
	ship, err := s.db.GetShipByName(ctx, batch.ShipName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ship == nil {
		writeError(w, http.StatusNotFound, "Ship not found")
		return
	}

	accepted := make([]models.Position, 0, len(batch.Positions))
	rejected := 0
	for _, p := range batch.Positions {
		if p.Timestamp.IsZero() || p.Latitude < -90 || p.Latitude > 90 ||
			p.Longitude < -180 || p.Longitude > 180 {
			rejected++
			continue
		}
		accepted = append(accepted, p)
	}

	if err := s.db.InsertPositions(ctx, ship.ID, accepted); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store positions: "+err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"processing_id": uuid.NewString(),
		"ship":          ship.Name,
		"accepted":      len(accepted),
		"rejected":      rejected,
	})
}

// --- Biofouling Engine ---

type calculateRequest struct {
	Events      []models.NavigationEvent `json:"events"`
	ShipLengthM float64                  `json:"ship_length_m,omitempty"`
	LastCleaned map[string]time.Time     `json:"last_cleaned,omitempty"`
}

// calculate runs the index calculation on caller-supplied events without
// touching stored state.
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "No events provided")
		return
	}

	results := s.calc.Compute(req.Events, biofouling.ComputeOptions{
		ShipLengthM: req.ShipLengthM,
		LastCleaned: req.LastCleaned,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) fleetSummary(w http.ResponseWriter, r *http.Request) {
	latest, err := s.db.GetLatestIndices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load fleet state: "+err.Error())
		return
	}

	statuses := make([]models.ShipStatus, 0, len(latest))
	for _, rec := range latest {
		statuses = append(statuses, models.ShipStatus{
			ShipName:     rec.ShipName,
			Index:        rec.Index,
			Level:        rec.Level,
			Status:       biofouling.Status(rec.Level),
			CalculatedAt: rec.CalculatedAt,
		})
	}

	summary := fleet.Summarize(statuses, s.cfg.CriticalCostPerDay, time.Now())
	writeJSON(w, http.StatusOK, summary)
}

// --- Forecasting ---

type forecastRequest struct {
	ShipName     string                      `json:"ship_name"`
	ForecastDays int                         `json:"forecast_days"`
	Scenarios    *biofouling.ScenarioOptions `json:"scenarios,omitempty"`
}

func (s *Server) forecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.ForecastDays <= 0 || req.ForecastDays > 365 {
		writeError(w, http.StatusBadRequest, "forecast_days must be between 1 and 365")
		return
	}

	ship, latest, ok := s.shipWithIndex(w, r, req.ShipName)
	if !ok {
		return
	}

	tropicalPct := s.tropicalExposure(r.Context(), ship.ID)

	opts := biofouling.DefaultScenarios()
	if req.Scenarios != nil {
		opts = *req.Scenarios
	}

	forecast := s.predictor.Predict(latest.Index, req.ForecastDays, tropicalPct, opts)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ship":              ship.Name,
		"current_index":     latest.Index,
		"current_level":     latest.Level,
		"tropical_exposure": tropicalPct,
		"forecast":          forecast,
	})
}

// --- ROI ---

type roiRequest struct {
	ShipName   string            `json:"ship_name"`
	Strategies []models.Strategy `json:"strategies"`
	Options    struct {
		FuelPricePerTon        float64 `json:"fuel_price_per_ton,omitempty"`
		OperationalDaysPerYear int     `json:"operational_days_per_year,omitempty"`
		DowntimeCostPerDay     float64 `json:"downtime_cost_per_day,omitempty"`
	} `json:"options"`
}

func (s *Server) analyzeROI(w http.ResponseWriter, r *http.Request) {
	var req roiRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	ship, latest, ok := s.shipWithIndex(w, r, req.ShipName)
	if !ok {
		return
	}

	eval, err := s.roi.Evaluate(latest.Index, req.Strategies, biofouling.EvalOptions{
		FuelPricePerTon:        req.Options.FuelPricePerTon,
		OperationalDaysPerYear: req.Options.OperationalDaysPerYear,
		DowntimeCostPerDay:     req.Options.DowntimeCostPerDay,
		TropicalExposurePct:    s.tropicalExposure(r.Context(), ship.ID),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ship":          ship.Name,
		"current_index": latest.Index,
		"evaluation":    eval,
	})
}

// --- Helpers ---

// shipWithIndex resolves a ship and its latest index, writing the error
// response itself when either is missing.
func (s *Server) shipWithIndex(w http.ResponseWriter, r *http.Request, name string) (*models.Ship, *models.IndexRecord, bool) {
	if name == "" {
		writeError(w, http.StatusBadRequest, "ship_name is required")
		return nil, nil, false
	}

	ship, err := s.db.GetShipByName(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	if ship == nil {
		writeError(w, http.StatusNotFound, "Ship not found")
		return nil, nil, false
	}

	latest, err := s.db.GetLatestIndex(r.Context(), ship.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "No biofouling index computed for this ship yet")
		return nil, nil, false
	}
	return ship, latest, true
}

// tropicalExposure derives the recent tropical-water share from stored AIS
// positions, falling back to a neutral default without data.
func (s *Server) tropicalExposure(ctx context.Context, shipID int) float64 {
	to := time.Now()
	from := to.AddDate(0, 0, -s.cfg.ExposureWindowDays)

	positions, err := s.db.GetPositionsInRange(ctx, shipID, from, to)
	if err != nil {
		log.Warn().Err(err).Int("ship_id", shipID).Msg("failed to load positions for exposure")
		return defaultTropicalExposure
	}

	summary := geo.AggregateExposure(positions, maxGapBetweenFixes)
	if summary.TotalHours() == 0 {
		return defaultTropicalExposure
	}
	return summary.TropicalFraction()
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 10<<20)) // 10MB limit
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
