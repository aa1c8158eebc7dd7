// Package recalc runs periodic fleet-wide biofouling index recalculation.
package recalc

import (
	"context"
	"fmt"
	"time"

	"github.com/nereus-marine/hullwatch/internal/biofouling"
	"github.com/nereus-marine/hullwatch/internal/config"
	"github.com/nereus-marine/hullwatch/internal/database"
	"github.com/nereus-marine/hullwatch/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// recentEventWindow caps how many trailing events feed one index
// calculation.
const recentEventWindow = 30

type Scheduler struct {
	db   *database.DB
	calc *biofouling.Calculator
	cfg  *config.Config
	cron *cron.Cron
}

func NewScheduler(db *database.DB, calc *biofouling.Calculator, cfg *config.Config) *Scheduler {
	return &Scheduler{
		db:   db,
		calc: calc,
		cfg:  cfg,
		cron: cron.New(),
	}
}

// Start begins the scheduled recalculation jobs
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.RecalcSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		log.Info().Msg("scheduled fleet recalculation starting")
		if err := s.RecalcFleet(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled fleet recalculation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("adding cron job: %w", err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.cfg.RecalcSchedule).Msg("recalc scheduler started")

	// Run on startup if configured
	if s.cfg.RecalcOnStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			count, _ := s.db.GetShipCount(ctx)
			if count == 0 {
				log.Info().Msg("no ships registered, skipping startup recalculation")
				return
			}
			log.Info().Int("ships", count).Msg("running startup recalculation")
			if err := s.RecalcFleet(ctx); err != nil {
				log.Error().Err(err).Msg("startup recalculation failed")
			}
		}()
	}

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("recalc scheduler stopped")
}

// RecalcFleet recomputes the latest biofouling index for every registered
// ship and records the run in the audit table.
func (s *Scheduler) RecalcFleet(ctx context.Context) error {
	runID, _ := s.db.InsertRecalcRun(ctx, &models.RecalcRun{
		RunType: "fleet",
		Status:  "running",
	})

	ships, err := s.db.GetAllShips(ctx)
	if err != nil {
		s.db.UpdateRecalcRun(ctx, runID, "error", 0, err.Error())
		return fmt.Errorf("loading ships: %w", err)
	}

	count := 0
	for i := range ships {
		if err := s.recalcShip(ctx, &ships[i]); err != nil {
			log.Warn().Err(err).Str("ship", ships[i].Name).Msg("failed to recalculate ship")
			continue
		}
		count++
	}

	s.db.UpdateRecalcRun(ctx, runID, "success", count, "")
	log.Info().Int("recalculated", count).Int("total", len(ships)).Msg("fleet recalculation complete")
	return nil
}

// RecalcShip recomputes a single ship by name.
func (s *Scheduler) RecalcShip(ctx context.Context, name string) error {
	ship, err := s.db.GetShipByName(ctx, name)
	if err != nil {
		return fmt.Errorf("loading ship: %w", err)
	}
	if ship == nil {
		return fmt.Errorf("ship %q not registered", name)
	}
	return s.recalcShip(ctx, ship)
}

func (s *Scheduler) recalcShip(ctx context.Context, ship *models.Ship) error {
	events, err := s.db.GetRecentEvents(ctx, ship.ID, recentEventWindow)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	if len(events) == 0 {
		log.Debug().Str("ship", ship.Name).Msg("no events, skipping recalculation")
		return nil
	}

	opts := biofouling.ComputeOptions{ShipLengthM: ship.LengthM}
	if ship.LastCleaningAt != nil {
		opts.LastCleaned = map[string]time.Time{ship.Name: *ship.LastCleaningAt}
	}

	results := s.calc.Compute(events, opts)
	if len(results) == 0 {
		return nil
	}

	// The last event's result is the ship's current state.
	latest := results[len(results)-1]
	rec := &models.IndexRecord{
		ShipID:       ship.ID,
		CalculatedAt: latest.CalculatedAt,
		Index:        latest.Index,
		Level:        latest.Level,
		Components:   latest.Components,
	}
	if err := s.db.InsertIndexRecord(ctx, rec); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	log.Debug().
		Str("ship", ship.Name).
		Float64("index", latest.Index).
		Int("level", latest.Level).
		Msg("ship index recalculated")
	return nil
}
