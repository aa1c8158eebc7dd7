package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nereus-marine/hullwatch/internal/api"
	"github.com/nereus-marine/hullwatch/internal/biofouling"
	"github.com/nereus-marine/hullwatch/internal/config"
	"github.com/nereus-marine/hullwatch/internal/database"
	"github.com/nereus-marine/hullwatch/internal/recalc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	log.Info().Msg("HullWatch starting up")

	// Load config
	cfg := config.Load()

	// Connect database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Engine parameters with configured economics overrides
	params := biofouling.DefaultParams()
	params.DefaultCleaningCost = cfg.DefaultCleaningCost
	params.DefaultFuelPricePerTon = cfg.DefaultFuelPricePerTon
	params.DefaultDowntimeCostPerDay = cfg.DefaultDowntimeCostPerDay
	params.DowntimeDays = cfg.DowntimeDays
	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid engine parameters")
	}

	// Create recalculation scheduler
	scheduler := recalc.NewScheduler(db, biofouling.NewCalculator(params), cfg)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer scheduler.Stop()

	// Create API server
	srv := api.NewServer(db, cfg, scheduler, params)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("HullWatch stopped")
}
