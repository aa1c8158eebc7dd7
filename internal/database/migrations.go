package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

func (db *DB) migrate() error {
	log.Info().Msg("running database migrations")

	migrations := []string{
		db.migrationShips(),
		db.migrationNavigationEvents(),
		db.migrationBiofoulingIndices(),
		db.migrationAISPositions(),
		db.migrationRecalcRuns(),
	}

	for i, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_nav_events_ship_start ON navigation_events(ship_id, start_date)",
		"CREATE INDEX IF NOT EXISTS idx_indices_ship_calculated ON biofouling_indices(ship_id, calculated_at)",
		"CREATE INDEX IF NOT EXISTS idx_positions_ship_recorded ON ais_positions(ship_id, recorded_at)",
		"CREATE INDEX IF NOT EXISTS idx_recalc_runs_started_at ON recalc_runs(started_at)",
	}
	for _, idx := range indexes {
		if _, err := db.conn.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w", err)
		}
	}

	log.Info().Msg("migrations complete")
	return nil
}

func (db *DB) migrationShips() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS ships (
			id %s,
			name TEXT NOT NULL UNIQUE,
			class TEXT NOT NULL DEFAULT '',
			length_m REAL NOT NULL DEFAULT 0,
			last_cleaning_at %s,
			created_at %s NOT NULL DEFAULT (%s)
		)`, db.autoIncrement(), db.timestampType(), db.timestampType(), db.now())
}

func (db *DB) migrationNavigationEvents() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS navigation_events (
			id %s,
			ship_id INTEGER NOT NULL REFERENCES ships(id),
			start_date %s NOT NULL,
			end_date %s NOT NULL,
			distance_nm REAL NOT NULL DEFAULT 0,
			duration_hours REAL NOT NULL DEFAULT 0,
			speed_kn REAL NOT NULL DEFAULT 0,
			displacement REAL NOT NULL DEFAULT 0,
			aft_draft REAL NOT NULL DEFAULT 0,
			fwd_draft REAL NOT NULL DEFAULT 0,
			mid_draft REAL NOT NULL DEFAULT 0,
			trim_m REAL NOT NULL DEFAULT 0,
			beaufort_scale INTEGER NOT NULL DEFAULT 0,
			latitude REAL NOT NULL DEFAULT 0,
			longitude REAL NOT NULL DEFAULT 0
		)`, db.autoIncrement(), db.timestampType(), db.timestampType())
}

func (db *DB) migrationBiofoulingIndices() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS biofouling_indices (
			id %s,
			ship_id INTEGER NOT NULL REFERENCES ships(id),
			calculated_at %s NOT NULL,
			index_value REAL NOT NULL,
			normam_level INTEGER NOT NULL,
			efficiency_score REAL NOT NULL DEFAULT 0,
			environmental_score REAL NOT NULL DEFAULT 0,
			temporal_score REAL NOT NULL DEFAULT 0,
			operational_score REAL NOT NULL DEFAULT 0
		)`, db.autoIncrement(), db.timestampType())
}

func (db *DB) migrationAISPositions() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS ais_positions (
			id %s,
			ship_id INTEGER NOT NULL REFERENCES ships(id),
			recorded_at %s NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			speed_kn REAL NOT NULL DEFAULT 0,
			heading REAL NOT NULL DEFAULT 0
		)`, db.autoIncrement(), db.timestampType())
}

func (db *DB) migrationRecalcRuns() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS recalc_runs (
			id %s,
			run_type TEXT NOT NULL,
			status TEXT NOT NULL,
			item_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			started_at %s NOT NULL,
			completed_at %s
		)`, db.autoIncrement(), db.timestampType(), db.timestampType())
}
