package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nereus-marine/hullwatch/internal/models"
)

// --- Navigation Event Operations ---

// InsertEvents stores a batch of navigation events for a registered ship
// in a single transaction.
func (db *DB) InsertEvents(ctx context.Context, shipID int, events []models.NavigationEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := db.rebind(`
		INSERT INTO navigation_events (ship_id, start_date, end_date, distance_nm,
			duration_hours, speed_kn, displacement, aft_draft, fwd_draft, mid_draft,
			trim_m, beaufort_scale, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			shipID, e.StartDate, e.EndDate, e.DistanceNM,
			e.DurationHours, e.SpeedKn, e.Displacement, e.AftDraft, e.FwdDraft,
			e.MidDraft, e.Trim, e.BeaufortScale, e.Latitude, e.Longitude)
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}

	return tx.Commit()
}

// GetRecentEvents returns the ship's most recent events in chronological
// order, capped at limit.
func (db *DB) GetRecentEvents(ctx context.Context, shipID int, limit int) ([]models.NavigationEvent, error) {
	query := db.rebind(`
		SELECT s.name, s.class, e.start_date, e.end_date, e.distance_nm,
			e.duration_hours, e.speed_kn, e.displacement, e.aft_draft, e.fwd_draft,
			e.mid_draft, e.trim_m, e.beaufort_scale, e.latitude, e.longitude
		FROM navigation_events e
		JOIN ships s ON s.id = e.ship_id
		WHERE e.ship_id = ?
		ORDER BY e.start_date DESC
		LIMIT ?`)

	rows, err := db.conn.QueryContext(ctx, query, shipID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.NavigationEvent
	for rows.Next() {
		var e models.NavigationEvent
		var class string
		if err := rows.Scan(&e.ShipName, &class, &e.StartDate, &e.EndDate, &e.DistanceNM,
			&e.DurationHours, &e.SpeedKn, &e.Displacement, &e.AftDraft, &e.FwdDraft,
			&e.MidDraft, &e.Trim, &e.BeaufortScale, &e.Latitude, &e.Longitude); err != nil {
			return nil, err
		}
		e.ShipClass = models.ShipClass(class)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returned newest-first; callers want chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// --- Index Record Operations ---

func (db *DB) InsertIndexRecord(ctx context.Context, rec *models.IndexRecord) error {
	query := db.rebind(`
		INSERT INTO biofouling_indices (ship_id, calculated_at, index_value, normam_level,
			efficiency_score, environmental_score, temporal_score, operational_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := db.conn.ExecContext(ctx, query,
		rec.ShipID, rec.CalculatedAt, rec.Index, rec.Level,
		rec.Components.Efficiency, rec.Components.Environmental,
		rec.Components.Temporal, rec.Components.Operational)
	if err != nil {
		return fmt.Errorf("inserting index record: %w", err)
	}
	return nil
}

// GetLatestIndex returns the most recent index record for a ship, or nil
// when none has been computed yet.
func (db *DB) GetLatestIndex(ctx context.Context, shipID int) (*models.IndexRecord, error) {
	query := db.rebind(`
		SELECT id, ship_id, calculated_at, index_value, normam_level,
			efficiency_score, environmental_score, temporal_score, operational_score
		FROM biofouling_indices
		WHERE ship_id = ?
		ORDER BY calculated_at DESC
		LIMIT 1`)

	var rec models.IndexRecord
	err := db.conn.QueryRowContext(ctx, query, shipID).Scan(
		&rec.ID, &rec.ShipID, &rec.CalculatedAt, &rec.Index, &rec.Level,
		&rec.Components.Efficiency, &rec.Components.Environmental,
		&rec.Components.Temporal, &rec.Components.Operational)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (db *DB) GetIndexHistory(ctx context.Context, shipID int, limit int) ([]models.IndexRecord, error) {
	query := db.rebind(`
		SELECT id, ship_id, calculated_at, index_value, normam_level,
			efficiency_score, environmental_score, temporal_score, operational_score
		FROM biofouling_indices
		WHERE ship_id = ?
		ORDER BY calculated_at DESC
		LIMIT ?`)

	rows, err := db.conn.QueryContext(ctx, query, shipID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.IndexRecord
	for rows.Next() {
		var rec models.IndexRecord
		if err := rows.Scan(&rec.ID, &rec.ShipID, &rec.CalculatedAt, &rec.Index, &rec.Level,
			&rec.Components.Efficiency, &rec.Components.Environmental,
			&rec.Components.Temporal, &rec.Components.Operational); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetLatestIndices returns the newest index record per ship, joined with
// the ship name, for fleet-wide summaries.
func (db *DB) GetLatestIndices(ctx context.Context) ([]models.IndexRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT b.id, b.ship_id, s.name, b.calculated_at, b.index_value, b.normam_level,
			b.efficiency_score, b.environmental_score, b.temporal_score, b.operational_score
		FROM biofouling_indices b
		JOIN ships s ON s.id = b.ship_id
		WHERE b.id IN (
			SELECT MAX(id) FROM biofouling_indices GROUP BY ship_id
		)
		ORDER BY b.index_value DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.IndexRecord
	for rows.Next() {
		var rec models.IndexRecord
		if err := rows.Scan(&rec.ID, &rec.ShipID, &rec.ShipName, &rec.CalculatedAt,
			&rec.Index, &rec.Level,
			&rec.Components.Efficiency, &rec.Components.Environmental,
			&rec.Components.Temporal, &rec.Components.Operational); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// --- Position Operations ---

func (db *DB) InsertPositions(ctx context.Context, shipID int, positions []models.Position) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := db.rebind(`
		INSERT INTO ais_positions (ship_id, recorded_at, latitude, longitude, speed_kn, heading)
		VALUES (?, ?, ?, ?, ?, ?)`)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing position insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		_, err := stmt.ExecContext(ctx,
			shipID, p.Timestamp, p.Latitude, p.Longitude, p.SpeedKn, p.Heading)
		if err != nil {
			return fmt.Errorf("inserting position: %w", err)
		}
	}

	return tx.Commit()
}

func (db *DB) GetPositionsInRange(ctx context.Context, shipID int, from, to time.Time) ([]models.Position, error) {
	query := db.rebind(`
		SELECT id, ship_id, recorded_at, latitude, longitude, speed_kn, heading
		FROM ais_positions
		WHERE ship_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC`)

	rows, err := db.conn.QueryContext(ctx, query, shipID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ShipID, &p.Timestamp, &p.Latitude, &p.Longitude,
			&p.SpeedKn, &p.Heading); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
