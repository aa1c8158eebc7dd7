package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nereus-marine/hullwatch/internal/config"
	"github.com/nereus-marine/hullwatch/internal/models"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DB provides the data access layer
type DB struct {
	conn   *sql.DB
	driver string
}

// New creates a new database connection based on config
func New(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.DBDriver {
	case "sqlite":
		// Ensure directory exists
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		// SQLite tuning
		conn.SetMaxOpenConns(1) // SQLite is single-writer
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DATABASE_URL required for postgres driver")
		}
		conn, err = sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		conn.SetMaxOpenConns(10)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, driver: cfg.DBDriver}

	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// RawConn returns the underlying sql.DB connection
func (db *DB) RawConn() *sql.DB {
	return db.conn
}

// autoIncrement returns the correct auto-increment syntax
func (db *DB) autoIncrement() string {
	if db.driver == "postgres" {
		return "SERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// onConflictUpdate returns the correct upsert syntax
func (db *DB) onConflictUpdate(conflictCol, updateCols string) string {
	if db.driver == "postgres" {
		return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", conflictCol, updateCols)
	}
	return fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET %s", conflictCol, updateCols)
}

// timestampType returns the correct timestamp type
func (db *DB) timestampType() string {
	if db.driver == "postgres" {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

// now returns the correct current timestamp function
func (db *DB) now() string {
	if db.driver == "postgres" {
		return "NOW()"
	}
	return "datetime('now')"
}

// rebind converts ? placeholders for the active driver.
func (db *DB) rebind(query string) string {
	if db.driver == "postgres" {
		return replacePlaceholders(query)
	}
	return query
}

// replacePlaceholders converts ? to $1, $2, etc. for PostgreSQL
func replacePlaceholders(query string) string {
	result := make([]byte, 0, len(query)+10)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, []byte(fmt.Sprintf("%d", n))...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}

// --- Ship Operations ---

func (db *DB) UpsertShip(ctx context.Context, ship *models.Ship) error {
	query := fmt.Sprintf(`
		INSERT INTO ships (name, class, length_m, last_cleaning_at, created_at)
		VALUES (?, ?, ?, ?, %s)
		%s`,
		db.now(),
		db.onConflictUpdate("name", `
			class=excluded.class,
			length_m=excluded.length_m,
			last_cleaning_at=excluded.last_cleaning_at`),
	)
	query = db.rebind(query)

	var lastCleaning sql.NullTime
	if ship.LastCleaningAt != nil {
		lastCleaning = sql.NullTime{Time: *ship.LastCleaningAt, Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, query,
		ship.Name, string(ship.Class), ship.LengthM, lastCleaning)
	if err != nil {
		return fmt.Errorf("upserting ship %s: %w", ship.Name, err)
	}
	return nil
}

func (db *DB) GetShipByName(ctx context.Context, name string) (*models.Ship, error) {
	query := db.rebind(`
		SELECT id, name, class, length_m, last_cleaning_at, created_at
		FROM ships WHERE name = ?`)

	var ship models.Ship
	var class string
	var lastCleaning sql.NullTime
	err := db.conn.QueryRowContext(ctx, query, name).Scan(
		&ship.ID, &ship.Name, &class, &ship.LengthM, &lastCleaning, &ship.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ship.Class = models.ShipClass(class)
	if lastCleaning.Valid {
		t := lastCleaning.Time
		ship.LastCleaningAt = &t
	}
	return &ship, nil
}

func (db *DB) GetAllShips(ctx context.Context) ([]models.Ship, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, class, length_m, last_cleaning_at, created_at
		FROM ships ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ships []models.Ship
	for rows.Next() {
		var ship models.Ship
		var class string
		var lastCleaning sql.NullTime
		if err := rows.Scan(&ship.ID, &ship.Name, &class, &ship.LengthM,
			&lastCleaning, &ship.CreatedAt); err != nil {
			return nil, err
		}
		ship.Class = models.ShipClass(class)
		if lastCleaning.Valid {
			t := lastCleaning.Time
			ship.LastCleaningAt = &t
		}
		ships = append(ships, ship)
	}
	return ships, rows.Err()
}

func (db *DB) GetShipCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM ships").Scan(&count)
	return count, err
}

// --- Recalculation Run Operations ---

func (db *DB) InsertRecalcRun(ctx context.Context, r *models.RecalcRun) (int, error) {
	query := fmt.Sprintf(`INSERT INTO recalc_runs (run_type, status, item_count, error_message, started_at) VALUES (?, ?, ?, ?, %s)`, db.now())
	if db.driver == "postgres" {
		query = replacePlaceholders(query)
		query += " RETURNING id"
		var id int
		err := db.conn.QueryRowContext(ctx, query, r.RunType, r.Status, r.ItemCount, r.ErrorMessage).Scan(&id)
		return id, err
	}

	result, err := db.conn.ExecContext(ctx, query, r.RunType, r.Status, r.ItemCount, r.ErrorMessage)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (db *DB) UpdateRecalcRun(ctx context.Context, id int, status string, count int, errMsg string) error {
	query := fmt.Sprintf("UPDATE recalc_runs SET status = ?, item_count = ?, error_message = ?, completed_at = %s WHERE id = ?", db.now())
	query = db.rebind(query)
	_, err := db.conn.ExecContext(ctx, query, status, count, errMsg, id)
	return err
}

func (db *DB) GetLatestRecalcRuns(ctx context.Context) ([]models.RecalcRun, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, run_type, status, item_count, error_message, started_at, completed_at
		FROM recalc_runs ORDER BY started_at DESC LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RecalcRun
	for rows.Next() {
		var r models.RecalcRun
		var completedAt sql.NullTime
		err := rows.Scan(&r.ID, &r.RunType, &r.Status, &r.ItemCount, &r.ErrorMessage,
			&r.StartedAt, &completedAt)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			r.CompletedAt = completedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
