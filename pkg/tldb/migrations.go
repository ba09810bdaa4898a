package tldb

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RunMigrations brings the local mirror's schema up to date. Tables are
// created with their full current column set; tables that already exist with
// an older column set get each missing column added in place. Column additions
// are idempotent and never touch existing data, so this is safe to run on
// every startup.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			role TEXT,
			active INTEGER,
			hashed_password TEXT,
			created_at TEXT,
			is_delete INTEGER DEFAULT 0
		)`).Error; err != nil {
		return errors.Wrap(err, "create users table")
	}

	// CREATE TABLE IF NOT EXISTS does not add new columns to a pre-existing
	// table, so every column added after the table first shipped also gets an
	// ALTER TABLE guard.
	usersCols := []columnDef{
		{"role", "TEXT"},
		{"active", "INTEGER"},
		{"hashed_password", "TEXT"},
		{"created_at", "TEXT"},
		{"is_delete", "INTEGER DEFAULT 0"},
	}
	if err := addColumnsIfMissing(db, "users", usersCols); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			structure_json TEXT,
			experiment_by TEXT,
			created_by TEXT,
			created_at TEXT,
			is_delete INTEGER DEFAULT 0
		)`).Error; err != nil {
		return errors.Wrap(err, "create devices table")
	}

	devicesCols := []columnDef{
		{"structure_json", "TEXT"},
		{"experiment_by", "TEXT"},
		{"created_by", "TEXT"},
		{"created_at", "TEXT"},
		{"is_delete", "INTEGER DEFAULT 0"},
	}
	if err := addColumnsIfMissing(db, "devices", devicesCols); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS measurements (
			id TEXT PRIMARY KEY,
			name TEXT NULL,
			device_id TEXT NOT NULL,
			num_order INTEGER NULL,
			created_by TEXT NOT NULL,
			created_at TEXT,
			is_delete INTEGER DEFAULT 0,

			FOREIGN KEY (device_id)
				REFERENCES devices(id)
				ON DELETE CASCADE,

			UNIQUE (device_id, num_order)
		)`).Error; err != nil {
		return errors.Wrap(err, "create measurements table")
	}

	measurementsCols := []columnDef{
		{"name", "TEXT"},
		{"num_order", "INTEGER"},
		{"created_at", "TEXT"},
		{"is_delete", "INTEGER DEFAULT 0"},
	}
	if err := addColumnsIfMissing(db, "measurements", measurementsCols); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cole_cole (
			id TEXT PRIMARY KEY,
			measurement_id TEXT NOT NULL,
			frequency REAL,
			resistance REAL,
			reactance REAL,
			capacitance REAL,
			is_delete INTEGER DEFAULT 0,

			FOREIGN KEY (measurement_id)
				REFERENCES measurements(id)
				ON DELETE CASCADE
		)`).Error; err != nil {
		return errors.Wrap(err, "create cole_cole table")
	}

	if err := addColumnsIfMissing(db, "cole_cole", []columnDef{{"is_delete", "INTEGER DEFAULT 0"}}); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS standard_plot (
			id TEXT PRIMARY KEY,
			measurement_id TEXT NOT NULL,
			time REAL,
			voltage REAL,
			is_delete INTEGER DEFAULT 0,

			FOREIGN KEY (measurement_id)
				REFERENCES measurements(id)
				ON DELETE CASCADE
		)`).Error; err != nil {
		return errors.Wrap(err, "create standard_plot table")
	}

	if err := addColumnsIfMissing(db, "standard_plot", []columnDef{{"is_delete", "INTEGER DEFAULT 0"}}); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS nanothickness (
			id TEXT PRIMARY KEY,
			measurement_id TEXT NOT NULL,
			pos1 REAL,
			pos2 REAL,
			pos3 REAL,
			pos4 REAL,
			pos5 REAL,
			is_delete INTEGER DEFAULT 0,

			FOREIGN KEY (measurement_id)
				REFERENCES measurements(id)
				ON DELETE CASCADE
		)`).Error; err != nil {
		return errors.Wrap(err, "create nanothickness table")
	}

	return addColumnsIfMissing(db, "nanothickness", []columnDef{{"is_delete", "INTEGER DEFAULT 0"}})
}

type columnDef struct {
	name string
	def  string
}

func addColumnsIfMissing(db *gorm.DB, table string, cols []columnDef) error {
	existing, err := existingColumns(db, table)
	if err != nil {
		return err
	}

	for _, col := range cols {
		if existing[col.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, col.def)
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "add column %s.%s", table, col.name)
		}
	}

	return nil
}

func existingColumns(db *gorm.DB, table string) (map[string]bool, error) {
	rows, err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)).Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "table_info %s", table)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, errors.Wrapf(err, "scan table_info %s", table)
		}
		existing[name] = true
	}

	return existing, rows.Err()
}
