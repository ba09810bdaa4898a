package tldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(SqliteInMemoryDSN), gormConfig)
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	return db
}

func TestRunMigrationsCreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"users", "devices", "measurements", "cole_cole", "standard_plot", "nanothickness"} {
		var count int64
		err := db.Table(table).Count(&count).Error
		assert.NoErrorf(t, err, "table %s should exist", table)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
}

func TestRunMigrationsUpgradesOldSchema(t *testing.T) {
	db := openTestDB(t)

	// A mirror created before most columns existed, with data in it.
	require.NoError(t, db.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY, username TEXT UNIQUE NOT NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username) VALUES ('u1', 'alice')`).Error)

	require.NoError(t, RunMigrations(db))

	cols, err := existingColumns(db, "users")
	require.NoError(t, err)
	for _, col := range []string{"id", "username", "role", "active", "hashed_password", "created_at", "is_delete"} {
		assert.Truef(t, cols[col], "users should have column %s", col)
	}

	// The upgrade never touches existing rows.
	var username string
	require.NoError(t, db.Raw(`SELECT username FROM users WHERE id = 'u1'`).Scan(&username).Error)
	assert.Equal(t, "alice", username)
}

func TestCascadeDeleteThroughForeignKeys(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, db.Exec(`INSERT INTO devices (id, name) VALUES ('d1', 'Sensor-A')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO measurements (id, device_id, created_by) VALUES ('m1', 'd1', 'alice')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO cole_cole (id, measurement_id, frequency) VALUES ('c1', 'm1', 100)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO standard_plot (id, measurement_id, time) VALUES ('s1', 'm1', 0)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO nanothickness (id, measurement_id, pos1) VALUES ('n1', 'm1', 1)`).Error)

	require.NoError(t, db.Exec(`DELETE FROM devices WHERE id = 'd1'`).Error)

	for _, table := range []string{"measurements", "cole_cole", "standard_plot", "nanothickness"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zerof(t, count, "%s rows should cascade away with the device", table)
	}
}
