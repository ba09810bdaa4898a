package measure

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thermal-commons/thermald/pkg/ingest"
	"github.com/thermal-commons/thermald/pkg/tldb"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testCase struct {
	*testing.T
	db       *gorm.DB
	remoteDB *gorm.DB
	stors    *stor.Stors
	remote   stor.RemoteStor
	service  *Service
	dataRoot string
	device   *tlmodel.Device
	device2  *tlmodel.Device
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(tldb.SqliteInMemoryDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	require.NoError(t, tldb.RunMigrations(db))

	return db
}

func newTestCase(t *testing.T) *testCase {
	tc := &testCase{
		T:        t,
		db:       openTestDB(t),
		remoteDB: openTestDB(t),
		dataRoot: t.TempDir(),
	}

	tc.stors = stor.NewGormStors(tc.db)
	tc.remote = stor.NewGormRemoteStor(tc.remoteDB)
	tc.service = NewService(tc.stors, tc.remote, tc.dataRoot)

	tc.populateDatabase()

	return tc
}

func (tc *testCase) populateDatabase() {
	user := &tlmodel.User{ID: "u1", Username: "alice", Active: 1, CreatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(tc.T, tc.db.Create(user).Error)

	tc.device = &tlmodel.Device{ID: "d1", Name: "Sensor-A", CreatedBy: "alice", CreatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(tc.T, tc.db.Create(tc.device).Error)

	tc.device2 = &tlmodel.Device{ID: "d2", Name: "Sensor-B", CreatedBy: "alice", CreatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(tc.T, tc.db.Create(tc.device2).Error)
}

func coleColeTable(rows ...[]float64) *ingest.Table {
	return &ingest.Table{Columns: ingest.ColeColeColumns, Rows: rows}
}

func TestCreateMeasurementRejectsDuplicateNamePerDevice(t *testing.T) {
	tc := newTestCase(t)

	_, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	_, err = tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	// The same name under a different device is fine.
	_, err = tc.service.CreateMeasurement("Sensor-B", "d2", "X", "alice")
	require.NoError(t, err)
}

func TestCreateMeasurementTrimsNameAndCreatesFolder(t *testing.T) {
	tc := newTestCase(t)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "  run 1  ", "alice")
	require.NoError(t, err)
	assert.Equal(t, "run 1", m.Name)
	assert.Nil(t, m.NumOrder, "order numbers are assigned at push time")

	info, err := os.Stat(MeasurementDir(tc.dataRoot, "Sensor-A", "run 1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating the folder again is idempotent, so re-running filesystem sync
	// can't fail on it.
	require.NoError(t, tc.service.SyncFilesystem())
}

func TestIsMeasurementOwner(t *testing.T) {
	tc := newTestCase(t)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	owner, err := tc.service.IsMeasurementOwner(m.ID, "alice")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = tc.service.IsMeasurementOwner(m.ID, "bob")
	require.NoError(t, err)
	assert.False(t, owner)

	// A missing measurement is not owned; that's not an error.
	owner, err = tc.service.IsMeasurementOwner("no-such-id", "alice")
	require.NoError(t, err)
	assert.False(t, owner)
}

func TestGetMeasurementIDNotFound(t *testing.T) {
	tc := newTestCase(t)

	_, err := tc.service.GetMeasurementID("Sensor-A", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = tc.service.GetDeviceID("No-Such-Device")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInsertReadingsDuplicatesOnRepeat(t *testing.T) {
	tc := newTestCase(t)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	has, err := tc.service.HasColeCole(m.ID)
	require.NoError(t, err)
	assert.False(t, has)

	table := coleColeTable([]float64{100, 1, 2, 3}, []float64{200, 4, 5, 6})
	require.NoError(t, tc.service.InsertColeCole(m.ID, table))

	has, err = tc.service.HasColeCole(m.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// No upsert: a second insert of the same table duplicates every row.
	require.NoError(t, tc.service.InsertColeCole(m.ID, table))

	readings, err := tc.service.ReadColeCole(m.ID)
	require.NoError(t, err)
	assert.Len(t, readings, 4)
}

func TestInsertReadingsRejectsWrongColumns(t *testing.T) {
	tc := newTestCase(t)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	err = tc.service.InsertColeCole(m.ID, &ingest.Table{Columns: ingest.StandardPlotColumns})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSoftDeleteCascadesAndLeavesSiblingsAlone(t *testing.T) {
	tc := newTestCase(t)

	m1, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)
	m2, err := tc.service.CreateMeasurement("Sensor-A", "d1", "Y", "alice")
	require.NoError(t, err)

	require.NoError(t, tc.service.InsertColeCole(m1.ID, coleColeTable([]float64{1, 2, 3, 4})))
	require.NoError(t, tc.service.InsertStandardPlot(m1.ID, &ingest.Table{
		Columns: ingest.StandardPlotColumns, Rows: [][]float64{{0, 0.5}},
	}))
	require.NoError(t, tc.service.InsertNanothickness(m1.ID, &ingest.Table{
		Columns: ingest.NanothicknessColumns, Rows: [][]float64{{1, 2, 3, 4, 5}},
	}))
	require.NoError(t, tc.service.InsertColeCole(m2.ID, coleColeTable([]float64{9, 9, 9, 9})))

	require.NoError(t, tc.service.SoftDeleteMeasurement("Sensor-A", "X", "alice"))

	// The deleted measurement is gone from every lookup...
	_, err = tc.service.GetMeasurementID("Sensor-A", "X")
	assert.True(t, errors.Is(err, ErrNotFound))

	has, err := tc.service.HasColeCole(m1.ID)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = tc.service.HasStandardPlot(m1.ID)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = tc.service.HasNanothickness(m1.ID)
	require.NoError(t, err)
	assert.False(t, has)

	// ...but the rows are still there, just flagged.
	var flagged int64
	require.NoError(t, tc.db.Table("cole_cole").
		Where("measurement_id = ? and is_delete = 1", m1.ID).Count(&flagged).Error)
	assert.EqualValues(t, 1, flagged)

	// The sibling measurement is untouched.
	has, err = tc.service.HasColeCole(m2.ID)
	require.NoError(t, err)
	assert.True(t, has)
	_, err = tc.service.GetMeasurementID("Sensor-A", "Y")
	assert.NoError(t, err)
}

func TestSoftDeleteChecksOwnershipAndExistence(t *testing.T) {
	tc := newTestCase(t)

	_, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	err = tc.service.SoftDeleteMeasurement("Sensor-A", "X", "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermission))

	err = tc.service.SoftDeleteMeasurement("Sensor-A", "nope", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSoftDeleteSurfacesRemoteFailureAsPartial(t *testing.T) {
	tc := newTestCase(t)
	tc.service = NewService(tc.stors, stor.NewDisconnectedRemoteStor(), tc.dataRoot)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	err = tc.service.SoftDeleteMeasurement("Sensor-A", "X", "alice")
	require.Error(t, err)

	var partial *PartialDeleteError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, m.ID, partial.MeasurementID)
	assert.True(t, errors.Is(err, stor.ErrRemoteDisconnected))

	// The local delete is kept despite the failed propagation.
	_, err = tc.service.GetMeasurementID("Sensor-A", "X")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSoftDeletePropagatesToRemote(t *testing.T) {
	tc := newTestCase(t)

	m, err := tc.service.CreateMeasurement("Sensor-A", "d1", "X", "alice")
	require.NoError(t, err)

	// Mirror the measurement on the remote side first, as a push would.
	require.NoError(t, tc.remoteDB.Exec(
		`INSERT INTO devices (id, name) VALUES ('d1', 'Sensor-A')`).Error)
	require.NoError(t, tc.remoteDB.Exec(
		`INSERT INTO measurements (id, device_id, name, created_by) VALUES (?, 'd1', 'X', 'alice')`, m.ID).Error)

	require.NoError(t, tc.service.SoftDeleteMeasurement("Sensor-A", "X", "alice"))

	var isDelete int
	require.NoError(t, tc.remoteDB.Raw(
		`SELECT is_delete FROM measurements WHERE id = ?`, m.ID).Scan(&isDelete).Error)
	assert.Equal(t, 1, isDelete)
}

func TestDevicesAndMeasurementsOrdering(t *testing.T) {
	tc := newTestCase(t)

	// Seed with explicit creation times; listing orders by them.
	for _, m := range []tlmodel.Measurement{
		{ID: "m2", DeviceID: "d1", Name: "second", CreatedBy: "alice", CreatedAt: "2024-02-01T00:00:00Z"},
		{ID: "m1", DeviceID: "d1", Name: "first", CreatedBy: "alice", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "m3", DeviceID: "d1", Name: "deleted", CreatedBy: "alice", CreatedAt: "2024-03-01T00:00:00Z", IsDelete: 1},
	} {
		m := m
		require.NoError(t, tc.db.Create(&m).Error)
	}

	byDevice, err := tc.service.DevicesAndMeasurements()
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, byDevice["Sensor-A"])
	assert.Equal(t, []string{}, byDevice["Sensor-B"], "devices without measurements still show up")
}

func TestGetDeviceStructure(t *testing.T) {
	tc := newTestCase(t)

	require.NoError(t, tc.db.Model(&tlmodel.Device{}).Where("id = ?", "d1").
		Update("structure_json", `{"layers": 3, "coating": "gold"}`).Error)
	require.NoError(t, tc.db.Model(&tlmodel.Device{}).Where("id = ?", "d2").
		Update("structure_json", `{not json`).Error)

	structure, err := tc.service.GetDeviceStructure("Sensor-A")
	require.NoError(t, err)
	assert.Equal(t, "gold", structure["coating"])

	// Malformed structures come back as an explicit error payload, not an error.
	structure, err = tc.service.GetDeviceStructure("Sensor-B")
	require.NoError(t, err)
	assert.Equal(t, "Invalid JSON in structure_json", structure[StructureErrorKey])

	structure, err = tc.service.GetDeviceStructure("No-Such-Device")
	require.NoError(t, err)
	assert.Nil(t, structure)
}

func TestAllDeviceStructures(t *testing.T) {
	tc := newTestCase(t)

	require.NoError(t, tc.db.Model(&tlmodel.Device{}).Where("id = ?", "d2").
		Update("structure_json", `{"layers": 1}`).Error)

	all, err := tc.service.AllDeviceStructures()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Sensor-B", all[0].DeviceName)
}

func TestSyncFilesystemCreatesFolders(t *testing.T) {
	tc := newTestCase(t)

	_, err := tc.service.CreateMeasurement("Sensor-A", "d1", "run 1", "alice")
	require.NoError(t, err)

	// Remove everything and let the sync rebuild it.
	require.NoError(t, os.RemoveAll(DevicesRoot(tc.dataRoot)))
	require.NoError(t, tc.service.SyncFilesystem())

	for _, dir := range []string{
		DeviceDir(tc.dataRoot, "Sensor-A"),
		DeviceDir(tc.dataRoot, "Sensor-B"),
		MeasurementDir(tc.dataRoot, "Sensor-A", "run 1"),
	} {
		info, err := os.Stat(dir)
		require.NoErrorf(t, err, "%s should exist", dir)
		assert.True(t, info.IsDir())
	}
}
