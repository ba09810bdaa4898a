package stor

import (
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type UserStor interface {
	GetUserByUsername(username string) (*tlmodel.User, error)
}

type DeviceStor interface {
	GetDeviceByName(name string) (*tlmodel.Device, error)
	ListDevices() ([]tlmodel.Device, error)
	ListDevicesWithStructures() ([]tlmodel.Device, error)
}

type MeasurementStor interface {
	CreateMeasurement(measurement *tlmodel.Measurement) (*tlmodel.Measurement, error)
	GetMeasurementByID(measurementID string) (*tlmodel.Measurement, error)
	GetMeasurementByName(deviceName, measurementName string) (*tlmodel.Measurement, error)
	ListMeasurementsForDevice(deviceID string) ([]tlmodel.Measurement, error)
	MeasurementNameExists(deviceID, name string) (bool, error)
	SoftDeleteMeasurement(measurementID string) error
}

type ReadingStor interface {
	InsertColeCole(measurementID string, readings []tlmodel.ColeCole) error
	InsertStandardPlot(measurementID string, readings []tlmodel.StandardPlot) error
	InsertNanothickness(measurementID string, readings []tlmodel.Nanothickness) error
	GetColeCole(measurementID string) ([]tlmodel.ColeCole, error)
	GetStandardPlot(measurementID string) ([]tlmodel.StandardPlot, error)
	GetNanothickness(measurementID string) ([]tlmodel.Nanothickness, error)
	HasColeCole(measurementID string) (bool, error)
	HasStandardPlot(measurementID string) (bool, error)
	HasNanothickness(measurementID string) (bool, error)
}

// MirrorStor owns the full-refresh side of the local mirror: wiping every
// table and reloading it from a remote snapshot.
type MirrorStor interface {
	ReplaceAll(snapshot *Snapshot) (discarded map[string]int64, err error)
}

// RemoteStor is the capability the sync engine needs from the shared central
// database. A process running without connectivity gets the Disconnected
// implementation instead of a nil check at every call site.
type RemoteStor interface {
	FetchSnapshot(includeNanothickness bool) (*Snapshot, error)
	PushMeasurement(measurement *tlmodel.Measurement) (numOrder int, err error)
	PushColeCole(readings []tlmodel.ColeCole) error
	PushStandardPlot(readings []tlmodel.StandardPlot) error
	PushNanothickness(readings []tlmodel.Nanothickness) error
	SoftDeleteMeasurement(measurementID string) error
}

// Snapshot holds one full copy of every mirrored table, in the parent-to-child
// order it gets inserted in.
type Snapshot struct {
	Users         []tlmodel.User
	Devices       []tlmodel.Device
	Measurements  []tlmodel.Measurement
	ColeCole      []tlmodel.ColeCole
	StandardPlot  []tlmodel.StandardPlot
	Nanothickness []tlmodel.Nanothickness
}

type Stors struct {
	UserStor        UserStor
	DeviceStor      DeviceStor
	MeasurementStor MeasurementStor
	ReadingStor     ReadingStor
	MirrorStor      MirrorStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		UserStor:        NewGormUserStor(db),
		DeviceStor:      NewGormDeviceStor(db),
		MeasurementStor: NewGormMeasurementStor(db),
		ReadingStor:     NewGormReadingStor(db),
		MirrorStor:      NewGormMirrorStor(db),
	}
}
