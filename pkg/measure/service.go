// Package measure holds the business rules for devices and measurements on
// top of the local mirror: listing, creation, ownership, reading ingestion
// and soft-delete with remote propagation.
package measure

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

// StructureErrorKey marks the sentinel payload returned for a device whose
// structure description isn't valid JSON. Malformed structures are rendered
// as an explicit "invalid JSON" state, never raised as errors.
const StructureErrorKey = "_error"

type Service struct {
	users        stor.UserStor
	devices      stor.DeviceStor
	measurements stor.MeasurementStor
	readings     stor.ReadingStor
	remote       stor.RemoteStor
	dataRoot     string
}

func NewService(stors *stor.Stors, remote stor.RemoteStor, dataRoot string) *Service {
	return &Service{
		users:        stors.UserStor,
		devices:      stors.DeviceStor,
		measurements: stors.MeasurementStor,
		readings:     stors.ReadingStor,
		remote:       remote,
		dataRoot:     dataRoot,
	}
}

func (s *Service) GetUserByUsername(username string) (*tlmodel.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "user %q", username)
	}

	return user, err
}

// DevicesAndMeasurements maps every non-deleted device name to its
// non-deleted measurement names, ordered by measurement creation time.
// Devices without measurements map to an empty list.
func (s *Service) DevicesAndMeasurements() (map[string][]string, error) {
	devices, err := s.devices.ListDevices()
	if err != nil {
		return nil, err
	}

	byDevice := make(map[string][]string)
	for _, device := range devices {
		measurements, err := s.measurements.ListMeasurementsForDevice(device.ID)
		if err != nil {
			return nil, err
		}

		names := []string{}
		for _, m := range measurements {
			names = append(names, m.Name)
		}
		byDevice[device.Name] = names
	}

	return byDevice, nil
}

func (s *Service) GetDeviceID(deviceName string) (string, error) {
	device, err := s.devices.GetDeviceByName(deviceName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrapf(ErrNotFound, "device %q", deviceName)
	}
	if err != nil {
		return "", err
	}

	return device.ID, nil
}

func (s *Service) GetMeasurementID(deviceName, measurementName string) (string, error) {
	measurement, err := s.measurements.GetMeasurementByName(deviceName, measurementName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrapf(ErrNotFound, "measurement %q on device %q", measurementName, deviceName)
	}
	if err != nil {
		return "", err
	}

	return measurement.ID, nil
}

// GetDeviceStructure parses the device's structure JSON. A device without a
// structure returns nil. A malformed structure returns the sentinel payload
// under StructureErrorKey instead of an error.
func (s *Service) GetDeviceStructure(deviceName string) (map[string]interface{}, error) {
	device, err := s.devices.GetDeviceByName(deviceName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	structure, err := device.GetStructure()
	if err != nil {
		return map[string]interface{}{StructureErrorKey: "Invalid JSON in structure_json"}, nil
	}

	return structure, nil
}

// AllDeviceStructures returns every device carrying a structure description,
// ordered by name, with malformed structures mapped to the sentinel payload.
func (s *Service) AllDeviceStructures() ([]DeviceStructure, error) {
	devices, err := s.devices.ListDevicesWithStructures()
	if err != nil {
		return nil, err
	}

	var all []DeviceStructure
	for _, device := range devices {
		structure, err := device.GetStructure()
		if err != nil {
			structure = map[string]interface{}{StructureErrorKey: "Invalid JSON in structure_json"}
		}
		all = append(all, DeviceStructure{DeviceName: device.Name, Structure: structure})
	}

	return all, nil
}

type DeviceStructure struct {
	DeviceName string
	Structure  map[string]interface{}
}

// CreateMeasurement creates a measurement locally, with no order number yet,
// and creates its folder under the data root. The name must be unique among
// the device's non-deleted measurements.
func (s *Service) CreateMeasurement(deviceName, deviceID, measurementName, createdBy string) (*tlmodel.Measurement, error) {
	measurementName = strings.TrimSpace(measurementName)

	exists, err := s.measurements.MeasurementNameExists(deviceID, measurementName)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, errors.Wrapf(ErrValidation, "measurement name %q already exists for this device", measurementName)
	}

	measurement := &tlmodel.Measurement{
		Name:      measurementName,
		DeviceID:  deviceID,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if measurement, err = s.measurements.CreateMeasurement(measurement); err != nil {
		return nil, err
	}

	dir := MeasurementDir(s.dataRoot, deviceName, measurementName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create measurement folder %s", dir)
	}

	return measurement, nil
}

// IsMeasurementOwner reports whether the measurement was created by username.
// A measurement that doesn't exist is simply not owned; that's not an error.
func (s *Service) IsMeasurementOwner(measurementID, username string) (bool, error) {
	measurement, err := s.measurements.GetMeasurementByID(measurementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return measurement.CreatedBy == username, nil
}

func (s *Service) HasColeCole(measurementID string) (bool, error) {
	return s.readings.HasColeCole(measurementID)
}

func (s *Service) HasStandardPlot(measurementID string) (bool, error) {
	return s.readings.HasStandardPlot(measurementID)
}

func (s *Service) HasNanothickness(measurementID string) (bool, error) {
	return s.readings.HasNanothickness(measurementID)
}

func (s *Service) ReadColeCole(measurementID string) ([]tlmodel.ColeCole, error) {
	return s.readings.GetColeCole(measurementID)
}

func (s *Service) ReadStandardPlot(measurementID string) ([]tlmodel.StandardPlot, error) {
	return s.readings.GetStandardPlot(measurementID)
}

func (s *Service) ReadNanothickness(measurementID string) ([]tlmodel.Nanothickness, error) {
	return s.readings.GetNanothickness(measurementID)
}

// SoftDeleteMeasurement marks the measurement and all of its readings deleted
// locally, commits, then propagates the soft-delete to the central database.
// Remote failure does not roll the local delete back; it surfaces as a
// PartialDeleteError and the divergence is resolved by the next full pull or
// a later successful delete sync.
func (s *Service) SoftDeleteMeasurement(deviceName, measurementName, username string) error {
	measurement, err := s.measurements.GetMeasurementByName(deviceName, measurementName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, "measurement %q on device %q", measurementName, deviceName)
	}
	if err != nil {
		return err
	}

	if measurement.CreatedBy != username {
		return errors.Wrap(ErrPermission, "you can only delete measurements you created")
	}

	if err := s.measurements.SoftDeleteMeasurement(measurement.ID); err != nil {
		return err
	}

	if err := s.remote.SoftDeleteMeasurement(measurement.ID); err != nil {
		return &PartialDeleteError{MeasurementID: measurement.ID, RemoteErr: err}
	}

	return nil
}

// SyncFilesystem makes sure every non-deleted device and measurement has its
// folder under the data root. Folders of soft-deleted measurements are left
// alone.
func (s *Service) SyncFilesystem() error {
	if err := os.MkdirAll(DevicesRoot(s.dataRoot), 0755); err != nil {
		return errors.Wrap(err, "create devices root")
	}

	devices, err := s.devices.ListDevices()
	if err != nil {
		return err
	}

	for _, device := range devices {
		if err := os.MkdirAll(DeviceDir(s.dataRoot, device.Name), 0755); err != nil {
			return errors.Wrapf(err, "create device folder for %q", device.Name)
		}

		measurements, err := s.measurements.ListMeasurementsForDevice(device.ID)
		if err != nil {
			return err
		}

		for _, m := range measurements {
			dir := MeasurementDir(s.dataRoot, device.Name, m.Name)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, "create measurement folder %s", dir)
			}
		}
	}

	return nil
}
