package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormMeasurementStor struct {
	db *gorm.DB
}

func NewGormMeasurementStor(db *gorm.DB) *GormMeasurementStor {
	return &GormMeasurementStor{db: db}
}

// CreateMeasurement inserts a locally created measurement. The id is generated
// here; num_order stays unset until the measurement is pushed to the central
// database.
func (s *GormMeasurementStor) CreateMeasurement(measurement *tlmodel.Measurement) (*tlmodel.Measurement, error) {
	var err error

	if measurement.ID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(measurement).Error
	})

	if err != nil {
		return nil, err
	}

	return measurement, nil
}

func (s *GormMeasurementStor) GetMeasurementByID(measurementID string) (*tlmodel.Measurement, error) {
	var measurement tlmodel.Measurement
	if err := s.db.Where("id = ? and is_delete = 0", measurementID).First(&measurement).Error; err != nil {
		return nil, err
	}

	return &measurement, nil
}

func (s *GormMeasurementStor) GetMeasurementByName(deviceName, measurementName string) (*tlmodel.Measurement, error) {
	var measurement tlmodel.Measurement
	err := s.db.Joins("join devices on measurements.device_id = devices.id").
		Where("measurements.name = ? and devices.name = ? and measurements.is_delete = 0", measurementName, deviceName).
		First(&measurement).Error
	if err != nil {
		return nil, err
	}

	return &measurement, nil
}

func (s *GormMeasurementStor) ListMeasurementsForDevice(deviceID string) ([]tlmodel.Measurement, error) {
	var measurements []tlmodel.Measurement
	result := s.db.Where("device_id = ? and is_delete = 0", deviceID).
		Order("created_at").
		Find(&measurements)
	return measurements, result.Error
}

func (s *GormMeasurementStor) MeasurementNameExists(deviceID, name string) (bool, error) {
	var count int64
	err := s.db.Model(&tlmodel.Measurement{}).
		Where("device_id = ? and name = ? and is_delete = 0", deviceID, name).
		Count(&count).Error
	return count > 0, err
}

// SoftDeleteMeasurement marks the measurement and every row in its three
// reading tables as deleted. The cascade is done here at the application level
// rather than through foreign keys, so the rows stay around for a later pull
// to reconcile.
func (s *GormMeasurementStor) SoftDeleteMeasurement(measurementID string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&tlmodel.Measurement{}).Where("id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		if err := tx.Model(&tlmodel.ColeCole{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		if err := tx.Model(&tlmodel.StandardPlot{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		return tx.Model(&tlmodel.Nanothickness{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error
	})
}
