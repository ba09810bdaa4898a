package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormReadingStor struct {
	db *gorm.DB
}

func NewGormReadingStor(db *gorm.DB) *GormReadingStor {
	return &GormReadingStor{db: db}
}

// InsertColeCole inserts one row per reading with a freshly generated id.
// There is no upsert; calling it twice with the same readings duplicates them.
// The confirmation before re-importing is the caller's job.
func (s *GormReadingStor) InsertColeCole(measurementID string, readings []tlmodel.ColeCole) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].MeasurementID = measurementID
			if err := tx.Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormReadingStor) InsertStandardPlot(measurementID string, readings []tlmodel.StandardPlot) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].MeasurementID = measurementID
			if err := tx.Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormReadingStor) InsertNanothickness(measurementID string, readings []tlmodel.Nanothickness) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].MeasurementID = measurementID
			if err := tx.Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormReadingStor) GetColeCole(measurementID string) ([]tlmodel.ColeCole, error) {
	var readings []tlmodel.ColeCole
	result := s.db.Where("measurement_id = ? and is_delete = 0", measurementID).Find(&readings)
	return readings, result.Error
}

func (s *GormReadingStor) GetStandardPlot(measurementID string) ([]tlmodel.StandardPlot, error) {
	var readings []tlmodel.StandardPlot
	result := s.db.Where("measurement_id = ? and is_delete = 0", measurementID).Find(&readings)
	return readings, result.Error
}

func (s *GormReadingStor) GetNanothickness(measurementID string) ([]tlmodel.Nanothickness, error) {
	var readings []tlmodel.Nanothickness
	result := s.db.Where("measurement_id = ? and is_delete = 0", measurementID).Find(&readings)
	return readings, result.Error
}

func (s *GormReadingStor) HasColeCole(measurementID string) (bool, error) {
	var count int64
	err := s.db.Model(&tlmodel.ColeCole{}).
		Where("measurement_id = ? and is_delete = 0", measurementID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormReadingStor) HasStandardPlot(measurementID string) (bool, error) {
	var count int64
	err := s.db.Model(&tlmodel.StandardPlot{}).
		Where("measurement_id = ? and is_delete = 0", measurementID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormReadingStor) HasNanothickness(measurementID string) (bool, error) {
	var count int64
	err := s.db.Model(&tlmodel.Nanothickness{}).
		Where("measurement_id = ? and is_delete = 0", measurementID).
		Count(&count).Error
	return count > 0, err
}
