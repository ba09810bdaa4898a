package stor

import (
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
)

type GormDeviceStor struct {
	db *gorm.DB
}

func NewGormDeviceStor(db *gorm.DB) *GormDeviceStor {
	return &GormDeviceStor{db: db}
}

func (s *GormDeviceStor) GetDeviceByName(name string) (*tlmodel.Device, error) {
	var device tlmodel.Device
	if err := s.db.Where("name = ? and is_delete = 0", name).First(&device).Error; err != nil {
		return nil, err
	}

	return &device, nil
}

func (s *GormDeviceStor) ListDevices() ([]tlmodel.Device, error) {
	var devices []tlmodel.Device
	result := s.db.Where("is_delete = 0").Order("name").Find(&devices)
	return devices, result.Error
}

// ListDevicesWithStructures returns the devices that carry a structure
// description, ordered by name. Soft-deleted devices are excluded.
func (s *GormDeviceStor) ListDevicesWithStructures() ([]tlmodel.Device, error) {
	var devices []tlmodel.Device
	result := s.db.Where("structure_json is not null and structure_json != '' and is_delete = 0").
		Order("name").
		Find(&devices)
	return devices, result.Error
}
