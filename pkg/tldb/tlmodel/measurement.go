package tlmodel

// Measurement is one experimental run on a device. NumOrder is assigned by the
// central database when the measurement is pushed; it stays nil for
// measurements that only exist locally. (device_id, num_order) is unique when
// num_order is set.
type Measurement struct {
	ID        string  `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name"`
	DeviceID  string  `json:"device_id"`
	Device    *Device `json:"device" gorm:"foreignKey:DeviceID;references:ID"`
	NumOrder  *int    `json:"num_order"`
	CreatedBy string  `json:"created_by"`
	CreatedAt string  `json:"created_at"`
	IsDelete  int     `json:"is_delete"`
}

func (Measurement) TableName() string {
	return "measurements"
}
