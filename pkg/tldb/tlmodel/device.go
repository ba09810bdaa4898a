package tlmodel

import "encoding/json"

// Device is a physical apparatus that measurements are grouped under. Devices
// are created on the central database and mirrored read-only into the local
// store.
type Device struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Name          string `json:"name"`
	StructureJSON string `json:"structure_json" gorm:"column:structure_json"`
	ExperimentBy  string `json:"experiment_by"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     string `json:"created_at"`
	IsDelete      int    `json:"is_delete"`
}

func (Device) TableName() string {
	return "devices"
}

// GetStructure parses the free-form structure description attached to the
// device. An empty structure returns a nil map and no error.
func (d Device) GetStructure() (map[string]interface{}, error) {
	if d.StructureJSON == "" {
		return nil, nil
	}
	var structure map[string]interface{}
	err := json.Unmarshal([]byte(d.StructureJSON), &structure)
	return structure, err
}
