package tlmodel

// ColeCole is one row of impedance-spectroscopy readings for a measurement.
type ColeCole struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	MeasurementID string       `json:"measurement_id"`
	Measurement   *Measurement `json:"-" gorm:"foreignKey:MeasurementID;references:ID"`
	Frequency     float64      `json:"frequency"`
	Resistance    float64      `json:"resistance"`
	Reactance     float64      `json:"reactance"`
	Capacitance   float64      `json:"capacitance"`
	IsDelete      int          `json:"is_delete"`
}

func (ColeCole) TableName() string {
	return "cole_cole"
}

// StandardPlot is one time/voltage sample for a measurement.
type StandardPlot struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	MeasurementID string       `json:"measurement_id"`
	Measurement   *Measurement `json:"-" gorm:"foreignKey:MeasurementID;references:ID"`
	Time          float64      `json:"time"`
	Voltage       float64      `json:"voltage"`
	IsDelete      int          `json:"is_delete"`
}

func (StandardPlot) TableName() string {
	return "standard_plot"
}

// Nanothickness is one row of five positional thickness readings for a
// measurement.
type Nanothickness struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	MeasurementID string       `json:"measurement_id"`
	Measurement   *Measurement `json:"-" gorm:"foreignKey:MeasurementID;references:ID"`
	Pos1          float64      `json:"pos1"`
	Pos2          float64      `json:"pos2"`
	Pos3          float64      `json:"pos3"`
	Pos4          float64      `json:"pos4"`
	Pos5          float64      `json:"pos5"`
	IsDelete      int          `json:"is_delete"`
}

func (Nanothickness) TableName() string {
	return "nanothickness"
}
