package measure

import (
	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/ingest"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
)

// Reading inserts take a validated table straight from the CSV ingestors.
// Every call inserts every row again; the "already in DB, sync again?"
// confirmation lives above this layer.

func (s *Service) InsertColeCole(measurementID string, table *ingest.Table) error {
	if err := checkColumns(table, ingest.ColeColeColumns); err != nil {
		return err
	}

	readings := make([]tlmodel.ColeCole, len(table.Rows))
	for i, row := range table.Rows {
		readings[i] = tlmodel.ColeCole{
			Frequency:   row[0],
			Resistance:  row[1],
			Reactance:   row[2],
			Capacitance: row[3],
		}
	}

	return s.readings.InsertColeCole(measurementID, readings)
}

func (s *Service) InsertStandardPlot(measurementID string, table *ingest.Table) error {
	if err := checkColumns(table, ingest.StandardPlotColumns); err != nil {
		return err
	}

	readings := make([]tlmodel.StandardPlot, len(table.Rows))
	for i, row := range table.Rows {
		readings[i] = tlmodel.StandardPlot{
			Time:    row[0],
			Voltage: row[1],
		}
	}

	return s.readings.InsertStandardPlot(measurementID, readings)
}

func (s *Service) InsertNanothickness(measurementID string, table *ingest.Table) error {
	if err := checkColumns(table, ingest.NanothicknessColumns); err != nil {
		return err
	}

	readings := make([]tlmodel.Nanothickness, len(table.Rows))
	for i, row := range table.Rows {
		readings[i] = tlmodel.Nanothickness{
			Pos1: row[0],
			Pos2: row[1],
			Pos3: row[2],
			Pos4: row[3],
			Pos5: row[4],
		}
	}

	return s.readings.InsertNanothickness(measurementID, readings)
}

func checkColumns(table *ingest.Table, want []string) error {
	if len(table.Columns) != len(want) {
		return errors.Wrapf(ErrValidation, "expected columns %v, got %v", want, table.Columns)
	}
	for i, col := range want {
		if table.Columns[i] != col {
			return errors.Wrapf(ErrValidation, "expected columns %v, got %v", want, table.Columns)
		}
	}

	return nil
}
