// Package ingest validates and normalizes instrument CSV exports into typed
// tables ready for insertion. Nothing in here touches a database.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Required column sets, in canonical order, per reading kind.
var (
	ColeColeColumns      = []string{"frequency", "resistance", "reactance", "capacitance"}
	StandardPlotColumns  = []string{"time", "voltage"}
	NanothicknessColumns = []string{"pos1", "pos2", "pos3", "pos4", "pos5"}
)

// Table is a row-oriented projection of a CSV export onto exactly the
// required columns of one reading kind, in canonical order.
type Table struct {
	Columns []string
	Rows    [][]float64
}

func ReadColeColeCSV(path string) (*Table, error) {
	return readCSV(path, "Cole-Cole", ColeColeColumns)
}

func ReadStandardPlotCSV(path string) (*Table, error) {
	return readCSV(path, "Standard plot", StandardPlotColumns)
}

func ReadNanothicknessCSV(path string) (*Table, error) {
	return readCSV(path, "Nanothickness", NanothicknessColumns)
}

// readCSV loads the file at path, case-folds and trims the header, checks
// that every required column is present, and projects each record onto the
// required columns. Extra columns are dropped.
func readCSV(path, kind string, required []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s CSV", kind)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "%s CSV has no header row", kind)
	}

	// First occurrence wins if a header name repeats.
	position := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := position[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Errorf("%s CSV missing columns: %s", kind, strings.Join(missing, ", "))
	}

	table := &Table{Columns: required}

	for rowNum := 1; ; rowNum++ {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrapf(err, "%s CSV row %d", kind, rowNum)
		}

		row := make([]float64, len(required))
		for i, col := range required {
			cell := strings.TrimSpace(record[position[col]])
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Errorf("%s CSV row %d: column %q is not a number: %q", kind, rowNum, col, cell)
			}
			row[i] = value
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
