package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestReadColeColeCSVProjectsRequiredColumns(t *testing.T) {
	// Shuffled column order, mixed case, padded headers and an extra column.
	path := writeCSV(t, "CC_run1.csv",
		" Resistance ,extra,CAPACITANCE,frequency,reactance\n"+
			"2.5,ignored is not a number,4.5,1.5,3.5\n"+
			"20,still ignored,40,10,30\n")

	table, err := ReadColeColeCSV(path)
	require.NoError(t, err)

	assert.Equal(t, ColeColeColumns, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5}, table.Rows[0])
	assert.Equal(t, []float64{10, 20, 30, 40}, table.Rows[1])
}

func TestReadStandardPlotCSV(t *testing.T) {
	path := writeCSV(t, "_plot.csv", "voltage,time\n0.5,0\n0.7,1\n")

	table, err := ReadStandardPlotCSV(path)
	require.NoError(t, err)

	assert.Equal(t, StandardPlotColumns, table.Columns)
	assert.Equal(t, []float64{0, 0.5}, table.Rows[0])
	assert.Equal(t, []float64{1, 0.7}, table.Rows[1])
}

func TestReadNanothicknessCSV(t *testing.T) {
	path := writeCSV(t, "nn_sample.csv",
		"pos1,pos2,pos3,pos4,pos5\n1,2,3,4,5\n")

	table, err := ReadNanothicknessCSV(path)
	require.NoError(t, err)
	assert.Equal(t, NanothicknessColumns, table.Columns)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, table.Rows[0])
}

func TestMissingColumnsAreNamed(t *testing.T) {
	path := writeCSV(t, "CC_bad.csv", "frequency,reactance\n1,2\n")

	_, err := ReadColeColeCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "capacitance, resistance")
	assert.NotContains(t, err.Error(), "frequency")
}

func TestNonNumericCellFails(t *testing.T) {
	path := writeCSV(t, "_plot.csv", "time,voltage\n1,abc\n")

	_, err := ReadStandardPlotCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "voltage"`)
}

func TestEmptyFileFails(t *testing.T) {
	path := writeCSV(t, "CC_empty.csv", "")

	_, err := ReadColeColeCSV(path)
	require.Error(t, err)
}

func TestHeaderOnlyGivesEmptyTable(t *testing.T) {
	path := writeCSV(t, "nn_empty.csv", "pos1,pos2,pos3,pos4,pos5\n")

	table, err := ReadNanothicknessCSV(path)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestFindCSVByPrefix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"CC_data.csv", "_trace.csv", "nn_thick.csv", "notes.txt", "CC_readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	path, ok, err := FindCSV(dir, KindColeCole)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "CC_data.csv"), path)

	path, ok, err = FindCSV(dir, KindStandardPlot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "_trace.csv"), path)

	path, ok, err = FindCSV(dir, KindNanothickness)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "nn_thick.csv"), path)
}

func TestFindCSVNoMatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.csv"), []byte("x"), 0644))

	_, ok, err := FindCSV(dir, KindColeCole)
	require.NoError(t, err)
	assert.False(t, ok)
}
