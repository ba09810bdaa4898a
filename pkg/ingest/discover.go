package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies one of the three instrument export formats.
type Kind string

const (
	KindColeCole      Kind = "cole_cole"
	KindStandardPlot  Kind = "standard_plot"
	KindNanothickness Kind = "nanothickness"
)

// Instrument exports are dropped into a measurement folder and recognized by
// filename prefix: CC_*.csv for Cole-Cole, _*.csv for standard plots and
// nn_*.csv for nanothickness.
var kindPrefixes = map[Kind]string{
	KindColeCole:      "CC_",
	KindStandardPlot:  "_",
	KindNanothickness: "nn_",
}

// FindCSV looks in dir for the CSV export of the given kind. It returns the
// full path of the first match in name order, or ok=false when the folder has
// no export of that kind.
func FindCSV(dir string, kind Kind) (path string, ok bool, err error) {
	prefix, known := kindPrefixes[kind]
	if !known {
		return "", false, errors.Errorf("unknown reading kind %q", kind)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, errors.Wrapf(err, "read measurement folder %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(strings.ToLower(name), ".csv") {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "", false, nil
	}

	sort.Strings(names)

	return filepath.Join(dir, names[0]), true, nil
}

// ReadCSV dispatches to the reader for the given kind.
func ReadCSV(path string, kind Kind) (*Table, error) {
	switch kind {
	case KindColeCole:
		return ReadColeColeCSV(path)
	case KindStandardPlot:
		return ReadStandardPlotCSV(path)
	case KindNanothickness:
		return ReadNanothicknessCSV(path)
	default:
		return nil, errors.Errorf("unknown reading kind %q", kind)
	}
}
