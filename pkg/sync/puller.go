// Package sync orchestrates the two data flows between the local mirror and
// the shared central database: full-refresh pulls and per-measurement pushes.
// No sync state is kept between runs; every run works off the current
// contents of both stores.
package sync

import (
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
)

// Report describes one full pull: how many rows per table got discarded from
// the mirror and how many were loaded from the central database.
type Report struct {
	Discarded map[string]int64
	Loaded    map[string]int
}

// Puller implements the full-refresh pull. Precondition: anything local-only
// (an unpushed measurement, unpushed readings) is destroyed by a pull; the
// Report says how much was thrown away.
type Puller struct {
	mirror               stor.MirrorStor
	remote               stor.RemoteStor
	includeNanothickness bool
}

type PullOptions struct {
	// IncludeNanothickness extends the refresh to the nanothickness table.
	// The default mirror refresh covers users, devices, measurements,
	// cole_cole and standard_plot only.
	IncludeNanothickness bool
}

func NewPuller(mirror stor.MirrorStor, remote stor.RemoteStor, opts PullOptions) *Puller {
	return &Puller{
		mirror:               mirror,
		remote:               remote,
		includeNanothickness: opts.IncludeNanothickness,
	}
}

// Pull wipes the mirror and reloads it from the central database. The wipe
// happens in the same transaction as the reload, so a fetch or insert failure
// leaves the previous mirror intact.
func (p *Puller) Pull() (*Report, error) {
	snapshot, err := p.remote.FetchSnapshot(p.includeNanothickness)
	if err != nil {
		return nil, errors.Wrap(err, "pull from central database")
	}

	discarded, err := p.mirror.ReplaceAll(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "reload local mirror")
	}

	report := &Report{
		Discarded: discarded,
		Loaded: map[string]int{
			"users":         len(snapshot.Users),
			"devices":       len(snapshot.Devices),
			"measurements":  len(snapshot.Measurements),
			"cole_cole":     len(snapshot.ColeCole),
			"standard_plot": len(snapshot.StandardPlot),
			"nanothickness": len(snapshot.Nanothickness),
		},
	}

	log.Infof("Pulled %d devices, %d measurements from central database",
		report.Loaded["devices"], report.Loaded["measurements"])

	return report, nil
}
