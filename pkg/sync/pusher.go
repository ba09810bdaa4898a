package sync

import (
	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/lock"
	"github.com/thermal-commons/thermald/pkg/measure"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
	"gorm.io/gorm"
)

// Pusher propagates one locally accepted measurement and its readings to the
// central database.
type Pusher struct {
	measurements stor.MeasurementStor
	readings     stor.ReadingStor
	remote       stor.RemoteStor
	locks        *lock.IDLocker
}

func NewPusher(stors *stor.Stors, remote stor.RemoteStor) *Pusher {
	return &Pusher{
		measurements: stors.MeasurementStor,
		readings:     stors.ReadingStor,
		remote:       remote,
		locks:        lock.NewIDLocker(),
	}
}

// PushMeasurement inserts the measurement row on the central database with
// the next order number for its device. Already-pushed measurements are a
// no-op; the order number assignment stays with whatever the remote already
// holds.
func (p *Pusher) PushMeasurement(measurementID string) (int, error) {
	measurement, err := p.measurements.GetMeasurementByID(measurementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errors.Wrapf(measure.ErrNotFound, "measurement %s", measurementID)
	}
	if err != nil {
		return 0, err
	}

	return p.remote.PushMeasurement(measurement)
}

// Push pushes the measurement row, then every non-deleted local reading of
// all three kinds. Reading rows get fresh ids on each push, so pushing the
// same measurement twice duplicates its readings remotely. The confirmation
// before re-pushing is the caller's responsibility, not a storage guarantee.
// Pushes of the same measurement are serialized.
func (p *Pusher) Push(measurementID string) (int, error) {
	var numOrder int
	err := p.locks.WithLock(measurementID, func() error {
		var err error
		numOrder, err = p.push(measurementID)
		return err
	})
	return numOrder, err
}

func (p *Pusher) push(measurementID string) (int, error) {
	numOrder, err := p.PushMeasurement(measurementID)
	if err != nil {
		return 0, err
	}

	coleCole, err := p.readings.GetColeCole(measurementID)
	if err != nil {
		return 0, err
	}
	if len(coleCole) > 0 {
		if err := p.remote.PushColeCole(coleCole); err != nil {
			return 0, errors.Wrap(err, "push cole-cole readings")
		}
	}

	standardPlot, err := p.readings.GetStandardPlot(measurementID)
	if err != nil {
		return 0, err
	}
	if len(standardPlot) > 0 {
		if err := p.remote.PushStandardPlot(standardPlot); err != nil {
			return 0, errors.Wrap(err, "push standard-plot readings")
		}
	}

	nanothickness, err := p.readings.GetNanothickness(measurementID)
	if err != nil {
		return 0, err
	}
	if len(nanothickness) > 0 {
		if err := p.remote.PushNanothickness(nanothickness); err != nil {
			return 0, errors.Wrap(err, "push nanothickness readings")
		}
	}

	return numOrder, nil
}
