package stor

import (
	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
)

// ErrRemoteDisconnected is returned by every DisconnectedRemoteStor call.
// Check for it with errors.Is to tell "the remote said no" apart from "there
// is no remote".
var ErrRemoteDisconnected = errors.New("remote store is not connected")

// DisconnectedRemoteStor stands in for the central database when the process
// runs local-only. Every operation fails with ErrRemoteDisconnected, which
// callers on the login path downgrade to a warning.
type DisconnectedRemoteStor struct{}

func NewDisconnectedRemoteStor() *DisconnectedRemoteStor {
	return &DisconnectedRemoteStor{}
}

func (s *DisconnectedRemoteStor) FetchSnapshot(_ bool) (*Snapshot, error) {
	return nil, errors.Wrap(ErrRemoteDisconnected, "fetch snapshot")
}

func (s *DisconnectedRemoteStor) PushMeasurement(_ *tlmodel.Measurement) (int, error) {
	return 0, errors.Wrap(ErrRemoteDisconnected, "push measurement")
}

func (s *DisconnectedRemoteStor) PushColeCole(_ []tlmodel.ColeCole) error {
	return errors.Wrap(ErrRemoteDisconnected, "push cole-cole readings")
}

func (s *DisconnectedRemoteStor) PushStandardPlot(_ []tlmodel.StandardPlot) error {
	return errors.Wrap(ErrRemoteDisconnected, "push standard-plot readings")
}

func (s *DisconnectedRemoteStor) PushNanothickness(_ []tlmodel.Nanothickness) error {
	return errors.Wrap(ErrRemoteDisconnected, "push nanothickness readings")
}

func (s *DisconnectedRemoteStor) SoftDeleteMeasurement(_ string) error {
	return errors.Wrap(ErrRemoteDisconnected, "propagate soft-delete")
}
