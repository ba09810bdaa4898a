package measure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds callers branch on with errors.Is. Not-found means retry with a
// different name, validation means fix the input, permission means the acting
// user isn't the creator.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrPermission = errors.New("permission denied")
)

// PartialDeleteError reports a soft-delete that succeeded locally but could
// not be propagated to the central database. The local delete is not rolled
// back; the stores stay diverged until the next full pull or a later
// successful delete sync.
type PartialDeleteError struct {
	MeasurementID string
	RemoteErr     error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("local delete succeeded, but server sync failed: %s", e.RemoteErr)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.RemoteErr
}
