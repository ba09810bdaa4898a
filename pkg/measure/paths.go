package measure

import (
	"path/filepath"

	"github.com/gosimple/slug"
)

// The data root holds one folder per device, each holding one folder per
// measurement. Folder names are slugs of the device/measurement names so
// operator-entered names can't produce unusable paths.

func DevicesRoot(dataRoot string) string {
	return filepath.Join(dataRoot, "devices")
}

func DeviceDir(dataRoot, deviceName string) string {
	return filepath.Join(DevicesRoot(dataRoot), slug.Make(deviceName))
}

func MeasurementDir(dataRoot, deviceName, measurementName string) string {
	return filepath.Join(DeviceDir(dataRoot, deviceName), slug.Make(measurementName))
}
