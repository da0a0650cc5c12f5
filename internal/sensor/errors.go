package sensor

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrNoReading    = errors.ErrorCode("sensor_no_reading")
	ErrReadFailed   = errors.ErrorCode("sensor_read_failed")
	ErrNoZonesFound = errors.ErrorCode("sensor_no_thermal_zones")
)
