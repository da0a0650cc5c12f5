package curve

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrUnknownPreset         = errors.ErrorCode("curve_unknown_preset")
	ErrTemperatureOutOfRange = errors.ErrorCode("curve_temperature_out_of_range")
	ErrSpeedOutOfRange       = errors.ErrorCode("curve_speed_out_of_range")
	ErrPointsNotAscending    = errors.ErrorCode("curve_points_not_ascending")
)
