package ec

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrDriverUnavailable = errors.ErrorCode("ec_driver_unavailable")
	ErrPortWriteFailed   = errors.ErrorCode("ec_port_write_failed")
	ErrPortReadFailed    = errors.ErrorCode("ec_port_read_failed")
)
