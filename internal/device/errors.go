package device

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrNoDevice           = errors.ErrorCode("device_none_detected")
	ErrNotInitialized     = errors.ErrorCode("device_not_initialized")
	ErrInitFailed         = errors.ErrorCode("device_init_failed")
	ErrUnsupportedMode    = errors.ErrorCode("device_unsupported_mode")
	ErrWriteFailed        = errors.ErrorCode("device_write_failed")
	ErrTransportMissing   = errors.ErrorCode("device_transport_missing")
	ErrFeatureUnsupported = errors.ErrorCode("device_feature_unsupported")
)
