package fanctrl

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrNotReady           = errors.ErrorCode("fanctrl_not_ready")
	ErrNoDevice           = errors.ErrorCode("fanctrl_no_device")
	ErrFeatureUnsupported = errors.ErrorCode("fanctrl_feature_unsupported")
	ErrInvalidCurve       = errors.ErrorCode("fanctrl_invalid_curve")
)
