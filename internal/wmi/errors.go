package wmi

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrProviderUnavailable = errors.ErrorCode("wmi_provider_unavailable")
	ErrObjectNotFound      = errors.ErrorCode("wmi_object_not_found")
	ErrInvokeFailed        = errors.ErrorCode("wmi_invoke_failed")
)
