package hwinfo

import "codeberg.org/mutker/handheldctl/internal/errors"

const (
	ErrQueryFailed = errors.ErrorCode("hwinfo_query_failed")
)
