//go:build !windows

package hwinfo

import "codeberg.org/mutker/handheldctl/internal/errors"

// Collect is only implemented on Windows, where the supported devices run.
func Collect() (Fingerprint, error) {
	return Fingerprint{}, errors.New().New(errors.ErrNotImplemented)
}
