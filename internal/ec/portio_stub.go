//go:build !windows

package ec

import "codeberg.org/mutker/handheldctl/internal/errors"

// OpenPortIO is only implemented on Windows, where the supported devices
// run. The transport stays closed elsewhere.
func OpenPortIO() (PortIO, error) {
	return nil, errors.New().New(ErrDriverUnavailable)
}
