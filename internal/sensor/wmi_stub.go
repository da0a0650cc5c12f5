//go:build !windows

package sensor

import "codeberg.org/mutker/handheldctl/internal/errors"

type unavailableReader struct{}

func (*unavailableReader) Read() (Reading, error) {
	return Reading{}, errors.New().New(ErrReadFailed)
}

// NewACPIReader is only functional on Windows.
func NewACPIReader() Reader {
	return &unavailableReader{}
}

// NewPerfCounterReader is only functional on Windows.
func NewPerfCounterReader() Reader {
	return &unavailableReader{}
}
