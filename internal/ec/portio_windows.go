//go:build windows

package ec

import (
	"os"

	"codeberg.org/mutker/handheldctl/internal/errors"
	"golang.org/x/sys/windows"
)

const driverDLL = "inpoutx64.dll"

// inpoutPortIO drives raw port I/O through the inpoutx64.dll kernel driver
// shim. The DLL must ship next to the binary.
type inpoutPortIO struct {
	dll   *windows.LazyDLL
	out32 *windows.LazyProc
	inp32 *windows.LazyProc
}

// OpenPortIO loads the port I/O driver. A missing DLL or denied driver
// access is reported as an error and leaves no handle behind.
func OpenPortIO() (PortIO, error) {
	errFactory := errors.New()

	if _, err := os.Stat(driverDLL); os.IsNotExist(err) {
		return nil, errFactory.WithData(ErrDriverUnavailable, driverDLL)
	}

	dll := windows.NewLazyDLL(driverDLL)
	if err := dll.Load(); err != nil {
		return nil, errFactory.Wrap(ErrDriverUnavailable, err)
	}

	out32 := dll.NewProc("Out32")
	inp32 := dll.NewProc("Inp32")
	if out32.Find() != nil || inp32.Find() != nil {
		return nil, errFactory.WithData(ErrDriverUnavailable, "Inp32/Out32 not exported")
	}

	return &inpoutPortIO{
		dll:   dll,
		out32: out32,
		inp32: inp32,
	}, nil
}

func (p *inpoutPortIO) Outb(port uint16, value byte) error {
	p.out32.Call(uintptr(port), uintptr(value))

	return nil
}

func (p *inpoutPortIO) Inb(port uint16) (byte, error) {
	result, _, _ := p.inp32.Call(uintptr(port))

	return byte(result), nil
}

func (p *inpoutPortIO) Close() error {
	return nil
}
