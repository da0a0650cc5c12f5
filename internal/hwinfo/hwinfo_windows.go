//go:build windows

package hwinfo

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
	"github.com/yusufpapurcu/wmi"
)

type win32ComputerSystem struct {
	Manufacturer string
	Model        string
	SystemFamily string
}

type win32ComputerSystemProduct struct {
	Version string
}

type win32Processor struct {
	Name string
}

// Collect queries WMI for the system identification strings. A partially
// filled fingerprint is still useful, so per-query failures only blank the
// corresponding fields.
func Collect() (Fingerprint, error) {
	errFactory := errors.New()
	fp := Fingerprint{}

	var systems []win32ComputerSystem
	if err := wmi.Query("SELECT Manufacturer, Model, SystemFamily FROM Win32_ComputerSystem", &systems); err != nil {
		return fp, errFactory.Wrap(ErrQueryFailed, err)
	}
	if len(systems) > 0 {
		fp.Manufacturer = systems[0].Manufacturer
		fp.Model = systems[0].Model
		fp.Family = systems[0].SystemFamily
	}

	var products []win32ComputerSystemProduct
	if err := wmi.Query("SELECT Version FROM Win32_ComputerSystemProduct", &products); err == nil && len(products) > 0 {
		fp.Version = products[0].Version
	}

	var processors []win32Processor
	if err := wmi.Query("SELECT Name FROM Win32_Processor", &processors); err == nil && len(processors) > 0 {
		fp.Processor = processors[0].Name
	}

	return fp, nil
}
