//go:build windows

package sensor

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
	"github.com/yusufpapurcu/wmi"
)

type msAcpiThermalZone struct {
	CurrentTemperature uint32
}

type thermalZoneInformation struct {
	Temperature uint32
}

// acpiReader reads the ACPI thermal zones. Values arrive in tenths of a
// Kelvin.
type acpiReader struct{}

// NewACPIReader returns the highest-priority temperature tier.
func NewACPIReader() Reader {
	return &acpiReader{}
}

func (*acpiReader) Read() (Reading, error) {
	errFactory := errors.New()

	var zones []msAcpiThermalZone
	query := "SELECT CurrentTemperature FROM MSAcpi_ThermalZoneTemperature"
	if err := wmi.QueryNamespace(query, &zones, `root\wmi`); err != nil {
		return Reading{}, errFactory.Wrap(ErrReadFailed, err)
	}
	if len(zones) == 0 {
		return Reading{}, errFactory.New(ErrNoZonesFound)
	}

	var maxDeciKelvin uint32
	for _, zone := range zones {
		if zone.CurrentTemperature > maxDeciKelvin {
			maxDeciKelvin = zone.CurrentTemperature
		}
	}

	celsius := (float64(maxDeciKelvin) - 2732.0) / 10.0

	return NewReading(&celsius, nil, SourceACPI), nil
}

// perfCounterReader reads the thermal zone performance counters, which some
// firmwares populate when the ACPI class is empty. Values are in Kelvin.
type perfCounterReader struct{}

// NewPerfCounterReader returns the second temperature tier.
func NewPerfCounterReader() Reader {
	return &perfCounterReader{}
}

func (*perfCounterReader) Read() (Reading, error) {
	errFactory := errors.New()

	var zones []thermalZoneInformation
	query := "SELECT Temperature FROM Win32_PerfFormattedData_Counters_ThermalZoneInformation"
	if err := wmi.Query(query, &zones); err != nil {
		return Reading{}, errFactory.Wrap(ErrReadFailed, err)
	}
	if len(zones) == 0 {
		return Reading{}, errFactory.New(ErrNoZonesFound)
	}

	var maxKelvin uint32
	for _, zone := range zones {
		if zone.Temperature > maxKelvin {
			maxKelvin = zone.Temperature
		}
	}

	celsius := float64(maxKelvin) - 273.15

	return NewReading(&celsius, nil, SourcePerfCounter), nil
}
