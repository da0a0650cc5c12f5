// Package sensor provides the temperature source feeding the control loop:
// a tiered fallback chain of readers and a poller that raises change
// notifications above a noise threshold.
package sensor

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
)

// Source identifies which tier produced a reading.
type Source string

const (
	SourceACPI        Source = "acpi_thermal_zone"
	SourcePerfCounter Source = "thermal_perf_counter"
	SourceDevice      Source = "device_sensor"
)

// Reading is one temperature sample. CPU and GPU stay nil when the tier
// cannot distinguish them; Max is always set.
type Reading struct {
	CPU    *float64
	GPU    *float64
	Max    float64
	Source Source
}

// NewReading derives Max from the available component temperatures.
func NewReading(cpu, gpu *float64, source Source) Reading {
	r := Reading{CPU: cpu, GPU: gpu, Source: source}

	if cpu != nil {
		r.Max = *cpu
	}
	if gpu != nil && *gpu > r.Max {
		r.Max = *gpu
	}

	return r
}

// Reader produces one temperature sample per call.
type Reader interface {
	Read() (Reading, error)
}

// DeviceTemperatures is implemented by devices that expose their own
// thermal sensors; it backs the lowest-priority tier.
type DeviceTemperatures interface {
	SensorTemperatures() (cpu, gpu float64, ok bool)
}

// chain tries each tier in order and returns the first reading.
type chain struct {
	tiers []Reader
}

// NewChain builds the tiered fallback reader. Tier order is priority order.
func NewChain(tiers ...Reader) Reader {
	return &chain{tiers: tiers}
}

func (c *chain) Read() (Reading, error) {
	errFactory := errors.New()

	var lastErr error
	for _, tier := range c.tiers {
		reading, err := tier.Read()
		if err == nil {
			return reading, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return Reading{}, errFactory.Wrap(ErrNoReading, lastErr)
	}

	return Reading{}, errFactory.New(ErrNoReading)
}

// deviceReader adapts a device's thermal sensors to the Reader interface.
type deviceReader struct {
	dev DeviceTemperatures
}

// NewDeviceReader wraps a device sensor as the last fallback tier.
func NewDeviceReader(dev DeviceTemperatures) Reader {
	return &deviceReader{dev: dev}
}

func (r *deviceReader) Read() (Reading, error) {
	cpu, gpu, ok := r.dev.SensorTemperatures()
	if !ok {
		return Reading{}, errors.New().New(ErrReadFailed)
	}

	return NewReading(&cpu, &gpu, SourceDevice), nil
}
