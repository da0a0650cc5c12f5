// Package device defines the fan control device abstraction and the concrete
// implementations for the supported hardware families.
package device

import (
	"time"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
)

// ControlMode selects who owns the fan duty cycle.
type ControlMode int

const (
	// ControlHardware leaves the firmware's native curve in charge.
	ControlHardware ControlMode = iota
	// ControlSoftware hands duty control to the orchestrator.
	ControlSoftware
)

func (m ControlMode) String() string {
	if m == ControlSoftware {
		return "software"
	}

	return "hardware"
}

// Feature tags a capability a device variant supports.
type Feature string

const (
	FeatureDutyControl  Feature = "duty_control"
	FeatureCurveUpload  Feature = "curve_upload"
	FeatureMultiProfile Feature = "multi_profile"
	FeatureFullSpeed    Feature = "full_speed"
	FeatureRPMRead      Feature = "rpm_read"
	FeatureTempRead     Feature = "temp_read"
)

// Capabilities is the immutable feature set of a device type.
type Capabilities struct {
	Features []Feature
	MinSpeed float64
	MaxSpeed float64
	Models   []string
}

// Has reports whether the capability set includes the feature.
func (c Capabilities) Has(feature Feature) bool {
	for _, f := range c.Features {
		if f == feature {
			return true
		}
	}

	return false
}

// FanStatus is an on-demand snapshot of fan state. Optional fields stay nil
// when the device cannot read them or a read failed.
type FanStatus struct {
	ControlEnabled bool
	DutyPercent    float64
	Rpm            *int
	Temperature    *float64
	LastUpdated    time.Time
}

// Device is the common contract over both hardware protocols. Steady-state
// operations return errors instead of panicking; a failed status read leaves
// the affected fields at their defaults.
type Device interface {
	Manufacturer() string
	Name() string
	Capabilities() Capabilities

	// IsSupported checks whether the running hardware matches this device
	// type, without acquiring the transport where that can be avoided.
	IsSupported(fp hwinfo.Fingerprint) bool

	// Initialize acquires the transport. On failure any partially acquired
	// handle is released.
	Initialize() error

	SetFanControl(mode ControlMode) error
	SetFanDuty(percent float64) error
	Status() FanStatus

	Close() error
}

// CurveUploader is implemented by devices that take a whole fan table in one
// batched write instead of single duty values.
type CurveUploader interface {
	ApplyFanCurve(c curve.FanCurve) error
}

// FullSpeedController is implemented by devices with a full-speed override.
type FullSpeedController interface {
	SetFullSpeed(enabled bool) error
}

// Description formats the display string for a device.
func Description(d Device) string {
	return d.Manufacturer() + " " + d.Name()
}
