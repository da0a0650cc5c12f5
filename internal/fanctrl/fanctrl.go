// Package fanctrl is the control engine: it owns device detection, the
// hardware/software control mode state machine and the loop that turns
// temperature readings into fan duty writes.
package fanctrl

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"codeberg.org/mutker/handheldctl/internal/device"
	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
	"codeberg.org/mutker/handheldctl/internal/logger"
	"codeberg.org/mutker/handheldctl/internal/sensor"
	"codeberg.org/mutker/handheldctl/internal/telemetry"
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateDetecting
	StateNoDevice
	StateReady
)

func (s State) String() string {
	switch s {
	case StateDetecting:
		return "detecting"
	case StateNoDevice:
		return "no_device"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Mode is the Ready sub-mode: who computes the fan duty.
type Mode int

const (
	// ModeHardwareAuto leaves the firmware curve in charge.
	ModeHardwareAuto Mode = iota
	// ModeSoftwareManaged drives duty from the configured curve.
	ModeSoftwareManaged
)

func (m Mode) String() string {
	if m == ModeSoftwareManaged {
		return "software_managed"
	}

	return "hardware_auto"
}

// DefaultMaxWriteFailures is the number of consecutive duty write failures
// after which the device is considered gone.
const DefaultMaxWriteFailures = 5

// Options configures the controller.
type Options struct {
	Curve            curve.FanCurve
	Monitor          bool
	MaxWriteFailures int
	Collector        telemetry.Collector
}

// Status is a point-in-time snapshot of the engine.
type Status struct {
	State  State
	Mode   Mode
	Device string
	Fan    device.FanStatus
}

// Controller runs the state machine and control loop over one detected
// device. All entry points are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	state State
	mode  Mode
	dev   device.Device

	curve    curve.FanCurve
	monitor  bool
	maxFails int
	fails    int
	lastDuty float64

	collector telemetry.Collector
	closeOnce sync.Once
}

func New(opts Options) *Controller {
	if opts.MaxWriteFailures <= 0 {
		opts.MaxWriteFailures = DefaultMaxWriteFailures
	}
	if opts.Collector == nil {
		opts.Collector = telemetry.NewNoop()
	}

	return &Controller{
		state:     StateUninitialized,
		mode:      ModeHardwareAuto,
		curve:     opts.Curve,
		monitor:   opts.Monitor,
		maxFails:  opts.MaxWriteFailures,
		collector: opts.Collector,
	}
}

// Detect runs device detection over the registry and moves the engine to
// Ready or NoDevice. There is no hot re-detection: a NoDevice outcome is
// final for the lifetime of the controller.
func (c *Controller) Detect(fp hwinfo.Fingerprint, registry []device.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errFactory := errors.New()

	c.state = StateDetecting

	dev, err := device.Detect(fp, registry)
	if err != nil {
		c.state = StateNoDevice

		return errFactory.Wrap(ErrNoDevice, err)
	}

	c.dev = dev
	c.state = StateReady
	c.mode = ModeHardwareAuto

	if c.curve.Enabled && !c.monitor {
		if err := c.enableSoftwareLocked(); err != nil {
			logger.Warn().
				Str("device", device.Description(dev)).
				Err(err).
				Msg("Could not enable software fan control, staying in hardware mode")
		}
	}

	return nil
}

// enableSoftwareLocked switches the device to software control and pushes
// the current curve to devices that take a table upload.
func (c *Controller) enableSoftwareLocked() error {
	if uploader, ok := c.dev.(device.CurveUploader); ok {
		if err := uploader.ApplyFanCurve(c.curve); err != nil {
			return err
		}
		c.mode = ModeSoftwareManaged

		return nil
	}

	if err := c.dev.SetFanControl(device.ControlSoftware); err != nil {
		return err
	}
	c.mode = ModeSoftwareManaged

	return nil
}

// HandleReading is one control step. In software mode it interpolates the
// curve at the reading's max temperature and writes the duty; a failed
// write is logged and the previous duty stays in effect. After enough
// consecutive failures the engine demotes itself to NoDevice.
func (c *Controller) HandleReading(ctx context.Context, reading sensor.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return
	}

	target := c.lastDuty
	if c.mode == ModeSoftwareManaged {
		target = c.curve.Interpolate(reading.Max)
		c.applyDutyLocked(target)
	}

	event := logger.Debug()
	if c.monitor {
		event = logger.Info()
	}
	event.
		Float64("temperature", reading.Max).
		Float64("target_duty", target).
		Float64("current_duty", c.lastDuty).
		Str("source", string(reading.Source)).
		Str("mode", c.mode.String()).
		Msg("Control tick")

	c.recordLocked(ctx, reading, target)
}

func (c *Controller) applyDutyLocked(target float64) {
	// Table-upload devices interpolate in firmware; the uploaded curve is
	// already in effect and per-tick writes would be redundant.
	if _, ok := c.dev.(device.CurveUploader); ok {
		c.lastDuty = target

		return
	}

	if err := c.dev.SetFanDuty(target); err != nil {
		c.fails++
		logger.Warn().
			Err(err).
			Int("consecutive_failures", c.fails).
			Msg("Fan duty write failed, keeping previous duty")

		if c.fails >= c.maxFails {
			logger.Error().
				Str("device", device.Description(c.dev)).
				Msg("Device stopped responding, giving up fan control")
			c.state = StateNoDevice
		}

		return
	}

	c.fails = 0
	c.lastDuty = target
}

func (c *Controller) recordLocked(ctx context.Context, reading sensor.Reading, target float64) {
	snapshot := &telemetry.Snapshot{
		Timestamp: time.Now(),
		Device:    device.Description(c.dev),
		Source:    string(reading.Source),
		Temperature: telemetry.TempMetrics{
			CPU: reading.CPU,
			GPU: reading.GPU,
			Max: reading.Max,
		},
		Fan: telemetry.FanMetrics{
			TargetDuty:  target,
			CurrentDuty: c.lastDuty,
		},
		SystemState: telemetry.StateMetrics{
			ControlEnabled: c.mode == ModeSoftwareManaged,
			Monitor:        c.monitor,
		},
	}

	if err := c.collector.Record(ctx, snapshot); err != nil {
		logger.Warn().Err(err).Msg("Failed to record telemetry tick")
	}
}

// Run consumes the poller's channels until the context is cancelled or the
// poller shuts down.
func (c *Controller) Run(ctx context.Context, poller *sensor.Poller) {
	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-poller.Readings():
			if !ok {
				return
			}
			c.HandleReading(ctx, reading)
		case err, ok := <-poller.Errors():
			if !ok {
				return
			}
			logger.Debug().Err(err).Msg("Temperature poll failed")
		}
	}
}

// SetCurve replaces the active curve. Table-upload devices get the new
// table pushed immediately when software control is active.
func (c *Controller) SetCurve(fc curve.FanCurve) error {
	errFactory := errors.New()

	if err := fc.Validate(); err != nil {
		return errFactory.Wrap(ErrInvalidCurve, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.curve = fc

	if c.state == StateReady && c.mode == ModeSoftwareManaged {
		if uploader, ok := c.dev.(device.CurveUploader); ok {
			if err := uploader.ApplyFanCurve(fc); err != nil {
				return err
			}
		}
	}

	return nil
}

// SetEnabled toggles between hardware and software fan control.
func (c *Controller) SetEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errFactory := errors.New()

	if c.state != StateReady {
		return errFactory.New(ErrNotReady)
	}

	if enabled {
		if c.mode == ModeSoftwareManaged {
			return nil
		}

		return c.enableSoftwareLocked()
	}

	if c.mode == ModeHardwareAuto {
		return nil
	}

	if err := c.dev.SetFanControl(device.ControlHardware); err != nil {
		return err
	}
	c.mode = ModeHardwareAuto

	return nil
}

// SetFullSpeed toggles the full-speed override on devices that have one.
func (c *Controller) SetFullSpeed(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errFactory := errors.New()

	if c.state != StateReady {
		return errFactory.New(ErrNotReady)
	}

	fs, ok := c.dev.(device.FullSpeedController)
	if !ok {
		return errFactory.New(ErrFeatureUnsupported)
	}

	return fs.SetFullSpeed(enabled)
}

// DeviceSensor returns the detected device's thermal sensors when it has
// any, for use as the last temperature fallback tier.
func (c *Controller) DeviceSensor() (sensor.DeviceTemperatures, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, false
	}

	reader, ok := c.dev.(sensor.DeviceTemperatures)

	return reader, ok
}

// DevicePresent reports whether a device is under control.
func (c *Controller) DevicePresent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state == StateReady
}

// Description returns the display string of the detected device, or empty
// when there is none.
func (c *Controller) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return ""
	}

	return device.Description(c.dev)
}

// Status snapshots the engine state. The fan status triggers a device read
// and may be stale on a demoted device.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		State: c.state,
		Mode:  c.mode,
	}
	if c.dev != nil {
		s.Device = device.Description(c.dev)
		s.Fan = c.dev.Status()
	}

	return s
}

// Close waits for any in-flight transport write, restores hardware fan
// control exactly once regardless of prior errors, and releases the device.
// The hardware restore failure is swallowed: there is nothing further to do
// with a transport that cannot take the restore write.
func (c *Controller) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.dev == nil {
			return
		}

		if err := c.dev.SetFanControl(device.ControlHardware); err != nil {
			logger.Warn().Err(err).Msg("Failed to restore hardware fan control")
		} else {
			logger.Info().Msg("Restored hardware fan control")
		}

		closeErr = c.dev.Close()
	})

	return closeErr
}
