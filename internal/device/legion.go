package device

import (
	"sync"
	"time"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
	"codeberg.org/mutker/handheldctl/internal/logger"
	"codeberg.org/mutker/handheldctl/internal/wmi"
)

// Lenovo WMI provider identifiers. The fan table call passes the 64-byte
// table under the FanTable parameter name.
const (
	legionScope = `root\WMI`

	gameZoneQuery  = "SELECT * FROM LENOVO_GAMEZONE_DATA"
	fanMethodQuery = "SELECT * FROM LENOVO_FAN_METHOD"

	methodGetSmartFanMode = "GetSmartFanMode"
	methodSetSmartFanMode = "SetSmartFanMode"
	methodSetFanTable     = "Fan_Set_Table"
	methodGetFanSpeed     = "Fan_GetCurrentFanSpeed"
	methodGetSensorTemp   = "Fan_GetCurrentSensorTemperature"
	methodSetFullSpeed    = "Fan_Set_FullSpeed"

	paramData     = "Data"
	paramFanTable = "FanTable"
	paramSensorID = "SensorID"
	paramStatus   = "Status"
	outFanSpeed   = "CurrentFanSpeed"
	outSensorTemp = "CurrentSensorTemperature"
	cpuSensorID   = 3
	gpuSensorID   = 4
)

// Smart fan modes understood by the firmware.
const (
	fanModeQuiet       = 1
	fanModeBalanced    = 2
	fanModePerformance = 3
	fanModeCustom      = 255
)

// legionGo drives the Lenovo Legion Go through the WMI method transport.
// Unlike the EC families it uploads whole fan tables and has a full-speed
// override.
type legionGo struct {
	inv wmi.Invoker

	mu          sync.Mutex
	initialized bool
	fanMode     int
}

// NewLegionGo builds the Legion Go device over the given method transport.
func NewLegionGo(inv wmi.Invoker) Device {
	return &legionGo{inv: inv, fanMode: fanModeBalanced}
}

func (d *legionGo) Manufacturer() string {
	return "Lenovo"
}

func (d *legionGo) Name() string {
	return "Legion Go"
}

func (d *legionGo) Capabilities() Capabilities {
	return Capabilities{
		Features: []Feature{
			FeatureDutyControl,
			FeatureCurveUpload,
			FeatureMultiProfile,
			FeatureFullSpeed,
			FeatureRPMRead,
			FeatureTempRead,
		},
		MinSpeed: 0,
		MaxSpeed: 100,
		Models:   []string{"83E1", "Legion Go"},
	}
}

// IsSupported matches on the model string only. The method transport cannot
// be probed without side effects, so there is no probe fallback.
func (d *legionGo) IsSupported(fp hwinfo.Fingerprint) bool {
	return fp.ModelMatches(d.Capabilities().Models...)
}

// Initialize verifies the fan method provider answers. A missing provider
// means the ACPI firmware interface is absent.
func (d *legionGo) Initialize() error {
	errFactory := errors.New()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inv == nil {
		return errFactory.New(ErrTransportMissing)
	}

	result, err := d.inv.Invoke(legionScope, gameZoneQuery, methodGetSmartFanMode, nil, paramData)
	if err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}

	if mode, ok := result.Int(paramData); ok {
		d.fanMode = mode
	}
	d.initialized = true

	return nil
}

func (d *legionGo) SetFanControl(mode ControlMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.setFanControlLocked(mode)
}

func (d *legionGo) setFanControlLocked(mode ControlMode) error {
	errFactory := errors.New()

	if !d.initialized {
		return errFactory.New(ErrNotInitialized)
	}

	target := fanModeBalanced
	if mode == ControlSoftware {
		target = fanModeCustom
	}

	_, err := d.inv.Invoke(legionScope, gameZoneQuery, methodSetSmartFanMode,
		map[string]interface{}{paramData: int32(target)})
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	d.fanMode = target

	logger.Debug().
		Str("device", d.Name()).
		Str("mode", mode.String()).
		Int("fan_mode", target).
		Msg("Smart fan mode set")

	return nil
}

// SetFanDuty uploads a flat fan table pinned to the requested percentage.
// The firmware has no single-duty call; the table write is the only write
// path.
func (d *legionGo) SetFanDuty(percent float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return errors.New().New(ErrNotInitialized)
	}

	if d.fanMode != fanModeCustom {
		if err := d.setFanControlLocked(ControlSoftware); err != nil {
			return err
		}
	}

	var speeds [curve.TableSize]float64
	for i := range speeds {
		speeds[i] = percent
	}

	return d.uploadTable(speeds)
}

// ApplyFanCurve re-derives the ten-point table from the five-point curve by
// sampling at the fixed temperature checkpoints and uploads it in one write.
func (d *legionGo) ApplyFanCurve(c curve.FanCurve) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return errors.New().New(ErrNotInitialized)
	}

	if d.fanMode != fanModeCustom {
		if err := d.setFanControlLocked(ControlSoftware); err != nil {
			return err
		}
	}

	return d.uploadTable(c.SampleTable())
}

func (d *legionGo) uploadTable(speeds [curve.TableSize]float64) error {
	errFactory := errors.New()

	table := EncodeFanTable(speeds)
	_, err := d.inv.Invoke(legionScope, fanMethodQuery, methodSetFanTable,
		map[string]interface{}{paramFanTable: table[:]})
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	logger.Debug().
		Str("device", d.Name()).
		Interface("speeds", speeds).
		Msg("Fan table uploaded")

	return nil
}

// SetFullSpeed toggles the firmware's full-speed override.
func (d *legionGo) SetFullSpeed(enabled bool) error {
	errFactory := errors.New()

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return errFactory.New(ErrNotInitialized)
	}

	_, err := d.inv.Invoke(legionScope, fanMethodQuery, methodSetFullSpeed,
		map[string]interface{}{paramStatus: enabled})
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	return nil
}

// Status reads fan mode, RPM and sensor temperature. Each failed read
// leaves its field at the default.
func (d *legionGo) Status() FanStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := FanStatus{LastUpdated: time.Now()}
	if !d.initialized {
		return status
	}

	if result, err := d.inv.Invoke(legionScope, gameZoneQuery, methodGetSmartFanMode, nil, paramData); err == nil {
		if mode, ok := result.Int(paramData); ok {
			d.fanMode = mode
			status.ControlEnabled = mode == fanModeCustom
		}
	}

	if rpm := wmi.Value(d.inv, legionScope, fanMethodQuery, methodGetFanSpeed, nil,
		func(r wmi.Result) (*int, bool) {
			v, ok := r.Int(outFanSpeed)

			return &v, ok
		}, outFanSpeed); rpm != nil {
		status.Rpm = rpm
	}

	if temp, ok := d.sensorTemperature(cpuSensorID); ok {
		status.Temperature = &temp
	}

	return status
}

// SensorTemperatures reads the CPU and GPU thermal sensors through the fan
// method provider. It backs the device tier of the temperature source.
func (d *legionGo) SensorTemperatures() (cpu, gpu float64, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return 0, 0, false
	}

	cpu, cpuOK := d.sensorTemperature(cpuSensorID)
	gpu, gpuOK := d.sensorTemperature(gpuSensorID)

	return cpu, gpu, cpuOK || gpuOK
}

func (d *legionGo) sensorTemperature(sensorID int) (float64, bool) {
	temp := wmi.Value(d.inv, legionScope, fanMethodQuery, methodGetSensorTemp,
		map[string]interface{}{paramSensorID: int32(sensorID)},
		func(r wmi.Result) (*float64, bool) {
			v, ok := r.Int(outSensorTemp)
			celsius := float64(v)

			return &celsius, ok
		}, outSensorTemp)
	if temp == nil {
		return 0, false
	}

	return *temp, true
}

func (d *legionGo) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.initialized = false

	return nil
}
