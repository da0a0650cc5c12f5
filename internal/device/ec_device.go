package device

import (
	"sync"
	"time"

	"codeberg.org/mutker/handheldctl/internal/ec"
	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
	"codeberg.org/mutker/handheldctl/internal/logger"
)

// ecDevice is the shared implementation of the EC-backed hardware families.
// Each family supplies its own register map and identification data; the
// protocol codes are family-specific and never shared.
type ecDevice struct {
	manufacturer string
	name         string
	caps         Capabilities
	reg          ec.RegisterMap
	idents       []string
	cpus         []string
	openPort     func() (ec.PortIO, error)

	mu           sync.Mutex
	tr           *ec.Transport
	softwareMode bool
}

func (d *ecDevice) Manufacturer() string {
	return d.manufacturer
}

func (d *ecDevice) Name() string {
	return d.name
}

func (d *ecDevice) Capabilities() Capabilities {
	return d.caps
}

// IsSupported identifies the hardware in three tiers: system identification
// strings, then the known processor list, then a live transport probe. The
// probe is last because it touches the EC.
func (d *ecDevice) IsSupported(fp hwinfo.Fingerprint) bool {
	if fp.MatchesAny(d.idents...) {
		return true
	}

	if fp.ProcessorMatches(d.cpus...) {
		return true
	}

	return d.probe()
}

// probe attempts a single register read on a temporary transport. Success
// implies a compatible EC layout is present.
func (d *ecDevice) probe() bool {
	io, err := d.openPort()
	if err != nil {
		return false
	}

	tr := ec.NewTransport(io, d.reg)
	defer tr.Close()

	value, err := tr.ReadRegister(d.reg.FanDutyReg)
	if err != nil {
		return false
	}

	// The driver shim cannot fail a port read once loaded, so the byte
	// itself has to carry the signal: a compatible EC reports a duty
	// inside the device's native range.
	duty := int(value)

	return duty >= d.reg.DutyMin && duty <= d.reg.DutyMax
}

func (d *ecDevice) Initialize() error {
	errFactory := errors.New()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tr != nil {
		return nil
	}

	io, err := d.openPort()
	if err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}

	d.tr = ec.NewTransport(io, d.reg)

	return nil
}

func (d *ecDevice) SetFanControl(mode ControlMode) error {
	errFactory := errors.New()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tr == nil {
		return errFactory.New(ErrNotInitialized)
	}

	value := d.reg.EnableOff
	if mode == ControlSoftware {
		value = d.reg.EnableOn
	}

	if err := d.tr.WriteRegister(d.reg.FanEnableReg, value); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	d.softwareMode = mode == ControlSoftware

	logger.Debug().
		Str("device", d.name).
		Str("mode", mode.String()).
		Msg("Fan control mode set")

	return nil
}

// SetFanDuty promotes the device into software mode if needed, scales the
// percentage into the native duty range, and writes it.
func (d *ecDevice) SetFanDuty(percent float64) error {
	errFactory := errors.New()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tr == nil {
		return errFactory.New(ErrNotInitialized)
	}

	if !d.softwareMode {
		if err := d.tr.WriteRegister(d.reg.FanEnableReg, d.reg.EnableOn); err != nil {
			return errFactory.Wrap(ErrWriteFailed, err)
		}
		d.softwareMode = true
	}

	duty := ec.PercentToDuty(percent, d.reg.DutyMin, d.reg.DutyMax)
	if err := d.tr.WriteRegister(d.reg.FanDutyReg, byte(duty)); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	logger.Debug().
		Str("device", d.name).
		Float64("percent", percent).
		Int("duty", duty).
		Msg("Fan duty written")

	return nil
}

// Status reads the enable and duty registers. A failed read leaves the
// corresponding field at its default instead of failing the whole call.
func (d *ecDevice) Status() FanStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := FanStatus{LastUpdated: time.Now()}
	if d.tr == nil {
		return status
	}

	if enable, err := d.tr.ReadRegister(d.reg.FanEnableReg); err == nil {
		status.ControlEnabled = enable == d.reg.EnableOn
	}

	if duty, err := d.tr.ReadRegister(d.reg.FanDutyReg); err == nil {
		status.DutyPercent = ec.DutyToPercent(int(duty), d.reg.DutyMin, d.reg.DutyMax)
	}

	return status
}

func (d *ecDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tr == nil {
		return nil
	}

	err := d.tr.Close()
	d.tr = nil

	return err
}

// NewAyaneo builds the AYANEO handheld family device.
func NewAyaneo() Device {
	return newAyaneo(ec.OpenPortIO)
}

func newAyaneo(openPort func() (ec.PortIO, error)) Device {
	return &ecDevice{
		manufacturer: "AYANEO",
		name:         "AYANEO",
		caps: Capabilities{
			Features: []Feature{FeatureDutyControl},
			MinSpeed: 0,
			MaxSpeed: 100,
			Models:   []string{"AYANEO 2", "AIR", "AIR Pro", "GEEK"},
		},
		reg: ec.RegisterMap{
			StatusPort:   0x4E,
			DataPort:     0x4F,
			FanEnableReg: 0x44A,
			FanDutyReg:   0x44B,
			DutyMin:      0,
			DutyMax:      100,
			EnableOn:     0x01,
			EnableOff:    0x00,
			Protocol: ec.ProtocolConfig{
				AddrSelect:  0x2E,
				AddrSet:     0x2F,
				DataSelect:  0x2E,
				DataSet:     0x2F,
				HighAddrReg: 0x11,
				LowAddrReg:  0x10,
				DataReg:     0x12,
				ReadSelect:  0x2F,
			},
		},
		idents:   []string{"AYANEO", "AYA NEO"},
		cpus:     []string{"Ryzen 7 5825U", "Ryzen 5 5560U", "Ryzen 7 6800U"},
		openPort: openPort,
	}
}

// NewOneXPlayer builds the OneXPlayer handheld family device.
func NewOneXPlayer() Device {
	return newOneXPlayer(ec.OpenPortIO)
}

func newOneXPlayer(openPort func() (ec.PortIO, error)) Device {
	return &ecDevice{
		manufacturer: "ONE-NETBOOK",
		name:         "OneXPlayer",
		caps: Capabilities{
			Features: []Feature{FeatureDutyControl},
			MinSpeed: 0,
			MaxSpeed: 100,
			Models:   []string{"ONEXPLAYER Mini", "ONEXPLAYER 2"},
		},
		reg: ec.RegisterMap{
			StatusPort:   0x4E,
			DataPort:     0x4F,
			FanEnableReg: 0x4A2,
			FanDutyReg:   0x4B1,
			DutyMin:      0,
			DutyMax:      184,
			EnableOn:     0x01,
			EnableOff:    0x00,
			Protocol: ec.ProtocolConfig{
				AddrSelect:  0x2E,
				AddrSet:     0x2F,
				DataSelect:  0x2E,
				DataSet:     0x2F,
				HighAddrReg: 0x11,
				LowAddrReg:  0x10,
				DataReg:     0x12,
				ReadSelect:  0x2F,
			},
		},
		idents:   []string{"ONEXPLAYER", "ONE-NETBOOK"},
		cpus:     []string{"Ryzen 7 5800U", "Ryzen 7 6800U"},
		openPort: openPort,
	}
}
