package device

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
	"codeberg.org/mutker/handheldctl/internal/logger"
	"codeberg.org/mutker/handheldctl/internal/wmi"
)

// DefaultRegistry builds the ordered list of supported device types.
// Identification is a priority chain, not a score: the first confident match
// wins, so cheap side-effect-free matchers come first.
func DefaultRegistry() []Device {
	inv, err := wmi.NewInvoker()
	if err != nil {
		logger.Debug().Msg("Method transport unavailable")
		inv = nil
	}

	return []Device{
		NewLegionGo(inv),
		NewAyaneo(),
		NewOneXPlayer(),
	}
}

// Detect tries each registered device in order: first IsSupported, then
// Initialize, keeping the first type for which both succeed. All other
// candidates are closed without being initialized. No match returns
// ErrNoDevice and the caller runs in a no-device state.
func Detect(fp hwinfo.Fingerprint, registry []Device) (Device, error) {
	errFactory := errors.New()

	for i, d := range registry {
		if !d.IsSupported(fp) {
			d.Close()
			continue
		}

		if err := d.Initialize(); err != nil {
			logger.Warn().
				Str("device", Description(d)).
				Err(err).
				Msg("Device matched but failed to initialize")
			d.Close()
			continue
		}

		for _, rest := range registry[i+1:] {
			rest.Close()
		}

		logger.Info().
			Str("device", Description(d)).
			Msg("Detected fan control device")

		return d, nil
	}

	return nil, errFactory.New(ErrNoDevice)
}
