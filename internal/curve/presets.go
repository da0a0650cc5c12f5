package curve

import "codeberg.org/mutker/handheldctl/internal/errors"

// Built-in preset names. PresetCustom marks a user-edited curve.
const (
	PresetQuiet  = "Quiet"
	PresetCruise = "Cruise"
	PresetSport  = "Sport"
	PresetTurbo  = "Turbo"
	PresetCustom = "Custom"
)

var presets = map[string][NumPoints]Point{
	PresetQuiet: {
		{Temperature: 40, Speed: 10},
		{Temperature: 50, Speed: 20},
		{Temperature: 62, Speed: 35},
		{Temperature: 75, Speed: 60},
		{Temperature: 88, Speed: 90},
	},
	PresetCruise: {
		{Temperature: 30, Speed: 20},
		{Temperature: 40, Speed: 30},
		{Temperature: 55, Speed: 50},
		{Temperature: 70, Speed: 75},
		{Temperature: 85, Speed: 100},
	},
	PresetSport: {
		{Temperature: 25, Speed: 30},
		{Temperature: 40, Speed: 45},
		{Temperature: 55, Speed: 65},
		{Temperature: 70, Speed: 85},
		{Temperature: 82, Speed: 100},
	},
	PresetTurbo: {
		{Temperature: 20, Speed: 50},
		{Temperature: 35, Speed: 65},
		{Temperature: 50, Speed: 80},
		{Temperature: 62, Speed: 95},
		{Temperature: 72, Speed: 100},
	},
}

// PresetNames lists the built-in presets in display order.
func PresetNames() []string {
	return []string{PresetQuiet, PresetCruise, PresetSport, PresetTurbo}
}

// Preset returns the built-in curve for the given preset name.
func Preset(name string) (FanCurve, error) {
	errFactory := errors.New()

	points, ok := presets[name]
	if !ok {
		return FanCurve{}, errFactory.WithData(ErrUnknownPreset, name)
	}

	return FanCurve{
		Points:  points,
		Enabled: false,
		Preset:  name,
	}, nil
}
