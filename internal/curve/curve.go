package curve

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
)

const (
	// NumPoints is the number of control points in a fan curve.
	NumPoints = 5

	// TableSize is the number of duty values in a sampled fan table.
	TableSize = 10

	MinTemperature = 0.0
	MaxTemperature = 90.0
	MinSpeed       = 0.0
	MaxSpeed       = 100.0
)

// TableCheckpoints are the fixed temperatures (°C) at which a curve is
// sampled when a device takes a whole fan table instead of single duty
// writes.
var TableCheckpoints = [TableSize]float64{30, 40, 50, 60, 65, 70, 75, 80, 85, 90}

// Point maps a temperature in °C to a fan speed percentage.
type Point struct {
	Temperature float64 `mapstructure:"temperature"`
	Speed       float64 `mapstructure:"speed"`
}

// FanCurve is an ordered sequence of exactly five control points with
// strictly ascending temperatures. It is owned by the settings layer and
// borrowed read-only by the control loop.
type FanCurve struct {
	Points  [NumPoints]Point
	Enabled bool
	Preset  string
}

// New builds a validated curve from the given points.
func New(points [NumPoints]Point, enabled bool, preset string) (FanCurve, error) {
	c := FanCurve{
		Points:  points,
		Enabled: enabled,
		Preset:  preset,
	}
	if err := c.Validate(); err != nil {
		return FanCurve{}, err
	}

	return c, nil
}

// Validate re-checks point ordering and ranges. The UI validates before
// handing a curve over, but the engine does not trust that.
func (c FanCurve) Validate() error {
	errFactory := errors.New()

	for i, p := range c.Points {
		if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
			return errFactory.WithData(ErrTemperatureOutOfRange, p.Temperature)
		}
		if p.Speed < MinSpeed || p.Speed > MaxSpeed {
			return errFactory.WithData(ErrSpeedOutOfRange, p.Speed)
		}
		if i > 0 && p.Temperature <= c.Points[i-1].Temperature {
			return errFactory.WithData(ErrPointsNotAscending, p.Temperature)
		}
	}

	return nil
}

// Interpolate returns the fan speed percentage for a temperature. Below the
// first point it returns the first point's speed, above the last point the
// last point's speed, and between two points the linear interpolation of the
// bracketing pair.
func (c FanCurve) Interpolate(temperature float64) float64 {
	first := c.Points[0]
	if temperature <= first.Temperature {
		return first.Speed
	}

	last := c.Points[NumPoints-1]
	if temperature >= last.Temperature {
		return last.Speed
	}

	for i := 1; i < NumPoints; i++ {
		p1, p2 := c.Points[i-1], c.Points[i]
		if temperature <= p2.Temperature {
			ratio := (temperature - p1.Temperature) / (p2.Temperature - p1.Temperature)
			return p1.Speed + (p2.Speed-p1.Speed)*ratio
		}
	}

	return last.Speed
}

// SampleTable samples the curve at the fixed table checkpoints. The result
// feeds devices that take a batched fan table upload.
func (c FanCurve) SampleTable() [TableSize]float64 {
	var table [TableSize]float64
	for i, t := range TableCheckpoints {
		table[i] = c.Interpolate(t)
	}

	return table
}
