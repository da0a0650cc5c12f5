package curve_test

import (
	"testing"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cruise(t *testing.T) curve.FanCurve {
	t.Helper()
	c, err := curve.Preset(curve.PresetCruise)
	require.NoError(t, err)

	return c
}

func TestInterpolateBracketing(t *testing.T) {
	c := cruise(t)

	// 47.5°C falls between (40,30) and (55,50):
	// 30 + (50-30)*(47.5-40)/(55-40) = 40.0
	assert.InDelta(t, 40.0, c.Interpolate(47.5), 1e-9)
}

func TestInterpolateClampsBelowAndAbove(t *testing.T) {
	c := cruise(t)

	assert.InDelta(t, 20.0, c.Interpolate(-10), 1e-9)
	assert.InDelta(t, 20.0, c.Interpolate(29.9), 1e-9)
	assert.InDelta(t, 100.0, c.Interpolate(85), 1e-9)
	assert.InDelta(t, 100.0, c.Interpolate(90), 1e-9)
}

func TestInterpolateHitsControlPoints(t *testing.T) {
	c := cruise(t)

	for _, p := range c.Points {
		assert.InDelta(t, p.Speed, c.Interpolate(p.Temperature), 1e-9)
	}
}

func TestInterpolateMonotonicWithinSegment(t *testing.T) {
	for _, name := range curve.PresetNames() {
		c, err := curve.Preset(name)
		require.NoError(t, err)

		prev := c.Interpolate(0)
		for temp := 0.0; temp <= 90.0; temp += 0.25 {
			speed := c.Interpolate(temp)
			assert.GreaterOrEqual(t, speed, prev, "preset %s not monotonic at %.2f°C", name, temp)
			prev = speed
		}
	}
}

func TestValidateRejectsUnorderedPoints(t *testing.T) {
	points := [curve.NumPoints]curve.Point{
		{Temperature: 30, Speed: 20},
		{Temperature: 30, Speed: 30}, // duplicate temperature
		{Temperature: 55, Speed: 50},
		{Temperature: 70, Speed: 75},
		{Temperature: 85, Speed: 100},
	}

	_, err := curve.New(points, true, curve.PresetCustom)
	require.Error(t, err)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	points := [curve.NumPoints]curve.Point{
		{Temperature: 30, Speed: 20},
		{Temperature: 40, Speed: 30},
		{Temperature: 55, Speed: 50},
		{Temperature: 70, Speed: 110}, // speed above 100
		{Temperature: 85, Speed: 100},
	}

	_, err := curve.New(points, true, curve.PresetCustom)
	require.Error(t, err)

	points[3].Speed = 75
	points[4].Temperature = 95 // temperature above 90
	_, err = curve.New(points, true, curve.PresetCustom)
	require.Error(t, err)
}

func TestSampleTable(t *testing.T) {
	c := cruise(t)
	table := c.SampleTable()

	expected := [curve.TableSize]float64{
		20,                // 30°C
		30,                // 40°C
		30 + 20.0*10/15,   // 50°C
		50 + 25.0*5/15,    // 60°C
		50 + 25.0*10/15,   // 65°C
		75,                // 70°C
		75 + 25.0*5/15,    // 75°C
		75 + 25.0*10/15,   // 80°C
		100,               // 85°C
		100,               // 90°C
	}

	for i := range expected {
		assert.InDelta(t, expected[i], table[i], 1e-9, "checkpoint %d", i)
	}
}

func TestPresetUnknown(t *testing.T) {
	_, err := curve.Preset("does-not-exist")
	require.Error(t, err)
}

func TestAllPresetsValid(t *testing.T) {
	for _, name := range curve.PresetNames() {
		c, err := curve.Preset(name)
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, name, c.Preset)
	}
}
