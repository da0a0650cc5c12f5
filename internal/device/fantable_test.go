package device_test

import (
	"testing"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"codeberg.org/mutker/handheldctl/internal/device"
	"github.com/stretchr/testify/assert"
)

func TestEncodeFanTableLayout(t *testing.T) {
	speeds := [curve.TableSize]float64{44, 48, 55, 60, 71, 79, 87, 87, 100, 100}
	table := device.EncodeFanTable(speeds)

	assert.Equal(t, byte(1), table[0], "mode constant")
	assert.Equal(t, byte(0), table[1], "table id constant")
	assert.Equal(t, []byte{0, 0, 0, 0}, table[2:6], "length field")

	assert.Equal(t, byte(44), table[6])
	assert.Equal(t, byte(0), table[7])
	assert.Equal(t, byte(100), table[24])
	assert.Equal(t, byte(0), table[25])

	for i := 26; i < device.FanTableSize; i++ {
		assert.Equal(t, byte(0), table[i], "padding byte %d", i)
	}
}

func TestFanTableRoundTrip(t *testing.T) {
	speeds := [curve.TableSize]float64{0, 10, 20, 35, 50, 65, 75, 85, 95, 100}
	decoded := device.DecodeFanTable(device.EncodeFanTable(speeds))

	assert.Equal(t, speeds, decoded)
}

func TestEncodeFanTableRoundsFractionalSpeeds(t *testing.T) {
	// Curve sampling produces fractional duties; they encode to the
	// nearest integer like every other percent conversion.
	speeds := [curve.TableSize]float64{43.33, 71.67, 49.5, 10.4, 0, 0, 0, 0, 0, 99.9}
	decoded := device.DecodeFanTable(device.EncodeFanTable(speeds))

	assert.InDelta(t, 43.0, decoded[0], 1e-9)
	assert.InDelta(t, 72.0, decoded[1], 1e-9)
	assert.InDelta(t, 50.0, decoded[2], 1e-9)
	assert.InDelta(t, 10.0, decoded[3], 1e-9)
	assert.InDelta(t, 100.0, decoded[9], 1e-9)
}

func TestEncodeFanTableClampsOutOfRange(t *testing.T) {
	speeds := [curve.TableSize]float64{-10, 150, 50, 50, 50, 50, 50, 50, 50, 200}
	decoded := device.DecodeFanTable(device.EncodeFanTable(speeds))

	assert.InDelta(t, 0.0, decoded[0], 1e-9)
	assert.InDelta(t, 100.0, decoded[1], 1e-9)
	assert.InDelta(t, 100.0, decoded[9], 1e-9)

	for _, s := range decoded {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}
