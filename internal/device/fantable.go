package device

import (
	"encoding/binary"
	"math"

	"codeberg.org/mutker/handheldctl/internal/curve"
)

// Fan table wire format: byte 0 mode constant, byte 1 table id, bytes 2-5
// length field (little-endian), bytes 6-25 ten little-endian uint16 duty
// percentages, bytes 26-63 zero padding. There is no version field; any
// layout change is a hardware protocol change.
const (
	FanTableSize = 64

	fanTableMode   = 1
	fanTableID     = 0
	fanTableLength = 0
	fanTableSpeeds = 6
)

// EncodeFanTable builds the 64-byte fan table from ten duty percentages.
// Out-of-range values are clamped to [0,100] before encoding; the hardware
// tolerates clamped tables but not out-of-range ones.
func EncodeFanTable(speeds [curve.TableSize]float64) [FanTableSize]byte {
	var table [FanTableSize]byte

	table[0] = fanTableMode
	table[1] = fanTableID
	binary.LittleEndian.PutUint32(table[2:6], fanTableLength)

	for i, speed := range speeds {
		if speed < 0 {
			speed = 0
		}
		if speed > 100 {
			speed = 100
		}
		binary.LittleEndian.PutUint16(table[fanTableSpeeds+2*i:], uint16(math.Round(speed)))
	}

	return table
}

// DecodeFanTable is the exact inverse of the ten-value region of
// EncodeFanTable.
func DecodeFanTable(table [FanTableSize]byte) [curve.TableSize]float64 {
	var speeds [curve.TableSize]float64
	for i := range speeds {
		speeds[i] = float64(binary.LittleEndian.Uint16(table[fanTableSpeeds+2*i:]))
	}

	return speeds
}
