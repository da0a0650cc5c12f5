package ec_test

import (
	"testing"

	"codeberg.org/mutker/handheldctl/internal/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type portOp struct {
	port  uint16
	value byte
	read  bool
}

type fakePortIO struct {
	ops      []portOp
	readByte byte
	closed   bool
}

func (f *fakePortIO) Outb(port uint16, value byte) error {
	f.ops = append(f.ops, portOp{port: port, value: value})
	return nil
}

func (f *fakePortIO) Inb(port uint16) (byte, error) {
	f.ops = append(f.ops, portOp{port: port, read: true})
	return f.readByte, nil
}

func (f *fakePortIO) Close() error {
	f.closed = true
	return nil
}

func testRegisterMap() ec.RegisterMap {
	return ec.RegisterMap{
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
	}
}

func TestWriteRegisterSequence(t *testing.T) {
	io := &fakePortIO{}
	tr := ec.NewTransport(io, testRegisterMap())

	require.NoError(t, tr.WriteRegister(0x44B, 0x5C))

	expected := []portOp{
		{port: 0x4E, value: 0x2E}, // address-select
		{port: 0x4F, value: 0x11}, // high address register
		{port: 0x4E, value: 0x2F}, // address-set
		{port: 0x4F, value: 0x04}, // high byte of 0x44B
		{port: 0x4E, value: 0x2E},
		{port: 0x4F, value: 0x10}, // low address register
		{port: 0x4E, value: 0x2F},
		{port: 0x4F, value: 0x4B}, // low byte of 0x44B
		{port: 0x4E, value: 0x2E}, // data-select
		{port: 0x4F, value: 0x12}, // data register
		{port: 0x4E, value: 0x2F}, // data-set
		{port: 0x4F, value: 0x5C}, // payload
	}
	assert.Equal(t, expected, io.ops)
}

func TestReadRegisterSequence(t *testing.T) {
	io := &fakePortIO{readByte: 0x42}
	tr := ec.NewTransport(io, testRegisterMap())

	value, err := tr.ReadRegister(0x44A)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), value)

	// Address setup is identical to a write, then the read-select command
	// latches the result onto the data port.
	require.Len(t, io.ops, 12)
	assert.Equal(t, portOp{port: 0x4E, value: 0x2F}, io.ops[10])
	assert.Equal(t, portOp{port: 0x4F, read: true}, io.ops[11])
}

func TestCloseReleasesHandle(t *testing.T) {
	io := &fakePortIO{}
	tr := ec.NewTransport(io, testRegisterMap())

	require.NoError(t, tr.Close())
	assert.True(t, io.closed)
}

func TestPercentToDuty(t *testing.T) {
	assert.Equal(t, 92, ec.PercentToDuty(50.0, 0, 184))
	assert.Equal(t, 0, ec.PercentToDuty(0, 0, 184))
	assert.Equal(t, 184, ec.PercentToDuty(100, 0, 184))
	assert.Equal(t, 184, ec.PercentToDuty(130, 0, 184)) // clamped
	assert.Equal(t, 0, ec.PercentToDuty(-5, 0, 184))    // clamped

	// Non-zero minimum
	assert.Equal(t, 60, ec.PercentToDuty(50.0, 20, 100))
}

func TestDutyToPercent(t *testing.T) {
	assert.InDelta(t, 50.0, ec.DutyToPercent(92, 0, 184), 1e-9)
	assert.InDelta(t, 0.0, ec.DutyToPercent(0, 0, 184), 1e-9)
	assert.InDelta(t, 100.0, ec.DutyToPercent(184, 0, 184), 1e-9)
	assert.InDelta(t, 100.0, ec.DutyToPercent(200, 0, 184), 1e-9) // clamped
	assert.InDelta(t, 0.0, ec.DutyToPercent(0, 0, 0), 1e-9)       // degenerate range
}

func TestDutyPercentRoundTrip(t *testing.T) {
	ranges := []struct{ min, max int }{
		{0, 184},
		{0, 100},
		{20, 220},
	}

	for _, r := range ranges {
		for p := 0; p <= 100; p++ {
			duty := ec.PercentToDuty(float64(p), r.min, r.max)
			back := ec.DutyToPercent(duty, r.min, r.max)
			assert.InDelta(t, float64(p), back, 100.0/float64(r.max-r.min)+1e-9,
				"range [%d,%d] percent %d", r.min, r.max, p)
		}
	}
}
