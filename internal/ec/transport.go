// Package ec implements the embedded-controller register transport used by
// devices that expose fan control through indexed I/O-port registers.
package ec

import (
	"sync"

	"codeberg.org/mutker/handheldctl/internal/errors"
)

// PortIO performs raw byte I/O on x86 ports. Implementations are provided
// per platform; tests substitute fakes.
type PortIO interface {
	Outb(port uint16, value byte) error
	Inb(port uint16) (byte, error)
	Close() error
}

// ProtocolConfig holds the per-device command codes that sequence register
// access. There is no universal default: using another family's codes
// silently corrupts EC state.
type ProtocolConfig struct {
	AddrSelect  byte // announces a register-index write on the status port
	AddrSet     byte // announces a register-value write on the status port
	DataSelect  byte // announces the data-window index write
	DataSet     byte // announces the data-value write
	HighAddrReg byte // register index holding the high address byte
	LowAddrReg  byte // register index holding the low address byte
	DataReg     byte // register index of the data window
	ReadSelect  byte // command that latches a read onto the data port
}

// RegisterMap holds the device-specific constants for one EC family.
type RegisterMap struct {
	StatusPort uint16
	DataPort   uint16

	FanEnableReg uint16
	FanDutyReg   uint16

	DutyMin int
	DutyMax int

	EnableOn  byte
	EnableOff byte

	Protocol ProtocolConfig
}

// Transport serializes multi-step register sequences against a single port
// I/O handle. The command sequences are stateful, so every call holds the
// mutex for its full duration.
type Transport struct {
	io  PortIO
	reg RegisterMap
	mu  sync.Mutex
}

func NewTransport(io PortIO, reg RegisterMap) *Transport {
	return &Transport{io: io, reg: reg}
}

// WriteRegister writes one byte to a 16-bit EC register: two
// address-select/address-set pairs (high byte then low byte) followed by a
// data-select/data-set pair.
func (t *Transport) WriteRegister(addr uint16, value byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.setupAddress(addr); err != nil {
		return err
	}

	return t.writePair(t.reg.Protocol.DataSet, value)
}

// ReadRegister performs the identical address setup, then latches a read
// with the protocol's read-select command and reads the result byte from
// the data port.
func (t *Transport) ReadRegister(addr uint16) (byte, error) {
	errFactory := errors.New()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.setupAddress(addr); err != nil {
		return 0, err
	}

	if err := t.io.Outb(t.reg.StatusPort, t.reg.Protocol.ReadSelect); err != nil {
		return 0, errFactory.Wrap(ErrPortWriteFailed, err)
	}

	value, err := t.io.Inb(t.reg.DataPort)
	if err != nil {
		return 0, errFactory.Wrap(ErrPortReadFailed, err)
	}

	return value, nil
}

// Registers returns the transport's register map.
func (t *Transport) Registers() RegisterMap {
	return t.reg
}

// Close releases the port I/O handle. Pending register sequences finish
// first because Close takes the same mutex.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.io.Close()
}

// setupAddress selects the target register: high address byte, low address
// byte, then the data window. Callers must hold the mutex.
func (t *Transport) setupAddress(addr uint16) error {
	proto := t.reg.Protocol
	high := byte(addr >> 8)
	low := byte(addr & 0xFF)

	if err := t.writePair(proto.AddrSelect, proto.HighAddrReg); err != nil {
		return err
	}
	if err := t.writePair(proto.AddrSet, high); err != nil {
		return err
	}
	if err := t.writePair(proto.AddrSelect, proto.LowAddrReg); err != nil {
		return err
	}
	if err := t.writePair(proto.AddrSet, low); err != nil {
		return err
	}

	return t.writePair(proto.DataSelect, proto.DataReg)
}

// writePair writes a command byte to the status port followed by a value
// byte to the data port.
func (t *Transport) writePair(command, value byte) error {
	errFactory := errors.New()

	if err := t.io.Outb(t.reg.StatusPort, command); err != nil {
		return errFactory.Wrap(ErrPortWriteFailed, err)
	}
	if err := t.io.Outb(t.reg.DataPort, value); err != nil {
		return errFactory.Wrap(ErrPortWriteFailed, err)
	}

	return nil
}
