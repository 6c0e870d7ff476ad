// GP8413 dual-channel 15-bit capable DAC, driven here in 12-bit mode as the
// dimmer output stage. Every operation is a single 3-byte register write:
// register address followed by the value, MSB first.
package core

import "tinygo.org/x/drivers"

// GP8413 register map and bus address (7-bit).
const (
	GP8413Address   = 0x58
	GP8413RegConfig = 0x02
	GP8413RegDAC1   = 0x10
	GP8413RegDAC2   = 0x11
)

// DimmerMax is the largest accepted dimmer level (12-bit DAC).
const DimmerMax = 4095

// GP8413 talks to the DAC over an I2C bus. The bus is any drivers.I2C
// implementation: machine.I2C on hardware, a recording mock in tests.
type GP8413 struct {
	bus  drivers.I2C
	addr uint16
}

// NewGP8413 returns a driver bound to the fixed powerpack DAC address.
func NewGP8413(bus drivers.I2C) *GP8413 {
	return &GP8413{bus: bus, addr: GP8413Address}
}

// WriteRegister writes a 16-bit value to a DAC register. The transaction
// blocks until the bus driver completes or gives up; failures are returned
// verbatim with no retry, and the caller decides what to do about the
// shadow state.
func (d *GP8413) WriteRegister(reg uint8, value uint16) error {
	buf := [3]byte{reg, byte(value >> 8), byte(value)}
	return d.bus.Tx(d.addr, buf[:], nil)
}

// Configure writes the default configuration register. Called once from
// Controller.Initialize.
func (d *GP8413) Configure() error {
	return d.WriteRegister(GP8413RegConfig, 0x0000)
}
