//go:build tinygo

package main

import (
	"machine"

	"powerpack/core"
)

// BluepillGPIODriver implements core.GPIODriver on top of the machine
// package. core.GPIOPin values are machine.Pin numbers.
type BluepillGPIODriver struct{}

func NewBluepillGPIODriver() *BluepillGPIODriver {
	return &BluepillGPIODriver{}
}

func (d *BluepillGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (d *BluepillGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

func (d *BluepillGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	return machine.Pin(pin).Get(), nil
}
