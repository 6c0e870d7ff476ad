//go:build tinygo

package main

import (
	"machine"
	"time"

	"powerpack/core"
)

// Board pin assignment, matching the R2M1 schematic:
// relays on PB13/PB12, dimmer output-enable gates on PB0/PB1.
var boardPins = core.PinMap{
	Relay1:        core.GPIOPin(machine.PB13),
	Relay2:        core.GPIOPin(machine.PB12),
	DimmerEnable1: core.GPIOPin(machine.PB0),
	DimmerEnable2: core.GPIOPin(machine.PB1),
}

const (
	statusPeriod = time.Second // drives the 5-tick status decimator

	// A frame is staged once 8 bytes arrived (host tools pad to 8) or
	// after a quiet gap on a shorter burst.
	frameLen  = 8
	frameGap  = 5 * time.Millisecond
	rxBufSize = 64
)

func main() {
	// Give USB CDC time to enumerate before the boot banner
	time.Sleep(2 * time.Second)

	machine.I2C0.Configure(machine.I2CConfig{Frequency: 100_000})

	gpio := NewBluepillGPIODriver()
	core.SetGPIODriver(gpio)
	for _, pin := range []core.GPIOPin{boardPins.Relay1, boardPins.Relay2, boardPins.DimmerEnable1, boardPins.DimmerEnable2} {
		gpio.ConfigureOutput(pin)
	}

	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s + "\r\n"))
	})

	ctrl := core.NewController(core.MustGPIO(), core.NewGP8413(machine.I2C0), boardPins)
	fw := core.NewFirmware(ctrl, func(frame []byte) {
		machine.Serial.Write(frame)
	})

	if err := fw.Start(); err != nil {
		// DAC bring-up failure is fatal
		core.DebugPrintln("FATAL: " + err.Error())
		for {
			time.Sleep(time.Second)
		}
	}

	runLoop(fw)
}

// runLoop is the cooperative main loop: it drains serial bytes into
// command frames, services the mailbox and drives the status timer.
func runLoop(fw *core.Firmware) {
	var rxBuf [rxBufSize]byte
	rxLen := 0
	lastRx := time.Now()
	lastTick := time.Now()

	for {
		// Collect inbound bytes
		for machine.Serial.Buffered() > 0 && rxLen < rxBufSize {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			rxBuf[rxLen] = b
			rxLen++
			lastRx = time.Now()
		}

		// Stage a complete frame, or a short burst after a quiet gap
		if rxLen >= frameLen ||
			(rxLen >= 2 && time.Since(lastRx) > frameGap) {
			fw.Inbox.Put(rxBuf[:rxLen])
			rxLen = 0
		}

		fw.ProcessInbound()

		if time.Since(lastTick) >= statusPeriod {
			lastTick = lastTick.Add(statusPeriod)
			fw.TimerTick()
		}

		time.Sleep(time.Millisecond)
	}
}
