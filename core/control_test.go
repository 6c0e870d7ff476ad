package core

import (
	"errors"
	"testing"
)

// mockGPIODriver is a test implementation of GPIODriver
type mockGPIODriver struct {
	pins map[GPIOPin]bool
	err  error
}

func newMockGPIODriver() *mockGPIODriver {
	return &mockGPIODriver{pins: make(map[GPIOPin]bool)}
}

func (m *mockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.pins[pin] = false
	return nil
}

func (m *mockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if m.err != nil {
		return m.err
	}
	m.pins[pin] = value
	return nil
}

func (m *mockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// mockI2CBus records register writes and implements drivers.I2C
type mockI2CBus struct {
	addrs  []uint16
	writes [][]byte
	err    error
}

func (m *mockI2CBus) Tx(addr uint16, w, r []byte) error {
	if m.err != nil {
		return m.err
	}
	buf := make([]byte, len(w))
	copy(buf, w)
	m.addrs = append(m.addrs, addr)
	m.writes = append(m.writes, buf)
	return nil
}

var testPins = PinMap{
	Relay1:        13,
	Relay2:        12,
	DimmerEnable1: 0,
	DimmerEnable2: 1,
}

func newTestController() (*Controller, *mockGPIODriver, *mockI2CBus) {
	gpio := newMockGPIODriver()
	bus := &mockI2CBus{}
	ctrl := NewController(gpio, NewGP8413(bus), testPins)
	return ctrl, gpio, bus
}

func TestSetRelayIndependent(t *testing.T) {
	ctrl, gpio, _ := newTestController()

	for _, channel := range []uint8{1, 2} {
		if err := ctrl.SetRelay(channel, true); err != nil {
			t.Fatalf("SetRelay(%d, true) failed: %v", channel, err)
		}
	}
	s := ctrl.Snapshot()
	if !s.Relay1On || !s.Relay2On {
		t.Fatalf("Expected both relays on, got %+v", s)
	}

	// Clearing one channel must not affect the other
	if err := ctrl.SetRelay(1, false); err != nil {
		t.Fatalf("SetRelay(1, false) failed: %v", err)
	}
	s = ctrl.Snapshot()
	if s.Relay1On {
		t.Error("Relay 1 still on after clearing")
	}
	if !s.Relay2On {
		t.Error("Relay 2 changed by relay 1 operation")
	}
	if gpio.pins[testPins.Relay1] {
		t.Error("Relay 1 pin still high")
	}
	if !gpio.pins[testPins.Relay2] {
		t.Error("Relay 2 pin not high")
	}
}

func TestSetRelayInvalidChannel(t *testing.T) {
	ctrl, gpio, _ := newTestController()

	if err := ctrl.SetRelay(3, true); err != nil {
		t.Fatalf("SetRelay(3, true) should be a no-op, got error: %v", err)
	}
	if len(gpio.pins) != 0 {
		t.Errorf("Invalid channel touched pins: %v", gpio.pins)
	}
	if s := ctrl.Snapshot(); s != (PowerPackState{}) {
		t.Errorf("Invalid channel mutated state: %+v", s)
	}
}

func TestSetDimmerWritesRegister(t *testing.T) {
	ctrl, _, bus := newTestController()

	if err := ctrl.SetDimmer(1, 0x0123); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}
	if err := ctrl.SetDimmer(2, 0x0456); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}

	if len(bus.writes) != 2 {
		t.Fatalf("Expected 2 bus writes, got %d", len(bus.writes))
	}
	if bus.addrs[0] != GP8413Address {
		t.Errorf("Expected bus address 0x58, got 0x%02X", bus.addrs[0])
	}
	w := bus.writes[0]
	if len(w) != 3 || w[0] != GP8413RegDAC1 || w[1] != 0x01 || w[2] != 0x23 {
		t.Errorf("DAC1 write payload wrong: %v", w)
	}
	w = bus.writes[1]
	if w[0] != GP8413RegDAC2 || w[1] != 0x04 || w[2] != 0x56 {
		t.Errorf("DAC2 write payload wrong: %v", w)
	}
}

func TestSetDimmerClamps(t *testing.T) {
	ctrl, _, bus := newTestController()

	for _, value := range []uint16{4096, 0x7FFF, 0xFFFF} {
		if err := ctrl.SetDimmer(1, value); err != nil {
			t.Fatalf("SetDimmer(1, %d) failed: %v", value, err)
		}
		if got := ctrl.Snapshot().Dimmer1Value; got != DimmerMax {
			t.Errorf("SetDimmer(1, %d): expected clamp to 4095, got %d", value, got)
		}
		w := bus.writes[len(bus.writes)-1]
		if w[1] != 0x0F || w[2] != 0xFF {
			t.Errorf("SetDimmer(1, %d): bus write not clamped: %v", value, w)
		}
	}

	if err := ctrl.SetDimmer(2, 4095); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}
	if got := ctrl.Snapshot().Dimmer2Value; got != 4095 {
		t.Errorf("In-range value altered: got %d", got)
	}
}

func TestSetDimmerBusErrorLeavesState(t *testing.T) {
	ctrl, _, bus := newTestController()

	if err := ctrl.SetDimmer(1, 1000); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}

	// State holds the confirmed value: a failed write must not change it
	bus.err = errors.New("i2c nack")
	if err := ctrl.SetDimmer(1, 2000); err == nil {
		t.Fatal("Expected bus error to propagate")
	}
	if got := ctrl.Snapshot().Dimmer1Value; got != 1000 {
		t.Errorf("State changed after failed bus write: got %d, expected 1000", got)
	}
}

func TestEnableDimmerTogglesOnlyEnableBit(t *testing.T) {
	ctrl, gpio, _ := newTestController()

	if err := ctrl.SetDimmer(1, 2048); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}
	if err := ctrl.EnableDimmer(1, true); err != nil {
		t.Fatalf("EnableDimmer failed: %v", err)
	}

	s := ctrl.Snapshot()
	if !s.Dimmer1Enabled {
		t.Error("Dimmer 1 not enabled")
	}
	if s.Dimmer2Enabled {
		t.Error("Dimmer 2 enable changed by dimmer 1 operation")
	}
	if s.Dimmer1Value != 2048 {
		t.Errorf("Enabling changed the stored value: got %d", s.Dimmer1Value)
	}
	if !gpio.pins[testPins.DimmerEnable1] {
		t.Error("Enable gate pin not high")
	}

	// SetDimmer never changes the enable bit
	if err := ctrl.SetDimmer(1, 100); err != nil {
		t.Fatalf("SetDimmer failed: %v", err)
	}
	if !ctrl.Snapshot().Dimmer1Enabled {
		t.Error("SetDimmer cleared the enable bit")
	}

	if err := ctrl.EnableDimmer(1, false); err != nil {
		t.Fatalf("EnableDimmer failed: %v", err)
	}
	if ctrl.Snapshot().Dimmer1Enabled {
		t.Error("Dimmer 1 still enabled")
	}
}

func TestInitialize(t *testing.T) {
	ctrl, gpio, bus := newTestController()

	// Dirty everything first
	if err := ctrl.SetRelay(1, true); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SetDimmer(2, 3000); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.EnableDimmer(2, true); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if s := ctrl.Snapshot(); s != (PowerPackState{}) {
		t.Errorf("State not reset: %+v", s)
	}

	// First bus write after the dirty phase is the config register
	w := bus.writes[len(bus.writes)-1]
	if w[0] != GP8413RegConfig || w[1] != 0 || w[2] != 0 {
		t.Errorf("Expected config register write, got %v", w)
	}

	// All four output pins forced low
	for _, pin := range []GPIOPin{testPins.Relay1, testPins.Relay2, testPins.DimmerEnable1, testPins.DimmerEnable2} {
		if gpio.pins[pin] {
			t.Errorf("Pin %d not forced low by Initialize", pin)
		}
	}
}

func TestInitializeBusError(t *testing.T) {
	ctrl, _, bus := newTestController()
	bus.err = errors.New("i2c timeout")
	if err := ctrl.Initialize(); err == nil {
		t.Fatal("Expected Initialize to propagate the DAC bring-up failure")
	}
}
