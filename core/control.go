package core

// PinMap names the board pins the Controller drives. Values come from the
// target's bring-up code.
type PinMap struct {
	Relay1        GPIOPin
	Relay2        GPIOPin
	DimmerEnable1 GPIOPin
	DimmerEnable2 GPIOPin
}

// Controller owns the PowerPackState and is the only writer to it. It
// translates relay/dimmer intents into GPIO and DAC operations.
//
// Channel numbers outside {1,2} are silent no-ops on every method; that is
// deliberate wire-compatible behavior, not an oversight.
type Controller struct {
	box  stateBox
	gpio GPIODriver
	dac  *GP8413
	pins PinMap
}

// NewController wires a controller to its output drivers.
func NewController(gpio GPIODriver, dac *GP8413, pins PinMap) *Controller {
	return &Controller{gpio: gpio, dac: dac, pins: pins}
}

// Initialize writes the DAC default configuration, clears the shadow state
// and forces both relays and both dimmer enable gates off, so hardware and
// shadow state agree regardless of what the power rails did before boot.
func (c *Controller) Initialize() error {
	if err := c.dac.Configure(); err != nil {
		return err
	}

	c.box.update(func(s *PowerPackState) { *s = PowerPackState{} })

	if err := c.SetRelay(1, false); err != nil {
		return err
	}
	if err := c.SetRelay(2, false); err != nil {
		return err
	}
	if err := c.EnableDimmer(1, false); err != nil {
		return err
	}
	return c.EnableDimmer(2, false)
}

// SetRelay drives a relay output pin and records the new state.
func (c *Controller) SetRelay(channel uint8, on bool) error {
	var pin GPIOPin
	switch channel {
	case 1:
		pin = c.pins.Relay1
	case 2:
		pin = c.pins.Relay2
	default:
		return nil
	}

	if err := c.gpio.SetPin(pin, on); err != nil {
		return err
	}
	c.box.update(func(s *PowerPackState) {
		if channel == 1 {
			s.Relay1On = on
		} else {
			s.Relay2On = on
		}
	})
	debugRelay(channel, on)
	return nil
}

// SetDimmer clamps value to the 12-bit range and writes it to the
// channel's DAC register. The shadow state holds the confirmed level: it
// is updated only after the bus write succeeds, so a status frame never
// reports a level the DAC did not acknowledge.
func (c *Controller) SetDimmer(channel uint8, value uint16) error {
	if value > DimmerMax {
		value = DimmerMax
	}

	var reg uint8
	switch channel {
	case 1:
		reg = GP8413RegDAC1
	case 2:
		reg = GP8413RegDAC2
	default:
		return nil
	}

	if err := c.dac.WriteRegister(reg, value); err != nil {
		return err
	}
	c.box.update(func(s *PowerPackState) {
		if channel == 1 {
			s.Dimmer1Value = value
		} else {
			s.Dimmer2Value = value
		}
	})
	debugDimmer(channel, value)
	return nil
}

// EnableDimmer drives a channel's output-enable gate. The stored dimmer
// level is never touched; gating and level are independent.
func (c *Controller) EnableDimmer(channel uint8, enabled bool) error {
	var pin GPIOPin
	switch channel {
	case 1:
		pin = c.pins.DimmerEnable1
	case 2:
		pin = c.pins.DimmerEnable2
	default:
		return nil
	}

	if err := c.gpio.SetPin(pin, enabled); err != nil {
		return err
	}
	c.box.update(func(s *PowerPackState) {
		if channel == 1 {
			s.Dimmer1Enabled = enabled
		} else {
			s.Dimmer2Enabled = enabled
		}
	})
	debugDimmerEnable(channel, enabled)
	return nil
}

// Snapshot returns a copy of the current shadow state.
func (c *Controller) Snapshot() PowerPackState {
	return c.box.snapshot()
}
