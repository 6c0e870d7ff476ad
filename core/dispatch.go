package core

import "powerpack/protocol"

// Dispatcher decodes inbound command frames and routes them to the
// Controller. Dispatch is stateless per frame; all cross-frame state lives
// in the Controller's shadow model.
type Dispatcher struct {
	ctrl *Controller
}

// NewDispatcher returns a dispatcher bound to a controller.
func NewDispatcher(ctrl *Controller) *Dispatcher {
	return &Dispatcher{ctrl: ctrl}
}

// Dispatch handles one inbound buffer and returns the response frame, or
// nil when the command produces none.
//
// Buffers shorter than 2 bytes are dropped silently. Unknown opcodes are
// no-ops that only leave a diagnostic line. Bus errors from the dimmer
// path are returned so the caller can log them; the command itself is
// never retried.
func (d *Dispatcher) Dispatch(frame []byte) ([]byte, error) {
	f, err := protocol.ParseCommand(frame)
	if err != nil {
		// Malformed frame: no response, no diagnostic required
		return nil, nil
	}

	debugCommand(f.Command, f.Param, f.Value)

	switch f.Command {
	case protocol.CmdSetRelay1:
		return nil, d.ctrl.SetRelay(1, f.Param != 0)
	case protocol.CmdSetRelay2:
		return nil, d.ctrl.SetRelay(2, f.Param != 0)
	case protocol.CmdSetDimmer1:
		return nil, d.ctrl.SetDimmer(1, f.Value)
	case protocol.CmdSetDimmer2:
		return nil, d.ctrl.SetDimmer(2, f.Value)
	case protocol.CmdGetStatus:
		DebugPrintln("Status requested")
		return d.statusFrame(), nil
	case protocol.CmdEnableDimmer1:
		return nil, d.ctrl.EnableDimmer(1, true)
	case protocol.CmdEnableDimmer2:
		return nil, d.ctrl.EnableDimmer(2, true)
	case protocol.CmdDisableDimmer1:
		return nil, d.ctrl.EnableDimmer(1, false)
	case protocol.CmdDisableDimmer2:
		return nil, d.ctrl.EnableDimmer(2, false)
	case protocol.CmdGetVersion:
		DebugPrintln("Version requested")
		return protocol.EncodeVersion(protocol.Version{
			Major: VersionMajor,
			Minor: VersionMinor,
			Patch: VersionPatch,
		}), nil
	default:
		debugUnknownCommand(f.Command)
		return nil, nil
	}
}

// statusFrame builds a status response from the current shadow state.
func (d *Dispatcher) statusFrame() []byte {
	s := d.ctrl.Snapshot()
	return protocol.EncodeStatus(protocol.Status{
		Relay1On:       s.Relay1On,
		Relay2On:       s.Relay2On,
		Dimmer1Value:   s.Dimmer1Value,
		Dimmer2Value:   s.Dimmer2Value,
		Dimmer1Enabled: s.Dimmer1Enabled,
		Dimmer2Enabled: s.Dimmer2Enabled,
	})
}
