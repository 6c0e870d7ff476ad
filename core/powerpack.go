package core

import "powerpack/protocol"

// FrameWriter pushes one outbound frame to the transport. The transport
// owns serialization of the outbound channel; command responses, periodic
// status pushes and diagnostic text all funnel through it.
type FrameWriter func([]byte)

// Firmware ties the inbound mailbox, dispatcher and reporter together for
// a target main loop. The loop calls ProcessInbound whenever it polls and
// TimerTick on every elapsed timer period; both run in the loop's single
// context, so the Controller keeps its single-writer discipline.
type Firmware struct {
	Inbox Mailbox

	ctrl *Controller
	disp *Dispatcher
	rep  *Reporter
	send FrameWriter
}

// NewFirmware assembles the firmware around a controller and an outbound
// frame writer.
func NewFirmware(ctrl *Controller, send FrameWriter) *Firmware {
	disp := NewDispatcher(ctrl)
	return &Firmware{
		ctrl: ctrl,
		disp: disp,
		rep:  NewReporter(disp),
		send: send,
	}
}

// Start initializes the hardware outputs and emits the boot banner.
// A DAC bring-up failure is fatal; the caller halts.
func (f *Firmware) Start() error {
	DebugBanner()
	DebugPrintln("Initializing PowerPack...")
	if err := f.ctrl.Initialize(); err != nil {
		return err
	}
	DebugPrintln("PowerPack initialized successfully")
	DebugPrintln("Ready for commands!")
	return nil
}

// ProcessInbound services at most one staged frame. It reports whether a
// frame was taken, so pollers can distinguish idle passes.
func (f *Firmware) ProcessInbound() bool {
	frame := f.Inbox.Take()
	if frame == nil {
		return false
	}

	// Debug echo of the raw bytes, before any interpretation
	f.send(protocol.EncodeEcho(frame))

	resp, err := f.disp.Dispatch(frame)
	if err != nil {
		DebugPrintln("Bus write failed: " + err.Error())
		return true
	}
	if resp != nil {
		f.send(resp)
	}
	return true
}

// TimerTick records one elapsed timer period and pushes the decimated
// unsolicited status frame when due.
func (f *Firmware) TimerTick() {
	if frame := f.rep.Tick(); frame != nil {
		f.send(frame)
	}
}
