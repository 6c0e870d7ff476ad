// Package protocol implements the PowerPack wire protocol: fixed-layout
// command frames from the host and 8-byte response frames from the firmware.
package protocol

import "errors"

// Frame sizes.
const (
	CommandLen  = 4 // opcode + param + 16-bit value
	ResponseLen = 8
)

// Command opcodes (host -> firmware).
const (
	CmdSetRelay1      = 0x01
	CmdSetRelay2      = 0x02
	CmdSetDimmer1     = 0x03
	CmdSetDimmer2     = 0x04
	CmdGetStatus      = 0x05
	CmdEnableDimmer1  = 0x06
	CmdEnableDimmer2  = 0x07
	CmdDisableDimmer1 = 0x08
	CmdDisableDimmer2 = 0x09
	CmdGetVersion     = 0x0A

	// RespEcho tags the diagnostic echo frame emitted after every inbound
	// buffer. It is not a command and the firmware never accepts it.
	RespEcho = 0xEE
)

// ErrShortFrame is returned for inbound buffers shorter than 2 bytes.
// Such frames are dropped silently by the dispatcher.
var ErrShortFrame = errors.New("protocol: frame shorter than 2 bytes")

// CommandFrame is one decoded host command.
type CommandFrame struct {
	Command uint8
	Param   uint8  // boolean flag for relay opcodes, unused otherwise
	Value   uint16 // big-endian from bytes 2-3, dimmer opcodes only
}

// ParseCommand decodes an inbound buffer into a CommandFrame.
//
// A buffer must carry at least the opcode and param bytes. Buffers of
// length 2 or 3 are treated as zero-padded to 4 bytes: the USB transport
// always hands the firmware a fixed-capacity buffer, and the padding is
// made explicit here instead of reading past the declared length.
func ParseCommand(buf []byte) (CommandFrame, error) {
	if len(buf) < 2 {
		return CommandFrame{}, ErrShortFrame
	}
	var f CommandFrame
	f.Command = buf[0]
	f.Param = buf[1]
	if len(buf) > 2 {
		f.Value = uint16(buf[2]) << 8
	}
	if len(buf) > 3 {
		f.Value |= uint16(buf[3])
	}
	return f, nil
}

// EncodeCommand builds the 8-byte padded command buffer sent by host tools.
// The value is big-endian, matching the firmware's decode order.
func EncodeCommand(cmd, param uint8, value uint16) []byte {
	buf := make([]byte, ResponseLen)
	buf[0] = cmd
	buf[1] = param
	buf[2] = byte(value >> 8)
	buf[3] = byte(value)
	return buf
}

// Status is the payload of a status response frame.
type Status struct {
	Relay1On       bool
	Relay2On       bool
	Dimmer1Value   uint16
	Dimmer2Value   uint16
	Dimmer1Enabled bool
	Dimmer2Enabled bool
}

// EncodeStatus builds a status response frame:
//
//	[0x05][relay1][relay2][d1 hi][d1 lo][d2 hi][d2 lo][en1<<1|en2]
func EncodeStatus(s Status) []byte {
	buf := make([]byte, ResponseLen)
	buf[0] = CmdGetStatus
	buf[1] = boolByte(s.Relay1On)
	buf[2] = boolByte(s.Relay2On)
	buf[3] = byte(s.Dimmer1Value >> 8)
	buf[4] = byte(s.Dimmer1Value)
	buf[5] = byte(s.Dimmer2Value >> 8)
	buf[6] = byte(s.Dimmer2Value)
	buf[7] = boolByte(s.Dimmer1Enabled)<<1 | boolByte(s.Dimmer2Enabled)
	return buf
}

// DecodeStatus parses a status response frame.
func DecodeStatus(buf []byte) (Status, bool) {
	if len(buf) != ResponseLen || buf[0] != CmdGetStatus {
		return Status{}, false
	}
	return Status{
		Relay1On:       buf[1] != 0,
		Relay2On:       buf[2] != 0,
		Dimmer1Value:   uint16(buf[3])<<8 | uint16(buf[4]),
		Dimmer2Value:   uint16(buf[5])<<8 | uint16(buf[6]),
		Dimmer1Enabled: buf[7]&0x02 != 0,
		Dimmer2Enabled: buf[7]&0x01 != 0,
	}, true
}

// Version is the payload of a version response frame.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// EncodeVersion builds a version response frame:
//
//	[0x0A][major][minor][patch][0][0][0][0]
func EncodeVersion(v Version) []byte {
	buf := make([]byte, ResponseLen)
	buf[0] = CmdGetVersion
	buf[1] = v.Major
	buf[2] = v.Minor
	buf[3] = v.Patch
	return buf
}

// DecodeVersion parses a version response frame. The reserved tail bytes
// must be zero; 0x0A is also ASCII newline, and the zero tail is what
// separates a version frame from diagnostic text on the shared channel.
func DecodeVersion(buf []byte) (Version, bool) {
	if len(buf) != ResponseLen || buf[0] != CmdGetVersion {
		return Version{}, false
	}
	if buf[4] != 0 || buf[5] != 0 || buf[6] != 0 || buf[7] != 0 {
		return Version{}, false
	}
	return Version{Major: buf[1], Minor: buf[2], Patch: buf[3]}, true
}

// EncodeEcho builds the diagnostic echo frame the firmware emits after
// every inbound buffer: 0xEE followed by up to the first four received
// bytes.
func EncodeEcho(rx []byte) []byte {
	buf := make([]byte, ResponseLen)
	buf[0] = RespEcho
	for i := 0; i < 4 && i < len(rx); i++ {
		buf[1+i] = rx[i]
	}
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
