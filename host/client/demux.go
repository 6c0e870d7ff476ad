package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"powerpack/protocol"
)

// event is one demultiplexed item from the inbound stream.
type event struct {
	Status  *protocol.Status
	Version *protocol.Version
	Text    string
}

// demuxer splits the shared inbound channel into binary response frames
// and diagnostic text. The firmware interleaves both on the same USB CDC
// stream; frames are recognized by their leading opcode byte:
//
//	0x05  status frame (8 bytes)
//	0x0A  version frame, but only with a zero reserved tail and only when
//	      a version request is in flight (0x0A is also '\n')
//	0xEE  debug echo frame (8 bytes, silently consumed)
//
// Everything else is accumulated as text and emitted line by line.
type demuxer struct {
	r   io.Reader
	buf []byte

	expectVersion bool
}

func newDemuxer(r io.Reader) *demuxer {
	return &demuxer{r: r}
}

// next returns the next event. A zero deadline blocks until the reader
// delivers data or fails; otherwise reads after the deadline give up with
// a timeout error.
func (d *demuxer) next(deadline time.Time) (event, error) {
	for {
		if ev, ok := d.scan(); ok {
			return ev, nil
		}
		if err := d.fill(deadline); err != nil {
			return event{}, err
		}
	}
}

// fill reads more bytes from the port, honoring the deadline. Serial
// reads time out with n==0 and no error, so an empty read just loops
// until the deadline passes.
func (d *demuxer) fill(deadline time.Time) error {
	tmp := make([]byte, 64)
	for {
		n, err := d.r.Read(tmp)
		if n > 0 {
			d.buf = append(d.buf, tmp[:n]...)
			return nil
		}
		if err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for device data")
		}
	}
}

// scan tries to lift one event off the front of the buffer.
func (d *demuxer) scan() (event, bool) {
	for len(d.buf) > 0 {
		switch d.buf[0] {
		case protocol.CmdGetStatus:
			if len(d.buf) < protocol.ResponseLen {
				return event{}, false // need more bytes
			}
			s, ok := protocol.DecodeStatus(d.buf[:protocol.ResponseLen])
			d.buf = d.buf[protocol.ResponseLen:]
			if ok {
				return event{Status: &s}, true
			}

		case protocol.RespEcho:
			if len(d.buf) < protocol.ResponseLen {
				return event{}, false
			}
			d.buf = d.buf[protocol.ResponseLen:]

		case protocol.CmdGetVersion:
			if !d.expectVersion {
				// Plain newline in the text stream
				d.buf = d.buf[1:]
				continue
			}
			if len(d.buf) < protocol.ResponseLen {
				return event{}, false
			}
			if v, ok := protocol.DecodeVersion(d.buf[:protocol.ResponseLen]); ok {
				d.buf = d.buf[protocol.ResponseLen:]
				return event{Version: &v}, true
			}
			// Not a version frame after all; consume as newline
			d.buf = d.buf[1:]

		default:
			if line, ok := d.scanText(); ok {
				return event{Text: line}, true
			}
			if len(d.buf) > 0 && (d.buf[0] == protocol.CmdGetStatus || d.buf[0] == protocol.RespEcho) {
				// Stripped stray bytes ahead of a frame; rescan
				continue
			}
			return event{}, false
		}
	}
	return event{}, false
}

// scanText consumes one diagnostic text line terminated by '\n'.
func (d *demuxer) scanText() (string, bool) {
	for i, b := range d.buf {
		if b == '\n' {
			line := strings.TrimRight(string(d.buf[:i]), "\r")
			d.buf = d.buf[i+1:]
			return line, true
		}
		// A frame opcode mid-text ends the line early; the firmware
		// always terminates its lines, so this only happens when a
		// frame got wedged against unterminated text
		if i > 0 && (b == protocol.CmdGetStatus || b == protocol.RespEcho) {
			line := strings.TrimRight(string(d.buf[:i]), "\r")
			d.buf = d.buf[i:]
			return line, line != ""
		}
	}
	return "", false
}
