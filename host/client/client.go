// Package client speaks the powerpack binary protocol from the host side
// of the serial link.
package client

import (
	"fmt"
	"sync"
	"time"

	"powerpack/host/serial"
	"powerpack/protocol"
)

// Client drives a powerpack board over a serial Port. Commands are
// serialized; the board has at-most-one-frame inbound buffering and a
// burst of commands would overwrite each other.
type Client struct {
	mu    sync.Mutex
	port  serial.Port
	demux *demuxer

	// OnText, when set, receives diagnostic text lines the firmware
	// interleaves with binary frames. Informational only.
	OnText func(line string)
}

// New wraps an open serial port.
func New(port serial.Port) *Client {
	c := &Client{port: port}
	c.demux = newDemuxer(port)
	return c
}

// Close closes the underlying port.
func (c *Client) Close() error {
	return c.port.Close()
}

func (c *Client) send(cmd, param uint8, value uint16) error {
	buf := protocol.EncodeCommand(cmd, param, value)
	if _, err := c.port.Write(buf); err != nil {
		return fmt.Errorf("send command 0x%02X: %w", cmd, err)
	}
	return c.port.Flush()
}

// SetRelay switches relay 1 or 2.
func (c *Client) SetRelay(channel int, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := uint8(protocol.CmdSetRelay1)
	if channel == 2 {
		cmd = protocol.CmdSetRelay2
	} else if channel != 1 {
		return fmt.Errorf("relay channel must be 1 or 2, got %d", channel)
	}
	param := uint8(0)
	if on {
		param = 1
	}
	return c.send(cmd, param, 0)
}

// SetDimmer sets a dimmer channel to a raw 12-bit DAC value. The firmware
// clamps anything above 4095.
func (c *Client) SetDimmer(channel int, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := uint8(protocol.CmdSetDimmer1)
	if channel == 2 {
		cmd = protocol.CmdSetDimmer2
	} else if channel != 1 {
		return fmt.Errorf("dimmer channel must be 1 or 2, got %d", channel)
	}
	return c.send(cmd, 0, value)
}

// SetDimmerPercent sets a dimmer channel as a 0-100% level, scaled to the
// 12-bit DAC range the way the original PC tool does.
func (c *Client) SetDimmerPercent(channel int, percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("percentage must be 0-100, got %g", percent)
	}
	return c.SetDimmer(channel, uint16(percent/100.0*4095))
}

// EnableDimmer opens or closes a dimmer channel's output gate.
func (c *Client) EnableDimmer(channel int, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cmd uint8
	switch {
	case channel == 1 && enabled:
		cmd = protocol.CmdEnableDimmer1
	case channel == 2 && enabled:
		cmd = protocol.CmdEnableDimmer2
	case channel == 1:
		cmd = protocol.CmdDisableDimmer1
	case channel == 2:
		cmd = protocol.CmdDisableDimmer2
	default:
		return fmt.Errorf("dimmer channel must be 1 or 2, got %d", channel)
	}
	return c.send(cmd, 0, 0)
}

// GetStatus requests a status frame and waits for it. Unsolicited status
// frames arriving first satisfy the request; echo frames and diagnostic
// text are skipped.
func (c *Client) GetStatus(timeout time.Duration) (protocol.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(protocol.CmdGetStatus, 0, 0); err != nil {
		return protocol.Status{}, err
	}

	deadline := time.Now().Add(timeout)
	for {
		ev, err := c.demux.next(deadline)
		if err != nil {
			return protocol.Status{}, fmt.Errorf("await status: %w", err)
		}
		switch {
		case ev.Status != nil:
			return *ev.Status, nil
		case ev.Text != "":
			c.text(ev.Text)
		}
	}
}

// GetVersion requests the firmware version and waits for it.
func (c *Client) GetVersion(timeout time.Duration) (protocol.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(protocol.CmdGetVersion, 0, 0); err != nil {
		return protocol.Version{}, err
	}

	// Version frames are only trusted while a request is in flight:
	// their 0x0A opcode doubles as ASCII newline in the text stream.
	c.demux.expectVersion = true
	defer func() { c.demux.expectVersion = false }()

	deadline := time.Now().Add(timeout)
	for {
		ev, err := c.demux.next(deadline)
		if err != nil {
			return protocol.Version{}, fmt.Errorf("await version: %w", err)
		}
		switch {
		case ev.Version != nil:
			return *ev.Version, nil
		case ev.Text != "":
			c.text(ev.Text)
		}
	}
}

// WatchStatus blocks and delivers every status frame (solicited or
// unsolicited) to fn until the port errors out or fn returns false.
func (c *Client) WatchStatus(fn func(protocol.Status) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		ev, err := c.demux.next(time.Time{})
		if err != nil {
			return err
		}
		switch {
		case ev.Status != nil:
			if !fn(*ev.Status) {
				return nil
			}
		case ev.Text != "":
			c.text(ev.Text)
		}
	}
}

func (c *Client) text(line string) {
	if c.OnText != nil {
		c.OnText(line)
	}
}
