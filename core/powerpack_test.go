package core

import (
	"bytes"
	"strings"
	"testing"
)

func newTestFirmware(t *testing.T) (*Firmware, *[][]byte) {
	t.Helper()
	ctrl, _, _ := newTestController()
	var sent [][]byte
	fw := NewFirmware(ctrl, func(frame []byte) {
		buf := make([]byte, len(frame))
		copy(buf, frame)
		sent = append(sent, buf)
	})
	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return fw, &sent
}

func TestFirmwareStartBanner(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	newTestFirmware(t)

	if len(lines) == 0 || !strings.Contains(lines[0], "PowerPack R2M1 v2.0.1") {
		t.Errorf("Boot banner missing, got %q", lines)
	}
}

func TestFirmwareEchoAndResponse(t *testing.T) {
	fw, sent := newTestFirmware(t)

	fw.Inbox.Put([]byte{0x05, 0x00, 0x00, 0x00})
	if !fw.ProcessInbound() {
		t.Fatal("ProcessInbound found no frame")
	}

	if len(*sent) != 2 {
		t.Fatalf("Expected echo + status, got %d frames: %v", len(*sent), *sent)
	}
	echo := (*sent)[0]
	if !bytes.Equal(echo, []byte{0xEE, 0x05, 0, 0, 0, 0, 0, 0}) {
		t.Errorf("Echo frame mismatch: %v", echo)
	}
	status := (*sent)[1]
	if status[0] != 0x05 || len(status) != 8 {
		t.Errorf("Status frame mismatch: %v", status)
	}
}

func TestFirmwareIdlePoll(t *testing.T) {
	fw, sent := newTestFirmware(t)

	if fw.ProcessInbound() {
		t.Error("ProcessInbound claimed a frame on an empty mailbox")
	}
	if len(*sent) != 0 {
		t.Errorf("Idle poll emitted frames: %v", *sent)
	}
}

func TestFirmwareEndToEnd(t *testing.T) {
	fw, sent := newTestFirmware(t)

	// Set dimmer 1 to 4096 (clamps), then query status
	fw.Inbox.Put([]byte{0x03, 0x00, 0x10, 0x00})
	fw.ProcessInbound()
	fw.Inbox.Put([]byte{0x05, 0x00, 0x00, 0x00})
	fw.ProcessInbound()

	var status []byte
	for _, frame := range *sent {
		if frame[0] == 0x05 {
			status = frame
		}
	}
	expected := []byte{0x05, 0, 0, 0x0F, 0xFF, 0x00, 0x00, 0x00}
	if !bytes.Equal(status, expected) {
		t.Errorf("End-to-end status mismatch: got %v, expected %v", status, expected)
	}
}

func TestFirmwareTimerTick(t *testing.T) {
	fw, sent := newTestFirmware(t)

	for i := 0; i < StatusInterval-1; i++ {
		fw.TimerTick()
	}
	if len(*sent) != 0 {
		t.Fatalf("Status pushed before the %dth tick: %v", StatusInterval, *sent)
	}

	fw.TimerTick()
	if len(*sent) != 1 || (*sent)[0][0] != 0x05 {
		t.Fatalf("Expected one unsolicited status frame, got %v", *sent)
	}
}
