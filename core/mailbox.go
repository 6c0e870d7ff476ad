package core

import "sync/atomic"

// Mailbox is the single-slot exchange between the inbound-data interrupt
// context and the main loop. The reference design shared a raw buffer and
// a ready flag with no exclusion, which could tear an in-flight dispatch;
// the slot swap here keeps the at-most-one-pending-frame, last-writer-wins
// policy but makes the hand-off atomic.
type Mailbox struct {
	slot    atomic.Pointer[[]byte]
	dropped atomic.Uint32
}

// Put stages an inbound frame, replacing any frame the main loop has not
// taken yet. The buffer is copied; the caller may reuse its slice
// immediately. Safe to call from an interrupt/goroutine context.
func (m *Mailbox) Put(frame []byte) {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	if old := m.slot.Swap(&buf); old != nil {
		m.dropped.Add(1)
	}
}

// Take removes and returns the pending frame, or nil if none is staged.
func (m *Mailbox) Take() []byte {
	p := m.slot.Swap(nil)
	if p == nil {
		return nil
	}
	return *p
}

// Dropped reports how many staged frames were overwritten before the main
// loop serviced them.
func (m *Mailbox) Dropped() uint32 {
	return m.dropped.Load()
}
