package core

import "sync"

// PowerPackState mirrors the hardware outputs. Dimmer values hold the
// last level confirmed by the DAC, not the last level requested.
type PowerPackState struct {
	Relay1On       bool
	Relay2On       bool
	Dimmer1Value   uint16
	Dimmer2Value   uint16
	Dimmer1Enabled bool
	Dimmer2Enabled bool
}

// stateBox guards the state so the status reporter can snapshot it
// while the command path mutates it.
type stateBox struct {
	mu    sync.Mutex
	state PowerPackState
}

func (b *stateBox) snapshot() PowerPackState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *stateBox) update(fn func(*PowerPackState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
}
