package core

// StatusInterval is how many timer periods elapse between unsolicited
// status frames. With the reference 1 s timer this pushes status every 5 s.
const StatusInterval = 5

// Reporter decimates the periodic timer down to unsolicited status frames.
// The counter is free-running modulo StatusInterval; no jitter
// compensation is attempted.
type Reporter struct {
	disp    *Dispatcher
	counter uint8
}

// NewReporter returns a reporter that builds frames from the dispatcher's
// controller state.
func NewReporter(disp *Dispatcher) *Reporter {
	return &Reporter{disp: disp}
}

// Tick records one elapsed timer period. On every StatusInterval-th call
// it returns a status frame to push; otherwise it returns nil.
func (r *Reporter) Tick() []byte {
	r.counter++
	if r.counter < StatusInterval {
		return nil
	}
	r.counter = 0
	return r.disp.statusFrame()
}
