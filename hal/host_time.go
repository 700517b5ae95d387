//go:build !tinygo

package hal

import "sync/atomic"

// hostTime publishes the ticks the host runner advances. Nothing on the host
// has to drain it: the runner calls the step function itself. Slow consumers
// miss ticks rather than stall the runner.
type hostTime struct {
	ch  chan uint64
	seq atomic.Uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// Count returns the number of ticks advanced so far.
func (t *hostTime) Count() uint64 { return t.seq.Load() }

func (t *hostTime) advance(n uint64) {
	for i := uint64(0); i < n; i++ {
		seq := t.seq.Add(1)
		select {
		case t.ch <- seq:
		default:
		}
	}
}
