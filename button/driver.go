package button

import (
	"fmt"
	"runtime"
	"time"
)

// Pin is the shared sense line, already routed to one address.
// Low means pressed.
type Pin interface {
	IsLow() (bool, error)
}

// Clock is a monotonic time base.
type Clock interface {
	Now() time.Duration
}

// Handler receives events synchronously while the machine runs.
type Handler interface {
	HandleEvent(Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Event) error

func (f HandlerFunc) HandleEvent(ev Event) error { return f(ev) }

// Result summarises one Check.
type Result struct {
	Events      []Event
	Transitions int
	Held        time.Duration
}

// Has reports whether ev was emitted.
func (r Result) Has(ev Event) bool {
	for _, e := range r.Events {
		if e == ev {
			return true
		}
	}
	return false
}

// Machine drives the state machine for one address.
type Machine struct {
	pin       Pin
	clock     Clock
	longPress time.Duration

	state     State
	pressedAt time.Duration
	pressed   bool
}

func NewMachine(pin Pin, clock Clock, longPress time.Duration) *Machine {
	if longPress <= 0 {
		longPress = DefaultLongPress
	}
	return &Machine{pin: pin, clock: clock, longPress: longPress}
}

func (m *Machine) State() State { return m.state }

// PressedAt returns the press timestamp while a press is in progress.
func (m *Machine) PressedAt() (time.Duration, bool) { return m.pressedAt, m.pressed }

// Check runs one full interaction starting from StateStart. Events are passed
// to h as they occur; a handler error stops the run and is returned.
func (m *Machine) Check(hasSecondary bool, h Handler) (Result, error) {
	var res Result
	m.state = StateStart
	for m.state != StateEnd {
		s := m.sample(hasSecondary)
		trigger := Decide(m.state, s)
		next, eff := Apply(m.state, trigger, hasSecondary)

		if eff.MarkPressed {
			m.pressedAt = m.clock.Now()
			m.pressed = true
		}
		if eff.ClearPressed {
			res.Held = s.Elapsed
			m.pressed = false
			m.pressedAt = 0
		}
		prev := m.state
		m.state = next
		res.Transitions++

		for _, ev := range eff.Events {
			res.Events = append(res.Events, ev)
			if h == nil {
				continue
			}
			if err := h.HandleEvent(ev); err != nil {
				m.state = StateEnd
				m.pressed = false
				m.pressedAt = 0
				return res, fmt.Errorf("button: %s on %s: %w", ev, prev, err)
			}
		}
		if next == prev {
			runtime.Gosched()
		}
	}
	return res, nil
}

func (m *Machine) sample(hasSecondary bool) Sample {
	s := Sample{HasSecondary: hasSecondary, LongPress: m.longPress}
	if m.pressed {
		s.Elapsed = m.clock.Now() - m.pressedAt
	}
	if m.state != StateUp {
		s.Low = m.readPin()
	}
	return s
}

// readPin treats a faulty read as released so a stuck line cannot hold the
// machine in StateDown.
func (m *Machine) readPin() bool {
	if m.pin == nil {
		return false
	}
	low, err := m.pin.IsLow()
	if err != nil {
		return false
	}
	return low
}
