package hal

import "time"

// MuxSettle is how long the address lines are given to settle.
const MuxSettle = 3 * time.Millisecond

// AddressMux drives a binary address onto a set of output pins, bit 0 first.
// A nil entry ends the address bus early.
type AddressMux struct {
	pins   []GPIOPin
	settle time.Duration
	sleep  func(time.Duration)
	addr   uint8
}

// NewAddressMux configures pins as outputs and selects address 0.
func NewAddressMux(pins []GPIOPin, settle time.Duration) *AddressMux {
	m := &AddressMux{pins: pins, settle: settle, sleep: time.Sleep}
	for _, pin := range pins {
		if pin == nil {
			break
		}
		_ = pin.Configure(GPIOModeOutput, GPIOPullNone)
	}
	m.SetAddress(0)
	return m
}

func (m *AddressMux) SetAddress(addr uint8) {
	for i, pin := range m.pins {
		if pin == nil {
			break
		}
		_ = pin.Write(addr&(1<<uint(i)) != 0)
	}
	m.addr = addr
	if m.settle > 0 && m.sleep != nil {
		m.sleep(m.settle)
	}
}

// Address returns the last address set.
func (m *AddressMux) Address() uint8 { return m.addr }

// Lines returns how many address lines are wired.
func (m *AddressMux) Lines() int {
	n := 0
	for _, pin := range m.pins {
		if pin == nil {
			break
		}
		n++
	}
	return n
}

// readAddress decodes the address currently present on the pins.
func readAddress(pins []GPIOPin) uint8 {
	var addr uint8
	for i, pin := range pins {
		if pin == nil {
			break
		}
		if level, err := pin.Read(); err == nil && level {
			addr |= 1 << uint(i)
		}
	}
	return addr
}
