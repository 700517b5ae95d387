//go:build tinygo

package hal

import (
	"fmt"
	"machine"
	"time"
)

type tinyGoInput struct {
	pin InputPin
}

func (in tinyGoInput) Button() InputPin { return in.pin }

type tinyGoClock struct {
	start time.Time
}

func (c *tinyGoClock) Now() time.Duration { return time.Since(c.start) }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// machinePin exposes an MCU pin as a GPIOPin.
type machinePin struct {
	pin  machine.Pin
	name string
	mode GPIOMode
}

func newMachinePin(pin machine.Pin, name string) *machinePin {
	return &machinePin{pin: pin, name: name}
}

func (p *machinePin) Name() string { return p.name }
func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch mode {
	case GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}
