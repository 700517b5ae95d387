package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{
		name: name,
		caps: caps,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
		if mode == GPIOModeInput {
			p.level = true
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
		if mode == GPIOModeInput {
			p.level = false
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

// drive sets the level seen by readers regardless of mode, standing in for
// whatever is wired to the pin outside the MCU.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

// Press is one scripted button press.
type Press struct {
	At   time.Duration
	Hold time.Duration
}

// scriptPin is a pulled-up input that reads low during each scripted press.
type scriptPin struct {
	mu      sync.Mutex
	name    string
	mode    GPIOMode
	t0      time.Time
	now     func() time.Time
	presses []Press
}

func newScriptPin(name string, presses []Press) GPIOPin {
	return newScriptPinWithClock(name, presses, time.Now)
}

func newScriptPinWithClock(name string, presses []Press, now func() time.Time) GPIOPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	return &scriptPin{
		name:    name,
		mode:    GPIOModeInput,
		t0:      now(),
		now:     now,
		presses: presses,
	}
}

func (p *scriptPin) Name() string   { return p.name }
func (p *scriptPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *scriptPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	if pull == GPIOPullDown {
		return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
	}
	p.mode = mode
	return nil
}

func (p *scriptPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode != GPIOModeInput {
		return false, fmt.Errorf("gpio: pin %s: not configured for input", p.name)
	}
	if p.now == nil {
		return false, fmt.Errorf("gpio: pin %s: no clock", p.name)
	}

	elapsed := p.now().Sub(p.t0)
	for _, pr := range p.presses {
		if elapsed >= pr.At && elapsed < pr.At+pr.Hold {
			return false, nil
		}
	}
	return true, nil
}

func (p *scriptPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// activeLowPin reads a pulled-up button: a low level means pressed.
type activeLowPin struct {
	pin GPIOPin
}

// NewActiveLowInput wraps a pulled-up GPIO pin as a sense line.
func NewActiveLowInput(pin GPIOPin) InputPin {
	return activeLowPin{pin: pin}
}

func (p activeLowPin) IsLow() (bool, error) {
	if p.pin == nil {
		return false, ErrNotImplemented
	}
	level, err := p.pin.Read()
	if err != nil {
		return false, err
	}
	return !level, nil
}
