//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HostConfig selects what the simulated deck looks like.
type HostConfig struct {
	// Dir is where Storage looks for files.
	Dir string
	// Units is the number of buttons wired to the multiplexer (max 16).
	Units int
	// Presses scripts presses per address; nil leaves buttons to the window.
	Presses map[int][]Press
}

const (
	hostAddressLines = 4
	hostDefaultUnits = 8
)

type hostHAL struct {
	logger  *hostLogger
	storage hostStorage
	deck    *deck
	mux     *AddressMux
	clock   *hostClock
	t       *hostTime
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.Units <= 0 {
		cfg.Units = hostDefaultUnits
	}
	if cfg.Units > 1<<hostAddressLines {
		cfg.Units = 1 << hostAddressLines
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	addrPins := make([]GPIOPin, hostAddressLines)
	for i := range addrPins {
		addrPins[i] = newVirtualPin(fmt.Sprintf("ADDR%d", i), GPIOCapInput|GPIOCapOutput)
	}

	h := &hostHAL{
		logger:  &hostLogger{w: os.Stdout},
		storage: hostStorage{dir: cfg.Dir},
		clock:   newHostClock(),
		t:       newHostTime(),
	}

	buttons := make([]GPIOPin, cfg.Units)
	for i := range buttons {
		name := fmt.Sprintf("BTN%d", i)
		if presses, ok := cfg.Presses[i]; ok {
			buttons[i] = newScriptPin(name, presses)
			continue
		}
		buttons[i] = newVirtualPin(name, GPIOCapInput|GPIOCapPullUp)
	}
	h.deck = newDeck(addrPins, buttons)
	h.mux = NewAddressMux(addrPins, 0)
	return h
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Storage() Storage { return h.storage }
func (h *hostHAL) Display() Display { return h.deck }
func (h *hostHAL) Mux() Mux         { return h.mux }
func (h *hostHAL) Input() Input     { return hostInput{pin: NewActiveLowInput(senseLine{d: h.deck})} }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Time() Time       { return h.t }

func (h *hostHAL) Units() int { return h.deck.unitCount() }

// setPressed drives the window-controlled button of unit i.
func (h *hostHAL) setPressed(i int, pressed bool) {
	if i < 0 || i >= len(h.deck.units) {
		return
	}
	if vp, ok := h.deck.units[i].button.(*virtualPin); ok {
		vp.drive(!pressed)
	}
}

type hostInput struct {
	pin InputPin
}

func (in hostInput) Button() InputPin { return in.pin }

type hostStorage struct {
	dir string
}

func (s hostStorage) Open(name string) (io.ReadSeeker, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return f, nil
}

type hostClock struct {
	start time.Time
}

func newHostClock() *hostClock { return &hostClock{start: time.Now()} }

func (c *hostClock) Now() time.Duration { return time.Since(c.start) }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
