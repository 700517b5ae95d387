package hal

import (
	"errors"
	"io"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Display is the OLED currently selected by the multiplexer.
type Display interface {
	Init() error
	// Draw sends one full frame in SSD1306 page order.
	Draw(frame []byte) error
}

// Mux routes the display bus and the sense line to one button.
type Mux interface {
	SetAddress(addr uint8)
}

// InputPin is the shared sense line. Low means pressed.
type InputPin interface {
	IsLow() (bool, error)
}

// Input provides access to the button sense line.
type Input interface {
	Button() InputPin
}

// Storage opens files on the removable media.
type Storage interface {
	Open(name string) (io.ReadSeeker, error)
}

// Clock is a monotonic time base measured from boot.
type Clock interface {
	Now() time.Duration
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined (1ms on every current target).
type Time interface {
	Ticks() <-chan uint64
}

// Wiring is implemented by HALs that know how many buttons are connected to
// the multiplexer.
type Wiring interface {
	Units() int
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	Storage() Storage
	Display() Display
	Mux() Mux
	Input() Input
	Clock() Clock
	Time() Time
}
