package hal

import (
	"fmt"
	"sync"
)

// FrameBytes is the size of one 128x64 monochrome SSD1306 frame.
const FrameBytes = 128 * 64 / 8

// deck simulates the multiplexed OLEDs and buttons: the address pins decide
// which unit receives a draw and which button the sense line reads.
type deck struct {
	mu       sync.Mutex
	addrPins []GPIOPin
	units    []deckUnit
}

type deckUnit struct {
	button GPIOPin
	frame  []byte
	ready  bool
	draws  int
}

func newDeck(addrPins []GPIOPin, buttons []GPIOPin) *deck {
	d := &deck{addrPins: addrPins, units: make([]deckUnit, len(buttons))}
	for i, b := range buttons {
		if b != nil {
			_ = b.Configure(GPIOModeInput, GPIOPullUp)
		}
		d.units[i] = deckUnit{button: b, frame: make([]byte, FrameBytes)}
	}
	return d
}

func (d *deck) selected() (int, error) {
	addr := int(readAddress(d.addrPins))
	if addr >= len(d.units) {
		return addr, fmt.Errorf("deck: address %d has no unit", addr)
	}
	return addr, nil
}

func (d *deck) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	addr, err := d.selected()
	if err != nil {
		return err
	}
	d.units[addr].ready = true
	for i := range d.units[addr].frame {
		d.units[addr].frame[i] = 0
	}
	return nil
}

func (d *deck) Draw(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	addr, err := d.selected()
	if err != nil {
		return err
	}
	u := &d.units[addr]
	if !u.ready {
		return fmt.Errorf("deck: display %d not initialised", addr)
	}
	if len(frame) != FrameBytes {
		return fmt.Errorf("deck: frame of %d bytes, want %d", len(frame), FrameBytes)
	}
	copy(u.frame, frame)
	u.draws++
	return nil
}

// snapshot copies the frame of unit i into dst.
func (d *deck) snapshot(i int, dst []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.units) {
		return
	}
	copy(dst, d.units[i].frame)
}

func (d *deck) unitCount() int { return len(d.units) }

// senseLine is the shared button input as seen through the multiplexer.
type senseLine struct {
	d *deck
}

func (s senseLine) Name() string   { return "SENSE" }
func (s senseLine) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (s senseLine) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin SENSE: only input supported")
	}
	_ = pull
	return nil
}

func (s senseLine) Read() (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	addr, err := s.d.selected()
	if err != nil {
		return true, err
	}
	b := s.d.units[addr].button
	if b == nil {
		return true, nil
	}
	return b.Read()
}

func (s senseLine) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin SENSE: output unsupported")
}

// pixelOn reports whether pixel (x, y) is lit in an SSD1306 page-ordered frame.
func pixelOn(frame []byte, x, y int) bool {
	i := x + (y/8)*128
	if i < 0 || i >= len(frame) {
		return false
	}
	return frame[i]&(1<<uint(y%8)) != 0
}
