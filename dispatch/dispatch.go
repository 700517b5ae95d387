package dispatch

import (
	"fmt"

	"macrodeck/button"
	"macrodeck/config"
	"macrodeck/hal"
)

// Display is the OLED currently routed by the multiplexer.
type Display interface {
	Init() error
	Draw(frame []byte) error
}

// Mux selects which button and display are routed to the shared lines.
type Mux interface {
	SetAddress(addr uint8)
}

type Options struct {
	// Retries bounds each display submission. Zero means DefaultRetries.
	Retries int
}

// Dispatcher turns button events for the cursor address into page changes
// and redraws. It is driven from a single goroutine.
type Dispatcher struct {
	store   *config.Store
	display Display
	mux     Mux
	log     hal.Logger
	retries int

	cursor uint8
	// acted is set once a ShortDown has been acted on, so the events that
	// close the same press do not act again.
	acted bool
}

func New(store *config.Store, display Display, mux Mux, logger hal.Logger, opts Options) *Dispatcher {
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	return &Dispatcher{
		store:   store,
		display: display,
		mux:     mux,
		log:     logger,
		retries: opts.Retries,
	}
}

func (d *Dispatcher) Cursor() uint8 { return d.cursor }

// HasSecondaryFunction reports whether the button under the cursor has a
// long-press function on the current page.
func (d *Dispatcher) HasSecondaryFunction() bool {
	b := d.store.Button(int(d.cursor))
	return b != nil && b.HasSecondaryFunction()
}

func (d *Dispatcher) buttonCount() int { return int(d.store.Header().ButtonCount) }

// HandleEvent implements button.Handler for the cursor address.
func (d *Dispatcher) HandleEvent(ev button.Event) error {
	switch ev {
	case button.EventIdle:
		d.acted = false
		d.advance()
		return nil
	case button.EventShortDown:
		d.acted = true
		return d.act(ev, false)
	case button.EventShortUp, button.EventShortTriggered:
		if d.acted {
			d.acted = false
			return nil
		}
		return d.act(ev, false)
	case button.EventLongTriggered:
		d.acted = false
		return d.act(ev, true)
	default:
		return fmt.Errorf("dispatch: unknown event %d", ev)
	}
}

func (d *Dispatcher) advance() {
	n := d.buttonCount()
	if n <= 0 {
		return
	}
	d.cursor = uint8((int(d.cursor) + 1) % n)
	d.mux.SetAddress(d.cursor)
}

func (d *Dispatcher) act(ev button.Event, secondary bool) error {
	b := d.store.Button(int(d.cursor))
	if b == nil {
		return nil
	}
	fn := b.PrimaryFunction()
	if secondary {
		fn = b.SecondaryFunction()
	}

	switch f := fn.(type) {
	case config.ChangePage:
		d.logf("button %d: %s -> %s", d.cursor, ev, f)
		return d.ChangePage(f.TargetPage)
	case config.None:
		return nil
	default:
		d.logf("button %d: %s -> %s (no page effect)", d.cursor, ev, fn)
		return nil
	}
}

// ChangePage loads page, redraws every display and routes the mux back to
// the cursor.
func (d *Dispatcher) ChangePage(page uint16) error {
	if err := d.store.LoadPage(page); err != nil {
		return fmt.Errorf("dispatch: change page: %w", err)
	}
	err := d.Redraw()
	d.mux.SetAddress(d.cursor)
	return err
}

// Redraw submits every button image of the current page in address order.
func (d *Dispatcher) Redraw() error {
	for addr := 0; addr < d.buttonCount(); addr++ {
		b := d.store.Button(addr)
		if b == nil {
			break
		}
		d.mux.SetAddress(uint8(addr))
		frame := b.ImageBuffer()
		if err := Retry(d.retries, func() error { return d.display.Draw(frame) }); err != nil {
			return fmt.Errorf("dispatch: draw %d: %w", addr, err)
		}
	}
	return nil
}

// InitDisplays initialises each display and draws the current page on it.
func (d *Dispatcher) InitDisplays() error {
	defer d.mux.SetAddress(d.cursor)
	for addr := 0; addr < d.buttonCount(); addr++ {
		b := d.store.Button(addr)
		if b == nil {
			break
		}
		d.mux.SetAddress(uint8(addr))
		if err := Retry(d.retries, d.display.Init); err != nil {
			return fmt.Errorf("dispatch: init %d: %w", addr, err)
		}
		frame := b.ImageBuffer()
		if err := Retry(d.retries, func() error { return d.display.Draw(frame) }); err != nil {
			return fmt.Errorf("dispatch: draw %d: %w", addr, err)
		}
	}
	d.logf("displays ready: %d", d.buttonCount())
	return nil
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.log == nil {
		return
	}
	d.log.WriteLineString(fmt.Sprintf(format, args...))
}
