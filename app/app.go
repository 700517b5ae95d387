package app

import (
	"errors"
	"fmt"
	"time"

	"macrodeck/button"
	"macrodeck/config"
	"macrodeck/dispatch"
	"macrodeck/hal"
	"macrodeck/internal/buildinfo"
)

type Config struct {
	// LongPress is the hold time after which a press counts as long.
	LongPress time.Duration
	// PollEvery runs one button check every N ticks.
	PollEvery uint64
	// Retries bounds each display submission.
	Retries int
	// ConfigPath names the configuration blob on the storage medium.
	ConfigPath string
}

func DefaultConfig() Config {
	return Config{
		LongPress:  button.DefaultLongPress,
		PollEvery:  1,
		Retries:    dispatch.DefaultRetries,
		ConfigPath: "config.bin",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.LongPress <= 0 {
		c.LongPress = def.LongPress
	}
	if c.PollEvery == 0 {
		c.PollEvery = def.PollEvery
	}
	if c.Retries <= 0 {
		c.Retries = def.Retries
	}
	if c.ConfigPath == "" {
		c.ConfigPath = def.ConfigPath
	}
	return c
}

// maxButtons is the address space of the multiplexer.
const maxButtons = 256

var ErrTooManyButtons = errors.New("app: configuration has more buttons than are wired")

type system struct {
	cfg      Config
	log      hal.Logger
	store    *config.Store
	disp     *dispatch.Dispatcher
	machines []*button.Machine
	tick     uint64
}

// New loads the configuration, draws every display and returns the step
// function the platform calls once per tick.
func New(h hal.HAL, cfg Config) (func() error, error) {
	s, err := newSystem(h, cfg)
	if err != nil {
		return nil, err
	}
	return s.step, nil
}

// Run starts the firmware and blocks forever (TinyGo entrypoint). A fatal
// error is shown on the first display.
func Run(h hal.HAL, cfg Config) {
	step, err := New(h, cfg)
	if err != nil {
		halt(h, err)
	}
	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			for range ch {
				if err := step(); err != nil {
					halt(h, err)
				}
			}
		}
	}
	select {}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	cfg = cfg.withDefaults()
	s := &system{cfg: cfg, log: h.Logger()}
	s.logf("macrodeck %s", buildinfo.String())

	storage := h.Storage()
	if storage == nil {
		return nil, fmt.Errorf("app: no storage: %w", hal.ErrNotImplemented)
	}
	rs, err := storage.Open(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("app: open %s: %w", cfg.ConfigPath, err)
	}
	store, err := config.NewStore(config.NewReadSeekerStream(rs))
	if err != nil {
		return nil, fmt.Errorf("app: load %s: %w", cfg.ConfigPath, err)
	}
	header := store.Header()
	wired := maxButtons
	if w, ok := h.(hal.Wiring); ok {
		wired = w.Units()
	}
	if header.ButtonCount > uint32(wired) {
		return nil, fmt.Errorf("%w: %d in %s, %d wired", ErrTooManyButtons, header.ButtonCount, cfg.ConfigPath, wired)
	}
	s.store = store
	s.logf("config: %s", header)

	s.disp = dispatch.New(store, h.Display(), h.Mux(), s.log, dispatch.Options{Retries: cfg.Retries})

	var pin button.Pin
	if in := h.Input(); in != nil {
		pin = in.Button()
	}
	s.machines = make([]*button.Machine, header.ButtonCount)
	for i := range s.machines {
		s.machines[i] = button.NewMachine(pin, h.Clock(), cfg.LongPress)
	}

	if err := s.disp.InitDisplays(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return s, nil
}

// step runs one button check for the cursor address every PollEvery ticks.
func (s *system) step() error {
	s.tick++
	if s.tick%s.cfg.PollEvery != 0 {
		return nil
	}
	m := s.machines[s.disp.Cursor()]
	if _, err := m.Check(s.disp.HasSecondaryFunction(), s.disp); err != nil {
		return fmt.Errorf("app: button %d: %w", s.disp.Cursor(), err)
	}
	return nil
}

func (s *system) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
