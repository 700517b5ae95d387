//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
	Host  HostConfig
}

// NewApp builds the firmware on top of a HAL and returns its step function.
type NewApp func(HAL) (func() error, error)

// RunHeadless runs the firmware without opening a window.
func RunHeadless(ctx context.Context, newApp NewApp, cfg HeadlessConfig) error {
	h := newHost(cfg.Host)
	step, err := newApp(h)
	if err != nil {
		return err
	}
	return runSteps(ctx, h, step, cfg.Hz, cfg.Ticks)
}

// runSteps calls step once per tick until ctx is done, step fails or the
// tick budget (0 = unlimited) is used up. The host steps the firmware
// directly; the Time channel only mirrors the tick count for HAL readers.
func runSteps(ctx context.Context, h *hostHAL, step func() error, hz int, ticks uint64) error {
	if hz <= 0 {
		hz = 1000
	}
	d := time.Second / time.Duration(hz)
	if d <= 0 {
		return fmt.Errorf("invalid tick rate: %d", hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.advance(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if ticks > 0 && tick >= ticks {
				return nil
			}
		}
	}
}
