//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"macrodeck/app"
	"macrodeck/hal"
)

func main() {
	cfg := app.DefaultConfig()
	var (
		headless bool
		hz       int
		ticks    uint64
		dir      string
		script   string
		units    int
		cols     int
	)
	flag.StringVar(&dir, "dir", ".", "Directory standing in for the SD card.")
	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Configuration blob to load from -dir.")
	flag.DurationVar(&cfg.LongPress, "long-press", cfg.LongPress, "Hold time after which a press is long.")
	flag.Uint64Var(&cfg.PollEvery, "poll-every", cfg.PollEvery, "Check one button every N ticks.")
	flag.IntVar(&cfg.Retries, "retries", cfg.Retries, "Attempts per display submission.")
	flag.IntVar(&units, "units", 8, "Buttons wired to the simulated multiplexer (max 16).")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 1000, "Tick rate.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", "YAML press script for headless mode.")
	flag.IntVar(&cols, "cols", 4, "Displays per row in the window.")
	flag.Parse()

	host := hal.HostConfig{Dir: dir, Units: units}
	if script != "" {
		presses, err := hal.LoadPressScript(script)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		host.Presses = presses
	}

	newApp := func(h hal.HAL) (func() error, error) {
		return app.New(h, cfg)
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{Hz: hz, Ticks: ticks, Host: host}); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Hz: hz, Columns: cols, Host: host}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
