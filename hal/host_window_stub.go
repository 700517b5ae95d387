//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop simulator.
type WindowConfig struct {
	Hz      int
	Columns int
	Host    HostConfig
}

func RunWindow(_ NewApp, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
