//go:build tinygo

package main

import (
	"macrodeck/app"
	"macrodeck/hal"
)

func main() {
	app.Run(hal.New(), app.DefaultConfig())
}
