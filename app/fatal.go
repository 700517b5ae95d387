package app

import (
	"fmt"

	"macrodeck/hal"
	"macrodeck/internal/oledfb"
)

// showFatal logs err and renders it on the display at address 0.
func showFatal(h hal.HAL, err error) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("fatal: %v", err))
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	if mux := h.Mux(); mux != nil {
		mux.SetAddress(0)
	}

	c := oledfb.New()
	c.WriteText("macrodeck halted", err.Error())
	if disp.Init() != nil {
		return
	}
	_ = disp.Draw(c.Bytes())
}

func halt(h hal.HAL, err error) {
	showFatal(h, err)
	select {}
}
