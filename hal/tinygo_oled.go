//go:build tinygo

package hal

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

// oledDisplay drives whichever SSD1306 the multiplexer currently routes the
// shared I2C bus to.
type oledDisplay struct {
	dev *ssd1306.Device
	cfg ssd1306.Config
}

func newOLEDDisplay() (*oledDisplay, error) {
	bus := machine.I2C1
	if err := bus.Configure(machine.I2CConfig{
		Frequency: oledKHz * machine.KHz,
		SDA:       oledSDA,
		SCL:       oledSCL,
	}); err != nil {
		return nil, err
	}
	return &oledDisplay{
		dev: ssd1306.NewI2C(bus),
		cfg: ssd1306.Config{
			Address:  0x3C,
			Width:    128,
			Height:   64,
			VccState: ssd1306.SWITCHCAPVCC,
		},
	}, nil
}

// Init resets the selected panel. Each multiplexed panel needs its own Init.
func (d *oledDisplay) Init() error {
	if d == nil || d.dev == nil {
		return ErrNotImplemented
	}
	d.dev.Configure(d.cfg)
	d.dev.ClearBuffer()
	return d.dev.Display()
}

func (d *oledDisplay) Draw(frame []byte) error {
	if d == nil || d.dev == nil {
		return ErrNotImplemented
	}
	if len(frame) != FrameBytes {
		return errors.New("oled: frame size mismatch")
	}
	if err := d.dev.SetBuffer(frame); err != nil {
		return err
	}
	return d.dev.Display()
}
