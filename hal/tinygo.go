//go:build tinygo

package hal

import (
	"machine"
	"time"
)

// Pin mapping of the Pico carrier board.
const (
	uartTX = machine.GP0
	uartRX = machine.GP1

	oledSDA = machine.GP2
	oledSCL = machine.GP3
	oledKHz = 800

	sdSCK = machine.GP10
	sdSDO = machine.GP11
	sdSDI = machine.GP8
	sdCS  = machine.GP9

	buttonPin = machine.GP19
)

var muxPins = []machine.Pin{machine.GP20, machine.GP21, machine.GP22}

type tinyGoHAL struct {
	logger  *uartLogger
	storage *sdStorage
	oled    *oledDisplay
	mux     *AddressMux
	button  InputPin
	clock   *tinyGoClock
	t       *tinyGoTime
}

// New returns the RP2040 HAL of the deck.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       uartTX,
		RX:       uartRX,
	})
	logger := &uartLogger{uart: uart}

	addr := make([]GPIOPin, 0, len(muxPins))
	for i, p := range muxPins {
		addr = append(addr, newMachinePin(p, "MUX"+string(rune('0'+i))))
	}

	btn := newMachinePin(buttonPin, "BUTTON")
	if err := btn.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		logger.WriteLineString("button: " + err.Error())
	}

	oled, err := newOLEDDisplay()
	if err != nil {
		logger.WriteLineString("oled: " + err.Error())
	}

	return &tinyGoHAL{
		logger:  logger,
		storage: newSDStorage(),
		oled:    oled,
		mux:     NewAddressMux(addr, MuxSettle),
		button:  NewActiveLowInput(btn),
		clock:   &tinyGoClock{start: time.Now()},
		t:       newTinyGoTime(),
	}
}

// Units is the address space of the mux lines.
func (h *tinyGoHAL) Units() int { return 1 << h.mux.Lines() }

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Storage() Storage { return h.storage }
func (h *tinyGoHAL) Display() Display { return h.oled }
func (h *tinyGoHAL) Mux() Mux         { return h.mux }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{pin: h.button} }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHAL) Time() Time       { return h.t }
