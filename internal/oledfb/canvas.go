// Package oledfb renders text into monochrome frames in SSD1306 page order,
// the layout the deck displays and the config images use.
package oledfb

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	Width     = 128
	Height    = 64
	FrameSize = Width * Height / 8
)

// Font is the small bitmap font used for labels and error screens.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

// Canvas is a tinyfont display backed by one frame.
type Canvas struct {
	buf [FrameSize]byte
}

func New() *Canvas { return &Canvas{} }

func (c *Canvas) Size() (x, y int16) { return Width, Height }

// SetPixel lights the pixel for any colour that is not black.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := int(x) + int(y/8)*Width
	bit := byte(1) << uint(y%8)
	if col.R|col.G|col.B == 0 {
		c.buf[i] &^= bit
		return
	}
	c.buf[i] |= bit
}

func (c *Canvas) Display() error { return nil }

// Pixel reports whether (x, y) is lit.
func (c *Canvas) Pixel(x, y int16) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return c.buf[int(x)+int(y/8)*Width]&(1<<uint(y%8)) != 0
}

func (c *Canvas) Clear() { c.buf = [FrameSize]byte{} }

// Bytes returns a copy of the frame.
func (c *Canvas) Bytes() []byte {
	out := make([]byte, FrameSize)
	copy(out, c.buf[:])
	return out
}

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{A: 0xFF}
)

// WriteText draws lines top to bottom, wrapping at the canvas width, and
// returns how many rows were drawn. Rows that do not fit are dropped.
func (c *Canvas) WriteText(lines ...string) int {
	lineHeight := int16(Font.GetYAdvance())
	if lineHeight <= 0 {
		lineHeight = 10
	}
	_, outbox := tinyfont.LineWidth(Font, "0")
	cols := int16(Width)
	if outbox > 0 {
		cols = int16(Width / outbox)
	}

	rows := 0
	y := lineHeight - 2
	for _, line := range lines {
		for {
			if y > Height {
				return rows
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(c, Font, 0, y, chunk, white)
			rows++
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
			if line == "" {
				break
			}
		}
	}
	return rows
}

// WriteCentered draws a single line centred on the canvas.
func (c *Canvas) WriteCentered(s string) {
	inner, _ := tinyfont.LineWidth(Font, s)
	x := (int16(Width) - int16(inner)) / 2
	if x < 0 {
		x = 0
	}
	y := (int16(Height) + int16(Font.GetYAdvance())) / 2
	tinyfont.WriteLine(c, Font, x, y, s, white)
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
