package config

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// RowSize is the length of one function-data row (and of the header block).
	RowSize = 128
	// ImageSize is one liveness byte followed by a 128x64 monochrome frame.
	ImageSize = 1 + FrameSize
	// FrameSize is the raw SSD1306 frame passed to the display.
	FrameSize = 1024

	HeaderSize = RowSize
)

var (
	ErrInvalidHeader  = errors.New("config: invalid header")
	ErrShortRead      = errors.New("config: short read")
	ErrPageOutOfRange = errors.New("config: page out of range")
)

// Header describes the grid and where the image region starts.
type Header struct {
	Width  uint8
	Height uint8
	// Offset is the image region start, in RowSize units from the file start.
	Offset      uint16
	ButtonCount uint32
	PageCount   uint16
}

// ParseHeader decodes the first row of a configuration blob.
func ParseHeader(row []byte) (Header, error) {
	if len(row) < 4 {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(row))
	}
	h := Header{
		Width:  row[0],
		Height: row[1],
		Offset: binary.LittleEndian.Uint16(row[2:4]),
	}
	h.ButtonCount = uint32(h.Width) * uint32(h.Height)
	if h.ButtonCount == 0 {
		return Header{}, fmt.Errorf("%w: empty grid %dx%d", ErrInvalidHeader, h.Width, h.Height)
	}
	// Page 0 rows live between the header row and the image region.
	if uint32(h.Offset) < 1+h.ButtonCount {
		return Header{}, fmt.Errorf("%w: offset %d overlaps page 0 rows", ErrInvalidHeader, h.Offset)
	}
	h.PageCount = uint16(uint32(h.Offset) / h.ButtonCount)
	return h, nil
}

// StoredPages returns how many pages have function rows before the image
// region. Unlike PageCount it does not count the header row as page data.
func (h Header) StoredPages() uint16 {
	return uint16((uint32(h.Offset) - 1) / h.ButtonCount)
}

// DataOffset returns the byte offset of the first function row of page.
func (h Header) DataOffset(page uint16) uint32 {
	return RowSize*h.ButtonCount*uint32(page) + HeaderSize
}

// ImagesOffset returns the byte offset of the first image record of page.
func (h Header) ImagesOffset(page uint16) uint32 {
	return uint32(h.Offset)*RowSize + ImageSize*h.ButtonCount*uint32(page)
}

// Bytes encodes the header as a full row.
func (h Header) Bytes() [RowSize]byte {
	var row [RowSize]byte
	row[0] = h.Width
	row[1] = h.Height
	binary.LittleEndian.PutUint16(row[2:4], h.Offset)
	return row
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%d buttons=%d offset=%d pages=%d", h.Width, h.Height, h.ButtonCount, h.Offset, h.StoredPages())
}
