package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidLayout = errors.New("config: invalid layout")

// Layout is the authoring-side view of a configuration blob.
type Layout struct {
	Width  uint8
	Height uint8
	Pages  []PageLayout
}

type PageLayout struct {
	Buttons []ButtonLayout
}

type ButtonLayout struct {
	Primary   Slot
	Secondary Slot
	Live      bool
	// Frame is copied into the image record and zero padded to FrameSize.
	Frame []byte
}

// Slot is a mode byte plus up to DataSize payload bytes.
type Slot struct {
	Mode    byte
	Payload []byte
}

// NoneSlot marks a slot as unused.
func NoneSlot() Slot { return Slot{Mode: byte(ModeNone)} }

// ChangePageSlot encodes a jump to page.
func ChangePageSlot(page uint16) Slot {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, page)
	return Slot{Mode: byte(ModeChangePage), Payload: payload}
}

// PressKeysSlot encodes a zero-terminated key list and an optional goto page.
func PressKeysSlot(keys []byte, gotoPage uint16, hasGoto bool) (Slot, error) {
	// The key list and its terminator must end before the goto field.
	if len(keys) > DataSize-4 {
		return Slot{}, fmt.Errorf("%w: %d keys, max %d", ErrInvalidLayout, len(keys), DataSize-4)
	}
	for _, k := range keys {
		if k == 0 {
			return Slot{}, fmt.Errorf("%w: key code 0 is the list terminator", ErrInvalidLayout)
		}
	}
	if hasGoto && gotoPage == 0xFFFF {
		return Slot{}, fmt.Errorf("%w: goto page %d not encodable", ErrInvalidLayout, gotoPage)
	}
	payload := make([]byte, DataSize)
	copy(payload, keys)
	if hasGoto {
		binary.LittleEndian.PutUint16(payload[DataSize-3:DataSize-1], gotoPage+1)
	}
	return Slot{Mode: byte(ModePressKeys), Payload: payload}, nil
}

// Header returns the header Encode writes for l.
func (l Layout) Header() (Header, error) {
	count := uint32(l.Width) * uint32(l.Height)
	if count == 0 {
		return Header{}, fmt.Errorf("%w: empty grid %dx%d", ErrInvalidLayout, l.Width, l.Height)
	}
	if len(l.Pages) == 0 {
		return Header{}, fmt.Errorf("%w: no pages", ErrInvalidLayout)
	}
	offset := 1 + count*uint32(len(l.Pages))
	if offset > 0xFFFF {
		return Header{}, fmt.Errorf("%w: %d rows do not fit the offset field", ErrInvalidLayout, offset)
	}
	row := Header{Width: l.Width, Height: l.Height, Offset: uint16(offset)}.Bytes()
	return ParseHeader(row[:])
}

// Encode writes the header, every page's function rows and then every
// page's images.
func Encode(w io.Writer, l Layout) error {
	h, err := l.Header()
	if err != nil {
		return err
	}
	for i, p := range l.Pages {
		if uint32(len(p.Buttons)) != h.ButtonCount {
			return fmt.Errorf("%w: page %d has %d buttons, want %d", ErrInvalidLayout, i, len(p.Buttons), h.ButtonCount)
		}
	}

	row := h.Bytes()
	if _, err := w.Write(row[:]); err != nil {
		return fmt.Errorf("config: write header: %w", err)
	}
	for i, p := range l.Pages {
		for j, b := range p.Buttons {
			data, err := b.row()
			if err != nil {
				return fmt.Errorf("page %d button %d: %w", i, j, err)
			}
			if _, err := w.Write(data[:]); err != nil {
				return fmt.Errorf("config: write page %d row %d: %w", i, j, err)
			}
		}
	}
	for i, p := range l.Pages {
		for j, b := range p.Buttons {
			img, err := b.image()
			if err != nil {
				return fmt.Errorf("page %d button %d: %w", i, j, err)
			}
			if _, err := w.Write(img[:]); err != nil {
				return fmt.Errorf("config: write page %d image %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func (b ButtonLayout) row() ([RowSize]byte, error) {
	var row [RowSize]byte
	if len(b.Primary.Payload) > DataSize || len(b.Secondary.Payload) > DataSize {
		return row, fmt.Errorf("%w: slot payload longer than %d", ErrInvalidLayout, DataSize)
	}
	row[PrimaryByte] = b.Primary.Mode
	copy(row[primaryStart:primaryEnd], b.Primary.Payload)
	row[SecondaryByte] = b.Secondary.Mode
	copy(row[secondaryStart:secondaryEnd], b.Secondary.Payload)
	return row, nil
}

func (b ButtonLayout) image() ([ImageSize]byte, error) {
	var img [ImageSize]byte
	if len(b.Frame) > FrameSize {
		return img, fmt.Errorf("%w: frame of %d bytes, max %d", ErrInvalidLayout, len(b.Frame), FrameSize)
	}
	if b.Live {
		img[0] = liveFlag
	}
	copy(img[1:], b.Frame)
	return img, nil
}
