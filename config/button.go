package config

// DataSize is the payload length of one slot: half a row minus the mode byte.
const DataSize = RowSize/2 - 1

const (
	PrimaryByte   = 0
	SecondaryByte = RowSize / 2

	primaryStart   = 1
	primaryEnd     = DataSize + 1
	secondaryStart = DataSize + 2
	secondaryEnd   = RowSize

	liveFlag = 1
)

// Button is one address worth of raw function data and image.
//
// Functions are decoded from Data on every call and never cached.
type Button struct {
	Data  [RowSize]byte
	Image [ImageSize]byte
}

func (b *Button) PrimaryFunction() Function {
	return DecodeFunction(b.Data[PrimaryByte], b.PrimaryData())
}

func (b *Button) SecondaryFunction() Function {
	return DecodeFunction(b.Data[SecondaryByte], b.SecondaryData())
}

// HasSecondaryFunction compares the raw mode byte, so 0x12 still counts as a
// secondary function even though it decodes to None.
func (b *Button) HasSecondaryFunction() bool {
	return b.Data[SecondaryByte] != byte(ModeNone)
}

func (b *Button) HasLiveData() bool { return b.Image[0] == liveFlag }

// ImageBuffer returns the frame without the liveness byte.
func (b *Button) ImageBuffer() []byte { return b.Image[1:] }

func (b *Button) PrimaryData() []byte   { return b.Data[primaryStart:primaryEnd] }
func (b *Button) SecondaryData() []byte { return b.Data[secondaryStart:secondaryEnd] }

// Page is the set of buttons for every address of one page.
type Page struct {
	Index   uint16
	Buttons []Button
}

// Button returns the button at addr, or nil when addr is outside the page.
func (p *Page) Button(addr int) *Button {
	if p == nil || addr < 0 || addr >= len(p.Buttons) {
		return nil
	}
	return &p.Buttons[addr]
}
