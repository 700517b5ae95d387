package config

import (
	"bytes"
	"errors"
	"testing"
)

// testLayout builds a 4x2 deck where every button's primary slot jumps to
// the next page and its frame starts with {page, addr}.
func testLayout(t *testing.T, pages int) Layout {
	t.Helper()
	l := Layout{Width: 4, Height: 2}
	for p := 0; p < pages; p++ {
		var pl PageLayout
		for a := 0; a < 8; a++ {
			keys, err := PressKeysSlot([]byte{byte(a + 4)}, uint16(p), true)
			if err != nil {
				t.Fatalf("PressKeysSlot: %v", err)
			}
			pl.Buttons = append(pl.Buttons, ButtonLayout{
				Primary:   ChangePageSlot(uint16((p + 1) % pages)),
				Secondary: keys,
				Live:      a == 0,
				Frame:     []byte{byte(p), byte(a)},
			})
		}
		l.Pages = append(l.Pages, pl)
	}
	return l
}

func encodeLayout(t *testing.T, l Layout) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

type faultyStream struct {
	Stream
	failSeekAt uint32
	failing    bool
}

func (s *faultyStream) SeekFromStart(pos uint32) error {
	if s.failing && pos == s.failSeekAt {
		return errors.New("bus fault")
	}
	return s.Stream.SeekFromStart(pos)
}

func TestEncodedSize(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 3))
	want := RowSize + 3*8*RowSize + 3*8*ImageSize
	if len(blob) != want {
		t.Fatalf("len = %d, want %d", len(blob), want)
	}
}

func TestNewStoreLoadsFirstPage(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 3))
	s, err := NewStore(NewReadSeekerStream(bytes.NewReader(blob)))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	h := s.Header()
	if h.ButtonCount != 8 || h.PageCount != 3 || h.Offset != 25 {
		t.Fatalf("header = %v", h)
	}
	if s.Page().Index != 0 || len(s.Page().Buttons) != 8 {
		t.Fatalf("page = %d with %d buttons", s.Page().Index, len(s.Page().Buttons))
	}
	for a := 0; a < 8; a++ {
		b := s.Button(a)
		img := b.ImageBuffer()
		if img[0] != 0 || img[1] != byte(a) {
			t.Fatalf("button %d: frame marker = %v, want [0 %d]", a, img[:2], a)
		}
		if got := b.PrimaryFunction().(ChangePage).TargetPage; got != 1 {
			t.Fatalf("button %d: target = %d, want 1", a, got)
		}
		if b.HasLiveData() != (a == 0) {
			t.Fatalf("button %d: HasLiveData = %v", a, b.HasLiveData())
		}
		keys := b.SecondaryFunction().(PressKeys)
		if !bytes.Equal(keys.Keys, []byte{byte(a + 4)}) {
			t.Fatalf("button %d: keys = %v", a, keys.Keys)
		}
		if page, ok := keys.Goto(); !ok || page != 0 {
			t.Fatalf("button %d: goto = (%d, %v), want (0, true)", a, page, ok)
		}
	}
	if s.Button(8) != nil {
		t.Fatal("expected nil button past the page")
	}
}

func TestLoadPage(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 3))
	s, err := NewStore(NewReadSeekerStream(bytes.NewReader(blob)))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.LoadPage(2); err != nil {
		t.Fatalf("LoadPage(2): %v", err)
	}
	if s.Page().Index != 2 {
		t.Fatalf("page index = %d, want 2", s.Page().Index)
	}
	for a := 0; a < 8; a++ {
		img := s.Button(a).ImageBuffer()
		if img[0] != 2 || img[1] != byte(a) {
			t.Fatalf("button %d: frame marker = %v, want [2 %d]", a, img[:2], a)
		}
		if got := s.Button(a).PrimaryFunction().(ChangePage).TargetPage; got != 0 {
			t.Fatalf("button %d: target = %d, want 0", a, got)
		}
	}
}

func TestLoadPageOutOfRange(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 2))
	s, err := NewStore(NewReadSeekerStream(bytes.NewReader(blob)))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.LoadPage(2); !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("LoadPage(2) err = %v, want ErrPageOutOfRange", err)
	}
	if s.Page().Index != 0 {
		t.Fatalf("page index = %d, want 0", s.Page().Index)
	}
}

func TestLoadPageFailureKeepsCurrentPage(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 3))
	fs := &faultyStream{Stream: NewReadSeekerStream(bytes.NewReader(blob))}
	s, err := NewStore(fs)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	before := s.Page()

	fs.failing = true
	fs.failSeekAt = s.Header().ImagesOffset(1)
	if err := s.LoadPage(1); err == nil {
		t.Fatal("expected error from failed image seek")
	}
	if s.Page() != before {
		t.Fatal("page replaced after a failed load")
	}
}

func TestNewStoreTruncated(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 1))
	cases := []struct {
		name string
		n    int
	}{
		{"header", 10},
		{"rows", RowSize + 3*RowSize},
		{"images", len(blob) - 1},
	}
	for _, tc := range cases {
		_, err := NewStore(NewReadSeekerStream(bytes.NewReader(blob[:tc.n])))
		if !errors.Is(err, ErrShortRead) {
			t.Fatalf("%s: err = %v, want ErrShortRead", tc.name, err)
		}
	}
}

func TestNewStoreBadHeader(t *testing.T) {
	blob := encodeLayout(t, testLayout(t, 1))
	blob[0] = 0
	if _, err := NewStore(NewReadSeekerStream(bytes.NewReader(blob))); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}

func TestEncodeRejects(t *testing.T) {
	l := testLayout(t, 1)
	l.Pages[0].Buttons = l.Pages[0].Buttons[:7]
	if err := Encode(&bytes.Buffer{}, l); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("short page: err = %v, want ErrInvalidLayout", err)
	}

	l = testLayout(t, 1)
	l.Pages[0].Buttons[3].Frame = make([]byte, FrameSize+1)
	if err := Encode(&bytes.Buffer{}, l); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("big frame: err = %v, want ErrInvalidLayout", err)
	}

	if _, err := PressKeysSlot([]byte{1, 0, 2}, 0, false); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("zero key: err = %v, want ErrInvalidLayout", err)
	}
	if _, err := PressKeysSlot(make([]byte, DataSize), 0, false); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("long keys: err = %v, want ErrInvalidLayout", err)
	}
}

func TestSingleButtonPages(t *testing.T) {
	l := Layout{Width: 1, Height: 1}
	for p := 0; p < 2; p++ {
		l.Pages = append(l.Pages, PageLayout{Buttons: []ButtonLayout{{
			Primary:   ChangePageSlot(uint16(1 - p)),
			Secondary: NoneSlot(),
			Frame:     []byte{byte(p)},
		}}})
	}
	s, err := NewStore(NewReadSeekerStream(bytes.NewReader(encodeLayout(t, l))))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.LoadPage(1); err != nil {
		t.Fatalf("LoadPage(1): %v", err)
	}
	if got := s.Button(0).ImageBuffer()[0]; got != 1 {
		t.Fatalf("frame marker = %d, want 1", got)
	}
	if err := s.LoadPage(2); !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("LoadPage(2): err = %v", err)
	}
	if s.Page().Index != 1 {
		t.Fatalf("page = %d, want 1", s.Page().Index)
	}
}
