package config

import "fmt"

// Store owns the header and the single currently loaded page.
type Store struct {
	stream Stream
	header Header
	page   *Page
}

// NewStore reads the header row from the start of stream and loads page 0.
func NewStore(stream Stream) (*Store, error) {
	if err := stream.SeekFromStart(0); err != nil {
		return nil, fmt.Errorf("config: seek header: %w", err)
	}
	var row [HeaderSize]byte
	if err := readFull(stream, row[:]); err != nil {
		return nil, fmt.Errorf("config: read header: %w", err)
	}
	header, err := ParseHeader(row[:])
	if err != nil {
		return nil, err
	}

	s := &Store{stream: stream, header: header}
	if err := s.LoadPage(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Header() Header { return s.header }

// Page returns the current page. It is replaced, not mutated, by LoadPage.
func (s *Store) Page() *Page { return s.page }

// Button returns the button at addr on the current page.
func (s *Store) Button(addr int) *Button { return s.page.Button(addr) }

// LoadPage reads the function rows and then the images of page. The current
// page is swapped only after both passes succeed.
func (s *Store) LoadPage(page uint16) error {
	if page >= s.header.StoredPages() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, s.header.StoredPages())
	}
	n := int(s.header.ButtonCount)
	buttons := make([]Button, n)

	dataOffset := s.header.DataOffset(page)
	if err := s.stream.SeekFromStart(dataOffset); err != nil {
		return fmt.Errorf("config: page %d: seek rows at %d: %w", page, dataOffset, err)
	}
	for i := range buttons {
		if err := readFull(s.stream, buttons[i].Data[:]); err != nil {
			return fmt.Errorf("config: page %d: row %d: %w", page, i, err)
		}
	}

	imagesOffset := s.header.ImagesOffset(page)
	if err := s.stream.SeekFromStart(imagesOffset); err != nil {
		return fmt.Errorf("config: page %d: seek images at %d: %w", page, imagesOffset, err)
	}
	for i := range buttons {
		if err := readFull(s.stream, buttons[i].Image[:]); err != nil {
			return fmt.Errorf("config: page %d: image %d: %w", page, i, err)
		}
	}

	s.page = &Page{Index: page, Buttons: buttons}
	return nil
}
