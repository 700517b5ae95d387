package config

import (
	"errors"
	"fmt"
	"io"
)

// Stream is the random-access byte source the store loads pages from.
type Stream interface {
	Read(p []byte) (int, error)
	SeekFromStart(pos uint32) error
}

type readSeekerStream struct {
	rs io.ReadSeeker
}

// NewReadSeekerStream adapts an io.ReadSeeker (an *os.File, a FAT file handle,
// a bytes.Reader) to a Stream. Reads fill the buffer or fail.
func NewReadSeekerStream(rs io.ReadSeeker) Stream {
	return &readSeekerStream{rs: rs}
}

func (s *readSeekerStream) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.rs, p)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(p))
	}
	return n, err
}

func (s *readSeekerStream) SeekFromStart(pos uint32) error {
	_, err := s.rs.Seek(int64(pos), io.SeekStart)
	return err
}

// readFull enforces the fail-fast contract on any Stream.
func readFull(s Stream, p []byte) error {
	n, err := s.Read(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(p))
	}
	return nil
}
