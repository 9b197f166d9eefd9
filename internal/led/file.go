package led

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// DefaultDevice is the spidev node the strip is wired to.
const DefaultDevice = "/dev/spidev0.0"

// File writes frames straight to a device node such as /dev/spidev0.0. The
// kernel driver clocks each write(2) out as one transfer, so a frame is
// buffered whole and handed over in a single call on Flush.
type File struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *bufio.Writer
}

// OpenFile opens path write-only. frameLen sizes the buffer so a frame is
// never split across transfers.
func OpenFile(path string, frameLen int) (*File, error) {
	if frameLen <= 0 {
		return nil, fmt.Errorf("invalid frame length: %d", frameLen)
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &File{path: path, f: f, w: bufio.NewWriterSize(f, frameLen)}, nil
}

func (s *File) String() string { return "file(" + s.path + ")" }

func (s *File) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("%s write: %w", s.path, err)
	}
	return nil
}

func (s *File) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("%s flush: %w", s.path, err)
	}
	return nil
}

func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
