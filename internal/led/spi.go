package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is a clock the LPD8806 handles comfortably over long runs.
const DefaultSpeed = physic.MegaHertz

// SPI sends frames through a periph.io SPI port. Write stages the frame and
// Flush transmits it in one transaction.
type SPI struct {
	mu     sync.Mutex
	port   spi.PortCloser
	conn   spi.Conn
	buf    []byte
	staged bool
}

// OpenSPI initializes the host drivers and opens the named port ("" picks
// the first one available).
func OpenSPI(name string, speed physic.Frequency) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	s, err := NewSPI(p, speed)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI connects to an already opened port in mode 0 with 8 bit words.
func NewSPI(p spi.PortCloser, speed physic.Frequency) (*SPI, error) {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect: %w", err)
	}
	return &SPI{port: p, conn: c}, nil
}

func (s *SPI) String() string { return fmt.Sprintf("spi(%s)", s.conn) }

func (s *SPI) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return ErrClosed
	}
	s.buf = append(s.buf[:0], frame...)
	s.staged = true
	return nil
}

func (s *SPI) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return ErrClosed
	}
	if !s.staged {
		return nil
	}
	s.staged = false
	if err := s.conn.Tx(s.buf, nil); err != nil {
		return fmt.Errorf("spi tx: %w", err)
	}
	return nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
