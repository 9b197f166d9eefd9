package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Sim is the sink used in fake mode. Nothing reaches the bus; frames are
// counted, the last one is kept, and optionally drawn on the terminal.
type Sim struct {
	mu      sync.Mutex
	frames  int
	staged  []byte
	last    []byte
	closed  bool
	preview display.Drawer
}

// NewSim returns a silent simulator.
func NewSim() *Sim { return &Sim{} }

// NewPreviewSim returns a simulator that draws every latched frame of
// length pixels on the console.
func NewPreviewSim(length int) *Sim {
	return &Sim{preview: screen.New(length)}
}

func (s *Sim) String() string { return "sim" }

func (s *Sim) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.staged = append(s.staged[:0], frame...)
	return nil
}

func (s *Sim) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.frames++
	s.last = append(s.last[:0], s.staged...)
	if s.preview == nil {
		return nil
	}
	if err := s.preview.Draw(s.preview.Bounds(), frameImage(s.last), image.Point{}); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Frames returns how many frames were latched.
func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns a copy of the last latched frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

// Pixels decodes a GRB frame into the colors the strip shows. The trailing
// latch byte is ignored.
func Pixels(frame []byte) []color.NRGBA {
	n := len(frame) / 3
	out := make([]color.NRGBA, n)
	for i := 0; i < n; i++ {
		g, r, b := frame[i*3], frame[i*3+1], frame[i*3+2]
		out[i] = color.NRGBA{R: Level(r), G: Level(g), B: Level(b), A: 255}
	}
	return out
}

func frameImage(frame []byte) *image.NRGBA {
	px := Pixels(frame)
	img := image.NewNRGBA(image.Rect(0, 0, len(px), 1))
	for x, c := range px {
		img.SetNRGBA(x, 0, c)
	}
	return img
}
