package led

import "errors"

// ErrClosed is returned by sinks used after Close.
var ErrClosed = errors.New("sink closed")

// Sink abstracts the strip's byte bus. The strip only latches a frame after
// an explicit Flush, so every Write must be followed by one.
type Sink interface {
	// Write stages a full frame, latch byte included.
	Write(frame []byte) error
	// Flush pushes the staged frame out to the strip.
	Flush() error
	// Close releases the device.
	Close() error
}

// Submit writes frame to s and latches it.
func Submit(s Sink, frame []byte) error {
	if err := s.Write(frame); err != nil {
		return err
	}
	return s.Flush()
}
