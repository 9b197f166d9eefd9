package render

import (
	"fmt"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Frame is the strip's wire image: three bytes per pixel in GRB order and a
// trailing zero byte that latches the frame. All pixels always hold the same
// color.
type Frame struct {
	buf []byte
	n   int
}

// NewFrame allocates a frame for length pixels, all off.
func NewFrame(length int, t *led.Table) (*Frame, error) {
	if length <= 0 {
		return nil, fmt.Errorf("invalid strip length: %d", length)
	}
	f := &Frame{buf: make([]byte, length*3+1), n: length}
	off := t.Byte(0)
	f.Fill(off, off, off)
	return f, nil
}

// Len returns the number of pixels.
func (f *Frame) Len() int { return f.n }

// Bytes returns the frame as sent on the bus. The slice aliases the frame.
func (f *Frame) Bytes() []byte { return f.buf }

// Fill sets every pixel to the given wire bytes, passed in RGB order.
func (f *Frame) Fill(r, g, b byte) {
	for i := 0; i < f.n; i++ {
		p := i * 3
		f.buf[p] = g
		f.buf[p+1] = r
		f.buf[p+2] = b
	}
}

// Current decodes the color shown by the strip. Only the first pixel is
// inspected.
func (f *Frame) Current(t *led.Table) (led.GammaRGB, error) {
	c, err := t.FromGRB(f.buf[0], f.buf[1], f.buf[2])
	if err != nil {
		return led.GammaRGB{}, fmt.Errorf("read current color: %w", err)
	}
	return c, nil
}
