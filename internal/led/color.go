package led

import "fmt"

// Intensity is a raw, linear channel value before gamma correction.
type Intensity uint8

// Index is a canonical gamma table index: the first index producing a given
// wire byte. Two colors are equal on the strip iff their indices are equal.
type Index uint8

// RGB is a color in raw intensities.
type RGB struct {
	R, G, B Intensity
}

// GammaRGB is a color in canonical gamma indices.
type GammaRGB struct {
	R, G, B Index
}

// Off is the raw color of a dark strip.
var Off = RGB{}

func (c RGB) String() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

func (c GammaRGB) String() string { return fmt.Sprintf("gamma(%d, %d, %d)", c.R, c.G, c.B) }

// ToGamma canonicalizes every channel of c.
func (t *Table) ToGamma(c RGB) GammaRGB {
	return GammaRGB{
		R: t.Canonical(c.R),
		G: t.Canonical(c.G),
		B: t.Canonical(c.B),
	}
}

// FromGRB decodes one stored pixel, given in strip order, into canonical
// indices in RGB order.
func (t *Table) FromGRB(g, r, b byte) (GammaRGB, error) {
	ri, ok := t.Lookup(r)
	if !ok {
		return GammaRGB{}, fmt.Errorf("red 0x%02x: %w", r, ErrUnrepresentable)
	}
	gi, ok := t.Lookup(g)
	if !ok {
		return GammaRGB{}, fmt.Errorf("green 0x%02x: %w", g, ErrUnrepresentable)
	}
	bi, ok := t.Lookup(b)
	if !ok {
		return GammaRGB{}, fmt.Errorf("blue 0x%02x: %w", b, ErrUnrepresentable)
	}
	return GammaRGB{R: ri, G: gi, B: bi}, nil
}

// Level converts a wire byte to the 0..255 brightness the strip emits for
// it. Used for previews; it ignores gamma.
func Level(b byte) uint8 {
	return uint8(uint16(b&0x7f) * 255 / 127)
}
