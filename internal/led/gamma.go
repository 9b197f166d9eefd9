package led

import (
	"errors"
	"math"
)

// ErrUnrepresentable is returned when a byte read back from a frame is not
// produced by any entry of the gamma table.
var ErrUnrepresentable = errors.New("byte not in gamma table")

// Table is the LPD8806 gamma correction table: 7-bit color with the high bit
// set. It also carries the inverse map used to canonicalize colors.
type Table struct {
	out   [256]byte
	first [256]int16 // output byte -> smallest index producing it, -1 if none
}

// NewTable builds the gamma table. The constants are tuned to the strip and
// must not change.
func NewTable() *Table {
	t := &Table{}
	for i := range t.first {
		t.first[i] = -1
	}
	for i := 0; i < 256; i++ {
		b := 0x80 | byte(int(math.Pow(float64(i)/255.0, 2.5)*127.0+0.5))
		t.out[i] = b
		if t.first[b] < 0 {
			t.first[b] = int16(i)
		}
	}
	return t
}

// Byte returns the wire byte a raw intensity produces.
func (t *Table) Byte(v Intensity) byte { return t.out[v] }

// At returns the wire byte at a gamma index.
func (t *Table) At(i Index) byte { return t.out[i] }

// Lookup maps a wire byte back to its canonical index.
func (t *Table) Lookup(b byte) (Index, bool) {
	i := t.first[b]
	if i < 0 {
		return 0, false
	}
	return Index(i), true
}

// Canonical returns the first index that produces the same byte as v.
func (t *Table) Canonical(v Intensity) Index {
	// every table byte has a first occurrence, so this cannot miss
	return Index(t.first[t.out[v]])
}

// Entries returns a copy of the table.
func (t *Table) Entries() [256]byte { return t.out }

// Near the top of the curve consecutive indices differ by two output
// values, so a one byte step from these indices lands on a byte the table
// never produces.
var skipIndices = [256]bool{
	234: true, 235: true,
	242: true, 243: true,
	248: true, 249: true,
	252: true, 253: true,
}

// IsSkip reports whether fades double their step at index i.
func IsSkip(i Index) bool { return skipIndices[i] }
