package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lpdglow/internal/led"
)

func TestNewFrameStartsOff(t *testing.T) {
	tbl := led.NewTable()
	f, err := NewFrame(32, tbl)
	require.NoError(t, err)
	assert.Equal(t, 32, f.Len())
	require.Len(t, f.Bytes(), 97)
	for _, b := range f.Bytes()[:96] {
		assert.Equal(t, byte(0x80), b)
	}
	assert.Equal(t, byte(0), f.Bytes()[96])

	cur, err := f.Current(tbl)
	require.NoError(t, err)
	assert.Equal(t, tbl.ToGamma(led.Off), cur)

	_, err = NewFrame(0, tbl)
	assert.Error(t, err)
}

func TestFrameFillOrder(t *testing.T) {
	tbl := led.NewTable()
	f, err := NewFrame(2, tbl)
	require.NoError(t, err)
	f.Fill(0x81, 0x82, 0x83)
	assert.Equal(t, []byte{0x82, 0x81, 0x83, 0x82, 0x81, 0x83, 0x00}, f.Bytes())

	cur, err := f.Current(tbl)
	require.NoError(t, err)
	r, _ := tbl.Lookup(0x81)
	g, _ := tbl.Lookup(0x82)
	assert.Equal(t, r, cur.R)
	assert.Equal(t, g, cur.G)
}
