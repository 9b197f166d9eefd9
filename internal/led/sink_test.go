package led_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	. "github.com/coreman2200/lpdglow/internal/led"
)

var frameA = []byte{0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x00}
var frameB = []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}

func TestSPISendsFrameOnFlush(t *testing.T) {
	buf := bytes.Buffer{}
	s, err := NewSPI(spitest.NewRecordRaw(&buf), 2*physic.MegaHertz)
	require.NoError(t, err)

	require.NoError(t, s.Write(frameA))
	assert.Zero(t, buf.Len(), "nothing goes out before Flush")
	require.NoError(t, s.Flush())
	assert.Equal(t, frameA, buf.Bytes())

	// flushing twice does not resend
	require.NoError(t, s.Flush())
	assert.Equal(t, len(frameA), buf.Len())

	require.NoError(t, Submit(s, frameB))
	assert.Equal(t, append(append([]byte{}, frameA...), frameB...), buf.Bytes())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(frameA), ErrClosed)
	assert.NoError(t, s.Close())
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spidev")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := OpenFile(path, len(frameA))
	require.NoError(t, err)

	require.NoError(t, s.Write(frameA))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got, "frame is held until Flush")

	require.NoError(t, s.Flush())
	require.NoError(t, Submit(s, frameB))
	require.NoError(t, s.Close())

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, frameA...), frameB...), got)
	assert.ErrorIs(t, s.Flush(), ErrClosed)
}

func TestOpenFileMissingDevice(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope"), 7)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenFile("ignored", 0)
	assert.Error(t, err)
}

func TestSim(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.Write(frameA))
	assert.Equal(t, 0, s.Frames())
	require.NoError(t, s.Flush())
	assert.Equal(t, 1, s.Frames())
	assert.Equal(t, frameA, s.Last())

	require.NoError(t, Submit(s, frameB))
	assert.Equal(t, 2, s.Frames())
	assert.Equal(t, frameB, s.Last())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(frameA), ErrClosed)
}
