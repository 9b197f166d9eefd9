package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 32, c.Length)
	assert.Equal(t, 140, c.Beat.BPM)
	assert.Equal(t, 100*time.Millisecond, Seconds(c.Fade.Interval))
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("effect: beat\nbeat:\n  bpm: 90\nfade:\n  step: 3\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "beat", c.Effect)
	assert.Equal(t, 90, c.Beat.BPM)
	assert.Equal(t, 3, c.Fade.Step)
	assert.Equal(t, 0.1, c.Fade.Interval, "unset keys keep their defaults")
	assert.Equal(t, 65, c.Beat.MinColor)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Glow.NoDim = true
	c.MonitorAddr = ":9000"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("length: [1, 2"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		effect string
		mutate func(*Config)
	}{
		"effect":      {"glow", func(c *Config) { c.Effect = "strobe" }},
		"driver":      {"glow", func(c *Config) { c.Driver = "usb" }},
		"length":      {"glow", func(c *Config) { c.Length = 0 }},
		"step":        {"glow", func(c *Config) { c.Fade.Step = 0 }},
		"interval":    {"glow", func(c *Config) { c.Fade.Interval = -1 }},
		"minimum":     {"glow", func(c *Config) { c.Glow.Minimum = 256 }},
		"min_color":   {"glow", func(c *Config) { c.Glow.MinColor = -1 }},
		"min>max":     {"glow", func(c *Config) { c.Glow.MinColor, c.Glow.MaxColor = 200, 100 }},
		"empty dev":   {"glow", func(c *Config) { c.Device = "" }},
		"dim_pause":   {"glow", func(c *Config) { c.Glow.DimPause = -0.5 }},
		"bpm":         {"beat", func(c *Config) { c.Beat.BPM = 0 }},
		"beat order":  {"beat", func(c *Config) { c.Beat.MinColor, c.Beat.MaxColor = 120, 90 }},
		"beat bounds": {"beat", func(c *Config) { c.Beat.MaxColor = 300 }},
		"beat floor":  {"beat", func(c *Config) { c.Beat.Floor = -1 }},
		"sweep pause": {"sweep", func(c *Config) { c.Sweep.Pause = -1 }},
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			c.Effect = tc.effect
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}

	c := Default()
	c.Device = ""
	c.Fake = true
	assert.NoError(t, c.Validate(), "fake mode never opens the device")
}

func TestValidateChecksOnlyTheRunningEffect(t *testing.T) {
	c := Default()
	c.Beat.BPM = 0
	c.Beat.MinColor, c.Beat.MaxColor = 200, 100
	assert.NoError(t, c.Validate(), "glow ignores the beat section")

	c = Default()
	c.Effect = "beat"
	c.Glow.MinColor, c.Glow.MaxColor = 200, 100
	assert.NoError(t, c.Validate(), "beat ignores the glow section")

	// the floor is clamped to the max when colors are picked
	c.Beat.MaxColor = 90
	assert.NoError(t, c.Validate())
}

func TestLowMaxColorFlagForGlow(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-e", "glow", "-H", "50"}))

	c := Default()
	f.Apply(c)
	assert.Equal(t, 50, c.Glow.MaxColor)
	assert.Equal(t, 50, c.Beat.MaxColor)
	assert.NoError(t, c.Validate())

	// the beat keeps its own minimum of 65, which is now above the max
	c.Effect = "beat"
	assert.ErrorIs(t, c.Validate(), ErrInvalid)
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LPDGLOW_SPI_PORT=SPI9.0\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LPDGLOW_SPI_PORT") })
	t.Setenv("LPDGLOW_DEVICE", "/dev/spidev1.0")
	t.Setenv("LPDGLOW_LENGTH", "48")

	c := Default()
	require.NoError(t, c.ApplyEnv(envFile))
	assert.Equal(t, "/dev/spidev1.0", c.Device)
	assert.Equal(t, 48, c.Length)
	assert.Equal(t, "SPI9.0", c.SPIPort, "read from the .env file")

	require.NoError(t, c.ApplyEnv(filepath.Join(t.TempDir(), "none.env")))

	t.Setenv("LPDGLOW_LENGTH", "many")
	assert.ErrorIs(t, c.ApplyEnv(envFile), ErrInvalid)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-b", "120", "-step", "2", "-L", "10", "-n", "-f", "-config", "x.yaml"}))

	c := Default()
	c.Glow.GlowPause = 7 // pretend this came from the file
	f.Apply(c)

	assert.Equal(t, "x.yaml", f.ConfigPath)
	assert.Equal(t, 120, c.Beat.BPM)
	assert.Equal(t, 2, c.Fade.Step)
	assert.Equal(t, 10, c.Glow.MinColor)
	assert.Equal(t, 10, c.Beat.MinColor)
	assert.True(t, c.Glow.NoDim)
	assert.True(t, c.Fake)
	assert.Equal(t, 7.0, c.Glow.GlowPause)
	assert.Equal(t, 255, c.Glow.MaxColor)
}

func TestFlagsRejectMalformed(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	RegisterFlags(fs)
	assert.Error(t, fs.Parse([]string{"-bpm", "fast"}))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
