package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lpdglow/internal/config"
)

func TestRunExitCodes(t *testing.T) {
	t.Setenv("LPDGLOW_DRIVER", "")
	env := t.TempDir() + "/none.env"

	assert.Equal(t, 2, run([]string{"-env", env, "-e", "beat", "-bpm", "0"}))
	assert.Equal(t, 2, run([]string{"-env", env, "-config", t.TempDir() + "/missing.yaml"}))
	assert.Equal(t, 2, run([]string{"-env", env, "-nope"}))
	assert.Equal(t, 1, run([]string{"-env", env, "-driver", "file", "-device", t.TempDir() + "/spidev9.9", "-e", "clear"}))
	assert.Equal(t, 0, run([]string{"-env", env, "-f", "-e", "clear"}))
	assert.Equal(t, 0, run([]string{"-env", env, "-f", "-e", "clear", "-H", "50"}))
	assert.Equal(t, 0, run([]string{"-env", env, "-f", "-e", "clear", "-bpm", "0"}))
}

func TestConfigureGlowWithLowMaxColor(t *testing.T) {
	t.Setenv("LPDGLOW_DRIVER", "")
	env := t.TempDir() + "/none.env"

	cfg, err := configure([]string{"-env", env, "-f", "-e", "glow", "-H", "50"})
	require.NoError(t, err)
	assert.Equal(t, "glow", cfg.Effect)
	assert.Equal(t, 50, cfg.Glow.MaxColor)

	_, err = configure([]string{"-env", env, "-f", "-e", "beat", "-H", "50"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
