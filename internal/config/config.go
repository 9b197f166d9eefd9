package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Fade struct {
	Step     int     `yaml:"step"`     // submit a frame every Step fade steps
	Interval float64 `yaml:"interval"` // seconds between fade frames
}

type Glow struct {
	GlowPause float64 `yaml:"glow_pause"` // seconds at full color
	DimPause  float64 `yaml:"dim_pause"`  // seconds while dimmed
	Minimum   int     `yaml:"minimum"`
	NoDim     bool    `yaml:"no_dim"`
	MinColor  int     `yaml:"min_color"`
	MaxColor  int     `yaml:"max_color"`
}

type Beat struct {
	BPM      int  `yaml:"bpm"`
	MinColor int  `yaml:"min_color"`
	MaxColor int  `yaml:"max_color"`
	Floor    int  `yaml:"floor"` // at least one channel reaches this
	NoPrompt bool `yaml:"no_prompt"`
}

type Sweep struct {
	Pause float64 `yaml:"pause"`
}

type Config struct {
	Effect      string `yaml:"effect"` // "glow" | "beat" | "sweep" | "clear"
	Driver      string `yaml:"driver"` // "file" | "spi" | "sim"
	Device      string `yaml:"device"` // e.g. /dev/spidev0.0
	SPIPort     string `yaml:"spi_port,omitempty"`
	SpeedHz     int    `yaml:"speed_hz"`
	Length      int    `yaml:"length"`
	Fake        bool   `yaml:"fake"`
	Verbose     bool   `yaml:"verbose"`
	Preview     bool   `yaml:"preview"`
	MonitorAddr string `yaml:"monitor_addr,omitempty"`
	Seed        int64  `yaml:"seed,omitempty"` // 0 seeds from the clock

	Fade  Fade  `yaml:"fade"`
	Glow  Glow  `yaml:"glow"`
	Beat  Beat  `yaml:"beat"`
	Sweep Sweep `yaml:"sweep"`
}

// Default returns the stock settings for a 32 LED strip on spidev0.0.
func Default() *Config {
	return &Config{
		Effect:  "glow",
		Driver:  "file",
		Device:  "/dev/spidev0.0",
		SpeedHz: 1000000,
		Length:  32,
		Fade:    Fade{Step: 1, Interval: 0.1},
		Glow:    Glow{GlowPause: 2, DimPause: 1, MinColor: 0, MaxColor: 255},
		Beat:    Beat{BPM: 140, MinColor: 65, MaxColor: 255, Floor: 100},
		Sweep:   Sweep{Pause: 0.5},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv loads .env files (missing ones are fine) and applies the
// LPDGLOW_* variables that describe the hardware.
func (c *Config) ApplyEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	for key, dst := range map[string]*string{
		"LPDGLOW_DRIVER":       &c.Driver,
		"LPDGLOW_DEVICE":       &c.Device,
		"LPDGLOW_SPI_PORT":     &c.SPIPort,
		"LPDGLOW_MONITOR_ADDR": &c.MonitorAddr,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	for key, dst := range map[string]*int{
		"LPDGLOW_LENGTH":   &c.Length,
		"LPDGLOW_SPEED_HZ": &c.SpeedHz,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
		}
		*dst = n
	}
	return nil
}

// Validate reports every bad value at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, a ...any) { errs = append(errs, fmt.Errorf(format, a...)) }

	switch c.Effect {
	case "glow", "beat", "sweep", "clear":
	default:
		bad("unknown effect %q", c.Effect)
	}
	switch c.Driver {
	case "file", "spi", "sim":
	default:
		bad("unknown driver %q", c.Driver)
	}
	if c.Driver == "file" && c.Device == "" && !c.Fake {
		bad("device path is empty")
	}
	if c.Length <= 0 {
		bad("length must be > 0, got %d", c.Length)
	}
	if c.SpeedHz < 0 {
		bad("speed_hz must be >= 0, got %d", c.SpeedHz)
	}
	if c.Fade.Step < 1 {
		bad("step must be >= 1, got %d", c.Fade.Step)
	}
	if c.Fade.Interval < 0 {
		bad("interval must be >= 0, got %v", c.Fade.Interval)
	}
	inRange := func(name string, v int) {
		if v < 0 || v > 255 {
			bad("%s must be within 0-255, got %d", name, v)
		}
	}

	// effect sections are only checked for the effect that runs; -L and -H
	// write both color ranges
	switch c.Effect {
	case "glow":
		if c.Glow.GlowPause < 0 {
			bad("glow_pause must be >= 0, got %v", c.Glow.GlowPause)
		}
		if c.Glow.DimPause < 0 {
			bad("dim_pause must be >= 0, got %v", c.Glow.DimPause)
		}
		inRange("minimum", c.Glow.Minimum)
		inRange("glow.min_color", c.Glow.MinColor)
		inRange("glow.max_color", c.Glow.MaxColor)
		if c.Glow.MinColor > c.Glow.MaxColor {
			bad("glow min_color %d > max_color %d", c.Glow.MinColor, c.Glow.MaxColor)
		}
	case "beat":
		if c.Beat.BPM <= 0 {
			bad("bpm must be > 0, got %d", c.Beat.BPM)
		}
		inRange("beat.min_color", c.Beat.MinColor)
		inRange("beat.max_color", c.Beat.MaxColor)
		inRange("beat.floor", c.Beat.Floor)
		if c.Beat.MinColor > c.Beat.MaxColor {
			bad("beat min_color %d > max_color %d", c.Beat.MinColor, c.Beat.MaxColor)
		}
	case "sweep":
		if c.Sweep.Pause < 0 {
			bad("sweep.pause must be >= 0, got %v", c.Sweep.Pause)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Seconds converts a config duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
