package config

import "flag"

// Flags binds the command line onto a Config. Only flags given on the
// command line override values from the file and the environment.
type Flags struct {
	ConfigPath string
	EnvFile    string

	fs  *flag.FlagSet
	v   Config
	set map[string]func(*Config)
}

// RegisterFlags defines the command line on fs. The underscore names and
// one letter aliases are kept for existing launch scripts.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, v: *Default(), set: map[string]func(*Config){}}
	v := &f.v

	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.EnvFile, "env", ".env", "path to an optional .env file")

	f.str(&v.Effect, func(c *Config) { c.Effect = v.Effect }, "effect: glow | beat | sweep | clear", "effect", "e")
	f.str(&v.Driver, func(c *Config) { c.Driver = v.Driver }, "bus driver: file | spi | sim", "driver")
	f.str(&v.Device, func(c *Config) { c.Device = v.Device }, "device node for the file driver", "device")
	f.str(&v.SPIPort, func(c *Config) { c.SPIPort = v.SPIPort }, "periph SPI port name for the spi driver", "spi-port")
	f.num(&v.SpeedHz, func(c *Config) { c.SpeedHz = v.SpeedHz }, "SPI clock in Hz for the spi driver", "speed-hz")
	f.num(&v.Length, func(c *Config) { c.Length = v.Length }, "number of LEDs on the strip", "length")
	f.str(&v.MonitorAddr, func(c *Config) { c.MonitorAddr = v.MonitorAddr }, "serve a websocket frame monitor on this address", "monitor")

	f.num(&v.Beat.BPM, func(c *Config) { c.Beat.BPM = v.Beat.BPM },
		"beats per minute to display a color and then dim", "bpm", "b")
	f.boolean(&v.Beat.NoPrompt, func(c *Config) { c.Beat.NoPrompt = v.Beat.NoPrompt },
		"start the beat without waiting for Enter", "no_prompt")
	f.num(&v.Fade.Step, func(c *Config) { c.Fade.Step = v.Fade.Step },
		"fade steps per frame sent; higher is faster but jumpier", "step", "s")
	f.float(&v.Fade.Interval, func(c *Config) { c.Fade.Interval = v.Fade.Interval },
		"seconds to wait after every frame of a fade", "interval", "i")
	f.float(&v.Glow.GlowPause, func(c *Config) { c.Glow.GlowPause = v.Glow.GlowPause },
		"seconds to wait at maximum glow", "glow_pause", "g")
	f.float(&v.Glow.DimPause, func(c *Config) { c.Glow.DimPause = v.Glow.DimPause },
		"seconds to wait while dimmed", "dim_pause", "d")
	f.num(&v.Glow.Minimum, func(c *Config) { c.Glow.Minimum = v.Glow.Minimum },
		"the minimum value to fade out to (0-255)", "minimum", "m")
	f.boolean(&v.Glow.NoDim, func(c *Config) { c.Glow.NoDim = v.Glow.NoDim },
		"only pause at max glow, then fade to the next color", "no_dim", "n")
	f.num(&v.Glow.MinColor, func(c *Config) { c.Glow.MinColor = v.Glow.MinColor; c.Beat.MinColor = v.Glow.MinColor },
		"minimum of the random color range (0-255)", "min_color", "L")
	f.num(&v.Glow.MaxColor, func(c *Config) { c.Glow.MaxColor = v.Glow.MaxColor; c.Beat.MaxColor = v.Glow.MaxColor },
		"maximum of the random color range (0-255)", "max_color", "H")
	f.boolean(&v.Verbose, func(c *Config) { c.Verbose = v.Verbose },
		"trace current and target colors at every step", "verbose", "v")
	f.boolean(&v.Fake, func(c *Config) { c.Fake = v.Fake },
		"run without writing to the LED strip", "fake", "f")
	f.boolean(&v.Preview, func(c *Config) { c.Preview = v.Preview },
		"in fake mode, draw frames on the terminal", "preview")
	return f
}

// Apply copies the flags that were set onto c.
func (f *Flags) Apply(c *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		if set, ok := f.set[fl.Name]; ok {
			set(c)
		}
	})
}

func (f *Flags) str(p *string, set func(*Config), usage string, names ...string) {
	for _, n := range names {
		f.fs.StringVar(p, n, *p, usage)
		f.set[n] = set
	}
}

func (f *Flags) num(p *int, set func(*Config), usage string, names ...string) {
	for _, n := range names {
		f.fs.IntVar(p, n, *p, usage)
		f.set[n] = set
	}
}

func (f *Flags) float(p *float64, set func(*Config), usage string, names ...string) {
	for _, n := range names {
		f.fs.Float64Var(p, n, *p, usage)
		f.set[n] = set
	}
}

func (f *Flags) boolean(p *bool, set func(*Config), usage string, names ...string) {
	for _, n := range names {
		f.fs.BoolVar(p, n, *p, usage)
		f.set[n] = set
	}
}
