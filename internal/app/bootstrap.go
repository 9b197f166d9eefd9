// Package app wires a Config into a running effect.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/lpdglow/internal/config"
	"github.com/coreman2200/lpdglow/internal/effects"
	"github.com/coreman2200/lpdglow/internal/led"
	"github.com/coreman2200/lpdglow/internal/render"
	"github.com/coreman2200/lpdglow/internal/ws"
)

// Core holds everything built from a Config.
type Core struct {
	Table   *led.Table
	Sink    led.Sink
	Eng     *render.Engine
	Effect  effects.Effect
	Monitor *ws.Monitor

	srv *http.Server
	ln  net.Listener
	log zerolog.Logger
}

// Options carry the process level collaborators.
type Options struct {
	Stdin io.Reader
	Log   zerolog.Logger
	// Sleep paces fade frames; nil means time.Sleep.
	Sleep func(time.Duration)
}

// OpenSink opens the bus selected by cfg. Fake mode always uses the
// simulator.
func OpenSink(cfg *config.Config) (led.Sink, error) {
	frameLen := cfg.Length*3 + 1
	switch {
	case cfg.Fake || cfg.Driver == "sim":
		if cfg.Preview {
			return led.NewPreviewSim(cfg.Length), nil
		}
		return led.NewSim(), nil
	case cfg.Driver == "file":
		return led.OpenFile(cfg.Device, frameLen)
	case cfg.Driver == "spi":
		return led.OpenSPI(cfg.SPIPort, physic.Frequency(cfg.SpeedHz)*physic.Hertz)
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}

// InitCore opens the sink and builds the engine and the effect. Nothing is
// sent to the strip yet.
func InitCore(cfg *config.Config, o Options) (*Core, error) {
	table := led.NewTable()
	eff, err := NewEffect(cfg, table, o.Stdin, o.Log)
	if err != nil {
		return nil, err
	}
	sink, err := OpenSink(cfg)
	if err != nil {
		return nil, err
	}
	c := &Core{Table: table, Sink: sink, Effect: eff, log: o.Log}

	if cfg.MonitorAddr != "" {
		c.Monitor = ws.NewMonitor(sink, cfg.Length, o.Log)
		c.Sink = c.Monitor
		ln, err := net.Listen("tcp", cfg.MonitorAddr)
		if err != nil {
			_ = sink.Close()
			return nil, fmt.Errorf("monitor listen: %w", err)
		}
		c.ln = ln
		c.srv = &http.Server{
			Handler:      c.Monitor.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	c.Eng, err = render.NewEngine(table, cfg.Length, c.Sink, render.Options{
		Step:     cfg.Fade.Step,
		Interval: config.Seconds(cfg.Fade.Interval),
		Sleep:    o.Sleep,
		Logger:   o.Log,
	})
	if err != nil {
		c.closeTransport()
		_ = c.Sink.Close()
		return nil, err
	}
	return c, nil
}

// NewEffect builds the effect named by cfg.Effect.
func NewEffect(cfg *config.Config, table *led.Table, stdin io.Reader, log zerolog.Logger) (effects.Effect, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	switch cfg.Effect {
	case "glow":
		return &effects.Glow{
			Colors: effects.Picker{
				Rand: rng,
				Min:  led.Intensity(cfg.Glow.MinColor),
				Max:  led.Intensity(cfg.Glow.MaxColor),
			},
			GlowPause: config.Seconds(cfg.Glow.GlowPause),
			DimPause:  config.Seconds(cfg.Glow.DimPause),
			Minimum:   led.Intensity(cfg.Glow.Minimum),
			NoDim:     cfg.Glow.NoDim,
			Log:       log,
		}, nil
	case "beat":
		b := &effects.Beat{
			BPM: cfg.Beat.BPM,
			Colors: effects.Picker{
				Rand:  rng,
				Min:   led.Intensity(cfg.Beat.MinColor),
				Max:   led.Intensity(cfg.Beat.MaxColor),
				Floor: led.Intensity(cfg.Beat.Floor),
			},
			Log: log,
		}
		if !cfg.Beat.NoPrompt {
			b.Start = stdin
		}
		return b, nil
	case "sweep":
		return &effects.Sweep{Table: table, Pause: config.Seconds(cfg.Sweep.Pause), Log: log}, nil
	case "clear":
		return effects.Clear{}, nil
	}
	return nil, fmt.Errorf("%w: unknown effect %q", config.ErrInvalid, cfg.Effect)
}

// Run clears the strip, starts the monitor if configured and plays the
// effect until it ends or ctx is cancelled. Cancellation is not an error.
func (c *Core) Run(ctx context.Context) error {
	if c.srv != nil {
		go func() {
			c.log.Info().Str("addr", c.ln.Addr().String()).Msg("monitor listening")
			if err := c.srv.Serve(c.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.log.Error().Err(err).Msg("monitor server stopped")
			}
		}()
	}
	if err := c.Eng.Clear(); err != nil {
		return err
	}
	c.log.Info().Str("effect", c.Effect.Name()).Msg("starting")
	err := c.Effect.Run(ctx, c.Eng)
	if errors.Is(err, context.Canceled) {
		c.log.Info().Msg("interrupted")
		return nil
	}
	return err
}

// Close stops the monitor, clears the strip and closes the bus.
func (c *Core) Close() error {
	c.closeTransport()
	return c.Eng.Close()
}

func (c *Core) closeTransport() {
	if c.srv != nil {
		_ = c.srv.Close()
	}
	if c.ln != nil {
		// Serve may not have taken ownership yet
		_ = c.ln.Close()
	}
}
