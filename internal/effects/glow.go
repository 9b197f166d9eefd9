package effects

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Glow fades into a random color, holds it, then dims to Minimum and holds
// again, forever.
type Glow struct {
	Colors    Picker
	GlowPause time.Duration
	DimPause  time.Duration
	Minimum   led.Intensity
	// NoDim skips the dim phase and fades straight to the next color.
	NoDim bool
	Sleep SleepFunc
	Log   zerolog.Logger
}

func (g *Glow) Name() string { return "glow" }

func (g *Glow) Run(ctx context.Context, p Player) error {
	sleep := orSleep(g.Sleep)
	dim := led.RGB{R: g.Minimum, G: g.Minimum, B: g.Minimum}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := g.Colors.Pick()
		g.Log.Info().Stringer("color", c).Msg("glow")
		if err := p.FadeTo(c); err != nil {
			return err
		}
		if err := sleep(ctx, g.GlowPause); err != nil {
			return err
		}
		if g.NoDim {
			continue
		}
		if err := p.FadeTo(dim); err != nil {
			return err
		}
		if err := sleep(ctx, g.DimPause); err != nil {
			return err
		}
	}
}
