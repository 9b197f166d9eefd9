// Package effects holds the loops that pick colors and drive the strip:
// beat, glow, a gamma sweep and a plain clear.
//
// Effects only observe cancellation between calls into the Player; a fade
// that has started always finishes.
package effects

import (
	"context"
	"math/rand"
	"time"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Player is what an effect drives. *render.Engine implements it.
type Player interface {
	FadeTo(target led.RGB) error
	Display(target led.RGB) error
	Clear() error
}

// Effect is a runnable light show.
type Effect interface {
	Name() string
	// Run returns ctx.Err() when cancelled, nil when the effect ends on its
	// own.
	Run(ctx context.Context, p Player) error
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d unless ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func orSleep(f SleepFunc) SleepFunc {
	if f == nil {
		return Sleep
	}
	return f
}

// Picker draws random colors with every channel in [Min, Max]. When Floor
// is set, at least one channel reaches it.
type Picker struct {
	Rand     *rand.Rand
	Min, Max led.Intensity
	Floor    led.Intensity
}

// Pick returns the next color.
func (p Picker) Pick() led.RGB {
	lo, hi := p.Min, p.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	floor := p.Floor
	if floor > hi {
		floor = hi
	}
	for {
		c := led.RGB{R: p.channel(lo, hi), G: p.channel(lo, hi), B: p.channel(lo, hi)}
		if c.R >= floor || c.G >= floor || c.B >= floor {
			return c
		}
	}
}

func (p Picker) channel(lo, hi led.Intensity) led.Intensity {
	return lo + led.Intensity(p.Rand.Intn(int(hi-lo)+1))
}
