package effects

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Sweep steps the whole strip through every gamma table entry once, logging
// each one. Useful to check the table against the hardware.
type Sweep struct {
	Table *led.Table
	Pause time.Duration
	Sleep SleepFunc
	Log   zerolog.Logger
}

func (s *Sweep) Name() string { return "sweep" }

func (s *Sweep) Run(ctx context.Context, p Player) error {
	sleep := orSleep(s.Sleep)
	for i := 0; i < 256; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := led.Intensity(i)
		s.Log.Info().Int("index", i).Uint8("byte", s.Table.Byte(v)).Msg("sweep")
		if err := p.Display(led.RGB{R: v, G: v, B: v}); err != nil {
			return err
		}
		if err := sleep(ctx, s.Pause); err != nil {
			return err
		}
	}
	return nil
}

// Clear blanks the strip and returns.
type Clear struct{}

func (Clear) Name() string { return "clear" }

func (Clear) Run(_ context.Context, p Player) error { return p.Clear() }
