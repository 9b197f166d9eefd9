package effects

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Beat flashes a random color on every beat and goes dark for the second
// half of it.
type Beat struct {
	BPM    int
	Colors Picker
	// Start, when set, is read up to the first newline before the first
	// beat so the show can be started in time with the music.
	Start io.Reader
	Sleep SleepFunc
	Log   zerolog.Logger
}

func (b *Beat) Name() string { return "beat" }

// Period is the length of one beat.
func (b *Beat) Period() time.Duration {
	if b.BPM <= 0 {
		return 0
	}
	return time.Minute / time.Duration(b.BPM)
}

func (b *Beat) Run(ctx context.Context, p Player) error {
	sleep := orSleep(b.Sleep)
	half := b.Period() / 2
	b.Log.Info().Dur("wait_time", b.Period()).Int("bpm", b.BPM).Msg("beat")

	if b.Start != nil {
		b.Log.Info().Msg("press Enter to start the beat")
		if err := waitLine(ctx, b.Start); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := b.Colors.Pick()
		b.Log.Debug().Stringer("color", c).Msg("flash")
		if err := p.Display(c); err != nil {
			return err
		}
		if err := sleep(ctx, half); err != nil {
			return err
		}
		if err := p.Clear(); err != nil {
			return err
		}
		if err := sleep(ctx, half); err != nil {
			return err
		}
	}
}

// waitLine blocks until r yields a line or ctx is cancelled. A reader that
// ends without a newline counts as a line.
//
// On cancellation the reading goroutine stays parked in Read until r
// returns. With stdin that is until the process exits, which follows
// cancellation directly.
func waitLine(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		done <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}
