package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Options tune how fades are paced.
type Options struct {
	// Step submits a frame every Step fade steps. 1 sends every step.
	Step int
	// Interval is the pause after each submitted fade frame.
	Interval time.Duration
	// Sleep pauses between fade frames; defaults to time.Sleep.
	Sleep func(time.Duration)
	// Logger receives step traces at debug level.
	Logger zerolog.Logger
}

// Engine owns the frame buffer and the sink and moves the strip between
// colors. It is not safe for concurrent use.
type Engine struct {
	table    *led.Table
	frame    *Frame
	sink     led.Sink
	step     int
	interval time.Duration
	sleep    func(time.Duration)
	log      zerolog.Logger

	frames int

	// Last describes the most recent FadeTo.
	Last struct {
		Steps  int
		Frames int
	}
}

// NewEngine allocates the frame for length pixels. The strip is not touched
// until the first call that submits a frame.
func NewEngine(t *led.Table, length int, sink led.Sink, o Options) (*Engine, error) {
	if t == nil || sink == nil {
		return nil, errors.New("engine needs a table and a sink")
	}
	if o.Step < 1 {
		return nil, fmt.Errorf("invalid step: %d", o.Step)
	}
	if o.Interval < 0 {
		return nil, fmt.Errorf("invalid interval: %s", o.Interval)
	}
	f, err := NewFrame(length, t)
	if err != nil {
		return nil, err
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	return &Engine{
		table:    t,
		frame:    f,
		sink:     sink,
		step:     o.Step,
		interval: o.Interval,
		sleep:    o.Sleep,
		log:      o.Logger,
	}, nil
}

// Frame exposes the frame buffer for inspection.
func (e *Engine) Frame() *Frame { return e.frame }

// Frames returns the number of frames submitted so far.
func (e *Engine) Frames() int { return e.frames }

// Current returns the color the strip shows.
func (e *Engine) Current() (led.GammaRGB, error) { return e.frame.Current(e.table) }

// FadeTo walks the strip one representable byte per channel at a time from
// its current color to target. It runs to completion once started.
func (e *Engine) FadeTo(target led.RGB) error {
	want := e.table.ToGamma(target)
	e.log.Debug().Stringer("desired", target).Stringer("gamma", want).Msg("fade")

	cur, err := e.frame.Current(e.table)
	if err != nil {
		return err
	}
	e.Last.Steps, e.Last.Frames = 0, 0
	for cur != want {
		e.frame.Fill(
			e.next(cur.R, want.R),
			e.next(cur.G, want.G),
			e.next(cur.B, want.B),
		)
		e.Last.Steps++
		if e.Last.Steps%e.step == 0 {
			if err := e.submit(); err != nil {
				return err
			}
			e.Last.Frames++
			e.sleep(e.interval)
		}
		if cur, err = e.frame.Current(e.table); err != nil {
			return err
		}
		e.log.Debug().Stringer("current", cur).Stringer("target", want).Msg("step")
	}
	// the last steps fell between two submissions
	if e.Last.Steps%e.step != 0 {
		if err := e.submit(); err != nil {
			return err
		}
		e.Last.Frames++
	}
	return nil
}

// next returns the wire byte one step from cur toward want. Steps from a
// skip index are doubled, and the result never passes want's byte.
func (e *Engine) next(cur, want led.Index) byte {
	from, to := int(e.table.At(cur)), int(e.table.At(want))
	if cur == want {
		return byte(from)
	}
	dir, mult := 1, 1
	if want < cur {
		dir = -1
	}
	if led.IsSkip(cur) {
		mult = 2
	}
	b := from + dir*mult
	if (dir > 0 && b > to) || (dir < 0 && b < to) {
		b = to
	}
	// to is representable, so this stops at the latest
	for {
		if _, ok := e.table.Lookup(byte(b)); ok {
			return byte(b)
		}
		b += dir
	}
}

// Display shows target on the whole strip at once.
func (e *Engine) Display(target led.RGB) error {
	want := e.table.ToGamma(target)
	e.log.Debug().Stringer("desired", target).Stringer("gamma", want).Msg("display")
	e.frame.Fill(e.table.At(want.R), e.table.At(want.G), e.table.At(want.B))
	return e.submit()
}

// Clear turns every pixel off.
func (e *Engine) Clear() error { return e.Display(led.Off) }

// Close clears the strip and releases the sink. The sink is closed even
// when clearing fails.
func (e *Engine) Close() error {
	return errors.Join(e.Clear(), e.sink.Close())
}

func (e *Engine) submit() error {
	if err := led.Submit(e.sink, e.frame.Bytes()); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	e.frames++
	return nil
}
