package player

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Command is a transport command to run off the event loop. Its error is fed
// back through Controller.CommandFailed.
type Command func(ctx context.Context) error

// Op names used in CommandError and CommandFailed.
const (
	OpLoad   = "load"
	OpUnload = "unload"
	OpPlay   = "play"
	OpPause  = "pause"
	OpSeek   = "seek"
	OpVolume = "volume"
	OpRate   = "rate"
)

// Controller exposes the user-facing transport operations. Every method runs
// on the event loop; a nil Command means the operation was a no-op.
//
// Load and Unload start a new generation. Command errors carry the
// generation they were issued in, and Failed ignores older ones.
type Controller struct {
	a           *Adapter
	prevVolume  float64
	loaded      bool
	gen         int
	playPending bool
}

// NewController returns a controller driving a.
func NewController(a *Adapter) *Controller {
	prev := a.State().Volume
	if prev <= 0 {
		prev = DefaultRestoreVolume
	}
	return &Controller{a: a, prevVolume: prev}
}

// State returns the current playback snapshot.
func (c *Controller) State() State { return c.a.State() }

// Adapter returns the underlying adapter.
func (c *Controller) Adapter() *Adapter { return c.a }

// Generation returns the current load generation.
func (c *Controller) Generation() int { return c.gen }

// Loaded reports whether a media source is attached.
func (c *Controller) Loaded() bool { return c.loaded }

// HandleEvent applies an element event. Events that arrive while no source
// is loaded belong to a source that was already torn down and are dropped.
func (c *Controller) HandleEvent(ev Event) State {
	if !c.loaded {
		return c.a.State()
	}
	switch ev.Kind {
	case EventLoadStart, EventPlay, EventPause, EventEnded, EventError:
		c.playPending = false
	}
	return c.a.Apply(ev)
}

// command stamps fn's errors with the current generation.
func (c *Controller) command(op string, fn func(ctx context.Context) error) Command {
	gen := c.gen
	return func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var ce *CommandError
		if errors.As(err, &ce) {
			ce.Gen = gen
			return ce
		}
		return &CommandError{Op: op, Gen: gen, Err: err}
	}
}

func (c *Controller) newGeneration() {
	c.a.Reset()
	c.gen++
	c.playPending = false
}

// Load resets transient state and, for a non-empty url, loads it into the
// element and reapplies volume and rate. An empty url bypasses playback.
func (c *Controller) Load(url string) Command {
	c.newGeneration()
	if url == "" {
		return c.unload()
	}
	c.loaded = true
	el := c.a.Element()
	s := c.a.State()
	vol := effectiveVolume(s)
	rate := s.Rate
	return c.command(OpLoad, func(ctx context.Context) error {
		if err := el.Load(ctx, url); err != nil {
			return &CommandError{Op: OpLoad, Err: fmt.Errorf("%w: %v", ErrMediaLoad, err)}
		}
		if err := el.SetVolume(ctx, vol); err != nil {
			return &CommandError{Op: OpVolume, Err: err}
		}
		if err := el.SetRate(ctx, rate); err != nil {
			return &CommandError{Op: OpRate, Err: err}
		}
		return nil
	})
}

// Unload pauses and detaches any loaded source.
func (c *Controller) Unload() Command {
	c.newGeneration()
	return c.unload()
}

func (c *Controller) unload() Command {
	if !c.loaded {
		return nil
	}
	c.loaded = false
	el := c.a.Element()
	return c.command(OpUnload, el.Unload)
}

// TogglePlayPause plays or pauses. Playing is never set here; it follows
// the element's play and pause events. While a play waits for the element
// to confirm, further toggles are no-ops.
func (c *Controller) TogglePlayPause() Command {
	s := c.a.State()
	if !s.Ready || c.playPending {
		return nil
	}
	el := c.a.Element()
	if s.Playing {
		return c.command(OpPause, el.Pause)
	}
	c.playPending = true
	return c.command(OpPlay, el.Play)
}

// PlayPending reports whether a play is waiting for the element.
func (c *Controller) PlayPending() bool { return c.playPending }

// Seek moves the position to t seconds. The new position shows immediately;
// the element's next time report overrides it.
func (c *Controller) Seek(t float64) Command {
	s := c.a.State()
	if !s.Ready || math.IsNaN(t) || math.IsInf(t, 0) {
		return nil
	}
	if t < 0 {
		t = 0
	}
	if s.DurationKnown && t > s.Duration {
		t = s.Duration
	}
	c.a.update(func(s *State) { s.CurrentTime = t })
	el := c.a.Element()
	return c.command(OpSeek, func(ctx context.Context) error {
		return el.Seek(ctx, t)
	})
}

// SeekBy moves the position by delta seconds.
func (c *Controller) SeekBy(delta float64) Command {
	return c.Seek(c.a.State().CurrentTime + delta)
}

// Reset rewinds to zero and pauses if playing.
func (c *Controller) Reset() Command {
	s := c.a.State()
	if !s.Ready {
		return nil
	}
	playing := s.Playing
	c.a.update(func(s *State) { s.CurrentTime = 0 })
	el := c.a.Element()
	return c.command(OpSeek, func(ctx context.Context) error {
		if err := el.Seek(ctx, 0); err != nil {
			return &CommandError{Op: OpSeek, Err: err}
		}
		if playing {
			if err := el.Pause(ctx); err != nil {
				return &CommandError{Op: OpPause, Err: err}
			}
		}
		return nil
	})
}

// SetVolume sets the volume, clamped to [0,1]. Zero mutes; any positive
// value unmutes.
func (c *Controller) SetVolume(v float64) Command {
	if math.IsNaN(v) {
		return nil
	}
	v = math.Max(0, math.Min(1, v))
	s := c.a.State()
	if v == 0 && !s.Muted && s.Volume > 0 {
		c.prevVolume = s.Volume
	}
	c.a.update(func(s *State) {
		s.Volume = v
		if v == 0 {
			s.Muted = true
		} else {
			s.Muted = false
		}
	})
	return c.volumeCommand()
}

// AdjustVolume changes the volume by delta.
func (c *Controller) AdjustVolume(delta float64) Command {
	v := math.Round((c.a.State().Volume+delta)*100) / 100
	return c.SetVolume(v)
}

// ToggleMute mutes, remembering the volume, or unmutes back to it.
func (c *Controller) ToggleMute() Command {
	s := c.a.State()
	if s.Muted {
		restore := c.prevVolume
		if restore <= 0 {
			restore = DefaultRestoreVolume
		}
		c.a.update(func(s *State) {
			s.Volume = restore
			s.Muted = false
		})
	} else {
		c.prevVolume = s.Volume
		c.a.update(func(s *State) {
			s.Volume = 0
			s.Muted = true
		})
	}
	return c.volumeCommand()
}

func (c *Controller) volumeCommand() Command {
	if !c.a.State().Ready {
		return nil
	}
	el := c.a.Element()
	v := effectiveVolume(c.a.State())
	return c.command(OpVolume, func(ctx context.Context) error {
		return el.SetVolume(ctx, v)
	})
}

// RestoreVolume is the volume an unmute would restore. When not muted it is
// the current volume.
func (c *Controller) RestoreVolume() float64 {
	s := c.a.State()
	if !s.Muted {
		return s.Volume
	}
	if c.prevVolume <= 0 {
		return DefaultRestoreVolume
	}
	return c.prevVolume
}

// SetRate selects one of Rates.
func (c *Controller) SetRate(r float64) (Command, error) {
	if !SupportedRate(r) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRate, r)
	}
	c.a.update(func(s *State) { s.Rate = r })
	if !c.a.State().Ready {
		return nil, nil
	}
	el := c.a.Element()
	return c.command(OpRate, func(ctx context.Context) error {
		return el.SetRate(ctx, r)
	}), nil
}

// StepRate moves to the next faster (step > 0) or slower (step < 0) rate.
func (c *Controller) StepRate(step int) Command {
	idx := 1
	for i, r := range Rates {
		if r == c.a.State().Rate {
			idx = i
		}
	}
	idx = max(0, min(len(Rates)-1, idx+step))
	cmd, _ := c.SetRate(Rates[idx])
	return cmd
}

// Failed routes an error returned by a Command to CommandFailed. It reports
// false when the command belonged to an earlier generation and was ignored.
func (c *Controller) Failed(err error) bool {
	var ce *CommandError
	if !errors.As(err, &ce) {
		c.CommandFailed("", err)
		return true
	}
	if ce.Gen != c.gen {
		return false
	}
	c.CommandFailed(ce.Op, err)
	return true
}

// CommandFailed records a failed command. A rejected play leaves Playing
// false; a failed load puts the element in its error state. A failed unload
// has nothing left to report on.
func (c *Controller) CommandFailed(op string, err error) {
	if err == nil {
		return
	}
	switch op {
	case OpLoad:
		c.a.Apply(Event{Kind: EventError, Err: err})
	case OpPlay:
		c.playPending = false
		c.a.update(func(s *State) {
			s.Playing = false
			if !s.LoadFailed {
				s.LastError = MsgPlayFailed
			}
		})
	case OpUnload:
	default:
		msg := failureMessage(op)
		c.a.update(func(s *State) {
			if !s.LoadFailed {
				s.LastError = msg
			}
		})
	}
}

func failureMessage(op string) string {
	switch op {
	case OpPause:
		return MsgPauseFailed
	case OpSeek:
		return MsgSeekFailed
	case OpVolume:
		return MsgVolumeFailed
	case OpRate:
		return MsgRateFailed
	}
	return MsgCommandFailed
}

func effectiveVolume(s State) float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}
