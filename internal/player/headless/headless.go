// Package headless provides an in-memory player.Element. It backs the
// --headless mode and the tests; nothing is decoded or played.
package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jwulff/notula/internal/player"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("element closed")

// ErrAutoplay is the default rejection used by RejectNextPlay.
var ErrAutoplay = errors.New("play() rejected: user gesture required")

// Call is one recorded command.
type Call struct {
	Op    string
	URL   string
	Value float64
}

// Element is a scriptable player.Element. In auto mode it answers commands
// with the events a real element would send; otherwise tests emit events
// themselves with Emit.
type Element struct {
	mu         sync.Mutex
	events     chan player.Event
	calls      []Call
	auto       bool
	duration   float64
	rejectPlay error
	holdPlay   bool
	pending    chan error
	closed     bool
}

// New returns an element that only records commands.
func New() *Element {
	return &Element{events: make(chan player.Event, 64)}
}

// NewAuto returns an element that simulates a source of the given duration:
// Load reports metadata, Play and Pause report play and pause. A duration
// of zero or less leaves the duration unreported, so it stays unknown.
func NewAuto(duration float64) *Element {
	e := New()
	e.auto = true
	e.duration = duration
	return e
}

// Calls returns every recorded command in order.
func (e *Element) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallCount returns the number of recorded commands named op.
func (e *Element) CallCount(op string) int {
	n := 0
	for _, c := range e.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// RejectNextPlay makes the next Play fail with err (ErrAutoplay if nil).
func (e *Element) RejectNextPlay(err error) {
	if err == nil {
		err = ErrAutoplay
	}
	e.mu.Lock()
	e.rejectPlay = err
	e.mu.Unlock()
}

// HoldPlay makes Play block until Confirm or Fail is called.
func (e *Element) HoldPlay() {
	e.mu.Lock()
	e.holdPlay = true
	e.mu.Unlock()
}

// Confirm releases a held Play and reports playback.
func (e *Element) Confirm() {
	e.resolve(nil)
	e.Emit(player.Event{Kind: player.EventPlay})
}

// Fail puts the element in its error state. A held Play fails with
// player.ErrMediaIO.
func (e *Element) Fail(cause error) {
	e.Emit(player.Event{Kind: player.EventError, Err: cause})
	e.resolve(player.ErrMediaIO)
}

// Emit publishes ev as if the element had reported it.
func (e *Element) Emit(ev player.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Element) resolve(err error) {
	e.mu.Lock()
	ch := e.pending
	e.pending = nil
	e.mu.Unlock()
	if ch != nil {
		ch <- err
	}
}

func (e *Element) record(c Call) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.calls = append(e.calls, c)
	return nil
}

// Events implements player.Element.
func (e *Element) Events() <-chan player.Event { return e.events }

// Load implements player.Element.
func (e *Element) Load(ctx context.Context, url string) error {
	if err := e.record(Call{Op: player.OpLoad, URL: url}); err != nil {
		return err
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventLoadStart})
		if e.duration > 0 {
			e.Emit(player.Event{Kind: player.EventMetadata, Value: e.duration})
		}
		e.Emit(player.Event{Kind: player.EventCanPlay})
	}
	return nil
}

// Unload implements player.Element.
func (e *Element) Unload(ctx context.Context) error {
	if err := e.record(Call{Op: player.OpUnload}); err != nil {
		return err
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventPause})
	}
	return nil
}

// Play implements player.Element.
func (e *Element) Play(ctx context.Context) error {
	if err := e.record(Call{Op: player.OpPlay}); err != nil {
		return err
	}
	e.mu.Lock()
	reject := e.rejectPlay
	e.rejectPlay = nil
	hold := e.holdPlay
	e.holdPlay = false
	var ch chan error
	if hold {
		ch = make(chan error, 1)
		e.pending = ch
	}
	e.mu.Unlock()

	if reject != nil {
		return reject
	}
	if hold {
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return fmt.Errorf("play: %w", ctx.Err())
		}
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventPlay})
	}
	return nil
}

// Pause implements player.Element.
func (e *Element) Pause(ctx context.Context) error {
	if err := e.record(Call{Op: player.OpPause}); err != nil {
		return err
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventPause})
	}
	return nil
}

// Seek implements player.Element.
func (e *Element) Seek(ctx context.Context, seconds float64) error {
	if err := e.record(Call{Op: player.OpSeek, Value: seconds}); err != nil {
		return err
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventSeeked, Value: seconds})
	}
	return nil
}

// SetVolume implements player.Element.
func (e *Element) SetVolume(ctx context.Context, v float64) error {
	return e.record(Call{Op: player.OpVolume, Value: v})
}

// SetRate implements player.Element.
func (e *Element) SetRate(ctx context.Context, r float64) error {
	if err := e.record(Call{Op: player.OpRate, Value: r}); err != nil {
		return err
	}
	if e.auto {
		e.Emit(player.Event{Kind: player.EventRateChange, Value: r})
	}
	return nil
}

// Close implements player.Element.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	close(e.events)
	return nil
}

var _ player.Element = (*Element)(nil)
