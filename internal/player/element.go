package player

import (
	"context"
	"errors"
	"fmt"
)

// Element is a native playback engine. Implementations publish lifecycle
// events on Events and never infer state they were not told about.
type Element interface {
	// Load points the element at url and starts loading it.
	Load(ctx context.Context, url string) error
	// Unload stops playback and detaches the current source.
	Unload(ctx context.Context) error
	// Play blocks until playback has started or the element refused.
	// If the element enters its error state first, Play fails with ErrMediaIO.
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	SetVolume(ctx context.Context, v float64) error
	SetRate(ctx context.Context, r float64) error
	Events() <-chan Event
	Close() error
}

var (
	// ErrMediaLoad means the element could not fetch or decode its source.
	ErrMediaLoad = errors.New("media load failed")
	// ErrMediaIO fails a play that was in flight when the element errored.
	ErrMediaIO = errors.New("media i/o error")
	// ErrUnsupportedRate is returned for rates outside Rates.
	ErrUnsupportedRate = errors.New("unsupported playback rate")
)

// CommandError is a transport command the element rejected. Gen is the
// controller's load generation when the command was issued.
type CommandError struct {
	Op  string
	Gen int
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
