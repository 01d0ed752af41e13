package mpv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/notula/internal/logging"
	"github.com/jwulff/notula/internal/player"
)

// Options configures the mpv child process.
type Options struct {
	Binary       string        // mpv executable, default "mpv"
	SocketPath   string        // IPC socket, default under os.TempDir()
	StartTimeout time.Duration // how long to wait for the socket, default 5s
}

// Element is a player.Element backed by mpv. One connection carries
// commands, a second one carries observed property changes.
type Element struct {
	client   *Client
	evClient *Client
	proc     *exec.Cmd
	sockPath string
	events   chan player.Event
	done     chan struct{}
	log      zerolog.Logger

	mu           sync.Mutex
	paused       bool
	durationSeen bool
	playWaits    []chan error
	closed       bool
}

// Start launches mpv idle and paused, then attaches to its IPC socket.
func Start(ctx context.Context, opts Options) (*Element, error) {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.SocketPath == "" {
		opts.SocketPath = filepath.Join(os.TempDir(), fmt.Sprintf("notula-mpv-%d.sock", os.Getpid()))
	}
	if opts.StartTimeout == 0 {
		opts.StartTimeout = 5 * time.Second
	}
	bin, err := exec.LookPath(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("find mpv: %w", err)
	}
	os.Remove(opts.SocketPath)

	proc := exec.Command(bin,
		"--idle=yes",
		"--pause",
		"--keep-open=yes",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server="+opts.SocketPath,
	)
	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	client, evClient, err := dialWithRetry(ctx, opts.SocketPath, opts.StartTimeout)
	if err != nil {
		proc.Process.Kill()
		proc.Wait()
		return nil, err
	}

	e, err := New(ctx, client, evClient)
	if err != nil {
		client.Close()
		evClient.Close()
		proc.Process.Kill()
		proc.Wait()
		return nil, err
	}
	e.proc = proc
	e.sockPath = opts.SocketPath
	return e, nil
}

func dialWithRetry(ctx context.Context, sockPath string, timeout time.Duration) (*Client, *Client, error) {
	deadline := time.Now().Add(timeout)
	for {
		client, err := Connect(sockPath)
		if err == nil {
			evClient, err := Connect(sockPath)
			if err != nil {
				client.Close()
				return nil, nil, err
			}
			return client, evClient, nil
		}
		if time.Now().After(deadline) {
			return nil, nil, fmt.Errorf("mpv socket not ready: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// New wraps two established connections. Properties are observed on
// evClient and its events are translated until it closes.
func New(ctx context.Context, client, evClient *Client) (*Element, error) {
	e := &Element{
		client:   client,
		evClient: evClient,
		events:   make(chan player.Event, 64),
		done:     make(chan struct{}),
		log:      logging.WithComponent("mpv"),
		paused:   true,
	}
	for i, name := range observed {
		if _, err := evClient.Do(ctx, "observe_property", i+1, name); err != nil {
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}
	go e.readLoop()
	return e, nil
}

func (e *Element) readLoop() {
	defer close(e.events)
	for {
		ev, err := e.evClient.ReadEvent()
		if err != nil {
			e.mu.Lock()
			closed := e.closed
			e.mu.Unlock()
			if !closed {
				e.log.Warn().Err(err).Msg("event stream ended")
			}
			e.resolvePlay(player.ErrMediaIO)
			return
		}
		for _, pev := range e.translate(ev) {
			select {
			case e.events <- pev:
			case <-e.done:
				return
			}
		}
	}
}

// translate maps one mpv event onto media element events.
func (e *Element) translate(ev Event) []player.Event {
	switch ev.Event {
	case "start-file":
		e.mu.Lock()
		e.durationSeen = false
		e.mu.Unlock()
		return []player.Event{{Kind: player.EventLoadStart}}

	case "file-loaded":
		return []player.Event{{Kind: player.EventCanPlay}}

	case "end-file":
		switch ev.Reason {
		case "error":
			e.log.Warn().Str("fileError", ev.FileError).Msg("playback failed")
			e.resolvePlay(player.ErrMediaIO)
			return []player.Event{{Kind: player.EventError, Err: fmt.Errorf("%w: %s", player.ErrMediaLoad, ev.FileError)}}
		case "stop", "quit":
			return []player.Event{{Kind: player.EventPause}}
		}

	case "property-change":
		return e.translateProperty(ev)
	}
	return nil
}

func (e *Element) translateProperty(ev Event) []player.Event {
	switch ev.Name {
	case PropDuration:
		v, ok := ev.Float()
		if !ok {
			return nil
		}
		e.mu.Lock()
		first := !e.durationSeen
		e.durationSeen = true
		e.mu.Unlock()
		if first {
			return []player.Event{{Kind: player.EventMetadata, Value: v}}
		}
		return []player.Event{{Kind: player.EventDurationChange, Value: v}}

	case PropTimePos:
		if v, ok := ev.Float(); ok {
			return []player.Event{{Kind: player.EventTimeUpdate, Value: v}}
		}

	case PropPause:
		paused, ok := ev.Bool()
		if !ok {
			return nil
		}
		e.mu.Lock()
		e.paused = paused
		e.mu.Unlock()
		if paused {
			return []player.Event{{Kind: player.EventPause}}
		}
		e.resolvePlay(nil)
		return []player.Event{{Kind: player.EventPlay}}

	case PropVolume:
		if v, ok := ev.Float(); ok {
			return []player.Event{{Kind: player.EventVolumeChange, Value: v / 100}}
		}

	case PropSpeed:
		if v, ok := ev.Float(); ok {
			return []player.Event{{Kind: player.EventRateChange, Value: v}}
		}

	case PropEOFReached:
		if reached, ok := ev.Bool(); ok && reached {
			// keep-open leaves mpv paused on the last frame; rewind so the
			// next play starts from the beginning.
			go e.client.Do(context.Background(), "seek", 0, "absolute")
			return []player.Event{{Kind: player.EventPause}, {Kind: player.EventEnded}}
		}
	}
	return nil
}

// resolvePlay wakes every Play waiting for mpv to unpause.
func (e *Element) resolvePlay(err error) {
	e.mu.Lock()
	waits := e.playWaits
	e.playWaits = nil
	e.mu.Unlock()
	for _, ch := range waits {
		ch <- err
	}
}

func (e *Element) set(ctx context.Context, prop string, value any) error {
	_, err := e.client.Do(ctx, "set_property", prop, value)
	return err
}

// Events implements player.Element.
func (e *Element) Events() <-chan player.Event { return e.events }

// Load implements player.Element.
func (e *Element) Load(ctx context.Context, url string) error {
	if err := e.set(ctx, PropPause, true); err != nil {
		return err
	}
	_, err := e.client.Do(ctx, "loadfile", url, "replace")
	return err
}

// Unload implements player.Element.
func (e *Element) Unload(ctx context.Context) error {
	_, err := e.client.Do(ctx, "stop")
	return err
}

// Play implements player.Element. It returns once mpv reports pause=false.
// mpv reports the change once, so concurrent calls share that report.
func (e *Element) Play(ctx context.Context) error {
	e.mu.Lock()
	if !e.paused {
		e.mu.Unlock()
		return nil
	}
	ch := make(chan error, 1)
	e.playWaits = append(e.playWaits, ch)
	e.mu.Unlock()

	if err := e.set(ctx, PropPause, false); err != nil {
		e.clearPlayWait(ch)
		return err
	}
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		e.clearPlayWait(ch)
		return fmt.Errorf("play: %w", ctx.Err())
	}
}

func (e *Element) clearPlayWait(ch chan error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, w := range e.playWaits {
		if w == ch {
			e.playWaits = append(e.playWaits[:i], e.playWaits[i+1:]...)
			return
		}
	}
}

// Pause implements player.Element.
func (e *Element) Pause(ctx context.Context) error {
	return e.set(ctx, PropPause, true)
}

// Seek implements player.Element.
func (e *Element) Seek(ctx context.Context, seconds float64) error {
	_, err := e.client.Do(ctx, "seek", seconds, "absolute")
	return err
}

// SetVolume implements player.Element. mpv volume runs 0-100.
func (e *Element) SetVolume(ctx context.Context, v float64) error {
	return e.set(ctx, PropVolume, v*100)
}

// SetRate implements player.Element.
func (e *Element) SetRate(ctx context.Context, r float64) error {
	return e.set(ctx, PropSpeed, r)
}

// Close quits mpv and releases the socket.
func (e *Element) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.done)
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if e.proc != nil {
		e.client.Do(ctx, "quit")
	}
	e.client.Close()
	e.evClient.Close()

	if e.proc != nil {
		done := make(chan error, 1)
		go func() { done <- e.proc.Wait() }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			e.proc.Process.Kill()
			<-done
		}
		os.Remove(e.sockPath)
	}
	return nil
}

var _ player.Element = (*Element)(nil)
