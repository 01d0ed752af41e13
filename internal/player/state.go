// Package player keeps playback state consistent with a media element's
// event stream and exposes the transport commands the UI issues.
package player

import "math"

// Rates are the supported playback speed multipliers, slowest first.
var Rates = []float64{0.5, 1, 1.25, 1.5, 1.75, 2}

// DefaultRestoreVolume is the volume restored on unmute when the remembered
// pre-mute volume was itself zero.
const DefaultRestoreVolume = 0.5

// Messages surfaced inline in the player panel.
const (
	MsgLoadFailed    = "Failed to load audio file"
	MsgPlayFailed    = "Unable to play audio"
	MsgPauseFailed   = "Unable to pause audio"
	MsgSeekFailed    = "Unable to seek"
	MsgVolumeFailed  = "Unable to change the volume"
	MsgRateFailed    = "Unable to change the playback speed"
	MsgCommandFailed = "Playback command failed"
)

// State is a snapshot of playback. It changes only through Reduce and the
// Controller's commands.
type State struct {
	Ready         bool
	Playing       bool
	CurrentTime   float64
	Duration      float64
	DurationKnown bool
	Volume        float64
	Muted         bool
	Rate          float64
	LastError     string
	LoadFailed    bool
}

// InitialState is the state before any file is loaded.
func InitialState() State {
	return State{Volume: 1, Rate: 1}
}

// EventKind identifies a media element lifecycle event.
type EventKind int

const (
	EventLoadStart EventKind = iota
	EventMetadata
	EventDurationChange
	EventCanPlay
	EventTimeUpdate
	EventPlay
	EventPause
	EventEnded
	EventError
	EventVolumeChange
	EventRateChange
	EventSeeked
)

var eventNames = map[EventKind]string{
	EventLoadStart:      "loadstart",
	EventMetadata:       "loadedmetadata",
	EventDurationChange: "durationchange",
	EventCanPlay:        "canplay",
	EventTimeUpdate:     "timeupdate",
	EventPlay:           "play",
	EventPause:          "pause",
	EventEnded:          "ended",
	EventError:          "error",
	EventVolumeChange:   "volumechange",
	EventRateChange:     "ratechange",
	EventSeeked:         "seeked",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is reported by an Element. Value carries the duration, position,
// volume or rate depending on Kind.
type Event struct {
	Kind  EventKind
	Value float64
	Err   error
}

// Reduce applies an element event to s and returns the new state.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case EventLoadStart:
		s.Ready = false

	case EventMetadata:
		if validDuration(ev.Value) {
			s.Duration = ev.Value
			s.DurationKnown = true
			s.Ready = true
			s.LastError = ""
			s.LoadFailed = false
		}

	case EventDurationChange:
		if validDuration(ev.Value) {
			s.Duration = ev.Value
			s.DurationKnown = true
		}

	case EventCanPlay:
		s.Ready = true
		s.LastError = ""
		s.LoadFailed = false

	case EventTimeUpdate, EventSeeked:
		if !validDuration(ev.Value) {
			return s
		}
		s.CurrentTime = ev.Value

	case EventPlay:
		s.Playing = true

	case EventPause:
		s.Playing = false

	case EventEnded:
		s.Playing = false
		s.CurrentTime = 0

	case EventError:
		s.Ready = false
		s.Playing = false
		s.LoadFailed = true
		s.LastError = MsgLoadFailed

	case EventVolumeChange:
		if ev.Value >= 0 && ev.Value <= 1 {
			s.Volume = ev.Value
		}

	case EventRateChange:
		if SupportedRate(ev.Value) {
			s.Rate = ev.Value
		}
	}
	return clampPosition(s)
}

// SupportedRate reports whether r is one of Rates.
func SupportedRate(r float64) bool {
	for _, v := range Rates {
		if v == r {
			return true
		}
	}
	return false
}

func validDuration(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func clampPosition(s State) State {
	if s.CurrentTime < 0 {
		s.CurrentTime = 0
	}
	if s.DurationKnown && s.CurrentTime > s.Duration {
		s.CurrentTime = s.Duration
	}
	return s
}
