// Package mpv drives an mpv child process over its JSON IPC socket and
// exposes it as a player.Element.
package mpv

import "encoding/json"

// Command is one IPC request. Arguments follow the mpv command name.
type Command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// Response answers a Command with the same request_id.
type Response struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID int             `json:"request_id"`
}

// OK reports whether mpv accepted the command.
func (r Response) OK() bool { return r.Error == "success" }

// Event is pushed by mpv: player events and observed property changes.
type Event struct {
	Event     string          `json:"event"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
}

// Float decodes Data as a number. ok is false for null or non-numeric data.
func (e Event) Float() (v float64, ok bool) {
	if len(e.Data) == 0 {
		return 0, false
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return 0, false
	}
	return v, true
}

// Bool decodes Data as a boolean.
func (e Event) Bool() (v bool, ok bool) {
	if len(e.Data) == 0 {
		return false, false
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return false, false
	}
	return v, true
}

// Observed property names and their observer ids.
const (
	PropDuration   = "duration"
	PropTimePos    = "time-pos"
	PropPause      = "pause"
	PropVolume     = "volume"
	PropSpeed      = "speed"
	PropEOFReached = "eof-reached"
)

var observed = []string{PropDuration, PropTimePos, PropPause, PropVolume, PropSpeed, PropEOFReached}

// Cmd builds a Command from a name and arguments.
func Cmd(name string, args ...any) Command {
	return Command{Command: append([]any{name}, args...)}
}
