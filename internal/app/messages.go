package app

import (
	"github.com/jwulff/notula/internal/export"
	"github.com/jwulff/notula/internal/media"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/remote"
	"github.com/jwulff/notula/internal/session"
)

// PlayerEventMsg wraps an event reported by the playback element.
type PlayerEventMsg struct {
	Event player.Event
}

// PlayerEventsClosedMsg is sent when the element's event stream ends.
type PlayerEventsClosedMsg struct{}

// PlayerCommandResultMsg carries the error of a failed player command.
type PlayerCommandResultMsg struct {
	Err error
}

// FileOpenedMsg carries a file read from disk.
type FileOpenedMsg struct {
	File media.File
}

// FileOpenErrorMsg is sent when a file cannot be read or is not accepted.
type FileOpenErrorMsg struct {
	Path string
	Err  error
}

// SubmitResultMsg carries the response to an upload.
type SubmitResultMsg struct {
	Submission session.Submission
	Result     remote.Result
	Err        error
}

// ChatReplyMsg carries the assistant reply for the log identified by Epoch.
type ChatReplyMsg struct {
	Epoch int
	Reply string
}

// ExportDoneMsg carries the outcome of a download.
type ExportDoneMsg struct {
	Kind export.Kind
	Path string
	Err  error
}

// ClearNoticeMsg clears a transient notice after a timeout.
type ClearNoticeMsg struct {
	Seq int
}
