// Package session owns the selected file and everything derived from it:
// the object URL, playback, the transcription result and the chat log.
package session

import (
	"github.com/rs/zerolog"

	"github.com/jwulff/notula/internal/chat"
	"github.com/jwulff/notula/internal/logging"
	"github.com/jwulff/notula/internal/media"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/remote"
)

// MsgProcessingFailed is the banner shown when a submission fails.
const MsgProcessingFailed = "Failed to process the file. Please try again."

// Session is the state of one meeting. Only the UI event loop touches it.
type Session struct {
	urls     media.URLStore
	player   *player.Controller
	chat     *chat.Session
	log      zerolog.Logger
	file     *media.File
	url      string
	result   *remote.Result
	busy     bool
	seq      int
	errorMsg string
}

// Submission is one outstanding upload.
type Submission struct {
	File media.File
	id   int
}

// New returns an empty session.
func New(urls media.URLStore, ctrl *player.Controller) *Session {
	return &Session{
		urls:   urls,
		player: ctrl,
		chat:   chat.NewSession(),
		log:    logging.WithComponent("session"),
	}
}

// SelectFile replaces the current file. The previous URL is revoked before
// a new one is derived; only audio files get one.
func (s *Session) SelectFile(f media.File) (player.Command, error) {
	s.releaseURL()
	s.file = &f
	s.errorMsg = ""

	if !f.IsAudio() {
		s.log.Info().Str("file", f.Name).Str("type", f.MediaType).Msg("selected file without playback")
		return s.player.Load(""), nil
	}
	u, err := s.urls.Create(f)
	if err != nil {
		// Detach the previous source; the element must not keep playing it.
		cmd := s.player.Load("")
		s.player.CommandFailed(player.OpLoad, err)
		return cmd, err
	}
	s.url = u
	s.log.Info().Str("file", f.Name).Str("type", f.MediaType).Msg("selected file")
	return s.player.Load(u), nil
}

// Cancel tears everything down to the initial state and returns the command
// that unloads the element.
func (s *Session) Cancel() player.Command {
	cmd := s.player.Unload()
	s.releaseURL()
	s.file = nil
	s.result = nil
	s.chat.Reset()
	s.errorMsg = ""
	s.busy = false
	s.seq++
	return cmd
}

// Close releases the object URL unconditionally.
func (s *Session) Close() {
	s.releaseURL()
}

func (s *Session) releaseURL() {
	if s.url == "" {
		return
	}
	s.urls.Revoke(s.url)
	s.url = ""
}

// BeginSubmit marks a submission in flight. It returns false when there is
// no file or a submission is already outstanding.
func (s *Session) BeginSubmit() (Submission, bool) {
	if s.file == nil || s.busy {
		return Submission{}, false
	}
	s.busy = true
	s.seq++
	s.errorMsg = ""
	return Submission{File: *s.file, id: s.seq}, true
}

// FinishSubmit records the outcome of sub. On failure prior results stay in
// place so the user can retry. Outcomes of submissions dropped by Cancel
// are ignored.
func (s *Session) FinishSubmit(sub Submission, res remote.Result, err error) {
	if sub.id != s.seq || !s.busy {
		s.log.Debug().Int("submission", sub.id).Msg("ignoring stale submission")
		return
	}
	s.busy = false
	if err != nil {
		s.log.Error().Err(err).Str("file", sub.File.Name).Msg("submission failed")
		s.errorMsg = MsgProcessingFailed
		return
	}
	s.result = &res
	s.chat.Reset()
}

// File returns the selected file, if any.
func (s *Session) File() (media.File, bool) {
	if s.file == nil {
		return media.File{}, false
	}
	return *s.file, true
}

// URL returns the live object URL, if any.
func (s *Session) URL() string { return s.url }

// Result returns the current transcription result, if any.
func (s *Session) Result() (remote.Result, bool) {
	if s.result == nil {
		return remote.Result{}, false
	}
	return *s.result, true
}

// Transcript returns the current transcript or "".
func (s *Session) Transcript() string {
	if s.result == nil {
		return ""
	}
	return s.result.Transcript
}

// Summary returns the current summary or "".
func (s *Session) Summary() string {
	if s.result == nil {
		return ""
	}
	return s.result.Summary
}

// Busy reports whether a submission is outstanding.
func (s *Session) Busy() bool { return s.busy }

// ChatEnabled reports whether a transcript exists to chat about.
func (s *Session) ChatEnabled() bool { return s.Transcript() != "" }

// Chat returns the chat log.
func (s *Session) Chat() *chat.Session { return s.chat }

// Player returns the playback controller.
func (s *Session) Player() *player.Controller { return s.player }

// Error returns the banner message.
func (s *Session) Error() string { return s.errorMsg }

// SetError shows msg in the banner.
func (s *Session) SetError(msg string) { s.errorMsg = msg }

// DismissError clears the banner.
func (s *Session) DismissError() { s.errorMsg = "" }
