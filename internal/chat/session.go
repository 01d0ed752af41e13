// Package chat keeps the conversation log scoped to the current transcript.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the log.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Replier produces the assistant reply for a user message. It must not fail;
// delivery errors become a fallback reply.
type Replier interface {
	Reply(ctx context.Context, transcript, text string) string
}

// Session is an append-only message log plus the thinking flag. It is not
// safe for concurrent use; the UI event loop owns it.
type Session struct {
	messages []Message
	thinking bool
	epoch    int
	now      func() time.Time
}

// NewSession returns an empty log.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Begin validates text and appends the user turn. It returns false, leaving
// the log untouched, for blank text, a missing transcript or while a reply
// is still pending.
func (s *Session) Begin(text string, hasTranscript bool) (Message, bool) {
	if strings.TrimSpace(text) == "" || !hasTranscript || s.thinking {
		return Message{}, false
	}
	m := s.append(RoleUser, text)
	s.thinking = true
	return m, true
}

// Finish appends the assistant turn and clears the thinking flag.
func (s *Session) Finish(reply string) Message {
	m := s.append(RoleAssistant, reply)
	s.thinking = false
	return m
}

// Post runs a whole exchange synchronously: user turn, reply, assistant
// turn. It reports whether text was accepted.
func (s *Session) Post(ctx context.Context, text, transcript string, r Replier) bool {
	if _, ok := s.Begin(text, transcript != ""); !ok {
		return false
	}
	defer func() { s.thinking = false }()
	s.Finish(r.Reply(ctx, transcript, text))
	return true
}

// Messages returns a copy of the log in order.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// Len returns the number of messages.
func (s *Session) Len() int { return len(s.messages) }

// Thinking reports whether a reply is pending.
func (s *Session) Thinking() bool { return s.thinking }

// Epoch identifies the current log. It changes on every Reset, so a reply
// produced for an earlier log can be recognized and dropped.
func (s *Session) Epoch() int { return s.epoch }

// Reset clears the log.
func (s *Session) Reset() {
	s.messages = nil
	s.thinking = false
	s.epoch++
}

func (s *Session) append(role Role, content string) Message {
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, m)
	return m
}
