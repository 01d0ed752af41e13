// Package export writes the transcript and summary to plain-text files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind selects what is exported.
type Kind string

const (
	Transcript Kind = "transcript"
	Summary    Kind = "summary"
)

// ErrNothingToExport is returned when the text is empty.
var ErrNothingToExport = errors.New("nothing to export")

// Error is a failed download.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the text shown to the user.
func (e *Error) Message() string {
	return fmt.Sprintf("Failed to download the %s. Please try again.", e.Kind)
}

// Filename returns meeting-<kind>-YYYY-MM-DD.txt for the UTC date of now.
func Filename(kind Kind, now time.Time) string {
	return fmt.Sprintf("meeting-%s-%s.txt", kind, now.UTC().Format(time.DateOnly))
}

// Write saves text under dir and returns the path written.
func Write(dir string, kind Kind, text string, now time.Time) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNothingToExport
	}
	if kind != Transcript && kind != Summary {
		return "", &Error{Kind: kind, Err: fmt.Errorf("unknown kind %q", string(kind))}
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Kind: kind, Err: err}
	}

	path := filepath.Join(dir, Filename(kind, now))
	tmp, err := os.CreateTemp(dir, ".notula-export-*")
	if err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", &Error{Kind: kind, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	return path, nil
}
