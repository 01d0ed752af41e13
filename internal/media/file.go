// Package media holds the uploaded file and the temporary object URLs
// derived from it.
package media

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for files the picker does not accept.
var ErrUnsupported = errors.New("unsupported file type")

// Extensions accepted by the file picker besides any audio/* type.
var Extensions = []string{".mp3", ".wav", ".txt"}

// File is an uploaded blob with its declared media type and display name.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// IsAudio reports whether the file is wired into playback.
func (f File) IsAudio() bool {
	return strings.HasPrefix(f.MediaType, "audio/")
}

// Accept reports whether a file with this name and media type can be
// selected.
func Accept(name, mediaType string) bool {
	if strings.HasPrefix(mediaType, "audio/") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open reads path and infers its media type, first from the extension and
// then by sniffing the content.
func Open(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	mediaType := DetectType(name, data)
	if !Accept(name, mediaType) {
		return File{}, fmt.Errorf("%w: %s (%s)", ErrUnsupported, name, mediaType)
	}
	return File{Name: name, MediaType: mediaType, Data: data}, nil
}

// DetectType returns the media type for a file name and its content.
func DetectType(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		mt, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
