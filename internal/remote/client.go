// Package remote talks to the transcription and chat endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/notula/internal/logging"
	"github.com/jwulff/notula/internal/media"
)

// Default endpoints.
const (
	DefaultTranscribeURL = "https://notulensi-api.cml.apps.dataservice.kemenkeu.go.id/transcribe"
	DefaultChatURL       = "https://notulensi-api.cml.apps.dataservice.kemenkeu.go.id/chat"
	DefaultTimeout       = 120 * time.Second
)

// FallbackReply is logged as the assistant turn when a chat call fails.
const FallbackReply = "Sorry, I couldn't process your request. Please try again later."

var (
	// ErrProcessingFailed wraps every submit failure.
	ErrProcessingFailed = errors.New("processing failed")
	// ErrChatDeliveryFailed wraps every chat failure.
	ErrChatDeliveryFailed = errors.New("chat delivery failed")
	ErrEmptyMessage       = errors.New("empty message")
	ErrNoTranscript       = errors.New("no transcript")
)

// Result is the transcript and summary produced by one submission.
type Result struct {
	Transcript string
	Summary    string
}

type transcribeResponse struct {
	Transcription *string `json:"transcription"`
	Summary       *string `json:"summary"`
}

type chatRequest struct {
	Message    string `json:"message"`
	MaxHistory int    `json:"max_history"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

// Client performs the two remote calls.
type Client struct {
	TranscribeURL string
	ChatURL       string
	MaxHistory    int
	HTTP          *http.Client
	log           zerolog.Logger
}

// NewClient returns a client for the given endpoints. Empty values fall back
// to the defaults.
func NewClient(transcribeURL, chatURL string, timeout time.Duration) *Client {
	if transcribeURL == "" {
		transcribeURL = DefaultTranscribeURL
	}
	if chatURL == "" {
		chatURL = DefaultChatURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		TranscribeURL: transcribeURL,
		ChatURL:       chatURL,
		HTTP:          &http.Client{Timeout: timeout},
		log:           logging.WithComponent("remote"),
	}
}

// Submit uploads f as multipart field "file" and returns the transcript and
// summary.
func (c *Client) Submit(ctx context.Context, f media.File) (Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	mediaType := f.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return Result{}, fmt.Errorf("%w: create form file: %v", ErrProcessingFailed, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return Result{}, fmt.Errorf("%w: write form file: %v", ErrProcessingFailed, err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("%w: close form: %v", ErrProcessingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TranscribeURL, &buf)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	var out transcribeResponse
	if err := c.do(req, &out); err != nil {
		c.log.Error().Err(err).Str("file", f.Name).Msg("submit failed")
		return Result{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	if out.Transcription == nil || out.Summary == nil {
		return Result{}, fmt.Errorf("%w: response missing transcription or summary", ErrProcessingFailed)
	}
	c.log.Info().
		Str("file", f.Name).
		Int("bytes", len(f.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("file processed")
	return Result{Transcript: *out.Transcription, Summary: *out.Summary}, nil
}

// SendChatMessage posts text to the chat endpoint. A transcript must exist.
func (c *Client) SendChatMessage(ctx context.Context, transcript, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	if transcript == "" {
		return "", ErrNoTranscript
	}

	body, err := json.Marshal(chatRequest{Message: text, MaxHistory: c.MaxHistory})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatDeliveryFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out chatResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatDeliveryFailed, err)
	}
	if out.Response == nil {
		return "", fmt.Errorf("%w: response missing reply", ErrChatDeliveryFailed)
	}
	return *out.Response, nil
}

// Reply is SendChatMessage that never fails: errors become FallbackReply.
func (c *Client) Reply(ctx context.Context, transcript, text string) string {
	reply, err := c.SendChatMessage(ctx, transcript, text)
	if err != nil {
		c.log.Warn().Err(err).Msg("chat reply failed")
		return FallbackReply
	}
	return reply
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
