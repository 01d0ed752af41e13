package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"

	"github.com/jwulff/notula/internal/export"
	"github.com/jwulff/notula/internal/logging"
	"github.com/jwulff/notula/internal/media"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/prefs"
	"github.com/jwulff/notula/internal/remote"
	"github.com/jwulff/notula/internal/session"
	"github.com/jwulff/notula/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// PlayerCommandTimeout bounds a single element command.
const PlayerCommandTimeout = 10 * time.Second

// noticeTTL is how long a transient notice stays on screen.
const noticeTTL = 4 * time.Second

// Focus tracks which input has keyboard focus.
type Focus int

const (
	FocusNone Focus = iota
	FocusChat
	FocusPath
)

// Layout selects how transcript and summary are shown.
type Layout int

const (
	LayoutCompact Layout = iota
	LayoutTranscript
	LayoutSummary
)

func (l Layout) next() Layout {
	return (l + 1) % 3
}

// Remote is the processing backend.
type Remote interface {
	Submit(ctx context.Context, f media.File) (remote.Result, error)
	Reply(ctx context.Context, transcript, text string) string
}

// PrefsSaver persists interface preferences.
type PrefsSaver interface {
	Save(p prefs.Prefs) error
}

// Options configure a Model.
type Options struct {
	Session     *session.Session
	Remote      Remote
	Prefs       PrefsSaver // optional
	Initial     prefs.Prefs
	Theme       ui.Theme
	DownloadDir string
	// InitialPath is opened on start when set.
	InitialPath string
	// Open reads a file from disk. Defaults to media.Open.
	Open func(path string) (media.File, error)
	Now  func() time.Time
	// Runner executes player commands in order. New starts one when nil;
	// the caller owns its Close either way.
	Runner *player.Runner
}

// Model is the root bubbletea model for the notula TUI.
type Model struct {
	sess        *session.Session
	remote      Remote
	prefs       PrefsSaver
	saved       prefs.Prefs
	downloadDir string
	initialPath string
	open        func(string) (media.File, error)
	now         func() time.Time
	events      <-chan player.Event
	runner      *player.Runner
	log         zerolog.Logger

	cancelSubmit context.CancelFunc
	eventsClosed bool

	// UI state
	styles    ui.Styles
	focus     Focus
	layout    Layout
	scroll    int
	chatInput textinput.Model
	pathInput textinput.Model
	spinner   spinner.Model
	width     int
	height    int

	// Inline messages
	exportErr string
	notice    string
	noticeSeq int
}

// New creates a Model. Stored preferences are applied to the player before
// anything is loaded.
func New(opts Options) Model {
	if opts.Open == nil {
		opts.Open = media.Open
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme.Name == "" {
		opts.Theme = ui.DefaultTheme()
	}
	if opts.Initial == (prefs.Prefs{}) {
		opts.Initial = prefs.Defaults()
	}
	if opts.Runner == nil {
		opts.Runner = player.NewRunner(PlayerCommandTimeout)
	}

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about this meeting..."
	chatInput.Prompt = "› "
	chatInput.CharLimit = 2000

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/meeting.mp3"
	pathInput.Prompt = "Open: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		sess:        opts.Session,
		remote:      opts.Remote,
		prefs:       opts.Prefs,
		downloadDir: opts.DownloadDir,
		initialPath: opts.InitialPath,
		open:        opts.Open,
		now:         opts.Now,
		events:      opts.Session.Player().Adapter().Events(),
		runner:      opts.Runner,
		log:         logging.WithComponent("app"),
		styles:      ui.NewStyles(opts.Theme),
		chatInput:   chatInput,
		pathInput:   pathInput,
		spinner:     sp,
	}
	m.spinner.Style = m.styles.Spinner
	m.applyPrefs(opts.Initial)
	m.saved = m.currentPrefs()
	return m
}

func (m *Model) applyPrefs(p prefs.Prefs) {
	ctrl := m.sess.Player()
	if p.Volume >= 0 && p.Volume <= 1 {
		ctrl.SetVolume(p.Volume)
	}
	if p.Muted && !ctrl.State().Muted {
		ctrl.ToggleMute()
	}
	if p.Rate > 0 {
		if _, err := ctrl.SetRate(p.Rate); err != nil {
			m.log.Warn().Float64("rate", p.Rate).Msg("ignoring stored playback rate")
		}
	}
	if t, ok := ui.ThemeByName(p.Theme); ok {
		m.setTheme(t)
	}
}

func (m *Model) setTheme(t ui.Theme) {
	m.styles = ui.NewStyles(t)
	m.spinner.Style = m.styles.Spinner
}

// currentPrefs snapshots the persisted settings. A muted player saves the
// volume it would restore, not the effective zero.
func (m Model) currentPrefs() prefs.Prefs {
	ctrl := m.sess.Player()
	st := ctrl.State()
	return prefs.Prefs{
		Volume: ctrl.RestoreVolume(),
		Muted:  st.Muted,
		Rate:   st.Rate,
		Theme:  m.styles.Theme.Name,
	}
}

// Init starts the player event and result pumps and opens the initial file,
// if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{readPlayerEventCmd(m.events), readPlayerResultCmd(m.runner.Results())}
	if m.initialPath != "" {
		cmds = append(cmds, openFileCmd(m.open, m.initialPath))
	}
	return tea.Batch(cmds...)
}

// readPlayerEventCmd reads the next event from the playback element.
func readPlayerEventCmd(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return PlayerEventsClosedMsg{}
		}
		return PlayerEventMsg{Event: ev}
	}
}

// readPlayerResultCmd waits for the next failed player command.
func readPlayerResultCmd(results <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-results
		if !ok {
			return nil
		}
		return PlayerCommandResultMsg{Err: err}
	}
}

// run queues a controller command. Commands reach the element in the order
// they were issued.
func (m Model) run(cmd player.Command) {
	m.runner.Enqueue(cmd)
}

// openFileCmd reads path from disk.
func openFileCmd(open func(string) (media.File, error), path string) tea.Cmd {
	return func() tea.Msg {
		f, err := open(path)
		if err != nil {
			return FileOpenErrorMsg{Path: path, Err: err}
		}
		return FileOpenedMsg{File: f}
	}
}

// submitCmd uploads the file for transcription.
func submitCmd(ctx context.Context, r Remote, sub session.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Submit(ctx, sub.File)
		return SubmitResultMsg{Submission: sub, Result: res, Err: err}
	}
}

// chatCmd asks the remote for a reply. Reply never fails.
func chatCmd(r Remote, epoch int, transcript, text string) tea.Cmd {
	return func() tea.Msg {
		return ChatReplyMsg{Epoch: epoch, Reply: r.Reply(context.Background(), transcript, text)}
	}
}

// exportCmd writes text to the download directory.
func exportCmd(dir string, kind export.Kind, text string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := export.Write(dir, kind, text, now)
		return ExportDoneMsg{Kind: kind, Path: path, Err: err}
	}
}

// savePrefsCmd persists p. Failures are logged only.
func savePrefsCmd(store PrefsSaver, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		if err := store.Save(p); err != nil {
			log := logging.WithComponent("app")
			log.Warn().Err(err).Msg("save preferences failed")
		}
		return nil
	}
}

// clearNoticeCmd fires after a delay to clear the notice with this seq.
func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatInput.Width = max(10, msg.Width-6)
		m.pathInput.Width = max(10, msg.Width-10)
		return m, nil

	case PlayerEventMsg:
		m.sess.Player().HandleEvent(msg.Event)
		return m, readPlayerEventCmd(m.events)

	case PlayerEventsClosedMsg:
		m.eventsClosed = true
		m.log.Warn().Msg("player event stream closed")
		return m, nil

	case PlayerCommandResultMsg:
		if msg.Err != nil {
			if m.sess.Player().Failed(msg.Err) {
				m.log.Warn().Err(msg.Err).Msg("player command failed")
			} else {
				m.log.Debug().Err(msg.Err).Msg("ignoring failure from a previous source")
			}
		}
		return m, readPlayerResultCmd(m.runner.Results())

	case FileOpenedMsg:
		m.exportErr = ""
		cmd, err := m.sess.SelectFile(msg.File)
		if err != nil {
			m.log.Error().Err(err).Str("file", msg.File.Name).Msg("derive media url")
		}
		m.run(cmd)
		return m, nil

	case FileOpenErrorMsg:
		m.log.Warn().Err(msg.Err).Str("path", msg.Path).Msg("open file failed")
		if errors.Is(msg.Err, media.ErrUnsupported) {
			m.sess.SetError("Unsupported file. Choose an audio, .mp3, .wav or .txt file.")
		} else {
			m.sess.SetError(fmt.Sprintf("Unable to open %s.", msg.Path))
		}
		return m, nil

	case SubmitResultMsg:
		m.sess.FinishSubmit(msg.Submission, msg.Result, msg.Err)
		if !m.sess.Busy() {
			m.cancelSubmit = nil
			m.scroll = 0
		}
		return m, nil

	case ChatReplyMsg:
		c := m.sess.Chat()
		if msg.Epoch != c.Epoch() || !c.Thinking() {
			m.log.Debug().Msg("dropping reply for a cleared chat")
			return m, nil
		}
		c.Finish(msg.Reply)
		return m, nil

	case ExportDoneMsg:
		var de *export.Error
		switch {
		case msg.Err == nil:
			m.exportErr = ""
			cmd := m.showNotice("Saved " + msg.Path)
			return m, cmd
		case errors.Is(msg.Err, export.ErrNothingToExport):
		case errors.As(msg.Err, &de):
			m.log.Error().Err(msg.Err).Msg("export failed")
			m.exportErr = de.Message()
		default:
			m.exportErr = fmt.Sprintf("Failed to download the %s. Please try again.", msg.Kind)
		}
		return m, nil

	case ClearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sess.Busy() && !m.sess.Chat().Thinking() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case FocusChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case FocusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return cmd
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	return clearNoticeCmd(m.noticeSeq)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m.quit()
	}
	switch m.focus {
	case FocusChat:
		return m.handleChatKey(msg)
	case FocusPath:
		return m.handlePathKey(msg)
	}

	ctrl := m.sess.Player()
	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeyOpen:
		m.focus = FocusPath
		m.pathInput.Reset()
		cmd := m.pathInput.Focus()
		return m, cmd

	case KeySpace:
		m.run(ctrl.TogglePlayPause())
		return m, nil

	case KeyLeft:
		m.run(ctrl.SeekBy(-SeekStep))
		return m, nil

	case KeyRight:
		m.run(ctrl.SeekBy(SeekStep))
		return m, nil

	case KeyReset:
		m.run(ctrl.Reset())
		return m, nil

	case KeyVolumeUp, KeyVolumeUpAlt:
		return m.afterPrefsChange(ctrl.AdjustVolume(VolumeStep))

	case KeyVolumeDown:
		return m.afterPrefsChange(ctrl.AdjustVolume(-VolumeStep))

	case KeyMute:
		return m.afterPrefsChange(ctrl.ToggleMute())

	case KeySlower:
		return m.afterPrefsChange(ctrl.StepRate(-1))

	case KeyFaster:
		return m.afterPrefsChange(ctrl.StepRate(1))

	case KeySubmit:
		sub, ok := m.sess.BeginSubmit()
		if !ok {
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelSubmit = cancel
		return m, tea.Batch(submitCmd(ctx, m.remote, sub), m.spinner.Tick)

	case KeyTab:
		if !m.sess.ChatEnabled() {
			return m, nil
		}
		m.focus = FocusChat
		cmd := m.chatInput.Focus()
		return m, cmd

	case KeyEsc:
		m.sess.DismissError()
		m.exportErr = ""
		return m, nil

	case KeyCancel:
		return m.cancel()

	case KeyExpand:
		m.layout = m.layout.next()
		m.scroll = 0
		return m, nil

	case KeyUp, KeyK:
		if m.layout != LayoutCompact && m.scroll > 0 {
			m.scroll--
		}
		return m, nil

	case KeyDown, KeyJ:
		if m.layout != LayoutCompact {
			m.scroll++
		}
		return m, nil

	case KeyDownloadTx:
		return m, exportCmd(m.downloadDir, export.Transcript, m.sess.Transcript(), m.now())

	case KeyDownloadSum:
		return m, exportCmd(m.downloadDir, export.Summary, m.sess.Summary(), m.now())

	case KeyTheme:
		m.setTheme(ui.NextTheme(m.styles.Theme))
		cmd := m.persistPrefs()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc, KeyTab:
		m.focus = FocusNone
		m.chatInput.Blur()
		return m, nil

	case KeyEnter:
		text := m.chatInput.Value()
		c := m.sess.Chat()
		if _, ok := c.Begin(text, m.sess.ChatEnabled()); !ok {
			return m, nil
		}
		m.chatInput.Reset()
		return m, tea.Batch(
			chatCmd(m.remote, c.Epoch(), m.sess.Transcript(), strings.TrimSpace(text)),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.focus = FocusNone
		m.pathInput.Blur()
		return m, nil

	case KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		m.focus = FocusNone
		m.pathInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, openFileCmd(m.open, expandHome(path))
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	if m.cancelSubmit != nil {
		m.cancelSubmit()
		m.cancelSubmit = nil
	}
	cmd := m.sess.Cancel()
	m.layout = LayoutCompact
	m.scroll = 0
	m.exportErr = ""
	m.chatInput.Reset()
	m.run(cmd)
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelSubmit != nil {
		m.cancelSubmit()
		m.cancelSubmit = nil
	}
	return m, tea.Quit
}

// afterPrefsChange runs cmd and persists the preferences it changed.
func (m Model) afterPrefsChange(cmd player.Command) (tea.Model, tea.Cmd) {
	m.run(cmd)
	save := m.persistPrefs()
	return m, save
}

// persistPrefs saves preferences when they differ from what was last saved.
func (m *Model) persistPrefs() tea.Cmd {
	p := m.currentPrefs()
	if p == m.saved {
		return nil
	}
	m.saved = p
	if m.prefs == nil {
		return nil
	}
	return savePrefsCmd(m.prefs, p)
}
