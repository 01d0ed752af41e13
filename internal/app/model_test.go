package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/jwulff/notula/internal/media"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/player/headless"
	"github.com/jwulff/notula/internal/prefs"
	"github.com/jwulff/notula/internal/remote"
	"github.com/jwulff/notula/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	meetingFile = media.File{Name: "meeting.mp3", MediaType: "audio/mpeg", Data: []byte("ID3")}
	notesFile   = media.File{Name: "notes.txt", MediaType: "text/plain", Data: []byte("notes")}
	testNow     = time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC)
)

type fakeRemote struct {
	result   remote.Result
	err      error
	submits  int
	messages []string
}

func (r *fakeRemote) Submit(ctx context.Context, f media.File) (remote.Result, error) {
	r.submits++
	return r.result, r.err
}

func (r *fakeRemote) Reply(ctx context.Context, transcript, text string) string {
	r.messages = append(r.messages, text)
	return "reply to " + text
}

type fakePrefs struct {
	saved []prefs.Prefs
}

func (p *fakePrefs) Save(v prefs.Prefs) error {
	p.saved = append(p.saved, v)
	return nil
}

type harness struct {
	el     *headless.Element
	runner *player.Runner
	store  *media.TempStore
	remote *fakeRemote
	prefs  *fakePrefs
	dir    string
}

func newTestModel(t *testing.T, initial prefs.Prefs) (Model, *harness) {
	t.Helper()
	store, err := media.NewTempStore()
	if err != nil {
		t.Fatalf("temp store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	runner := player.NewRunner(time.Second)
	t.Cleanup(runner.Close)

	h := &harness{
		el:     headless.NewAuto(125.4),
		runner: runner,
		store:  store,
		remote: &fakeRemote{result: remote.Result{Transcript: "Budi: we ship Friday.", Summary: "**Decisions**: ship Friday"}},
		prefs:  &fakePrefs{},
		dir:    t.TempDir(),
	}
	ctrl := player.NewController(player.NewAdapter(h.el, player.InitialState()))
	m := New(Options{
		Session:     session.New(store, ctrl),
		Remote:      h.remote,
		Prefs:       h.prefs,
		Initial:     initial,
		DownloadDir: h.dir,
		Now:         func() time.Time { return testNow },
		Runner:      runner,
	})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, h
}

func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches. Only use it on commands that
// return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies every message cmd produces, skipping spinner ticks.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		m, _ = applyUpdate(m, msg)
	}
	return m
}

// settle waits for queued player commands, then applies their failures
// and every event the element reported.
func settle(m Model, h *harness) Model {
	h.runner.Wait()
	for {
		select {
		case err := <-h.runner.Results():
			m, _ = applyUpdate(m, PlayerCommandResultMsg{Err: err})
		case ev := <-h.el.Events():
			m, _ = applyUpdate(m, PlayerEventMsg{Event: ev})
		default:
			return m
		}
	}
}

func openFile(t *testing.T, m Model, h *harness, f media.File) Model {
	t.Helper()
	m, cmd := applyUpdate(m, FileOpenedMsg{File: f})
	m = feed(t, m, cmd)
	return settle(m, h)
}

func submitted(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := applyUpdate(m, key("s"))
	if !m.sess.Busy() {
		t.Fatal("expected busy after submit")
	}
	return feed(t, m, cmd)
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})

	st := m.sess.Player().State()
	if st.Volume != 1 || st.Rate != 1 || st.Muted {
		t.Errorf("player state = %+v, want defaults", st)
	}
	if m.styles.Theme.Name != "Teal & Orange" {
		t.Errorf("theme = %q", m.styles.Theme.Name)
	}
	if m.focus != FocusNone || m.layout != LayoutCompact {
		t.Error("new model should have no focus and compact layout")
	}
}

func TestNewModelAppliesPrefs(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{Volume: 0.4, Rate: 1.5, Muted: true, Theme: "Green & Pink"})

	st := m.sess.Player().State()
	if st.Volume != 0 || st.Rate != 1.5 || !st.Muted {
		t.Errorf("player state = %+v", st)
	}
	if got := m.sess.Player().RestoreVolume(); got != 0.4 {
		t.Errorf("restore volume = %v, want 0.4", got)
	}
	if m.styles.Theme.Name != "Green & Pink" {
		t.Errorf("theme = %q", m.styles.Theme.Name)
	}
}

func TestOpenAudioAndPlay(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)

	st := m.sess.Player().State()
	if !st.Ready || !st.DurationKnown || st.Duration != 125.4 {
		t.Fatalf("state after load = %+v", st)
	}
	if h.store.Live() != 1 {
		t.Errorf("live urls = %d, want 1", h.store.Live())
	}

	m, cmd := applyUpdate(m, key(" "))
	m = feed(t, m, cmd)
	m = settle(m, h)
	if !m.sess.Player().State().Playing {
		t.Error("expected playing after space")
	}

	m, cmd = applyUpdate(m, key("right"))
	m = feed(t, m, cmd)
	m = settle(m, h)
	if got := m.sess.Player().State().CurrentTime; got != 5 {
		t.Errorf("currentTime after seek = %v, want 5", got)
	}

	view := m.View()
	if !strings.Contains(view, "PLAYING") || !strings.Contains(view, "0:05 / 2:05") {
		t.Errorf("view missing player status:\n%s", view)
	}
}

func TestPlayRejectedShowsInlineError(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)
	h.el.RejectNextPlay(nil)

	m, cmd := applyUpdate(m, key(" "))
	m = feed(t, m, cmd)
	m = settle(m, h)

	st := m.sess.Player().State()
	if st.Playing {
		t.Error("rejected play should leave playing false")
	}
	if st.LastError != player.MsgPlayFailed {
		t.Errorf("LastError = %q", st.LastError)
	}
	if !st.Ready {
		t.Error("rejected play should not disable the file")
	}
}

func TestTextFileSkipsPlayback(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)

	if h.store.Live() != 0 {
		t.Errorf("text file should not get a url, live = %d", h.store.Live())
	}
	if m.sess.Player().State().Ready {
		t.Error("text file should not make the player ready")
	}
	if cmd := m.sess.Player().TogglePlayPause(); cmd != nil {
		t.Error("play should be inert without audio")
	}
}

func TestSubmitFlow(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)

	m, cmd := applyUpdate(m, key("s"))
	if !m.sess.Busy() {
		t.Fatal("expected busy")
	}
	if _, second := applyUpdate(m, key("s")); second != nil {
		t.Error("second submit while busy should be ignored")
	}
	if !strings.Contains(m.View(), "Processing meeting") {
		t.Error("view should show processing")
	}

	m = feed(t, m, cmd)
	if m.sess.Busy() {
		t.Error("busy should clear after the result")
	}
	if h.remote.submits != 1 {
		t.Errorf("submits = %d, want 1", h.remote.submits)
	}
	if m.sess.Transcript() != "Budi: we ship Friday." {
		t.Errorf("transcript = %q", m.sess.Transcript())
	}
	view := m.View()
	if !strings.Contains(view, "TRANSCRIPT") || !strings.Contains(view, "Decisions") {
		t.Errorf("view missing results:\n%s", view)
	}
	if strings.Contains(view, "**Decisions**") {
		t.Error("emphasis markers should not be rendered")
	}
}

func TestSubmitFailureKeepsResultsAndBanner(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)
	m = submitted(t, m)

	h.remote.err = remote.ErrProcessingFailed
	m = submitted(t, m)

	if m.sess.Error() != session.MsgProcessingFailed {
		t.Errorf("banner = %q", m.sess.Error())
	}
	if m.sess.Transcript() == "" {
		t.Error("prior transcript should be kept")
	}
	if !strings.Contains(m.View(), session.MsgProcessingFailed) {
		t.Error("banner should be visible")
	}

	m, _ = applyUpdate(m, key("esc"))
	if m.sess.Error() != "" {
		t.Error("esc should dismiss the banner")
	}
}

func TestChatFlow(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)

	m, _ = applyUpdate(m, key("tab"))
	if m.focus == FocusChat {
		t.Fatal("chat should stay disabled without a transcript")
	}

	m = submitted(t, m)
	m, _ = applyUpdate(m, key("tab"))
	if m.focus != FocusChat {
		t.Fatal("tab should focus chat")
	}

	// Blank input is ignored.
	m.chatInput.SetValue("   ")
	if _, cmd := applyUpdate(m, key("enter")); cmd != nil {
		t.Error("blank message should not be sent")
	}

	m.chatInput.SetValue("What was decided?")
	m, cmd := applyUpdate(m, key("enter"))
	c := m.sess.Chat()
	if c.Len() != 1 || !c.Thinking() {
		t.Fatalf("after send: len=%d thinking=%v", c.Len(), c.Thinking())
	}
	if m.chatInput.Value() != "" {
		t.Error("input should be cleared after send")
	}

	m = feed(t, m, cmd)
	msgs := m.sess.Chat().Messages()
	if len(msgs) != 2 || msgs[1].Content != "reply to What was decided?" {
		t.Fatalf("messages = %+v", msgs)
	}
	if m.sess.Chat().Thinking() {
		t.Error("thinking should clear after the reply")
	}

	// Typed keys go to the input, not the player.
	m, _ = applyUpdate(m, key("q"))
	if m.chatInput.Value() != "q" {
		t.Errorf("input = %q, want q", m.chatInput.Value())
	}
	m, _ = applyUpdate(m, key("esc"))
	if m.focus != FocusNone {
		t.Error("esc should leave the input")
	}
}

func TestReplyAfterCancelIsDropped(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)
	m = submitted(t, m)
	m, _ = applyUpdate(m, key("tab"))
	m.chatInput.SetValue("hello")
	m, cmd := applyUpdate(m, key("enter"))

	m, _ = applyUpdate(m, key("esc"))
	m, _ = applyUpdate(m, key("x"))
	m = feed(t, m, cmd)

	if n := m.sess.Chat().Len(); n != 0 {
		t.Errorf("chat len = %d after cancel, want 0", n)
	}
}

func TestCancelReturnsToInitialState(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)
	m = submitted(t, m)
	m, _ = applyUpdate(m, key("e"))

	m, cmd := applyUpdate(m, key("x"))
	m = feed(t, m, cmd)
	m = settle(m, h)

	if _, ok := m.sess.File(); ok {
		t.Error("file should be cleared")
	}
	if m.sess.Transcript() != "" || m.sess.Summary() != "" {
		t.Error("results should be cleared")
	}
	if h.store.Live() != 0 {
		t.Errorf("live urls = %d, want 0", h.store.Live())
	}
	st := m.sess.Player().State()
	if st.Ready || st.Playing || st.CurrentTime != 0 {
		t.Errorf("player state = %+v", st)
	}
	if m.layout != LayoutCompact {
		t.Error("layout should reset")
	}
}

func TestCancelRightAfterOpenStaysInitial(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m, _ = applyUpdate(m, FileOpenedMsg{File: meetingFile})
	loadGen := m.sess.Player().Generation()
	m, _ = applyUpdate(m, key("x"))
	m = settle(m, h)

	var ops []string
	for _, c := range h.el.Calls() {
		ops = append(ops, c.Op)
	}
	want := []string{player.OpLoad, player.OpVolume, player.OpRate, player.OpUnload}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Errorf("element calls = %v, want %v", ops, want)
	}

	// A late failure of the cancelled load and the element's error for the
	// revoked source leave the cancelled session alone.
	m, _ = applyUpdate(m, PlayerCommandResultMsg{Err: &player.CommandError{Op: player.OpLoad, Gen: loadGen, Err: player.ErrMediaLoad}})
	m, _ = applyUpdate(m, PlayerEventMsg{Event: player.Event{Kind: player.EventError, Err: player.ErrMediaLoad}})

	st := m.sess.Player().State()
	if st.Ready || st.LoadFailed || st.LastError != "" {
		t.Errorf("player state = %+v, want initial", st)
	}
	if _, ok := m.sess.File(); ok {
		t.Error("file should be cleared")
	}
	if strings.Contains(m.View(), player.MsgLoadFailed) {
		t.Error("view should not show a load error after cancel")
	}
}

func TestStaleFailureDoesNotReachNextFile(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)
	first := m.sess.Player().Generation()
	m = openFile(t, m, h, media.File{Name: "standup.wav", MediaType: "audio/wav", Data: []byte("RIFF")})

	m, _ = applyUpdate(m, PlayerCommandResultMsg{Err: &player.CommandError{Op: player.OpPlay, Gen: first, Err: errors.New("late")}})

	st := m.sess.Player().State()
	if !st.Ready || st.LastError != "" {
		t.Errorf("player state = %+v, want second file ready without error", st)
	}
}

func TestDoubleSpaceSendsOnePlay(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)
	h.el.HoldPlay()

	m, _ = applyUpdate(m, key(" "))
	m, _ = applyUpdate(m, key(" "))

	deadline := time.Now().Add(2 * time.Second)
	for h.el.CallCount(player.OpPlay) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	h.el.Confirm()
	m = settle(m, h)

	if n := h.el.CallCount(player.OpPlay); n != 1 {
		t.Errorf("play calls = %d, want 1", n)
	}
	st := m.sess.Player().State()
	if !st.Playing || st.LastError != "" {
		t.Errorf("player state = %+v, want playing", st)
	}

	m, _ = applyUpdate(m, key(" "))
	m = settle(m, h)
	if m.sess.Player().State().Playing {
		t.Error("space after confirmation should pause")
	}
}

func TestMutedVolumeSurvivesRestart(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	for _, k := range []string{"-", "-", "m"} {
		var cmd tea.Cmd
		m, cmd = applyUpdate(m, key(k))
		m = feed(t, m, cmd)
	}

	if len(h.prefs.saved) == 0 {
		t.Fatal("expected saved prefs")
	}
	saved := h.prefs.saved[len(h.prefs.saved)-1]
	if !saved.Muted || saved.Volume < 0.79 || saved.Volume > 0.81 {
		t.Fatalf("saved prefs = %+v, want muted with volume 0.8", saved)
	}

	restarted, _ := newTestModel(t, saved)
	restarted, _ = applyUpdate(restarted, key("m"))
	st := restarted.sess.Player().State()
	if st.Muted || st.Volume < 0.79 || st.Volume > 0.81 {
		t.Errorf("after unmute: %+v, want volume 0.8", st)
	}
}

func TestCancelDuringSubmitIgnoresResult(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)

	m, cmd := applyUpdate(m, key("s"))
	m, _ = applyUpdate(m, key("x"))
	m = feed(t, m, cmd)

	if _, ok := m.sess.Result(); ok {
		t.Error("result of a cancelled submission should be ignored")
	}
	if m.sess.Busy() {
		t.Error("cancel should clear busy")
	}
}

func TestExportDownloads(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, notesFile)

	// Nothing to export yet: silent.
	m, cmd := applyUpdate(m, key("d"))
	m = feed(t, m, cmd)
	if m.exportErr != "" || m.notice != "" {
		t.Errorf("empty export should be silent: err=%q notice=%q", m.exportErr, m.notice)
	}

	m = submitted(t, m)
	m, cmd = applyUpdate(m, key("D"))
	for _, msg := range collect(cmd) {
		m, _ = applyUpdate(m, msg)
	}

	path := filepath.Join(h.dir, "meeting-summary-2024-03-07.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "**Decisions**: ship Friday" {
		t.Errorf("summary file = %q", data)
	}
	if !strings.Contains(m.notice, path) {
		t.Errorf("notice = %q", m.notice)
	}

	m, _ = applyUpdate(m, ClearNoticeMsg{Seq: m.noticeSeq})
	if m.notice != "" {
		t.Error("notice should clear")
	}
}

func TestExportFailureShowsInlineError(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	blocker := filepath.Join(h.dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	m.downloadDir = filepath.Join(blocker, "out")
	m = openFile(t, m, h, notesFile)
	m = submitted(t, m)

	m, cmd := applyUpdate(m, key("D"))
	m = feed(t, m, cmd)

	if m.exportErr != "Failed to download the summary. Please try again." {
		t.Errorf("exportErr = %q", m.exportErr)
	}
}

func TestVolumeAndThemePersist(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})

	m, cmd := applyUpdate(m, key("-"))
	m = feed(t, m, cmd)
	if got := m.sess.Player().State().Volume; got < 0.89 || got > 0.91 {
		t.Errorf("volume = %v, want 0.9", got)
	}

	m, cmd = applyUpdate(m, key("t"))
	m = feed(t, m, cmd)
	if m.styles.Theme.Name != "Blue & Purple" {
		t.Errorf("theme = %q", m.styles.Theme.Name)
	}

	if len(h.prefs.saved) != 2 {
		t.Fatalf("saves = %d, want 2", len(h.prefs.saved))
	}
	last := h.prefs.saved[1]
	if last.Theme != "Blue & Purple" || last.Volume != m.sess.Player().State().Volume {
		t.Errorf("saved prefs = %+v", last)
	}

	// Reset without a source changes nothing, so nothing is saved.
	m, cmd = applyUpdate(m, key("0"))
	feed(t, m, cmd)
	if len(h.prefs.saved) != 2 {
		t.Errorf("saves = %d after no-op, want 2", len(h.prefs.saved))
	}
}

func TestSpeedKeys(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	m = openFile(t, m, h, meetingFile)

	m, cmd := applyUpdate(m, key("]"))
	m = feed(t, m, cmd)
	m = settle(m, h)
	if got := m.sess.Player().State().Rate; got != 1.25 {
		t.Errorf("rate = %v, want 1.25", got)
	}
	m, cmd = applyUpdate(m, key("["))
	m = feed(t, m, cmd)
	m = settle(m, h)
	m, cmd = applyUpdate(m, key("["))
	m = feed(t, m, cmd)
	m = settle(m, h)
	if got := m.sess.Player().State().Rate; got != 0.5 {
		t.Errorf("rate = %v, want 0.5", got)
	}
}

func TestFileOpenErrors(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})

	m, _ = applyUpdate(m, FileOpenErrorMsg{Path: "slides.pdf", Err: media.ErrUnsupported})
	if !strings.Contains(m.sess.Error(), "Unsupported file") {
		t.Errorf("banner = %q", m.sess.Error())
	}

	m, _ = applyUpdate(m, FileOpenErrorMsg{Path: "/missing.mp3", Err: errors.New("no such file")})
	if !strings.Contains(m.sess.Error(), "/missing.mp3") {
		t.Errorf("banner = %q", m.sess.Error())
	}
}

func TestOpenPrompt(t *testing.T) {
	m, h := newTestModel(t, prefs.Prefs{})
	path := filepath.Join(h.dir, "standup.txt")
	if err := os.WriteFile(path, []byte("notes"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, _ = applyUpdate(m, key("o"))
	if m.focus != FocusPath {
		t.Fatal("o should open the path prompt")
	}
	m.pathInput.SetValue(path)
	m, cmd := applyUpdate(m, key("enter"))
	if m.focus != FocusNone {
		t.Error("enter should close the prompt")
	}
	m = feed(t, m, cmd)

	f, ok := m.sess.File()
	if !ok || f.Name != "standup.txt" {
		t.Errorf("file = %+v, %v", f, ok)
	}
}

func TestLayoutCycle(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})
	want := []Layout{LayoutTranscript, LayoutSummary, LayoutCompact}
	for _, w := range want {
		m, _ = applyUpdate(m, key("e"))
		if m.layout != w {
			t.Errorf("layout = %v, want %v", m.layout, w)
		}
	}
}

func TestPlayerEventsClosed(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})
	m, cmd := applyUpdate(m, PlayerEventsClosedMsg{})
	if cmd != nil {
		t.Error("closed stream should not be re-armed")
	}
	if !m.eventsClosed {
		t.Error("eventsClosed should be set")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})
	_, cmd := applyUpdate(m, key("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m, _ := newTestModel(t, prefs.Prefs{})
	m.width = 0
	if m.View() != "Initializing..." {
		t.Error("view should wait for a window size")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{125.4, "2:05"},
		{3600, "60:00"},
		{-1, "0:00"},
	}
	for _, tc := range tests {
		if got := formatClock(tc.in); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
