package app

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwulff/notula/internal/chat"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/ui"
)

// chatLines is the height of the chat panel, input included.
const chatLines = 8

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderPlayer()...)
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.sess.ChatEnabled() {
		sections = append(sections, m.renderChat())
	}
	sections = append(sections, m.renderMessages()...)
	if m.focus == FocusPath {
		sections = append(sections, m.pathInput.View())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("NOTULA")
	if f, ok := m.sess.File(); ok {
		title += ui.DimStyle.Render(" — " + f.Name)
	}
	badge := m.styles.Badge.Render(m.styles.Theme.Name)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + badge
}

func (m Model) renderPlayer() []string {
	f, ok := m.sess.File()
	if !ok {
		return []string{ui.DimStyle.Render("○ No file. Press o to open an audio or text file.")}
	}
	if !f.IsAudio() {
		return []string{ui.DimStyle.Render("○ " + f.Name + " has no audio to play.")}
	}

	st := m.sess.Player().State()
	var dot string
	switch {
	case st.LoadFailed:
		dot = ui.ErrorStyle.Render("✕ ERROR")
	case !st.Ready:
		dot = ui.IdleDotStyle.Render("○ LOADING")
	case st.Playing:
		dot = ui.PlayingDotStyle.Render("● PLAYING")
	default:
		dot = ui.IdleDotStyle.Render("○ PAUSED")
	}

	clock := formatClock(st.CurrentTime) + " / " + formatDuration(st)
	volume := fmt.Sprintf("vol %d%%", int(math.Round(st.Volume*100)))
	if st.Muted {
		volume = "muted"
	}
	speed := fmt.Sprintf("%gx", st.Rate)

	status := dot + "  " + ui.StatusStyle.Render(clock) + "  " +
		m.styles.Accent.Render(volume) + "  " + m.styles.Accent.Render(speed)

	lines := []string{status, m.renderProgress(st, max(10, m.width-2))}
	if st.LastError != "" {
		lines = append(lines, ui.ErrorTextStyle.Render(st.LastError))
	}
	return lines
}

func (m Model) renderProgress(st player.State, width int) string {
	filled := 0
	if st.DurationKnown && st.Duration > 0 {
		filled = int(float64(width) * st.CurrentTime / st.Duration)
	}
	filled = max(0, min(width, filled))
	return m.styles.ProgressFull.Render(strings.Repeat("━", filled)) +
		ui.ProgressEmptyStyle.Render(strings.Repeat("─", width-filled))
}

func formatDuration(st player.State) string {
	if !st.DurationKnown {
		return "-:--"
	}
	return formatClock(st.Duration)
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (m Model) contentHeight() int {
	reserved := 1 + len(m.renderPlayer()) + 2 + 1 + len(m.renderMessages())
	if m.sess.ChatEnabled() {
		reserved += chatLines
	}
	if m.focus == FocusPath {
		reserved++
	}
	if m.height == 0 {
		return 20
	}
	return max(4, m.height-reserved)
}

func (m Model) renderContent() string {
	height := m.contentHeight()

	if _, ok := m.sess.Result(); !ok {
		var lines []string
		switch {
		case m.sess.Busy():
			lines = append(lines, m.spinner.View()+" Processing meeting...")
		case m.hasFile():
			lines = append(lines, ui.DimStyle.Render("Press s to transcribe and summarize."))
		default:
			lines = append(lines, ui.DimStyle.Render("Transcript and summary appear here."))
		}
		return strings.Join(padLines(lines, height, 0), "\n")
	}

	switch m.layout {
	case LayoutTranscript:
		return m.renderTextPanel("TRANSCRIPT (expanded)", m.sess.Transcript(), m.width, height, true)
	case LayoutSummary:
		return m.renderTextPanel("SUMMARY (expanded)", m.sess.Summary(), m.width, height, true)
	}

	leftW := max(20, (m.width-1)/2)
	rightW := max(20, m.width-leftW-1)
	left := strings.Split(m.renderTextPanel("TRANSCRIPT", m.sess.Transcript(), leftW, height, false), "\n")
	right := strings.Split(m.renderTextPanel("SUMMARY", m.sess.Summary(), rightW, height, false), "\n")

	divider := ui.DividerStyle.Render("│")
	rows := make([]string, height)
	for i := range rows {
		rows[i] = padRight(left[i], leftW) + divider + right[i]
	}
	return strings.Join(rows, "\n")
}

func (m Model) hasFile() bool {
	_, ok := m.sess.File()
	return ok
}

func (m Model) renderTextPanel(title, text string, width, height int, active bool) string {
	header := ui.PanelTitleStyle.Render(title)
	if active {
		header = m.styles.PanelTitleActive.Render(title)
	}
	if m.sess.Busy() {
		header += " " + m.spinner.View()
	}
	lines := []string{header}

	body := wrapText(text, max(10, width-2))
	visible := height - 1
	if active && len(body) > visible {
		start := max(0, min(m.scroll, len(body)-visible))
		body = body[start : start+visible]
	} else if len(body) > visible {
		body = append(body[:visible-1], ui.DimStyle.Render(fmt.Sprintf("… %d more lines, press e to expand or d/D to download", len(body)-visible+1)))
	}
	for _, l := range body {
		lines = append(lines, " "+ui.RenderFormatted(l, ui.TextStyle))
	}
	return strings.Join(padLines(lines, height, 0), "\n")
}

func (m Model) renderChat() string {
	header := ui.PanelTitleStyle.Render("CHAT")
	if m.focus == FocusChat {
		header = m.styles.PanelTitleActive.Render("CHAT")
	}

	width := max(10, m.width-12)
	var body []string
	for _, msg := range m.sess.Chat().Messages() {
		label := m.styles.UserLabel.Render("You")
		if msg.Role == chat.RoleAssistant {
			label = m.styles.AssistantLabel.Render("AI ")
		}
		ts := ui.TimestampStyle.Render(msg.CreatedAt.Format("15:04"))
		wrapped := wrapText(msg.Content, width)
		body = append(body, ts+" "+label+" "+ui.RenderFormatted(wrapped[0], ui.TextStyle))
		for _, wl := range wrapped[1:] {
			body = append(body, strings.Repeat(" ", 10)+ui.RenderFormatted(wl, ui.TextStyle))
		}
	}
	if m.sess.Chat().Thinking() {
		body = append(body, m.spinner.View()+ui.DimStyle.Render(" thinking..."))
	}
	if len(body) == 0 {
		body = append(body, ui.DimStyle.Render("Ask a question about the transcript. Press Tab to type."))
	}

	// Keep the latest messages in view.
	visible := chatLines - 2
	if len(body) > visible {
		body = body[len(body)-visible:]
	}
	lines := append([]string{header}, padLines(body, visible, 0)...)
	lines = append(lines, m.chatInput.View())
	return strings.Join(lines, "\n")
}

func (m Model) renderMessages() []string {
	var lines []string
	if e := m.sess.Error(); e != "" {
		lines = append(lines, ui.ErrorStyle.Render("Error: ")+ui.ErrorTextStyle.Render(e)+ui.DimStyle.Render("  (esc to dismiss)"))
	}
	if m.exportErr != "" {
		lines = append(lines, ui.ErrorTextStyle.Render(m.exportErr))
	}
	if m.notice != "" {
		lines = append(lines, m.styles.Accent.Render(m.notice))
	}
	return lines
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return m.styles.FooterKey.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	switch m.focus {
	case FocusChat:
		parts = append(parts, key("Enter", "Send"), key("Esc", "Back"))
	case FocusPath:
		parts = append(parts, key("Enter", "Open"), key("Esc", "Back"))
	default:
		parts = append(parts, key("o", "Open"))
		if m.sess.Player().State().Ready {
			parts = append(parts,
				key("Space", "Play"),
				key("←→", "Seek"),
				key("+/-", "Vol"),
				key("m", "Mute"),
				key("[ ]", "Speed"),
			)
		}
		if m.hasFile() && !m.sess.Busy() {
			parts = append(parts, key("s", "Submit"))
		}
		if m.sess.ChatEnabled() {
			parts = append(parts, key("Tab", "Chat"), key("e", "Expand"), key("d/D", "Download"))
		}
		if m.hasFile() {
			parts = append(parts, key("x", "Cancel"))
		}
		parts = append(parts, key("t", "Theme"), key("q", "Quit"))
	}

	return strings.Join(parts, "  ")
}

// Helpers

func padLines(lines []string, height, width int) []string {
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// expandHome expands a leading ~ in a typed path.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
