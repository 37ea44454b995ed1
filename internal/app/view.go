package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mindbot/monitor/internal/db"
	"github.com/mindbot/monitor/internal/monitor"
	"github.com/mindbot/monitor/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, m.theme.Divider.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderVitals())
	sections = append(sections, m.theme.Divider.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, m.theme.Divider.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("MINDBOT MONITOR")

	var session string
	if m.sessionID != "" {
		session = m.theme.Dim.Render(" — session " + shortID(m.sessionID))
	}

	var badge string
	switch m.risk {
	case monitor.RiskLow:
		badge = "  " + m.theme.RiskLow.Render("RISK LOW")
	case monitor.RiskMedium:
		badge = "  " + m.theme.RiskMedium.Render("RISK MEDIUM")
	case monitor.RiskCritical:
		badge = "  " + m.theme.RiskCritical.Render("RISK CRITICAL")
	}

	return title + session + badge
}

func (m Model) renderStatusBar() string {
	var dot string
	if m.booted {
		dot = m.theme.LiveBadge.Render("● " + m.statusText)
	} else {
		dot = m.theme.Dim.Render("○ " + m.statusText)
	}

	var updated string
	if !m.lastUpdated.IsZero() {
		updated = "  " + m.theme.Timestamp.Render(m.lastUpdated.Format("15:04:05"))
	}

	var busy string
	if m.busy {
		busy = "  " + m.theme.Spinner.Render("⟳ MindBot")
	}
	if m.sosInFlight {
		busy += "  " + m.theme.Danger.Render("⟳ SOS")
	}

	return dot + updated + busy
}

func (m Model) renderVitals() string {
	now := time.Now()

	pulse := m.renderField(fieldPulse, "PULSE", "bpm", now) + " " + m.renderPill(m.pulsePill)
	temp := m.renderField(fieldTemp, "TEMP", "°C", now) + " " + m.renderPill(m.tempPill)
	oxygen := m.renderField(fieldOxygen, "O₂", "%", now)
	air := m.renderField(fieldAir, "AIR", "ppm", now)

	lines := []string{
		pulse + "    " + temp,
		oxygen + "    " + air,
	}

	if points := m.buffer.Points(); len(points) > 0 {
		spark := m.theme.Spark.Render(ui.Sparkline(m.buffer.Values(), max(10, m.width-24)))
		span := m.theme.Timestamp.Render(fmt.Sprintf(" %s–%s", points[0].Label, points[len(points)-1].Label))
		lines = append(lines, spark+span)
	}

	if m.scoreText != "" {
		risk := "Risk: " + m.renderRiskText(m.scoreText)
		if m.recommend != "" {
			risk += m.theme.Dim.Render(" — " + m.recommend)
		}
		lines = append(lines, truncateToWidth(risk, m.width))
	}

	if m.emergency != nil {
		h := m.emergency
		label := "NEAREST HOSPITAL"
		if m.emergencyVia == "auto" {
			label = "AUTO EMERGENCY — NEAREST HOSPITAL"
		}
		line := m.theme.Danger.Render("⚠ "+label+": ") + fmt.Sprintf(
			"%s — %.2f km — ETA %d min — %s", h.Name, h.DistanceKM, h.ETAMinutes, h.Phone)
		lines = append(lines, truncateToWidth(line, m.width))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderField(field, label, unit string, now time.Time) string {
	an := m.anims[field]
	value := "—"
	if an != nil {
		value = an.Format(an.ValueAt(now))
	}
	return m.theme.Dim.Render(label+" ") + value + m.theme.Dim.Render(" "+unit)
}

func (m Model) renderPill(p monitor.Pill) string {
	if p.Label == "" {
		return ""
	}
	switch p.Severity {
	case monitor.SeverityWarn:
		return m.theme.Warn.Render("[" + p.Label + "]")
	case monitor.SeverityDanger:
		return m.theme.Danger.Render("[" + p.Label + "]")
	default:
		return m.theme.OK.Render("[" + p.Label + "]")
	}
}

func (m Model) renderRiskText(text string) string {
	switch m.risk {
	case monitor.RiskMedium:
		return m.theme.RiskMedium.Render(text)
	case monitor.RiskCritical:
		return m.theme.RiskCritical.Render(text)
	default:
		return m.theme.RiskLow.Render(text)
	}
}

func (m Model) renderMainContent() string {
	hospitalW := m.hospitalPanelWidth()
	chatW := m.chatPanelWidth()
	contentH := m.contentHeight()

	hospitalPanel := m.renderHospitalsPanel(hospitalW, contentH)
	chatPanel := m.renderChatPanel(chatW, contentH)

	divider := m.theme.Divider.Render("│")

	hospitalLines := strings.Split(hospitalPanel, "\n")
	chatLines := strings.Split(chatPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		var left, right string
		if i < len(hospitalLines) {
			left = hospitalLines[i]
		}
		if i < len(chatLines) {
			right = chatLines[i]
		}
		rows = append(rows, padRight(left, hospitalW)+divider+right)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderHospitalsPanel(width, height int) string {
	var header string
	title := fmt.Sprintf("HOSPITALS (%d)", len(m.hospitals))
	if m.focusedPanel == FocusHospitals {
		header = m.theme.PanelFocus.Render(title)
	} else {
		header = m.theme.PanelTitle.Render(title)
	}

	lines := []string{header}

	if len(m.hospitals) == 0 {
		lines = append(lines, m.theme.Dim.Render("  Loading catalog..."))
	} else {
		for i, h := range m.hospitals {
			var line string
			if i == m.selectedHospital && m.focusedPanel == FocusHospitals {
				line = m.theme.Selected.Render("> " + h.Name)
			} else {
				line = "  " + h.Name
			}
			lines = append(lines, truncateToWidth(line, width))
			if i == m.selectedHospital && h.Phone != "" {
				lines = append(lines, m.theme.Dim.Render(truncateToWidth("    "+h.Phone, width)))
			}
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChatPanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusChat {
		header = m.theme.PanelFocus.Render("ASSISTANT")
	} else {
		header = m.theme.PanelTitle.Render("ASSISTANT")
	}

	lines := []string{header}
	contentHeight := height - 2 // header and input line

	textWidth := max(10, width-14)
	var displayLines []string
	for i, entry := range m.chat {
		displayLines = append(displayLines, m.renderChatEntry(i, entry, textWidth)...)
	}
	if m.typing {
		displayLines = append(displayLines, m.theme.Typing.Render("MindBot is typing..."))
	}

	// Keep the newest lines visible.
	start := 0
	if len(displayLines) > contentHeight {
		start = len(displayLines) - contentHeight
	}
	for _, l := range displayLines[start:] {
		lines = append(lines, l)
	}

	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderInputLine(width))

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChatEntry(index int, entry ChatEntry, textWidth int) []string {
	ts := m.theme.Timestamp.Render(entry.Timestamp.Format("[15:04:05]"))

	text := entry.Text
	revealing := index == m.revealEntry && m.revealed >= 0
	if revealing {
		runes := []rune(text)
		if m.revealed < len(runes) {
			text = string(runes[:m.revealed]) + "▌"
		}
	}

	var prefix string
	var style lipgloss.Style
	if entry.Role == db.RoleUser {
		prefix = "You: "
		style = m.theme.UserMsg
	} else {
		prefix = "MindBot: "
		style = m.theme.AssistantMsg
	}

	wrapped := wrapText(text, textWidth)
	out := []string{ts + " " + style.Render(prefix+wrapped[0])}
	for _, wl := range wrapped[1:] {
		out = append(out, strings.Repeat(" ", 11)+style.Render(wl))
	}
	return out
}

func (m Model) renderInputLine(width int) string {
	if m.busy {
		return m.theme.Dim.Render("> input disabled while MindBot replies...")
	}
	cursor := ""
	if m.focusedPanel == FocusChat {
		cursor = "▌"
	}
	return truncateToWidth(m.theme.FooterKey.Render("> ")+m.input+cursor, width)
}

func (m Model) renderErrorBar() string {
	return m.theme.Error.Render("Error: ") + m.theme.ErrorText.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := m.theme.FooterKey
	dsc := m.theme.FooterDsc

	var parts []string
	parts = append(parts, key.Render("Enter")+dsc.Render(" Send"))
	parts = append(parts, key.Render("^S")+dsc.Render(" SOS"))
	parts = append(parts, key.Render("^R")+dsc.Render(" Report"))
	parts = append(parts, key.Render("^T")+dsc.Render(" Theme"))
	parts = append(parts, key.Render("Tab")+dsc.Render(" Focus"))
	if m.focusedPanel == FocusHospitals {
		parts = append(parts, key.Render("j/k")+dsc.Render(" Nav"))
		parts = append(parts, key.Render("q")+dsc.Render(" Quit"))
	} else {
		parts = append(parts, key.Render("^C")+dsc.Render(" Quit"))
	}

	return strings.Join(parts, "  ")
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 12
	}
	// Reserve: header(1) + status(1) + dividers(3) + vitals(5) +
	// error(1) + footer(1)
	return max(6, m.height-12)
}

func (m Model) hospitalPanelWidth() int {
	if m.width == 0 {
		return 28
	}
	return max(20, m.width*30/100)
}

func (m Model) chatPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.hospitalPanelWidth()-1)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
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
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
