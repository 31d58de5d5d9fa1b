package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/avaedu/ava/internal/ui/theme"
)

func (c *ChatScreen) View(width, height int) string {
	if !c.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading conversation...")
	}

	statusLine := c.renderStatus(width)
	inputLine := c.renderInput(width)

	chromeHeight := lipgloss.Height(inputLine)
	if statusLine != "" {
		chromeHeight += lipgloss.Height(statusLine)
	}
	bodyHeight := height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := c.renderScrollback(width, bodyHeight)

	var b strings.Builder
	if statusLine != "" {
		b.WriteString(statusLine)
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(inputLine)
	return b.String()
}

// renderScrollback renders all turns and returns the window of lines that
// fits, honoring the scroll offset from the bottom.
func (c *ChatScreen) renderScrollback(width, height int) string {
	var blocks []string
	for _, turn := range c.turns {
		blocks = append(blocks, c.renderTurn(turn, width))
	}
	if c.waiting {
		blocks = append(blocks, c.renderTyping())
	}

	lines := strings.Split(strings.Join(blocks, "\n"), "\n")

	end := len(lines) - c.scroll
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	window := lines[start:end]
	for len(window) < height {
		window = append([]string{""}, window...)
	}
	return strings.Join(window, "\n")
}

func (c *ChatScreen) renderTurn(turn protocol.Turn, width int) string {
	textWidth := width - 8
	if textWidth < 10 {
		textWidth = 10
	}
	wrap := lipgloss.NewStyle().Width(textWidth)

	if turn.Sender == protocol.SenderUser {
		label := theme.StudentLabel.Render("  You  ")
		return label + "\n" + wrap.Foreground(theme.Text).Render(indent(turn.Text))
	}

	label := theme.TutorLabel.Render("  Ava  ")
	if turn.IsGamePrompt() {
		label += " " + theme.GameBadge.Render("GAME")
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(wrap.Foreground(theme.Text).Render(indent(turn.Text)))

	if turn.HasMistake() {
		m := turn.Mistake
		b.WriteString("\n")
		if m.Original != "" {
			b.WriteString(indent(theme.Flagged.Render("✗ " + m.Original)))
			b.WriteString("\n")
		}
		if m.Corrected != "" {
			b.WriteString(indent(theme.Corrected.Render("✓ " + m.Corrected)))
			b.WriteString("\n")
		}
		explanation := m.Explanation
		if c.showRU && m.ExplanationRU != "" {
			explanation = m.ExplanationRU
		}
		if explanation == "" {
			explanation = "(explanation unavailable)"
		}
		b.WriteString(wrap.Foreground(theme.TextDim).Italic(true).Render(indent(explanation)))
	}

	return b.String()
}

func (c *ChatScreen) renderTyping() string {
	return theme.TutorLabel.Render("  Ava  ") + "\n" +
		indent(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(spinnerFrames[c.frame]+" thinking..."))
}

func (c *ChatScreen) renderInput(width int) string {
	prompt := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  ❯ ")
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-2, 0))) +
		"\n" + prompt + c.input.View()
}

// renderStatus shows the grammar lesson bar. Empty outside grammar mode.
func (c *ChatScreen) renderStatus(width int) string {
	if c.controller.Mode() != transcript.ModeGrammar {
		return ""
	}
	state := c.controller.State()
	if state.LessonTopic == "" {
		return ""
	}

	parts := []string{
		fmt.Sprintf("Lesson: %s", state.LessonTopic),
		fmt.Sprintf("Practice: %d", state.PracticeTurnCount),
	}
	switch {
	case state.AwaitingGameAnswer():
		parts = append(parts, "Game in progress")
	case state.AwaitingRetry():
		parts = append(parts, "Try again")
	}

	return lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Secondary).
		Render("  " + strings.Join(parts, "  ·  "))
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
