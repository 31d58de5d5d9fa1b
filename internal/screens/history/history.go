package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/router"
	"github.com/avaedu/ava/internal/screen"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/avaedu/ava/internal/ui/layout"
	"github.com/avaedu/ava/internal/ui/theme"
)

const maxRecentRecords = 100

type historyLoadedMsg struct {
	Records []transcript.Record
	Err     error
}

// HistoryScreen shows the most recent messages across all modes.
type HistoryScreen struct {
	log      transcript.Log
	records  []transcript.Record
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(log transcript.Log) *HistoryScreen {
	return &HistoryScreen{
		log:      log,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var all []transcript.Record
		for _, mode := range transcript.AllModes {
			records, err := s.log.ReadAll(ctx, mode)
			if err != nil {
				return historyLoadedMsg{Err: err}
			}
			all = append(all, records...)
		}

		// Interleave modes by time, newest first.
		sortByCreatedAtDesc(all)
		if len(all) > maxRecentRecords {
			all = all[:maxRecentRecords]
		}
		return historyLoadedMsg{Records: all}
	}
}

func sortByCreatedAtDesc(records []transcript.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Expand"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No conversations yet. Start practicing!")
	}

	// Window around the selection so the list fits the screen.
	visible := (height - 2)
	if visible < 3 {
		visible = 3
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := start + visible
	if end > len(s.records) {
		end = len(s.records)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i := start; i < end; i++ {
		rec := s.records[i]

		who := "Ava"
		if rec.Sender == "user" {
			who = "You"
		}

		content := rec.Content
		if runes := []rune(content); !s.expanded[i] && len(runes) > 60 {
			content = string(runes[:57]) + "..."
		}
		content = strings.ReplaceAll(content, "\n", " ")

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-10s  %-3s  %s",
			prefix, rec.CreatedAt.Format("Jan 02 15:04"), rec.Mode.Label(), who, content)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		if runes := []rune(line); width > 8 && len(runes) > width-2 && !s.expanded[i] {
			line = string(runes[:width-5]) + "..."
		}
		b.WriteString("  " + style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
