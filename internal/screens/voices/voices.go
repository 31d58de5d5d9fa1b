// Package voices is the voice picker screen. Selecting a voice persists it
// to the settings file; the speaker reads settings per utterance, so the
// change applies immediately.
package voices

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/router"
	"github.com/avaedu/ava/internal/screen"
	"github.com/avaedu/ava/internal/speech"
	"github.com/avaedu/ava/internal/ui/layout"
	"github.com/avaedu/ava/internal/ui/theme"
)

// previewDoneMsg is sent when a voice preview finishes playing.
type previewDoneMsg struct{}

// savedMsg is sent after the selection is written to disk.
type savedMsg struct{ Err error }

// VoicesScreen lists available voices and persists the selection.
type VoicesScreen struct {
	speaker    *speech.Speaker
	selected   int
	current    string
	previewing bool
	note       string
}

var _ screen.Screen = (*VoicesScreen)(nil)
var _ screen.KeyHintProvider = (*VoicesScreen)(nil)

// New creates the voice picker. speaker may be nil; previews are then
// unavailable but picking still works.
func New(speaker *speech.Speaker) *VoicesScreen {
	current := speech.LoadSettings().Voice
	selected := 0
	for i, v := range speech.Voices {
		if v.ID == current {
			selected = i
			break
		}
	}
	return &VoicesScreen{
		speaker:  speaker,
		selected: selected,
		current:  current,
	}
}

func (s *VoicesScreen) Init() tea.Cmd {
	return nil
}

func (s *VoicesScreen) Title() string {
	return "Voices"
}

func (s *VoicesScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.speaker != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Preview"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (s *VoicesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case previewDoneMsg:
		s.previewing = false
		return s, nil

	case savedMsg:
		if msg.Err != nil {
			s.note = fmt.Sprintf("Could not save: %v", msg.Err)
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(speech.Voices)-1 {
				s.selected++
			}
		case "p":
			if s.speaker == nil || s.previewing {
				return s, nil
			}
			s.previewing = true
			voice := speech.Voices[s.selected]
			return s, func() tea.Msg {
				settings := speech.LoadSettings()
				settings.Voice = voice.ID
				settings.Language = voice.LanguageCode()
				s.speaker.PreviewSync(context.Background(), settings,
					"Hi! This is how I sound. Let's practice English together.")
				return previewDoneMsg{}
			}
		case "enter":
			voice := speech.Voices[s.selected]
			return s, func() tea.Msg {
				settings := speech.LoadSettings()
				settings.Voice = voice.ID
				settings.Language = voice.LanguageCode()
				return savedMsg{Err: speech.SaveSettings(settings)}
			}
		}
	}
	return s, nil
}

func (s *VoicesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	// Window the list around the selection so long catalogs fit.
	visible := height - 4
	if visible < 3 {
		visible = 3
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := start + visible
	if end > len(speech.Voices) {
		end = len(speech.Voices)
	}

	for i := start; i < end; i++ {
		v := speech.Voices[i]
		marker := "   "
		if v.ID == s.current {
			marker = " ● "
		}
		line := fmt.Sprintf("%s%-24s %-8s %s", marker, v.ID, v.Gender, v.Description)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			line = "▸" + line[1:]
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.previewing {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Playing preview...")))
	}
	if s.note != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.note)))
	}

	return b.String()
}
