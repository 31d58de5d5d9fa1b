package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/router"
	"github.com/avaedu/ava/internal/screen"
	"github.com/avaedu/ava/internal/screens/home"
	"github.com/avaedu/ava/internal/speech"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/avaedu/ava/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(provider llm.Provider, log transcript.Log, speaker *speech.Speaker, version string) AppModel {
	homeScreen := home.New(provider, log, speaker, version)
	return AppModel{
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := speech.LoadSettings().Voice
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hinter, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hinter.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run opens the store at dbPath, builds the provider chain, and starts the
// Bubble Tea program. A missing LLM configuration is not fatal; the home
// screen explains what to set.
func Run(version, dbPath string) error {
	store, err := transcript.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer func() { _ = store.Close() }()

	provider, err := llm.NewProviderFromEnv(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: no LLM provider available: %v\n", err)
		provider = nil
	}

	speaker := speech.NewSpeaker()

	p := tea.NewProgram(newAppModel(provider, store, speaker, version))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
