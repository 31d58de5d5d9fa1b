package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/router"
	"github.com/avaedu/ava/internal/screen"
	"github.com/avaedu/ava/internal/screens/chat"
	"github.com/avaedu/ava/internal/screens/history"
	"github.com/avaedu/ava/internal/screens/voices"
	"github.com/avaedu/ava/internal/speech"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/avaedu/ava/internal/tutor"
	"github.com/avaedu/ava/internal/ui/components"
	"github.com/avaedu/ava/internal/ui/theme"
)

// modeDescriptions is shown under the menu for the highlighted mode.
var modeDescriptions = map[transcript.Mode]string{
	transcript.ModeFreeTalk:   "Casual conversation. Ava keeps the chat going and gently notes slips.",
	transcript.ModeVocabulary: "Build vocabulary through themed conversation and word games.",
	transcript.ModeGrammar:    "Structured grammar lessons with practice tracking and error-spotting games.",
	transcript.ModeMistakes:   "Ava flags every mistake, corrects it, and asks you to try again.",
}

// HomeScreen is the mode menu shown on launch.
type HomeScreen struct {
	menu     components.Menu
	provider llm.Provider
	modeFor  map[int]transcript.Mode
	version  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. provider may be nil when no LLM is
// configured; chat screens then fail fast with a readable message.
func New(provider llm.Provider, log transcript.Log, speaker *speech.Speaker, version string) *HomeScreen {
	h := &HomeScreen{
		provider: provider,
		modeFor:  make(map[int]transcript.Mode),
		version:  version,
	}

	var items []components.MenuItem
	for i, mode := range transcript.AllModes {
		mode := mode
		h.modeFor[i] = mode
		items = append(items, components.MenuItem{
			Label: mode.Label(),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					controller := tutor.NewController(mode, provider, log)
					return router.PushScreenMsg{
						Screen: chat.New(controller, log, speaker),
					}
				}
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(log)}
			}
		}},
		components.MenuItem{Label: "Voice Settings", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: voices.New(speaker)}
			}
		}},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render(banner))
	sections = append(sections, theme.Subtitle.Width(width).Render(
		"Your English practice companion"))

	if h.provider == nil {
		sections = append(sections, lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("No LLM configured. Set AVA_ANTHROPIC_API_KEY or run `ava llm` for details."))
	}

	menuView := lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View())
	sections = append(sections, menuView)

	if mode, ok := h.modeFor[h.menu.Selected]; ok {
		sections = append(sections, theme.Hint.Width(width).Align(lipgloss.Center).
			Render(modeDescriptions[mode]))
	}

	if h.version != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(h.version))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

const banner = `
   ▄▄▄·  ▌ ▐·▄▄▄·
  ▐█ ▀█ ▪█·█▐█ ▀█
  ▄█▀▀█ ▐█▐█▄█▀▀█
  ▐█ ▪▐▌ ███▐█ ▪▐▌
   ▀  ▀ . ▀  ▀  ▀ `
