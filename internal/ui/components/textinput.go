package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/avaedu/ava/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Ava styling. It can be disabled
// while a reply is pending so typed keys are not lost into a stale turn.
type TextInput struct {
	Model    textinput.Model
	disabled bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Key input is dropped while disabled.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.disabled {
		view = lipgloss.NewStyle().Foreground(theme.TextDim).Render(view)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Clear empties the input.
func (t *TextInput) Clear() {
	t.Model.SetValue("")
}

// SetDisabled toggles whether the input accepts keystrokes.
func (t *TextInput) SetDisabled(disabled bool) {
	t.disabled = disabled
}

// Disabled reports whether the input is currently disabled.
func (t TextInput) Disabled() bool {
	return t.disabled
}
