package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/screen"
	"github.com/avaedu/ava/internal/speech"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/avaedu/ava/internal/tutor"
	"github.com/avaedu/ava/internal/ui/components"
	"github.com/avaedu/ava/internal/ui/layout"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ChatScreen is the conversation view for one mode. It owns the scrollback,
// the input line, and the pending-reply indicator; all conversation
// semantics live in the controller.
type ChatScreen struct {
	controller *tutor.Controller
	log        transcript.Log
	speaker    *speech.Speaker

	turns   []protocol.Turn
	input   components.TextInput
	waiting bool
	frame   int
	showRU  bool
	voiceOn bool
	scroll  int
	loaded  bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat screen for the controller's mode. speaker may be nil
// when voice output is unavailable.
func New(controller *tutor.Controller, log transcript.Log, speaker *speech.Speaker) *ChatScreen {
	return &ChatScreen{
		controller: controller,
		log:        log,
		speaker:    speaker,
		input:      components.NewTextInput("Say something in English...", 500),
		voiceOn:    speaker != nil,
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(c.replayHistory(), c.input.Init())
}

func (c *ChatScreen) Title() string {
	return c.controller.Mode().Label()
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
	}
	if c.hasMistakes() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Explain in Russian"})
	}
	if c.speaker != nil {
		voice := "Voice on"
		if !c.voiceOn {
			voice = "Voice off"
		}
		hints = append(hints, layout.KeyHint{Key: "Ctrl+O", Description: voice})
	}
	hints = append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
	return hints
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyReplayedMsg:
		c.loaded = true
		if msg.Err != nil {
			// Still usable live. Show the greeting and move on.
			c.turns = []protocol.Turn{{
				Sender: protocol.SenderAssistant,
				Kind:   protocol.KindPlain,
				Text:   tutor.Greeting,
			}}
			return c, nil
		}
		c.turns = msg.Turns
		return c, nil

	case turnDoneMsg:
		c.waiting = false
		c.input.SetDisabled(false)
		c.scroll = 0
		if msg.Err != nil {
			if errors.Is(msg.Err, tutor.ErrBusy) {
				return c, nil
			}
			c.turns = append(c.turns, tutor.FailureTurn(msg.Err))
			return c, nil
		}
		c.turns = append(c.turns, msg.Turn)
		if c.voiceOn && c.speaker != nil {
			c.speaker.Speak(context.Background(), msg.Turn.Text)
		}
		return c, nil

	case uploadDoneMsg:
		c.waiting = false
		c.input.SetDisabled(false)
		c.scroll = 0
		if msg.Err != nil {
			if errors.Is(msg.Err, tutor.ErrBusy) {
				return c, nil
			}
			c.turns = append(c.turns, tutor.FailureTurn(msg.Err))
			return c, nil
		}
		c.turns = append(c.turns, msg.Turns...)
		return c, nil

	case spinnerTickMsg:
		if !c.waiting {
			return c, nil
		}
		c.frame = (c.frame + 1) % len(spinnerFrames)
		return c, c.spinnerTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return c, c.submit()
		case "ctrl+r":
			if c.hasMistakes() {
				c.showRU = !c.showRU
			}
			return c, nil
		case "ctrl+o":
			if c.speaker != nil {
				c.voiceOn = !c.voiceOn
			}
			return c, nil
		case "pgup":
			c.scroll += 5
			return c, nil
		case "pgdown":
			c.scroll -= 5
			if c.scroll < 0 {
				c.scroll = 0
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) submit() tea.Cmd {
	if c.waiting {
		return nil
	}
	text := c.input.Value()
	if text == "" {
		return nil
	}

	// "/upload <path>" shares a document instead of chatting.
	if path, ok := strings.CutPrefix(text, "/upload "); ok {
		c.input.Clear()
		c.input.SetDisabled(true)
		c.waiting = true
		c.scroll = 0
		return tea.Batch(
			func() tea.Msg {
				turns, err := c.controller.Attach(context.Background(), strings.TrimSpace(path))
				return uploadDoneMsg{Turns: turns, Err: err}
			},
			c.spinnerTick(),
		)
	}

	c.turns = append(c.turns, protocol.UserTurn(text))
	c.input.Clear()
	c.input.SetDisabled(true)
	c.waiting = true
	c.scroll = 0

	return tea.Batch(
		func() tea.Msg {
			turn, err := c.controller.Submit(context.Background(), text)
			return turnDoneMsg{Turn: turn, Err: err}
		},
		c.spinnerTick(),
	)
}

func (c *ChatScreen) replayHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := c.log.ReadAll(context.Background(), c.controller.Mode())
		if err != nil {
			return historyReplayedMsg{Err: err}
		}
		return historyReplayedMsg{Turns: tutor.Replay(records)}
	}
}

func (c *ChatScreen) spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (c *ChatScreen) hasMistakes() bool {
	for _, t := range c.turns {
		if t.HasMistake() {
			return true
		}
	}
	return false
}
