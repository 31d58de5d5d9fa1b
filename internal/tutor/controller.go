package tutor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/transcript"
)

// defaultTurnTimeout bounds a single model call.
const defaultTurnTimeout = 60 * time.Second

var (
	// ErrBusy is returned when Submit is called while another turn is in
	// flight for the same mode. The caller disables input while sending,
	// so seeing this means a caller bug, not a user error.
	ErrBusy = errors.New("a turn is already in flight")

	// ErrEmptyInput is returned for input that is empty after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotConfigured is returned before any network attempt when no
	// model provider is configured.
	ErrNotConfigured = errors.New("no LLM provider configured")
)

// Controller drives one request/response cycle per Submit call: optimistic
// user append, prompt build, a single model call, decode, state transition,
// assistant append. One Controller per active mode; entering a mode
// constructs a fresh one, which is what resets the session state.
//
// Submit calls are single-flight. State transitions are not commutative, so
// a second call while one is pending is rejected with ErrBusy rather than
// interleaved.
type Controller struct {
	mode     transcript.Mode
	provider llm.Provider
	log      transcript.Log
	state    *State

	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	inFlight bool
}

// NewController creates the controller for a mode with a fresh Idle session
// state. provider may be nil when configuration is missing; Submit then
// fails fast with ErrNotConfigured.
func NewController(mode transcript.Mode, provider llm.Provider, log transcript.Log) *Controller {
	return &Controller{
		mode:     mode,
		provider: provider,
		log:      log,
		state:    NewState(mode),
		timeout:  defaultTurnTimeout,
		now:      time.Now,
	}
}

// State exposes the live session state for rendering and for the caller's
// retry-attempt check. Callers must not mutate it.
func (c *Controller) State() *State {
	return c.state
}

// Mode returns the conversation mode this controller serves.
func (c *Controller) Mode() transcript.Mode {
	return c.mode
}

// Submit sends one user turn through the full cycle and returns the decoded
// assistant turn. On any failure no assistant record is appended and the
// session state, including a pending retry or game marker, is left exactly
// as it was; the caller renders the error via FailureTurn and the learner
// may repeat the same pending action.
func (c *Controller) Submit(ctx context.Context, userText string) (protocol.Turn, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return protocol.Turn{}, ErrEmptyInput
	}

	if err := c.begin(); err != nil {
		return protocol.Turn{}, err
	}
	defer c.end()

	if c.provider == nil {
		return protocol.Turn{}, ErrNotConfigured
	}

	isRetry := c.state.AwaitingRetry()

	userRec := &transcript.Record{Mode: c.mode, Sender: "user", Content: userText}
	if err := c.log.Append(ctx, userRec); err != nil {
		return protocol.Turn{}, fmt.Errorf("append user turn: %w", err)
	}

	// Includes the record appended above, so the rendered history and the
	// message list both end with the current input.
	history, err := c.log.ReadAll(ctx, c.mode)
	if err != nil {
		history = []transcript.Record{*userRec}
	}

	req := llm.Request{
		System:      buildSystemPrompt(c.state, history, isRetry, c.now()),
		Messages:    historyMessages(history, userText),
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	callCtx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "chat-turn"), c.timeout)
	defer cancel()

	// Exactly one call. Network failure is surfaced, never masked by a
	// retry the learner didn't ask for.
	resp, err := c.provider.Generate(callCtx, req)
	if err != nil {
		return protocol.Turn{}, err
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return protocol.Turn{}, fmt.Errorf("could not get a valid response from the AI")
	}

	res := protocol.Decode(raw, userText, c.state.LessonTopic)
	c.state.Apply(res, c.now())

	aiRec := &transcript.Record{Mode: c.mode, Sender: "assistant", Content: raw}
	if err := c.log.Append(ctx, aiRec); err != nil {
		// The turn already happened and was shown; losing the persisted
		// copy must not fail the conversation.
		fmt.Fprintf(os.Stderr, "warning: failed to persist assistant turn: %v\n", err)
	}

	return res.Turn, nil
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrBusy
	}
	c.inFlight = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// historyMessages maps the recent transcript window to chat messages. The
// final message is always the current user input, whether or not the read
// that produced history succeeded.
func historyMessages(history []transcript.Record, userText string) []llm.Message {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	msgs := make([]llm.Message, 0, len(recent)+1)
	for _, rec := range recent {
		role := llm.RoleAssistant
		if rec.Sender == "user" {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: rec.Content})
	}

	if len(msgs) == 0 || msgs[len(msgs)-1].Role != llm.RoleUser || msgs[len(msgs)-1].Content != userText {
		msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userText})
	}
	return msgs
}
