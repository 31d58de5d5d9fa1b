// Package transcript is the persistence layer: a per-mode, append-only chat
// message log plus the LLM request log, both in a single SQLite database.
package transcript

import (
	"context"
	"time"
)

// Mode is a conversation context. Each mode has its own transcript and its
// own session state; "grammar" is the only mode with extended session state.
type Mode string

const (
	ModeFreeTalk   Mode = "free_talk"
	ModeVocabulary Mode = "vocabulary"
	ModeGrammar    Mode = "grammar"
	ModeMistakes   Mode = "mistakes"
)

// AllModes lists the conversation modes in display order.
var AllModes = []Mode{ModeFreeTalk, ModeVocabulary, ModeGrammar, ModeMistakes}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	for _, known := range AllModes {
		if m == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeFreeTalk:
		return "Free Talk"
	case ModeVocabulary:
		return "Vocabulary"
	case ModeGrammar:
		return "Grammar"
	case ModeMistakes:
		return "Review"
	default:
		return string(m)
	}
}

// Record is one persisted message. Content is the raw model output or user
// text, protocol tags included — decoding happens on read, never on write,
// so already-stored history can always be re-interpreted.
type Record struct {
	ID        int64
	Mode      Mode
	Sender    string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// Log is the message-log access the chat core consumes. Records are
// append-only: nothing in the core ever mutates or deletes one.
type Log interface {
	// Append stores a new record, filling in ID and CreatedAt.
	Append(ctx context.Context, rec *Record) error

	// ReadAll returns every record for a mode ordered by creation time
	// ascending. Replay correctness depends on this ordering.
	ReadAll(ctx context.Context, mode Mode) ([]Record, error)
}

// LLMRequestData captures one model API call for the request log.
type LLMRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMLog records model traffic. Implemented by Store; consumed by the llm
// logging middleware.
type LLMLog interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestData) error
}

// LLMUsage aggregates the request log per model for the llm command.
type LLMUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}
