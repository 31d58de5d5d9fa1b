// Package recap turns a recorded grammar session into a short structured
// summary the student can read after practicing.
package recap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/transcript"
)

// ErrNoSession is returned when the grammar transcript is empty.
var ErrNoSession = errors.New("no grammar practice recorded yet")

// Config holds recap generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// HistoryLimit caps how many trailing records feed the summary.
	HistoryLimit int
}

// DefaultConfig returns sensible defaults for recap generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    512,
		Temperature:  0.4,
		HistoryLimit: 60,
	}
}

// MistakeNote is one reviewed mistake in a recap.
type MistakeNote struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Tip       string `json:"tip"`
}

// Recap is a structured summary of one grammar practice session.
type Recap struct {
	Topic    string        `json:"topic"`
	Summary  string        `json:"summary"`
	Mistakes []MistakeNote `json:"mistakes"`
	Advice   string        `json:"advice"`
}

// Service generates session recaps from the grammar transcript.
type Service struct {
	provider llm.Provider
	log      transcript.Log
	cfg      Config
}

// NewService creates a recap service. Transient provider failures are
// retried here; a recap is not interactive, so waiting beats failing.
func NewService(provider llm.Provider, log transcript.Log, retry llm.RetryConfig, cfg Config) *Service {
	return &Service{
		provider: llm.WithRetry(provider, retry),
		log:      log,
		cfg:      cfg,
	}
}

// Generate reads the grammar transcript and produces a recap.
func (s *Service) Generate(ctx context.Context) (*Recap, error) {
	records, err := s.log.ReadAll(ctx, transcript.ModeGrammar)
	if err != nil {
		return nil, fmt.Errorf("read grammar transcript: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoSession
	}
	if len(records) > s.cfg.HistoryLimit {
		records = records[len(records)-s.cfg.HistoryLimit:]
	}

	ctx = llm.WithPurpose(ctx, "recap")

	req := llm.Request{
		System: recapSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRecapUserMessage(records)},
		},
		Schema:      RecapSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("recap generation: %w", err)
	}

	var out Recap
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse recap response: %w", err)
	}
	return &out, nil
}

const recapSystemPrompt = `You are an English tutor writing a short, encouraging recap of a practice session with a Russian-speaking student. Be warm and specific. Write in English.`

func buildRecapUserMessage(records []transcript.Record) string {
	var b strings.Builder

	b.WriteString("Session transcript (raw, tutor replies may contain protocol tags such as MISTAKE_DETECTED or LESSON_DETECTED):\n\n")
	for _, rec := range records {
		role := "Tutor"
		if rec.Sender == "user" {
			role = "Student"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", role, rec.Content))
	}

	b.WriteString(`
Instructions:
1. Name the grammar topic the session focused on. If none is evident, use "General practice".
2. Summarize how the session went in 2-4 sentences addressed to the student.
3. Pick at most five mistakes worth reviewing. For each, give the student's original phrasing, the corrected version, and one short tip.
4. End with 1-2 sentences of concrete advice for the next session.
Ignore the protocol tags themselves, they are machine markers, not student text.`)

	return b.String()
}
