package protocol

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Kind is the decoded shape of an assistant turn. Exactly one shape holds
// per turn; the Mistake and Game payloads are present iff their kind matches.
type Kind int

const (
	// KindPlain is a regular message with no protocol payload.
	KindPlain Kind = iota
	// KindMistake flags the learner's previous utterance as incorrect.
	KindMistake
	// KindGame presents an error-spotting exercise and awaits an answer.
	KindGame
)

// Mistake carries the correction payload of a mistake-flagged turn.
type Mistake struct {
	// ID correlates a later retry or explain request with this correction.
	ID string

	// Original is the learner utterance that was flagged.
	Original string

	// Corrected is the suggested correct phrasing. Empty when the model's
	// response carried no quoted correction (degraded decode).
	Corrected string

	// Explanation is the short rationale in English. May be empty on a
	// degraded decode.
	Explanation string

	// ExplanationRU is the detailed rationale in the learner's native
	// language.
	ExplanationRU string
}

// Game carries the identity of a game-prompt turn.
type Game struct {
	ID string
}

// Turn is one structured chat message, derived either from live decoding or
// from history replay. Immutable once created.
type Turn struct {
	Sender Sender
	Kind   Kind

	// Text is the display text with protocol tags stripped.
	Text string

	// Mistake is set iff Kind == KindMistake.
	Mistake *Mistake

	// Game is set iff Kind == KindGame.
	Game *Game
}

// HasMistake reports whether the turn flags a learner mistake.
func (t Turn) HasMistake() bool { return t.Kind == KindMistake && t.Mistake != nil }

// IsGamePrompt reports whether the turn is a game prompt awaiting an answer.
func (t Turn) IsGamePrompt() bool { return t.Kind == KindGame && t.Game != nil }

// IsRetryPrompt reports whether the turn asks the learner to redo an
// utterance. Mistake-flagged turns always do.
func (t Turn) IsRetryPrompt() bool { return t.HasMistake() }

// Result is the outcome of decoding one raw assistant response.
type Result struct {
	Turn Turn

	// LessonTopic is non-empty when the response opened with a
	// LESSON_DETECTED segment. The caller owns what to do with it; the
	// topic is session state, not part of the turn.
	LessonTopic string
}
