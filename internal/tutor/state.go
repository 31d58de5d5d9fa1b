// Package tutor is the conversation core: the per-mode session state
// machine, the turn controller that drives one request/response cycle
// against the model, and the history replayer that rebuilds structured
// turns from a persisted transcript.
package tutor

import (
	"time"

	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/transcript"
)

// Phase is the observable session phase, derived from the state fields.
type Phase int

const (
	// PhaseIdle means no lesson has been detected yet.
	PhaseIdle Phase = iota
	// PhasePracticing means a lesson is set and nothing is pending.
	PhasePracticing
	// PhaseAwaitingRetry means the next user turn is a retry of a flagged
	// mistake.
	PhaseAwaitingRetry
	// PhaseAwaitingGameAnswer means the next user turn answers a game
	// prompt.
	PhaseAwaitingGameAnswer
)

// Game recommendation thresholds. Once both are met the prompt builder
// advises the model to switch to a game round; the core never forces it.
const (
	gamePracticeThreshold = 8
	gameTimeThreshold     = 8 * time.Minute
)

// State is the mutable per-mode session record. Only grammar mode uses the
// lesson fields; the pending-retry marker applies to every mode. A State is
// created fresh on mode entry and mutated only by the controller after a
// full decode cycle.
type State struct {
	Mode transcript.Mode

	// LessonTopic is the detected grammar lesson, empty before detection.
	LessonTopic string

	// PracticeTurnCount counts assistant turns in the current lesson,
	// excluding game prompts and turns produced while a game answer was
	// pending.
	PracticeTurnCount int

	// LessonStartedAt is when the current lesson was detected (zero before).
	LessonStartedAt time.Time

	// PendingRetryMistakeID marks that the next user turn is a retry of
	// that mistake. Mutually exclusive with PendingGameID.
	PendingRetryMistakeID string

	// PendingGameID marks that the next user turn answers a game prompt.
	PendingGameID string
}

// NewState creates the Idle session state for a mode. Entering a mode always
// goes through here, so an in-flight retry or game wait from a previous mode
// is silently abandoned.
func NewState(mode transcript.Mode) *State {
	return &State{Mode: mode}
}

// Phase derives the observable phase from the field combination.
func (s *State) Phase() Phase {
	switch {
	case s.PendingRetryMistakeID != "":
		return PhaseAwaitingRetry
	case s.PendingGameID != "":
		return PhaseAwaitingGameAnswer
	case s.LessonTopic != "":
		return PhasePracticing
	default:
		return PhaseIdle
	}
}

// AwaitingRetry reports whether the next user turn is a retry attempt.
func (s *State) AwaitingRetry() bool { return s.PendingRetryMistakeID != "" }

// AwaitingGameAnswer reports whether the next user turn answers a game.
func (s *State) AwaitingGameAnswer() bool { return s.PendingGameID != "" }

// Reset returns the state to Idle defaults, keeping the mode. Used on mode
// re-entry regardless of what the previous phase was.
func (s *State) Reset() {
	*s = State{Mode: s.Mode}
}

// Apply runs the transition rules for one completed decode cycle.
//
// The retry marker is cleared unconditionally by every assistant turn, then
// re-set if the turn flags a new mistake; a mistake inside a retry therefore
// replaces the pending id rather than stacking. A game prompt sets the game
// marker; any non-game turn while a game was pending clears it. The two
// markers can never be set at once. The practice counter only moves in
// grammar mode, and only for turns that are neither game prompts nor
// produced while a game answer was pending.
func (s *State) Apply(res protocol.Result, now time.Time) {
	gameWasPending := s.PendingGameID != ""

	s.PendingRetryMistakeID = ""

	if s.Mode == transcript.ModeGrammar && res.LessonTopic != "" {
		s.LessonTopic = res.LessonTopic
		s.PracticeTurnCount = 0
		s.LessonStartedAt = now
	}

	turn := res.Turn
	switch {
	case turn.IsGamePrompt():
		s.PendingGameID = turn.Game.ID

	case turn.HasMistake():
		if gameWasPending {
			s.PendingGameID = ""
		}
		s.PendingRetryMistakeID = turn.Mistake.ID

	default:
		if gameWasPending {
			s.PendingGameID = ""
		}
	}

	if s.Mode == transcript.ModeGrammar && !turn.IsGamePrompt() && !gameWasPending {
		s.PracticeTurnCount++
	}
}

// ShouldSuggestGame reports whether the prompt builder should advise the
// model to run a game round: enough practice turns and enough elapsed
// lesson time. Advisory only.
func (s *State) ShouldSuggestGame(now time.Time) bool {
	if s.LessonTopic == "" || s.LessonStartedAt.IsZero() {
		return false
	}
	return s.PracticeTurnCount >= gamePracticeThreshold &&
		now.Sub(s.LessonStartedAt) >= gameTimeThreshold
}

// LessonMinutes returns whole minutes since the lesson started, zero when
// no lesson is running.
func (s *State) LessonMinutes(now time.Time) int {
	if s.LessonStartedAt.IsZero() {
		return 0
	}
	return int(now.Sub(s.LessonStartedAt) / time.Minute)
}
