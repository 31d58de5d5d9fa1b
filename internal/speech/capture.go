// Package speech holds the voice collaborators: the capture accumulator
// that turns speech-to-text events into a submittable utterance, and the
// synthesis/playback chain that voices assistant turns.
package speech

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Capture policy constants.
const (
	// ConfidenceFloor is the minimum confidence for a final alternative
	// to be considered reliable. The best alternative is kept even below
	// the floor; it is only logged as low-confidence, never discarded.
	ConfidenceFloor = 0.6

	// interimFloor filters interim alternatives for live display.
	interimFloor = 0.3

	// silenceTimeout is how long after the last result capture is
	// force-stopped, once speech was detected.
	silenceTimeout = 2500 * time.Millisecond

	// minQuietAfterSpeech is the minimum quiet time since the last
	// detected speech before the silence stop may fire.
	minQuietAfterSpeech = 2 * time.Second
)

// Alternative is one recognition hypothesis for an utterance. Confidence is
// in [0,1], or negative when the engine didn't report one.
type Alternative struct {
	Text       string
	Confidence float64
}

// Accumulator consumes capture events for one recording and accumulates the
// final transcript silently; only interim text is surfaced for display. On
// End the accumulated transcript is handed back for auto-submission.
//
// Not safe for concurrent use; capture events arrive on one stream.
type Accumulator struct {
	active          bool
	speechDetected  bool
	lastResult      time.Time
	lastSpeech      time.Time
	finals          strings.Builder
	interim         string
	noSpeechRetried bool

	// Warnf logs low-confidence selections. Defaults to stderr.
	Warnf func(format string, args ...any)
}

// NewAccumulator creates an idle accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
	}
}

// Start resets the accumulator for a new recording.
func (a *Accumulator) Start(now time.Time) {
	a.active = true
	a.speechDetected = false
	a.lastResult = now
	a.lastSpeech = now
	a.finals.Reset()
	a.interim = ""
}

// Active reports whether a recording is in progress.
func (a *Accumulator) Active() bool { return a.active }

// Interim records an interim hypothesis and returns the text to display
// live, or "" if the hypothesis is too weak to show.
func (a *Accumulator) Interim(alt Alternative, now time.Time) string {
	if !a.active {
		return ""
	}
	a.lastResult = now
	a.lastSpeech = now
	a.speechDetected = true

	if alt.Confidence < 0 || alt.Confidence > interimFloor {
		a.interim = strings.TrimSpace(alt.Text)
	}
	return a.interim
}

// Final selects the highest-confidence alternative and appends it to the
// accumulated transcript. A best alternative below the confidence floor is
// still used, with a warning, rather than discarded.
func (a *Accumulator) Final(alts []Alternative, now time.Time) {
	if !a.active || len(alts) == 0 {
		return
	}
	a.lastResult = now
	a.lastSpeech = now
	a.speechDetected = true

	best := alts[0]
	for _, alt := range alts[1:] {
		if alt.Confidence > best.Confidence {
			best = alt
		}
	}

	if best.Confidence < ConfidenceFloor {
		a.Warnf("low confidence result (%.2f): %s", best.Confidence, best.Text)
	}
	a.finals.WriteString(best.Text)
}

// ShouldStop reports whether capture should be force-stopped for silence:
// speech was detected, no result arrived for the silence timeout, and the
// quiet period since the last detected speech is long enough.
func (a *Accumulator) ShouldStop(now time.Time) bool {
	if !a.active || !a.speechDetected {
		return false
	}
	return now.Sub(a.lastResult) >= silenceTimeout &&
		now.Sub(a.lastSpeech) >= minQuietAfterSpeech
}

// End finishes the recording and returns the accumulated transcript. ok is
// false when nothing submittable was captured.
func (a *Accumulator) End() (text string, ok bool) {
	text = strings.TrimSpace(a.finals.String())
	ok = a.active && a.speechDetected && text != ""

	a.active = false
	a.interim = ""
	a.finals.Reset()
	return text, ok
}

// ErrorKind names the capture-layer failure kinds.
type ErrorKind string

const (
	ErrorNetwork      ErrorKind = "network"
	ErrorNotAllowed   ErrorKind = "not-allowed"
	ErrorNoSpeech     ErrorKind = "no-speech"
	ErrorAudioCapture ErrorKind = "audio-capture"
	ErrorUnsupported  ErrorKind = "unsupported"
)

// HandleError maps a capture error to user-facing guidance and decides
// whether to restart capture automatically. no-speech is the only kind that
// retries, and only once per recording session.
func (a *Accumulator) HandleError(kind ErrorKind) (guidance string, retry bool) {
	a.active = false

	switch kind {
	case ErrorNoSpeech:
		if a.noSpeechRetried {
			return "No speech detected. Tap the microphone to try again.", false
		}
		a.noSpeechRetried = true
		return "", true
	case ErrorNetwork:
		return "Network error during speech recognition. Please check your connection and try again.", false
	case ErrorNotAllowed:
		return "Microphone access denied. Please enable microphone permissions and try again.", false
	case ErrorAudioCapture:
		return "Audio capture error. Please check your microphone and try again.", false
	case ErrorUnsupported:
		return "Speech recognition is not available on this system. You can keep typing instead.", false
	default:
		return fmt.Sprintf("Speech recognition error: %s. Please try again.", kind), false
	}
}

// ResetRetry clears the no-speech retry bookkeeping for a new user-initiated
// recording.
func (a *Accumulator) ResetRetry() {
	a.noSpeechRetried = false
}
