package speech

import (
	"fmt"
	"testing"
	"time"
)

func testAccumulator() (*Accumulator, *[]string) {
	var warnings []string
	a := NewAccumulator()
	a.Warnf = func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	return a, &warnings
}

func TestAccumulator_PicksBestAlternative(t *testing.T) {
	a, warnings := testAccumulator()
	now := time.Now()
	a.Start(now)

	a.Final([]Alternative{
		{Text: "I sent to the park", Confidence: 0.55},
		{Text: "I went to the park", Confidence: 0.91},
		{Text: "I rent to the park", Confidence: 0.40},
	}, now)

	text, ok := a.End()
	if !ok {
		t.Fatal("expected submittable transcript")
	}
	if text != "I went to the park" {
		t.Fatalf("text = %q", text)
	}
	if len(*warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", *warnings)
	}
}

func TestAccumulator_LowConfidenceKeptWithWarning(t *testing.T) {
	a, warnings := testAccumulator()
	now := time.Now()
	a.Start(now)

	a.Final([]Alternative{{Text: "mumble mumble", Confidence: 0.3}}, now)

	text, ok := a.End()
	if !ok || text != "mumble mumble" {
		t.Fatalf("low-confidence result discarded: %q ok=%v", text, ok)
	}
	if len(*warnings) != 1 {
		t.Fatalf("expected one low-confidence warning, got %v", *warnings)
	}
}

func TestAccumulator_AccumulatesFinalsAcrossResults(t *testing.T) {
	a, _ := testAccumulator()
	now := time.Now()
	a.Start(now)

	a.Final([]Alternative{{Text: "I went to the park ", Confidence: 0.9}}, now)
	a.Final([]Alternative{{Text: "yesterday", Confidence: 0.85}}, now.Add(time.Second))

	text, _ := a.End()
	if text != "I went to the park yesterday" {
		t.Fatalf("text = %q", text)
	}
}

func TestAccumulator_InterimOnlyForDisplay(t *testing.T) {
	a, _ := testAccumulator()
	now := time.Now()
	a.Start(now)

	if got := a.Interim(Alternative{Text: "I went", Confidence: 0.8}, now); got != "I went" {
		t.Fatalf("interim display = %q", got)
	}
	// Weak interim hypotheses keep the previous display.
	if got := a.Interim(Alternative{Text: "garbled", Confidence: 0.1}, now); got != "I went" {
		t.Fatalf("weak interim replaced display: %q", got)
	}
	// Unknown confidence is shown.
	if got := a.Interim(Alternative{Text: "I went to", Confidence: -1}, now); got != "I went to" {
		t.Fatalf("unknown-confidence interim hidden: %q", got)
	}

	// Interim text never enters the final transcript.
	if _, ok := a.End(); ok {
		t.Fatal("interim-only recording produced a submittable transcript")
	}
}

func TestAccumulator_SilenceStopPolicy(t *testing.T) {
	a, _ := testAccumulator()
	start := time.Now()
	a.Start(start)

	// No speech yet: never stop, however long the silence.
	if a.ShouldStop(start.Add(10 * time.Second)) {
		t.Fatal("stopped before any speech was detected")
	}

	a.Final([]Alternative{{Text: "hello", Confidence: 0.9}}, start.Add(time.Second))

	spoke := start.Add(time.Second)
	if a.ShouldStop(spoke.Add(2 * time.Second)) {
		t.Fatal("stopped before the silence timeout elapsed")
	}
	if !a.ShouldStop(spoke.Add(2600 * time.Millisecond)) {
		t.Fatal("did not stop after the silence timeout")
	}
}

func TestAccumulator_EndRequiresDetectedSpeech(t *testing.T) {
	a, _ := testAccumulator()
	a.Start(time.Now())

	if text, ok := a.End(); ok || text != "" {
		t.Fatalf("empty recording submittable: %q", text)
	}
}

func TestAccumulator_NoSpeechRetriesOnce(t *testing.T) {
	a, _ := testAccumulator()
	a.Start(time.Now())

	guidance, retry := a.HandleError(ErrorNoSpeech)
	if !retry || guidance != "" {
		t.Fatalf("first no-speech: guidance=%q retry=%v, want silent retry", guidance, retry)
	}

	a.Start(time.Now())
	guidance, retry = a.HandleError(ErrorNoSpeech)
	if retry {
		t.Fatal("second no-speech retried again")
	}
	if guidance == "" {
		t.Fatal("second no-speech gave no guidance")
	}

	// A fresh user-initiated recording gets its retry back.
	a.ResetRetry()
	if _, retry := a.HandleError(ErrorNoSpeech); !retry {
		t.Fatal("retry not restored after reset")
	}
}

func TestAccumulator_ErrorGuidanceDistinctPerKind(t *testing.T) {
	kinds := []ErrorKind{ErrorNetwork, ErrorNotAllowed, ErrorAudioCapture, ErrorUnsupported}

	seen := map[string]bool{}
	for _, kind := range kinds {
		a, _ := testAccumulator()
		guidance, retry := a.HandleError(kind)
		if retry {
			t.Fatalf("%s should not auto-retry", kind)
		}
		if guidance == "" || seen[guidance] {
			t.Fatalf("guidance for %s empty or duplicated: %q", kind, guidance)
		}
		seen[guidance] = true
	}
}
