package protocol

import (
	"strings"
	"testing"
)

func TestDecode_MistakeWellFormed(t *testing.T) {
	raw := `MISTAKE_DETECTED: You meant: 'I went to the park'. We use past tense for finished actions. Can you try saying it again? RUSSIAN_EXPLANATION: Используйте прошедшее время.`

	res := Decode(raw, "I go to park yesterday", "")
	turn := res.Turn

	if !turn.HasMistake() {
		t.Fatal("expected mistake-flagged turn")
	}
	m := turn.Mistake
	if m.Corrected != "I went to the park" {
		t.Errorf("corrected = %q", m.Corrected)
	}
	if m.Explanation != "We use past tense for finished actions" {
		t.Errorf("explanation = %q", m.Explanation)
	}
	if m.ExplanationRU != "Используйте прошедшее время." {
		t.Errorf("native explanation = %q", m.ExplanationRU)
	}
	if m.Original != "I go to park yesterday" {
		t.Errorf("original = %q", m.Original)
	}
	if m.ID == "" {
		t.Error("expected a mistake ID")
	}
	if !turn.IsRetryPrompt() {
		t.Error("mistake turn should be a retry prompt")
	}
	if strings.Contains(turn.Text, TagNativeExplain) {
		t.Errorf("display text still carries the native segment: %q", turn.Text)
	}
}

func TestDecode_MistakeDoubleQuotes(t *testing.T) {
	raw := `MISTAKE_DETECTED: You meant: "She doesn't like coffee". With third person singular we use 'doesn't'. Can you try saying it again?`

	turn := Decode(raw, "She don't like coffee", "").Turn
	if !turn.HasMistake() {
		t.Fatal("expected mistake-flagged turn")
	}
	if turn.Mistake.Corrected != "She doesn" {
		// The quote matcher is deliberately simple: it stops at the first
		// closing quote character, even mid-contraction. Documented
		// degraded behavior, not a bug to paper over.
		t.Errorf("corrected = %q", turn.Mistake.Corrected)
	}
}

func TestDecode_MistakeWithoutQuote(t *testing.T) {
	raw := `MISTAKE_DETECTED: There is a small error in your sentence. Can you try saying it again?`

	turn := Decode(raw, "me wants coffee", "").Turn
	if !turn.HasMistake() {
		t.Fatal("hasMistake must survive a degraded decode")
	}
	if turn.Mistake.Corrected != "" || turn.Mistake.Explanation != "" {
		t.Errorf("degraded decode should leave correction fields empty, got %q / %q",
			turn.Mistake.Corrected, turn.Mistake.Explanation)
	}
	if turn.Text == "" {
		t.Error("display text must still carry the English segment")
	}
}

func TestDecode_NoMistake(t *testing.T) {
	turn := Decode("NO_MISTAKE: Great sentence! Let's continue.", "hello", "").Turn
	if turn.HasMistake() {
		t.Error("unexpected mistake flag")
	}
	if turn.Text != "Great sentence! Let's continue." {
		t.Errorf("text = %q", turn.Text)
	}
}

func TestDecode_NoMistakeStripsNativeTail(t *testing.T) {
	turn := Decode("NO_MISTAKE: Nice work! RUSSIAN_EXPLANATION: Отлично.", "hi", "").Turn
	if turn.Text != "Nice work!" {
		t.Errorf("text = %q", turn.Text)
	}
}

func TestDecode_LessonDetected(t *testing.T) {
	res := Decode("LESSON_DETECTED: Present Simple. NO_MISTAKE: Nice!", "I work every day", "")
	if res.LessonTopic != "Present Simple" {
		t.Errorf("topic = %q", res.LessonTopic)
	}
	if res.Turn.HasMistake() {
		t.Error("remainder should decode as a clean turn")
	}
	if !strings.Contains(res.Turn.Text, "Present Simple lesson") {
		t.Errorf("lesson-opening text not rebuilt: %q", res.Turn.Text)
	}
	if !strings.HasSuffix(res.Turn.Text, "Nice!") {
		t.Errorf("follow-up content lost: %q", res.Turn.Text)
	}
}

func TestDecode_LessonUsesSessionTopicWhenSet(t *testing.T) {
	res := Decode("LESSON_DETECTED: Past Simple. NO_MISTAKE: Good!", "I worked", "Present Simple")
	if !strings.Contains(res.Turn.Text, "Present Simple lesson") {
		t.Errorf("expected the session topic in the greeting, got %q", res.Turn.Text)
	}
	if res.LessonTopic != "Past Simple" {
		t.Errorf("detected topic = %q", res.LessonTopic)
	}
}

func TestDecode_LessonThenMistake(t *testing.T) {
	raw := `LESSON_DETECTED: Present Simple. MISTAKE_DETECTED: You meant: 'She works here'. Third person singular takes -s. Can you try saying it again?`
	res := Decode(raw, "She work here", "")
	if res.LessonTopic != "Present Simple" {
		t.Errorf("topic = %q", res.LessonTopic)
	}
	if !res.Turn.HasMistake() {
		t.Fatal("expected mistake turn after the lesson segment")
	}
	if res.Turn.Mistake.Corrected != "She works here" {
		t.Errorf("corrected = %q", res.Turn.Mistake.Corrected)
	}
}

func TestDecode_GamePrompt(t *testing.T) {
	raw := "GRAMMAR_GAME: Let's play a quick game! Which sentence has the mistake?"
	turn := Decode(raw, "", "").Turn
	if !turn.IsGamePrompt() {
		t.Fatal("expected game prompt")
	}
	if turn.Game.ID == "" {
		t.Error("expected a game ID")
	}
	if strings.HasPrefix(turn.Text, TagGrammarGame) {
		t.Errorf("tag not stripped: %q", turn.Text)
	}
	if turn.HasMistake() {
		t.Error("a game prompt is never mistake-flagged")
	}
}

func TestDecode_UntaggedVerbatim(t *testing.T) {
	inputs := []string{
		"Just a friendly reply with no tags at all.",
		"  leading whitespace stays in the fallback  ",
		"MISTAKE_DETECTED somewhere in the middle: not a prefix",
		"",
	}
	for _, raw := range inputs {
		turn := Decode(raw, "whatever", "").Turn
		if turn.HasMistake() || turn.IsGamePrompt() {
			t.Errorf("input %q: expected plain turn", raw)
		}
		if turn.Text != raw {
			t.Errorf("input %q: fallback must be verbatim, got %q", raw, turn.Text)
		}
	}
}

func TestDecode_MidTextTagIsNotAPrefix(t *testing.T) {
	raw := "I think MISTAKE_DETECTED: is a tag the model sometimes mentions."
	turn := Decode(raw, "", "").Turn
	if turn.Kind != KindPlain {
		t.Error("tags are matched at the start only")
	}
}

func TestDecode_DeterministicExceptIDs(t *testing.T) {
	raw := `MISTAKE_DETECTED: You meant: 'I am tired'. Use 'am' with I. Can you try saying it again? RUSSIAN_EXPLANATION: С "I" используется "am".`

	a := Decode(raw, "I is tired", "").Turn
	b := Decode(raw, "I is tired", "").Turn

	if a.Text != b.Text || a.Mistake.Corrected != b.Mistake.Corrected ||
		a.Mistake.Explanation != b.Mistake.Explanation ||
		a.Mistake.ExplanationRU != b.Mistake.ExplanationRU {
		t.Error("decode must be deterministic apart from IDs")
	}
	if a.Mistake.ID == b.Mistake.ID {
		t.Error("mistake IDs must be unique per decode")
	}
}

func TestTagged(t *testing.T) {
	if !Tagged("MISTAKE_DETECTED: ...") || !Tagged("prefix NO_MISTAKE: ok") {
		t.Error("tagged content not recognized")
	}
	if Tagged("GRAMMAR_GAME: pick one") {
		t.Error("game prompts are replayed verbatim, not re-decoded")
	}
}
