// Package protocol decodes the tagged free-text protocol the tutoring model
// is instructed to emit. The protocol is a small fixed vocabulary of literal
// prefixes; everything that doesn't match degrades to a plain message, so
// decoding is total — it never fails, whatever the model produced.
package protocol

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Literal wire tags. These exact strings are load-bearing: they also appear
// in already-persisted transcripts, so changing them breaks history replay.
const (
	TagLessonDetected  = "LESSON_DETECTED:"
	TagGrammarGame     = "GRAMMAR_GAME:"
	TagMistakeDetected = "MISTAKE_DETECTED:"
	TagNoMistake       = "NO_MISTAKE:"
	TagNativeExplain   = "RUSSIAN_EXPLANATION:"
	RetryTrailer       = "Can you try saying it again?"
)

var (
	lessonTopicRe = regexp.MustCompile(`LESSON_DETECTED:\s*([^.]+)\.`)
	correctedRe   = regexp.MustCompile(`['"]([^'"]+)['"]`)

	// Explanation extraction patterns, tried in order against the English
	// segment. The first capturing group that matches wins.
	explanationRes = []*regexp.Regexp{
		regexp.MustCompile(`\. (.+?)\. Can you try saying it again\?`),
		regexp.MustCompile(`\. (.+?)\. RUSSIAN_EXPLANATION:`),
		regexp.MustCompile(`['"][^'"]+['"]\.?\s*(.+?)\.\s*Can you try saying it again\?`),
		regexp.MustCompile(`['"][^'"]+['"]\.?\s*(.+?)\.\s*RUSSIAN_EXPLANATION:`),
	}

	explanationTailRe = regexp.MustCompile(`\.?\s*(.+?)\.\s*Can you try saying it again`)
)

// Decode turns one raw model response into a structured assistant turn.
// precedingUserText is the learner utterance the response replies to; it is
// recorded on mistake-flagged turns as the flagged original. lessonTopic is
// the session's current lesson, used when reconstructing a lesson-opening
// response; pass "" outside grammar mode.
//
// Decoding the same inputs always yields a structurally identical turn
// except for the freshly generated mistake/game IDs.
func Decode(raw, precedingUserText, lessonTopic string) Result {
	trimmed := strings.TrimSpace(raw)

	var res Result
	if strings.HasPrefix(trimmed, TagLessonDetected) {
		topic, rest := splitLessonSegment(trimmed)
		res.LessonTopic = topic
		if topic == "" {
			// No terminated topic sentence; nothing safe to strip.
			res.Turn = plainTurn(raw)
			return res
		}
		res.Turn = decodeBody(rest, raw, precedingUserText, firstNonEmpty(lessonTopic, topic))
		return res
	}

	res.Turn = decodeBody(trimmed, raw, precedingUserText, "")
	return res
}

// decodeBody applies the game / mistake / no-mistake / fallback rules to
// text whose leading lesson segment (if any) has been stripped. rawFallback
// is returned verbatim when no tag matches. lessonTopic is non-empty only
// when the response opened with a lesson segment, in which case a clean
// follow-up is rebuilt into the lesson-opening greeting.
func decodeBody(text, rawFallback, precedingUserText, lessonTopic string) Turn {
	switch {
	case strings.HasPrefix(text, TagGrammarGame):
		return Turn{
			Sender: SenderAssistant,
			Kind:   KindGame,
			Text:   strings.TrimSpace(strings.TrimPrefix(text, TagGrammarGame)),
			Game:   &Game{ID: uuid.New().String()},
		}

	case strings.HasPrefix(text, TagMistakeDetected):
		return decodeMistake(text, precedingUserText)

	case strings.HasPrefix(text, TagNoMistake):
		content := strings.TrimSpace(strings.TrimPrefix(text, TagNoMistake))
		// A trailing native-language segment is dropped for clean responses.
		content = strings.TrimSpace(strings.SplitN(content, TagNativeExplain, 2)[0])
		if lessonTopic != "" {
			content = "Great! You're currently working on the " + lessonTopic +
				" lesson. Let's practice it together! " + content
		}
		return plainTurn(content)

	default:
		return plainTurn(rawFallback)
	}
}

func decodeMistake(text, precedingUserText string) Turn {
	content := strings.TrimSpace(strings.TrimPrefix(text, TagMistakeDetected))

	parts := strings.SplitN(content, TagNativeExplain, 2)
	english := strings.TrimSpace(parts[0])
	var native string
	if len(parts) > 1 {
		native = strings.TrimSpace(parts[1])
	}

	var corrected string
	if m := correctedRe.FindStringSubmatch(english); m != nil {
		corrected = m[1]
	}

	explanation := extractExplanation(english, corrected)

	return Turn{
		Sender: SenderAssistant,
		Kind:   KindMistake,
		Text:   english,
		Mistake: &Mistake{
			ID:            uuid.New().String(),
			Original:      precedingUserText,
			Corrected:     corrected,
			Explanation:   explanation,
			ExplanationRU: native,
		},
	}
}

// extractExplanation pulls the short English rationale out of a mistake
// response. The patterns are heuristic: a response phrased in a way none of
// them anticipate yields an empty explanation, which callers surface as an
// explicit "unavailable" state rather than blank text.
func extractExplanation(english, corrected string) string {
	for _, re := range explanationRes {
		if m := re.FindStringSubmatch(english); m != nil && m[1] != "" {
			return m[1]
		}
	}

	if corrected == "" {
		return ""
	}

	// Last resort: whatever sits between the quoted correction and the
	// retry trailer.
	after := ""
	if _, tail, ok := strings.Cut(english, `"`+corrected+`"`); ok {
		after = tail
	} else if _, tail, ok := strings.Cut(english, `'`+corrected+`'`); ok {
		after = tail
	}
	if after == "" {
		return ""
	}
	if m := explanationTailRe.FindStringSubmatch(after); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// splitLessonSegment extracts the lesson topic (text up to the first period
// after the tag) and returns the remaining response after that period.
func splitLessonSegment(text string) (topic, rest string) {
	loc := lessonTopicRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", ""
	}
	topic = strings.TrimSpace(text[loc[2]:loc[3]])
	rest = strings.TrimSpace(text[loc[1]:])
	return topic, rest
}

func plainTurn(text string) Turn {
	return Turn{Sender: SenderAssistant, Kind: KindPlain, Text: text}
}

// UserTurn wraps a learner utterance as a plain user turn.
func UserTurn(text string) Turn {
	return Turn{Sender: SenderUser, Kind: KindPlain, Text: text}
}

// Tagged reports whether raw content carries a mistake-detection tag, i.e.
// whether history replay should run it through Decode.
func Tagged(raw string) bool {
	return strings.Contains(raw, TagMistakeDetected) || strings.Contains(raw, TagNoMistake)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
