package tutor

import (
	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/transcript"
)

// Greeting is the canned assistant turn shown when a mode has no history.
const Greeting = "Hi! I'm Ava, your English coach. Let's practice together!"

// Replay reconstructs the structured turn list from a stored transcript,
// applying the same decoding rules a live cycle would have. User records
// become plain user turns verbatim. Assistant records carrying a
// mistake-detection tag are decoded with the preceding user record as
// context; anything else replays verbatim. The running lesson topic is
// threaded through grammar-mode records exactly as the live session state
// would have carried it, so the rebuilt lesson greeting text matches the
// live decode byte for byte.
//
// Replay reconstructs turns only; the live session state starts fresh at
// Idle afterwards. Mistake and game IDs are freshly minted, not recovered.
func Replay(records []transcript.Record) []protocol.Turn {
	if len(records) == 0 {
		return []protocol.Turn{{
			Sender: protocol.SenderAssistant,
			Kind:   protocol.KindPlain,
			Text:   Greeting,
		}}
	}

	turns := make([]protocol.Turn, 0, len(records))
	lessonTopic := ""

	for i, rec := range records {
		if rec.Sender == "user" {
			turns = append(turns, protocol.UserTurn(rec.Content))
			continue
		}

		if !protocol.Tagged(rec.Content) {
			turns = append(turns, protocol.Turn{
				Sender: protocol.SenderAssistant,
				Kind:   protocol.KindPlain,
				Text:   rec.Content,
			})
			continue
		}

		precedingUserText := ""
		if i > 0 && records[i-1].Sender == "user" {
			precedingUserText = records[i-1].Content
		}

		res := protocol.Decode(rec.Content, precedingUserText, lessonTopic)
		if rec.Mode == transcript.ModeGrammar && res.LessonTopic != "" {
			lessonTopic = res.LessonTopic
		}
		turns = append(turns, res.Turn)
	}

	return turns
}
