package tutor

import (
	"errors"
	"fmt"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/protocol"
)

// FailureCategory classifies a failed turn for user messaging. Categories
// map one-to-one onto distinct localized messages; none of them is ever
// auto-retried.
type FailureCategory int

const (
	FailureUnknown FailureCategory = iota
	FailureModelUnavailable
	FailureModelOverloaded
	FailureRateLimited
	FailureConfigurationMissing
	FailureUpload
)

// Categorize maps a provider or storage error to its failure category.
func Categorize(err error) FailureCategory {
	var (
		overloaded *llm.ErrOverloaded
		rateLimit  *llm.ErrRateLimit
		unavail    *llm.ErrProviderUnavailable
		upload     *UploadError
	)
	switch {
	case errors.As(err, &upload):
		return FailureUpload
	case errors.As(err, &overloaded):
		return FailureModelOverloaded
	case errors.As(err, &rateLimit):
		return FailureRateLimited
	case errors.As(err, &unavail):
		return FailureModelUnavailable
	case errors.Is(err, ErrNotConfigured):
		return FailureConfigurationMissing
	default:
		return FailureUnknown
	}
}

// FailureTurn renders a failed turn as a localized assistant message. The
// learner audience is Russian-speaking, so the messages are in Russian like
// the correction explanations.
func FailureTurn(err error) protocol.Turn {
	var text string
	switch Categorize(err) {
	case FailureConfigurationMissing:
		text = "Сервис не настроен. Проверьте переменные окружения."
	case FailureModelOverloaded:
		text = "AI сервис сейчас перегружен. Пожалуйста, попробуйте через несколько секунд."
	case FailureRateLimited:
		text = "Слишком много запросов. Подождите немного перед следующей попыткой."
	case FailureModelUnavailable:
		text = "AI сервис испытывает технические трудности. Попробуйте позже."
	case FailureUpload:
		text = "Не удалось загрузить файл. Попробуйте ещё раз."
	default:
		text = fmt.Sprintf("Ошибка: %v", err)
	}
	return protocol.Turn{Sender: protocol.SenderAssistant, Kind: protocol.KindPlain, Text: text}
}

// UploadError wraps a storage failure during attachment handling. It is
// reported as an assistant turn, never silently dropped.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
