package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Speaker voices assistant turns. Playback is fire-and-forget relative to
// the chat flow: a failure anywhere in the chain degrades to the next
// fallback and finally to silence, never to an error the caller sees.
type Speaker struct {
	google   *GoogleSynthesizer
	fallback CommandSynthesizer
	settings func() Settings
}

// NewSpeaker builds the synthesis chain from the environment and persisted
// voice settings.
func NewSpeaker() *Speaker {
	return &Speaker{
		google:   NewGoogleSynthesizer(),
		settings: LoadSettings,
	}
}

// Speak voices text asynchronously. It always returns immediately.
func (s *Speaker) Speak(ctx context.Context, text string) {
	go s.speak(ctx, text)
}

// SpeakSync voices text and waits for playback, for the voice-test flow.
func (s *Speaker) SpeakSync(ctx context.Context, text string) {
	s.speakWith(ctx, text, s.settings())
}

// PreviewSync voices text with explicit settings, bypassing the persisted
// ones, so the picker can demo a voice before it is selected.
func (s *Speaker) PreviewSync(ctx context.Context, settings Settings, text string) {
	s.speakWith(ctx, text, settings)
}

func (s *Speaker) speak(ctx context.Context, text string) {
	s.speakWith(ctx, text, s.settings())
}

func (s *Speaker) speakWith(ctx context.Context, text string, settings Settings) {
	if text == "" {
		return
	}

	if s.google != nil {
		audio, err := s.google.Synthesize(ctx, text, settings)
		if err == nil {
			if err := playMP3(ctx, audio); err == nil {
				return
			}
		} else {
			fmt.Fprintf(os.Stderr, "warning: speech synthesis failed, falling back: %v\n", err)
		}
	}

	// Local low-quality fallback with fixed parameters, then silence.
	_, _ = s.fallback.Synthesize(ctx, text, settings)
}

// playMP3 writes the audio to a temp file and hands it to the first
// available command-line player.
func playMP3(ctx context.Context, audio []byte) error {
	f, err := os.CreateTemp("", "ava-tts-*.mp3")
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	players := [][]string{
		{"mpg123", "-q", path},
		{"afplay", path},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path},
	}
	for _, argv := range players {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
	}
	return fmt.Errorf("no audio player found for %s", filepath.Base(path))
}
