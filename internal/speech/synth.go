package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"time"
)

const defaultTTSBaseURL = "https://texttospeech.googleapis.com/v1"

// Synthesizer converts text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, settings Settings) ([]byte, error)
}

// GoogleSynthesizer calls the Google Cloud text:synthesize REST endpoint and
// returns MP3 audio.
type GoogleSynthesizer struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewGoogleSynthesizer reads the API key from AVA_GOOGLE_TTS_API_KEY.
// Returns nil when no key is configured; callers degrade to the fallback
// synthesizer.
func NewGoogleSynthesizer() *GoogleSynthesizer {
	key := os.Getenv("AVA_GOOGLE_TTS_API_KEY")
	if key == "" {
		return nil
	}
	return &GoogleSynthesizer{
		APIKey:  key,
		BaseURL: defaultTTSBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type ttsRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding    string   `json:"audioEncoding"`
		SpeakingRate     float64  `json:"speakingRate"`
		Pitch            float64  `json:"pitch"`
		VolumeGainDB     float64  `json:"volumeGainDb"`
		EffectsProfileID []string `json:"effectsProfileId,omitempty"`
	} `json:"audioConfig"`
}

type ttsResponse struct {
	AudioContent string `json:"audioContent"`
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, settings Settings) ([]byte, error) {
	voice := FindVoice(settings.Voice)

	var req ttsRequest
	req.Input.Text = text
	req.Voice.LanguageCode = settings.Language
	if req.Voice.LanguageCode == "" {
		req.Voice.LanguageCode = voice.LanguageCode()
	}
	req.Voice.Name = voice.ID
	req.Voice.SSMLGender = voice.Gender
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.SpeakingRate = settings.Speed
	req.AudioConfig.Pitch = settings.Pitch
	if settings.AudioProfile != "" && settings.AudioProfile != "default" {
		req.AudioConfig.EffectsProfileID = []string{settings.AudioProfile}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/text:synthesize?key=%s", g.BaseURL, url.QueryEscape(g.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google TTS: %s: %s", resp.Status, msg)
	}

	var out ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("google TTS: decode response: %w", err)
	}
	if out.AudioContent == "" {
		return nil, fmt.Errorf("google TTS: no audio content in response")
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("google TTS: decode audio: %w", err)
	}
	return audio, nil
}

// CommandSynthesizer shells out to a local speech program (espeak on Linux,
// say on macOS) with fixed parameters. It speaks directly rather than
// returning audio, so Synthesize returns no bytes on success.
type CommandSynthesizer struct{}

func (CommandSynthesizer) Synthesize(ctx context.Context, text string, _ Settings) ([]byte, error) {
	candidates := [][]string{
		{"espeak", "-s", "140", text},
		{"say", text},
	}
	for _, argv := range candidates {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		return nil, exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
	}
	return nil, fmt.Errorf("no local speech synthesizer found")
}
