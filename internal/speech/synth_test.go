package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGoogleSynthesizer_RequestShape(t *testing.T) {
	var got ttsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text:synthesize" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ttsResponse{
			AudioContent: base64.StdEncoding.EncodeToString([]byte("mp3-bytes")),
		})
	}))
	defer server.Close()

	g := &GoogleSynthesizer{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Client:  &http.Client{Timeout: time.Second},
	}

	audio, err := g.Synthesize(context.Background(), "Hello!", Settings{
		Voice:        "en-US-Journey-F",
		Speed:        0.9,
		Pitch:        0.0,
		Language:     "en-US",
		AudioProfile: "headphone-class-device",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("audio = %q", audio)
	}

	if got.Input.Text != "Hello!" {
		t.Errorf("input text = %q", got.Input.Text)
	}
	if got.Voice.Name != "en-US-Journey-F" || got.Voice.LanguageCode != "en-US" || got.Voice.SSMLGender != "FEMALE" {
		t.Errorf("voice = %+v", got.Voice)
	}
	if got.AudioConfig.AudioEncoding != "MP3" || got.AudioConfig.SpeakingRate != 0.9 {
		t.Errorf("audio config = %+v", got.AudioConfig)
	}
	if len(got.AudioConfig.EffectsProfileID) != 1 || got.AudioConfig.EffectsProfileID[0] != "headphone-class-device" {
		t.Errorf("effects profile = %v", got.AudioConfig.EffectsProfileID)
	}
}

func TestGoogleSynthesizer_DefaultProfileOmitsEffects(t *testing.T) {
	var got ttsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(ttsResponse{
			AudioContent: base64.StdEncoding.EncodeToString([]byte("x")),
		})
	}))
	defer server.Close()

	g := &GoogleSynthesizer{APIKey: "k", BaseURL: server.URL, Client: server.Client()}
	if _, err := g.Synthesize(context.Background(), "hi", DefaultSettings()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AudioConfig.EffectsProfileID != nil {
		t.Fatalf("effects profile sent for default: %v", got.AudioConfig.EffectsProfileID)
	}
}

func TestGoogleSynthesizer_ErrorsSurface(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusForbidden)
		}},
		{"empty audio", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ttsResponse{})
		}},
		{"bad base64", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ttsResponse{AudioContent: "not base64!!!"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			g := &GoogleSynthesizer{APIKey: "k", BaseURL: server.URL, Client: server.Client()}
			if _, err := g.Synthesize(context.Background(), "hi", DefaultSettings()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFindVoice(t *testing.T) {
	if v := FindVoice("en-GB-Neural2-B"); v.Gender != "MALE" {
		t.Fatalf("voice = %+v", v)
	}
	// Unknown IDs fall back to the default voice.
	if v := FindVoice("does-not-exist"); v.ID != "en-US-Journey-F" {
		t.Fatalf("fallback voice = %+v", v)
	}
}

func TestVoice_LanguageCode(t *testing.T) {
	if got := FindVoice("en-AU-Neural2-A").LanguageCode(); got != "en-AU" {
		t.Fatalf("language = %q", got)
	}
}
