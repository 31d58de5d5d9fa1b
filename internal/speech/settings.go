package speech

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings are the persisted synthesis preferences.
type Settings struct {
	Voice        string  `json:"voice"`
	Speed        float64 `json:"speed"`
	Pitch        float64 `json:"pitch"`
	Language     string  `json:"language"`
	AudioProfile string  `json:"audio_profile"`
}

// DefaultSettings returns the out-of-the-box voice configuration.
func DefaultSettings() Settings {
	return Settings{
		Voice:        "en-US-Journey-F",
		Speed:        0.9,
		Pitch:        0.0,
		Language:     "en-US",
		AudioProfile: "default",
	}
}

// settingsPath resolves the settings file location: AVA_CONFIG_DIR if set,
// otherwise the user config dir.
func settingsPath() (string, error) {
	if dir := os.Getenv("AVA_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "voice.json"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ava", "voice.json"), nil
}

// LoadSettings reads the persisted voice settings, returning defaults when
// the file is missing or unreadable.
func LoadSettings() Settings {
	path, err := settingsPath()
	if err != nil {
		return DefaultSettings()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettings()
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings()
	}
	if s.Voice == "" {
		s.Voice = DefaultSettings().Voice
	}
	return s
}

// SaveSettings persists the voice settings to the config dir.
func SaveSettings(s Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
