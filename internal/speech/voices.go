package speech

// Voice describes one Google Cloud TTS voice offered in the picker.
type Voice struct {
	ID          string
	Gender      string // "FEMALE" or "MALE"
	Description string
}

// LanguageCode derives the BCP-47 language code from the voice ID
// ("en-US-Journey-F" → "en-US").
func (v Voice) LanguageCode() string {
	if len(v.ID) < 5 {
		return "en-US"
	}
	return v.ID[:5]
}

// Voices is the selectable voice catalog.
var Voices = []Voice{
	// US English
	{"en-US-Journey-F", "FEMALE", "Warm, conversational"},
	{"en-US-Studio-O", "FEMALE", "Clear, professional"},
	{"en-US-Neural2-F", "FEMALE", "Natural, expressive"},
	{"en-US-Neural2-A", "FEMALE", "Friendly, casual"},
	{"en-US-Neural2-C", "FEMALE", "Energetic, youthful"},
	{"en-US-Journey-D", "MALE", "Deep, authoritative"},
	{"en-US-Neural2-D", "MALE", "Calm, steady"},
	{"en-US-Standard-B", "MALE", "Classic, clear"},
	{"en-US-Standard-C", "FEMALE", "Standard female"},
	{"en-US-Standard-D", "MALE", "Standard male"},
	{"en-US-Standard-E", "FEMALE", "Clear female"},
	{"en-US-Wavenet-A", "MALE", "Wavenet male"},
	{"en-US-Wavenet-B", "MALE", "Wavenet alternative"},
	{"en-US-Wavenet-C", "FEMALE", "Wavenet female"},
	{"en-US-Wavenet-D", "MALE", "Wavenet deep"},
	{"en-US-Wavenet-E", "FEMALE", "Wavenet expressive"},
	{"en-US-Wavenet-F", "FEMALE", "Wavenet friendly"},
	{"en-US-Wavenet-G", "FEMALE", "Wavenet gentle"},
	{"en-US-Wavenet-H", "FEMALE", "Wavenet warm"},
	{"en-US-Wavenet-I", "MALE", "Wavenet mature"},
	{"en-US-Wavenet-J", "MALE", "Wavenet professional"},

	// UK English
	{"en-GB-Neural2-A", "FEMALE", "British female"},
	{"en-GB-Neural2-B", "MALE", "British male"},
	{"en-GB-Neural2-C", "FEMALE", "British expressive"},
	{"en-GB-Neural2-D", "MALE", "British deep"},
	{"en-GB-Standard-A", "FEMALE", "British standard female"},
	{"en-GB-Standard-B", "MALE", "British standard male"},
	{"en-GB-Standard-C", "FEMALE", "British clear"},
	{"en-GB-Standard-D", "MALE", "British authoritative"},
	{"en-GB-Wavenet-A", "FEMALE", "British wavenet female"},
	{"en-GB-Wavenet-B", "MALE", "British wavenet male"},
	{"en-GB-Wavenet-C", "FEMALE", "British wavenet expressive"},
	{"en-GB-Wavenet-D", "MALE", "British wavenet deep"},

	// Australian English
	{"en-AU-Neural2-A", "FEMALE", "Australian female"},
	{"en-AU-Neural2-B", "MALE", "Australian male"},
	{"en-AU-Neural2-C", "FEMALE", "Australian friendly"},
	{"en-AU-Neural2-D", "MALE", "Australian deep"},
	{"en-AU-Standard-A", "FEMALE", "Australian standard female"},
	{"en-AU-Standard-B", "MALE", "Australian standard male"},
	{"en-AU-Wavenet-A", "FEMALE", "Australian wavenet female"},
	{"en-AU-Wavenet-B", "MALE", "Australian wavenet male"},

	// Canadian English
	{"en-CA-Neural2-A", "FEMALE", "Canadian female"},
	{"en-CA-Neural2-B", "MALE", "Canadian male"},
	{"en-CA-Standard-A", "FEMALE", "Canadian standard female"},
	{"en-CA-Standard-B", "MALE", "Canadian standard male"},
}

// FindVoice looks a voice up by ID, falling back to the default voice when
// the ID is unknown.
func FindVoice(id string) Voice {
	for _, v := range Voices {
		if v.ID == id {
			return v
		}
	}
	return Voices[0]
}
