package storage

import "time"

// Mode selects which service a free-text message is routed to.
type Mode string

const (
	ModeUnset Mode = ""
	ModeChat  Mode = "chat"
	ModeImage Mode = "image"
	ModeAudio Mode = "audio"
)

// Session is the per-chat record of mode and preferences. Preference fields
// stay empty until the user picks something; callers substitute the service
// defaults at call time.
type Session struct {
	ChatID         int64
	Mode           Mode
	TextModel      string
	ImageModel     string
	AudioLanguage  string
	AudioSpeaker   string
	LastActivityAt time.Time
}

type SessionStore interface {
	// GetOrCreate returns a snapshot of the session for chatID, creating
	// a fresh one on first access.
	GetOrCreate(chatID int64) Session
	SetMode(chatID int64, mode Mode)
	SetTextModel(chatID int64, model string)
	SetImageModel(chatID int64, model string)
	SetVoice(chatID int64, language, speaker string)
	// Touch refreshes LastActivityAt without changing anything else.
	Touch(chatID int64)
	// Sweep removes every session idle for longer than idle and reports
	// how many were removed.
	Sweep(now time.Time, idle time.Duration) int
	Len() int
}
