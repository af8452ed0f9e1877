package storage

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetOrCreateIdempotent(t *testing.T) {
	m := NewMemorySessions()
	m.now = fixedClock(time.Unix(1000, 0))

	first := m.GetOrCreate(42)
	second := m.GetOrCreate(42)

	if first != second {
		t.Fatalf("sessions differ: %+v vs %+v", first, second)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestLastModeWins(t *testing.T) {
	m := NewMemorySessions()

	for _, mode := range []Mode{ModeChat, ModeImage, ModeAudio, ModeChat, ModeImage} {
		m.SetMode(7, mode)
	}

	if got := m.GetOrCreate(7).Mode; got != ModeImage {
		t.Fatalf("Mode = %q, want %q", got, ModeImage)
	}
}

func TestPreferencesSurviveModeSwitch(t *testing.T) {
	m := NewMemorySessions()
	m.SetTextModel(7, "deepseek-ai/DeepSeek-R1")
	m.SetImageModel(7, "FLUX.1-dev")
	m.SetVoice(7, "ES", "ES")
	m.SetMode(7, ModeAudio)

	s := m.GetOrCreate(7)
	if s.TextModel != "deepseek-ai/DeepSeek-R1" || s.ImageModel != "FLUX.1-dev" {
		t.Fatalf("model prefs lost: %+v", s)
	}
	if s.AudioLanguage != "ES" || s.AudioSpeaker != "ES" {
		t.Fatalf("voice prefs lost: %+v", s)
	}
}

func TestSweepRemovesOnlyIdleSessions(t *testing.T) {
	m := NewMemorySessions()
	base := time.Unix(10000, 0)
	ttl := time.Hour

	m.now = fixedClock(base)
	m.GetOrCreate(1)
	m.GetOrCreate(2)

	m.now = fixedClock(base.Add(30 * time.Minute))
	m.GetOrCreate(3)

	now := base.Add(ttl + time.Minute)
	if removed := m.Sweep(now, ttl); removed != 2 {
		t.Fatalf("Sweep() removed = %d, want 2", removed)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}

	// every survivor must be within the idle threshold
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for chatID, s := range m.sessions {
		if now.Sub(s.LastActivityAt) > ttl {
			t.Fatalf("session %d survived sweep with age %v", chatID, now.Sub(s.LastActivityAt))
		}
	}
}

func TestTouchDefersEviction(t *testing.T) {
	m := NewMemorySessions()
	base := time.Unix(10000, 0)

	m.now = fixedClock(base)
	m.GetOrCreate(1)

	m.now = fixedClock(base.Add(59 * time.Minute))
	m.Touch(1)

	if removed := m.Sweep(base.Add(time.Hour+time.Minute), time.Hour); removed != 0 {
		t.Fatalf("Sweep() removed = %d, want 0", removed)
	}
}

func TestConcurrentDistinctChats(t *testing.T) {
	m := NewMemorySessions()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			m.SetMode(chatID, ModeChat)
			m.SetTextModel(chatID, "Qwen/QwQ-32B")
			m.GetOrCreate(chatID)
		}(int64(i))
	}
	wg.Wait()

	if m.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", m.Len())
	}
}
