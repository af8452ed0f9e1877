package storage

import (
	"sync"
	"time"
)

// MemorySessions keeps all sessions in a map guarded by one RWMutex.
// Sessions are lost on restart, which is fine: they only hold menu picks.
type MemorySessions struct {
	sessions map[int64]*Session
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

func (m *MemorySessions) GetOrCreate(chatID int64) Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return *m.locked(chatID)
}

func (m *MemorySessions) SetMode(chatID int64, mode Mode) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locked(chatID).Mode = mode
}

func (m *MemorySessions) SetTextModel(chatID int64, model string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locked(chatID).TextModel = model
}

func (m *MemorySessions) SetImageModel(chatID int64, model string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locked(chatID).ImageModel = model
}

func (m *MemorySessions) SetVoice(chatID int64, language, speaker string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	session := m.locked(chatID)
	session.AudioLanguage = language
	session.AudioSpeaker = speaker
}

func (m *MemorySessions) Touch(chatID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locked(chatID)
}

func (m *MemorySessions) Sweep(now time.Time, idle time.Duration) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for chatID, session := range m.sessions {
		if now.Sub(session.LastActivityAt) > idle {
			delete(m.sessions, chatID)
			removed++
		}
	}
	return removed
}

func (m *MemorySessions) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// locked returns the live record for chatID, creating it if needed, and
// refreshes LastActivityAt. Callers must hold the write lock.
func (m *MemorySessions) locked(chatID int64) *Session {
	session, ok := m.sessions[chatID]
	if !ok {
		session = &Session{ChatID: chatID}
		m.sessions[chatID] = session
	}
	session.LastActivityAt = m.now()
	return session
}
