package store

import (
	"log"
	"strconv"
	"sync"

	"github.com/xoqon2003/bot/internal/models"
)

// Store persists the full chat-id → contest record mapping. Reads and writes
// are wholesale; there is no partial update.
type Store interface {
	Load() (map[string]*models.ContestRecord, error)
	Save(state map[string]*models.ContestRecord) error
}

// StateManager owns the in-memory mirror of the contest state and flushes it
// to the backing Store after every mutation.
type StateManager struct {
	mu    sync.Mutex
	store Store
	state map[string]*models.ContestRecord
}

func NewStateManager(s Store) (*StateManager, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = make(map[string]*models.ContestRecord)
	}
	return &StateManager{store: s, state: state}, nil
}

func ChatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// GetOrCreate returns a deep copy of the chat's record, registering a default
// inactive record on first access. The copy never aliases the live maps, so
// callers may range over it without holding the lock.
func (m *StateManager) GetOrCreate(chatID int64) models.ContestRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(chatID).Clone()
}

func (m *StateManager) getOrCreateLocked(chatID int64) *models.ContestRecord {
	key := ChatKey(chatID)
	rec, ok := m.state[key]
	if !ok {
		rec = models.NewContestRecord()
		m.state[key] = rec
	}
	return rec
}

// Mutate applies fn to the chat's record and persists the whole state. Save
// failures are logged and swallowed; durability is best-effort.
func (m *StateManager) Mutate(chatID int64, fn func(rec *models.ContestRecord)) models.ContestRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.getOrCreateLocked(chatID)
	fn(rec)
	if err := m.store.Save(m.state); err != nil {
		log.Printf("store: save failed: %v", err)
	}
	return rec.Clone()
}

// ChatIDs returns every chat id with a registered record.
func (m *StateManager) ChatIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.state))
	for key := range m.state {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
