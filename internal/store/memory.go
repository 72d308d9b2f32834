package store

import (
	"encoding/json"

	"github.com/xoqon2003/bot/internal/models"
)

// Memory is an in-memory Store used in tests and as a fallback when no
// durable backend is configured. Snapshots are deep-copied through JSON so
// later mutations don't leak into saved state.
type Memory struct {
	snapshot []byte
	Saves    int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (map[string]*models.ContestRecord, error) {
	state := make(map[string]*models.ContestRecord)
	if len(m.snapshot) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(m.snapshot, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (m *Memory) Save(state map[string]*models.ContestRecord) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.snapshot = data
	m.Saves++
	return nil
}
