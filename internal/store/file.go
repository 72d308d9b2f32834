package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xoqon2003/bot/internal/models"
)

// FileStore keeps the whole state mapping in a single JSON file. Writes
// truncate and rewrite the file; a crash mid-write loses state.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[string]*models.ContestRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*models.ContestRecord), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	state := make(map[string]*models.ContestRecord)
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return state, nil
}

func (s *FileStore) Save(state map[string]*models.ContestRecord) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
