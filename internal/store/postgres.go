package store

import (
	"encoding/json"
	"fmt"

	"github.com/xoqon2003/bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore keeps one row per chat with the record serialized to jsonb.
// Same wholesale save semantics as the file backend, just a different medium.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load() (map[string]*models.ContestRecord, error) {
	var rows []models.ContestRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load contest rows: %w", err)
	}

	state := make(map[string]*models.ContestRecord, len(rows))
	for _, row := range rows {
		rec := models.NewContestRecord()
		if err := json.Unmarshal([]byte(row.Data), rec); err != nil {
			return nil, fmt.Errorf("parse contest row %s: %w", row.ChatID, err)
		}
		state[row.ChatID] = rec
	}
	return state, nil
}

func (s *PostgresStore) Save(state map[string]*models.ContestRecord) error {
	rows := make([]models.ContestRow, 0, len(state))
	for key, rec := range state {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal contest record %s: %w", key, err)
		}
		rows = append(rows, models.ContestRow{ChatID: key, Data: string(data)})
	}
	if len(rows) == 0 {
		return nil
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&rows).Error
}
