package models

// ContestRow is the Postgres representation of one chat's contest state: the
// whole record as a jsonb blob, written wholesale like the file backend.
type ContestRow struct {
	ChatID string `gorm:"primaryKey;size:32" json:"chat_id"`
	Data   string `gorm:"type:jsonb;not null" json:"data"`
}

func (ContestRow) TableName() string {
	return "contest_states"
}
