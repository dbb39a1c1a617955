package models

import "time"

// KVSlot is one persisted key/value slot when the MySQL backend is used.
type KVSlot struct {
	SlotKey   string    `gorm:"column:slot_key;primaryKey;size:191" json:"key"`
	Value     []byte    `gorm:"column:value;type:longblob;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the gorm backend.
func (KVSlot) TableName() string { return "kv_slots" }
