package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vivemedellin/vivemedellin/models"
)

// GormBackend stores slots as rows of the kv_slots table.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend wraps a migrated gorm connection.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var slot models.KVSlot
	res := g.db.WithContext(ctx).Where("slot_key = ?", key).Limit(1).Find(&slot)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return slot.Value, true, nil
}

func (g *GormBackend) Put(ctx context.Context, key string, value []byte) error {
	slot := models.KVSlot{SlotKey: key, Value: value}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}
