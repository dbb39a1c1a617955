package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
)

// Notifications is the persisted notification collection.
type Notifications struct {
	backend Backend
	key     string
	log     *zap.Logger
}

func NewNotifications(backend Backend, key string, log *zap.Logger) *Notifications {
	return &Notifications{backend: backend, key: key, log: orNop(log)}
}

func (s *Notifications) Load(ctx context.Context) ([]models.Notification, error) {
	items, _, err := loadArray[models.Notification](ctx, s.backend, s.key, s.log)
	return items, err
}

func (s *Notifications) Save(ctx context.Context, items []models.Notification) error {
	return saveArray(ctx, s.backend, s.key, items)
}
