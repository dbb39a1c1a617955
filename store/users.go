package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
)

// Users is the persisted account collection.
type Users struct {
	backend Backend
	key     string
	log     *zap.Logger
}

func NewUsers(backend Backend, key string, log *zap.Logger) *Users {
	return &Users{backend: backend, key: key, log: orNop(log)}
}

func (s *Users) Load(ctx context.Context) ([]models.User, error) {
	items, _, err := loadArray[models.User](ctx, s.backend, s.key, s.log)
	return items, err
}

func (s *Users) Save(ctx context.Context, users []models.User) error {
	return saveArray(ctx, s.backend, s.key, users)
}
