package store

import (
	"fmt"

	"github.com/vivemedellin/vivemedellin/config"
	"github.com/vivemedellin/vivemedellin/utils"
)

// OpenBackend builds the backend selected by cfg.StorageDriver. The returned
// close func releases connections held by the backend.
func OpenBackend(cfg config.AppConfig) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemoryBackend(), noop, nil
	case config.StorageFile:
		b, err := NewFileBackend(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case config.StorageRedis:
		client, err := utils.NewRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisBackend(client, cfg.RedisPrefix), client.Close, nil
	case config.StorageMySQL:
		db, err := config.InitDatabase()
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return NewGormBackend(db), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
