package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vivemedellin/vivemedellin/config"
)

// exerciseBackend checks the contract every Backend must honour.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "slot", []byte(`[1]`)))
	got, ok, err := b.Get(ctx, "slot")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, b.Put(ctx, "slot", []byte(`[1,2]`)))
	got, _, err = b.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	value := []byte(`[]`)
	require.NoError(t, b.Put(ctx, "k", value))
	value[0] = 'x'

	got, _, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	exerciseBackend(t, b)

	raw, err := os.ReadFile(filepath.Join(dir, "slot.json"))
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileBackendRejectsUnsafeKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape", "a/b", ""} {
		assert.Error(t, b.Put(context.Background(), key, []byte(`[]`)), key)
		_, _, err := b.Get(context.Background(), key)
		assert.Error(t, err, key)
	}
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseBackend(t, NewRedisBackend(client, "vm:"))

	stored, err := mr.Get("vm:slot")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, stored)
}

func TestRedisBackendSurfacesErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	b := NewRedisBackend(client, "")

	mr.Close()
	_, _, err = b.Get(context.Background(), "slot")
	assert.Error(t, err)
}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormBackendGet(t *testing.T) {
	db, mock := newMockGorm(t)
	b := NewGormBackend(db)
	columns := []string{"slot_key", "value", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT \\* FROM `kv_slots` WHERE slot_key = \\?").
		WillReturnRows(sqlmock.NewRows(columns))
	_, ok, err := b.Get(context.Background(), "vm_groups")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery("SELECT \\* FROM `kv_slots` WHERE slot_key = \\?").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("vm_groups", []byte(`[]`), time.Now(), time.Now()))
	got, ok, err := b.Get(context.Background(), "vm_groups")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendPutUpserts(t *testing.T) {
	db, mock := newMockGorm(t)
	b := NewGormBackend(db)

	mock.ExpectExec("INSERT INTO `kv_slots`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, b.Put(context.Background(), "vm_groups", []byte(`[]`)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenBackend(t *testing.T) {
	b, closeFn, err := OpenBackend(config.AppConfig{StorageDriver: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)
	assert.NoError(t, closeFn())

	b, closeFn, err = OpenBackend(config.AppConfig{StorageDriver: config.StorageFile, StorageDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	b, closeFn, err = OpenBackend(config.AppConfig{
		StorageDriver: config.StorageRedis,
		RedisHost:     mr.Host(),
		RedisPort:     port,
		RedisPrefix:   "vm:",
	})
	require.NoError(t, err)
	assert.IsType(t, &RedisBackend{}, b)
	require.NoError(t, b.Put(context.Background(), "k", []byte(`[]`)))
	assert.True(t, mr.Exists("vm:k"))
	assert.NoError(t, closeFn())

	_, _, err = OpenBackend(config.AppConfig{StorageDriver: "cassandra"})
	assert.Error(t, err)
}
