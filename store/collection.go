package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	errNotArray   = errors.New("stored value is not a JSON array")
	errNullRecord = errors.New("null record")
)

// loadArray reads the slot at key as a JSON array. A missing slot is an
// empty collection. A slot that is not a JSON array at all is logged,
// overwritten with [] and treated as empty. Inside a valid array, records
// that do not decode are logged and skipped; the slot is left untouched.
// The second result is the number of skipped records.
func loadArray[T any](ctx context.Context, b Backend, key string, log *zap.Logger) ([]T, int, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []T{}, 0, nil
	}

	records, perr := splitArray(raw)
	if perr != nil {
		log.Warn("corrupt collection, resetting to empty",
			zap.String("key", key),
			zap.Error(perr),
		)
		if err := b.Put(ctx, key, []byte("[]")); err != nil {
			return nil, 0, fmt.Errorf("reset %s: %w", key, err)
		}
		return []T{}, 0, nil
	}

	items := make([]T, 0, len(records))
	skipped := 0
	for i, record := range records {
		item, derr := decodeRecord[T](record)
		if derr != nil {
			skipped++
			log.Warn("skipping undecodable record",
				zap.String("key", key),
				zap.Int("index", i),
				zap.Error(derr),
			)
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

func splitArray(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeRecord[T any](record json.RawMessage) (T, error) {
	var item T
	if bytes.Equal(bytes.TrimSpace(record), []byte("null")) {
		return item, errNullRecord
	}
	if err := json.Unmarshal(record, &item); err != nil {
		return item, err
	}
	return item, nil
}

// saveArray overwrites the slot at key with items. Last writer wins.
func saveArray[T any](ctx context.Context, b Backend, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
