package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KV is a synchronous string-keyed byte store. Get returns (nil, nil) for a
// key that was never set.
type KV struct {
	db dbtx
}

// NewKV constructs a KV over db.
func NewKV(db dbtx) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key, or nil when there is none.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore.KV.Get[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("localstore.KV.Set[%s]: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("localstore.KV.Delete[%s]: %w", key, err)
	}
	return nil
}
