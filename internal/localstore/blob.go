package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pkordes/trip-planner/internal/domain"
)

// BlobStore keeps photo bytes on the device, keyed by photo id and indexed by
// trip. Blobs never leave the device; trips only reference them by key.
type BlobStore struct {
	db dbtx
}

// NewBlobStore constructs a BlobStore over db.
func NewBlobStore(db dbtx) *BlobStore {
	return &BlobStore{db: db}
}

// Save stores data for photoID and returns the generated store key.
// Saving the same photo id again replaces its bytes and keeps its key.
func (s *BlobStore) Save(ctx context.Context, tripID, photoID string, data []byte) (string, error) {
	var key int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO photo_blobs (photo_id, trip_id, data) VALUES (?, ?, ?)
		ON CONFLICT(photo_id) DO UPDATE SET trip_id = excluded.trip_id, data = excluded.data
		RETURNING blob_key`, photoID, tripID, data).Scan(&key)
	if err != nil {
		return "", fmt.Errorf("localstore.BlobStore.Save: %w", err)
	}
	return strconv.FormatInt(key, 10), nil
}

// Get returns the bytes stored for photoID.
// Returns domain.ErrNotFound if there are none.
func (s *BlobStore) Get(ctx context.Context, photoID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM photo_blobs WHERE photo_id = ?`, photoID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("localstore.BlobStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("localstore.BlobStore.Get: %w", err)
	}
	return data, nil
}

// Delete removes the bytes stored for photoID. Missing blobs are ignored.
func (s *BlobStore) Delete(ctx context.Context, photoID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photo_blobs WHERE photo_id = ?`, photoID); err != nil {
		return fmt.Errorf("localstore.BlobStore.Delete: %w", err)
	}
	return nil
}

// ListByTrip returns the photo ids with stored bytes for tripID, oldest first.
func (s *BlobStore) ListByTrip(ctx context.Context, tripID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT photo_id FROM photo_blobs WHERE trip_id = ? ORDER BY blob_key`, tripID)
	if err != nil {
		return nil, fmt.Errorf("localstore.BlobStore.ListByTrip: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("localstore.BlobStore.ListByTrip: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("localstore.BlobStore.ListByTrip: rows: %w", err)
	}
	return ids, nil
}

// DeleteByTrip removes every blob belonging to tripID and reports how many
// were removed.
func (s *BlobStore) DeleteByTrip(ctx context.Context, tripID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM photo_blobs WHERE trip_id = ?`, tripID)
	if err != nil {
		return 0, fmt.Errorf("localstore.BlobStore.DeleteByTrip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("localstore.BlobStore.DeleteByTrip: rows affected: %w", err)
	}
	return n, nil
}
