package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// blobStore keeps photo bytes on the device.
type blobStore interface {
	Save(ctx context.Context, tripID, photoID string, data []byte) (string, error)
	Get(ctx context.Context, photoID string) ([]byte, error)
	Delete(ctx context.Context, photoID string) error
}

// PhotoService stores photo bytes in the blob store and keeps the metadata,
// thumbnail included, on the trip.
type PhotoService struct {
	core
	blobs blobStore
	now   func() time.Time
}

// PhotoEdit holds optional photo metadata changes.
type PhotoEdit struct {
	Description *string
	DayID       *string
	ActivityID  *string
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(st *store.TripStore, backends backendSelector, blobs blobStore, logger *slog.Logger) *PhotoService {
	return &PhotoService{
		core:  core{store: st, backends: backends, logger: logger},
		blobs: blobs,
		now:   time.Now,
	}
}

// Upload stores the image bytes, derives a thumbnail and appends the photo
// metadata to the trip.
func (s *PhotoService) Upload(ctx context.Context, tripID string, in domain.PhotoUpload) (domain.Photo, error) {
	if _, ok := s.store.Trip(tripID); !ok {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", domain.ErrNotFound)
	}
	if len(in.Data) == 0 {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w: empty file", domain.ErrValidation)
	}
	thumb, err := Thumbnail(in.Data)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}

	photo := domain.Photo{
		ID:          uuid.NewString(),
		DayID:       in.DayID,
		ActivityID:  in.ActivityID,
		FileName:    strings.TrimSpace(in.FileName),
		FileSize:    int64(len(in.Data)),
		UploadedAt:  s.now().UTC(),
		TakenAt:     in.TakenAt,
		Description: in.Description,
		Location:    in.Location,
		Thumbnail:   thumb,
	}
	if photo.FileName == "" {
		photo.FileName = photo.ID + ".jpg"
	}

	key, err := s.blobs.Save(ctx, tripID, photo.ID, in.Data)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}
	photo.BlobKey = key

	err = s.mutate(ctx, tripID, func(photos []domain.Photo) ([]domain.Photo, error) {
		return appendCopy(photos, photo), nil
	})
	if err != nil {
		// the trip vanished while the bytes were being written
		s.dropBlob(ctx, photo.ID)
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}
	return photo, nil
}

// Update edits a photo's description and loose links.
func (s *PhotoService) Update(ctx context.Context, tripID, photoID string, edit PhotoEdit) (domain.Photo, error) {
	var updated domain.Photo
	err := s.mutate(ctx, tripID, func(photos []domain.Photo) ([]domain.Photo, error) {
		i := indexByID(photos, photoID, photoIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		updated = photos[i]
		if edit.Description != nil {
			updated.Description = *edit.Description
		}
		if edit.DayID != nil {
			updated.DayID = *edit.DayID
		}
		if edit.ActivityID != nil {
			updated.ActivityID = *edit.ActivityID
		}
		return replaceAt(photos, i, updated), nil
	})
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the photo metadata, then its bytes. A failure to delete the
// bytes is logged only.
func (s *PhotoService) Delete(ctx context.Context, tripID, photoID string) error {
	err := s.mutate(ctx, tripID, func(photos []domain.Photo) ([]domain.Photo, error) {
		i := indexByID(photos, photoID, photoIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return removeAt(photos, i), nil
	})
	if err != nil {
		return fmt.Errorf("service.PhotoService.Delete: %w", err)
	}
	s.dropBlob(ctx, photoID)
	return nil
}

// Content returns the original image bytes and their sniffed content type.
// Returns domain.ErrNotFound when the photo or its bytes are missing.
func (s *PhotoService) Content(ctx context.Context, tripID, photoID string) ([]byte, string, error) {
	trip, ok := s.store.Trip(tripID)
	if !ok || indexByID(trip.Photos, photoID, photoIDOf) < 0 {
		return nil, "", fmt.Errorf("service.PhotoService.Content: %w", domain.ErrNotFound)
	}
	data, err := s.blobs.Get(ctx, photoID)
	if err != nil {
		return nil, "", fmt.Errorf("service.PhotoService.Content: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func (s *PhotoService) dropBlob(ctx context.Context, photoID string) {
	if err := s.blobs.Delete(ctx, photoID); err != nil {
		s.logger.Warn("could not delete photo blob", "photo_id", photoID, "error", err)
	}
}

func (s *PhotoService) mutate(ctx context.Context, tripID string, fn func([]domain.Photo) ([]domain.Photo, error)) error {
	b := s.backends.Current()
	trip, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		photos, err := fn(t.Photos)
		if err != nil {
			return t, err
		}
		t.Photos = photos
		return t, nil
	})
	if err != nil {
		return err
	}
	s.persistLogged(ctx, b, "save_photos", tripID, func(b persist.Backend) error {
		return b.SavePhotos(ctx, trip)
	})
	return nil
}

func photoIDOf(p domain.Photo) string { return p.ID }
