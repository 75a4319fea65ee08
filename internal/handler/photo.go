package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// UploadPhoto handles POST /trips/{tripID}/photos as multipart/form-data:
// a "file" part plus optional dayId, activityId, description, takenAt
// (RFC 3339) and location (JSON) fields.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in, err := s.photoUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	photo, err := s.Photos.Upload(r.Context(), chi.URLParam(r, "tripID"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (s *Server) photoUpload(r *http.Request) (domain.PhotoUpload, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.MaxUploadBytes+1))
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxUploadBytes {
		return domain.PhotoUpload{}, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, s.MaxUploadBytes)
	}

	takenAt, err := parseTime(r.FormValue("takenAt"))
	if err != nil {
		return domain.PhotoUpload{}, err
	}
	var loc *domain.Location
	if raw := r.FormValue("location"); raw != "" {
		loc = &domain.Location{}
		if err := json.Unmarshal([]byte(raw), loc); err != nil {
			return domain.PhotoUpload{}, fmt.Errorf("%w: location must be a JSON object", domain.ErrValidation)
		}
	}
	return domain.PhotoUpload{
		FileName:    header.Filename,
		Data:        data,
		DayID:       r.FormValue("dayId"),
		ActivityID:  r.FormValue("activityId"),
		TakenAt:     takenAt,
		Description: r.FormValue("description"),
		Location:    loc,
	}, nil
}

// GetPhotoContent handles GET /trips/{tripID}/photos/{photoID}/content and
// streams the original image bytes.
func (s *Server) GetPhotoContent(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.Photos.Content(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "photoID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UpdatePhoto handles PATCH /trips/{tripID}/photos/{photoID}.
func (s *Server) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var body photoPatchRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	photo, err := s.Photos.Update(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "photoID"), service.PhotoEdit(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// DeletePhoto handles DELETE /trips/{tripID}/photos/{photoID}.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.Photos.Delete(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "photoID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
