package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateActivity handles POST /trips/{tripID}/days/{dayID}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var body activityRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.Activities.AddActivity(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "dayID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateActivity handles PATCH .../activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var body activityPatchRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.Activities.UpdateActivity(r.Context(),
		chi.URLParam(r, "tripID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "activityID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteActivity handles DELETE .../activities/{activityID}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	err := s.Activities.RemoveActivity(r.Context(),
		chi.URLParam(r, "tripID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "activityID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderActivities handles PUT .../activities/order.
func (s *Server) ReorderActivities(w http.ResponseWriter, r *http.Request) {
	var body reorderRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	acts, err := s.Activities.ReorderActivities(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "dayID"), body.ActivityIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}
