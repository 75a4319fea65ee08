package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTrips handles GET /trips. It returns the in-memory state: trips,
// active trip id and loading flag.
func (s *Server) ListTrips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Trips.State())
}

// RefreshTrips handles POST /trips/refresh by reloading from the current backend.
func (s *Server) RefreshTrips(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Trips.FetchTrips(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Trips.State())
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.Trips.AddTrip(r.Context(), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.Trips.Get(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var body updateTripRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := s.Trips.UpdateTrip(r.Context(), chi.URLParam(r, "tripID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.DeleteTrip(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActiveTrip handles PUT /active-trip. An empty tripId clears the selection.
func (s *Server) SetActiveTrip(w http.ResponseWriter, r *http.Request) {
	var body activeTripRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Trips.SetActiveTrip(r.Context(), body.TripID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Trips.State())
}
