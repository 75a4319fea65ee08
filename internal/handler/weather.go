package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RefreshWeather handles POST /trips/{tripID}/weather/refresh. Soft outcomes
// (fresh cache, no coordinates, no forecast) are 200 responses with a status.
func (s *Server) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	status, err := s.Weather.Refresh(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := weatherResponse{Status: string(status)}
	if s.Trips != nil {
		if trip, err := s.Trips.Get(r.Context(), tripID); err == nil {
			resp.Trip = &trip
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
