package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GeneratePacking handles POST /trips/{tripID}/packing/generate and returns
// the items that were added.
func (s *Server) GeneratePacking(w http.ResponseWriter, r *http.Request) {
	items, err := s.Packing.Generate(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreatePackingItem handles POST /trips/{tripID}/packing.
func (s *Server) CreatePackingItem(w http.ResponseWriter, r *http.Request) {
	var body packingItemRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.Packing.AddItem(r.Context(), chi.URLParam(r, "tripID"), body.Name, body.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// TogglePackingItem handles POST /trips/{tripID}/packing/{itemID}/toggle.
func (s *Server) TogglePackingItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.Packing.ToggleItem(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeletePackingItem handles DELETE /trips/{tripID}/packing/{itemID}.
func (s *Server) DeletePackingItem(w http.ResponseWriter, r *http.Request) {
	if err := s.Packing.RemoveItem(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UncheckAllPacking handles POST /trips/{tripID}/packing/uncheck-all.
func (s *Server) UncheckAllPacking(w http.ResponseWriter, r *http.Request) {
	if err := s.Packing.UncheckAll(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
