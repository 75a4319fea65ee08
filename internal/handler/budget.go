package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetBudget handles GET /trips/{tripID}/budget.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	sum, err := s.Budget.Summary(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// SetBudget handles PUT /trips/{tripID}/budget.
func (s *Server) SetBudget(w http.ResponseWriter, r *http.Request) {
	var body budgetRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.Budget.SetBudget(r.Context(), chi.URLParam(r, "tripID"), body.Budget, body.Currency)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// CreateExpense handles POST /trips/{tripID}/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var body expenseRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.Budget.AddExpense(r.Context(), chi.URLParam(r, "tripID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateExpense handles PATCH /trips/{tripID}/expenses/{expenseID}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var body expensePatchRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.Budget.UpdateExpense(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "expenseID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense handles DELETE /trips/{tripID}/expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.Budget.DeleteExpense(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "expenseID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
