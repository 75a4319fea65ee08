package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// CreateTask handles POST /trips/{tripID}/tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body taskRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.Tasks.AddTask(r.Context(), chi.URLParam(r, "tripID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PATCH /trips/{tripID}/tasks/{taskID}.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var body taskPatchRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.Tasks.UpdateTask(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "taskID"), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /trips/{tripID}/tasks/{taskID}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.Tasks.DeleteTask(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "taskID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSubtask handles POST /trips/{tripID}/tasks/{taskID}/subtasks.
func (s *Server) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var body subtaskRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.Tasks.AddSubtask(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "taskID"), body.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ToggleSubtask handles POST .../subtasks/{index}/toggle.
func (s *Server) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "subtask index must be an integer")
		return
	}
	task, err := s.Tasks.ToggleSubtask(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "taskID"), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
