package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListMembers handles GET /trips/{tripID}/members.
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.Members.List(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// InviteMember handles POST /trips/{tripID}/members.
func (s *Server) InviteMember(w http.ResponseWriter, r *http.Request) {
	var body inviteRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	members, err := s.Members.Invite(r.Context(), chi.URLParam(r, "tripID"), body.Email, body.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, members)
}

// UpdateMemberRole handles PATCH /trips/{tripID}/members/{userID}.
func (s *Server) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var body roleRequest
	if err := readJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	members, err := s.Members.UpdateRole(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "userID"), body.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// RemoveMember handles DELETE /trips/{tripID}/members/{userID}.
func (s *Server) RemoveMember(w http.ResponseWriter, r *http.Request) {
	members, err := s.Members.Remove(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
