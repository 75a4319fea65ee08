package handler

import (
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/internal/session"
)

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sessionToResponse(s.Session.Identity(), s.Session.Loading()))
}

// SignIn handles POST /session. The token may come in the body or as a
// bearer Authorization header.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if r.ContentLength != 0 {
		var body signInRequest
		if err := readJSON(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		if body.Token != "" {
			token = body.Token
		}
	}
	if token == "" {
		badRequest(w, "token is required")
		return
	}
	id, err := s.Session.SignIn(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(&id, false))
}

// SignOut handles DELETE /session.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.SignOut(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunSync handles POST /sync, a manual retry of the local upload.
func (s *Server) RunSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.Sync.Sync(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func sessionToResponse(id *session.Identity, loading bool) sessionResponse {
	resp := sessionResponse{Loading: loading}
	if id != nil {
		resp.Authenticated = true
		resp.UserID = &id.UserID
		resp.Email = &id.Email
	}
	return resp
}
