package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// StreamEvents handles GET /events as a Server-Sent Events stream. Every
// store change is sent as a "state" event carrying the whole state; slow
// clients skip intermediate states. The subscription is released when the
// client disconnects.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	states, release := s.Events.Subscribe()
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// the first event is the current state
	if s.Trips != nil {
		if err := writeEvent(w, "state", s.Trips.State()); err != nil {
			return
		}
	}
	if err := rc.Flush(); err != nil {
		s.Logger.WarnContext(r.Context(), "event stream not flushable", "error", err)
		return
	}

	ticker := time.NewTicker(s.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := writeEvent(w, "state", st); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
