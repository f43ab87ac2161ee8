package httpserver

import (
	"net/http"
	"strconv"

	synchttp "accolade/contexts/award-lifecycle/sync-dispatcher/transport/http"
)

func (s *Server) handleOutboxHealth(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.sync.Handler.OutboxHealthHandler(r.Context())
	if err != nil {
		writeSyncError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOutboxDead(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeSyncError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.sync.Handler.DeadEntriesHandler(r.Context(), limit)
	if err != nil {
		writeSyncError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSyncError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, synchttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
