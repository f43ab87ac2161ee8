package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	nominationservice "accolade/contexts/award-lifecycle/nomination-service"
	syncdispatcher "accolade/contexts/award-lifecycle/sync-dispatcher"
	voteledger "accolade/contexts/award-lifecycle/vote-ledger"
	adminsession "accolade/contexts/identity-access/admin-session-service"
	sessionerrors "accolade/contexts/identity-access/admin-session-service/domain/errors"
	sessionhttp "accolade/contexts/identity-access/admin-session-service/transport/http"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	nominations nominationservice.Module
	votes       voteledger.Module
	sync        syncdispatcher.Module
	sessions    adminsession.Module
}

func New(
	nominations nominationservice.Module,
	votes voteledger.Module,
	syncModule syncdispatcher.Module,
	sessions adminsession.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		nominations: nominations,
		votes:       votes,
		sync:        syncModule,
		sessions:    sessions,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/awards/v1/admin/sessions", s.handleCreateSession)

	s.mux.HandleFunc("POST /api/awards/v1/nominations", s.handleSubmitNomination)
	s.mux.HandleFunc("GET /api/awards/v1/admin/nominations", s.handleListNominations)
	s.mux.HandleFunc("GET /api/awards/v1/admin/nominations/{nomination_id}", s.handleGetNomination)
	s.mux.HandleFunc("POST /api/awards/v1/admin/nominations/{nomination_id}/approve", s.handleApproveNomination)
	s.mux.HandleFunc("POST /api/awards/v1/admin/nominations/{nomination_id}/reject", s.handleRejectNomination)
	s.mux.HandleFunc("PUT /api/awards/v1/admin/nominations/{nomination_id}/additional-votes", s.handleAdjustVotes)
	s.mux.HandleFunc("POST /api/awards/v1/admin/nominations/{nomination_id}/state", s.handleForceState)

	s.mux.HandleFunc("POST /api/awards/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/awards/v1/subcategories/{subcategory_id}/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("GET /api/awards/v1/admin/subcategories/{subcategory_id}/tally", s.handleTally)
	s.mux.HandleFunc("GET /api/awards/v1/admin/nominations/{nomination_id}/tally", s.handleNominationTally)

	s.mux.HandleFunc("GET /api/awards/v1/admin/outbox/health", s.handleOutboxHealth)
	s.mux.HandleFunc("GET /api/awards/v1/admin/outbox/dead", s.handleOutboxDead)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sessions.Handler.CreateSessionHandler(r.Context(), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireAdmin verifies the bearer session token. The actor id returned is
// the verified principal, never request input.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if header == "" || token == header {
		writeSessionError(w, http.StatusUnauthorized, "missing_token", "Authorization bearer token is required")
		return "", false
	}
	principal, err := s.sessions.Handler.VerifyHandler(r.Context(), token)
	if err != nil {
		writeSessionError(w, http.StatusUnauthorized, "invalid_session", "session token is invalid or expired")
		return "", false
	}
	return principal.ActorID, true
}

func writeSessionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionerrors.ErrInvalidCredentials):
		writeSessionError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, sessionerrors.ErrInvalidSession):
		writeSessionError(w, http.StatusUnauthorized, "invalid_session", err.Error())
	default:
		writeSessionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sessionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
