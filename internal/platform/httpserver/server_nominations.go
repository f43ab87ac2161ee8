package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	nominationerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	nominationhttp "accolade/contexts/award-lifecycle/nomination-service/transport/http"
)

func (s *Server) handleSubmitNomination(w http.ResponseWriter, r *http.Request) {
	var req nominationhttp.SubmitNominationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.nominations.Handler.SubmitNominationHandler(r.Context(), req)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListNominations(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "submitted"
	}
	resp, err := s.nominations.Handler.ListNominationsHandler(r.Context(), state)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNomination(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.nominations.Handler.GetNominationHandler(r.Context(), r.PathValue("nomination_id"))
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveNomination(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req nominationhttp.ApproveNominationRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.nominations.Handler.ApproveNominationHandler(r.Context(), r.PathValue("nomination_id"), actorID, req)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectNomination(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req nominationhttp.RejectNominationRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	if err := s.nominations.Handler.RejectNominationHandler(r.Context(), r.PathValue("nomination_id"), actorID, req); err != nil {
		writeNominationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdjustVotes(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req nominationhttp.AdjustVotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.nominations.Handler.AdjustVotesHandler(r.Context(), r.PathValue("nomination_id"), actorID, req); err != nil {
		writeNominationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForceState(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req nominationhttp.ForceStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.nominations.Handler.ForceStateHandler(r.Context(), r.PathValue("nomination_id"), actorID, req); err != nil {
		writeNominationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeNominationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nominationerrors.ErrInvalidNominationInput):
		writeNominationError(w, http.StatusBadRequest, "invalid_nomination", err.Error())
	case errors.Is(err, nominationerrors.ErrNominationsClosed):
		writeNominationError(w, http.StatusForbidden, "nominations_closed", err.Error())
	case errors.Is(err, nominationerrors.ErrDuplicateNomination):
		writeNominationError(w, http.StatusConflict, "duplicate_nomination", err.Error())
	case errors.Is(err, nominationerrors.ErrNominationNotFound),
		errors.Is(err, nominationerrors.ErrNomineeNotFound):
		writeNominationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, nominationerrors.ErrInvalidStateTransition):
		writeNominationError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, nominationerrors.ErrSlugTaken):
		writeNominationError(w, http.StatusConflict, "slug_taken", err.Error())
	case errors.Is(err, nominationerrors.ErrInvalidAdditionalVotes):
		writeNominationError(w, http.StatusBadRequest, "invalid_additional_votes", err.Error())
	case errors.Is(err, nominationerrors.ErrInvalidOverrideState):
		writeNominationError(w, http.StatusBadRequest, "invalid_override_state", err.Error())
	case errors.Is(err, nominationerrors.ErrUnauthorizedActor):
		writeNominationError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		writeNominationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNominationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, nominationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
