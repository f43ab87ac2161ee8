package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "accolade/contexts/award-lifecycle/vote-ledger/domain/errors"
	votehttp "accolade/contexts/award-lifecycle/vote-ledger/transport/http"
)

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.CastVoteHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.LeaderboardHandler(r.Context(), r.PathValue("subcategory_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.votes.Handler.TallyHandler(r.Context(), r.PathValue("subcategory_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNominationTally(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.votes.Handler.NominationTallyHandler(r.Context(), r.PathValue("nomination_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_vote", err.Error())
	case errors.Is(err, voteerrors.ErrVotingClosed):
		writeVoteError(w, http.StatusForbidden, "voting_closed", err.Error())
	case errors.Is(err, voteerrors.ErrDuplicateVote):
		writeVoteError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, voteerrors.ErrNominationNotFound):
		writeVoteError(w, http.StatusNotFound, "nomination_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrNominationNotApproved):
		writeVoteError(w, http.StatusConflict, "nomination_not_approved", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
