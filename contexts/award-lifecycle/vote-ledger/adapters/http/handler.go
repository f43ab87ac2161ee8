package httpadapter

import (
	"context"
	"log/slog"

	"accolade/contexts/award-lifecycle/vote-ledger/application/commands"
	"accolade/contexts/award-lifecycle/vote-ledger/application/queries"
	httptransport "accolade/contexts/award-lifecycle/vote-ledger/transport/http"
)

type Handler struct {
	Votes   commands.CastVoteUseCase
	Tallies queries.TallyUseCase
	Logger  *slog.Logger
}

func (h Handler) CastVoteHandler(ctx context.Context, req httptransport.CastVoteRequest) (httptransport.CastVoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		NominationID: req.NominationID,
		VoterEmail:   req.VoterEmail,
		VoterName:    req.VoterName,
		Country:      req.Country,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		VoteID:        result.VoteID,
		NominationID:  result.NominationID,
		SubcategoryID: result.SubcategoryID,
	}, nil
}

// LeaderboardHandler serves the public standings with combined totals only.
func (h Handler) LeaderboardHandler(ctx context.Context, subcategoryID string) (httptransport.LeaderboardResponse, error) {
	entries, err := h.Tallies.Tally(ctx, subcategoryID)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	items := make([]httptransport.LeaderboardItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.LeaderboardItem{
			NominationID: entry.NominationID,
			NomineeName:  entry.NomineeName,
			Total:        entry.Total,
			Rank:         entry.Rank,
		})
	}
	return httptransport.LeaderboardResponse{
		SubcategoryID: subcategoryID,
		Items:         items,
	}, nil
}

// TallyHandler serves the admin view including the real/additional breakdown.
func (h Handler) TallyHandler(ctx context.Context, subcategoryID string) (httptransport.TallyResponse, error) {
	entries, err := h.Tallies.Tally(ctx, subcategoryID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	items := make([]httptransport.TallyItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.TallyItem{
			NominationID:    entry.NominationID,
			NomineeName:     entry.NomineeName,
			RealVotes:       entry.RealVotes,
			AdditionalVotes: entry.AdditionalVotes,
			Total:           entry.Total,
			Rank:            entry.Rank,
		})
	}
	return httptransport.TallyResponse{
		SubcategoryID: subcategoryID,
		Items:         items,
	}, nil
}

// NominationTallyHandler serves the admin breakdown for a single nomination.
func (h Handler) NominationTallyHandler(ctx context.Context, nominationID string) (httptransport.NominationTallyResponse, error) {
	entry, err := h.Tallies.NominationTotal(ctx, nominationID)
	if err != nil {
		return httptransport.NominationTallyResponse{}, err
	}
	return httptransport.NominationTallyResponse{
		NominationID:    entry.NominationID,
		NomineeName:     entry.NomineeName,
		RealVotes:       entry.RealVotes,
		AdditionalVotes: entry.AdditionalVotes,
		Total:           entry.Total,
	}, nil
}
