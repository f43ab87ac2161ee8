package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"accolade/contexts/award-lifecycle/vote-ledger/domain/entities"
	"accolade/contexts/award-lifecycle/vote-ledger/ports"
)

// TallyUseCase computes standings for a subcategory from the vote ledger and
// the per-nomination additional-votes overlay. Nothing here is persisted; the
// ledger and the overlay are the only sources of truth.
type TallyUseCase struct {
	Votes       ports.VoteRepository
	Nominations ports.NominationProjection
}

func (uc TallyUseCase) Tally(ctx context.Context, subcategoryID string) ([]entities.TallyEntry, error) {
	nominations, err := uc.Nominations.ListApproved(ctx, strings.TrimSpace(subcategoryID))
	if err != nil {
		return nil, err
	}
	counts, err := uc.Votes.CountVotesBySubcategory(ctx, strings.TrimSpace(subcategoryID))
	if err != nil {
		return nil, err
	}

	entries := make([]entities.TallyEntry, 0, len(nominations))
	for _, nomination := range nominations {
		real := counts[nomination.NominationID]
		approvedAt := time.Time{}
		if nomination.ApprovedAt != nil {
			approvedAt = nomination.ApprovedAt.UTC()
		}
		entries = append(entries, entities.TallyEntry{
			NominationID:    nomination.NominationID,
			NomineeID:       nomination.NomineeID,
			NomineeName:     nomination.NomineeName,
			RealVotes:       real,
			AdditionalVotes: nomination.AdditionalVotes,
			Total:           real + nomination.AdditionalVotes,
			ApprovedAt:      approvedAt,
		})
	}

	// Ties break toward the nomination approved first; nomination id keeps
	// the order deterministic when even that matches.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		if !entries[i].ApprovedAt.Equal(entries[j].ApprovedAt) {
			return entries[i].ApprovedAt.Before(entries[j].ApprovedAt)
		}
		return entries[i].NominationID < entries[j].NominationID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// NominationTotal reports the combined total for one nomination, used by the
// admin detail view.
func (uc TallyUseCase) NominationTotal(ctx context.Context, nominationID string) (entities.TallyEntry, error) {
	nomination, err := uc.Nominations.GetNomination(ctx, strings.TrimSpace(nominationID))
	if err != nil {
		return entities.TallyEntry{}, err
	}
	real, err := uc.Votes.CountVotes(ctx, nomination.NominationID)
	if err != nil {
		return entities.TallyEntry{}, err
	}
	approvedAt := time.Time{}
	if nomination.ApprovedAt != nil {
		approvedAt = nomination.ApprovedAt.UTC()
	}
	return entities.TallyEntry{
		NominationID:    nomination.NominationID,
		NomineeID:       nomination.NomineeID,
		NomineeName:     nomination.NomineeName,
		RealVotes:       real,
		AdditionalVotes: nomination.AdditionalVotes,
		Total:           real + nomination.AdditionalVotes,
		ApprovedAt:      approvedAt,
	}, nil
}
