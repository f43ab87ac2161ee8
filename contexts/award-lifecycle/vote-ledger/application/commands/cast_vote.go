package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "accolade/contexts/award-lifecycle/vote-ledger/application"
	"accolade/contexts/award-lifecycle/vote-ledger/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/vote-ledger/domain/errors"
	"accolade/contexts/award-lifecycle/vote-ledger/ports"
	"accolade/internal/shared/events"
	"accolade/internal/shared/outbox"
)

type CastVoteCommand struct {
	NominationID string
	VoterEmail   string
	VoterName    string
	Country      string
}

type CastVoteResult struct {
	VoteID        string
	NominationID  string
	SubcategoryID string
}

// CastVoteUseCase appends one ballot to the ledger. The vote row and its
// voter_sync entry commit in one unit of work; a duplicate (voter email,
// subcategory) pair is rejected without side effects.
type CastVoteUseCase struct {
	Votes       ports.VoteRepository
	Nominations ports.NominationProjection
	Settings    ports.SettingsSource
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CastVoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	settings, err := uc.Settings.Current(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !settings.VotingOpen {
		return CastVoteResult{}, domainerrors.ErrVotingClosed
	}

	voterEmail := entities.NormalizeEmail(cmd.VoterEmail)
	if voterEmail == "" || strings.TrimSpace(cmd.NominationID) == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	nomination, err := uc.Nominations.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return CastVoteResult{}, err
	}
	if nomination.State != "approved" {
		return CastVoteResult{}, domainerrors.ErrNominationNotApproved
	}

	now := uc.now()
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}

	vote := entities.Vote{
		VoteID:        voteID,
		NominationID:  nomination.NominationID,
		SubcategoryID: nomination.SubcategoryID,
		VoterEmail:    voterEmail,
		VoterName:     strings.TrimSpace(cmd.VoterName),
		Country:       strings.TrimSpace(cmd.Country),
		CreatedAt:     now,
	}
	entry, err := newSyncEntry(entryID, outbox.EventVoterSync, events.VoterSyncPayload{
		Email:         vote.VoterEmail,
		DisplayName:   vote.VoterName,
		Country:       vote.Country,
		SubcategoryID: vote.SubcategoryID,
		NominationID:  vote.NominationID,
		VotedAt:       now,
	}, now)
	if err != nil {
		return CastVoteResult{}, err
	}

	if err := uc.Votes.AppendVote(ctx, vote, entry); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			logger.Info("duplicate vote rejected",
				"event", "vote_duplicate_rejected",
				"module", "award-lifecycle/vote-ledger",
				"layer", "application",
				"subcategory_id", vote.SubcategoryID,
			)
		}
		return CastVoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "award-lifecycle/vote-ledger",
		"layer", "application",
		"vote_id", vote.VoteID,
		"nomination_id", vote.NominationID,
		"subcategory_id", vote.SubcategoryID,
	)
	return CastVoteResult{
		VoteID:        vote.VoteID,
		NominationID:  vote.NominationID,
		SubcategoryID: vote.SubcategoryID,
	}, nil
}

func (uc CastVoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
