package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "accolade/contexts/award-lifecycle/nomination-service/application"
	domainerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
)

type AdjustVotesCommand struct {
	NominationID    string
	ActorID         string
	AdditionalVotes int
}

// AdjustVotesUseCase stores the admin additional-votes overlay. Legal in any
// state; the tally engine only surfaces it for approved nominations.
type AdjustVotesUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc AdjustVotesUseCase) Adjust(ctx context.Context, cmd AdjustVotesCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	if cmd.AdditionalVotes < 0 {
		return domainerrors.ErrInvalidAdditionalVotes
	}

	nomination, err := uc.Repository.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	if err := uc.Repository.SetAdditionalVotes(ctx, nomination.NominationID, cmd.AdditionalVotes, now); err != nil {
		return err
	}

	logger.Info("additional votes adjusted",
		"event", "nomination_votes_adjusted",
		"module", "award-lifecycle/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"additional_votes", cmd.AdditionalVotes,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}
