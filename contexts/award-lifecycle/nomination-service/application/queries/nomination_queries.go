package queries

import (
	"context"
	"strings"

	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
)

// NominationQueries serves admin read models.
type NominationQueries struct {
	Repository ports.Repository
}

type NominationDetail struct {
	Nomination entities.Nomination
	Nominee    entities.Nominee
}

func (q NominationQueries) GetNomination(ctx context.Context, nominationID string) (NominationDetail, error) {
	nomination, err := q.Repository.GetNomination(ctx, strings.TrimSpace(nominationID))
	if err != nil {
		return NominationDetail{}, err
	}
	nominee, err := q.Repository.GetNominee(ctx, nomination.NomineeID)
	if err != nil {
		return NominationDetail{}, err
	}
	return NominationDetail{Nomination: nomination, Nominee: nominee}, nil
}

func (q NominationQueries) ListByState(ctx context.Context, state entities.NominationState) ([]entities.Nomination, error) {
	return q.Repository.ListNominationsByState(ctx, state)
}
