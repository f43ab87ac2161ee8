package queries

import (
	"context"
	"time"

	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
	"accolade/internal/shared/outbox"
)

// HealthReport summarizes outbox backlog for the admin health endpoint.
type HealthReport struct {
	PendingCount     int
	ProcessingCount  int
	DoneCount        int
	DeadCount        int
	OldestPendingAge time.Duration
}

type HealthUseCase struct {
	Outbox ports.OutboxRepository
	Clock  ports.Clock
}

func (uc HealthUseCase) Health(ctx context.Context) (HealthReport, error) {
	counts, err := uc.Outbox.CountByStatus(ctx)
	if err != nil {
		return HealthReport{}, err
	}
	report := HealthReport{
		PendingCount:    counts[outbox.StatusPending],
		ProcessingCount: counts[outbox.StatusProcessing],
		DoneCount:       counts[outbox.StatusDone],
		DeadCount:       counts[outbox.StatusDead],
	}

	oldest, err := uc.Outbox.OldestPendingCreatedAt(ctx)
	if err != nil {
		return HealthReport{}, err
	}
	if oldest != nil {
		now := time.Now().UTC()
		if uc.Clock != nil {
			now = uc.Clock.Now().UTC()
		}
		report.OldestPendingAge = now.Sub(oldest.UTC())
	}
	return report, nil
}

func (uc HealthUseCase) DeadEntries(ctx context.Context, limit int) ([]outbox.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.Outbox.ListDead(ctx, limit)
}
