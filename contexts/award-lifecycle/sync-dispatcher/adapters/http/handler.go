package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"accolade/contexts/award-lifecycle/sync-dispatcher/application/queries"
	httptransport "accolade/contexts/award-lifecycle/sync-dispatcher/transport/http"
)

type Handler struct {
	Health queries.HealthUseCase
	Logger *slog.Logger
}

func (h Handler) OutboxHealthHandler(ctx context.Context) (httptransport.OutboxHealthResponse, error) {
	report, err := h.Health.Health(ctx)
	if err != nil {
		return httptransport.OutboxHealthResponse{}, err
	}
	return httptransport.OutboxHealthResponse{
		Pending:                 report.PendingCount,
		Processing:              report.ProcessingCount,
		Done:                    report.DoneCount,
		Dead:                    report.DeadCount,
		OldestPendingAgeSeconds: int64(report.OldestPendingAge / time.Second),
	}, nil
}

func (h Handler) DeadEntriesHandler(ctx context.Context, limit int) (httptransport.DeadEntriesResponse, error) {
	entries, err := h.Health.DeadEntries(ctx, limit)
	if err != nil {
		return httptransport.DeadEntriesResponse{}, err
	}
	items := make([]httptransport.DeadEntryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.DeadEntryItem{
			EntryID:      entry.EntryID,
			EventType:    string(entry.EventType),
			AttemptCount: entry.AttemptCount,
			LastError:    entry.LastError,
			CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.DeadEntriesResponse{Items: items}, nil
}
