package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	application "accolade/contexts/award-lifecycle/sync-dispatcher/application"
	domainerrors "accolade/contexts/award-lifecycle/sync-dispatcher/domain/errors"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
	"accolade/internal/shared/events"
	"accolade/internal/shared/outbox"
)

const (
	defaultBatchSize             = 50
	defaultWorkerCount           = 4
	defaultCallTimeout           = 10 * time.Second
	defaultMaxAttempts           = 8
	defaultValidationMaxAttempts = 2
	defaultBaseBackoff           = 30 * time.Second
	defaultMaxBackoff            = 30 * time.Minute
	defaultClaimExpiry           = 5 * time.Minute
)

// Dispatcher drains claimed outbox batches and delivers each entry to the CRM
// and email collaborators. One RunOnce call is one claim cycle; the worker
// loop in bootstrap drives it on a ticker.
type Dispatcher struct {
	Outbox ports.OutboxRepository
	CRM    ports.CRMGateway
	Email  ports.EmailSender
	Clock  ports.Clock
	IDGen  ports.IDGenerator

	BatchSize             int
	WorkerCount           int
	CallTimeout           time.Duration
	MaxAttempts           int
	ValidationMaxAttempts int
	BaseBackoff           time.Duration
	MaxBackoff            time.Duration

	// ClaimExpiry is the visibility window for a claim. A processing entry
	// untouched for longer than this is assumed orphaned by a crashed
	// instance and goes back to pending at the start of the next cycle.
	// Must exceed CallTimeout so live deliveries are never requeued.
	ClaimExpiry time.Duration

	Logger *slog.Logger
}

// RunOnce claims one batch under a fresh token and delivers it with a bounded
// worker pool. Entries that fail transiently go back to pending with backoff;
// entries out of attempts, and payload rejections past their smaller budget,
// are parked as dead. Delivery faults never fail the cycle itself.
func (d Dispatcher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)

	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	claimToken, err := d.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := d.now()

	claimExpiry := d.ClaimExpiry
	if claimExpiry <= 0 {
		claimExpiry = defaultClaimExpiry
	}
	requeued, err := d.Outbox.RequeueStale(ctx, now.Add(-claimExpiry), now)
	if err != nil {
		logger.Error("stale claim requeue failed",
			"event", "sync_dispatch_requeue_stale_failed",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"error", err.Error(),
		)
	} else if requeued > 0 {
		logger.Warn("stale claims requeued",
			"event", "sync_dispatch_stale_requeued",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"requeued_count", requeued,
			"claim_expiry", claimExpiry.String(),
		)
	}

	claimed, err := d.Outbox.ClaimPending(ctx, claimToken, batchSize, now)
	if err != nil {
		logger.Error("outbox claim failed",
			"event", "sync_dispatch_claim_failed",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(claimed) == 0 {
		logger.Debug("dispatch cycle found no due entries",
			"event", "sync_dispatch_noop",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"batch_size", batchSize,
		)
		return nil
	}

	logger.Info("dispatch cycle started",
		"event", "sync_dispatch_started",
		"module", "award-lifecycle/sync-dispatcher",
		"layer", "worker",
		"claimed_count", len(claimed),
	)

	workerCount := d.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	if workerCount > len(claimed) {
		workerCount = len(claimed)
	}

	queue := make(chan outbox.Entry)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range queue {
				d.dispatchOne(ctx, logger, claimToken, entry)
			}
		}()
	}
	for _, entry := range claimed {
		queue <- entry
	}
	close(queue)
	wg.Wait()

	logger.Info("dispatch cycle completed",
		"event", "sync_dispatch_completed",
		"module", "award-lifecycle/sync-dispatcher",
		"layer", "worker",
		"claimed_count", len(claimed),
	)
	return nil
}

func (d Dispatcher) dispatchOne(ctx context.Context, logger *slog.Logger, claimToken string, entry outbox.Entry) {
	callTimeout := d.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	err := d.deliver(callCtx, entry)
	cancel()

	now := d.now()
	if err == nil {
		if markErr := d.Outbox.MarkDone(ctx, entry.EntryID, claimToken, now); markErr != nil {
			logger.Error("outbox mark done failed",
				"event", "sync_dispatch_mark_done_failed",
				"module", "award-lifecycle/sync-dispatcher",
				"layer", "worker",
				"entry_id", entry.EntryID,
				"error", markErr.Error(),
			)
			return
		}
		logger.Info("sync entry delivered",
			"event", "sync_entry_delivered",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"entry_id", entry.EntryID,
			"event_type", string(entry.EventType),
			"attempt_count", entry.AttemptCount,
		)
		return
	}

	maxAttempts := d.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if errors.Is(err, domainerrors.ErrSyncRejected) || errors.Is(err, domainerrors.ErrUnknownEventType) {
		maxAttempts = d.ValidationMaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = defaultValidationMaxAttempts
		}
	}

	if entry.AttemptCount >= maxAttempts {
		if markErr := d.Outbox.MarkDead(ctx, entry.EntryID, claimToken, err.Error(), now); markErr != nil {
			logger.Error("outbox mark dead failed",
				"event", "sync_dispatch_mark_dead_failed",
				"module", "award-lifecycle/sync-dispatcher",
				"layer", "worker",
				"entry_id", entry.EntryID,
				"error", markErr.Error(),
			)
			return
		}
		logger.Error("sync entry dead-lettered",
			"event", "sync_entry_dead",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"entry_id", entry.EntryID,
			"event_type", string(entry.EventType),
			"attempt_count", entry.AttemptCount,
			"error", err.Error(),
		)
		return
	}

	nextAttemptAt := now.Add(d.backoffDelay(entry.AttemptCount))
	if markErr := d.Outbox.MarkRetry(ctx, entry.EntryID, claimToken, nextAttemptAt, err.Error(), now); markErr != nil {
		logger.Error("outbox mark retry failed",
			"event", "sync_dispatch_mark_retry_failed",
			"module", "award-lifecycle/sync-dispatcher",
			"layer", "worker",
			"entry_id", entry.EntryID,
			"error", markErr.Error(),
		)
		return
	}
	logger.Warn("sync entry delivery failed",
		"event", "sync_entry_retry_scheduled",
		"module", "award-lifecycle/sync-dispatcher",
		"layer", "worker",
		"entry_id", entry.EntryID,
		"event_type", string(entry.EventType),
		"attempt_count", entry.AttemptCount,
		"next_attempt_at", nextAttemptAt,
		"error", err.Error(),
	)
}

func (d Dispatcher) deliver(ctx context.Context, entry outbox.Entry) error {
	switch entry.EventType {
	case outbox.EventNominatorSync:
		var payload events.NominatorSyncPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			return domainerrors.ErrSyncRejected
		}
		return d.CRM.UpsertContact(ctx, ports.Contact{
			Email:       payload.Email,
			DisplayName: payload.DisplayName,
			Company:     payload.Company,
			LinkedInURL: payload.LinkedInURL,
			Country:     payload.Country,
			Source:      "nomination",
		})
	case outbox.EventNomineeSync:
		var payload events.NomineeSyncPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			return domainerrors.ErrSyncRejected
		}
		if payload.Kind == "company" {
			return d.CRM.UpsertCompanyRecord(ctx, ports.CompanyRecord{
				Name:          payload.CompanyName,
				Domain:        payload.CompanyDomain,
				LiveURL:       payload.LiveURL,
				SubcategoryID: payload.SubcategoryID,
			})
		}
		if err := d.CRM.UpsertContact(ctx, ports.Contact{
			Email:       payload.ContactEmail,
			DisplayName: payload.DisplayName,
			LiveURL:     payload.LiveURL,
			Source:      "nominee_approval",
		}); err != nil {
			return err
		}
		return d.Email.SendEmail(ctx, ports.Email{
			To:      payload.ContactEmail,
			Subject: "Your nominee page is live",
			Body:    "Your nomination has been approved. Your public page: " + payload.LiveURL,
		})
	case outbox.EventVoterSync:
		var payload events.VoterSyncPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			return domainerrors.ErrSyncRejected
		}
		return d.CRM.UpsertContact(ctx, ports.Contact{
			Email:       payload.Email,
			DisplayName: payload.DisplayName,
			Country:     payload.Country,
			Source:      "vote",
		})
	default:
		return domainerrors.ErrUnknownEventType
	}
}

// backoffDelay doubles per attempt from the base, capped. attemptCount is the
// count after the failed attempt, so the first retry waits one base interval.
func (d Dispatcher) backoffDelay(attemptCount int) time.Duration {
	base := d.BaseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}
	maxDelay := d.MaxBackoff
	if maxDelay <= 0 {
		maxDelay = defaultMaxBackoff
	}
	delay := base
	for i := 1; i < attemptCount; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (d Dispatcher) now() time.Time {
	if d.Clock != nil {
		return d.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
