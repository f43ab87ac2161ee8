package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "accolade/contexts/award-lifecycle/sync-dispatcher/domain/errors"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
	"accolade/internal/shared/outbox"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ClaimPending selects due pending rows under FOR UPDATE SKIP LOCKED and
// stamps them in the same transaction, so concurrent dispatchers partition
// the backlog instead of double-delivering.
func (r *Repository) ClaimPending(ctx context.Context, claimToken string, limit int, now time.Time) ([]outbox.Entry, error) {
	var claimed []outboxModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []outboxModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", string(outbox.StatusPending)).
			Where("next_attempt_at <= ?", now.UTC()).
			Order("created_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		if err := tx.Model(&outboxModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":        string(outbox.StatusProcessing),
				"claim_token":   claimToken,
				"attempt_count": gorm.Expr("attempt_count + 1"),
				"updated_at":    now.UTC(),
			}).Error; err != nil {
			return err
		}
		return tx.Where("claim_token = ?", claimToken).
			Order("created_at ASC").
			Find(&claimed).Error
	})
	if err != nil {
		return nil, r.logError("outbox_claim_failed", err)
	}

	entries := make([]outbox.Entry, 0, len(claimed))
	for _, row := range claimed {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// RequeueStale releases claims whose holder stopped touching the entry
// before the cutoff. Marks from the dead instance can no longer apply
// afterwards, since they are conditional on the cleared claim token.
func (r *Repository) RequeueStale(ctx context.Context, cutoff time.Time, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("status = ?", string(outbox.StatusProcessing)).
		Where("updated_at < ?", cutoff.UTC()).
		Updates(map[string]any{
			"status":      string(outbox.StatusPending),
			"claim_token": "",
			"updated_at":  now.UTC(),
		})
	if result.Error != nil {
		return 0, r.logError("outbox_requeue_stale_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) MarkDone(ctx context.Context, entryID, claimToken string, now time.Time) error {
	return r.markClaimed(ctx, entryID, claimToken, map[string]any{
		"status":     string(outbox.StatusDone),
		"last_error": "",
		"updated_at": now.UTC(),
	})
}

func (r *Repository) MarkRetry(ctx context.Context, entryID, claimToken string, nextAttemptAt time.Time, lastError string, now time.Time) error {
	return r.markClaimed(ctx, entryID, claimToken, map[string]any{
		"status":          string(outbox.StatusPending),
		"last_error":      lastError,
		"next_attempt_at": nextAttemptAt.UTC(),
		"claim_token":     "",
		"updated_at":      now.UTC(),
	})
}

func (r *Repository) MarkDead(ctx context.Context, entryID, claimToken, lastError string, now time.Time) error {
	return r.markClaimed(ctx, entryID, claimToken, map[string]any{
		"status":     string(outbox.StatusDead),
		"last_error": lastError,
		"updated_at": now.UTC(),
	})
}

func (r *Repository) markClaimed(ctx context.Context, entryID, claimToken string, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", entryID).
		Where("status = ?", string(outbox.StatusProcessing)).
		Where("claim_token = ?", claimToken).
		Updates(updates)
	if result.Error != nil {
		return r.logError("outbox_mark_failed", result.Error, "entry_id", entryID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotClaimed
	}
	return nil
}

func (r *Repository) CountByStatus(ctx context.Context) (map[outbox.Status]int, error) {
	var rows []struct {
		Status string `gorm:"column:status"`
		Count  int    `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, r.logError("outbox_count_failed", err)
	}
	counts := make(map[outbox.Status]int, len(rows))
	for _, row := range rows {
		counts[outbox.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *Repository) OldestPendingCreatedAt(ctx context.Context) (*time.Time, error) {
	var row outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.logError("outbox_oldest_pending_failed", err)
	}
	createdAt := row.CreatedAt.UTC()
	return &createdAt, nil
}

func (r *Repository) ListDead(ctx context.Context, limit int) ([]outbox.Entry, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(outbox.StatusDead)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("outbox_list_dead_failed", err)
	}
	entries := make([]outbox.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "award-lifecycle/sync-dispatcher",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("outbox repository operation failed", fields...)
	return err
}

type outboxModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	EventType     string    `gorm:"column:event_type"`
	Payload       []byte    `gorm:"column:payload"`
	Status        string    `gorm:"column:status"`
	AttemptCount  int       `gorm:"column:attempt_count"`
	LastError     string    `gorm:"column:last_error"`
	ClaimToken    string    `gorm:"column:claim_token"`
	NextAttemptAt time.Time `gorm:"column:next_attempt_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (outboxModel) TableName() string {
	return "sync_outbox"
}

func (m outboxModel) toEntry() outbox.Entry {
	return outbox.Entry{
		EntryID:       m.ID,
		EventType:     outbox.EventType(m.EventType),
		Payload:       append([]byte(nil), m.Payload...),
		Status:        outbox.Status(m.Status),
		AttemptCount:  m.AttemptCount,
		LastError:     m.LastError,
		ClaimToken:    m.ClaimToken,
		NextAttemptAt: m.NextAttemptAt.UTC(),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var (
	_ ports.OutboxRepository = (*Repository)(nil)
	_ ports.IDGenerator      = UUIDGenerator{}
	_ ports.Clock            = SystemClock{}
)
