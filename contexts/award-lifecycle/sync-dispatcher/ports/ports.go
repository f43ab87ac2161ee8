package ports

import (
	"context"
	"time"

	"accolade/internal/shared/outbox"
)

// OutboxRepository owns the shared sync_outbox table from the dispatcher's
// side. ClaimPending is the exclusivity primitive: it atomically selects due
// pending entries, stamps them with the claim token, increments their attempt
// count, and flips them to processing. Mark operations only apply while the
// entry still carries the given claim token.
type OutboxRepository interface {
	ClaimPending(ctx context.Context, claimToken string, limit int, now time.Time) ([]outbox.Entry, error)

	// RequeueStale flips processing entries back to pending when their claim
	// has gone quiet since before the cutoff, clearing the claim token. This
	// is the crash-recovery path: an instance that dies after claiming loses
	// the claim once the visibility window lapses, and the entry is
	// redelivered. Returns how many entries were requeued.
	RequeueStale(ctx context.Context, cutoff time.Time, now time.Time) (int, error)

	MarkDone(ctx context.Context, entryID, claimToken string, now time.Time) error
	MarkRetry(ctx context.Context, entryID, claimToken string, nextAttemptAt time.Time, lastError string, now time.Time) error
	MarkDead(ctx context.Context, entryID, claimToken, lastError string, now time.Time) error

	CountByStatus(ctx context.Context) (map[outbox.Status]int, error)
	OldestPendingCreatedAt(ctx context.Context) (*time.Time, error)
	ListDead(ctx context.Context, limit int) ([]outbox.Entry, error)
}

// Contact is the CRM upsert shape shared by nominator, voter, and person
// nominee syncs. Upserts are keyed by email and must be idempotent.
type Contact struct {
	Email       string
	DisplayName string
	Company     string
	LinkedInURL string
	Country     string
	LiveURL     string
	Source      string
}

// CompanyRecord is the CRM shape for company nominees.
type CompanyRecord struct {
	Name          string
	Domain        string
	LiveURL       string
	SubcategoryID string
}

type CRMGateway interface {
	UpsertContact(ctx context.Context, contact Contact) error
	UpsertCompanyRecord(ctx context.Context, record CompanyRecord) error
}

type Email struct {
	To      string
	Subject string
	Body    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
