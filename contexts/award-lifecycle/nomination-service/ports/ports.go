package ports

import (
	"context"
	"time"

	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	"accolade/internal/shared/outbox"
)

// Repository owns nominator/nominee/nomination persistence. Write operations
// that carry an outbox entry must persist the entry in the same unit of work
// as the domain rows; the sync must never be enqueued without the domain
// write committing, and vice versa.
type Repository interface {
	// CreateNomination persists all three entities and the nominator_sync
	// entry atomically.
	CreateNomination(
		ctx context.Context,
		nominator entities.Nominator,
		nominee entities.Nominee,
		nomination entities.Nomination,
		entry outbox.Entry,
	) error

	GetNomination(ctx context.Context, nominationID string) (entities.Nomination, error)
	GetNominee(ctx context.Context, nomineeID string) (entities.Nominee, error)
	ListNominationsByState(ctx context.Context, state entities.NominationState) ([]entities.Nomination, error)

	// FindActiveNomination looks up the non-rejected nomination occupying the
	// (nominee identity, subcategory) slot, if any.
	FindActiveNomination(ctx context.Context, nomineeIdentity, subcategoryID string) (entities.Nomination, bool, error)

	// ApproveNomination transitions submitted->approved as one conditional
	// update, stores the live identity on the nominee, and appends the
	// nominee_sync entry in the same unit of work. Returns false without
	// error when the nomination was not in submitted state, so callers can
	// distinguish a lost race from a hard failure.
	ApproveNomination(
		ctx context.Context,
		nominationID string,
		approvedAt time.Time,
		live entities.LiveIdentity,
		entry outbox.Entry,
	) (bool, error)

	// RejectNomination transitions submitted->rejected conditionally. No sync
	// entry is produced for rejections.
	RejectNomination(ctx context.Context, nominationID string, rejectedAt time.Time, reason string) (bool, error)

	SetAdditionalVotes(ctx context.Context, nominationID string, votes int, updatedAt time.Time) error

	// ForceSetState applies an admin override and its audit row atomically.
	ForceSetState(ctx context.Context, nomination entities.Nomination, audit entities.StateOverrideAudit) error

	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Settings is the per-operation configuration snapshot injected into use
// cases; tests control it deterministically instead of reading globals.
type Settings struct {
	NominationsOpen bool
	PublicBaseURL   string
}

type SettingsSource interface {
	Current(ctx context.Context) (Settings, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
