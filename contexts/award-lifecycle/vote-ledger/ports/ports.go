package ports

import (
	"context"
	"time"

	"accolade/contexts/award-lifecycle/vote-ledger/domain/entities"
	"accolade/internal/shared/outbox"
)

// VoteRepository owns the ledger rows. AppendVote must persist the vote and
// its voter_sync entry in one unit of work, and surface a duplicate
// (voter email, subcategory) pair as ErrDuplicateVote.
type VoteRepository interface {
	AppendVote(ctx context.Context, vote entities.Vote, entry outbox.Entry) error
	CountVotes(ctx context.Context, nominationID string) (int, error)

	// CountVotesBySubcategory returns real vote counts keyed by nomination id.
	CountVotesBySubcategory(ctx context.Context, subcategoryID string) (map[string]int, error)
}

// NominationView is the slice of a nomination the ledger needs: enough to
// gate votes on state and to fold the additional-votes overlay into tallies.
type NominationView struct {
	NominationID    string
	NomineeID       string
	NomineeName     string
	SubcategoryID   string
	State           string
	AdditionalVotes int
	ApprovedAt      *time.Time
}

// NominationProjection reads nomination state owned by the lifecycle service.
type NominationProjection interface {
	GetNomination(ctx context.Context, nominationID string) (NominationView, error)
	ListApproved(ctx context.Context, subcategoryID string) ([]NominationView, error)
}

type Settings struct {
	VotingOpen bool
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
