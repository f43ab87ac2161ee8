package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"accolade/contexts/award-lifecycle/vote-ledger/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/vote-ledger/domain/errors"
	"accolade/contexts/award-lifecycle/vote-ledger/ports"
	"accolade/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) AppendVote(ctx context.Context, vote entities.Vote, entry outbox.Entry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(voteModelFromEntity(vote)).Error; err != nil {
			return err
		}
		return tx.Create(outboxModelFromEntry(entry)).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateVote
		}
		return r.logError("vote_repo_append_failed", err,
			"nomination_id", vote.NominationID,
			"subcategory_id", vote.SubcategoryID,
		)
	}
	return nil
}

func (r *Repository) CountVotes(ctx context.Context, nominationID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("nomination_id = ?", strings.TrimSpace(nominationID)).
		Count(&count).Error; err != nil {
		return 0, r.logError("vote_repo_count_failed", err, "nomination_id", strings.TrimSpace(nominationID))
	}
	return int(count), nil
}

func (r *Repository) CountVotesBySubcategory(ctx context.Context, subcategoryID string) (map[string]int, error) {
	var rows []struct {
		NominationID string `gorm:"column:nomination_id"`
		Count        int    `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("nomination_id, COUNT(*) AS count").
		Where("subcategory_id = ?", strings.TrimSpace(subcategoryID)).
		Group("nomination_id").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_count_by_subcategory_failed", err,
			"subcategory_id", strings.TrimSpace(subcategoryID),
		)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.NominationID] = row.Count
	}
	return counts, nil
}

func (r *Repository) GetNomination(ctx context.Context, nominationID string) (ports.NominationView, error) {
	var row nominationRow
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(nominationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.NominationView{}, domainerrors.ErrNominationNotFound
		}
		return ports.NominationView{}, r.logError("vote_repo_get_nomination_failed", err,
			"nomination_id", strings.TrimSpace(nominationID),
		)
	}
	view := row.toView()
	view.NomineeName = r.nomineeName(ctx, row.NomineeID)
	return view, nil
}

func (r *Repository) ListApproved(ctx context.Context, subcategoryID string) ([]ports.NominationView, error) {
	var rows []nominationRow
	if err := r.db.WithContext(ctx).
		Where("subcategory_id = ?", strings.TrimSpace(subcategoryID)).
		Where("state = ?", "approved").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_approved_failed", err,
			"subcategory_id", strings.TrimSpace(subcategoryID),
		)
	}

	views := make([]ports.NominationView, 0, len(rows))
	for _, row := range rows {
		view := row.toView()
		view.NomineeName = r.nomineeName(ctx, row.NomineeID)
		views = append(views, view)
	}
	return views, nil
}

func (r *Repository) nomineeName(ctx context.Context, nomineeID string) string {
	var row nomineeRow
	if err := r.db.WithContext(ctx).Where("id = ?", nomineeID).First(&row).Error; err != nil {
		return ""
	}
	return row.DisplayName
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "award-lifecycle/vote-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	NominationID  string    `gorm:"column:nomination_id"`
	SubcategoryID string    `gorm:"column:subcategory_id"`
	VoterEmail    string    `gorm:"column:voter_email"`
	VoterName     string    `gorm:"column:voter_name"`
	Country       string    `gorm:"column:country"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) *voteModel {
	return &voteModel{
		ID:            vote.VoteID,
		NominationID:  vote.NominationID,
		SubcategoryID: vote.SubcategoryID,
		VoterEmail:    vote.VoterEmail,
		VoterName:     vote.VoterName,
		Country:       vote.Country,
		CreatedAt:     vote.CreatedAt.UTC(),
	}
}

// nominationRow is the ledger's read-only view over the lifecycle service's
// nominations table.
type nominationRow struct {
	ID              string     `gorm:"column:id;primaryKey"`
	NomineeID       string     `gorm:"column:nominee_id"`
	SubcategoryID   string     `gorm:"column:subcategory_id"`
	State           string     `gorm:"column:state"`
	AdditionalVotes int        `gorm:"column:additional_votes"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
}

func (nominationRow) TableName() string {
	return "nominations"
}

func (m nominationRow) toView() ports.NominationView {
	view := ports.NominationView{
		NominationID:    m.ID,
		NomineeID:       m.NomineeID,
		SubcategoryID:   m.SubcategoryID,
		State:           m.State,
		AdditionalVotes: m.AdditionalVotes,
	}
	if m.ApprovedAt != nil {
		approvedAt := m.ApprovedAt.UTC()
		view.ApprovedAt = &approvedAt
	}
	return view
}

type nomineeRow struct {
	ID          string `gorm:"column:id;primaryKey"`
	DisplayName string `gorm:"column:display_name"`
}

func (nomineeRow) TableName() string {
	return "nominees"
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

func outboxModelFromEntry(entry outbox.Entry) *outboxModel {
	return &outboxModel{
		ID:            entry.EntryID,
		EventType:     string(entry.EventType),
		Payload:       append([]byte(nil), entry.Payload...),
		Status:        string(entry.Status),
		AttemptCount:  entry.AttemptCount,
		LastError:     entry.LastError,
		ClaimToken:    entry.ClaimToken,
		NextAttemptAt: entry.NextAttemptAt.UTC(),
		CreatedAt:     entry.CreatedAt.UTC(),
		UpdatedAt:     entry.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.NominationProjection = (*Repository)(nil)
