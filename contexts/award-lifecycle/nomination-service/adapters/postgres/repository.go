package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
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

func (r *Repository) CreateNomination(
	ctx context.Context,
	nominator entities.Nominator,
	nominee entities.Nominee,
	nomination entities.Nomination,
	entry outbox.Entry,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(nominatorModelFromEntity(nominator)).Error; err != nil {
			return err
		}
		if err := tx.Create(nomineeModelFromEntity(nominee)).Error; err != nil {
			return err
		}
		if err := tx.Create(nominationModelFromEntity(nomination)).Error; err != nil {
			return err
		}
		return tx.Create(outboxModelFromEntry(entry)).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateNomination
		}
		return r.logError("nomination_repo_create_failed", err,
			"nomination_id", nomination.NominationID,
			"subcategory_id", nomination.SubcategoryID,
		)
	}
	return nil
}

func (r *Repository) GetNomination(ctx context.Context, nominationID string) (entities.Nomination, error) {
	var row nominationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(nominationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Nomination{}, domainerrors.ErrNominationNotFound
		}
		return entities.Nomination{}, r.logError("nomination_repo_get_failed", err, "nomination_id", strings.TrimSpace(nominationID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetNominee(ctx context.Context, nomineeID string) (entities.Nominee, error) {
	var row nomineeModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(nomineeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Nominee{}, domainerrors.ErrNomineeNotFound
		}
		return entities.Nominee{}, r.logError("nomination_repo_get_nominee_failed", err, "nominee_id", strings.TrimSpace(nomineeID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListNominationsByState(ctx context.Context, state entities.NominationState) ([]entities.Nomination, error) {
	var rows []nominationModel
	if err := r.db.WithContext(ctx).
		Where("state = ?", string(state)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("nomination_repo_list_by_state_failed", err, "state", string(state))
	}
	items := make([]entities.Nomination, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) FindActiveNomination(ctx context.Context, nomineeIdentity, subcategoryID string) (entities.Nomination, bool, error) {
	var row nominationModel
	err := r.db.WithContext(ctx).
		Where("nominee_identity = ?", strings.TrimSpace(nomineeIdentity)).
		Where("subcategory_id = ?", strings.TrimSpace(subcategoryID)).
		Where("state <> ?", string(entities.NominationStateRejected)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Nomination{}, false, nil
		}
		return entities.Nomination{}, false, r.logError("nomination_repo_find_active_failed", err,
			"subcategory_id", strings.TrimSpace(subcategoryID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ApproveNomination(
	ctx context.Context,
	nominationID string,
	approvedAt time.Time,
	live entities.LiveIdentity,
	entry outbox.Entry,
) (bool, error) {
	transitioned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The state check is part of the same atomic update as the state
		// write, so concurrent approvals cannot both transition.
		result := tx.Model(&nominationModel{}).
			Where("id = ?", strings.TrimSpace(nominationID)).
			Where("state = ?", string(entities.NominationStateSubmitted)).
			Updates(map[string]any{
				"state":       string(entities.NominationStateApproved),
				"approved_at": approvedAt.UTC(),
				"updated_at":  approvedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		transitioned = true

		var nomination nominationModel
		if err := tx.Where("id = ?", strings.TrimSpace(nominationID)).First(&nomination).Error; err != nil {
			return err
		}
		if err := tx.Model(&nomineeModel{}).
			Where("id = ?", nomination.NomineeID).
			Updates(map[string]any{
				"live_slug":  live.Slug,
				"live_url":   live.URL,
				"updated_at": approvedAt.UTC(),
			}).Error; err != nil {
			return err
		}
		return tx.Create(outboxModelFromEntry(entry)).Error
	})
	if err != nil {
		// The unique index on nominees.live_slug closes the window between
		// the slug existence check and this write.
		if isUniqueViolation(err) {
			return false, domainerrors.ErrSlugTaken
		}
		return false, r.logError("nomination_repo_approve_failed", err, "nomination_id", strings.TrimSpace(nominationID))
	}
	return transitioned, nil
}

func (r *Repository) RejectNomination(ctx context.Context, nominationID string, rejectedAt time.Time, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&nominationModel{}).
		Where("id = ?", strings.TrimSpace(nominationID)).
		Where("state = ?", string(entities.NominationStateSubmitted)).
		Updates(map[string]any{
			"state":            string(entities.NominationStateRejected),
			"rejected_at":      rejectedAt.UTC(),
			"rejection_reason": strings.TrimSpace(reason),
			"updated_at":       rejectedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("nomination_repo_reject_failed", result.Error, "nomination_id", strings.TrimSpace(nominationID))
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) SetAdditionalVotes(ctx context.Context, nominationID string, votes int, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&nominationModel{}).
		Where("id = ?", strings.TrimSpace(nominationID)).
		Updates(map[string]any{
			"additional_votes": votes,
			"updated_at":       updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("nomination_repo_set_additional_votes_failed", result.Error,
			"nomination_id", strings.TrimSpace(nominationID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNominationNotFound
	}
	return nil
}

func (r *Repository) ForceSetState(ctx context.Context, nomination entities.Nomination, audit entities.StateOverrideAudit) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"state":      string(nomination.State),
			"updated_at": nomination.UpdatedAt.UTC(),
		}
		if nomination.ApprovedAt != nil {
			updates["approved_at"] = nomination.ApprovedAt.UTC()
		}
		if nomination.RejectedAt != nil {
			updates["rejected_at"] = nomination.RejectedAt.UTC()
		}
		result := tx.Model(&nominationModel{}).
			Where("id = ?", nomination.NominationID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNominationNotFound
		}
		return tx.Create(auditModelFromEntity(audit)).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNominationNotFound) {
			return err
		}
		return r.logError("nomination_repo_force_state_failed", err, "nomination_id", nomination.NominationID)
	}
	return nil
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&nomineeModel{}).
		Where("live_slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, r.logError("nomination_repo_slug_exists_failed", err, "live_slug", slug)
	}
	return count > 0, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "award-lifecycle/nomination-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("nomination repository operation failed", fields...)
	return err
}

type nominatorModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Email       string    `gorm:"column:email"`
	DisplayName string    `gorm:"column:display_name"`
	Company     string    `gorm:"column:company"`
	LinkedInURL string    `gorm:"column:linkedin_url"`
	Country     string    `gorm:"column:country"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (nominatorModel) TableName() string {
	return "nominators"
}

func nominatorModelFromEntity(nominator entities.Nominator) *nominatorModel {
	return &nominatorModel{
		ID:          nominator.NominatorID,
		Email:       nominator.Email,
		DisplayName: nominator.DisplayName,
		Company:     nominator.Company,
		LinkedInURL: nominator.LinkedInURL,
		Country:     nominator.Country,
		CreatedAt:   nominator.CreatedAt.UTC(),
	}
}

type nomineeModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Kind          string    `gorm:"column:kind"`
	DisplayName   string    `gorm:"column:display_name"`
	FirstName     string    `gorm:"column:first_name"`
	LastName      string    `gorm:"column:last_name"`
	CompanyName   string    `gorm:"column:company_name"`
	CompanyDomain string    `gorm:"column:company_domain"`
	ContactEmail  string    `gorm:"column:contact_email"`
	AssetURL      string    `gorm:"column:asset_url"`
	Pitch         string    `gorm:"column:pitch"`
	LiveSlug      string    `gorm:"column:live_slug;uniqueIndex:idx_nominees_live_slug,where:live_slug <> ''"`
	LiveURL       string    `gorm:"column:live_url"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (nomineeModel) TableName() string {
	return "nominees"
}

func nomineeModelFromEntity(nominee entities.Nominee) *nomineeModel {
	return &nomineeModel{
		ID:            nominee.NomineeID,
		Kind:          string(nominee.Kind),
		DisplayName:   nominee.DisplayName,
		FirstName:     nominee.FirstName,
		LastName:      nominee.LastName,
		CompanyName:   nominee.CompanyName,
		CompanyDomain: nominee.CompanyDomain,
		ContactEmail:  nominee.ContactEmail,
		AssetURL:      nominee.AssetURL,
		Pitch:         nominee.Pitch,
		LiveSlug:      nominee.LiveSlug,
		LiveURL:       nominee.LiveURL,
		CreatedAt:     nominee.CreatedAt.UTC(),
		UpdatedAt:     nominee.UpdatedAt.UTC(),
	}
}

func (m nomineeModel) toEntity() entities.Nominee {
	return entities.Nominee{
		NomineeID:     m.ID,
		Kind:          entities.NomineeKind(m.Kind),
		DisplayName:   m.DisplayName,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		CompanyName:   m.CompanyName,
		CompanyDomain: m.CompanyDomain,
		ContactEmail:  m.ContactEmail,
		AssetURL:      m.AssetURL,
		Pitch:         m.Pitch,
		LiveSlug:      m.LiveSlug,
		LiveURL:       m.LiveURL,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type nominationModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	NominatorID     string     `gorm:"column:nominator_id"`
	NomineeID       string     `gorm:"column:nominee_id"`
	NomineeIdentity string     `gorm:"column:nominee_identity"`
	CategoryGroupID string     `gorm:"column:category_group_id"`
	SubcategoryID   string     `gorm:"column:subcategory_id"`
	State           string     `gorm:"column:state"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	AdditionalVotes int        `gorm:"column:additional_votes"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (nominationModel) TableName() string {
	return "nominations"
}

func nominationModelFromEntity(nomination entities.Nomination) *nominationModel {
	return &nominationModel{
		ID:              nomination.NominationID,
		NominatorID:     nomination.NominatorID,
		NomineeID:       nomination.NomineeID,
		NomineeIdentity: nomination.NomineeIdentity,
		CategoryGroupID: nomination.CategoryGroupID,
		SubcategoryID:   nomination.SubcategoryID,
		State:           string(nomination.State),
		ApprovedAt:      normalizeOptionalTime(nomination.ApprovedAt),
		RejectedAt:      normalizeOptionalTime(nomination.RejectedAt),
		RejectionReason: nomination.RejectionReason,
		AdditionalVotes: nomination.AdditionalVotes,
		CreatedAt:       nomination.CreatedAt.UTC(),
		UpdatedAt:       nomination.UpdatedAt.UTC(),
	}
}

func (m nominationModel) toEntity() entities.Nomination {
	return entities.Nomination{
		NominationID:    m.ID,
		NominatorID:     m.NominatorID,
		NomineeID:       m.NomineeID,
		NomineeIdentity: m.NomineeIdentity,
		CategoryGroupID: m.CategoryGroupID,
		SubcategoryID:   m.SubcategoryID,
		State:           entities.NominationState(m.State),
		ApprovedAt:      normalizeOptionalTime(m.ApprovedAt),
		RejectedAt:      normalizeOptionalTime(m.RejectedAt),
		RejectionReason: m.RejectionReason,
		AdditionalVotes: m.AdditionalVotes,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type auditModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	NominationID string    `gorm:"column:nomination_id"`
	FromState    string    `gorm:"column:from_state"`
	ToState      string    `gorm:"column:to_state"`
	ActorID      string    `gorm:"column:actor_id"`
	Reason       string    `gorm:"column:reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (auditModel) TableName() string {
	return "nomination_state_overrides"
}

func auditModelFromEntity(audit entities.StateOverrideAudit) *auditModel {
	return &auditModel{
		ID:           audit.AuditID,
		NominationID: audit.NominationID,
		FromState:    string(audit.FromState),
		ToState:      string(audit.ToState),
		ActorID:      audit.ActorID,
		Reason:       audit.Reason,
		CreatedAt:    audit.CreatedAt.UTC(),
	}
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

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
