package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "accolade/contexts/award-lifecycle/nomination-service/application"
	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
	"accolade/internal/shared/events"
	"accolade/internal/shared/outbox"
)

// SubmitNominationCommand is the write-model input for nomination intake.
type SubmitNominationCommand struct {
	NominatorEmail       string
	NominatorDisplayName string
	NominatorCompany     string
	NominatorLinkedInURL string
	NominatorCountry     string

	NomineeKind          entities.NomineeKind
	NomineeDisplayName   string
	NomineeFirstName     string
	NomineeLastName      string
	NomineeCompanyName   string
	NomineeCompanyDomain string
	NomineeContactEmail  string
	NomineeAssetURL      string
	NomineePitch         string

	CategoryGroupID string
	SubcategoryID   string
}

type SubmitNominationResult struct {
	NominationID string
	NominatorID  string
	NomineeID    string
}

// SubmitNominationUseCase validates intake and persists nominator, nominee,
// nomination, and the nominator_sync outbox entry as one unit of work.
type SubmitNominationUseCase struct {
	Repository ports.Repository
	Settings   ports.SettingsSource
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitNominationUseCase) Submit(ctx context.Context, cmd SubmitNominationCommand) (SubmitNominationResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	settings, err := uc.Settings.Current(ctx)
	if err != nil {
		return SubmitNominationResult{}, err
	}
	if !settings.NominationsOpen {
		return SubmitNominationResult{}, domainerrors.ErrNominationsClosed
	}

	if strings.TrimSpace(cmd.NominatorEmail) == "" ||
		strings.TrimSpace(cmd.NominatorDisplayName) == "" ||
		strings.TrimSpace(cmd.CategoryGroupID) == "" ||
		strings.TrimSpace(cmd.SubcategoryID) == "" {
		logger.Warn("nomination submit validation failed",
			"event", "nomination_submit_validation_failed",
			"module", "award-lifecycle/nomination-service",
			"layer", "application",
			"subcategory_id", strings.TrimSpace(cmd.SubcategoryID),
		)
		return SubmitNominationResult{}, domainerrors.ErrInvalidNominationInput
	}

	now := uc.now()
	nominee := entities.Nominee{
		Kind:          cmd.NomineeKind,
		DisplayName:   strings.TrimSpace(cmd.NomineeDisplayName),
		FirstName:     strings.TrimSpace(cmd.NomineeFirstName),
		LastName:      strings.TrimSpace(cmd.NomineeLastName),
		CompanyName:   strings.TrimSpace(cmd.NomineeCompanyName),
		CompanyDomain: strings.TrimSpace(cmd.NomineeCompanyDomain),
		ContactEmail:  strings.ToLower(strings.TrimSpace(cmd.NomineeContactEmail)),
		AssetURL:      strings.TrimSpace(cmd.NomineeAssetURL),
		Pitch:         strings.TrimSpace(cmd.NomineePitch),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if nominee.Kind == entities.NomineeKindCompany && nominee.DisplayName == "" {
		nominee.DisplayName = nominee.CompanyName
	}
	if !nominee.ValidateForSubmit() {
		logger.Warn("nominee validation failed",
			"event", "nomination_submit_nominee_invalid",
			"module", "award-lifecycle/nomination-service",
			"layer", "application",
			"kind", string(cmd.NomineeKind),
			"subcategory_id", strings.TrimSpace(cmd.SubcategoryID),
		)
		return SubmitNominationResult{}, domainerrors.ErrInvalidNominationInput
	}

	if _, exists, err := uc.Repository.FindActiveNomination(ctx, nominee.IdentityKey(), strings.TrimSpace(cmd.SubcategoryID)); err != nil {
		return SubmitNominationResult{}, err
	} else if exists {
		return SubmitNominationResult{}, domainerrors.ErrDuplicateNomination
	}

	nominatorID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitNominationResult{}, err
	}
	nomineeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitNominationResult{}, err
	}
	nominationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitNominationResult{}, err
	}
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitNominationResult{}, err
	}

	nominee.NomineeID = nomineeID
	nominator := entities.Nominator{
		NominatorID: nominatorID,
		Email:       strings.ToLower(strings.TrimSpace(cmd.NominatorEmail)),
		DisplayName: strings.TrimSpace(cmd.NominatorDisplayName),
		Company:     strings.TrimSpace(cmd.NominatorCompany),
		LinkedInURL: strings.TrimSpace(cmd.NominatorLinkedInURL),
		Country:     strings.TrimSpace(cmd.NominatorCountry),
		CreatedAt:   now,
	}
	nomination := entities.Nomination{
		NominationID:    nominationID,
		NominatorID:     nominatorID,
		NomineeID:       nomineeID,
		NomineeIdentity: nominee.IdentityKey(),
		CategoryGroupID: strings.TrimSpace(cmd.CategoryGroupID),
		SubcategoryID:   strings.TrimSpace(cmd.SubcategoryID),
		State:           entities.NominationStateSubmitted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	entry, err := newSyncEntry(entryID, outbox.EventNominatorSync, events.NominatorSyncPayload{
		NominatorID: nominator.NominatorID,
		Email:       nominator.Email,
		DisplayName: nominator.DisplayName,
		Company:     nominator.Company,
		LinkedInURL: nominator.LinkedInURL,
		Country:     nominator.Country,
		SubmittedAt: now,
	}, now)
	if err != nil {
		return SubmitNominationResult{}, err
	}

	if err := uc.Repository.CreateNomination(ctx, nominator, nominee, nomination, entry); err != nil {
		return SubmitNominationResult{}, err
	}

	logger.Info("nomination submitted",
		"event", "nomination_submitted",
		"module", "award-lifecycle/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"nominee_id", nominee.NomineeID,
		"subcategory_id", nomination.SubcategoryID,
		"kind", string(nominee.Kind),
	)
	return SubmitNominationResult{
		NominationID: nomination.NominationID,
		NominatorID:  nominator.NominatorID,
		NomineeID:    nominee.NomineeID,
	}, nil
}

func (uc SubmitNominationUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
