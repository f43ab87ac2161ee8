package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "accolade/contexts/award-lifecycle/nomination-service/application"
	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	"accolade/contexts/award-lifecycle/nomination-service/domain/slug"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
	"accolade/internal/shared/events"
	"accolade/internal/shared/outbox"
)

type ApproveNominationCommand struct {
	NominationID    string
	ActorID         string
	LiveURLOverride string
}

type RejectNominationCommand struct {
	NominationID string
	ActorID      string
	Reason       string
}

// ReviewNominationUseCase drives the submitted->approved/rejected transitions.
// Approve is idempotent: re-approving returns the stored live identity and
// never enqueues a second nominee_sync entry.
type ReviewNominationUseCase struct {
	Repository ports.Repository
	Settings   ports.SettingsSource
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ReviewNominationUseCase) Approve(ctx context.Context, cmd ApproveNominationCommand) (entities.LiveIdentity, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.LiveIdentity{}, domainerrors.ErrUnauthorizedActor
	}

	nomination, err := uc.Repository.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return entities.LiveIdentity{}, err
	}
	nominee, err := uc.Repository.GetNominee(ctx, nomination.NomineeID)
	if err != nil {
		return entities.LiveIdentity{}, err
	}

	switch nomination.State {
	case entities.NominationStateApproved:
		// Already approved: return the stored identity, no side effects.
		return entities.LiveIdentity{Slug: nominee.LiveSlug, URL: nominee.LiveURL}, nil
	case entities.NominationStateRejected:
		return entities.LiveIdentity{}, domainerrors.ErrInvalidStateTransition
	}

	// The asset/pitch invariant is checked at submit, but admin edits can
	// strip fields before review; re-check so approval never publishes an
	// incomplete nominee.
	if !nominee.ValidateForSubmit() {
		return entities.LiveIdentity{}, domainerrors.ErrInvalidNominationInput
	}

	now := uc.now()
	live, err := uc.resolveLiveIdentity(ctx, nominee, nomination, strings.TrimSpace(cmd.LiveURLOverride))
	if err != nil {
		return entities.LiveIdentity{}, err
	}

	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.LiveIdentity{}, err
	}
	buildEntry := func(liveURL string) (outbox.Entry, error) {
		return newSyncEntry(entryID, outbox.EventNomineeSync, events.NomineeSyncPayload{
			NomineeID:     nominee.NomineeID,
			Kind:          string(nominee.Kind),
			DisplayName:   nominee.DisplayName,
			ContactEmail:  nominee.ContactEmail,
			CompanyName:   nominee.CompanyName,
			CompanyDomain: nominee.CompanyDomain,
			LiveURL:       liveURL,
			SubcategoryID: nomination.SubcategoryID,
			ApprovedAt:    now,
		}, now)
	}

	entry, err := buildEntry(live.URL)
	if err != nil {
		return entities.LiveIdentity{}, err
	}

	transitioned, err := uc.Repository.ApproveNomination(ctx, nomination.NominationID, now, live, entry)
	if errors.Is(err, domainerrors.ErrSlugTaken) {
		// Another approval took the slug between the existence check and the
		// write. Switch to the id-suffixed slug and try once more.
		live, err = uc.fallbackLiveIdentity(ctx, nominee, nomination, strings.TrimSpace(cmd.LiveURLOverride))
		if err != nil {
			return entities.LiveIdentity{}, err
		}
		entry, err = buildEntry(live.URL)
		if err != nil {
			return entities.LiveIdentity{}, err
		}
		transitioned, err = uc.Repository.ApproveNomination(ctx, nomination.NominationID, now, live, entry)
	}
	if err != nil {
		return entities.LiveIdentity{}, err
	}
	if !transitioned {
		// Lost a race: someone else moved the state first. Re-read and treat
		// a concurrent approval as success, anything else as an illegal
		// transition.
		current, err := uc.Repository.GetNomination(ctx, nomination.NominationID)
		if err != nil {
			return entities.LiveIdentity{}, err
		}
		if current.State == entities.NominationStateApproved {
			storedNominee, err := uc.Repository.GetNominee(ctx, current.NomineeID)
			if err != nil {
				return entities.LiveIdentity{}, err
			}
			return entities.LiveIdentity{Slug: storedNominee.LiveSlug, URL: storedNominee.LiveURL}, nil
		}
		return entities.LiveIdentity{}, domainerrors.ErrInvalidStateTransition
	}

	logger.Info("nomination approved",
		"event", "nomination_approved",
		"module", "award-lifecycle/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"nominee_id", nominee.NomineeID,
		"live_slug", live.Slug,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return live, nil
}

func (uc ReviewNominationUseCase) Reject(ctx context.Context, cmd RejectNominationCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}

	nomination, err := uc.Repository.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return err
	}
	if nomination.State != entities.NominationStateSubmitted {
		return domainerrors.ErrInvalidStateTransition
	}

	transitioned, err := uc.Repository.RejectNomination(ctx, nomination.NominationID, uc.now(), strings.TrimSpace(cmd.Reason))
	if err != nil {
		return err
	}
	if !transitioned {
		return domainerrors.ErrInvalidStateTransition
	}

	logger.Info("nomination rejected",
		"event", "nomination_rejected",
		"module", "award-lifecycle/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}

// resolveLiveIdentity derives the public slug from the nominee display name,
// falling back to an id-based suffix on collision.
func (uc ReviewNominationUseCase) resolveLiveIdentity(
	ctx context.Context,
	nominee entities.Nominee,
	nomination entities.Nomination,
	liveURLOverride string,
) (entities.LiveIdentity, error) {
	base := baseSlug(nominee)
	candidate := base
	exists, err := uc.Repository.SlugExists(ctx, candidate)
	if err != nil {
		return entities.LiveIdentity{}, err
	}
	if exists {
		candidate = slug.Disambiguate(base, nominee.NomineeID)
	}
	return uc.liveIdentityFor(ctx, nomination, candidate, liveURLOverride)
}

// fallbackLiveIdentity skips the existence check and goes straight to the
// id-suffixed slug. Used when the plain slug lost a write race.
func (uc ReviewNominationUseCase) fallbackLiveIdentity(
	ctx context.Context,
	nominee entities.Nominee,
	nomination entities.Nomination,
	liveURLOverride string,
) (entities.LiveIdentity, error) {
	return uc.liveIdentityFor(ctx, nomination, slug.Disambiguate(baseSlug(nominee), nominee.NomineeID), liveURLOverride)
}

func (uc ReviewNominationUseCase) liveIdentityFor(
	ctx context.Context,
	nomination entities.Nomination,
	candidate string,
	liveURLOverride string,
) (entities.LiveIdentity, error) {
	url := liveURLOverride
	if url == "" {
		baseURL := "https://awards.example.com"
		if settings, err := uc.Settings.Current(ctx); err == nil && strings.TrimSpace(settings.PublicBaseURL) != "" {
			baseURL = strings.TrimRight(strings.TrimSpace(settings.PublicBaseURL), "/")
		}
		url = baseURL + "/" + nomination.SubcategoryID + "/" + candidate
	}
	return entities.LiveIdentity{Slug: candidate, URL: url}, nil
}

func baseSlug(nominee entities.Nominee) string {
	base := slug.Make(nominee.DisplayName)
	if base == "" {
		base = slug.Disambiguate("nominee", nominee.NomineeID)
	}
	return base
}

func (uc ReviewNominationUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
