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
)

type ForceSetStateCommand struct {
	NominationID string
	ActorID      string
	ToState      entities.NominationState
	Reason       string
}

// ForceSetStateUseCase is the explicit admin override outside the modeled
// transitions. It bypasses the monotonicity invariant but always writes an
// audit row in the same unit of work, and never enqueues sync.
type ForceSetStateUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ForceSetStateUseCase) ForceSetState(ctx context.Context, cmd ForceSetStateCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	switch cmd.ToState {
	case entities.NominationStateSubmitted, entities.NominationStateApproved, entities.NominationStateRejected:
	default:
		return domainerrors.ErrInvalidOverrideState
	}

	nomination, err := uc.Repository.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}

	auditID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	audit := entities.StateOverrideAudit{
		AuditID:      auditID,
		NominationID: nomination.NominationID,
		FromState:    nomination.State,
		ToState:      cmd.ToState,
		ActorID:      strings.TrimSpace(cmd.ActorID),
		Reason:       strings.TrimSpace(cmd.Reason),
		CreatedAt:    now,
	}

	fromState := nomination.State
	nomination.State = cmd.ToState
	nomination.UpdatedAt = now
	if cmd.ToState == entities.NominationStateApproved && nomination.ApprovedAt == nil {
		nomination.ApprovedAt = &now
	}
	if cmd.ToState == entities.NominationStateRejected && nomination.RejectedAt == nil {
		nomination.RejectedAt = &now
	}

	if err := uc.Repository.ForceSetState(ctx, nomination, audit); err != nil {
		return err
	}

	logger.Warn("nomination state force-set",
		"event", "nomination_state_forced",
		"module", "award-lifecycle/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"from_state", string(fromState),
		"to_state", string(cmd.ToState),
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}
