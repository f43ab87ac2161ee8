package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"accolade/contexts/award-lifecycle/nomination-service/application/commands"
	"accolade/contexts/award-lifecycle/nomination-service/application/queries"
	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	httptransport "accolade/contexts/award-lifecycle/nomination-service/transport/http"
)

type Handler struct {
	Submissions commands.SubmitNominationUseCase
	Reviews     commands.ReviewNominationUseCase
	VoteAdjust  commands.AdjustVotesUseCase
	Overrides   commands.ForceSetStateUseCase
	Queries     queries.NominationQueries
	Logger      *slog.Logger
}

func (h Handler) SubmitNominationHandler(
	ctx context.Context,
	req httptransport.SubmitNominationRequest,
) (httptransport.NominationResponse, error) {
	result, err := h.Submissions.Submit(ctx, commands.SubmitNominationCommand{
		NominatorEmail:       req.Nominator.Email,
		NominatorDisplayName: req.Nominator.DisplayName,
		NominatorCompany:     req.Nominator.Company,
		NominatorLinkedInURL: req.Nominator.LinkedInURL,
		NominatorCountry:     req.Nominator.Country,
		NomineeKind:          entities.NomineeKind(req.Nominee.Kind),
		NomineeDisplayName:   req.Nominee.DisplayName,
		NomineeFirstName:     req.Nominee.FirstName,
		NomineeLastName:      req.Nominee.LastName,
		NomineeCompanyName:   req.Nominee.CompanyName,
		NomineeCompanyDomain: req.Nominee.CompanyDomain,
		NomineeContactEmail:  req.Nominee.ContactEmail,
		NomineeAssetURL:      req.Nominee.AssetURL,
		NomineePitch:         req.Nominee.Pitch,
		CategoryGroupID:      req.Category.CategoryGroupID,
		SubcategoryID:        req.Category.SubcategoryID,
	})
	if err != nil {
		return httptransport.NominationResponse{}, err
	}
	detail, err := h.Queries.GetNomination(ctx, result.NominationID)
	if err != nil {
		return httptransport.NominationResponse{}, err
	}
	return mapNomination(detail.Nomination), nil
}

func (h Handler) GetNominationHandler(ctx context.Context, nominationID string) (httptransport.NominationDetailResponse, error) {
	detail, err := h.Queries.GetNomination(ctx, nominationID)
	if err != nil {
		return httptransport.NominationDetailResponse{}, err
	}
	return httptransport.NominationDetailResponse{
		Nomination: mapNomination(detail.Nomination),
		Nominee:    mapNominee(detail.Nominee),
	}, nil
}

func (h Handler) ListNominationsHandler(ctx context.Context, state string) (httptransport.NominationListResponse, error) {
	nominations, err := h.Queries.ListByState(ctx, entities.NominationState(state))
	if err != nil {
		return httptransport.NominationListResponse{}, err
	}
	items := make([]httptransport.NominationResponse, 0, len(nominations))
	for _, nomination := range nominations {
		items = append(items, mapNomination(nomination))
	}
	return httptransport.NominationListResponse{Items: items}, nil
}

func (h Handler) ApproveNominationHandler(
	ctx context.Context,
	nominationID string,
	actorID string,
	req httptransport.ApproveNominationRequest,
) (httptransport.ApproveNominationResponse, error) {
	live, err := h.Reviews.Approve(ctx, commands.ApproveNominationCommand{
		NominationID:    nominationID,
		ActorID:         actorID,
		LiveURLOverride: req.LiveURLOverride,
	})
	if err != nil {
		return httptransport.ApproveNominationResponse{}, err
	}
	detail, err := h.Queries.GetNomination(ctx, nominationID)
	if err != nil {
		return httptransport.ApproveNominationResponse{}, err
	}
	approvedAt := ""
	if detail.Nomination.ApprovedAt != nil {
		approvedAt = detail.Nomination.ApprovedAt.UTC().Format(time.RFC3339)
	}
	return httptransport.ApproveNominationResponse{
		NominationID: detail.Nomination.NominationID,
		State:        string(detail.Nomination.State),
		LiveSlug:     live.Slug,
		LiveURL:      live.URL,
		ApprovedAt:   approvedAt,
	}, nil
}

func (h Handler) RejectNominationHandler(
	ctx context.Context,
	nominationID string,
	actorID string,
	req httptransport.RejectNominationRequest,
) error {
	return h.Reviews.Reject(ctx, commands.RejectNominationCommand{
		NominationID: nominationID,
		ActorID:      actorID,
		Reason:       req.Reason,
	})
}

func (h Handler) AdjustVotesHandler(
	ctx context.Context,
	nominationID string,
	actorID string,
	req httptransport.AdjustVotesRequest,
) error {
	return h.VoteAdjust.Adjust(ctx, commands.AdjustVotesCommand{
		NominationID:    nominationID,
		ActorID:         actorID,
		AdditionalVotes: req.AdditionalVotes,
	})
}

func (h Handler) ForceStateHandler(
	ctx context.Context,
	nominationID string,
	actorID string,
	req httptransport.ForceStateRequest,
) error {
	return h.Overrides.ForceSetState(ctx, commands.ForceSetStateCommand{
		NominationID: nominationID,
		ActorID:      actorID,
		ToState:      entities.NominationState(req.State),
		Reason:       req.Reason,
	})
}

func mapNomination(nomination entities.Nomination) httptransport.NominationResponse {
	resp := httptransport.NominationResponse{
		NominationID:    nomination.NominationID,
		NominatorID:     nomination.NominatorID,
		NomineeID:       nomination.NomineeID,
		CategoryGroupID: nomination.CategoryGroupID,
		SubcategoryID:   nomination.SubcategoryID,
		State:           string(nomination.State),
		AdditionalVotes: nomination.AdditionalVotes,
		RejectionReason: nomination.RejectionReason,
		CreatedAt:       nomination.CreatedAt.UTC().Format(time.RFC3339),
	}
	if nomination.ApprovedAt != nil {
		resp.ApprovedAt = nomination.ApprovedAt.UTC().Format(time.RFC3339)
	}
	if nomination.RejectedAt != nil {
		resp.RejectedAt = nomination.RejectedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapNominee(nominee entities.Nominee) httptransport.NomineeResponse {
	return httptransport.NomineeResponse{
		NomineeID:     nominee.NomineeID,
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
	}
}
