package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"accolade/contexts/identity-access/admin-session-service/application/commands"
	"accolade/contexts/identity-access/admin-session-service/application/queries"
	"accolade/contexts/identity-access/admin-session-service/domain/entities"
	httptransport "accolade/contexts/identity-access/admin-session-service/transport/http"
)

type Handler struct {
	Sessions commands.IssueSessionUseCase
	Verifier queries.VerifySessionUseCase
	Logger   *slog.Logger
}

func (h Handler) CreateSessionHandler(ctx context.Context, req httptransport.CreateSessionRequest) (httptransport.SessionResponse, error) {
	session, err := h.Sessions.Issue(ctx, req.APIKey)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// VerifyHandler is used by the server's admin middleware.
func (h Handler) VerifyHandler(ctx context.Context, token string) (entities.Principal, error) {
	return h.Verifier.Verify(ctx, token)
}
