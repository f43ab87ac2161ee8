package commands

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"accolade/contexts/identity-access/admin-session-service/domain/entities"
	domainerrors "accolade/contexts/identity-access/admin-session-service/domain/errors"
	"accolade/contexts/identity-access/admin-session-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

// IssueSessionUseCase exchanges the shared admin API key for a signed session
// token. The API key compare is constant-time.
type IssueSessionUseCase struct {
	APIKey     string
	SigningKey []byte
	TTL        time.Duration
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc IssueSessionUseCase) Issue(ctx context.Context, apiKey string) (entities.Session, error) {
	presented := strings.TrimSpace(apiKey)
	if uc.APIKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(uc.APIKey)) != 1 {
		return entities.Session{}, domainerrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	ttl := uc.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	expiresAt := now.Add(ttl)

	sessionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Session{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  adminRole,
		"role": adminRole,
		"jti":  sessionID,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString(uc.SigningKey)
	if err != nil {
		return entities.Session{}, err
	}

	if uc.Logger != nil {
		uc.Logger.Info("admin session issued",
			"event", "admin_session_issued",
			"module", "identity-access/admin-session-service",
			"layer", "application",
			"session_id", sessionID,
			"expires_at", expiresAt,
		)
	}
	return entities.Session{
		Token:     signed,
		ActorID:   adminRole,
		ExpiresAt: expiresAt,
	}, nil
}
