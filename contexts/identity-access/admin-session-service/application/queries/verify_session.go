package queries

import (
	"context"
	"time"

	"accolade/contexts/identity-access/admin-session-service/domain/entities"
	domainerrors "accolade/contexts/identity-access/admin-session-service/domain/errors"
	"accolade/contexts/identity-access/admin-session-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// VerifySessionUseCase checks a bearer token's signature and expiry and
// extracts the admin principal. No storage lookup takes place.
type VerifySessionUseCase struct {
	SigningKey []byte
	Clock      ports.Clock
}

func (uc VerifySessionUseCase) Verify(_ context.Context, tokenString string) (entities.Principal, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if uc.Clock != nil {
		options = append(options, jwt.WithTimeFunc(func() time.Time { return uc.Clock.Now().UTC() }))
	}

	token, err := jwt.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return uc.SigningKey, nil
	}, options...)
	if err != nil || !token.Valid {
		return entities.Principal{}, domainerrors.ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entities.Principal{}, domainerrors.ErrInvalidSession
	}
	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if subject == "" || role != "admin" {
		return entities.Principal{}, domainerrors.ErrInvalidSession
	}
	return entities.Principal{ActorID: subject, Role: role}, nil
}
