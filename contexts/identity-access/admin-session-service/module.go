package adminsession

import (
	"log/slog"
	"time"

	httpadapter "accolade/contexts/identity-access/admin-session-service/adapters/http"
	"accolade/contexts/identity-access/admin-session-service/adapters/system"
	"accolade/contexts/identity-access/admin-session-service/application/commands"
	"accolade/contexts/identity-access/admin-session-service/application/queries"
	"accolade/contexts/identity-access/admin-session-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	APIKey     string
	SigningKey []byte
	SessionTTL time.Duration
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	clock := deps.Clock
	if clock == nil {
		clock = system.SystemClock{}
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = system.UUIDGenerator{}
	}
	return Module{
		Handler: httpadapter.Handler{
			Sessions: commands.IssueSessionUseCase{
				APIKey:     deps.APIKey,
				SigningKey: deps.SigningKey,
				TTL:        deps.SessionTTL,
				Clock:      clock,
				IDGen:      idGen,
				Logger:     deps.Logger,
			},
			Verifier: queries.VerifySessionUseCase{
				SigningKey: deps.SigningKey,
				Clock:      clock,
			},
			Logger: deps.Logger,
		},
	}
}
