package syncdispatcher

import (
	"log/slog"
	"time"

	httpadapter "accolade/contexts/award-lifecycle/sync-dispatcher/adapters/http"
	"accolade/contexts/award-lifecycle/sync-dispatcher/adapters/memory"
	"accolade/contexts/award-lifecycle/sync-dispatcher/application/queries"
	"accolade/contexts/award-lifecycle/sync-dispatcher/application/workers"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
)

type Module struct {
	Dispatcher workers.Dispatcher
	Handler    httpadapter.Handler
	Store      *memory.Store
}

type Dependencies struct {
	Outbox ports.OutboxRepository
	CRM    ports.CRMGateway
	Email  ports.EmailSender
	Clock  ports.Clock
	IDGen  ports.IDGenerator

	BatchSize             int
	WorkerCount           int
	CallTimeout           time.Duration
	MaxAttempts           int
	ValidationMaxAttempts int
	BaseBackoff           time.Duration
	MaxBackoff            time.Duration
	ClaimExpiry           time.Duration

	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dispatcher := workers.Dispatcher{
		Outbox:                deps.Outbox,
		CRM:                   deps.CRM,
		Email:                 deps.Email,
		Clock:                 deps.Clock,
		IDGen:                 deps.IDGen,
		BatchSize:             deps.BatchSize,
		WorkerCount:           deps.WorkerCount,
		CallTimeout:           deps.CallTimeout,
		MaxAttempts:           deps.MaxAttempts,
		ValidationMaxAttempts: deps.ValidationMaxAttempts,
		BaseBackoff:           deps.BaseBackoff,
		MaxBackoff:            deps.MaxBackoff,
		ClaimExpiry:           deps.ClaimExpiry,
		Logger:                deps.Logger,
	}
	health := queries.HealthUseCase{
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
	}
	return Module{
		Dispatcher: dispatcher,
		Handler: httpadapter.Handler{
			Health: health,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(crm ports.CRMGateway, email ports.EmailSender, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Outbox: store,
		CRM:    crm,
		Email:  email,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
