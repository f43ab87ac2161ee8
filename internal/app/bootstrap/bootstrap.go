// Package bootstrap is the composition root. Construction and wiring stay
// here so module code does not depend on config or process concerns.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	nominationservice "accolade/contexts/award-lifecycle/nomination-service"
	nominationpostgres "accolade/contexts/award-lifecycle/nomination-service/adapters/postgres"
	nominationports "accolade/contexts/award-lifecycle/nomination-service/ports"
	syncdispatcher "accolade/contexts/award-lifecycle/sync-dispatcher"
	syncpostgres "accolade/contexts/award-lifecycle/sync-dispatcher/adapters/postgres"
	syncworkers "accolade/contexts/award-lifecycle/sync-dispatcher/application/workers"
	voteledger "accolade/contexts/award-lifecycle/vote-ledger"
	votepostgres "accolade/contexts/award-lifecycle/vote-ledger/adapters/postgres"
	voteports "accolade/contexts/award-lifecycle/vote-ledger/ports"
	adminsession "accolade/contexts/identity-access/admin-session-service"
	"accolade/internal/platform/config"
	"accolade/internal/platform/crm"
	"accolade/internal/platform/db"
	"accolade/internal/platform/httpserver"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	dispatcher   syncworkers.Dispatcher
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.AdminJWTSecret) == "" {
		return nil, errors.New("ADMIN_JWT_SECRET is required")
	}

	pg, err := db.Connect(context.Background(), cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	nominationRepo := nominationpostgres.NewRepository(pg.DB, logger)
	nominationModule := nominationservice.NewModule(nominationservice.Dependencies{
		Repository: nominationRepo,
		Settings: nominationpostgres.StaticSettings{
			Settings: nominationports.Settings{
				NominationsOpen: cfg.EnableNominations,
				PublicBaseURL:   cfg.PublicBaseURL,
			},
		},
		Clock:  nominationpostgres.SystemClock{},
		IDGen:  nominationpostgres.UUIDGenerator{},
		Logger: logger,
	})

	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	voteModule := voteledger.NewModule(voteledger.Dependencies{
		Votes:       voteRepo,
		Nominations: voteRepo,
		Settings: votepostgres.StaticSettings{
			Settings: voteports.Settings{VotingOpen: cfg.EnableVoting},
		},
		Clock:  votepostgres.SystemClock{},
		IDGen:  votepostgres.UUIDGenerator{},
		Logger: logger,
	})

	collaborator := crm.NewCollaborator()
	syncModule := syncdispatcher.NewModule(syncdispatcher.Dependencies{
		Outbox:                syncpostgres.NewRepository(pg.DB, logger),
		CRM:                   collaborator,
		Email:                 collaborator,
		Clock:                 syncpostgres.SystemClock{},
		IDGen:                 syncpostgres.UUIDGenerator{},
		BatchSize:             cfg.DispatchBatchSize,
		WorkerCount:           cfg.DispatchWorkerCount,
		CallTimeout:           cfg.DispatchCallTimeout,
		MaxAttempts:           cfg.DispatchMaxAttempts,
		ValidationMaxAttempts: cfg.ValidationMaxAttempts,
		BaseBackoff:           cfg.DispatchBaseBackoff,
		MaxBackoff:            cfg.DispatchMaxBackoff,
		ClaimExpiry:           cfg.DispatchClaimExpiry,
		Logger:                logger,
	})

	sessionModule := adminsession.NewModule(adminsession.Dependencies{
		APIKey:     cfg.AdminAPIKey,
		SigningKey: []byte(cfg.AdminJWTSecret),
		SessionTTL: cfg.AdminSessionTTL,
		Logger:     logger,
	})

	server := httpserver.New(nominationModule, voteModule, syncModule, sessionModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(context.Background(), cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	collaborator := crm.NewCollaborator()
	return &WorkerApp{
		postgres: pg,
		dispatcher: syncworkers.Dispatcher{
			Outbox:                syncpostgres.NewRepository(pg.DB, logger),
			CRM:                   collaborator,
			Email:                 collaborator,
			Clock:                 syncpostgres.SystemClock{},
			IDGen:                 syncpostgres.UUIDGenerator{},
			BatchSize:             cfg.DispatchBatchSize,
			WorkerCount:           cfg.DispatchWorkerCount,
			CallTimeout:           cfg.DispatchCallTimeout,
			MaxAttempts:           cfg.DispatchMaxAttempts,
			ValidationMaxAttempts: cfg.ValidationMaxAttempts,
			BaseBackoff:           cfg.DispatchBaseBackoff,
			MaxBackoff:            cfg.DispatchMaxBackoff,
			ClaimExpiry:           cfg.DispatchClaimExpiry,
			Logger:                logger,
		},
		pollInterval: cfg.DispatchInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.dispatcher.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
