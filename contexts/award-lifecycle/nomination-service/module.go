package nominationservice

import (
	"log/slog"

	httpadapter "accolade/contexts/award-lifecycle/nomination-service/adapters/http"
	"accolade/contexts/award-lifecycle/nomination-service/adapters/memory"
	"accolade/contexts/award-lifecycle/nomination-service/application/commands"
	"accolade/contexts/award-lifecycle/nomination-service/application/queries"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Settings   ports.SettingsSource
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submitUseCase := commands.SubmitNominationUseCase{
		Repository: deps.Repository,
		Settings:   deps.Settings,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reviewUseCase := commands.ReviewNominationUseCase{
		Repository: deps.Repository,
		Settings:   deps.Settings,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	adjustUseCase := commands.AdjustVotesUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	overrideUseCase := commands.ForceSetStateUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	nominationQueries := queries.NominationQueries{
		Repository: deps.Repository,
	}
	return Module{
		Handler: httpadapter.Handler{
			Submissions: submitUseCase,
			Reviews:     reviewUseCase,
			VoteAdjust:  adjustUseCase,
			Overrides:   overrideUseCase,
			Queries:     nominationQueries,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Settings:   store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
