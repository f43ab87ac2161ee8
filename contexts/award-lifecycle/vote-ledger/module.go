package voteledger

import (
	"log/slog"

	httpadapter "accolade/contexts/award-lifecycle/vote-ledger/adapters/http"
	"accolade/contexts/award-lifecycle/vote-ledger/adapters/memory"
	"accolade/contexts/award-lifecycle/vote-ledger/application/commands"
	"accolade/contexts/award-lifecycle/vote-ledger/application/queries"
	"accolade/contexts/award-lifecycle/vote-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes       ports.VoteRepository
	Nominations ports.NominationProjection
	Settings    ports.SettingsSource
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	castUseCase := commands.CastVoteUseCase{
		Votes:       deps.Votes,
		Nominations: deps.Nominations,
		Settings:    deps.Settings,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	tallyUseCase := queries.TallyUseCase{
		Votes:       deps.Votes,
		Nominations: deps.Nominations,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:   castUseCase,
			Tallies: tallyUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Votes:       store,
		Nominations: store,
		Settings:    store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
