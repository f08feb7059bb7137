package fx

import (
	"tournament-companion/internal/api"
	"tournament-companion/internal/config"
	"tournament-companion/internal/database"
	"tournament-companion/internal/logger"
	"tournament-companion/internal/repository"
	"tournament-companion/internal/server"
	"tournament-companion/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(repository.NewReportRunRepository),
	// api client
	fx.Provide(fx.Annotate(api.NewClient, fx.As(new(service.TournamentAPI)))),
	// svc
	fx.Provide(service.NewTournamentService),
	fx.Provide(service.NewSnapshotService),
	fx.Provide(service.NewReportService),
	// server
	fx.Provide(server.NewCompanionServer),
)
