// Command generate writes the statistics workbook of one tournament and exits.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	fxmodules "tournament-companion/internal/fx"
	"tournament-companion/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type options struct {
	tournament uuid.UUID
	refresh    bool
	output     string
}

func main() {
	var (
		tournament string
		opts       options
	)
	flag.StringVar(&tournament, "tournament", "", "tournament id")
	flag.BoolVar(&opts.refresh, "refresh", false, "ignore the cached snapshot")
	flag.StringVar(&opts.output, "out", "", "output path (default REPORT_DIR/<name>_<time>.xlsx)")
	flag.Parse()

	id, err := uuid.Parse(tournament)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -tournament %q: %v\n", tournament, err)
		flag.Usage()
		os.Exit(2)
	}
	opts.tournament = id

	fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.Supply(opts),
		fx.Invoke(runGenerate),
	).Run()
}

func runGenerate(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	reports *service.ReportService,
	opts options,
	db *sql.DB,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				run, err := reports.Generate(ctx, service.GenerateRequest{
					TournamentID: opts.tournament,
					Refresh:      opts.refresh,
					OutputPath:   opts.output,
				})
				if err != nil {
					logger.Error().Err(err).Msg("report generation failed")
					code = 1
				} else {
					fmt.Println(run.Path)
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error().Err(err).Msg("shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return db.Close()
		},
	})
}
