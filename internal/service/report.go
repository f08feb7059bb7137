package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tournament-companion/internal/config"
	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/report"
	"tournament-companion/internal/repository"
	"tournament-companion/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type GenerateRequest struct {
	TournamentID uuid.UUID
	Refresh      bool
	// OutputPath defaults to REPORT_DIR/<tournament name>_<timestamp>.xlsx.
	OutputPath string
}

type ReportService struct {
	snapshots *SnapshotService
	runs      *repository.ReportRunRepository
	cfg       *config.Config
	logger    zerolog.Logger
	now       func() time.Time
}

func NewReportService(snapshots *SnapshotService, runs *repository.ReportRunRepository, cfg *config.Config, logger zerolog.Logger) *ReportService {
	return &ReportService{snapshots: snapshots, runs: runs, cfg: cfg, logger: logger, now: time.Now}
}

// Generate runs the whole pipeline for one tournament: snapshot, validation,
// reference resolution, aggregation and the workbook. Rejected games and
// skipped lookups are logged and counted; any output failure aborts the run.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*domain.ReportRun, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	log := s.logger.With().Str("tournament_id", req.TournamentID.String()).Logger()
	log.Info().Bool("refresh", req.Refresh).Msg("generating report")

	snap, err := s.snapshots.Load(ctx, req.TournamentID, req.Refresh)
	if err != nil {
		return nil, err
	}

	games, rejected := domain.ValidateGames(snap.Games)
	for _, r := range rejected {
		log.Warn().Str("game_id", r.GameID.String()).Str("field", r.Field).Msg("game rejected")
	}

	ds, skipped, err := stats.NewDataset(snap.Tournament, snap.Races, snap.Heroes, snap.Users, snap.Matches, games, s.cfg.LookupPolicy)
	if err != nil {
		log.Error().Err(err).Msg("reference lookup failed")
		return nil, fmt.Errorf("failed to resolve references: %w", err)
	}
	for _, l := range skipped {
		log.Warn().
			Str("record", l.Record).
			Str("id", l.ID.String()).
			Str("ref", l.Ref).
			Str("ref_id", l.RefID).
			Msg("record skipped")
	}

	path := req.OutputPath
	if path == "" {
		path = s.defaultPath(snap.Tournament.Name)
	}
	if err := report.Save(stats.BuildTables(ds), path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to write report")
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	run := &domain.ReportRun{
		TournamentID:   snap.Tournament.ID,
		TournamentName: snap.Tournament.Name,
		Path:           path,
		GamesTotal:     len(snap.Games),
		GamesRejected:  len(rejected),
		LookupsSkipped: len(skipped),
		CreatedAt:      s.now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to record report run")
	}

	log.Info().
		Str("path", path).
		Int("games", run.GamesTotal).
		Int("rejected", run.GamesRejected).
		Int("skipped", run.LookupsSkipped).
		Msg("report generated")
	return run, nil
}

// ListReports returns past runs, newest first.
func (s *ReportService) ListReports(ctx context.Context, tournamentID *uuid.UUID) ([]domain.ReportRun, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	runs, err := s.runs.List(ctx, tournamentID, constants.ReportHistoryLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list report runs")
		return nil, err
	}
	return runs, nil
}

func (s *ReportService) defaultPath(tournament string) string {
	name := fileName(tournament) + "_" + s.now().Format("2006-01-02_15-04-05") + constants.ReportExt
	return filepath.Join(s.cfg.ReportDir, name)
}

// fileName makes a tournament name safe to use as a file name.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		return "report"
	}
	return name
}
