package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tournament-companion/internal/domain"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type ReportRunRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewReportRunRepository(sqlDB *sql.DB, logger zerolog.Logger) *ReportRunRepository {
	return &ReportRunRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Create stores a finished run, filling in its id and creation time when unset.
func (r *ReportRunRepository) Create(ctx context.Context, run *domain.ReportRun) error {
	if run.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		run.ID = id
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_runs (id, tournament_id, tournament_name, path, games_total, games_rejected, lookups_skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TournamentID, run.TournamentName, run.Path,
		run.GamesTotal, run.GamesRejected, run.LookupsSkipped, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}
	return nil
}

// List returns the newest runs first, optionally only those of one tournament.
func (r *ReportRunRepository) List(ctx context.Context, tournamentID *uuid.UUID, limit int) ([]domain.ReportRun, error) {
	query := `
		SELECT id, tournament_id, tournament_name, path, games_total, games_rejected, lookups_skipped, created_at
		FROM report_runs`
	args := []any{}
	if tournamentID != nil {
		query += ` WHERE tournament_id = ?`
		args = append(args, *tournamentID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ReportRun
	for rows.Next() {
		var (
			run       domain.ReportRun
			createdAt int64
		)
		if err := rows.Scan(&run.ID, &run.TournamentID, &run.TournamentName, &run.Path,
			&run.GamesTotal, &run.GamesRejected, &run.LookupsSkipped, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
