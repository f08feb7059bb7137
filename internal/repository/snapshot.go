package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// SnapshotRepository caches the last fetched snapshot of each tournament.
// Row positions keep the provider order of every list.
type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     sqlDB,
		logger: logger,
	}
}

var snapshotChildTables = []string{"participants", "matches", "games", "heroes"}

// Save replaces the cached snapshot of the tournament.
func (r *SnapshotRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tid := snap.Tournament.ID
	for _, table := range snapshotChildTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE tournament_id = ?", tid); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	t := snap.Tournament
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, mod_type, game_type, with_bargains, with_bargains_color, with_foreign_heroes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mod_type = excluded.mod_type,
			game_type = excluded.game_type,
			with_bargains = excluded.with_bargains,
			with_bargains_color = excluded.with_bargains_color,
			with_foreign_heroes = excluded.with_foreign_heroes,
			fetched_at = excluded.fetched_at`,
		tid, t.Name, t.ModType.Wire(), t.GameType.Wire(),
		t.WithBargains, t.WithBargainsColor, t.WithForeignHeroes, snap.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tournament %s: %w", tid, err)
	}

	if err := insertBatched(ctx, tx, `INSERT INTO participants (tournament_id, position, id, nickname) VALUES (?, ?, ?, ?)`,
		snap.Users, func(i int, u domain.User) []any {
			return []any{tid, i, u.ID, u.Nickname}
		}); err != nil {
		return fmt.Errorf("failed to insert participants: %w", err)
	}

	if err := insertBatched(ctx, tx, `INSERT INTO matches (tournament_id, position, id, first_player, second_player) VALUES (?, ?, ?, ?, ?)`,
		snap.Matches, func(i int, m domain.Match) []any {
			return []any{tid, i, m.ID, m.FirstPlayer, m.SecondPlayer}
		}); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}

	if err := insertBatched(ctx, tx, `
		INSERT INTO games (tournament_id, position, id, match_id, first_player_race, first_player_hero,
			second_player_race, second_player_hero, bargains_color, bargains_amount, result, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Games, func(i int, g domain.RawGame) []any {
			var color, outcome *string
			if g.BargainsColor != nil {
				color = lo.ToPtr(g.BargainsColor.Wire())
			}
			if g.Outcome != nil {
				outcome = lo.ToPtr(g.Outcome.Wire())
			}
			return []any{tid, i, g.ID, g.MatchID, g.FirstPlayerRace, g.FirstPlayerHero,
				g.SecondPlayerRace, g.SecondPlayerHero, color, g.BargainsAmount, g.Result.Wire(), outcome}
		}); err != nil {
		return fmt.Errorf("failed to insert games: %w", err)
	}

	if err := insertBatched(ctx, tx, `INSERT INTO heroes (tournament_id, position, id, name, race) VALUES (?, ?, ?, ?, ?)`,
		snap.Heroes, func(i int, h domain.Hero) []any {
			return []any{tid, i, h.ID, h.Name, h.Race}
		}); err != nil {
		return fmt.Errorf("failed to insert heroes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	r.logger.Debug().
		Str("tournament_id", tid.String()).
		Int("users", len(snap.Users)).
		Int("matches", len(snap.Matches)).
		Int("games", len(snap.Games)).
		Int("heroes", len(snap.Heroes)).
		Msg("snapshot stored")
	return nil
}

// insertBatched runs one prepared insert per row, DBBatchSize rows at a time.
func insertBatched[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(int, T) []any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pos := 0
	for _, chunk := range lo.Chunk(rows, constants.DBBatchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, row := range chunk {
			if _, err := stmt.ExecContext(ctx, args(pos, row)...); err != nil {
				return fmt.Errorf("row %d: %w", pos, err)
			}
			pos++
		}
	}
	return nil
}

// Load returns the cached snapshot without races, or domain.ErrNotFound.
func (r *SnapshotRepository) Load(ctx context.Context, tournamentID uuid.UUID) (domain.Snapshot, error) {
	var (
		snap              domain.Snapshot
		modType, gameType string
		fetchedAt         int64
	)
	t := &snap.Tournament
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, mod_type, game_type, with_bargains, with_bargains_color, with_foreign_heroes, fetched_at
		FROM tournaments WHERE id = ?`, tournamentID,
	).Scan(&t.ID, &t.Name, &modType, &gameType, &t.WithBargains, &t.WithBargainsColor, &t.WithForeignHeroes, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("snapshot %s: %w", tournamentID, domain.ErrNotFound)
	}
	if err != nil {
		return snap, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}
	if t.ModType, err = domain.ParseModType(modType); err != nil {
		return snap, err
	}
	if t.GameType, err = domain.ParseGameType(gameType); err != nil {
		return snap, err
	}
	snap.FetchedAt = time.Unix(fetchedAt, 0)

	if snap.Users, err = r.loadUsers(ctx, tournamentID); err != nil {
		return snap, err
	}
	if snap.Matches, err = r.loadMatches(ctx, tournamentID); err != nil {
		return snap, err
	}
	if snap.Games, err = r.loadGames(ctx, tournamentID); err != nil {
		return snap, err
	}
	if snap.Heroes, err = r.loadHeroes(ctx, tournamentID); err != nil {
		return snap, err
	}
	return snap, nil
}

func (r *SnapshotRepository) loadUsers(ctx context.Context, tid uuid.UUID) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nickname FROM participants WHERE tournament_id = ? ORDER BY position`, tid)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Nickname); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SnapshotRepository) loadMatches(ctx context.Context, tid uuid.UUID) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, first_player, second_player FROM matches WHERE tournament_id = ? ORDER BY position`, tid)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m := domain.Match{TournamentID: tid}
		if err := rows.Scan(&m.ID, &m.FirstPlayer, &m.SecondPlayer); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *SnapshotRepository) loadGames(ctx context.Context, tid uuid.UUID) ([]domain.RawGame, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_id, first_player_race, first_player_hero, second_player_race, second_player_hero,
			bargains_color, bargains_amount, result, outcome
		FROM games WHERE tournament_id = ? ORDER BY position`, tid)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	defer rows.Close()

	var games []domain.RawGame
	for rows.Next() {
		var (
			g              domain.RawGame
			color, outcome *string
			result         string
		)
		if err := rows.Scan(&g.ID, &g.MatchID, &g.FirstPlayerRace, &g.FirstPlayerHero,
			&g.SecondPlayerRace, &g.SecondPlayerHero, &color, &g.BargainsAmount, &result, &outcome); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if g.Result, err = domain.ParseGameResult(result); err != nil {
			return nil, err
		}
		if color != nil {
			c, err := domain.ParseBargainsColor(*color)
			if err != nil {
				return nil, err
			}
			g.BargainsColor = &c
		}
		if outcome != nil {
			o, err := domain.ParseGameOutcome(*outcome)
			if err != nil {
				return nil, err
			}
			g.Outcome = &o
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *SnapshotRepository) loadHeroes(ctx context.Context, tid uuid.UUID) ([]domain.Hero, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, race FROM heroes WHERE tournament_id = ? ORDER BY position`, tid)
	if err != nil {
		return nil, fmt.Errorf("failed to load heroes: %w", err)
	}
	defer rows.Close()

	var heroes []domain.Hero
	for rows.Next() {
		var h domain.Hero
		if err := rows.Scan(&h.ID, &h.Name, &h.Race); err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, h)
	}
	return heroes, rows.Err()
}
