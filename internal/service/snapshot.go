package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"tournament-companion/internal/config"
	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// SnapshotService fetches everything a report run reads, up front, and
// caches it in sqlite for CacheTTL.
type SnapshotService struct {
	api    TournamentAPI
	repo   *repository.SnapshotRepository
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

func NewSnapshotService(api TournamentAPI, repo *repository.SnapshotRepository, cfg *config.Config, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{api: api, repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// Load returns the snapshot of a tournament with the configured races
// attached. A cached copy younger than CacheTTL is reused unless refresh is
// set; a zero TTL always fetches.
func (s *SnapshotService) Load(ctx context.Context, tournamentID uuid.UUID, refresh bool) (domain.Snapshot, error) {
	log := s.logger.With().Str("tournament_id", tournamentID.String()).Logger()

	if !refresh && s.cfg.CacheTTL > 0 {
		snap, err := s.cached(ctx, tournamentID)
		switch {
		case err == nil:
			age := s.now().Sub(snap.FetchedAt)
			if age < s.cfg.CacheTTL {
				log.Info().Dur("age", age).Msg("returning cached snapshot")
				return s.withRaces(snap), nil
			}
			log.Debug().Dur("age", age).Msg("cached snapshot expired")
		case errors.Is(err, domain.ErrNotFound):
			log.Debug().Msg("no cached snapshot")
		default:
			log.Warn().Err(err).Msg("failed to read cached snapshot")
		}
	}

	snap, err := s.fetch(ctx, tournamentID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch snapshot")
		return domain.Snapshot{}, err
	}

	saveCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, snap); err != nil {
		log.Warn().Err(err).Msg("failed to cache snapshot")
	}

	log.Info().
		Int("users", len(snap.Users)).
		Int("matches", len(snap.Matches)).
		Int("games", len(snap.Games)).
		Int("heroes", len(snap.Heroes)).
		Msg("snapshot fetched")
	return s.withRaces(snap), nil
}

func (s *SnapshotService) cached(ctx context.Context, tournamentID uuid.UUID) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Load(ctx, tournamentID)
}

func (s *SnapshotService) withRaces(snap domain.Snapshot) domain.Snapshot {
	snap.Races = slices.Clone(s.cfg.Races)
	return snap
}

func (s *SnapshotService) fetch(ctx context.Context, tournamentID uuid.UUID) (domain.Snapshot, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	snap := domain.Snapshot{FetchedAt: s.now()}

	var err error
	if snap.Tournament, err = s.api.GetTournament(apiCtx, tournamentID); err != nil {
		return snap, fmt.Errorf("failed to fetch tournament: %w", err)
	}

	g, gCtx := errgroup.WithContext(apiCtx)
	g.Go(func() error {
		var err error
		if snap.Users, err = s.api.GetUsers(gCtx, tournamentID); err != nil {
			return fmt.Errorf("failed to fetch participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Matches, err = s.api.GetMatches(gCtx, tournamentID, nil); err != nil {
			return fmt.Errorf("failed to fetch matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Heroes, err = s.api.GetHeroes(gCtx, snap.Tournament.ModType); err != nil {
			return fmt.Errorf("failed to fetch heroes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return snap, err
	}

	perMatch := make([][]domain.RawGame, len(snap.Matches))
	fetchGames, gamesCtx := errgroup.WithContext(apiCtx)
	fetchGames.SetLimit(constants.GameFetchConcurrency)
	for i, m := range snap.Matches {
		fetchGames.Go(func() error {
			games, err := s.api.GetGames(gamesCtx, m.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch games of match %s: %w", m.ID, err)
			}
			perMatch[i] = games
			return nil
		})
	}
	if err := fetchGames.Wait(); err != nil {
		return snap, err
	}
	snap.Games = lo.Flatten(perMatch)

	return snap, nil
}
