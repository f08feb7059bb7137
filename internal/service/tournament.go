package service

import (
	"context"
	"errors"
	"fmt"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ErrEmptyUpdate is returned when an update names no field to change.
var ErrEmptyUpdate = errors.New("update changes no field")

// TournamentAPI is the remote tournament provider.
type TournamentAPI interface {
	ListTournaments(ctx context.Context) ([]domain.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (domain.Tournament, error)
	GetUsers(ctx context.Context, tournamentID uuid.UUID) ([]domain.User, error)
	GetMatches(ctx context.Context, tournamentID uuid.UUID, user *uuid.UUID) ([]domain.Match, error)
	GetGames(ctx context.Context, matchID uuid.UUID) ([]domain.RawGame, error)
	GetHeroes(ctx context.Context, mod domain.ModType) ([]domain.Hero, error)
	UpdateGame(ctx context.Context, update domain.UpdateGame) error
}

// MatchWithPlayers is a match with both participants resolved.
type MatchWithPlayers struct {
	domain.Match
	First  domain.User
	Second domain.User
}

type TournamentService struct {
	api    TournamentAPI
	logger zerolog.Logger
}

func NewTournamentService(api TournamentAPI, logger zerolog.Logger) *TournamentService {
	return &TournamentService{api: api, logger: logger}
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	tournaments, err := s.api.ListTournaments(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tournaments")
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	s.logger.Debug().Int("count", len(tournaments)).Msg("tournaments listed")
	return tournaments, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	t, err := s.api.GetTournament(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", id.String()).Msg("failed to get tournament")
		return domain.Tournament{}, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

func (s *TournamentService) ListParticipants(ctx context.Context, tournamentID uuid.UUID) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	users, err := s.api.GetUsers(ctx, tournamentID)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID.String()).Msg("failed to list participants")
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return users, nil
}

// ListMatches returns the matches of a tournament, or of one participant,
// with nicknames attached. Unknown participants keep an empty nickname.
func (s *TournamentService) ListMatches(ctx context.Context, tournamentID uuid.UUID, user *uuid.UUID) ([]MatchWithPlayers, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	matches, err := s.api.GetMatches(ctx, tournamentID, user)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID.String()).Msg("failed to list matches")
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	users, err := s.api.GetUsers(ctx, tournamentID)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID.String()).Msg("failed to list participants")
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	byID := lo.KeyBy(users, func(u domain.User) uuid.UUID { return u.ID })
	resolve := func(id uuid.UUID) domain.User {
		if u, ok := byID[id]; ok {
			return u
		}
		return domain.User{ID: id}
	}
	return lo.Map(matches, func(m domain.Match, _ int) MatchWithPlayers {
		return MatchWithPlayers{Match: m, First: resolve(m.FirstPlayer), Second: resolve(m.SecondPlayer)}
	}), nil
}

func (s *TournamentService) ListGames(ctx context.Context, matchID uuid.UUID) ([]domain.RawGame, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	games, err := s.api.GetGames(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("failed to list games")
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// ListHeroes returns the heroes of a mod, or only those of one race.
func (s *TournamentService) ListHeroes(ctx context.Context, mod domain.ModType, race *int64) ([]domain.Hero, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	heroes, err := s.api.GetHeroes(ctx, mod)
	if err != nil {
		s.logger.Error().Err(err).Str("mod_type", mod.Wire()).Msg("failed to list heroes")
		return nil, fmt.Errorf("failed to list heroes: %w", err)
	}
	if race != nil {
		heroes = lo.Filter(heroes, func(h domain.Hero, _ int) bool { return h.Race == *race })
	}
	return heroes, nil
}

func (s *TournamentService) UpdateGame(ctx context.Context, update domain.UpdateGame) error {
	if update.Empty() {
		return ErrEmptyUpdate
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	if err := s.api.UpdateGame(ctx, update); err != nil {
		s.logger.Error().Err(err).Str("game_id", update.ID.String()).Msg("failed to update game")
		return fmt.Errorf("failed to update game: %w", err)
	}
	s.logger.Info().Str("game_id", update.ID.String()).Msg("game updated")
	return nil
}
