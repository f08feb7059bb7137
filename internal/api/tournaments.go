package api

import (
	"context"
	"fmt"

	"tournament-companion/internal/domain"

	"github.com/google/uuid"
)

const tournamentFields = `id name modType gameType withBargains withBargainsColor withForeignHeroes`

const (
	queryTournaments = `query GetTournaments { tournamentsAll { ` + tournamentFields + ` } }`
	queryTournament  = `query GetTournament($id: UUID) { tournament(id: $id) { ` + tournamentFields + ` } }`
	queryUsers       = `query GetUsers($tournamentId: UUID!) { users(tournamentId: $tournamentId) { id nickname } }`
	queryMatches     = `query GetMatches($tournamentId: UUID!, $userId: UUID) {
  matches(tournamentId: $tournamentId, userId: $userId) { id tournamentId firstPlayer secondPlayer }
}`
	queryGames = `query GetGames($matchId: UUID!) {
  games(matchId: $matchId) {
    id matchId firstPlayerRace firstPlayerHero secondPlayerRace secondPlayerHero
    bargainsColor bargainsAmount result outcome
  }
}`
	queryHeroes = `query GetHeroes($modType: ModType!) {
  heroesNew(modType: $modType) { heroes { entities { id name race } } }
}`
	mutationUpdateGame = `mutation UpdateGame(
  $id: UUID!, $firstPlayerRace: Int, $firstPlayerHero: Int, $secondPlayerRace: Int, $secondPlayerHero: Int,
  $bargainsColor: BargainsColor, $bargainsAmount: Int, $result: GameResult, $outcome: GameOutcome
) {
  updateGame(
    id: $id, firstPlayerRace: $firstPlayerRace, firstPlayerHero: $firstPlayerHero,
    secondPlayerRace: $secondPlayerRace, secondPlayerHero: $secondPlayerHero,
    bargainsColor: $bargainsColor, bargainsAmount: $bargainsAmount, result: $result, outcome: $outcome
  ) { id }
}`
)

type tournamentDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ModType           string    `json:"modType"`
	GameType          string    `json:"gameType"`
	WithBargains      bool      `json:"withBargains"`
	WithBargainsColor bool      `json:"withBargainsColor"`
	WithForeignHeroes bool      `json:"withForeignHeroes"`
}

func (t tournamentDTO) toDomain() (domain.Tournament, error) {
	mod, err := domain.ParseModType(t.ModType)
	if err != nil {
		return domain.Tournament{}, fmt.Errorf("tournament %s: %w", t.ID, err)
	}
	gameType, err := domain.ParseGameType(t.GameType)
	if err != nil {
		return domain.Tournament{}, fmt.Errorf("tournament %s: %w", t.ID, err)
	}
	return domain.Tournament{
		ID:                t.ID,
		Name:              t.Name,
		ModType:           mod,
		GameType:          gameType,
		WithBargains:      t.WithBargains,
		WithBargainsColor: t.WithBargainsColor,
		WithForeignHeroes: t.WithForeignHeroes,
	}, nil
}

type userDTO struct {
	ID       uuid.UUID `json:"id"`
	Nickname string    `json:"nickname"`
}

type matchDTO struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournamentId"`
	FirstPlayer  uuid.UUID `json:"firstPlayer"`
	SecondPlayer uuid.UUID `json:"secondPlayer"`
}

type gameDTO struct {
	ID               uuid.UUID `json:"id"`
	MatchID          uuid.UUID `json:"matchId"`
	FirstPlayerRace  *int64    `json:"firstPlayerRace"`
	FirstPlayerHero  *int64    `json:"firstPlayerHero"`
	SecondPlayerRace *int64    `json:"secondPlayerRace"`
	SecondPlayerHero *int64    `json:"secondPlayerHero"`
	BargainsColor    *string   `json:"bargainsColor"`
	BargainsAmount   *int64    `json:"bargainsAmount"`
	Result           string    `json:"result"`
	Outcome          *string   `json:"outcome"`
}

func (g gameDTO) toDomain() (domain.RawGame, error) {
	raw := domain.RawGame{
		ID:               g.ID,
		MatchID:          g.MatchID,
		FirstPlayerRace:  g.FirstPlayerRace,
		FirstPlayerHero:  g.FirstPlayerHero,
		SecondPlayerRace: g.SecondPlayerRace,
		SecondPlayerHero: g.SecondPlayerHero,
		BargainsAmount:   g.BargainsAmount,
	}
	if g.Result != "" {
		result, err := domain.ParseGameResult(g.Result)
		if err != nil {
			return raw, fmt.Errorf("game %s: %w", g.ID, err)
		}
		raw.Result = result
	}
	if g.BargainsColor != nil {
		color, err := domain.ParseBargainsColor(*g.BargainsColor)
		if err != nil {
			return raw, fmt.Errorf("game %s: %w", g.ID, err)
		}
		raw.BargainsColor = &color
	}
	if g.Outcome != nil {
		outcome, err := domain.ParseGameOutcome(*g.Outcome)
		if err != nil {
			return raw, fmt.Errorf("game %s: %w", g.ID, err)
		}
		raw.Outcome = &outcome
	}
	return raw, nil
}

type heroDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Race int64  `json:"race"`
}

func (c *Client) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	data, err := doRequest[struct {
		Tournaments []tournamentDTO `json:"tournamentsAll"`
	}](ctx, c, "GetTournaments", queryTournaments, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tournament, 0, len(data.Tournaments))
	for _, t := range data.Tournaments {
		tournament, err := t.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, tournament)
	}
	return out, nil
}

// GetTournament returns domain.ErrNotFound when the API knows no such id.
func (c *Client) GetTournament(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	data, err := doRequest[struct {
		Tournament *tournamentDTO `json:"tournament"`
	}](ctx, c, "GetTournament", queryTournament, map[string]any{"id": id})
	if err != nil {
		return domain.Tournament{}, err
	}
	if data.Tournament == nil {
		return domain.Tournament{}, fmt.Errorf("tournament %s: %w", id, domain.ErrNotFound)
	}
	return data.Tournament.toDomain()
}

func (c *Client) GetUsers(ctx context.Context, tournamentID uuid.UUID) ([]domain.User, error) {
	data, err := doRequest[struct {
		Users []userDTO `json:"users"`
	}](ctx, c, "GetUsers", queryUsers, map[string]any{"tournamentId": tournamentID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(data.Users))
	for _, u := range data.Users {
		out = append(out, domain.User{ID: u.ID, Nickname: u.Nickname})
	}
	return out, nil
}

// GetMatches lists the matches of a tournament, or only those of one
// participant when user is set.
func (c *Client) GetMatches(ctx context.Context, tournamentID uuid.UUID, user *uuid.UUID) ([]domain.Match, error) {
	vars := map[string]any{"tournamentId": tournamentID}
	if user != nil {
		vars["userId"] = *user
	}
	data, err := doRequest[struct {
		Matches []matchDTO `json:"matches"`
	}](ctx, c, "GetMatches", queryMatches, vars)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Match, 0, len(data.Matches))
	for _, m := range data.Matches {
		out = append(out, domain.Match{
			ID:           m.ID,
			TournamentID: m.TournamentID,
			FirstPlayer:  m.FirstPlayer,
			SecondPlayer: m.SecondPlayer,
		})
	}
	return out, nil
}

func (c *Client) GetGames(ctx context.Context, matchID uuid.UUID) ([]domain.RawGame, error) {
	data, err := doRequest[struct {
		Games []gameDTO `json:"games"`
	}](ctx, c, "GetGames", queryGames, map[string]any{"matchId": matchID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawGame, 0, len(data.Games))
	for _, g := range data.Games {
		raw, err := g.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *Client) GetHeroes(ctx context.Context, mod domain.ModType) ([]domain.Hero, error) {
	data, err := doRequest[struct {
		HeroesNew struct {
			Heroes struct {
				Entities []heroDTO `json:"entities"`
			} `json:"heroes"`
		} `json:"heroesNew"`
	}](ctx, c, "GetHeroes", queryHeroes, map[string]any{"modType": mod.Wire()})
	if err != nil {
		return nil, err
	}
	entities := data.HeroesNew.Heroes.Entities
	out := make([]domain.Hero, 0, len(entities))
	for _, h := range entities {
		out = append(out, domain.Hero{ID: h.ID, Name: h.Name, Race: h.Race})
	}
	return out, nil
}

// UpdateGame sends only the fields that are set.
func (c *Client) UpdateGame(ctx context.Context, u domain.UpdateGame) error {
	vars := map[string]any{"id": u.ID}
	setInt := func(key string, v *int64) {
		if v != nil {
			vars[key] = *v
		}
	}
	setInt("firstPlayerRace", u.FirstPlayerRace)
	setInt("firstPlayerHero", u.FirstPlayerHero)
	setInt("secondPlayerRace", u.SecondPlayerRace)
	setInt("secondPlayerHero", u.SecondPlayerHero)
	setInt("bargainsAmount", u.BargainsAmount)
	if u.BargainsColor != nil {
		vars["bargainsColor"] = u.BargainsColor.Wire()
	}
	if u.Result != nil {
		vars["result"] = u.Result.Wire()
	}
	if u.Outcome != nil {
		vars["outcome"] = u.Outcome.Wire()
	}

	_, err := doRequest[struct {
		UpdateGame struct {
			ID uuid.UUID `json:"id"`
		} `json:"updateGame"`
	}](ctx, c, "UpdateGame", mutationUpdateGame, vars)
	return err
}
