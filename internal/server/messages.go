package server

import (
	"fmt"
	"time"

	"tournament-companion/internal/domain"
	"tournament-companion/internal/service"

	"github.com/google/uuid"
)

// Wire messages of the companion service. Ids travel as strings and enums
// as their GraphQL names.

type Tournament struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ModType           string `json:"modType"`
	GameType          string `json:"gameType"`
	WithBargains      bool   `json:"withBargains"`
	WithBargainsColor bool   `json:"withBargainsColor"`
	WithForeignHeroes bool   `json:"withForeignHeroes"`
}

type Participant struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

type Match struct {
	ID           string      `json:"id"`
	TournamentID string      `json:"tournamentId"`
	FirstPlayer  Participant `json:"firstPlayer"`
	SecondPlayer Participant `json:"secondPlayer"`
}

type Game struct {
	ID               string  `json:"id"`
	MatchID          string  `json:"matchId"`
	FirstPlayerRace  *int64  `json:"firstPlayerRace,omitempty"`
	FirstPlayerHero  *int64  `json:"firstPlayerHero,omitempty"`
	SecondPlayerRace *int64  `json:"secondPlayerRace,omitempty"`
	SecondPlayerHero *int64  `json:"secondPlayerHero,omitempty"`
	BargainsColor    *string `json:"bargainsColor,omitempty"`
	BargainsAmount   *int64  `json:"bargainsAmount,omitempty"`
	Result           string  `json:"result"`
	Outcome          *string `json:"outcome,omitempty"`
}

type Hero struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Race int64  `json:"race"`
}

type ReportRun struct {
	ID             string    `json:"id"`
	TournamentID   string    `json:"tournamentId"`
	TournamentName string    `json:"tournamentName"`
	Path           string    `json:"path"`
	GamesTotal     int       `json:"gamesTotal"`
	GamesRejected  int       `json:"gamesRejected"`
	LookupsSkipped int       `json:"lookupsSkipped"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ListTournamentsRequest struct{}

type ListTournamentsResponse struct {
	Tournaments []Tournament `json:"tournaments"`
}

type GetTournamentRequest struct {
	ID string `json:"id"`
}

type ListParticipantsRequest struct {
	TournamentID string `json:"tournamentId"`
}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type ListMatchesRequest struct {
	TournamentID string `json:"tournamentId"`
	// UserID narrows the list to one participant when set.
	UserID string `json:"userId,omitempty"`
}

type ListMatchesResponse struct {
	Matches []Match `json:"matches"`
}

type ListGamesRequest struct {
	MatchID string `json:"matchId"`
}

type ListGamesResponse struct {
	Games []Game `json:"games"`
}

type ListHeroesRequest struct {
	ModType string `json:"modType"`
	Race    *int64 `json:"race,omitempty"`
}

type ListHeroesResponse struct {
	Heroes []Hero `json:"heroes"`
}

type UpdateGameRequest struct {
	ID               string  `json:"id"`
	FirstPlayerRace  *int64  `json:"firstPlayerRace,omitempty"`
	FirstPlayerHero  *int64  `json:"firstPlayerHero,omitempty"`
	SecondPlayerRace *int64  `json:"secondPlayerRace,omitempty"`
	SecondPlayerHero *int64  `json:"secondPlayerHero,omitempty"`
	BargainsColor    *string `json:"bargainsColor,omitempty"`
	BargainsAmount   *int64  `json:"bargainsAmount,omitempty"`
	Result           *string `json:"result,omitempty"`
	Outcome          *string `json:"outcome,omitempty"`
}

type UpdateGameResponse struct{}

type GenerateReportRequest struct {
	TournamentID string `json:"tournamentId"`
	Refresh      bool   `json:"refresh"`
	OutputPath   string `json:"outputPath,omitempty"`
}

type ListReportsRequest struct {
	TournamentID string `json:"tournamentId,omitempty"`
}

type ListReportsResponse struct {
	Reports []ReportRun `json:"reports"`
}

// invalidArgument marks request decoding failures.
type invalidArgument struct {
	field string
	err   error
}

func (e *invalidArgument) Error() string { return fmt.Sprintf("invalid %s: %v", e.field, e.err) }

func (e *invalidArgument) Unwrap() error { return e.err }

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &invalidArgument{field: field, err: err}
	}
	return id, nil
}

func parseOptionalID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseEnum decodes an optional enum field with one of the domain parsers.
func parseEnum[T any](field string, s *string, parse func(string) (T, error)) (*T, error) {
	if s == nil {
		return nil, nil
	}
	v, err := parse(*s)
	if err != nil {
		return nil, &invalidArgument{field: field, err: err}
	}
	return &v, nil
}

func toTournament(t domain.Tournament) Tournament {
	return Tournament{
		ID:                t.ID.String(),
		Name:              t.Name,
		ModType:           t.ModType.Wire(),
		GameType:          t.GameType.Wire(),
		WithBargains:      t.WithBargains,
		WithBargainsColor: t.WithBargainsColor,
		WithForeignHeroes: t.WithForeignHeroes,
	}
}

func toParticipant(u domain.User) Participant {
	return Participant{ID: u.ID.String(), Nickname: u.Nickname}
}

func toMatch(m service.MatchWithPlayers) Match {
	return Match{
		ID:           m.ID.String(),
		TournamentID: m.TournamentID.String(),
		FirstPlayer:  toParticipant(m.First),
		SecondPlayer: toParticipant(m.Second),
	}
}

func toGame(g domain.RawGame) Game {
	out := Game{
		ID:               g.ID.String(),
		MatchID:          g.MatchID.String(),
		FirstPlayerRace:  g.FirstPlayerRace,
		FirstPlayerHero:  g.FirstPlayerHero,
		SecondPlayerRace: g.SecondPlayerRace,
		SecondPlayerHero: g.SecondPlayerHero,
		BargainsAmount:   g.BargainsAmount,
		Result:           g.Result.Wire(),
	}
	if g.BargainsColor != nil {
		color := g.BargainsColor.Wire()
		out.BargainsColor = &color
	}
	if g.Outcome != nil {
		outcome := g.Outcome.Wire()
		out.Outcome = &outcome
	}
	return out
}

func toHero(h domain.Hero) Hero {
	return Hero{ID: h.ID, Name: h.Name, Race: h.Race}
}

func toReportRun(r domain.ReportRun) ReportRun {
	return ReportRun{
		ID:             r.ID,
		TournamentID:   r.TournamentID.String(),
		TournamentName: r.TournamentName,
		Path:           r.Path,
		GamesTotal:     r.GamesTotal,
		GamesRejected:  r.GamesRejected,
		LookupsSkipped: r.LookupsSkipped,
		CreatedAt:      r.CreatedAt,
	}
}

func (r *UpdateGameRequest) toDomain() (domain.UpdateGame, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.UpdateGame{}, err
	}
	u := domain.UpdateGame{
		ID:               id,
		FirstPlayerRace:  r.FirstPlayerRace,
		FirstPlayerHero:  r.FirstPlayerHero,
		SecondPlayerRace: r.SecondPlayerRace,
		SecondPlayerHero: r.SecondPlayerHero,
		BargainsAmount:   r.BargainsAmount,
	}
	if u.BargainsColor, err = parseEnum("bargainsColor", r.BargainsColor, domain.ParseBargainsColor); err != nil {
		return u, err
	}
	if u.Result, err = parseEnum("result", r.Result, domain.ParseGameResult); err != nil {
		return u, err
	}
	if u.Outcome, err = parseEnum("outcome", r.Outcome, domain.ParseGameOutcome); err != nil {
		return u, err
	}
	return u, nil
}
