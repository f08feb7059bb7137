package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tournament-companion/internal/config"
	"tournament-companion/internal/database"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/middleware"
	"tournament-companion/internal/repository"
	"tournament-companion/internal/service"
	"tournament-companion/internal/stats"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI serves a single tournament with one match and one game.
type stubAPI struct {
	tournament domain.Tournament
	users      []domain.User
	match      domain.Match
	game       domain.RawGame
	heroes     []domain.Hero
	updated    []domain.UpdateGame
}

func newStubAPI() *stubAPI {
	tid, alice, bob, mid := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	return &stubAPI{
		tournament: domain.Tournament{ID: tid, Name: "Кубок", ModType: domain.ModUniverse, GameType: domain.GameTypeArena, WithBargains: true},
		users:      []domain.User{{ID: alice, Nickname: "alice"}, {ID: bob, Nickname: "bob"}},
		match:      domain.Match{ID: mid, TournamentID: tid, FirstPlayer: alice, SecondPlayer: bob},
		game: domain.RawGame{
			ID: uuid.New(), MatchID: mid,
			FirstPlayerRace: lo.ToPtr[int64](1), FirstPlayerHero: lo.ToPtr[int64](10),
			SecondPlayerRace: lo.ToPtr[int64](2), SecondPlayerHero: lo.ToPtr[int64](20),
			BargainsAmount: lo.ToPtr[int64](250),
			Result:         domain.ResultFirstPlayerWon,
		},
		heroes: []domain.Hero{{ID: 10, Name: "Ирина", Race: 1}, {ID: 20, Name: "Грок", Race: 2}},
	}
}

func (s *stubAPI) ListTournaments(context.Context) ([]domain.Tournament, error) {
	return []domain.Tournament{s.tournament}, nil
}

func (s *stubAPI) GetTournament(_ context.Context, id uuid.UUID) (domain.Tournament, error) {
	if id != s.tournament.ID {
		return domain.Tournament{}, domain.ErrNotFound
	}
	return s.tournament, nil
}

func (s *stubAPI) GetUsers(context.Context, uuid.UUID) ([]domain.User, error) { return s.users, nil }

func (s *stubAPI) GetMatches(context.Context, uuid.UUID, *uuid.UUID) ([]domain.Match, error) {
	return []domain.Match{s.match}, nil
}

func (s *stubAPI) GetGames(context.Context, uuid.UUID) ([]domain.RawGame, error) {
	return []domain.RawGame{s.game}, nil
}

func (s *stubAPI) GetHeroes(context.Context, domain.ModType) ([]domain.Hero, error) {
	return s.heroes, nil
}

func (s *stubAPI) UpdateGame(_ context.Context, u domain.UpdateGame) error {
	s.updated = append(s.updated, u)
	return nil
}

type testEnv struct {
	api    *stubAPI
	url    string
	cfg    *config.Config
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ReportDir:    t.TempDir(),
		LookupPolicy: stats.LookupSkip,
		CacheTTL:     time.Minute,
		Races:        domain.DefaultRaces(),
	}
	api := newStubAPI()
	log := zerolog.Nop()
	tournaments := service.NewTournamentService(api, log)
	snapshots := service.NewSnapshotService(api, repository.NewSnapshotRepository(db, log), cfg, log)
	reports := service.NewReportService(snapshots, repository.NewReportRunRepository(db, log), cfg, log)

	srv := httptest.NewServer(NewRouter(NewCompanionServer(tournaments, reports), log))
	t.Cleanup(srv.Close)
	return &testEnv{api: api, url: srv.URL, cfg: cfg, client: srv.Client()}
}

func call[Req, Res any](t *testing.T, env *testEnv, procedure string, req *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](env.client, env.url+procedure, connect.WithCodec(JSONCodec{}))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestCompanionServer_Browse(t *testing.T) {
	env := newTestEnv(t)
	tid := env.api.tournament.ID.String()

	list, err := call[ListTournamentsRequest, ListTournamentsResponse](t, env, ListTournamentsProcedure, &ListTournamentsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tournaments, 1)
	assert.Equal(t, Tournament{
		ID: tid, Name: "Кубок", ModType: "UNIVERSE", GameType: "ARENA", WithBargains: true,
	}, list.Tournaments[0])

	matches, err := call[ListMatchesRequest, ListMatchesResponse](t, env, ListMatchesProcedure, &ListMatchesRequest{TournamentID: tid})
	require.NoError(t, err)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "alice", matches.Matches[0].FirstPlayer.Nickname)
	assert.Equal(t, "bob", matches.Matches[0].SecondPlayer.Nickname)

	games, err := call[ListGamesRequest, ListGamesResponse](t, env, ListGamesProcedure, &ListGamesRequest{MatchID: env.api.match.ID.String()})
	require.NoError(t, err)
	require.Len(t, games.Games, 1)
	assert.Equal(t, "FIRST_PLAYER_WON", games.Games[0].Result)
	assert.Equal(t, lo.ToPtr[int64](250), games.Games[0].BargainsAmount)
	assert.Nil(t, games.Games[0].Outcome)

	heroes, err := call[ListHeroesRequest, ListHeroesResponse](t, env, ListHeroesProcedure, &ListHeroesRequest{ModType: "UNIVERSE", Race: lo.ToPtr[int64](2)})
	require.NoError(t, err)
	assert.Equal(t, []Hero{{ID: 20, Name: "Грок", Race: 2}}, heroes.Heroes)
}

func TestCompanionServer_ErrorCodes(t *testing.T) {
	env := newTestEnv(t)

	_, err := call[GetTournamentRequest, Tournament](t, env, GetTournamentProcedure, &GetTournamentRequest{ID: "nope"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[GetTournamentRequest, Tournament](t, env, GetTournamentProcedure, &GetTournamentRequest{ID: uuid.NewString()})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = call[ListHeroesRequest, ListHeroesResponse](t, env, ListHeroesProcedure, &ListHeroesRequest{ModType: "CLASSIC"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[UpdateGameRequest, UpdateGameResponse](t, env, UpdateGameProcedure, &UpdateGameRequest{ID: uuid.NewString()})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[UpdateGameRequest, UpdateGameResponse](t, env, UpdateGameProcedure, &UpdateGameRequest{
		ID: uuid.NewString(), Result: lo.ToPtr("DRAW"),
	})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Empty(t, env.api.updated)
}

func TestCompanionServer_UpdateGame(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	_, err := call[UpdateGameRequest, UpdateGameResponse](t, env, UpdateGameProcedure, &UpdateGameRequest{
		ID: id.String(), BargainsColor: lo.ToPtr("BARGAINS_COLOR_RED"), Outcome: lo.ToPtr("NEUTRALS_VICTORY"),
	})
	require.NoError(t, err)
	require.Len(t, env.api.updated, 1)

	u := env.api.updated[0]
	assert.Equal(t, id, u.ID)
	assert.Equal(t, lo.ToPtr(domain.BargainsColorRed), u.BargainsColor)
	assert.Equal(t, lo.ToPtr(domain.OutcomeNeutralsVictory), u.Outcome)
	assert.Nil(t, u.Result)
}

func TestCompanionServer_Reports(t *testing.T) {
	env := newTestEnv(t)
	tid := env.api.tournament.ID.String()
	path := filepath.Join(env.cfg.ReportDir, "out.xlsx")

	run, err := call[GenerateReportRequest, ReportRun](t, env, GenerateReportProcedure, &GenerateReportRequest{
		TournamentID: tid, OutputPath: path,
	})
	require.NoError(t, err)
	assert.Equal(t, path, run.Path)
	assert.Equal(t, 1, run.GamesTotal)
	assert.Zero(t, run.GamesRejected)
	assert.FileExists(t, path)

	list, err := call[ListReportsRequest, ListReportsResponse](t, env, ListReportsProcedure, &ListReportsRequest{TournamentID: tid})
	require.NoError(t, err)
	require.Len(t, list.Reports, 1)
	assert.Equal(t, run.ID, list.Reports[0].ID)

	_, err = call[GenerateReportRequest, ReportRun](t, env, GenerateReportProcedure, &GenerateReportRequest{TournamentID: uuid.NewString()})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodOptions, env.url+ListTournamentsProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, err = env.client.Get(env.url + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
