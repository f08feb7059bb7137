package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tournament-companion/internal/config"
	"tournament-companion/internal/database"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves one tournament from memory and counts calls per method.
type fakeAPI struct {
	mu      sync.Mutex
	calls   map[string]int
	err     error
	updates []domain.UpdateGame

	tournament domain.Tournament
	users      []domain.User
	matches    []domain.Match
	games      map[uuid.UUID][]domain.RawGame
	heroes     []domain.Hero
}

func (f *fakeAPI) called(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) ListTournaments(context.Context) ([]domain.Tournament, error) {
	f.called("ListTournaments")
	return []domain.Tournament{f.tournament}, f.err
}

func (f *fakeAPI) GetTournament(_ context.Context, id uuid.UUID) (domain.Tournament, error) {
	f.called("GetTournament")
	if f.err != nil {
		return domain.Tournament{}, f.err
	}
	if id != f.tournament.ID {
		return domain.Tournament{}, domain.ErrNotFound
	}
	return f.tournament, nil
}

func (f *fakeAPI) GetUsers(context.Context, uuid.UUID) ([]domain.User, error) {
	f.called("GetUsers")
	return f.users, f.err
}

func (f *fakeAPI) GetMatches(_ context.Context, _ uuid.UUID, user *uuid.UUID) ([]domain.Match, error) {
	f.called("GetMatches")
	if user == nil {
		return f.matches, f.err
	}
	return lo.Filter(f.matches, func(m domain.Match, _ int) bool { return m.Involves(*user) }), f.err
}

func (f *fakeAPI) GetGames(_ context.Context, matchID uuid.UUID) ([]domain.RawGame, error) {
	f.called("GetGames")
	// later matches answer first
	time.Sleep(time.Duration(len(f.matches)-f.matchIndex(matchID)) * time.Millisecond)
	return f.games[matchID], f.err
}

func (f *fakeAPI) matchIndex(id uuid.UUID) int {
	_, i, _ := lo.FindIndexOf(f.matches, func(m domain.Match) bool { return m.ID == id })
	return i
}

func (f *fakeAPI) GetHeroes(_ context.Context, mod domain.ModType) ([]domain.Hero, error) {
	f.called("GetHeroes")
	return f.heroes, f.err
}

func (f *fakeAPI) UpdateGame(_ context.Context, u domain.UpdateGame) error {
	f.called("UpdateGame")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	return f.err
}

// newFakeAPI builds a small tournament: alice and bob play two matches,
// carol plays none.
func newFakeAPI() *fakeAPI {
	tid := uuid.New()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	m1, m2 := uuid.New(), uuid.New()

	game := func(match uuid.UUID, r1, h1, r2, h2 int64, result domain.GameResult) domain.RawGame {
		return domain.RawGame{
			ID: uuid.New(), MatchID: match,
			FirstPlayerRace: &r1, FirstPlayerHero: &h1,
			SecondPlayerRace: &r2, SecondPlayerHero: &h2,
			Result: result,
		}
	}

	return &fakeAPI{
		tournament: domain.Tournament{ID: tid, Name: "Кубок: весна", ModType: domain.ModHrta, GameType: domain.GameTypeRMG},
		users:      []domain.User{{ID: alice, Nickname: "alice"}, {ID: bob, Nickname: "bob"}, {ID: carol, Nickname: "carol"}},
		matches: []domain.Match{
			{ID: m1, TournamentID: tid, FirstPlayer: alice, SecondPlayer: bob},
			{ID: m2, TournamentID: tid, FirstPlayer: bob, SecondPlayer: alice},
		},
		games: map[uuid.UUID][]domain.RawGame{
			m1: {
				game(m1, 1, 10, 2, 20, domain.ResultFirstPlayerWon),
				game(m1, 1, 10, 2, 20, domain.ResultNotSelected),
			},
			m2: {
				game(m2, 2, 20, 1, 99, domain.ResultSecondPlayerWon),
				game(m2, 2, 20, 1, 10, domain.ResultSecondPlayerWon),
			},
		},
		heroes: []domain.Hero{{ID: 10, Name: "Ирина", Race: 1}, {ID: 20, Name: "Грок", Race: 2}},
	}
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ReportDir:    t.TempDir(),
		LookupPolicy: stats.LookupSkip,
		CacheTTL:     time.Minute,
		Races:        domain.DefaultRaces(),
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
