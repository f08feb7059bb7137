package stats

import (
	"testing"

	"tournament-companion/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	order   = domain.Race{ID: 1, Name: "Орден порядка"}
	inferno = domain.Race{ID: 2, Name: "Инферно"}
	necro   = domain.Race{ID: 3, Name: "Некрополис"}
)

var testHeroes = []domain.Hero{
	{ID: 10, Name: "Ирина", Race: 1},
	{ID: 11, Name: "Ласло", Race: 1},
	{ID: 20, Name: "Грок", Race: 2},
	{ID: 21, Name: "Делеб", Race: 2},
	{ID: 30, Name: "Орсон", Race: 3},
}

// fixture assembles a dataset from games played inside explicit matches.
type fixture struct {
	tournament domain.Tournament
	races      []domain.Race
	users      []domain.User
	matches    []domain.Match
	games      []domain.Game
}

func newFixture(races ...domain.Race) *fixture {
	return &fixture{
		tournament: domain.Tournament{ID: uuid.New(), Name: "Кубок", GameType: domain.GameTypeRMG},
		races:      races,
	}
}

func (f *fixture) user(nick string) domain.User {
	u := domain.User{ID: uuid.New(), Nickname: nick}
	f.users = append(f.users, u)
	return u
}

func (f *fixture) match(first, second domain.User) domain.Match {
	m := domain.Match{ID: uuid.New(), TournamentID: f.tournament.ID, FirstPlayer: first.ID, SecondPlayer: second.ID}
	f.matches = append(f.matches, m)
	return m
}

// game appends a decided game; firstWon picks the winner.
func (f *fixture) game(m domain.Match, firstRace, firstHero, secondRace, secondHero int64, firstWon bool) *domain.Game {
	result := domain.ResultSecondPlayerWon
	if firstWon {
		result = domain.ResultFirstPlayerWon
	}
	f.games = append(f.games, domain.Game{
		ID:               uuid.New(),
		MatchID:          m.ID,
		FirstPlayerRace:  firstRace,
		FirstPlayerHero:  firstHero,
		SecondPlayerRace: secondRace,
		SecondPlayerHero: secondHero,
		Bargain:          domain.NoBargain(),
		Result:           result,
	})
	return &f.games[len(f.games)-1]
}

func (f *fixture) dataset(t *testing.T) *Dataset {
	t.Helper()
	ds, skipped, err := NewDataset(f.tournament, f.races, testHeroes, f.users, f.matches, f.games, LookupSkip)
	require.NoError(t, err)
	require.Empty(t, skipped)
	return ds
}
