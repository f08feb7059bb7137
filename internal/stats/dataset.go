package stats

import (
	"cmp"
	"fmt"
	"slices"

	"tournament-companion/internal/domain"

	"github.com/google/uuid"
)

// LookupPolicy decides what happens when a record references a race, hero
// or user that is missing from the loaded reference lists.
type LookupPolicy string

const (
	// LookupSkip drops the offending record and keeps going.
	LookupSkip LookupPolicy = "skip"
	// LookupAbort fails the whole run on the first unresolved reference.
	LookupAbort LookupPolicy = "abort"
)

func ParseLookupPolicy(s string) (LookupPolicy, error) {
	switch LookupPolicy(s) {
	case LookupSkip, LookupAbort:
		return LookupPolicy(s), nil
	}
	return "", fmt.Errorf("unknown lookup policy %q (want skip or abort)", s)
}

type LookupError struct {
	Record string // "game" or "match"
	ID     uuid.UUID
	Ref    string // "race", "hero" or "user"
	RefID  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s references unknown %s %s", e.Record, e.ID, e.Ref, e.RefID)
}

// Dataset is the resolved, read-only input of one report run. Every game
// and match in it references known races, heroes and users.
type Dataset struct {
	Tournament domain.Tournament
	Races      []domain.Race
	Heroes     []domain.Hero
	Users      []domain.User
	Matches    []domain.Match
	Games      []domain.Game

	races        map[int64]domain.Race
	heroes       map[int64]domain.Hero
	users        map[uuid.UUID]domain.User
	gamesByMatch map[uuid.UUID][]domain.Game
}

func NewDataset(
	tournament domain.Tournament,
	races []domain.Race,
	heroes []domain.Hero,
	users []domain.User,
	matches []domain.Match,
	games []domain.Game,
	policy LookupPolicy,
) (*Dataset, []*LookupError, error) {
	ds := &Dataset{
		Tournament:   tournament,
		Races:        slices.Clone(races),
		Heroes:       heroes,
		Users:        users,
		races:        make(map[int64]domain.Race, len(races)),
		heroes:       make(map[int64]domain.Hero, len(heroes)),
		users:        make(map[uuid.UUID]domain.User, len(users)),
		gamesByMatch: make(map[uuid.UUID][]domain.Game),
	}
	slices.SortFunc(ds.Races, func(a, b domain.Race) int { return cmp.Compare(a.ID, b.ID) })
	for _, r := range ds.Races {
		ds.races[r.ID] = r
	}
	for _, h := range heroes {
		ds.heroes[h.ID] = h
	}
	for _, u := range users {
		ds.users[u.ID] = u
	}

	var skipped []*LookupError
	reject := func(lerr *LookupError) error {
		if policy == LookupAbort {
			return lerr
		}
		skipped = append(skipped, lerr)
		return nil
	}

	for _, m := range matches {
		if lerr := ds.checkMatch(m); lerr != nil {
			if err := reject(lerr); err != nil {
				return nil, nil, err
			}
			continue
		}
		ds.Matches = append(ds.Matches, m)
	}

	for _, g := range games {
		if lerr := ds.checkGame(g); lerr != nil {
			if err := reject(lerr); err != nil {
				return nil, nil, err
			}
			continue
		}
		ds.Games = append(ds.Games, g)
		ds.gamesByMatch[g.MatchID] = append(ds.gamesByMatch[g.MatchID], g)
	}

	return ds, skipped, nil
}

func (ds *Dataset) checkMatch(m domain.Match) *LookupError {
	for _, id := range []uuid.UUID{m.FirstPlayer, m.SecondPlayer} {
		if _, ok := ds.users[id]; !ok {
			return &LookupError{Record: "match", ID: m.ID, Ref: "user", RefID: id.String()}
		}
	}
	return nil
}

func (ds *Dataset) checkGame(g domain.Game) *LookupError {
	for _, id := range []int64{g.FirstPlayerRace, g.SecondPlayerRace} {
		if _, ok := ds.races[id]; !ok {
			return &LookupError{Record: "game", ID: g.ID, Ref: "race", RefID: fmt.Sprint(id)}
		}
	}
	for _, id := range []int64{g.FirstPlayerHero, g.SecondPlayerHero} {
		if _, ok := ds.heroes[id]; !ok {
			return &LookupError{Record: "game", ID: g.ID, Ref: "hero", RefID: fmt.Sprint(id)}
		}
	}
	return nil
}

func (ds *Dataset) Race(id int64) domain.Race { return ds.races[id] }

func (ds *Dataset) Hero(id int64) domain.Hero { return ds.heroes[id] }

func (ds *Dataset) User(id uuid.UUID) domain.User { return ds.users[id] }

// GamesOf returns the games of a match in provider order.
func (ds *Dataset) GamesOf(matchID uuid.UUID) []domain.Game {
	return ds.gamesByMatch[matchID]
}

// HeroesOfRace returns the reference heroes owned by a race, in list order.
func (ds *Dataset) HeroesOfRace(race int64) []domain.Hero {
	var out []domain.Hero
	for _, h := range ds.Heroes {
		if h.Race == race {
			out = append(out, h)
		}
	}
	return out
}
