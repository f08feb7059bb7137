package stats

import "tournament-companion/internal/domain"

// Tables holds every aggregate a report is rendered from.
type Tables struct {
	Tournament domain.Tournament
	Pairs      *PairStats
	Races      []RaceStats
	Players    []PlayerHistory
}

func BuildTables(ds *Dataset) *Tables {
	return &Tables{
		Tournament: ds.Tournament,
		Pairs:      BuildPairs(ds.Races, ds.Games),
		Races:      BuildRaces(ds),
		Players:    BuildPlayers(ds),
	}
}
