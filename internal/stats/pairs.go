package stats

import (
	"tournament-companion/internal/domain"
)

// PairStats cross-tabulates race against race. wins[a][b] counts games race
// a won against race b, so wins[a][b] == losses[b][a] always holds.
type PairStats struct {
	Races   []domain.Race
	wins    map[int64]map[int64]int
	losses  map[int64]map[int64]int
	mirrors map[int64]int
}

func BuildPairs(races []domain.Race, games []domain.Game) *PairStats {
	p := &PairStats{
		Races:   races,
		wins:    make(map[int64]map[int64]int, len(races)),
		losses:  make(map[int64]map[int64]int, len(races)),
		mirrors: make(map[int64]int, len(races)),
	}
	known := make(map[int64]bool, len(races))
	for _, r := range races {
		known[r.ID] = true
		p.wins[r.ID] = make(map[int64]int, len(races))
		p.losses[r.ID] = make(map[int64]int, len(races))
	}

	for _, g := range games {
		if !known[g.FirstPlayerRace] || !known[g.SecondPlayerRace] {
			continue
		}
		if g.Mirror() {
			p.mirrors[g.FirstPlayerRace]++
			continue
		}
		winner, loser := g.FirstPlayerRace, g.SecondPlayerRace
		if !g.FirstWon() {
			winner, loser = loser, winner
		}
		p.wins[winner][loser]++
		p.losses[loser][winner]++
	}
	return p
}

func (p *PairStats) Wins(race, opponent int64) int { return p.wins[race][opponent] }

func (p *PairStats) Losses(race, opponent int64) int { return p.losses[race][opponent] }

func (p *PairStats) Mirrors(race int64) int { return p.mirrors[race] }

func (p *PairStats) Pair(race, opponent int64) WinLoss {
	return WinLoss{Wins: p.wins[race][opponent], Losses: p.losses[race][opponent]}
}

// Record sums a race's non-mirror results over all opponents.
func (p *PairStats) Record(race int64) WinLoss {
	var wl WinLoss
	for _, opp := range p.Races {
		if opp.ID != race {
			wl = wl.plus(p.Pair(race, opp.ID))
		}
	}
	return wl
}

// TotalGames counts every game the race took part in, mirrors once.
func (p *PairStats) TotalGames(race int64) int {
	return p.Record(race).Games() + p.mirrors[race]
}

// Winrate excludes mirrors from the denominator.
func (p *PairStats) Winrate(race int64) Ratio {
	return p.Record(race).Winrate()
}

type Extremes struct {
	MostPlayed   int64
	LeastPlayed  int64
	BestWinrate  int64
	WorstWinrate int64
	// HasWinrate is false when no race has a non-mirror game.
	HasWinrate      bool
	MostPlayedPair  [2]int64
	LeastPlayedPair [2]int64
	HasPairs        bool
}

// Extremes scans races in ascending id order with strict comparisons, so
// ties go to the lowest race id (or the lowest pair).
func (p *PairStats) Extremes() Extremes {
	var e Extremes
	if len(p.Races) == 0 {
		return e
	}

	most, least := -1, -1
	var best, worst float64
	for _, r := range p.Races {
		total := p.TotalGames(r.ID)
		if most < 0 || total > most {
			most, e.MostPlayed = total, r.ID
		}
		if least < 0 || total < least {
			least, e.LeastPlayed = total, r.ID
		}

		rate := p.Winrate(r.ID)
		if !rate.Defined() {
			continue
		}
		v := rate.Value()
		if !e.HasWinrate || v > best {
			best, e.BestWinrate = v, r.ID
		}
		if !e.HasWinrate || v < worst {
			worst, e.WorstWinrate = v, r.ID
		}
		e.HasWinrate = true
	}

	mostPair, leastPair := -1, -1
	for i, a := range p.Races {
		for _, b := range p.Races[i+1:] {
			games := p.Pair(a.ID, b.ID).Games()
			if mostPair < 0 || games > mostPair {
				mostPair, e.MostPlayedPair = games, [2]int64{a.ID, b.ID}
			}
			if leastPair < 0 || games < leastPair {
				leastPair, e.LeastPlayedPair = games, [2]int64{a.ID, b.ID}
			}
			e.HasPairs = true
		}
	}
	return e
}
