package stats

import (
	"tournament-companion/internal/domain"

	"github.com/samber/lo"
)

type HeroLine struct {
	Hero domain.Hero
	WinLoss
	// PickRate is this hero's picks over all picks of the race.
	PickRate Ratio
	// VsRace is aligned with RaceStats.Opponents.
	VsRace []WinLoss
}

// HeroMatchup is the hero-by-hero table of one race against one opponent
// race. Cells[i][j] is RaceStats.Heroes[i] against Columns[j].
type HeroMatchup struct {
	Opponent domain.Race
	Columns  []domain.Hero
	Cells    [][]WinLoss
}

// Total sums one hero row across every opponent hero.
func (m HeroMatchup) Total(row int) WinLoss {
	var wl WinLoss
	for _, c := range m.Cells[row] {
		wl = wl.plus(c)
	}
	return wl
}

type RaceStats struct {
	Race domain.Race
	// Picks counts sides played with this race, so a mirror game counts
	// twice and Picks can exceed the overview's total games for the race.
	Picks     int
	Heroes    []HeroLine
	Opponents []domain.Race
	Matchups  []HeroMatchup
	// Bargains is nil unless the tournament records bargains.
	Bargains *BargainStats
}

func BuildRaces(ds *Dataset) []RaceStats {
	out := make([]RaceStats, 0, len(ds.Races))
	for _, r := range ds.Races {
		out = append(out, BuildRace(ds, r))
	}
	return out
}

func BuildRace(ds *Dataset, race domain.Race) RaceStats {
	rs := RaceStats{
		Race: race,
		Opponents: lo.Filter(ds.Races, func(r domain.Race, _ int) bool {
			return r.ID != race.ID
		}),
	}

	var sides []domain.Side
	for _, g := range ds.Games {
		for _, s := range g.Sides() {
			if s.Race == race.ID {
				sides = append(sides, s)
			}
		}
	}
	rs.Picks = len(sides)

	heroIDs := lo.Uniq(lo.Map(sides, func(s domain.Side, _ int) int64 { return s.Hero }))
	heroRow := make(map[int64]int, len(heroIDs))
	opponentCol := make(map[int64]int, len(rs.Opponents))
	for i, o := range rs.Opponents {
		opponentCol[o.ID] = i
	}
	for i, id := range heroIDs {
		heroRow[id] = i
		rs.Heroes = append(rs.Heroes, HeroLine{
			Hero:   ds.Hero(id),
			VsRace: make([]WinLoss, len(rs.Opponents)),
		})
	}

	for _, s := range sides {
		line := &rs.Heroes[heroRow[s.Hero]]
		line.add(s.Won)
		if col, ok := opponentCol[s.OpponentRace]; ok {
			line.VsRace[col].add(s.Won)
		}
	}
	for i := range rs.Heroes {
		rs.Heroes[i].PickRate = RatioOf(rs.Heroes[i].Games(), rs.Picks)
	}

	for _, opp := range rs.Opponents {
		rs.Matchups = append(rs.Matchups, buildMatchup(ds, opp, sides, heroRow, len(heroIDs)))
	}

	if ds.Tournament.WithBargains {
		rs.Bargains = BuildBargains(ds.Races, sides)
	}
	return rs
}

func buildMatchup(ds *Dataset, opp domain.Race, sides []domain.Side, heroRow map[int64]int, rows int) HeroMatchup {
	m := HeroMatchup{
		Opponent: opp,
		Columns:  matchupColumns(ds, opp),
		Cells:    make([][]WinLoss, rows),
	}
	col := make(map[int64]int, len(m.Columns))
	for j, h := range m.Columns {
		col[h.ID] = j
	}
	for i := range m.Cells {
		m.Cells[i] = make([]WinLoss, len(m.Columns))
	}

	for _, s := range sides {
		if s.OpponentRace != opp.ID {
			continue
		}
		j, ok := col[s.OpponentHero]
		if !ok {
			continue
		}
		m.Cells[heroRow[s.Hero]][j].add(s.Won)
	}
	return m
}

// matchupColumns lists the heroes an opponent race can field: its own
// heroes, or with foreign heroes allowed, whatever its players picked.
func matchupColumns(ds *Dataset, opp domain.Race) []domain.Hero {
	if !ds.Tournament.WithForeignHeroes {
		return ds.HeroesOfRace(opp.ID)
	}
	var ids []int64
	for _, g := range ds.Games {
		for _, s := range g.Sides() {
			if s.Race == opp.ID {
				ids = append(ids, s.Hero)
			}
		}
	}
	return lo.Map(lo.Uniq(ids), func(id int64, _ int) domain.Hero { return ds.Hero(id) })
}
