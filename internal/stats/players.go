package stats

import (
	"tournament-companion/internal/domain"
)

// HistoryEntry is one game seen from a single player's side.
type HistoryEntry struct {
	GameID       string
	Opponent     domain.User
	PlayerRace   domain.Race
	PlayerHero   domain.Hero
	OpponentRace domain.Race
	OpponentHero domain.Hero
	// Bargain is nil when the game had no applicable bargain.
	Bargain       *int64
	BargainsColor domain.BargainsColor
	Won           bool
	// Outcome is only set for game types that track it.
	Outcome *domain.GameOutcome
}

// PickSummary counts a player's games with one race or hero.
type PickSummary struct {
	ID    int64
	Name  string
	Games int
	Wins  int
}

// Winrate is zero for a pick that was never played.
func (p PickSummary) Winrate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games)
}

type PlayerHistory struct {
	User    domain.User
	Entries []HistoryEntry
	// Races is in ascending race id order, Heroes in order of first pick.
	Races  []PickSummary
	Heroes []PickSummary
}

func (h PlayerHistory) TotalGames() int { return len(h.Entries) }

func (h PlayerHistory) TotalWins() int {
	wins := 0
	for _, e := range h.Entries {
		if e.Won {
			wins++
		}
	}
	return wins
}

func (h PlayerHistory) Winrate() Ratio { return RatioOf(h.TotalWins(), h.TotalGames()) }

// BuildPlayers returns one history per participant in provider order.
func BuildPlayers(ds *Dataset) []PlayerHistory {
	out := make([]PlayerHistory, 0, len(ds.Users))
	for _, u := range ds.Users {
		out = append(out, BuildPlayerHistory(ds, u))
	}
	return out
}

// BuildPlayerHistory walks the user's matches and their games in provider
// order.
func BuildPlayerHistory(ds *Dataset, user domain.User) PlayerHistory {
	h := PlayerHistory{User: user}
	races := make(map[int64]*PickSummary)
	heroes := make(map[int64]*PickSummary)
	var heroOrder []int64

	for _, m := range ds.Matches {
		if !m.Involves(user.ID) {
			continue
		}
		first := m.FirstPlayer == user.ID
		opponent := m.FirstPlayer
		if first {
			opponent = m.SecondPlayer
		}

		for _, g := range ds.GamesOf(m.ID) {
			side := g.Sides()[1]
			if first {
				side = g.Sides()[0]
			}

			e := HistoryEntry{
				GameID:       g.ID.String(),
				Opponent:     ds.User(opponent),
				PlayerRace:   ds.Race(side.Race),
				PlayerHero:   ds.Hero(side.Hero),
				OpponentRace: ds.Race(side.OpponentRace),
				OpponentHero: ds.Hero(side.OpponentHero),
				Won:          side.Won,
			}
			if side.HasBargain {
				amount := side.Bargain
				e.Bargain = &amount
			}
			if ds.Tournament.WithBargainsColor {
				e.BargainsColor = g.BargainsColor
			}
			if ds.Tournament.GameType.TracksOutcome() {
				e.Outcome = g.Outcome
			}
			h.Entries = append(h.Entries, e)

			rs, ok := races[side.Race]
			if !ok {
				rs = &PickSummary{ID: side.Race, Name: e.PlayerRace.Name}
				races[side.Race] = rs
			}
			hs, ok := heroes[side.Hero]
			if !ok {
				hs = &PickSummary{ID: side.Hero, Name: e.PlayerHero.Name}
				heroes[side.Hero] = hs
				heroOrder = append(heroOrder, side.Hero)
			}
			rs.Games++
			hs.Games++
			if side.Won {
				rs.Wins++
				hs.Wins++
			}
		}
	}

	for _, r := range ds.Races {
		if rs, ok := races[r.ID]; ok {
			h.Races = append(h.Races, *rs)
		}
	}
	for _, id := range heroOrder {
		h.Heroes = append(h.Heroes, *heroes[id])
	}
	return h
}

