package report

import (
	"unicode/utf8"

	"tournament-companion/internal/stats"
)

// writeOverview lays out the race pairing tables. With n races:
//
//	rows 0..n+1      wins/losses grid, one two-column band per race, totals in column 2n+1
//	rows n+3..2n+3   overall winrate per race
//	rows 2n+5..      games per matchup, then winrate per matchup
func writeOverview(s *sheet, pairs *stats.PairStats) {
	races := pairs.Races
	n := len(races)
	st := s.st
	ext := pairs.Extremes()

	width := 0
	for _, r := range races {
		width = max(width, utf8.RuneCountInString(r.Name))
	}
	s.merge(0, 0, 0, 1, "VS", st.backgroundRed)
	s.width(0, float64(width+1))

	totalsCol := 2*n + 1
	for i, race := range races {
		k := i + 1
		col := 2*k - 1
		s.merge(col, 0, col+1, 0, race.Name, st.thinCenter)
		s.width(col, float64(width)/1.5)
		s.width(col+1, float64(width)/1.5)
		s.set(col, 1, "Побед", st.thinCenter)
		s.set(col+1, 1, "Поражений", st.thinCenter)
		s.set(0, k+1, race.Name, st.thinWrap)

		// row is the race, the column band is its opponent
		for j, opp := range races {
			oppCol := 2*(j+1) - 1
			if opp.ID == race.ID {
				s.merge(oppCol, k+1, oppCol+1, k+1, pairs.Mirrors(race.ID), st.thinWrap)
				continue
			}
			s.set(oppCol, k+1, pairs.Wins(race.ID, opp.ID), st.thinWrap)
			s.set(oppCol+1, k+1, pairs.Losses(race.ID, opp.ID), st.thinWrap)
		}

		totalStyle := st.thinWrap
		switch race.ID {
		case ext.MostPlayed:
			totalStyle = st.backgroundGreen
		case ext.LeastPlayed:
			totalStyle = st.backgroundRed
		}
		s.set(totalsCol, k+1, pairs.TotalGames(race.ID), totalStyle)
	}
	s.set(totalsCol, 0, "Всего игр", st.thinCenter)
	s.style(totalsCol, 1, st.backgroundSilver)

	winrateRow := n + 3
	s.merge(0, winrateRow, 1, winrateRow, "Общий винрейт", st.thinCenter)
	for i, race := range races {
		row := winrateRow + i + 1
		style := st.thinWrap
		if ext.HasWinrate {
			switch race.ID {
			case ext.BestWinrate:
				style = st.backgroundGreen
			case ext.WorstWinrate:
				style = st.backgroundRed
			}
		}
		s.set(0, row, race.Name, st.thinWrap)
		s.set(1, row, rate(pairs.Winrate(race.ID)), style)
	}

	gamesTitle := 2*n + 5
	gamesHeader := gamesTitle + 2
	ratesTitle := gamesHeader + n + 2
	ratesHeader := ratesTitle + 2
	s.merge(3, gamesTitle, 6, gamesTitle, "Число игр по матчапам", st.boldCentered)
	s.merge(3, ratesTitle, 6, ratesTitle, "Винрейты матчапов", st.boldCentered)

	pairStyle := func(a, b int64) int {
		if !ext.HasPairs {
			return st.thinWrap
		}
		switch [2]int64{min(a, b), max(a, b)} {
		case ext.MostPlayedPair:
			return st.backgroundGreen
		case ext.LeastPlayedPair:
			return st.backgroundRed
		}
		return st.thinWrap
	}

	for i, race := range races {
		k := i + 1
		s.set(0, gamesHeader+k, race.Name, st.thinWrap)
		s.set(k, gamesHeader, race.Name, st.thinWrap)
		s.set(0, ratesHeader+k, race.Name, st.thinWrap)
		s.set(k, ratesHeader, race.Name, st.thinWrap)

		for j, opp := range races {
			col := j + 1
			if opp.ID == race.ID {
				s.style(col, gamesHeader+k, st.backgroundBlack)
				s.style(col, ratesHeader+k, st.backgroundBlack)
				continue
			}
			wl := pairs.Pair(race.ID, opp.ID)
			s.set(col, gamesHeader+k, wl.Games(), pairStyle(race.ID, opp.ID))
			s.set(col, ratesHeader+k, rate(wl.Winrate()), st.thinWrap)
		}
	}
}
