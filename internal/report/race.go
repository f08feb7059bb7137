package report

import (
	"fmt"
	"unicode/utf8"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/stats"
)

// writeRace lays out one race sheet: the bargain block when the
// tournament records bargains, the hero usage table, then one hero
// matchup block per opponent race.
func writeRace(s *sheet, rs stats.RaceStats) {
	row := 0
	if rs.Bargains != nil {
		row = writeBargains(s, rs.Bargains)
	}
	row = writeHeroes(s, rs, row)
	for _, m := range rs.Matchups {
		writeMatchup(s, rs, m, row)
		row += len(rs.Heroes) + 4
	}
}

var bargainHeaders = []string{"Игр", "Побед", "Поражений", "Винрейт"}

// writeBargains returns the first free row below the block.
func writeBargains(s *sheet, bs *stats.BargainStats) int {
	st := s.st
	s.merge(0, 0, 16, 0, "Статистика торгов", st.boldCentered)
	s.merge(1, 1, 6, 1, "Торг в плюс", st.thinCenter)
	s.merge(7, 1, 12, 1, "Торг в минус", st.thinCenter)
	s.merge(13, 1, 16, 1, "Без торга", st.thinCenter)
	s.merge(0, 1, 0, 2, "VS", st.centerRed)

	groups := []struct {
		col     int
		extreme string
	}{{1, "Макс. торг"}, {7, "Мин. торг"}, {13, ""}}
	for _, g := range groups {
		for i, h := range bargainHeaders {
			s.set(g.col+i, 2, h, st.thinWrap)
		}
		if g.extreme != "" {
			s.set(g.col+4, 2, g.extreme, st.thinWrap)
			s.set(g.col+5, 2, "Средний торг", st.thinWrap)
		}
	}

	row := 3
	for _, l := range bs.Lines {
		s.set(0, row, l.Opponent.Name, st.thinWrap)
		writeBucket(s, 1, row, l.Up, true)
		writeBucket(s, 7, row, l.Down, true)
		writeBucket(s, 13, row, l.None, false)
		row++
	}

	s.set(0, row, "Всего", st.boldCentered)
	writeBucket(s, 1, row, bs.Up, true)
	writeBucket(s, 7, row, bs.Down, true)
	writeBucket(s, 13, row, bs.None, false)
	// totals show the mean of per-opponent averages
	s.set(6, row, average(bs.UpAverages.Mean()), st.thinWrap)
	s.set(12, row, average(bs.DownAverages.Mean()), st.thinWrap)
	return row + 3
}

func writeBucket(s *sheet, col, row int, b stats.Bucket, amounts bool) {
	st := s.st
	s.set(col, row, b.Games(), st.thinWrap)
	s.set(col+1, row, b.Wins, st.thinWrap)
	s.set(col+2, row, b.Losses, st.thinWrap)
	s.set(col+3, row, rate(b.Winrate()), st.thinWrap)
	if !amounts {
		return
	}
	if v, ok := b.Extreme(); ok {
		s.set(col+4, row, v, st.thinWrap)
	} else {
		s.set(col+4, row, constants.NoGames, st.thinWrap)
	}
	s.set(col+5, row, average(b.Average()), st.thinWrap)
}

func average(v float64, ok bool) any {
	if !ok {
		return constants.NoGames
	}
	return fmt.Sprintf("%.3f", v)
}

// writeHeroes returns the first row of the matchup blocks.
func writeHeroes(s *sheet, rs stats.RaceStats, row int) int {
	st := s.st
	width := 0
	for _, h := range rs.Heroes {
		width = max(width, utf8.RuneCountInString(h.Hero.Name))
	}
	s.width(0, float64(width+1))
	s.merge(4, row, 9, row, "Общая статистика использования героев", st.boldCentered)

	header := row + 1
	s.set(1, header, "Всего побед", st.thinWrap)
	s.set(2, header, "Всего поражений", st.thinWrap)
	s.set(3, header, "Всего игр", st.thinWrap)
	s.set(4, header, "Процент выбора", st.thinWrap)
	for j, opp := range rs.Opponents {
		s.set(5+2*j, header, "Игр vs "+opp.Name, st.thinWrap)
		s.set(6+2*j, header, "Винрейт vs "+opp.Name, st.thinWrap)
	}

	for i, h := range rs.Heroes {
		r := header + 1 + i
		s.set(0, r, h.Hero.Name, st.boldCentered)
		s.set(1, r, h.Wins, st.thinWrap)
		s.set(2, r, h.Losses, st.thinWrap)
		s.set(3, r, h.Games(), st.thinWrap)
		s.set(4, r, rate(h.PickRate), st.thinWrap)
		for j, vs := range h.VsRace {
			s.set(5+2*j, r, count(vs.Games()), st.thinWrap)
			s.set(6+2*j, r, rate(vs.Winrate()), st.thinWrap)
		}
	}
	return header + len(rs.Heroes) + 2
}

func writeMatchup(s *sheet, rs stats.RaceStats, m stats.HeroMatchup, row int) {
	st := s.st
	s.merge(4, row, 9, row, fmt.Sprintf("%s vs %s", rs.Race.Name, m.Opponent.Name), st.boldCentered)
	s.merge(0, row+1, 0, row+2, "VS", st.centerRed)

	for i, h := range rs.Heroes {
		s.set(0, row+3+i, h.Hero.Name, st.boldCentered)
	}

	col := 1
	for _, h := range m.Columns {
		s.merge(col, row+1, col+1, row+1, h.Name, st.boldCentered)
		s.width(col, 12)
		s.width(col+1, 12)
		s.set(col, row+2, "Побед", st.thinWrap)
		s.set(col+1, row+2, "Поражений", st.thinWrap)
		col += 2
	}
	totals := col + 1
	s.width(totals, 12)
	s.width(totals+1, 12)
	s.set(totals, row+1, "Всего игр", st.thinWrap)
	s.set(totals+1, row+1, "Винрейт", st.thinWrap)
	s.style(totals, row+2, st.backgroundSilver)
	s.style(totals+1, row+2, st.backgroundSilver)

	for i := range rs.Heroes {
		r := row + 3 + i
		for j, c := range m.Cells[i] {
			winStyle, lossStyle := st.thinWrap, st.thinWrap
			if c.Wins > 0 {
				winStyle = st.backgroundGreen
			}
			if c.Losses > 0 {
				lossStyle = st.backgroundRed
			}
			s.set(1+2*j, r, c.Wins, winStyle)
			s.set(2+2*j, r, c.Losses, lossStyle)
		}
		total := m.Total(i)
		s.set(totals, r, count(total.Games()), st.thinWrap)
		s.set(totals+1, r, rate(total.Winrate()), st.thinWrap)
	}
}
