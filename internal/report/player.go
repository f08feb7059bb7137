package report

import (
	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/stats"
)

// historyHeaders are the game history columns after the opponent column.
func historyHeaders(t domain.Tournament) []string {
	headers := []string{"Фракция игрока", "Фракция оппонента", "Герой игрока", "Герой оппонента"}
	if t.WithBargains {
		headers = append(headers, "Торг игрока")
	}
	if t.WithBargainsColor {
		headers = append(headers, "Цвет торга")
	}
	headers = append(headers, "Результат")
	if t.GameType.TracksOutcome() {
		headers = append(headers, "Исход")
	}
	return headers
}

func writePlayer(s *sheet, t domain.Tournament, h stats.PlayerHistory) {
	st := s.st
	headers := historyHeaders(t)
	s.merge(0, 0, len(headers), 0, "История игр", st.boldCentered)
	s.width(0, 14)
	s.set(0, 1, "VS", st.centerRed)
	for i, name := range headers {
		s.width(i+1, 14)
		s.set(i+1, 1, name, st.thinWrap)
	}

	row := 2
	for _, e := range h.Entries {
		col := 0
		next := func(v any, style int) {
			s.set(col, row, v, style)
			col++
		}
		next(e.Opponent.Nickname, st.thinWrap)
		next(e.PlayerRace.Name, st.thinWrap)
		next(e.OpponentRace.Name, st.thinWrap)
		next(e.PlayerHero.Name, st.thinWrap)
		next(e.OpponentHero.Name, st.thinWrap)
		if t.WithBargains {
			if e.Bargain != nil {
				next(*e.Bargain, st.thinWrap)
			} else {
				next("", st.thinBorder)
			}
		}
		if t.WithBargainsColor {
			next(e.BargainsColor.Label(), st.thinWrap)
		}
		if e.Won {
			next("Победа", st.backgroundGreen)
		} else {
			next("Поражение", st.backgroundRed)
		}
		if t.GameType.TracksOutcome() {
			if e.Outcome != nil {
				next(e.Outcome.Label(), st.thinWrap)
			} else {
				next("", st.thinBorder)
			}
		}
		row++
	}

	total := row + 1
	s.set(0, total, "Всего игр", st.thinWrap)
	s.set(1, total, h.TotalGames(), st.thinWrap)
	s.set(0, total+1, "Общий винрейт", st.thinWrap)
	s.set(1, total+1, rate(h.Winrate()), st.thinWrap)

	next := writePicks(s, total+4, "Выбор рас", h.Races)
	writePicks(s, next, "Выбор героев", h.Heroes)
}

// writePicks writes a selection summary whose header sits at row and
// returns the header row of the following block.
func writePicks(s *sheet, row int, title string, picks []stats.PickSummary) int {
	st := s.st
	s.merge(0, row-1, 2, row-1, title, st.boldCentered)
	s.set(1, row, "Всего игр", st.thinWrap)
	s.set(2, row, "Винрейт", st.thinWrap)
	for i, p := range picks {
		r := row + 1 + i
		s.set(0, r, p.Name, st.thinWrap)
		s.set(1, r, p.Games, st.thinWrap)
		if p.Games == 0 {
			s.set(2, r, constants.NoGames, st.thinWrap)
			continue
		}
		s.set(2, r, percent(p.Winrate()*100), st.thinWrap)
	}
	return row + len(picks) + 3
}
