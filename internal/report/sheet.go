package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/stats"

	"github.com/xuri/excelize/v2"
)

// sheet writes into one worksheet using zero-based coordinates and keeps
// the first error, so layout code can stay linear.
type sheet struct {
	f    *excelize.File
	st   *styles
	name string
	err  error
}

func (s *sheet) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil && s.err == nil {
		s.err = err
	}
	return name
}

func (s *sheet) set(col, row int, value any, style int) {
	if s.err != nil {
		return
	}
	axis := s.cell(col, row)
	if s.err != nil {
		return
	}
	if err := s.f.SetCellValue(s.name, axis, value); err != nil {
		s.err = fmt.Errorf("failed to write %s!%s: %w", s.name, axis, err)
		return
	}
	s.style(col, row, style)
}

func (s *sheet) style(col, row, style int) {
	if s.err != nil {
		return
	}
	axis := s.cell(col, row)
	if s.err != nil {
		return
	}
	if err := s.f.SetCellStyle(s.name, axis, axis, style); err != nil {
		s.err = fmt.Errorf("failed to style %s!%s: %w", s.name, axis, err)
	}
}

// merge writes value into the top-left cell and merges the range.
func (s *sheet) merge(col1, row1, col2, row2 int, value any, style int) {
	if s.err != nil {
		return
	}
	from, to := s.cell(col1, row1), s.cell(col2, row2)
	if s.err != nil {
		return
	}
	if err := s.f.SetCellValue(s.name, from, value); err != nil {
		s.err = fmt.Errorf("failed to write %s!%s: %w", s.name, from, err)
		return
	}
	if err := s.f.SetCellStyle(s.name, from, to, style); err != nil {
		s.err = fmt.Errorf("failed to style %s!%s:%s: %w", s.name, from, to, err)
		return
	}
	if from == to {
		return
	}
	if err := s.f.MergeCell(s.name, from, to); err != nil {
		s.err = fmt.Errorf("failed to merge %s!%s:%s: %w", s.name, from, to, err)
	}
}

func (s *sheet) width(col int, w float64) {
	if s.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetColWidth(s.name, name, name, w); err != nil {
		s.err = fmt.Errorf("failed to size %s!%s: %w", s.name, name, err)
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.3f%%", v)
}

// rate renders a ratio, or the "no games" marker when it is undefined.
func rate(r stats.Ratio) string {
	p, ok := r.Percent()
	if !ok {
		return constants.NoGames
	}
	return percent(p)
}

// count renders a game count, with zero shown as "no games".
func count(n int) any {
	if n == 0 {
		return constants.NoGames
	}
	return n
}

const maxSheetName = 31

// sheetNames hands out Excel-safe, case-insensitively unique sheet names.
type sheetNames map[string]bool

func (used sheetNames) take(want, fallback string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, want)
	base = strings.Trim(strings.TrimSpace(base), "'")
	if base == "" {
		base = fallback
	}
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
