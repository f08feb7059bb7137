package report

import (
	"fmt"
	"os"
	"path/filepath"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/stats"

	"github.com/xuri/excelize/v2"
)

// Build renders the workbook: the race overview, one sheet per race in
// race id order, then one sheet per player in provider order.
func Build(tables *stats.Tables) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	names := sheetNames{}
	overview := names.take(constants.OverviewSheet, "Overview")
	if err := f.SetSheetName(f.GetSheetName(0), overview); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name overview sheet: %w", err)
	}

	s := &sheet{f: f, st: st, name: overview}
	writeOverview(s, tables.Pairs)
	if s.err != nil {
		f.Close()
		return nil, s.err
	}

	for _, rs := range tables.Races {
		s, err := addSheet(f, st, names.take(rs.Race.Name, fmt.Sprintf("Раса %d", rs.Race.ID)))
		if err != nil {
			f.Close()
			return nil, err
		}
		writeRace(s, rs)
		if s.err != nil {
			f.Close()
			return nil, s.err
		}
	}

	for _, p := range tables.Players {
		s, err := addSheet(f, st, names.take(p.User.Nickname, "Игрок"))
		if err != nil {
			f.Close()
			return nil, err
		}
		writePlayer(s, tables.Tournament, p)
		if s.err != nil {
			f.Close()
			return nil, s.err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func addSheet(f *excelize.File, st *styles, name string) (*sheet, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	return &sheet{f: f, st: st, name: name}, nil
}

// Save builds the workbook and writes it to path through a temporary file
// in the same directory, so a failed run never leaves a file at path.
func Save(tables *stats.Tables, path string) error {
	f, err := Build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*"+constants.ReportExt)
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	committed = true
	return nil
}
