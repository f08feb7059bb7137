package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type styles struct {
	thinBorder       int
	thinCenter       int
	thinWrap         int
	centerRed        int
	boldCentered     int
	backgroundSilver int
	backgroundBlack  int
	backgroundGreen  int
	backgroundRed    int
}

var thin = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func fill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// newStyles registers the workbook styles in a fixed order so that style
// ids are stable between runs.
func newStyles(f *excelize.File) (*styles, error) {
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	wrapped := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	st := &styles{}
	specs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.thinBorder, &excelize.Style{Border: thin}},
		{&st.thinCenter, &excelize.Style{Border: thin, Alignment: centered}},
		{&st.thinWrap, &excelize.Style{Border: thin, Alignment: wrapped}},
		{&st.centerRed, &excelize.Style{Alignment: centered, Fill: fill("FF0000")}},
		{&st.boldCentered, &excelize.Style{Border: thin, Alignment: wrapped, Font: &excelize.Font{Bold: true}}},
		{&st.backgroundSilver, &excelize.Style{Border: thin, Fill: fill("C0C0C0")}},
		{&st.backgroundBlack, &excelize.Style{Border: thin, Fill: fill("000000")}},
		{&st.backgroundGreen, &excelize.Style{Border: thin, Alignment: wrapped, Fill: fill("00FF00")}},
		{&st.backgroundRed, &excelize.Style{Border: thin, Alignment: wrapped, Fill: fill("FF0000")}},
	}
	for _, s := range specs {
		id, err := f.NewStyle(s.style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*s.dst = id
	}
	return st, nil
}
