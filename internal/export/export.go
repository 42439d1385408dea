// Package export writes ranked screening results to a two-sheet XLSX
// workbook and reads the Results sheet back.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"

	// DefaultRole labels the Summary sheet when no job role was given.
	DefaultRole = "Resume Screening"

	maxColWidth = 50
)

// ErrNoResultsSheet is returned by ReadResults for a workbook without a
// Results sheet.
var ErrNoResultsSheet = errors.New("workbook has no Results sheet")

// score tiers, highest first
var tiers = []struct {
	min   float64
	color string
}{
	{80, "C6EFCE"},
	{60, "FFEB9C"},
	{40, "FFC7CE"},
	{0, "FF9999"},
}

// Write renders rows (already ranked) into an XLSX workbook.
func Write(rows []ranker.Row, role string, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return nil, fmt.Errorf("failed to name results sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := writeResults(f, rows, header); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, Summarize(rows, role, now), header); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeResults(f *excelize.File, rows []ranker.Row, header int) error {
	tierStyles := make([]int, len(tiers))
	pctFormat := `0.00"%"`
	for i, tier := range tiers {
		var err error
		tierStyles[i], err = f.NewStyle(&excelize.Style{
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{tier.color}},
			CustomNumFmt: &pctFormat,
			Alignment:    &excelize.Alignment{Horizontal: "center"},
			Border:       thinBorder(),
		})
		if err != nil {
			return fmt.Errorf("failed to create score style: %w", err)
		}
	}

	widths := make([]int, len(ranker.Columns))
	for col, name := range ranker.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(ResultsSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		widths[col] = utf8.RuneCountInString(name)
	}
	last, _ := excelize.CoordinatesToCellName(len(ranker.Columns), 1)
	if err := f.SetCellStyle(ResultsSheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		values := []any{row.Candidate, row.MatchingPercentage, row.Phone, row.Email, row.MatchedSkills, row.MissingSkills}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(ResultsSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r, err)
			}
		}
		for col, s := range row.Strings() {
			widths[col] = max(widths[col], utf8.RuneCountInString(s))
		}
		pctCell, _ := excelize.CoordinatesToCellName(2, r)
		if err := f.SetCellStyle(ResultsSheet, pctCell, pctCell, tierStyles[tierFor(row.MatchingPercentage)]); err != nil {
			return fmt.Errorf("failed to style row %d: %w", r, err)
		}
	}

	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(ResultsSheet, name, name, float64(min(w+2, maxColWidth))); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	return f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func tierFor(pct float64) int {
	for i, t := range tiers {
		if pct >= t.min {
			return i
		}
	}
	return len(tiers) - 1
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}
}

func writeSummary(f *excelize.File, s Summary, header int) error {
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Metric", "Value"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	for i, m := range s.Metrics() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{m[0], m[1]}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "B", 30)
}

// ReadResults parses the Results sheet of an exported workbook, skipping
// the header row.
func ReadResults(data []byte) ([]ranker.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), ResultsSheet) {
		return nil, ErrNoResultsSheet
	}
	cells, err := f.GetRows(ResultsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	rows := make([]ranker.Row, 0, len(cells)-1)
	for i, c := range cells[1:] {
		for len(c) < len(ranker.Columns) {
			c = append(c, "")
		}
		pct, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad matching percentage %q: %w", i+2, c[1], err)
		}
		rows = append(rows, ranker.Row{
			Candidate:          c[0],
			MatchingPercentage: pct,
			Phone:              c[2],
			Email:              c[3],
			MatchedSkills:      c[4],
			MissingSkills:      c[5],
		})
	}
	return rows, nil
}
