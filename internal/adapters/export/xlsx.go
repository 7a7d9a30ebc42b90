package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SummarySheet = "Summary"
)

var sheetNames = map[string]string{
	view.Leaderboard: "Leaderboard",
	view.Retrieval:   "Retrieval",
	view.Detail:      "Detail",
}

var (
	fmtPercent = "0.0%"
	fmtFixed3  = "0.000"
	fmtDollars = `"$"0.00`
	fmtRaw     = "General"
)

// numFmt maps a column to the spreadsheet number format matching its text format.
func numFmt(id string) *string {
	switch id {
	case view.ColPassAt1:
		return &fmtPercent
	case view.ColCost:
		return &fmtDollars
	case view.ColSteps, view.ColLinesPerStep:
		return &fmtRaw
	}
	return &fmtFixed3
}

// WriteXLSX writes a workbook with the summary and one sheet per layout in
// its default state. Cells hold numeric values; display formatting is applied
// through number formats.
func (e *Exporter) WriteXLSX(ctx context.Context, w io.Writer) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if err := e.writeSummary(ctx, f, bold); err != nil {
		return err
	}

	for _, l := range view.Layouts() {
		t, err := e.src.Render(ctx, l.Name, nil)
		if err != nil {
			return err
		}
		if err := writeTable(f, sheetNames[l.Name], t, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", l.Name, err)
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func (e *Exporter) writeSummary(ctx context.Context, f *excelize.File, bold int) error {
	info, err := e.src.Info(ctx)
	if err != nil {
		return err
	}
	rows := [][]any{
		{"Dataset version", info.Version},
		{"Source", info.Source},
		{"Total Models", info.Records},
	}

	sum, err := e.src.Summary(ctx)
	switch {
	case err == nil:
		rows = append(rows,
			[]any{"Best Pass@1", sum.BestPassAt1},
			[]any{"Avg. Efficiency", sum.AvgEfficiency},
			[]any{"Avg. Line F1", sum.AvgLineF1},
		)
	case errors.Is(err, derived.ErrEmptyDataset):
	default:
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "B", 40)
}

func writeTable(f *excelize.File, sheet string, t view.Table, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []any{"Rank", "Model"}
	for _, h := range t.Headers {
		label := h.Label
		if h.Group != "" {
			label = h.Group + " " + h.Label
		}
		header = append(header, label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, row := range t.Rows {
		values := []any{row.Rank, row.DisplayName}
		for _, c := range row.Cells {
			values = append(values, c.Value)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(t.Rows) > 0 {
		for j, h := range t.Headers {
			style, err := f.NewStyle(&excelize.Style{CustomNumFmt: numFmt(h.ID)})
			if err != nil {
				return err
			}
			top, err := excelize.CoordinatesToCellName(j+3, 2)
			if err != nil {
				return err
			}
			bottom, err := excelize.CoordinatesToCellName(j+3, len(t.Rows)+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}
