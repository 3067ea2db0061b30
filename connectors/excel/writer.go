package excel

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"msr-report/connectors/config"
	"msr-report/domain/report"
	"msr-report/domain/ticket"
)

// sheetToColumn maps configured sheet display names to pivot columns, as in
// the report layout: the "RootCause" sheet shows the derived final value.
var sheetToColumn = map[string]string{
	"Type":            ticket.ColType,
	"Priority":        ticket.ColPriority,
	"State":           ticket.ColState,
	"Category":        ticket.ColCategory,
	"Subcategory":     ticket.ColSubcategory,
	"RootCause":       ticket.ColRootCauseFinal,
	"AssignmentGroup": ticket.ColAssignmentGroup,
	"Customer":        ticket.ColCustomer,
	"SLA":             ticket.ColSLABreached,
}

// chartSheets are the pivot sheets that get an embedded column chart when
// charts are enabled.
var chartSheets = []string{"Type", "Priority", "State", "RootCause"}

// detailColumns is the fixed allow-list for the Details sheet.
var detailColumns = []string{
	ticket.ColTicketID,
	ticket.ColType,
	ticket.ColPriority,
	ticket.ColState,
	ticket.ColCategory,
	ticket.ColSubcategory,
	ticket.ColDescription,
	ticket.ColRootCauseFinal,
	ticket.ColAssignmentGroup,
	ticket.ColAssignee,
	ticket.ColOpenedAt,
	ticket.ColResolvedAt,
	ticket.ColSLABreached,
	ticket.ColCustomer,
}

// WriteSummary writes the multi-sheet summary workbook to path,
// overwriting any previous run.
func WriteSummary(path string, e *report.Enriched, pivots []report.Pivot, opts config.OutputOptions) error {
	f, err := buildSummary(e, pivots, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return err
	}
	slog.Info("phase.workbook.write.done", "path", path, "records", e.Total())
	return nil
}

// WriteSummaryTo streams the same workbook, for HTTP downloads.
func WriteSummaryTo(w io.Writer, e *report.Enriched, pivots []report.Pivot, opts config.OutputOptions) error {
	f, err := buildSummary(e, pivots, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildSummary(e *report.Enriched, pivots []report.Pivot, opts config.OutputOptions) (*excelize.File, error) {
	f := excelize.NewFile()

	byColumn := map[string]report.Pivot{}
	for _, p := range pivots {
		byColumn[p.Column] = p
	}

	// Overview
	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow("Overview", "A1", &[]any{"Metric", "Value"}); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow("Overview", "A2", &[]any{"Total Tickets", e.Total()}); err != nil {
		return nil, err
	}

	// One sheet per configured pivot, in configured order.
	sheetNames := map[string]string{}
	for _, name := range opts.Sheets {
		column, ok := sheetToColumn[name]
		if !ok {
			column = name
		}
		sheet := SanitizeSheetName(name)
		sheetNames[name] = sheet
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, "A1", &[]any{column, "Count"}); err != nil {
			return nil, err
		}
		for i, row := range byColumn[column].Rows {
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &[]any{row.Value, row.Count}); err != nil {
				return nil, err
			}
		}
	}

	// Details, restricted to the allow-list.
	if _, err := f.NewSheet("Details"); err != nil {
		return nil, err
	}
	var cols []string
	for _, c := range detailColumns {
		if e.Dataset.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow("Details", "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range e.Dataset.Records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Details", cell, &row); err != nil {
			return nil, err
		}
	}

	// Fixed presentation widths: the description column gets extra room.
	for _, sheet := range f.GetSheetList() {
		if err := f.SetColWidth(sheet, "A", "F", 20); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "G", "G", 60); err != nil {
			return nil, err
		}
	}

	if opts.AddCharts {
		for _, name := range chartSheets {
			sheet, present := sheetNames[name]
			if !present {
				continue
			}
			pv := byColumn[sheetToColumn[name]]
			if pv.Empty() {
				continue
			}
			if err := addColumnChart(f, sheet, name, len(pv.Rows)); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func addColumnChart(f *excelize.File, sheet, title string, rows int) error {
	maxRow := rows + 1
	return f.AddChart(sheet, "E2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Count",
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, maxRow),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, maxRow),
		}},
		Title: []excelize.RichTextRun{{Text: title + " Distribution"}},
	})
}

// SanitizeSheetName strips characters xlsx forbids in sheet names and
// truncates to the 31-rune limit.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, name)
	r := []rune(name)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

// WriteRaw writes a dataset as a plain single-sheet workbook with its
// original column names. Used by the import command to produce the
// pipeline's input file.
func WriteRaw(path string, ds ticket.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()
	header := make([]any, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return err
	}
	for i, rec := range ds.Records {
		row := make([]any, len(ds.Columns))
		for j, c := range ds.Columns {
			row[j] = rec[c]
		}
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
