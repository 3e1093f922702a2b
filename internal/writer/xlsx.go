package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

// Workbook sheet names.
const (
	SheetZones     = "Zones"
	SheetWards     = "Wards"
	SheetBestWorst = "Best Worst"
)

// WriteXLSX writes the zone, ward and best/worst tables as an XLSX workbook.
func WriteXLSX(out io.Writer, sum *models.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetZones); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetWards, SheetBestWorst} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	sw := &sheetWriter{f: f, bold: bold}

	sw.sheet = SheetZones
	sw.row = 1
	sw.bolded([]interface{}{"Zone", "Total", "Covered", "Percentage Covered", "Entries", "Vehicles"})
	for _, r := range sum.Zones {
		sw.plain(coverageCells(r))
	}
	sw.bolded(coverageCells(sum.GrandTotal))
	sw.row++
	sw.plain([]interface{}{"Distinct Vehicles", sum.DistinctVehicles})
	sw.plain([]interface{}{"Blank Vehicle Numbers", sum.BlankVehicles})

	sw.sheet = SheetWards
	sw.row = 1
	sw.bolded([]interface{}{"Zone", "Ward", "Total", "Covered", "Percentage Covered", "Entries", "Vehicles"})
	for _, table := range sum.WardTables {
		for _, r := range table.Wards {
			sw.plain(append([]interface{}{table.Zone}, coverageCells(r)...))
		}
		sw.bolded(append([]interface{}{table.Zone}, coverageCells(table.ZoneTotal)...))
	}

	sw.sheet = SheetBestWorst
	sw.row = 1
	for _, section := range []struct {
		title string
		wards []models.WardRanking
	}{
		{"Top Best Performing Wards (by Coverage)", sum.Best},
		{"Top Worst Performing Wards (by Coverage)", sum.Worst},
	} {
		sw.bolded([]interface{}{section.title})
		sw.bolded([]interface{}{"Zone", "Ward", "Coverage Percentage"})
		for _, w := range section.wards {
			sw.plain([]interface{}{w.Zone, w.Ward, w.Percentage})
		}
		sw.row++
	}

	if sw.err != nil {
		return sw.err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	bold  int
	sheet string
	row   int
	err   error
}

func (sw *sheetWriter) plain(values []interface{}) {
	sw.write(values, false)
}

func (sw *sheetWriter) bolded(values []interface{}) {
	sw.write(values, true)
}

func (sw *sheetWriter) write(values []interface{}, bold bool) {
	if sw.err != nil {
		return
	}
	first, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sw.sheet, first, &values); err != nil {
		sw.err = fmt.Errorf("failed to write %s row %d: %w", sw.sheet, sw.row, err)
		return
	}
	if bold {
		last, err := excelize.CoordinatesToCellName(len(values), sw.row)
		if err != nil {
			sw.err = err
			return
		}
		if err := sw.f.SetCellStyle(sw.sheet, first, last, sw.bold); err != nil {
			sw.err = fmt.Errorf("failed to style %s row %d: %w", sw.sheet, sw.row, err)
			return
		}
	}
	sw.row++
}

func coverageCells(r models.CoverageRow) []interface{} {
	return []interface{}{r.Name, r.Total, r.Covered, r.Percentage, r.Entries, r.Vehicles}
}
