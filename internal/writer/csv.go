package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

// CSVWriter writes report tables in CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the zone table to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, sum *models.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, sum); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the zone table followed by the grand total row.
func (w *CSVWriter) Write(out io.Writer, sum *models.Summary) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		w.writeMetadata(writer, sum)
	}

	header := []string{"Zone", "Total", "Covered", "Percentage Covered", "Entries", "Vehicles"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	rows := append(append([]models.CoverageRow(nil), sum.Zones...), sum.GrandTotal)
	for _, r := range rows {
		if err := writer.Write(coverageRecord(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteWards writes one row per ward, each zone closed by its zone total.
func (w *CSVWriter) WriteWards(out io.Writer, sum *models.Summary) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		w.writeMetadata(writer, sum)
	}

	header := []string{"Zone", "Ward", "Total", "Covered", "Percentage Covered", "Entries", "Vehicles"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, table := range sum.WardTables {
		rows := append(append([]models.CoverageRow(nil), table.Wards...), table.ZoneTotal)
		for _, r := range rows {
			record := append([]string{table.Zone}, coverageRecord(r)...)
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeMetadata writes "# key,value" rows ahead of the table.
func (w *CSVWriter) writeMetadata(writer *csv.Writer, sum *models.Summary) {
	if sum.ID != "" {
		writer.Write([]string{"# Report ID", sum.ID})
	}
	if sum.Source != "" {
		writer.Write([]string{"# Source", sum.Source})
	}
	if !sum.GeneratedAt.IsZero() {
		writer.Write([]string{"# Generated", sum.GeneratedAt.Format(time.RFC3339)})
	}
	writer.Write([]string{"# Distinct Vehicles", strconv.Itoa(sum.DistinctVehicles)})
	writer.Write([]string{"# Blank Vehicle Numbers", strconv.Itoa(sum.BlankVehicles)})
}

func coverageRecord(r models.CoverageRow) []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Total),
		strconv.Itoa(r.Covered),
		formatPercent(r.Percentage),
		strconv.Itoa(r.Entries),
		strconv.Itoa(r.Vehicles),
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
