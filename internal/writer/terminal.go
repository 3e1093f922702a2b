package writer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2c3e50")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	bestStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#28a745")).MarginTop(1)
	worstStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc3545")).MarginTop(1)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
)

// WriteTerminal prints the zone table, one ward table per zone and the
// best/worst wards.
func WriteTerminal(out io.Writer, sum *models.Summary) error {
	var sections []string

	sections = append(sections, titleStyle.Render("Zone Coverage"))
	sections = append(sections, coverageTable("Zone", sum.Zones, &sum.GrandTotal).String())

	for _, wt := range sum.WardTables {
		sections = append(sections, titleStyle.Render("Zone: "+wt.Zone))
		sections = append(sections, coverageTable("Ward", wt.Wards, &wt.ZoneTotal).String())
	}

	sections = append(sections, bestStyle.Render(fmt.Sprintf("Top %d Best Performing Wards (by Coverage)", len(sum.Best))))
	sections = append(sections, rankingTable(sum.Best).String())
	sections = append(sections, worstStyle.Render(fmt.Sprintf("Top %d Worst Performing Wards (by Coverage)", len(sum.Worst))))
	sections = append(sections, rankingTable(sum.Worst).String())

	sections = append(sections, noteStyle.Render(fmt.Sprintf(
		"Rows: %d  Distinct vehicles: %d  Blank vehicle numbers: %d",
		sum.Rows, sum.DistinctVehicles, sum.BlankVehicles)))
	for _, w := range sum.Layout.Warnings {
		sections = append(sections, noteStyle.Render("Warning: "+w))
	}
	if !sum.GeneratedAt.IsZero() {
		sections = append(sections, noteStyle.Render("Report generated on: "+sum.GeneratedAt.Format(dateTimeLayout)))
	}

	_, err := fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func coverageTable(first string, rows []models.CoverageRow, total *models.CoverageRow) *table.Table {
	data := make([][]string, 0, len(rows)+1)
	for _, r := range rows {
		data = append(data, terminalCells(r))
	}
	totalRow := -1
	if total != nil {
		totalRow = len(data)
		data = append(data, terminalCells(*total))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(first, "Total", "Covered", "Percentage Covered", "Entries", "Vehicles").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == totalRow:
				return totalStyle
			default:
				return cellStyle
			}
		})
}

func rankingTable(wards []models.WardRanking) *table.Table {
	data := make([][]string, 0, len(wards))
	for _, w := range wards {
		data = append(data, []string{w.Zone, w.Ward, formatPercent(w.Percentage) + "%"})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Zone", "Ward", "Coverage Percentage").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func terminalCells(r models.CoverageRow) []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Total),
		strconv.Itoa(r.Covered),
		formatPercent(r.Percentage) + "%",
		strconv.Itoa(r.Entries),
		strconv.Itoa(r.Vehicles),
	}
}
