package aggregate

import (
	"sort"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/parser"
)

// DefaultRankingSize is how many wards the best and worst lists hold.
const DefaultRankingSize = 3

// GrandTotalLabel and ZoneTotalLabel name the total rows of the tables.
const (
	GrandTotalLabel = "Grand Total"
	ZoneTotalLabel  = "Zone Total"
)

// Summarize derives the table, ranking and chart values of a Result.
// rankingSize <= 0 falls back to DefaultRankingSize.
func Summarize(r *models.Result, rankingSize int) *models.Summary {
	if rankingSize <= 0 {
		rankingSize = DefaultRankingSize
	}

	s := &models.Summary{
		ID:               r.ID,
		Source:           r.Source,
		GeneratedAt:      r.GeneratedAt,
		Rows:             r.Rows,
		Layout:           r.Layout,
		Zones:            make([]models.CoverageRow, 0, len(r.Zones)),
		WardTables:       make([]models.WardTable, 0, len(r.Zones)),
		Charts:           make([]models.PieData, 0, len(r.Zones)),
		Best:             Best(r.Rankings, rankingSize),
		Worst:            Worst(r.Rankings, rankingSize),
		DistinctVehicles: r.Vehicles.Len(),
		BlankVehicles:    r.BlankVehicles,
	}

	grand := models.CoverageRow{Name: GrandTotalLabel}
	for _, z := range r.Zones {
		row := ZoneRow(z)
		s.Zones = append(s.Zones, row)
		s.WardTables = append(s.WardTables, WardTableFor(z))
		s.Charts = append(s.Charts, PieFor(z))

		grand.Total += row.Total
		grand.Covered += row.Covered
		grand.Entries += row.Entries
	}
	grand.Percentage = parser.Percentage(grand.Covered, grand.Total)
	grand.Vehicles = r.Vehicles.Len()
	s.GrandTotal = grand

	return s
}

// ZoneRow is the table row of one zone.
func ZoneRow(z *models.ZoneAggregate) models.CoverageRow {
	return coverageRow(z.Zone, z.Counters)
}

func coverageRow(name string, c models.Counters) models.CoverageRow {
	return models.CoverageRow{
		Name:       name,
		Total:      c.Total,
		Covered:    c.Covered,
		Percentage: parser.Percentage(c.Covered, c.Total),
		Entries:    c.Entries,
		Vehicles:   c.Vehicles.Len(),
	}
}

// WardTableFor lists the wards of z and closes with a zone total re-summed from
// the ward rows.
func WardTableFor(z *models.ZoneAggregate) models.WardTable {
	t := models.WardTable{
		Zone:      z.Zone,
		Wards:     make([]models.CoverageRow, 0, len(z.Wards)),
		ZoneTotal: models.CoverageRow{Name: ZoneTotalLabel},
	}
	for _, w := range z.Wards {
		row := coverageRow(w.Ward, w.Counters)
		t.Wards = append(t.Wards, row)
		t.ZoneTotal.Total += row.Total
		t.ZoneTotal.Covered += row.Covered
		t.ZoneTotal.Entries += row.Entries
	}
	t.ZoneTotal.Percentage = parser.Percentage(t.ZoneTotal.Covered, t.ZoneTotal.Total)
	t.ZoneTotal.Vehicles = z.Vehicles.Len()
	return t
}

// PieFor splits a zone into covered and remaining. Remaining is the summed
// Not Covered column when non-zero, else total minus covered.
func PieFor(z *models.ZoneAggregate) models.PieData {
	remaining := z.NotCovered
	if remaining == 0 {
		remaining = z.Total - z.Covered
	}
	return models.PieData{Zone: z.Zone, Covered: z.Covered, Remaining: remaining}
}

// Best returns the n highest percentages, highest first. Equal percentages
// keep their encounter order.
func Best(rankings []models.WardRanking, n int) []models.WardRanking {
	sorted := append([]models.WardRanking(nil), rankings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percentage > sorted[j].Percentage
	})
	return head(sorted, n)
}

// Worst returns the n lowest percentages, lowest first. Equal percentages keep
// their encounter order.
func Worst(rankings []models.WardRanking, n int) []models.WardRanking {
	sorted := append([]models.WardRanking(nil), rankings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percentage < sorted[j].Percentage
	})
	return head(sorted, n)
}

func head(r []models.WardRanking, n int) []models.WardRanking {
	if n < len(r) {
		r = r[:n]
	}
	if r == nil {
		return []models.WardRanking{}
	}
	return r
}
