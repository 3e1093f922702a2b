package parser

import (
	"fmt"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

// Column variants seen in survey exports, preferred name first.
var (
	zoneColumns = []string{models.ColZoneCircle, models.ColZone}
	wardColumns = []string{models.ColWardName, models.ColWard}
)

// DetectLayout reports which column variant the headers use. Missing zone or
// ward columns produce warnings; rows still aggregate under an empty name.
func DetectLayout(headers []string) models.Layout {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	layout := models.Layout{
		ZoneColumn:    firstPresent(present, zoneColumns),
		WardColumn:    firstPresent(present, wardColumns),
		HasNotCovered: present[models.ColNotCovered],
		HasVehicle:    present[models.ColVehicle],
		HasCoverage:   present[models.ColCoverage],
	}

	if layout.ZoneColumn == "" {
		layout.Warnings = append(layout.Warnings, fmt.Sprintf("no zone column (expected %q or %q)", models.ColZoneCircle, models.ColZone))
	}
	if layout.WardColumn == "" {
		layout.Warnings = append(layout.Warnings, fmt.Sprintf("no ward column (expected %q or %q)", models.ColWardName, models.ColWard))
	}
	for _, col := range []string{models.ColTotal, models.ColCovered} {
		if !present[col] {
			layout.Warnings = append(layout.Warnings, fmt.Sprintf("no %q column, counts default to 0", col))
		}
	}
	if !layout.HasVehicle {
		layout.Warnings = append(layout.Warnings, fmt.Sprintf("no %q column, every row counts as a blank vehicle", models.ColVehicle))
	}
	return layout
}

func firstPresent(present map[string]bool, candidates []string) string {
	for _, c := range candidates {
		if present[c] {
			return c
		}
	}
	return ""
}

// lookup returns the value of the first candidate column present in rec.
func lookup(rec models.RawRecord, candidates ...string) string {
	for _, c := range candidates {
		if v, ok := rec[c]; ok {
			return v
		}
	}
	return ""
}

// ToRecord builds a typed record from a raw row. Absent columns read as empty
// text and malformed numbers read as 0.
func ToRecord(rec models.RawRecord) models.Record {
	return models.Record{
		ZoneCode:   lookup(rec, zoneColumns...),
		Ward:       lookup(rec, wardColumns...),
		Total:      ParseIntOrZero(rec[models.ColTotal]),
		Covered:    ParseIntOrZero(rec[models.ColCovered]),
		NotCovered: ParseIntOrZero(rec[models.ColNotCovered]),
		Coverage:   ParseFloatOrZero(rec[models.ColCoverage]),
		Vehicle:    rec[models.ColVehicle],
	}
}
