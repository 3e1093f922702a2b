package models

import "time"

// CoverageRow is one line of a zone or ward table.
type CoverageRow struct {
	Name       string  `json:"name"`
	Total      int     `json:"total"`
	Covered    int     `json:"covered"`
	Percentage float64 `json:"percentage"`
	Entries    int     `json:"entries"`
	Vehicles   int     `json:"vehicles"`
}

// WardTable lists the wards of one zone followed by a zone total.
type WardTable struct {
	Zone      string        `json:"zone"`
	Wards     []CoverageRow `json:"wards"`
	ZoneTotal CoverageRow   `json:"zoneTotal"`
}

// PieData is the covered vs. remaining split drawn for a zone.
type PieData struct {
	Zone      string `json:"zone"`
	Covered   int    `json:"covered"`
	Remaining int    `json:"remaining"`
}

// Summary holds the derived reporting values of a Result.
type Summary struct {
	ID          string    `json:"id"`
	Source      string    `json:"source,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Rows        int       `json:"rows"`
	Layout      Layout    `json:"layout"`

	Zones      []CoverageRow `json:"zones"`
	GrandTotal CoverageRow   `json:"grandTotal"`
	WardTables []WardTable   `json:"wardTables"`
	Best       []WardRanking `json:"best"`
	Worst      []WardRanking `json:"worst"`
	Charts     []PieData     `json:"charts"`

	DistinctVehicles int `json:"distinctVehicles"`
	BlankVehicles    int `json:"blankVehicles"`
}
