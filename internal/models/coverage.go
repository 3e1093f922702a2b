package models

import "time"

// RawRecord maps a header to the field found in the same column of one row.
type RawRecord map[string]string

// Column headers recognised in survey exports. Matching is exact and case-sensitive.
const (
	ColZoneCircle = "Zone & Circle"
	ColZone       = "Zone"
	ColWardName   = "Ward Name"
	ColWard       = "Ward"
	ColTotal      = "Total"
	ColCovered    = "Covered"
	ColNotCovered = "Not Covered"
	ColCoverage   = "Coverage"
	ColVehicle    = "Vehicle Number"
)

// Record is a typed survey row.
type Record struct {
	ZoneCode   string
	Ward       string
	Total      int
	Covered    int
	NotCovered int
	Coverage   float64 // informational; percentages are recomputed
	Vehicle    string
}

// Layout describes which column variant a header row uses.
type Layout struct {
	ZoneColumn    string   `json:"zoneColumn"`
	WardColumn    string   `json:"wardColumn"`
	HasNotCovered bool     `json:"hasNotCovered"`
	HasVehicle    bool     `json:"hasVehicle"`
	HasCoverage   bool     `json:"hasCoverage"`
	Warnings      []string `json:"warnings,omitempty"`
}

// VehicleSet holds distinct, non-blank vehicle numbers.
type VehicleSet map[string]struct{}

// Add inserts v. Adding the same number twice has no effect.
func (s VehicleSet) Add(v string) {
	s[v] = struct{}{}
}

// Len returns the number of distinct vehicles.
func (s VehicleSet) Len() int {
	return len(s)
}

// Counters are the running sums shared by zone and ward aggregates.
// Covered is not required to be <= Total.
type Counters struct {
	Total      int
	Covered    int
	NotCovered int
	Entries    int
	Vehicles   VehicleSet
}

// NewCounters returns zeroed counters with an empty vehicle set.
func NewCounters() Counters {
	return Counters{Vehicles: make(VehicleSet)}
}

// Add folds one record into the counters.
func (c *Counters) Add(rec Record) {
	c.Total += rec.Total
	c.Covered += rec.Covered
	c.NotCovered += rec.NotCovered
	c.Entries++
	if rec.Vehicle != "" {
		c.Vehicles.Add(rec.Vehicle)
	}
}

// WardAggregate accumulates one ward of one zone.
type WardAggregate struct {
	Counters
	Zone string
	Ward string
}

// ZoneAggregate accumulates one zone. Wards are kept in first-encounter order.
type ZoneAggregate struct {
	Counters
	Zone  string
	Wards []*WardAggregate
}

// Ward returns the named ward of the zone.
func (z *ZoneAggregate) Ward(name string) (*WardAggregate, bool) {
	for _, w := range z.Wards {
		if w.Ward == name {
			return w, true
		}
	}
	return nil, false
}

// WardRanking is the coverage percentage of one ward, used for best/worst lists.
type WardRanking struct {
	Zone       string  `json:"zone"`
	Ward       string  `json:"ward"`
	Percentage float64 `json:"percentage"`
}

// Result is everything produced by one CSV load. A new Result is built for every
// load; nothing is shared with earlier results.
type Result struct {
	ID          string
	Source      string
	GeneratedAt time.Time
	Rows        int
	Layout      Layout

	Zones         []*ZoneAggregate
	Vehicles      VehicleSet
	BlankVehicles int
	Rankings      []WardRanking
}

// Zone returns the named zone aggregate.
func (r *Result) Zone(name string) (*ZoneAggregate, bool) {
	for _, z := range r.Zones {
		if z.Zone == name {
			return z, true
		}
	}
	return nil, false
}

// ZoneNames lists zones in first-encounter order.
func (r *Result) ZoneNames() []string {
	names := make([]string, 0, len(r.Zones))
	for _, z := range r.Zones {
		names = append(names, z.Zone)
	}
	return names
}
