// Package aggregate folds survey rows into zone and ward coverage totals.
package aggregate

import (
	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/parser"
)

// DefaultZoneNames maps numeric zone codes to display names.
var DefaultZoneNames = map[string]string{
	"1": "1-City",
	"2": "2-Bhuteshwar",
	"3": "3-Aurangabad",
	"4": "4-Vrindavan",
}

// ZoneName resolves a zone code through names, passing unknown codes through.
func ZoneName(names map[string]string, code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

// builder keeps the lookup indexes used while folding. Result itself only holds
// ordered slices.
type builder struct {
	names  map[string]string
	result *models.Result
	zones  map[string]*models.ZoneAggregate
	wards  map[string]map[string]*models.WardAggregate
}

// Build folds raw rows into a fresh Result in a single pass. It never fails:
// malformed numbers count as 0 and blank vehicle numbers are tallied separately.
// Identity fields (ID, source, timestamps) are left for the caller to fill.
func Build(records []models.RawRecord, names map[string]string) *models.Result {
	b := &builder{
		names: names,
		result: &models.Result{
			Rows:     len(records),
			Vehicles: make(models.VehicleSet),
		},
		zones: make(map[string]*models.ZoneAggregate),
		wards: make(map[string]map[string]*models.WardAggregate),
	}
	for _, raw := range records {
		b.add(parser.ToRecord(raw))
	}
	b.result.Rankings = Rankings(b.result)
	return b.result
}

func (b *builder) add(rec models.Record) {
	zone := b.zone(ZoneName(b.names, rec.ZoneCode))
	ward := b.ward(zone, rec.Ward)

	zone.Add(rec)
	ward.Add(rec)

	if rec.Vehicle != "" {
		b.result.Vehicles.Add(rec.Vehicle)
	} else {
		b.result.BlankVehicles++
	}
}

func (b *builder) zone(name string) *models.ZoneAggregate {
	if z, ok := b.zones[name]; ok {
		return z
	}
	z := &models.ZoneAggregate{Counters: models.NewCounters(), Zone: name}
	b.zones[name] = z
	b.wards[name] = make(map[string]*models.WardAggregate)
	b.result.Zones = append(b.result.Zones, z)
	return z
}

func (b *builder) ward(zone *models.ZoneAggregate, name string) *models.WardAggregate {
	if w, ok := b.wards[zone.Zone][name]; ok {
		return w
	}
	w := &models.WardAggregate{Counters: models.NewCounters(), Zone: zone.Zone, Ward: name}
	b.wards[zone.Zone][name] = w
	zone.Wards = append(zone.Wards, w)
	return w
}

// Rankings lists the coverage percentage of every ward, zones and wards in
// first-encounter order.
func Rankings(r *models.Result) []models.WardRanking {
	var out []models.WardRanking
	for _, z := range r.Zones {
		for _, w := range z.Wards {
			out = append(out, models.WardRanking{
				Zone:       z.Zone,
				Ward:       w.Ward,
				Percentage: parser.Percentage(w.Covered, w.Total),
			})
		}
	}
	return out
}
