// Package store owns the most recent build result. Each CSV load builds a new
// result and swaps it in whole, so readers never see a partial build.
package store

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/parser"
)

var (
	// ErrNoBuild is returned by reads before any CSV has been loaded.
	ErrNoBuild = errors.New("no report has been loaded yet")
	// ErrNoZoneSelected is returned by Zone when the zone name is empty.
	ErrNoZoneSelected = errors.New("please select a zone to print")
	// ErrUnknownZone is returned by Zone for a name or code absent from the last build.
	ErrUnknownZone = errors.New("zone not found in the current report")
)

// Store keeps the last build result.
type Store struct {
	zoneNames map[string]string
	logger    *zap.Logger
	now       func() time.Time
	last      atomic.Pointer[models.Result]
}

// New returns an empty store that resolves zone codes through zoneNames.
func New(zoneNames map[string]string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		zoneNames: zoneNames,
		logger:    logger,
		now:       time.Now,
	}
}

// Load reads a whole CSV export, builds a fresh result and makes it the
// current one. On error the previous result is kept.
func (s *Store) Load(source string, r io.Reader) (*models.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	res, err := s.Build(source, string(data))
	if err != nil {
		return nil, err
	}

	s.last.Store(res)
	return res, nil
}

// Build parses and aggregates text without touching the current result.
func (s *Store) Build(source, text string) (*models.Result, error) {
	headers, records, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	layout := parser.DetectLayout(headers)
	for _, w := range layout.Warnings {
		s.logger.Warn("Column layout", zap.String("source", source), zap.String("warning", w))
	}

	res := aggregate.Build(records, s.zoneNames)
	res.ID = uuid.NewString()
	res.Source = source
	res.GeneratedAt = s.now()
	res.Layout = layout

	s.logger.Info("Report built",
		zap.String("id", res.ID),
		zap.String("source", source),
		zap.Int("rows", res.Rows),
		zap.Int("zones", len(res.Zones)),
		zap.Int("distinct_vehicles", res.Vehicles.Len()),
		zap.Int("blank_vehicles", res.BlankVehicles))

	return res, nil
}

// Last returns the current result.
func (s *Store) Last() (*models.Result, error) {
	res := s.last.Load()
	if res == nil {
		return nil, ErrNoBuild
	}
	return res, nil
}

// Zone returns the current result together with one of its zones. Both come
// from the same snapshot.
func (s *Store) Zone(name string) (*models.Result, *models.ZoneAggregate, error) {
	if name == "" {
		return nil, nil, ErrNoZoneSelected
	}
	res, err := s.Last()
	if err != nil {
		return nil, nil, err
	}
	zone, ok := res.Zone(name)
	if !ok {
		// zone codes resolve through the lookup table
		zone, ok = res.Zone(aggregate.ZoneName(s.zoneNames, name))
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return res, zone, nil
}
