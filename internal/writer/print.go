package writer

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

//go:embed templates/zone_report.html.tmpl
var templateFS embed.FS

var zoneReportTmpl = template.Must(
	template.New("zone_report.html.tmpl").
		Funcs(template.FuncMap{"pct": func(p float64) string { return formatPercent(p) + "%" }}).
		ParseFS(templateFS, "templates/zone_report.html.tmpl"),
)

// DefaultReportTitle heads printable reports when no title is configured.
const DefaultReportTitle = "POI Zone Wise Report"

// dateTimeLayout matches the "Report generated on" line of the page.
const dateTimeLayout = "02/01/2006, 15:04:05"

// ZoneReport is a standalone printable document for one zone.
type ZoneReport struct {
	Title       string
	Zone        models.CoverageRow
	Wards       models.WardTable
	ChartPNG    []byte // optional; embedded as a data URL
	GeneratedAt time.Time
}

// NewZoneReport collects the printable figures of zone. The figures are
// re-derived from the aggregate, not read from an earlier summary.
func NewZoneReport(title string, zone *models.ZoneAggregate, chartPNG []byte, now time.Time) *ZoneReport {
	if title == "" {
		title = DefaultReportTitle
	}
	return &ZoneReport{
		Title:       title,
		Zone:        aggregate.ZoneRow(zone),
		Wards:       aggregate.WardTableFor(zone),
		ChartPNG:    chartPNG,
		GeneratedAt: now,
	}
}

// Write renders the report as HTML.
func (r *ZoneReport) Write(out io.Writer) error {
	data := struct {
		Title       string
		Zone        models.CoverageRow
		Wards       models.WardTable
		Chart       template.URL
		GeneratedAt string
	}{
		Title:       r.Title,
		Zone:        r.Zone,
		Wards:       r.Wards,
		GeneratedAt: r.GeneratedAt.Format(dateTimeLayout),
	}
	if len(r.ChartPNG) > 0 {
		data.Chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(r.ChartPNG))
	}

	// Nothing reaches out unless the whole template renders.
	var buf bytes.Buffer
	if err := zoneReportTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render zone report: %w", err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write zone report: %w", err)
	}
	return nil
}

// RenderZoneReport draws the zone chart and writes the printable report. A
// chart that fails to render is logged and left out of the report.
func RenderZoneReport(out io.Writer, title string, zone *models.ZoneAggregate, size ChartSize, now time.Time, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var chart bytes.Buffer
	var png []byte
	if err := WriteChartPNG(&chart, aggregate.PieFor(zone), size); err != nil {
		logger.Warn("Zone chart left out of print report", zap.String("zone", zone.Zone), zap.Error(err))
	} else {
		png = chart.Bytes()
	}
	return NewZoneReport(title, zone, png, now).Write(out)
}
