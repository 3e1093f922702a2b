package writer

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

var (
	coveredColor   = color.RGBA{R: 0x28, G: 0xa7, B: 0x45, A: 0xff}
	remainingColor = color.RGBA{R: 0xdc, G: 0x35, B: 0x45, A: 0xff}
)

// ChartSize is the rendered chart size in inches.
type ChartSize struct {
	Width  float64
	Height float64
}

// DefaultChartSize is used when a size is zero.
var DefaultChartSize = ChartSize{Width: 6, Height: 4}

// ZoneChart builds the covered vs. remaining chart of one zone. Negative
// remaining values (covered above total) are drawn as zero.
func ZoneChart(pie models.PieData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Coverage for Zone " + pie.Zone
	p.Y.Label.Text = "POIs"
	p.Y.Min = 0

	width := vg.Points(60)
	bars := []struct {
		label string
		value int
		color color.Color
	}{
		{"Covered", pie.Covered, coveredColor},
		{"Remaining", pie.Remaining, remainingColor},
	}

	for i, b := range bars {
		v := float64(b.value)
		if v < 0 {
			v = 0
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, width)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bar: %w", b.label, err)
		}
		bar.Color = b.color
		bar.LineStyle.Width = 0
		bar.XMin = float64(i)
		p.Add(bar)
		p.Legend.Add(fmt.Sprintf("%s (%s)", b.label, sharePercent(b.value, pie.Covered+pie.Remaining)), bar)
	}

	p.Legend.Top = true
	p.NominalX("Covered", "Remaining")
	return p, nil
}

// WriteChartPNG renders the zone chart as PNG.
func WriteChartPNG(out io.Writer, pie models.PieData, size ChartSize) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}

	p, err := ZoneChart(pie)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// sharePercent is the whole-number share of value in total.
func sharePercent(value, total int) string {
	if total <= 0 {
		return "0%"
	}
	pct := float64(value) / float64(total) * 100
	return fmt.Sprintf("%.0f%%", pct)
}
