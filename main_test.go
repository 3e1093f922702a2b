package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/config"
	"github.com/insightdelivered/poi-coverage-report/internal/store"
)

const sampleCSV = `Zone & Circle,Ward Name,Total,Covered,Not Covered,Vehicle Number
1,WardA,100,80,20,V1
1,WardA,50,50,0,V1
2,WardB,200,100,100,
`

// resetFlags points every output flag at dir and restores the globals afterwards.
func resetFlags(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Report.ChartWidth, cfg.Report.ChartHeight = 3, 2

	dir := t.TempDir()
	csvOut, wardCSVOut, xlsxOut, chartDir, printZone, printOut = "", "", "", "", "", ""
	quiet, withMetadata = false, true
	t.Cleanup(func() {
		csvOut, wardCSVOut, xlsxOut, chartDir, printZone, printOut = "", "", "", "", "", ""
		quiet, withMetadata = false, true
	})
	return dir
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestProcessFile_PrintsTables(t *testing.T) {
	dir := resetFlags(t)
	input := writeInput(t, dir, "survey.csv", sampleCSV)

	var out bytes.Buffer
	require.NoError(t, processFile(store.New(cfg.Zones, logger), input, &out))

	assert.Contains(t, out.String(), "1-City")
	assert.Contains(t, out.String(), "86.67%")
	assert.Contains(t, out.String(), "65.71%")
}

func TestProcessFile_WritesExports(t *testing.T) {
	dir := resetFlags(t)
	input := writeInput(t, dir, "survey.csv", sampleCSV)

	quiet = true
	csvOut = filepath.Join(dir, "zones.csv")
	wardCSVOut = filepath.Join(dir, "wards.csv")
	xlsxOut = filepath.Join(dir, "report.xlsx")
	chartDir = filepath.Join(dir, "charts")
	printZone = "1"
	printOut = filepath.Join(dir, "city.html")

	var out bytes.Buffer
	require.NoError(t, processFile(store.New(cfg.Zones, logger), input, &out))
	assert.Empty(t, out.String())

	zones, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Contains(t, string(zones), "Grand Total,350,230,65.71,3,1")

	wards, err := os.ReadFile(wardCSVOut)
	require.NoError(t, err)
	assert.Contains(t, string(wards), "1-City,WardA,150,130,86.67,2,1")

	_, err = os.Stat(xlsxOut)
	assert.NoError(t, err)

	for _, name := range []string{"chart-1-City.png", "chart-2-Bhuteshwar.png"} {
		_, err := os.Stat(filepath.Join(chartDir, name))
		assert.NoError(t, err, name)
	}

	html, err := os.ReadFile(printOut)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Zone 1-City Detailed Report")
}

func TestProcessFile_UnknownPrintZone(t *testing.T) {
	dir := resetFlags(t)
	input := writeInput(t, dir, "survey.csv", sampleCSV)
	quiet = true
	printZone = "7-Elsewhere"

	err := processFile(store.New(cfg.Zones, logger), input, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnknownZone)
}

func TestProcessFile_RejectsBadInput(t *testing.T) {
	dir := resetFlags(t)

	err := processFile(store.New(cfg.Zones, logger), filepath.Join(dir, "missing.csv"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "input file not found")

	pdf := writeInput(t, dir, "survey.pdf", sampleCSV)
	err = processFile(store.New(cfg.Zones, logger), pdf, &bytes.Buffer{})
	assert.ErrorContains(t, err, "expected .csv file")

	empty := writeInput(t, dir, "empty.csv", "\n")
	err = processFile(store.New(cfg.Zones, logger), empty, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFileSafe(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1-City", "1-City"},
		{"Zone 5/North", "Zone_5_North"},
		{"", "unnamed"},
	}

	for _, tt := range tests {
		got := fileSafe(tt.input)
		if got != tt.expected {
			t.Errorf("fileSafe(%q): got %q, want %q", tt.input, got, tt.expected)
		}
	}
	assert.False(t, strings.ContainsAny(fileSafe(`a:b*c?d"e<f>g|h\i`), `:*?"<>|\`))
}
