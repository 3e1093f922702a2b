package writer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/parser"
)

const sampleCSV = `Zone & Circle,Ward Name,Total,Covered,Not Covered,Vehicle Number
1,WardA,100,80,20,V1
1,WardA,50,50,0,V1
1,"Ward B, East",10,2,8,V7
2,WardB,200,100,100,
`

func sampleResult(t *testing.T) *models.Result {
	t.Helper()
	_, records, err := parser.Parse(sampleCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := aggregate.Build(records, aggregate.DefaultZoneNames)
	res.ID = "2f1c6d1e-0000-4000-8000-000000000001"
	res.Source = "survey.csv"
	res.GeneratedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return res
}

func sampleSummary(t *testing.T) *models.Summary {
	t.Helper()
	return aggregate.Summarize(sampleResult(t), 3)
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	err := w.Write(&buf, sampleSummary(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "# Report ID,2f1c6d1e-0000-4000-8000-000000000001") {
		t.Error("expected report id metadata")
	}
	if !strings.Contains(output, "# Source,survey.csv") {
		t.Error("expected source metadata")
	}
	if !strings.Contains(output, "# Blank Vehicle Numbers,1") {
		t.Error("expected blank vehicle count")
	}
	if !strings.Contains(output, "Zone,Total,Covered,Percentage Covered,Entries,Vehicles") {
		t.Error("expected column headers")
	}
	if !strings.Contains(output, "1-City,160,132,82.50,3,2") {
		t.Error("expected 1-City row")
	}
	if !strings.Contains(output, "2-Bhuteshwar,200,100,50.00,1,0") {
		t.Error("expected 2-Bhuteshwar row")
	}
	if !strings.Contains(output, "Grand Total,360,232,64.44,4,2") {
		t.Error("expected grand total row")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 5 metadata lines + 1 header + 2 zones + 1 grand total = 9
	if len(lines) != 9 {
		t.Errorf("expected 9 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	err := w.Write(&buf, sampleSummary(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "# Report ID") {
		t.Error("should not have metadata when header=false")
	}
	if !strings.HasPrefix(output, "Zone,Total,Covered") {
		t.Error("expected column headers first")
	}
}

func TestCSVWriter_WriteWards(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.WriteWards(&buf, sampleSummary(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, `1-City,"Ward B, East",10,2,20.00,1,1`) {
		t.Errorf("expected quoted ward row, got:\n%s", output)
	}
	if !strings.Contains(output, "1-City,Zone Total,160,132,82.50,3,2") {
		t.Error("expected zone total row")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// header + (2 wards + total) + (1 ward + total) = 6
	if len(lines) != 6 {
		t.Errorf("expected 6 lines, got %d", len(lines))
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{86.67, "86.67"},
		{50, "50.00"},
		{0, "0.00"},
		{150, "150.00"},
	}

	for _, tt := range tests {
		got := formatPercent(tt.input)
		if got != tt.expected {
			t.Errorf("formatPercent(%v): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}
