package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `1,"Ward 5, North",10`, []string{"1", "Ward 5, North", "10"}},
		{"trims fields", " a , b ", []string{"a", "b"}},
		{"trailing empty", "a,b,", []string{"a", "b", ""}},
		{"quotes inside field", `ab"c"d,e`, []string{"abcd", "e"}},
		{"unbalanced quote swallows rest", `a,"b,c,d`, []string{"a", "b,c,d"}},
		{"empty quoted", `"",x`, []string{"", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitFields(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitFields(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := "\"Zone & Circle\",Ward Name,Total,Covered\r\n" +
		"\n" +
		"1,\"Ward 5, North\",10,8\r\n" +
		"   \n" +
		"2,Ward 9\n" +
		"3,Ward 1,5,5,extra,values\n"

	headers, records, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantHeaders := []string{"Zone & Circle", "Ward Name", "Total", "Covered"}
	if !reflect.DeepEqual(headers, wantHeaders) {
		t.Fatalf("headers: got %q, want %q", headers, wantHeaders)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first["Ward Name"] != "Ward 5, North" {
		t.Errorf("quoted ward: got %q", first["Ward Name"])
	}
	if first["Covered"] != "8" {
		t.Errorf("covered: got %q", first["Covered"])
	}

	short := records[1]
	if v, ok := short["Total"]; !ok || v != "" {
		t.Errorf("missing trailing field should be empty, got %q (present=%v)", v, ok)
	}

	long := records[2]
	if len(long) != len(wantHeaders) {
		t.Errorf("extra fields should be dropped, got %d keys", len(long))
	}
}

func TestParseNeverEmitsQuotes(t *testing.T) {
	input := `"A","B"` + "\n" + `"x ""y""","1,2"` + "\n" + `"open,1`

	_, records, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, rec := range records {
		for k, v := range rec {
			if strings.Contains(k, `"`) || strings.Contains(v, `"`) {
				t.Errorf("record %d: quote leaked in %q=%q", i, k, v)
			}
		}
	}
	if records[0]["B"] != "1,2" {
		t.Errorf("quoted comma: got %q", records[0]["B"])
	}
}

func TestParseHeaderOnly(t *testing.T) {
	headers, records, err := Parse("Zone,Ward,Total\n\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestParseNoHeader(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \r\n  "} {
		_, _, err := Parse(input)
		if !errors.Is(err, ErrNoHeader) {
			t.Errorf("Parse(%q): expected ErrNoHeader, got %v", input, err)
		}
	}
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name         string
		headers      []string
		wantZone     string
		wantWard     string
		wantNotCov   bool
		wantVehicle  bool
		wantWarnings int
	}{
		{
			name:        "full export",
			headers:     []string{"Zone & Circle", "Ward Name", "Total", "Covered", "Not Covered", "Coverage", "Vehicle Number"},
			wantZone:    "Zone & Circle",
			wantWard:    "Ward Name",
			wantNotCov:  true,
			wantVehicle: true,
		},
		{
			name:        "simple export",
			headers:     []string{"Zone", "Ward", "Total", "Covered", "Vehicle Number"},
			wantZone:    "Zone",
			wantWard:    "Ward",
			wantVehicle: true,
		},
		{
			name:         "prefers zone and circle",
			headers:      []string{"Zone", "Zone & Circle", "Ward Name", "Total", "Covered"},
			wantZone:     "Zone & Circle",
			wantWard:     "Ward Name",
			wantWarnings: 1,
		},
		{
			name:         "nothing recognised",
			headers:      []string{"a", "b"},
			wantWarnings: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectLayout(tt.headers)
			if got.ZoneColumn != tt.wantZone || got.WardColumn != tt.wantWard {
				t.Errorf("columns: got zone=%q ward=%q, want zone=%q ward=%q", got.ZoneColumn, got.WardColumn, tt.wantZone, tt.wantWard)
			}
			if got.HasNotCovered != tt.wantNotCov || got.HasVehicle != tt.wantVehicle {
				t.Errorf("flags: got notCovered=%v vehicle=%v", got.HasNotCovered, got.HasVehicle)
			}
			if len(got.Warnings) != tt.wantWarnings {
				t.Errorf("warnings: got %d (%q), want %d", len(got.Warnings), got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestToRecord(t *testing.T) {
	rec := ToRecord(models.RawRecord{
		"Zone":           "2",
		"Ward":           "W1",
		"Total":          "40",
		"Covered":        "x",
		"Coverage":       "12.5%",
		"Vehicle Number": "UP85",
	})

	want := models.Record{
		ZoneCode: "2",
		Ward:     "W1",
		Total:    40,
		Coverage: 12.5,
		Vehicle:  "UP85",
	}
	if rec != want {
		t.Errorf("got %+v, want %+v", rec, want)
	}
}
