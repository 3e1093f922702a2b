package parser

import (
	"errors"
	"strings"

	"github.com/insightdelivered/poi-coverage-report/internal/models"
)

// ErrNoHeader is returned when the input has no non-blank line to use as a header.
var ErrNoHeader = errors.New("csv has no header row")

// Parse converts CSV text into one RawRecord per data row.
//
// Lines are trimmed and blank lines dropped. The first remaining line is the
// header. Data rows are split on commas outside double quotes; quote characters
// themselves never reach the output. Short rows are padded with empty values and
// values beyond the last header are dropped. Malformed quoting is tolerated.
func Parse(text string) ([]string, []models.RawRecord, error) {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return nil, nil, ErrNoHeader
	}

	headers := parseHeader(lines[0])
	records := make([]models.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		records = append(records, mapFields(headers, splitFields(line)))
	}
	return headers, records, nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseHeader splits the header on every comma; headers are not quote-aware.
func parseHeader(line string) []string {
	parts := strings.Split(line, ",")
	headers := make([]string, len(parts))
	for i, p := range parts {
		headers[i] = cleanField(p)
	}
	return headers
}

// splitFields scans a data row once, left to right. A double quote toggles the
// in-quotes state and a comma separates fields only outside quotes.
func splitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, cleanField(current.String()))
}

func mapFields(headers, fields []string) models.RawRecord {
	rec := make(models.RawRecord, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			rec[h] = fields[i]
		} else {
			rec[h] = ""
		}
	}
	return rec
}
