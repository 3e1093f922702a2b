package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Leading numeric prefixes. Survey exports often carry trailing junk such as
// "85.5%" or "12 (approx)"; only the prefix is read.
var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ParseIntOrZero reads the leading integer of s, ignoring surrounding
// whitespace. Anything that does not start with an integer yields 0. "7.9"
// reads as 7, and a value beyond the range of int clamps to math.MaxInt or
// math.MinInt.
func ParseIntOrZero(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	// on ErrRange Atoi already holds the clamped bound
	return n
}

// ParseFloatOrZero reads the leading decimal number of s, or 0 when there is none.
func ParseFloatOrZero(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Percentage returns covered as a percentage of total rounded to two places,
// or 0 when total is not positive. Values above 100 are not clamped.
func Percentage(covered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(covered) / float64(total) * 100)
}

// cleanField trims a field and strips every double quote from it.
func cleanField(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}
