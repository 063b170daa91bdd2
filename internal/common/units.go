package common

import (
	"regexp"
	"strconv"
)

// Duration patterns are tried in order; the first match wins. The source site
// writes durations as free text like "(3小时45分钟)", "2小时" or "30分钟".
var durationPatterns = []struct {
	re         *regexp.Regexp
	hasMinutes bool
	hoursOnly  bool
}{
	{regexp.MustCompile(`\((\d+)小时(\d+)分钟\)`), true, false},
	{regexp.MustCompile(`(\d+)小时(\d+)分钟`), true, false},
	{regexp.MustCompile(`(\d+)小时`), false, true},
	{regexp.MustCompile(`(\d+)分钟`), false, false},
}

// ParseDurationMinutes converts a free-text duration into total minutes.
// Returns 0 when no pattern matches.
func ParseDurationMinutes(text string) int {
	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		if p.hasMinutes {
			minutes, _ := strconv.Atoi(m[2])
			return first*60 + minutes
		}
		if p.hoursOnly {
			return first * 60
		}
		return first
	}
	return 0
}

// Size patterns are tried in order; the first match wins. Unit suffixes are
// case-insensitive.
var sizePatterns = []struct {
	re      *regexp.Regexp
	divisor float64
}{
	{regexp.MustCompile(`(?i)([\d.]+)\s*GB`), 1},
	{regexp.MustCompile(`(?i)([\d.]+)\s*MB`), 1024},
	{regexp.MustCompile(`(?i)([\d.]+)\s*KB`), 1024 * 1024},
}

// ParseSizeGB converts a free-text file size into gigabytes.
// Returns 0 when no pattern matches.
func ParseSizeGB(text string) float64 {
	for _, p := range sizePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return value / p.divisor
	}
	return 0
}
