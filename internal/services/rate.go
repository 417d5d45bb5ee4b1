package services

import (
	"strconv"
	"strings"
)

// DefaultHourlyRate is applied when a job's salary range is empty or
// unparsable.
const DefaultHourlyRate = 50.0

// HourlyRate derives an hourly rate from a free-text salary range. All
// characters except digits, '-' and '.' are stripped; a range like "40-60"
// yields its midpoint, a single value like "75" yields that value, and
// anything unparsable yields DefaultHourlyRate.
func HourlyRate(salaryRange string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, salaryRange)

	parts := strings.Split(cleaned, "-")
	var values []float64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}

	switch len(values) {
	case 0:
		return DefaultHourlyRate
	case 1:
		return values[0]
	default:
		return (values[0] + values[1]) / 2
	}
}
