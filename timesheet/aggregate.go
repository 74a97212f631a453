package timesheet

import "math"

// RoundTenth rounds half away from zero at the tenths digit. All totals
// are compared only after passing through this; comparing raw float sums
// produces false negatives from binary representation error.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// RawEntry is one persisted allocation row as the aggregator sees it:
// a date key and a percentage value.
type RawEntry struct {
	Date  string
	Value float64
}

// DayTotals groups entries by date and sums their values, rounding the
// final sum per date to one decimal. Dates with no entries are absent
// from the result; consumers treat absence as a total of 0.
func DayTotals(entries []RawEntry) map[string]float64 {
	totals := make(map[string]float64, len(entries))
	for _, entry := range entries {
		totals[entry.Date] += entry.Value
	}
	for date, sum := range totals {
		totals[date] = RoundTenth(sum)
	}
	return totals
}
