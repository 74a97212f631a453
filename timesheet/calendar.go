package timesheet

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	datePattern  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Month is a (year, month) pair parsed from its YYYY-MM form.
type Month struct {
	Year  int
	Month int
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return DaysInMonth(m.Year, m.Month)
}

// First returns the first day of the month at UTC midnight.
func (m Month) First() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the first day of the following month at UTC midnight.
// [First, Next) is the month's date range for store queries.
func (m Month) Next() time.Time {
	return m.First().AddDate(0, 1, 0)
}

// ParseMonth accepts only strict YYYY-MM with month 01..12. The year is
// not range-checked.
func ParseMonth(raw string) (Month, bool) {
	match := monthPattern.FindStringSubmatch(raw)
	if match == nil {
		return Month{}, false
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	if month < 1 || month > 12 {
		return Month{}, false
	}
	return Month{Year: year, Month: month}, true
}

// DaysInMonth counts the days of a month, leap years included, by taking
// day 0 of the following month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDate renders a zero-padded YYYY-MM-DD string.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseDate accepts strict YYYY-MM-DD with month 01..12 and day 01..31.
// The day is only range-checked syntactically: a day past the end of the
// month (2024-02-30) is accepted and rolls over into the next month, the
// same way the UTC date constructor normalizes it. Callers that need the
// date to stay inside a month must check the string prefix themselves.
func ParseDate(raw string) (time.Time, bool) {
	match := datePattern.FindStringSubmatch(raw)
	if match == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// DateKey renders a day-bucketed time as its YYYY-MM-DD key.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WeekendDates lists every Saturday and Sunday of the month, ascending.
func WeekendDates(year, month int) []string {
	total := DaysInMonth(year, month)
	var weekends []string
	for day := 1; day <= total; day++ {
		dow := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
		if dow == time.Saturday || dow == time.Sunday {
			weekends = append(weekends, FormatDate(year, month, day))
		}
	}
	return weekends
}
