package timesheet

import "sort"

// HolidaySet is a set of YYYY-MM-DD keys on which a zero total is an
// acceptable day.
type HolidaySet map[string]struct{}

func (s HolidaySet) Add(date string) {
	s[date] = struct{}{}
}

func (s HolidaySet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// Sorted returns the set's dates in ascending order.
func (s HolidaySet) Sorted() []string {
	dates := make([]string, 0, len(s))
	for date := range s {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// BaseHolidays builds the holiday set shared by all employees for one
// month: weekends, company holidays, and national holidays from the
// feed. Feed dates are probed by re-deriving each day's key for days
// 1..DaysInMonth rather than by filtering feed keys, so malformed or
// out-of-month feed keys can never leak in.
func BaseHolidays(year, month int, company []string, feed map[string]string) HolidaySet {
	set := make(HolidaySet)
	for _, date := range WeekendDates(year, month) {
		set.Add(date)
	}
	for _, date := range company {
		set.Add(date)
	}
	total := DaysInMonth(year, month)
	for day := 1; day <= total; day++ {
		date := FormatDate(year, month, day)
		if _, ok := feed[date]; ok {
			set.Add(date)
		}
	}
	return set
}

// EffectiveHolidays extends a base set with one employee's personal
// holiday dates. The base set is not modified; dashboards reuse one base
// set across employees and derive an effective set per employee.
func EffectiveHolidays(base HolidaySet, personal []string) HolidaySet {
	set := make(HolidaySet, len(base)+len(personal))
	for date := range base {
		set.Add(date)
	}
	for _, date := range personal {
		set.Add(date)
	}
	return set
}
