package timesheet

// Completion statuses for the employee-level rollup.
const (
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

// Completion is the per-month verdict for one employee.
type Completion struct {
	IncompleteDays []int  `json:"incomplete_days"`
	Status         string `json:"status"`
}

// DayComplete classifies one employee-day. Totals must already be
// rounded to one decimal. On a holiday exactly 0 or exactly 100 passes;
// a partial allocation on a holiday does not. On a working day only
// exactly 100 passes.
func DayComplete(isHoliday bool, total float64) bool {
	if isHoliday {
		return total == 0 || total == 100
	}
	return total == 100
}

// EvaluateMonth classifies every day of the month against the employee's
// effective holiday set and rolled-up day totals, returning the
// ascending day numbers that are incomplete. It is pure and recomputed
// on demand; no completion state is ever cached or persisted.
func EvaluateMonth(year, month int, totals map[string]float64, holidays HolidaySet) Completion {
	total := DaysInMonth(year, month)
	incomplete := []int{}
	for day := 1; day <= total; day++ {
		date := FormatDate(year, month, day)
		sum := RoundTenth(totals[date])
		if !DayComplete(holidays.Contains(date), sum) {
			incomplete = append(incomplete, day)
		}
	}
	status := StatusCompleted
	if len(incomplete) > 0 {
		status = StatusIncomplete
	}
	return Completion{IncompleteDays: incomplete, Status: status}
}
