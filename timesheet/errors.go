package timesheet

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMonth signals an unparseable YYYY-MM value.
	ErrBadMonth = errors.New("invalid month")
	// ErrBadDate signals an unparseable YYYY-MM-DD value in a batch.
	ErrBadDate = errors.New("invalid date")
	// ErrDateOutOfMonth signals a batch entry dated outside the target month.
	ErrDateOutOfMonth = errors.New("date out of month")
	// ErrUnknownItem signals a batch entry referencing a work item that is
	// not in the catalog.
	ErrUnknownItem = errors.New("invalid work item")
)

// UnbalancedError reports the days of the month whose rounded total is
// neither 0 nor 100. Days are ascending day-of-month numbers.
type UnbalancedError struct {
	Days []int
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("total must be 0 or 100 on days %v", e.Days)
}
