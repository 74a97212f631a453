package timesheet

import "context"

// Store is the persistence surface the engine needs. The gorm-backed
// implementation lives in the store package; tests use an in-memory one.
type Store interface {
	// EntriesForMonth returns one employee's raw allocation rows for the month.
	EntriesForMonth(ctx context.Context, userID string, m Month) ([]RawEntry, error)
	// EntriesForAllUsers returns every employee's rows for the month, keyed by user ID.
	EntriesForAllUsers(ctx context.Context, m Month) (map[string][]RawEntry, error)
	// CompanyHolidays returns the company-wide holiday date keys inside the month.
	CompanyHolidays(ctx context.Context, m Month) ([]string, error)
	// PersonalHolidays returns one employee's elected holiday date keys inside the month.
	PersonalHolidays(ctx context.Context, userID string, m Month) ([]string, error)
	// PersonalHolidaysForAllUsers returns every employee's elected dates, keyed by user ID.
	PersonalHolidaysForAllUsers(ctx context.Context, m Month) (map[string][]string, error)
	// ItemsExist reports which of the given work-item IDs are in the catalog.
	ItemsExist(ctx context.Context, ids []string) (map[string]bool, error)
	// ReplaceEntries deletes the employee's rows in the month's range and
	// inserts the given set, inside one transaction.
	ReplaceEntries(ctx context.Context, userID string, m Month, entries []EntryInput) error
	// ReconcilePersonalHolidays makes the employee's elected dates inside the
	// month equal the given set, inserting additions and deleting removals.
	ReconcilePersonalHolidays(ctx context.Context, userID string, m Month, dates []string) error
	// Employees lists all employees for the progress rollup.
	Employees(ctx context.Context) ([]EmployeeRef, error)
}

// FeedSource supplies the national holiday mapping. It never fails; a
// broken feed yields a stale or empty map.
type FeedSource interface {
	Holidays(ctx context.Context) map[string]string
}

// EmployeeRef is the slice of an employee the progress rollup needs.
type EmployeeRef struct {
	ID          string
	Email       string
	DisplayName string
	UnitName    string
}

// EmployeeProgress is one row of the all-employee completion dashboard.
type EmployeeProgress struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	UnitName       string `json:"unit_name"`
	IncompleteDays int    `json:"incomplete_days"`
	Status         string `json:"status"`
}

// Service is the single implementation of holiday resolution, day
// aggregation, completion evaluation, and bulk validation that every
// caller (month view, admin detail view, progress dashboard, bulk save)
// goes through.
type Service struct {
	store Store
	feed  FeedSource
}

func NewService(store Store, feed FeedSource) *Service {
	return &Service{store: store, feed: feed}
}

// baseHolidaySet builds the month's shared holiday set: weekends,
// company holidays, and the national feed.
func (s *Service) baseHolidaySet(ctx context.Context, m Month) (HolidaySet, error) {
	company, err := s.store.CompanyHolidays(ctx, m)
	if err != nil {
		return nil, err
	}
	return BaseHolidays(m.Year, m.Month, company, s.feed.Holidays(ctx)), nil
}

// ResolveEffectiveHolidays returns the sorted effective holiday dates
// for one employee: the base set plus their personal elections.
func (s *Service) ResolveEffectiveHolidays(ctx context.Context, userID string, m Month) ([]string, error) {
	base, err := s.baseHolidaySet(ctx, m)
	if err != nil {
		return nil, err
	}
	personal, err := s.store.PersonalHolidays(ctx, userID, m)
	if err != nil {
		return nil, err
	}
	return EffectiveHolidays(base, personal).Sorted(), nil
}

// ComputeDayTotals returns the employee's rounded per-date totals.
func (s *Service) ComputeDayTotals(ctx context.Context, userID string, m Month) (map[string]float64, error) {
	entries, err := s.store.EntriesForMonth(ctx, userID, m)
	if err != nil {
		return nil, err
	}
	return DayTotals(entries), nil
}

// EvaluateCompletion classifies every day of the employee's month and
// rolls the result up into a completed/incomplete verdict.
func (s *Service) EvaluateCompletion(ctx context.Context, userID string, m Month) (Completion, error) {
	base, err := s.baseHolidaySet(ctx, m)
	if err != nil {
		return Completion{}, err
	}
	personal, err := s.store.PersonalHolidays(ctx, userID, m)
	if err != nil {
		return Completion{}, err
	}
	totals, err := s.ComputeDayTotals(ctx, userID, m)
	if err != nil {
		return Completion{}, err
	}
	return EvaluateMonth(m.Year, m.Month, totals, EffectiveHolidays(base, personal)), nil
}

// ValidateAndReplaceMonth validates a full-month resubmission and, on
// success, atomically replaces the employee's entries for the month.
// A non-nil personalDates additionally reconciles the employee's
// personal holidays inside the month as a set difference; the
// reconciliation runs after the entry transaction and both must succeed
// for the save to be reported successful.
func (s *Service) ValidateAndReplaceMonth(ctx context.Context, userID, monthRaw string, entries []EntryInput, personalDates []string) error {
	m, ok := ParseMonth(monthRaw)
	if !ok {
		return ErrBadMonth
	}

	normalized := NormalizeEntries(entries)
	err := ValidateMonth(m, normalized, func(ids []string) (map[string]bool, error) {
		return s.store.ItemsExist(ctx, ids)
	})
	if err != nil {
		return err
	}

	if err := s.store.ReplaceEntries(ctx, userID, m, normalized); err != nil {
		return err
	}
	if personalDates != nil {
		prefix := m.String() + "-"
		inMonth := make([]string, 0, len(personalDates))
		for _, date := range personalDates {
			if _, ok := ParseDate(date); !ok {
				continue
			}
			if len(date) >= len(prefix) && date[:len(prefix)] == prefix {
				inMonth = append(inMonth, date)
			}
		}
		if err := s.store.ReconcilePersonalHolidays(ctx, userID, m, inMonth); err != nil {
			return err
		}
	}
	return nil
}

// ProgressReport evaluates completion for every employee in one pass.
// The base set is shared, but the effective set is derived per employee
// from their personal holidays.
func (s *Service) ProgressReport(ctx context.Context, m Month) ([]EmployeeProgress, error) {
	base, err := s.baseHolidaySet(ctx, m)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}
	entriesByUser, err := s.store.EntriesForAllUsers(ctx, m)
	if err != nil {
		return nil, err
	}
	personalByUser, err := s.store.PersonalHolidaysForAllUsers(ctx, m)
	if err != nil {
		return nil, err
	}

	report := make([]EmployeeProgress, 0, len(employees))
	for _, emp := range employees {
		totals := DayTotals(entriesByUser[emp.ID])
		effective := EffectiveHolidays(base, personalByUser[emp.ID])
		result := EvaluateMonth(m.Year, m.Month, totals, effective)
		report = append(report, EmployeeProgress{
			ID:             emp.ID,
			Email:          emp.Email,
			DisplayName:    emp.DisplayName,
			UnitName:       emp.UnitName,
			IncompleteDays: len(result.IncompleteDays),
			Status:         result.Status,
		})
	}
	return report, nil
}
