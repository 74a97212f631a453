package timesheet

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
)

// memStore is an in-memory Store for exercising the service without a
// database.
type memStore struct {
	entries   map[string][]EntryInput
	company   []string
	personal  map[string][]string
	items     map[string]bool
	employees []EmployeeRef

	replaceCalls int
}

func newMemStore() *memStore {
	return &memStore{
		entries:  make(map[string][]EntryInput),
		personal: make(map[string][]string),
		items:    make(map[string]bool),
	}
}

func inMonth(date string, m Month) bool {
	return strings.HasPrefix(date, m.String()+"-")
}

func (s *memStore) EntriesForMonth(ctx context.Context, userID string, m Month) ([]RawEntry, error) {
	var raw []RawEntry
	for _, entry := range s.entries[userID] {
		if inMonth(entry.Date, m) {
			raw = append(raw, RawEntry{Date: entry.Date, Value: entry.Value})
		}
	}
	return raw, nil
}

func (s *memStore) EntriesForAllUsers(ctx context.Context, m Month) (map[string][]RawEntry, error) {
	byUser := make(map[string][]RawEntry)
	for userID := range s.entries {
		raw, _ := s.EntriesForMonth(ctx, userID, m)
		if len(raw) > 0 {
			byUser[userID] = raw
		}
	}
	return byUser, nil
}

func (s *memStore) CompanyHolidays(ctx context.Context, m Month) ([]string, error) {
	var dates []string
	for _, date := range s.company {
		if inMonth(date, m) {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func (s *memStore) PersonalHolidays(ctx context.Context, userID string, m Month) ([]string, error) {
	var dates []string
	for _, date := range s.personal[userID] {
		if inMonth(date, m) {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func (s *memStore) PersonalHolidaysForAllUsers(ctx context.Context, m Month) (map[string][]string, error) {
	byUser := make(map[string][]string)
	for userID := range s.personal {
		dates, _ := s.PersonalHolidays(ctx, userID, m)
		if len(dates) > 0 {
			byUser[userID] = dates
		}
	}
	return byUser, nil
}

func (s *memStore) ItemsExist(ctx context.Context, ids []string) (map[string]bool, error) {
	known := make(map[string]bool)
	for _, id := range ids {
		if s.items[id] {
			known[id] = true
		}
	}
	return known, nil
}

func (s *memStore) ReplaceEntries(ctx context.Context, userID string, m Month, entries []EntryInput) error {
	s.replaceCalls++
	var kept []EntryInput
	for _, entry := range s.entries[userID] {
		if !inMonth(entry.Date, m) {
			kept = append(kept, entry)
		}
	}
	s.entries[userID] = append(kept, entries...)
	return nil
}

func (s *memStore) ReconcilePersonalHolidays(ctx context.Context, userID string, m Month, dates []string) error {
	var kept []string
	for _, date := range s.personal[userID] {
		if !inMonth(date, m) {
			kept = append(kept, date)
		}
	}
	s.personal[userID] = append(kept, dates...)
	return nil
}

func (s *memStore) Employees(ctx context.Context) ([]EmployeeRef, error) {
	return s.employees, nil
}

type staticFeed map[string]string

func (f staticFeed) Holidays(ctx context.Context) map[string]string {
	return f
}

func newTestService(store *memStore) *Service {
	return NewService(store, staticFeed{})
}

// fullMonthEntries builds a batch putting exactly 100 on every working
// day of the month, split 60/40 across two items, skipping the given
// day numbers.
func fullMonthEntries(m Month, effective HolidaySet, skipDays ...int) []EntryInput {
	skip := make(map[int]bool)
	for _, day := range skipDays {
		skip[day] = true
	}
	var entries []EntryInput
	for day := 1; day <= m.Days(); day++ {
		date := FormatDate(m.Year, m.Month, day)
		if effective.Contains(date) || skip[day] {
			continue
		}
		entries = append(entries,
			EntryInput{Date: date, WorkItemID: "item-1", Value: 60},
			EntryInput{Date: date, WorkItemID: "item-2", Value: 40},
		)
	}
	return entries
}

func TestReplaceMonthRoundTrip(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	store.items["item-2"] = true
	service := newTestService(store)
	ctx := context.Background()

	entries := []EntryInput{
		{Date: "2024-02-01", WorkItemID: "item-1", Value: 60},
		{Date: "2024-02-01", WorkItemID: "item-2", Value: 40},
		{Date: "2024-02-02", WorkItemID: "item-1", Value: 100},
	}
	if err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", entries, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	totals, err := service.ComputeDayTotals(ctx, "emp-1", Month{2024, 2})
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	want := map[string]float64{"2024-02-01": 100, "2024-02-02": 100}
	if !reflect.DeepEqual(totals, want) {
		t.Fatalf("totals = %v, want %v", totals, want)
	}
}

func TestReplaceMonthIdempotent(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	store.items["item-2"] = true
	service := newTestService(store)
	ctx := context.Background()
	m := Month{2024, 2}

	base, _ := service.baseHolidaySet(ctx, m)
	entries := fullMonthEntries(m, base)

	if err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", entries, nil); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	first, _ := service.ComputeDayTotals(ctx, "emp-1", m)
	firstCompletion, _ := service.EvaluateCompletion(ctx, "emp-1", m)

	if err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", entries, nil); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	second, _ := service.ComputeDayTotals(ctx, "emp-1", m)
	secondCompletion, _ := service.EvaluateCompletion(ctx, "emp-1", m)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("totals differ between identical saves: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstCompletion, secondCompletion) {
		t.Fatalf("completion differs between identical saves: %+v vs %+v", firstCompletion, secondCompletion)
	}
	if firstCompletion.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", firstCompletion.Status)
	}
}

func TestReplaceMonthAtomicOnUnbalancedBatch(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	store.items["item-2"] = true
	service := newTestService(store)
	ctx := context.Background()
	m := Month{2024, 2}

	good := []EntryInput{{Date: "2024-02-01", WorkItemID: "item-1", Value: 100}}
	if err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", good, nil); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}
	before, _ := service.ComputeDayTotals(ctx, "emp-1", m)

	bad := []EntryInput{
		{Date: "2024-02-01", WorkItemID: "item-1", Value: 100},
		{Date: "2024-02-02", WorkItemID: "item-1", Value: 55},
	}
	err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", bad, nil)
	var unbalanced *UnbalancedError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("err = %v, want UnbalancedError", err)
	}

	after, _ := service.ComputeDayTotals(ctx, "emp-1", m)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected batch mutated state: %v -> %v", before, after)
	}
}

func TestReplaceMonthUnknownItemLeavesStoreUntouched(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	service := newTestService(store)
	ctx := context.Background()

	entries := []EntryInput{{Date: "2024-02-01", WorkItemID: "ghost", Value: 100}}
	err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", entries, nil)
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
	if store.replaceCalls != 0 {
		t.Fatal("store write happened despite failed validation")
	}
}

func TestReplaceMonthBadMonth(t *testing.T) {
	service := newTestService(newMemStore())
	err := service.ValidateAndReplaceMonth(context.Background(), "emp-1", "2024-2", nil, nil)
	if !errors.Is(err, ErrBadMonth) {
		t.Fatalf("err = %v, want ErrBadMonth", err)
	}
}

func TestReplaceMonthReconcilesPersonalHolidays(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	store.personal["emp-1"] = []string{"2024-02-05", "2024-02-12", "2024-01-31"}
	service := newTestService(store)
	ctx := context.Background()

	err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", nil,
		[]string{"2024-02-12", "2024-02-19", "2024-03-01", "bogus"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got := append([]string(nil), store.personal["emp-1"]...)
	sort.Strings(got)
	// In-month dates replaced as a set; the out-of-month January date is
	// untouched; out-of-month and malformed wanted dates are ignored.
	want := []string{"2024-01-31", "2024-02-12", "2024-02-19"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("personal holidays = %v, want %v", got, want)
	}
}

func TestEvaluateCompletionLeapFebruaryScenario(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = true
	store.items["item-2"] = true
	store.company = []string{"2024-02-11"}
	store.personal["emp-1"] = []string{"2024-02-12"}
	service := newTestService(store)
	ctx := context.Background()
	m := Month{2024, 2}

	base, err := service.baseHolidaySet(ctx, m)
	if err != nil {
		t.Fatalf("base set failed: %v", err)
	}
	effective := EffectiveHolidays(base, []string{"2024-02-12"})
	entries := fullMonthEntries(m, effective, 13)

	if err := service.ValidateAndReplaceMonth(ctx, "emp-1", "2024-02", entries, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	result, err := service.EvaluateCompletion(ctx, "emp-1", m)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if result.Status != StatusIncomplete {
		t.Fatalf("status = %s, want incomplete", result.Status)
	}
	if !reflect.DeepEqual(result.IncompleteDays, []int{13}) {
		t.Fatalf("incomplete days = %v, want [13]", result.IncompleteDays)
	}
}

// The progress rollup must apply each employee's personal holidays to
// that employee only.
func TestProgressReportUsesPerEmployeeEffectiveSets(t *testing.T) {
	store := newMemStore()
	store.employees = []EmployeeRef{
		{ID: "emp-a", Email: "a@example.com", DisplayName: "A"},
		{ID: "emp-b", Email: "b@example.com", DisplayName: "B"},
	}
	// 2024-02-13 is a Tuesday. Only employee A elected it off.
	store.personal["emp-a"] = []string{"2024-02-13"}
	service := newTestService(store)

	report, err := service.ProgressReport(context.Background(), Month{2024, 2})
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report))
	}
	byID := map[string]EmployeeProgress{}
	for _, row := range report {
		byID[row.ID] = row
	}
	if byID["emp-a"].IncompleteDays != byID["emp-b"].IncompleteDays-1 {
		t.Fatalf("personal holiday not applied per employee: a=%d b=%d",
			byID["emp-a"].IncompleteDays, byID["emp-b"].IncompleteDays)
	}
	if byID["emp-b"].Status != StatusIncomplete {
		t.Fatalf("status = %s, want incomplete", byID["emp-b"].Status)
	}
}

func TestResolveEffectiveHolidaysSortedAndDeduplicated(t *testing.T) {
	store := newMemStore()
	store.company = []string{"2024-02-11", "2024-02-23"}
	store.personal["emp-1"] = []string{"2024-02-23", "2024-02-05"}
	service := NewService(store, staticFeed{"2024-02-23": "Emperor's Birthday"})

	dates, err := service.ResolveEffectiveHolidays(context.Background(), "emp-1", Month{2024, 2})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !sort.StringsAreSorted(dates) {
		t.Fatalf("dates not sorted: %v", dates)
	}
	seen := map[string]int{}
	for _, date := range dates {
		seen[date]++
	}
	if seen["2024-02-23"] != 1 {
		t.Fatalf("2024-02-23 appears %d times, want 1", seen["2024-02-23"])
	}
	if seen["2024-02-05"] != 1 {
		t.Fatal("personal date missing from effective set")
	}
}
