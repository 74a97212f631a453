package timesheet

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func allItemsKnown(ids []string) (map[string]bool, error) {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}

func TestNormalizeEntries(t *testing.T) {
	raw := []EntryInput{
		{Date: "2024-02-01", WorkItemID: "a", Value: 60},
		{Date: "2024-02-01", WorkItemID: "b", Value: -5},          // negative: dropped
		{Date: "2024-02-01", WorkItemID: "c", Value: math.NaN()},  // garbage: dropped
		{Date: "2024-02-01", WorkItemID: "d", Value: math.Inf(1)}, // non-finite: dropped
		{Date: "2024-02-01", WorkItemID: "e", Value: 0},           // zero: never persisted
		{Date: "2024-02-01", WorkItemID: "f", Value: 0.04},        // rounds to 0: dropped
		{Date: "2024-02-01", WorkItemID: "g", Value: 150},         // clamped to 100
		{Date: "2024-02-01", WorkItemID: "h", Value: 39.96},       // rounds to 40
		{Date: "2024-02-01", WorkItemID: "", Value: 10},           // no item ref: dropped
		{Date: "", WorkItemID: "i", Value: 10},                    // no date: dropped
	}
	got := NormalizeEntries(raw)
	want := []EntryInput{
		{Date: "2024-02-01", WorkItemID: "a", Value: 60},
		{Date: "2024-02-01", WorkItemID: "g", Value: 100},
		{Date: "2024-02-01", WorkItemID: "h", Value: 40},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeEntries = %+v, want %+v", got, want)
	}
}

func TestEntryInputTolerantDecoding(t *testing.T) {
	payload := `[
		{"date":"2024-02-01","work_item_id":"a","value":60},
		{"date":"2024-02-01","work_item_id":"b","value":"abc"},
		{"date":"2024-02-01","work_item_id":"c"}
	]`
	var entries []EntryInput
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	normalized := NormalizeEntries(entries)
	if len(normalized) != 1 || normalized[0].WorkItemID != "a" {
		t.Fatalf("expected only the numeric entry to survive, got %+v", normalized)
	}
}

func TestValidateMonthUnknownItem(t *testing.T) {
	m := Month{2024, 2}
	entries := []EntryInput{{Date: "2024-02-01", WorkItemID: "ghost", Value: 100}}
	err := ValidateMonth(m, entries, func(ids []string) (map[string]bool, error) {
		return map[string]bool{}, nil
	})
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
}

func TestValidateMonthBadDate(t *testing.T) {
	m := Month{2024, 2}
	entries := []EntryInput{{Date: "02/01/2024", WorkItemID: "a", Value: 100}}
	err := ValidateMonth(m, entries, allItemsKnown)
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("err = %v, want ErrBadDate", err)
	}
}

func TestValidateMonthDateOutOfMonth(t *testing.T) {
	m := Month{2024, 2}
	entries := []EntryInput{{Date: "2024-03-01", WorkItemID: "a", Value: 100}}
	err := ValidateMonth(m, entries, allItemsKnown)
	if !errors.Is(err, ErrDateOutOfMonth) {
		t.Fatalf("err = %v, want ErrDateOutOfMonth", err)
	}
}

func TestValidateMonthReportsUnbalancedDays(t *testing.T) {
	m := Month{2024, 2}
	entries := []EntryInput{
		{Date: "2024-02-01", WorkItemID: "a", Value: 50},
		{Date: "2024-02-05", WorkItemID: "a", Value: 100},
		{Date: "2024-02-20", WorkItemID: "a", Value: 99.9},
	}
	err := ValidateMonth(m, entries, allItemsKnown)
	var unbalanced *UnbalancedError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("err = %v, want UnbalancedError", err)
	}
	if !reflect.DeepEqual(unbalanced.Days, []int{1, 20}) {
		t.Fatalf("days = %v, want [1 20]", unbalanced.Days)
	}
}

// The balance rule is holiday-agnostic at save time: even a company
// holiday requires exactly 0 or 100. An elected holiday simply has no
// entries, which totals 0 and passes.
func TestValidateMonthHolidayAgnostic(t *testing.T) {
	m := Month{2024, 2}
	// 2024-02-11 is a Sunday; a partial total on it still fails.
	entries := []EntryInput{{Date: "2024-02-11", WorkItemID: "a", Value: 50}}
	err := ValidateMonth(m, entries, allItemsKnown)
	var unbalanced *UnbalancedError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("err = %v, want UnbalancedError", err)
	}
}

// Many small inputs must not drift the running sum: each value is
// rounded before accumulation.
func TestValidateMonthRoundsPerInput(t *testing.T) {
	m := Month{2024, 2}
	var entries []EntryInput
	for i := 0; i < 1000; i++ {
		entries = append(entries, EntryInput{Date: "2024-02-01", WorkItemID: "a", Value: 0.1})
	}
	if err := ValidateMonth(m, entries, allItemsKnown); err != nil {
		t.Fatalf("expected 1000 x 0.1 to total exactly 100, got %v", err)
	}
}

func TestValidateMonthEmptyBatch(t *testing.T) {
	m := Month{2024, 2}
	if err := ValidateMonth(m, nil, allItemsKnown); err != nil {
		t.Fatalf("an empty batch (all days 0) must validate, got %v", err)
	}
}
