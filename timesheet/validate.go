package timesheet

import (
	"encoding/json"
	"math"
	"strings"
)

// EntryInput is one submitted allocation in a bulk month save.
type EntryInput struct {
	Date       string  `json:"date"`
	WorkItemID string  `json:"work_item_id"`
	Value      float64 `json:"value"`
}

// UnmarshalJSON tolerates a non-numeric value field: a value that does
// not decode as a number becomes NaN, which NormalizeEntries drops. A
// garbage value discards that entry rather than failing the batch.
func (e *EntryInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date       string          `json:"date"`
		WorkItemID string          `json:"work_item_id"`
		Value      json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Date = raw.Date
	e.WorkItemID = raw.WorkItemID
	var value float64
	if len(raw.Value) == 0 || json.Unmarshal(raw.Value, &value) != nil {
		e.Value = math.NaN()
		return nil
	}
	e.Value = value
	return nil
}

// NormalizeEntries cleans a submitted batch: non-finite and negative
// values are dropped, the rest are clamped to [0,100] and rounded to one
// decimal, and anything that normalizes to 0 or below is discarded
// entirely. Zero allocations are represented by row absence, so they are
// never persisted. Entries without a work item reference are dropped as
// noise rather than failing the batch.
func NormalizeEntries(raw []EntryInput) []EntryInput {
	normalized := make([]EntryInput, 0, len(raw))
	for _, entry := range raw {
		if entry.WorkItemID == "" || entry.Date == "" {
			continue
		}
		value := entry.Value
		if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			continue
		}
		if value > 100 {
			value = 100
		}
		value = RoundTenth(value)
		if value <= 0 {
			continue
		}
		normalized = append(normalized, EntryInput{
			Date:       entry.Date,
			WorkItemID: entry.WorkItemID,
			Value:      value,
		})
	}
	return normalized
}

// ValidateMonth checks a normalized batch against the target month.
// Checks run fail-fast in a fixed order: work-item existence, date parse
// and month containment, then the per-day 0-or-100 balance over every
// day of the month. Each input value is rounded before accumulation so
// many small entries cannot drift the running sum.
//
// The balance check is deliberately holiday-agnostic: at save time every
// day must total exactly 0 or exactly 100 even on a holiday. An employee
// taking a holiday submits no entries for that day, which totals 0. The
// holiday exemption only exists at read time, in EvaluateMonth.
func ValidateMonth(month Month, entries []EntryInput, itemExists func(ids []string) (map[string]bool, error)) error {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !seen[entry.WorkItemID] {
			seen[entry.WorkItemID] = true
			ids = append(ids, entry.WorkItemID)
		}
	}
	if len(ids) > 0 {
		known, err := itemExists(ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !known[id] {
				return ErrUnknownItem
			}
		}
	}

	prefix := month.String() + "-"
	totals := make(map[string]float64, len(entries))
	for _, entry := range entries {
		if _, ok := ParseDate(entry.Date); !ok {
			return ErrBadDate
		}
		if !strings.HasPrefix(entry.Date, prefix) {
			return ErrDateOutOfMonth
		}
		totals[entry.Date] = RoundTenth(totals[entry.Date] + RoundTenth(entry.Value))
	}

	var unbalanced []int
	for day := 1; day <= month.Days(); day++ {
		date := FormatDate(month.Year, month.Month, day)
		total := RoundTenth(totals[date])
		if total != 0 && total != 100 {
			unbalanced = append(unbalanced, day)
		}
	}
	if len(unbalanced) > 0 {
		return &UnbalancedError{Days: unbalanced}
	}
	return nil
}
