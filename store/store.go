// Package store backs the timesheet engine with gorm/postgres.
package store

import (
	"context"

	"gorm.io/gorm"

	"worklog/models"
	"worklog/timesheet"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) EntriesForMonth(ctx context.Context, userID string, m timesheet.Month) ([]timesheet.RawEntry, error) {
	var rows []models.TimeEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := make([]timesheet.RawEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, timesheet.RawEntry{
			Date:  timesheet.DateKey(row.Date),
			Value: row.Value,
		})
	}
	return entries, nil
}

func (s *Store) EntriesForAllUsers(ctx context.Context, m timesheet.Month) (map[string][]timesheet.RawEntry, error) {
	var rows []models.TimeEntry
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byUser := make(map[string][]timesheet.RawEntry)
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], timesheet.RawEntry{
			Date:  timesheet.DateKey(row.Date),
			Value: row.Value,
		})
	}
	return byUser, nil
}

func (s *Store) CompanyHolidays(ctx context.Context, m timesheet.Month) ([]string, error) {
	var rows []models.CompanyHoliday
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, timesheet.DateKey(row.Date))
	}
	return dates, nil
}

func (s *Store) PersonalHolidays(ctx context.Context, userID string, m timesheet.Month) ([]string, error) {
	var rows []models.PersonalHoliday
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, timesheet.DateKey(row.Date))
	}
	return dates, nil
}

func (s *Store) PersonalHolidaysForAllUsers(ctx context.Context, m timesheet.Month) (map[string][]string, error) {
	var rows []models.PersonalHoliday
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byUser := make(map[string][]string)
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], timesheet.DateKey(row.Date))
	}
	return byUser, nil
}

func (s *Store) ItemsExist(ctx context.Context, ids []string) (map[string]bool, error) {
	var found []string
	err := s.db.WithContext(ctx).
		Model(&models.WorkItem{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	return known, nil
}

// ReplaceEntries deletes the employee's rows for the month and inserts
// the submitted set inside one transaction, so a failure leaves the
// previous month state untouched.
func (s *Store) ReplaceEntries(ctx context.Context, userID string, m timesheet.Month, entries []timesheet.EntryInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND date >= ? AND date < ?", userID, m.First(), m.Next()).
			Delete(&models.TimeEntry{}).Error
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		rows := make([]models.TimeEntry, 0, len(entries))
		for _, entry := range entries {
			date, ok := timesheet.ParseDate(entry.Date)
			if !ok {
				return timesheet.ErrBadDate
			}
			rows = append(rows, models.TimeEntry{
				UserID:     userID,
				Date:       date,
				WorkItemID: entry.WorkItemID,
				Value:      entry.Value,
			})
		}
		return tx.Create(&rows).Error
	})
}

// ReconcilePersonalHolidays diffs the employee's elected dates inside the
// month against the wanted set, inserting additions and deleting removals.
func (s *Store) ReconcilePersonalHolidays(ctx context.Context, userID string, m timesheet.Month, dates []string) error {
	existing, err := s.PersonalHolidays(ctx, userID, m)
	if err != nil {
		return err
	}
	existingSet := make(map[string]bool, len(existing))
	for _, date := range existing {
		existingSet[date] = true
	}
	wantedSet := make(map[string]bool, len(dates))
	for _, date := range dates {
		wantedSet[date] = true
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, date := range dates {
			if existingSet[date] {
				continue
			}
			parsed, ok := timesheet.ParseDate(date)
			if !ok {
				return timesheet.ErrBadDate
			}
			row := models.NewPersonalHoliday(userID, parsed)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		var removals []string
		for _, date := range existing {
			if !wantedSet[date] {
				removals = append(removals, date)
			}
		}
		if len(removals) > 0 {
			err := tx.Where("user_id = ? AND date IN ?", userID, removals).
				Delete(&models.PersonalHoliday{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Employees(ctx context.Context) ([]timesheet.EmployeeRef, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Unit").
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	refs := make([]timesheet.EmployeeRef, 0, len(users))
	for _, user := range users {
		unitName := ""
		if user.Unit != nil {
			unitName = user.Unit.Name
		}
		refs = append(refs, timesheet.EmployeeRef{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			UnitName:    unitName,
		})
	}
	return refs, nil
}
