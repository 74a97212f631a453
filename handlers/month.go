package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"worklog/config"
	"worklog/database"
	"worklog/middleware"
	"worklog/models"
	"worklog/timesheet"
)

type MonthHandler struct {
	config  *config.Config
	service *timesheet.Service
}

func NewMonthHandler(cfg *config.Config, service *timesheet.Service) *MonthHandler {
	return &MonthHandler{config: cfg, service: service}
}

// sheetItem is one fillable row of the month grid.
type sheetItem struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ItemName    string  `json:"item_name"`
	Type        *string `json:"type"`
	SortOrder   int     `json:"sort_order"`
}

type sheetEntry struct {
	Date       string  `json:"date"`
	WorkItemID string  `json:"work_item_id"`
	Value      float64 `json:"value"`
}

// fillableItems lists the active items of active projects linked to the
// employee's unit. An employee without a unit sees nothing to fill.
func fillableItems(unitID *string) ([]sheetItem, error) {
	if unitID == nil {
		return []sheetItem{}, nil
	}
	var projects []models.Project
	err := database.GetDB().
		Where("is_active = ? AND unit_id = ?", true, *unitID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order asc, name asc")
		}).
		Order("sort_order asc, created_at desc, name asc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	items := []sheetItem{}
	for _, project := range projects {
		for _, item := range project.Items {
			items = append(items, sheetItem{
				ID:          item.ID,
				ProjectID:   project.ID,
				ProjectName: project.Name,
				ItemName:    item.Name,
				Type:        item.Type,
				SortOrder:   item.SortOrder,
			})
		}
	}
	return items, nil
}

func monthEntries(userID string, m timesheet.Month) ([]sheetEntry, error) {
	var rows []models.TimeEntry
	err := database.GetDB().
		Where("user_id = ? AND date >= ? AND date < ?", userID, m.First(), m.Next()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := []sheetEntry{}
	for _, row := range rows {
		entries = append(entries, sheetEntry{
			Date:       timesheet.DateKey(row.Date),
			WorkItemID: row.WorkItemID,
			Value:      row.Value,
		})
	}
	return entries, nil
}

// MonthView returns everything the grid needs for the session employee:
// fillable items, raw entries, and the effective holiday list.
func (h *MonthHandler) MonthView(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	m, ok := timesheet.ParseMonth(r.URL.Query().Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	items, err := fillableItems(user.UnitID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	entries, err := monthEntries(user.ID, m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	holidays, err := h.service.ResolveEffectiveHolidays(r.Context(), user.ID, m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"month":    m.String(),
		"days":     m.Days(),
		"items":    items,
		"entries":  entries,
		"holidays": holidays,
	})
}

type bulkSaveRequest struct {
	Month            string                 `json:"month"`
	Entries          []timesheet.EntryInput `json:"entries"`
	PersonalHolidays []string               `json:"personal_holidays"`
}

// BulkSave replaces the employee's whole month in one shot. The payload
// may bundle the month's personal holiday elections; they reconcile as a
// set difference after the entry replacement.
func (h *MonthHandler) BulkSave(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req bulkSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	err := h.service.ValidateAndReplaceMonth(r.Context(), user.ID, req.Month, req.Entries, req.PersonalHolidays)
	if err != nil {
		writeTimesheetError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Str("month", req.Month).Msg("replaced month entries")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type personalHolidayRequest struct {
	Date string `json:"date"`
}

// AddPersonalHoliday upserts one elected non-working day for the session
// employee.
func (h *MonthHandler) AddPersonalHoliday(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req personalHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, ok := timesheet.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.PersonalHoliday{}).
		Where("user_id = ? AND date = ?", user.ID, date).
		Count(&count)
	if count == 0 {
		row := models.NewPersonalHoliday(user.ID, date)
		if err := db.Create(&row).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RemovePersonalHoliday deletes one elected day if present.
func (h *MonthHandler) RemovePersonalHoliday(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req personalHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, ok := timesheet.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	err := database.GetDB().
		Where("user_id = ? AND date = ?", user.ID, date).
		Delete(&models.PersonalHoliday{}).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Completion reports the session employee's own month verdict.
func (h *MonthHandler) Completion(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	m, ok := timesheet.ParseMonth(r.URL.Query().Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	result, err := h.service.EvaluateCompletion(r.Context(), user.ID, m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
