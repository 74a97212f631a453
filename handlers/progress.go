package handlers

import (
	"net/http"

	"worklog/config"
	"worklog/database"
	"worklog/models"
	"worklog/timesheet"
)

// ProgressHandler serves the admin views built on the completion engine:
// the per-employee read-only month detail and the workforce rollup.
// Admins may read any employee's month but never write it.
type ProgressHandler struct {
	config  *config.Config
	service *timesheet.Service
}

func NewProgressHandler(cfg *config.Config, service *timesheet.Service) *ProgressHandler {
	return &ProgressHandler{config: cfg, service: service}
}

// UserMonthView is the admin's read-only variant of the month grid for
// one employee.
func (h *ProgressHandler) UserMonthView(w http.ResponseWriter, r *http.Request) {
	m, ok := timesheet.ParseMonth(r.URL.Query().Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var user models.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		writeError(w, http.StatusNotFound, "user not found")
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
	completion, err := h.service.EvaluateCompletion(r.Context(), user.ID, m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"month": m.String(),
		"days":  m.Days(),
		"user": map[string]interface{}{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
		},
		"items":      items,
		"entries":    entries,
		"holidays":   holidays,
		"completion": completion,
	})
}

// Progress returns the per-employee completion rollup for the month,
// plus completed/incomplete headcounts.
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	m, ok := timesheet.ParseMonth(r.URL.Query().Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	report, err := h.service.ProgressReport(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	completed := 0
	for _, row := range report {
		if row.Status == timesheet.StatusCompleted {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"month":      m.String(),
		"employees":  report,
		"completed":  completed,
		"incomplete": len(report) - completed,
	})
}
