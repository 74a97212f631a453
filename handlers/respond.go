package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"worklog/timesheet"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeTimesheetError maps engine errors to HTTP responses. Validation
// failures are client errors with enough detail for the UI to explain
// what must be corrected; anything else is an infrastructure failure.
func writeTimesheetError(w http.ResponseWriter, err error) {
	var unbalanced *timesheet.UnbalancedError
	switch {
	case errors.Is(err, timesheet.ErrBadMonth):
		writeError(w, http.StatusBadRequest, "invalid month")
	case errors.Is(err, timesheet.ErrBadDate):
		writeError(w, http.StatusBadRequest, "invalid date")
	case errors.Is(err, timesheet.ErrDateOutOfMonth):
		writeError(w, http.StatusBadRequest, "date out of month")
	case errors.Is(err, timesheet.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "invalid work item")
	case errors.As(err, &unbalanced):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "total must be 0 or 100",
			"days":  unbalanced.Days,
		})
	default:
		log.Error().Err(err).Msg("timesheet operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
