package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"worklog/database"
	"worklog/models"
)

var (
	errBlankDisplayName = errors.New("display name must not be blank")
	errUnknownUnit      = errors.New("unknown unit")
)

// userView is a user row the admin screen consumes: the account plus
// whether its email sits in the admin table.
type userView struct {
	models.User
	IsAdmin bool `json:"is_admin"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()

	var users []models.User
	if err := db.Preload("Unit").Order("created_at desc").Find(&users).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	var admins []models.AdminEmail
	if err := db.Find(&admins).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	adminSet := make(map[string]bool, len(admins))
	for _, admin := range admins {
		adminSet[admin.Email] = true
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{User: user, IsAdmin: adminSet[user.Email]})
	}
	writeJSON(w, http.StatusOK, views)
}

type createUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	DisplayName string  `json:"display_name" validate:"required,max=200"`
	Password    string  `json:"password" validate:"required,min=8"`
	UnitID      *string `json:"unit_id"`
	IsAdmin     bool    `json:"is_admin"`
}

// CreateUser provisions an account directly, bypassing the allowed-domain
// gate that self-registration goes through.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email, name, or password")
		return
	}

	db := database.GetDB()

	if req.UnitID != nil && *req.UnitID != "" {
		var count int64
		db.Model(&models.Unit{}).Where("id = ?", *req.UnitID).Count(&count)
		if count == 0 {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
	} else {
		req.UnitID = nil
	}

	var existing int64
	db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashed),
		IsActive:     true,
		UnitID:       req.UnitID,
	}
	if err := db.Create(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if req.IsAdmin {
		var count int64
		db.Model(&models.AdminEmail{}).Where("email = ?", req.Email).Count(&count)
		if count == 0 {
			if err := db.Create(&models.AdminEmail{Email: req.Email}).Error; err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
	}

	log.Info().Str("user_id", user.ID).Msg("provisioned user")
	writeJSON(w, http.StatusCreated, userView{User: user, IsAdmin: req.IsAdmin})
}

type userUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	UnitID      *string `json:"unit_id"`
	IsActive    *bool   `json:"is_active"`
}

// applyUserUpdate mutates the account per the request. A nil field leaves
// the current value alone; an empty unit_id clears the assignment.
func applyUserUpdate(user *models.User, req userUpdateRequest, unitExists func(id string) bool) error {
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return errBlankDisplayName
		}
		user.DisplayName = name
	}
	if req.UnitID != nil {
		if *req.UnitID == "" {
			user.UnitID = nil
		} else {
			if !unitExists(*req.UnitID) {
				return errUnknownUnit
			}
			id := *req.UnitID
			user.UnitID = &id
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return nil
}

// UpdateUser edits an account's display name, unit assignment, or active
// flag. Admin-ness is managed through the admin-email routes.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	err := applyUserUpdate(&user, req, func(unitID string) bool {
		var count int64
		db.Model(&models.Unit{}).Where("id = ?", unitID).Count(&count)
		return count > 0
	})
	switch {
	case errors.Is(err, errBlankDisplayName):
		writeError(w, http.StatusBadRequest, "display name must not be blank")
		return
	case errors.Is(err, errUnknownUnit):
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}

	if err := db.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account with its entries, elected days, and admin
// grant in one transaction.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PersonalHoliday{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", user.Email).Delete(&models.AdminEmail{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", user.ID).Delete(&models.User{}).Error
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("deleted user")
	w.WriteHeader(http.StatusNoContent)
}
