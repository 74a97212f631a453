package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"worklog/config"
	"worklog/database"
	"worklog/middleware"
	"worklog/models"
)

type AuthHandler struct {
	config   *config.Config
	validate *validator.Validate
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		config:   cfg,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates an employee account. While the allowed-domain table
// has rows, the email's domain must be one of them; an empty table
// accepts any domain.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	db := database.GetDB()

	var domainCount int64
	db.Model(&models.AllowedDomain{}).Count(&domainCount)
	if domainCount > 0 {
		domain := models.EmailDomain(req.Email)
		var allowed int64
		db.Model(&models.AllowedDomain{}).Where("domain = ?", domain).Count(&allowed)
		if allowed == 0 {
			writeError(w, http.StatusForbidden, "email domain not allowed")
			return
		}
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
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("registered user")
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := database.GetDB().Where("email = ?", email).First(&user).Error; err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(&user, h.config.JWTExpiration)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the session identity the way the UI consumes it.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"unit_id":      user.UnitID,
		"is_admin":     middleware.IsAdminFromContext(r.Context()),
	})
}

type displayNameRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=200"`
}

// SetDisplayName completes onboarding. Timesheet routes stay closed
// until a display name exists.
func (h *AuthHandler) SetDisplayName(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req displayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "display name is required")
		return
	}

	err := database.GetDB().Model(user).Update("display_name", req.DisplayName).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
