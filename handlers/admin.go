package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"worklog/config"
	"worklog/database"
	"worklog/models"
	"worklog/timesheet"
)

var domainPattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

// AdminHandler owns the master-data surface: users, allowed domains,
// admin emails, units, projects, work items, and company holidays. Every
// route sits behind the admin gate.
type AdminHandler struct {
	config   *config.Config
	validate *validator.Validate
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		config:   cfg,
		validate: validator.New(),
	}
}

// --- allowed domains ---

type domainRequest struct {
	Domain string `json:"domain" validate:"required"`
}

func (h *AdminHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	var domains []models.AllowedDomain
	if err := database.GetDB().Order("domain asc").Find(&domains).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (h *AdminHandler) AddDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	domain := strings.ToLower(strings.TrimSpace(req.Domain))
	if domain == "" || !domainPattern.MatchString(domain) {
		writeError(w, http.StatusBadRequest, "invalid domain")
		return
	}

	db := database.GetDB()
	var existing models.AllowedDomain
	err := db.Where("domain = ?", domain).First(&existing).Error
	if err == nil {
		writeJSON(w, http.StatusCreated, existing)
		return
	}
	row := models.AllowedDomain{Domain: domain}
	if err := db.Create(&row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *AdminHandler) RemoveDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	domain := strings.ToLower(strings.TrimSpace(req.Domain))

	result := database.GetDB().Where("domain = ?", domain).Delete(&models.AllowedDomain{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin emails ---

type adminEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	var admins []models.AdminEmail
	if err := database.GetDB().Order("email asc").Find(&admins).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	db := database.GetDB()
	var existing models.AdminEmail
	err := db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		writeJSON(w, http.StatusCreated, existing)
		return
	}
	row := models.AdminEmail{Email: req.Email}
	if err := db.Create(&row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *AdminHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result := database.GetDB().Where("email = ?", req.Email).Delete(&models.AdminEmail{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- units ---

type unitRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder *int   `json:"sort_order"`
}

func (h *AdminHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	var units []models.Unit
	if err := database.GetDB().Order("sort_order asc, name asc").Find(&units).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (h *AdminHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	unit := models.Unit{Name: req.Name}
	if req.SortOrder != nil {
		unit.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Create(&unit).Error; err != nil {
		writeError(w, http.StatusConflict, "unit already exists")
		return
	}
	writeJSON(w, http.StatusCreated, unit)
}

func (h *AdminHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var unit models.Unit
	if err := database.GetDB().Where("id = ?", id).First(&unit).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	unit.Name = req.Name
	if req.SortOrder != nil {
		unit.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Save(&unit).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (h *AdminHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := database.GetDB().Where("id = ?", id).Delete(&models.Unit{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- projects ---

type projectRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	UnitID    *string `json:"unit_id"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	err := database.GetDB().
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, name asc")
		}).
		Preload("Unit").
		Order("sort_order asc, created_at desc, name asc").
		Find(&projects).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	project := models.Project{Name: req.Name, UnitID: req.UnitID, IsActive: true}
	if req.SortOrder != nil {
		project.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Create(&project).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var project models.Project
	if err := database.GetDB().Where("id = ?", id).First(&project).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	project.Name = req.Name
	project.UnitID = req.UnitID
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		project.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Save(&project).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.WorkItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- work items ---

type workItemRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Type      *string `json:"type"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

func (h *AdminHandler) CreateWorkItem(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var req workItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var project models.Project
	if err := database.GetDB().Where("id = ?", projectID).First(&project).Error; err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	item := models.WorkItem{ProjectID: project.ID, Name: req.Name, Type: req.Type, IsActive: true}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Create(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *AdminHandler) UpdateWorkItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req workItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var item models.WorkItem
	if err := database.GetDB().Where("id = ?", id).First(&item).Error; err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	item.Name = req.Name
	item.Type = req.Type
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if err := database.GetDB().Save(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminHandler) DeleteWorkItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := database.GetDB().Where("id = ?", id).Delete(&models.WorkItem{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- company holidays ---

type companyHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (h *AdminHandler) ListCompanyHolidays(w http.ResponseWriter, r *http.Request) {
	query := database.GetDB().Order("date asc")
	if monthRaw := r.URL.Query().Get("month"); monthRaw != "" {
		m, ok := timesheet.ParseMonth(monthRaw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		query = query.Where("date >= ? AND date < ?", m.First(), m.Next())
	}

	var holidays []models.CompanyHoliday
	if err := query.Find(&holidays).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, holidays)
}

func (h *AdminHandler) AddCompanyHoliday(w http.ResponseWriter, r *http.Request) {
	var req companyHolidayRequest
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
	var existing models.CompanyHoliday
	err := db.Where("date = ?", date).First(&existing).Error
	if err == nil {
		writeJSON(w, http.StatusCreated, existing)
		return
	}
	row := models.CompanyHoliday{Date: date, Name: strings.TrimSpace(req.Name)}
	if err := db.Create(&row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *AdminHandler) RemoveCompanyHoliday(w http.ResponseWriter, r *http.Request) {
	var req companyHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, ok := timesheet.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	result := database.GetDB().Where("date = ?", date).Delete(&models.CompanyHoliday{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
