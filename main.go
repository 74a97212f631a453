package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"worklog/config"
	"worklog/database"
	"worklog/handlers"
	"worklog/holidayfeed"
	"worklog/logger"
	"worklog/middleware"
	"worklog/store"
	"worklog/timesheet"
)

func main() {
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := database.Bootstrap(cfg.BootstrapAdminEmail); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin")
	}

	// National holiday feed, cached in-process for the configured TTL.
	feedClient := holidayfeed.NewClient(cfg.HolidayFeedURL)
	feedCache := holidayfeed.NewCache(feedClient.Fetch, nil, cfg.HolidayFeedTTL)

	// The single timesheet engine every caller goes through.
	service := timesheet.NewService(store.New(database.GetDB()), feedCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	monthHandler := handlers.NewMonthHandler(cfg, service)
	adminHandler := handlers.NewAdminHandler(cfg)
	progressHandler := handlers.NewProgressHandler(cfg, service)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/api/register", authHandler.Register)
	router.Post("/api/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/api/logout", authHandler.Logout)
		r.Get("/api/me", authHandler.Me)
		r.Post("/api/me/name", authHandler.SetDisplayName)

		// Timesheet routes require onboarding to be finished
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireDisplayName)

			r.Get("/api/month", monthHandler.MonthView)
			r.Post("/api/month/bulk", monthHandler.BulkSave)
			r.Get("/api/month/completion", monthHandler.Completion)
			r.Post("/api/holidays/personal", monthHandler.AddPersonalHoliday)
			r.Delete("/api/holidays/personal", monthHandler.RemovePersonalHoliday)
		})

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/api/admin/domains", adminHandler.ListDomains)
			r.Post("/api/admin/domains", adminHandler.AddDomain)
			r.Delete("/api/admin/domains", adminHandler.RemoveDomain)

			r.Get("/api/admin/admins", adminHandler.ListAdmins)
			r.Post("/api/admin/admins", adminHandler.AddAdmin)
			r.Delete("/api/admin/admins", adminHandler.RemoveAdmin)

			r.Get("/api/admin/users", adminHandler.ListUsers)
			r.Post("/api/admin/users", adminHandler.CreateUser)
			r.Put("/api/admin/users/{id}", adminHandler.UpdateUser)
			r.Delete("/api/admin/users/{id}", adminHandler.DeleteUser)

			r.Get("/api/admin/units", adminHandler.ListUnits)
			r.Post("/api/admin/units", adminHandler.CreateUnit)
			r.Put("/api/admin/units/{id}", adminHandler.UpdateUnit)
			r.Delete("/api/admin/units/{id}", adminHandler.DeleteUnit)

			r.Get("/api/admin/projects", adminHandler.ListProjects)
			r.Post("/api/admin/projects", adminHandler.CreateProject)
			r.Put("/api/admin/projects/{id}", adminHandler.UpdateProject)
			r.Delete("/api/admin/projects/{id}", adminHandler.DeleteProject)
			r.Post("/api/admin/projects/{id}/items", adminHandler.CreateWorkItem)
			r.Put("/api/admin/items/{id}", adminHandler.UpdateWorkItem)
			r.Delete("/api/admin/items/{id}", adminHandler.DeleteWorkItem)

			r.Get("/api/admin/holidays", adminHandler.ListCompanyHolidays)
			r.Post("/api/admin/holidays", adminHandler.AddCompanyHoliday)
			r.Delete("/api/admin/holidays", adminHandler.RemoveCompanyHoliday)

			r.Get("/api/admin/month", progressHandler.UserMonthView)
			r.Get("/api/admin/progress", progressHandler.Progress)
		})
	})

	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
