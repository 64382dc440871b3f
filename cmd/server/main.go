package main

import (
	"law_catalog_app_go/config"
	"law_catalog_app_go/db"
	"law_catalog_app_go/handlers"
	"law_catalog_app_go/middleware"
	"law_catalog_app_go/models"
	"law_catalog_app_go/services"
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.OptionSet{},
		&models.OptionItem{},
		&models.OptionAuditLog{},
		&models.OptionVersion{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the default catalogs (no-op when already present)
	if cfg.SeedDefaultCatalogs {
		if err := services.SeedDefaultOptionSets(db.DB); err != nil {
			log.Fatalf("Failed to seed default option sets: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.POST("/login", handlers.LoginHandler)
	e.POST("/logout", handlers.LogoutHandler)

	// Abbreviation helpers are used by forms before anything is persisted
	e.GET("/api/abbreviations/suggest", handlers.SuggestAbbreviationsHandler, middleware.OptionalAuth())
	e.POST("/api/abbreviations/validate", handlers.ValidateAbbreviationHandler, middleware.OptionalAuth())

	// Protected routes (authenticated users)
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/me", handlers.GetCurrentUserHandler)

		protected.GET("/option-sets", handlers.GetOptionSetsHandler)
		protected.GET("/option-sets/:key", handlers.GetOptionSetHandler)
		protected.GET("/option-sets/:key/items", handlers.GetOptionItemsHandler)
		protected.GET("/option-sets/:key/export.xlsx", handlers.ExportOptionSetExcelHandler)
		protected.GET("/option-sets/:key/export.csv", handlers.ExportOptionSetCSVHandler)
		protected.GET("/option-sets/:key/audit-logs", handlers.GetOptionSetAuditLogsHandler)
		protected.GET("/option-items/:id/history", handlers.GetOptionItemHistoryHandler)
		protected.GET("/option-sets/:key/versions", handlers.GetOptionVersionsHandler)

		// Catalog mutations are admin-only
		adminRoutes := protected.Group("")
		adminRoutes.Use(middleware.RequireRole("admin"))
		{
			adminRoutes.POST("/option-sets/:key/items", handlers.CreateOptionItemHandler)
			adminRoutes.PUT("/option-sets/:key/items/reorder", handlers.ReorderOptionItemsHandler)
			adminRoutes.PUT("/option-sets/:key/items/:id", handlers.UpdateOptionItemHandler)
			adminRoutes.DELETE("/option-sets/:key/items/:id", handlers.DeleteOptionItemHandler)
			adminRoutes.POST("/option-sets/:key/items/:id/restore", handlers.RestoreOptionItemHandler)
			adminRoutes.PUT("/option-sets/:key/items/:id/active", handlers.ToggleOptionItemHandler)
			adminRoutes.POST("/option-sets/:key/versions", handlers.SnapshotOptionSetHandler)
			adminRoutes.POST("/option-sets/:key/versions/:version/restore", handlers.RestoreOptionVersionHandler)
		}
	}

	// Start server
	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
