package main

import (
	"law_catalog_app_go/config"
	"law_catalog_app_go/db"
	"law_catalog_app_go/models"
	"law_catalog_app_go/services"
	"log"
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
		&models.OptionSet{},
		&models.OptionItem{},
		&models.OptionAuditLog{},
		&models.OptionVersion{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Seeding default option sets...")

	if err := services.SeedDefaultOptionSets(db.DB); err != nil {
		log.Fatalf("Failed to seed default option sets: %v", err)
	}

	sets, err := services.GetOptionSets(db.DB)
	if err != nil {
		log.Fatalf("Failed to list option sets: %v", err)
	}

	for _, set := range sets {
		items, err := services.ListOptionItems(db.DB, set.Key, services.OptionItemFilter{})
		if err != nil {
			log.Fatalf("Failed to list items for %s: %v", set.Key, err)
		}
		log.Printf("  %s (%s): %d items", set.Key, set.Label, len(items))
	}

	log.Println("Catalog seeding completed")
}
