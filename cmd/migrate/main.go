package main

import (
	"flag"
	"log"
	"os"

	"github.com/ideafund/ideafund-backend/internal/config"
	"github.com/ideafund/ideafund-backend/internal/database"
	"github.com/ideafund/ideafund-backend/internal/migration"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "seed an admin account with this email")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "password for the seeded admin")
	adminNickname := flag.String("admin-nickname", "admin", "nickname for the seeded admin")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if loaded := config.LoadDotEnv(); len(loaded) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database, *verbose)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema up to date (%d tables)", len(migration.Models()))

	if *adminEmail == "" {
		return
	}
	if len(*adminPassword) < 8 {
		log.Fatalf("admin password must be at least 8 characters")
	}
	created, err := migration.SeedAdmin(db, *adminEmail, *adminPassword, *adminNickname)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if created {
		log.Printf("Admin %s created", *adminEmail)
	} else {
		log.Printf("Admin %s already exists", *adminEmail)
	}
}
