// Migration runner.
// How to run:
// go run cmd/migrate/main.go       # Apply schema migrations and exit
package main

import (
	"log"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shiftworks/quickjob/internal/config"
	"github.com/shiftworks/quickjob/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// db.New runs AutoMigrate as part of opening the connection
	if _, err := db.New(db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSL:      cfg.Database.SSL,
		LogLevel: gormlogger.Info,
	}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
