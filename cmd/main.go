package main

import (
	"context"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shiftworks/quickjob/internal/app"
	"github.com/shiftworks/quickjob/internal/config"
	"github.com/shiftworks/quickjob/internal/db"
	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/events"
	"github.com/shiftworks/quickjob/internal/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger.Initialize()

	cfg, err := config.New()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	models.SetDefaultStatus(cfg.Workflow.StatusDefault)

	database, err := db.New(db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSL:      cfg.Database.SSL,
		LogLevel: gormlogger.Warn,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	fiberApp := app.New(cfg, database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events.Start(ctx)

	logger.Infof("Listening on %s", cfg.Service.Address)
	if err := fiberApp.Listen(cfg.Service.Address); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
