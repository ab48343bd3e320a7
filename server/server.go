package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/sirupsen/logrus"

	"portsight/database"
	"portsight/pipeline"
)

// Start initializes the persistence layer and serves the scan API on
// the given address.
func Start(addr, dbPath, reportDir string) error {
	db, err := database.New(dbPath)
	if err != nil {
		logrus.Fatalf("couldn't create database: %v", err)
	}

	h := Handler{pl: pipeline.New(db, reportDir), db: db}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		AllowOrigins: []string{"http://localhost:5173"},
	}))

	app.Post("/scan", h.ScanHandler)
	app.Get("/scans", h.HistoryHandler)
	app.Post("/settings", h.SettingsHandler)
	app.Get("/settings", h.FetchSettingsHandler)

	return app.Listen(addr)
}
