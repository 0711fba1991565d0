package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/config"
	"github.com/Federico-Chandia/Scrapper-quini6/database"
	"github.com/Federico-Chandia/Scrapper-quini6/handlers"
	"github.com/Federico-Chandia/Scrapper-quini6/jobs"
	"github.com/Federico-Chandia/Scrapper-quini6/services"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	logrus.SetLevel(cfg.GetLogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to database and run migrations
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db, "database/schema.sql"); err != nil {
		logrus.Fatal("Failed to migrate database: ", err)
	}

	// Initialize services
	scraperConfig := services.NewDefaultScraperConfiguration(cfg.ScraperBaseURL)
	scraperConfig.BackfillDelay = cfg.GetBackfillDelay()
	scraper := services.NewQuiniScrapingService(scraperConfig)

	synth := services.NewPozoExtraSynthesizer(cfg.GetPozoMaxNumber())
	drawService := services.NewDrawService(db, synth)
	dataSource := services.NewDataSource(cfg, scraper)
	ingestService := services.NewIngestionService(dataSource, scraper, drawService, shared.NewScrapeMetrics())

	// The seed data source implies a full reload of the fixed dataset
	if cfg.DataSource == "seed" {
		seedService := services.NewSeedService(drawService)
		if err := seedService.Reseed(context.Background()); err != nil {
			logrus.Fatal("Failed to load seed dataset: ", err)
		}
	}

	// Start the scheduled scrape in the background
	scrapeJob := jobs.NewScheduledScrapeJob(ingestService)
	go func() {
		// Run once on startup, then on the configured cadence
		scrapeJob.Run()

		ticker := time.NewTicker(cfg.GetScrapeInterval())
		defer ticker.Stop()
		for range ticker.C {
			scrapeJob.Run()
		}
	}()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Quini 6 Results API",
	})

	app.Use(logger.New())
	app.Use(cors.New())

	// Routes
	sorteosHandler := handlers.NewSorteosHandler(drawService, ingestService, db)
	app.Get("/", sorteosHandler.Index)
	app.Get("/sorteos", sorteosHandler.GetSorteos)
	app.Get("/todoslossorteos", sorteosHandler.GetTodosLosSorteos)
	app.Get("/sorteo/:nro", sorteosHandler.GetSorteoByNumero)
	app.Get("/cargarhistoricos", sorteosHandler.CargarHistoricos)
	app.Get("/health", sorteosHandler.HealthCheck)

	// Orderly shutdown: stop accepting requests, then the deferred Close
	// releases the store handle
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logrus.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	logrus.WithField("port", cfg.ServerPort).Info("Starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatal("Server failed to start: ", err)
	}
}
