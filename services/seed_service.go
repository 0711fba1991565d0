package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/config"
	"github.com/Federico-Chandia/Scrapper-quini6/models"
)

// DataSource supplies the current day's draw records. Implementations are the
// live scraper and the fixed seed dataset, selected by configuration.
type DataSource interface {
	// RefreshCurrent returns the latest draw records and the date they
	// pertain to (YYYY-MM-DD).
	RefreshCurrent(ctx context.Context) ([]models.DrawRecord, string, error)
}

// ScrapeDataSource backs the pipeline with the live results site
type ScrapeDataSource struct {
	scraper *QuiniScrapingService
}

// NewScrapeDataSource creates a data source that scrapes the live page
func NewScrapeDataSource(scraper *QuiniScrapingService) *ScrapeDataSource {
	return &ScrapeDataSource{scraper: scraper}
}

// RefreshCurrent scrapes the current results page. The records are dated with
// today's date, matching how the site presents them.
func (d *ScrapeDataSource) RefreshCurrent(ctx context.Context) ([]models.DrawRecord, string, error) {
	records, err := d.scraper.FetchCurrentResults(ctx)
	if err != nil {
		return nil, "", err
	}
	return records, time.Now().Format("2006-01-02"), nil
}

// seedRow is one entry of the fixed dataset
type seedRow struct {
	fecha   string
	sorteo  string
	numeros string
}

// seedDataset holds ten real draw days from August/September 2025, used when
// the service runs detached from the live site.
var seedDataset = []seedRow{
	{"2025-09-07", "TRADICIONAL", "05 - 18 - 19 - 28 - 39 - 40"},
	{"2025-09-07", "LA SEGUNDA", "17 - 18 - 19 - 24 - 25 - 43"},
	{"2025-09-07", "REVANCHA", "00 - 09 - 11 - 38 - 40 - 42"},
	{"2025-09-07", "SIEMPRE SALE", "03 - 04 - 20 - 27 - 31 - 41"},
	{"2025-09-03", "TRADICIONAL", "20 - 24 - 29 - 33 - 39 - 43"},
	{"2025-09-03", "LA SEGUNDA", "06 - 16 - 25 - 39 - 42 - 44"},
	{"2025-09-03", "REVANCHA", "00 - 01 - 30 - 35 - 39 - 42"},
	{"2025-09-03", "SIEMPRE SALE", "13 - 29 - 35 - 36 - 37 - 43"},
	{"2025-08-31", "TRADICIONAL", "21 - 22 - 26 - 28 - 30 - 36"},
	{"2025-08-31", "LA SEGUNDA", "00 - 12 - 18 - 30 - 35 - 42"},
	{"2025-08-31", "REVANCHA", "08 - 09 - 14 - 18 - 31 - 34"},
	{"2025-08-31", "SIEMPRE SALE", "01 - 03 - 20 - 28 - 29 - 40"},
	{"2025-08-27", "TRADICIONAL", "08 - 10 - 11 - 17 - 38 - 45"},
	{"2025-08-27", "LA SEGUNDA", "00 - 01 - 11 - 15 - 19 - 35"},
	{"2025-08-27", "REVANCHA", "23 - 24 - 32 - 33 - 44 - 45"},
	{"2025-08-27", "SIEMPRE SALE", "02 - 05 - 06 - 07 - 16 - 33"},
	{"2025-08-24", "TRADICIONAL", "04 - 05 - 08 - 09 - 12 - 44"},
	{"2025-08-24", "LA SEGUNDA", "06 - 07 - 09 - 22 - 25 - 34"},
	{"2025-08-24", "REVANCHA", "14 - 15 - 20 - 26 - 41 - 44"},
	{"2025-08-24", "SIEMPRE SALE", "26 - 30 - 33 - 35 - 40 - 44"},
	{"2025-08-20", "TRADICIONAL", "05 - 14 - 16 - 18 - 32 - 42"},
	{"2025-08-20", "LA SEGUNDA", "08 - 23 - 24 - 38 - 39 - 44"},
	{"2025-08-20", "REVANCHA", "10 - 16 - 23 - 34 - 38 - 44"},
	{"2025-08-20", "SIEMPRE SALE", "27 - 30 - 33 - 34 - 42 - 44"},
	{"2025-08-17", "TRADICIONAL", "02 - 06 - 07 - 30 - 40 - 43"},
	{"2025-08-17", "LA SEGUNDA", "25 - 26 - 28 - 33 - 34 - 35"},
	{"2025-08-17", "REVANCHA", "25 - 26 - 28 - 33 - 34 - 35"},
	{"2025-08-17", "SIEMPRE SALE", "05 - 10 - 11 - 17 - 24 - 34"},
	{"2025-08-13", "TRADICIONAL", "16 - 18 - 20 - 22 - 28 - 31"},
	{"2025-08-13", "LA SEGUNDA", "01 - 02 - 17 - 23 - 33 - 43"},
	{"2025-08-13", "REVANCHA", "03 - 11 - 12 - 29 - 39 - 40"},
	{"2025-08-13", "SIEMPRE SALE", "08 - 09 - 12 - 17 - 35 - 36"},
	{"2025-08-10", "TRADICIONAL", "01 - 02 - 09 - 32 - 36 - 44"},
	{"2025-08-10", "LA SEGUNDA", "06 - 15 - 19 - 22 - 32 - 39"},
	{"2025-08-10", "REVANCHA", "08 - 17 - 24 - 31 - 43 - 44"},
	{"2025-08-10", "SIEMPRE SALE", "07 - 09 - 13 - 23 - 32 - 35"},
	{"2025-08-06", "TRADICIONAL", "00 - 18 - 26 - 29 - 32 - 42"},
	{"2025-08-06", "LA SEGUNDA", "07 - 22 - 25 - 27 - 38 - 45"},
	{"2025-08-06", "REVANCHA", "16 - 24 - 33 - 34 - 40 - 44"},
	{"2025-08-06", "SIEMPRE SALE", "04 - 11 - 27 - 32 - 41 - 45"},
}

// StaticDataSource serves the newest day of the fixed dataset
type StaticDataSource struct{}

// NewStaticDataSource creates a data source backed by the fixed dataset
func NewStaticDataSource() *StaticDataSource {
	return &StaticDataSource{}
}

// RefreshCurrent returns the records of the newest seeded date
func (d *StaticDataSource) RefreshCurrent(ctx context.Context) ([]models.DrawRecord, string, error) {
	fecha := seedDataset[0].fecha
	var records []models.DrawRecord
	for _, row := range seedDataset {
		if row.fecha == fecha {
			records = append(records, models.DrawRecord{Sorteo: row.sorteo, Numeros: row.numeros})
		}
	}
	return records, fecha, nil
}

// NewDataSource selects the data source strategy from configuration
func NewDataSource(cfg *config.Config, scraper *QuiniScrapingService) DataSource {
	if cfg.DataSource == "seed" {
		logrus.Info("Using static seed dataset as data source")
		return NewStaticDataSource()
	}
	return NewScrapeDataSource(scraper)
}

// SeedService reloads the store from the fixed dataset
type SeedService struct {
	draws *DrawService
}

// NewSeedService creates a seed service
func NewSeedService(draws *DrawService) *SeedService {
	return &SeedService{draws: draws}
}

// Reseed wipes the store and inserts the full fixed dataset
func (s *SeedService) Reseed(ctx context.Context) error {
	if err := s.draws.ResetAll(ctx); err != nil {
		return err
	}

	inserted := 0
	for _, row := range seedDataset {
		wrote, err := s.draws.InsertIgnoring(ctx, row.fecha, row.sorteo, row.numeros)
		if err != nil {
			return err
		}
		if wrote {
			inserted++
		}
	}

	logrus.WithFields(logrus.Fields{
		"rows_inserted": inserted,
		"dataset_size":  len(seedDataset),
	}).Info("Seed dataset loaded")
	return nil
}
