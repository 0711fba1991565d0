package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/services"
)

// ScheduledScrapeJob periodically refreshes the store with the current draw
// results. The ticker lives in main; Run executes one pass.
type ScheduledScrapeJob struct {
	ingest *services.IngestionService
}

// NewScheduledScrapeJob creates the scheduled scrape job
func NewScheduledScrapeJob(ingest *services.IngestionService) *ScheduledScrapeJob {
	return &ScheduledScrapeJob{ingest: ingest}
}

// Run executes one ingestion pass with a bounded timeout and logs a summary
func (j *ScheduledScrapeJob) Run() {
	start := time.Now()
	logrus.Info("Starting scheduled draw results update")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, inserted, err := j.ingest.IngestCurrent(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":    err,
			"duration": time.Since(start),
		}).Error("Scheduled draw results update failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"records_extracted": len(records),
		"rows_inserted":     inserted,
		"duration":          time.Since(start),
	}).Info("Scheduled draw results update completed")
	j.ingest.Metrics().LogSummary()
}
