package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ScrapeMetrics tracks counters for the ingestion pipeline. Safe for
// concurrent use between the scheduled job and on-demand backfill.
type ScrapeMetrics struct {
	mutex            sync.Mutex
	PagesFetched     int64
	FetchFailures    int64
	RecordsExtracted int64
	RowsInserted     int64
	LastRunTime      time.Time
	LastRunDuration  time.Duration
}

// NewScrapeMetrics creates a fresh metrics tracker
func NewScrapeMetrics() *ScrapeMetrics {
	return &ScrapeMetrics{}
}

// RecordFetch records a page fetch attempt and its outcome
func (m *ScrapeMetrics) RecordFetch(success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if success {
		m.PagesFetched++
	} else {
		m.FetchFailures++
	}
}

// RecordExtraction adds the number of records parsed out of a page
func (m *ScrapeMetrics) RecordExtraction(count int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.RecordsExtracted += int64(count)
}

// RecordInserts adds the number of rows actually written to the store
func (m *ScrapeMetrics) RecordInserts(count int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.RowsInserted += count
}

// RecordRun notes when a pipeline run finished and how long it took
func (m *ScrapeMetrics) RecordRun(duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.LastRunTime = time.Now()
	m.LastRunDuration = duration
}

// Snapshot returns the current counters as structured log fields
func (m *ScrapeMetrics) Snapshot() logrus.Fields {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return logrus.Fields{
		"pages_fetched":     m.PagesFetched,
		"fetch_failures":    m.FetchFailures,
		"records_extracted": m.RecordsExtracted,
		"rows_inserted":     m.RowsInserted,
		"last_run_time":     m.LastRunTime,
		"last_run_duration": m.LastRunDuration,
	}
}

// LogSummary emits the current counters at info level
func (m *ScrapeMetrics) LogSummary() {
	logrus.WithFields(m.Snapshot()).Info("Scrape pipeline metrics summary")
}
