package services

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/models"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

// archiveLink pairs an archived page URL with the draw date taken from its
// link text
type archiveLink struct {
	url   string
	fecha string
}

// IngestionService runs the two ingestion paths: the scheduled refresh of the
// current results and the on-demand historical backfill.
type IngestionService struct {
	source  DataSource
	scraper *QuiniScrapingService
	draws   *DrawService
	metrics *shared.ScrapeMetrics

	backfillRunning atomic.Bool
}

// NewIngestionService creates an ingestion service
func NewIngestionService(source DataSource, scraper *QuiniScrapingService, draws *DrawService, metrics *shared.ScrapeMetrics) *IngestionService {
	return &IngestionService{
		source:  source,
		scraper: scraper,
		draws:   draws,
		metrics: metrics,
	}
}

// Metrics exposes the pipeline counters
func (s *IngestionService) Metrics() *shared.ScrapeMetrics {
	return s.metrics
}

// IngestCurrent refreshes the store with the latest draw records from the
// configured data source. Returns the extracted records and how many rows
// were newly written.
func (s *IngestionService) IngestCurrent(ctx context.Context) ([]models.DrawRecord, int64, error) {
	start := time.Now()

	records, fecha, err := s.source.RefreshCurrent(ctx)
	if err != nil {
		s.metrics.RecordFetch(false)
		return nil, 0, err
	}
	s.metrics.RecordFetch(true)
	s.metrics.RecordExtraction(len(records))

	var inserted int64
	for _, record := range records {
		wrote, err := s.draws.InsertIgnoring(ctx, fecha, record.Sorteo, record.Numeros)
		if err != nil {
			return nil, inserted, err
		}
		if wrote {
			inserted++
		}
	}
	s.metrics.RecordInserts(inserted)
	s.metrics.RecordRun(time.Since(start))

	logrus.WithFields(logrus.Fields{
		"fecha":         fecha,
		"records":       len(records),
		"rows_inserted": inserted,
		"duration":      time.Since(start),
	}).Info("Current results ingestion completed")
	return records, inserted, nil
}

// BackfillHistorical crawls the archive index and ingests every linked day
// page. Only one backfill runs at a time; a concurrent trigger is rejected.
// Individual page failures are logged and skipped so one broken page never
// aborts the run.
func (s *IngestionService) BackfillHistorical(ctx context.Context) (int64, error) {
	if !s.backfillRunning.CompareAndSwap(false, true) {
		return 0, shared.NewServiceError(
			shared.ErrorCategoryResource,
			"BACKFILL_IN_PROGRESS",
			"a historical backfill is already running",
			"IngestionService",
			"BackfillHistorical",
			false,
			nil,
		)
	}
	defer s.backfillRunning.Store(false)

	runID := uuid.New().String()
	log := logrus.WithField("backfill_run_id", runID)
	start := time.Now()

	links, err := s.collectArchiveLinks(ctx, log)
	if err != nil {
		return 0, err
	}
	log.WithField("link_count", len(links)).Info("Archive index crawled")

	// One collector for the whole run so the LimitRule delay paces every
	// consecutive page fetch.
	pages := newArchivePageFetcher(s.newCollector(ctx))

	var totalInserted int64
	for _, link := range links {
		inserted, err := s.ingestArchivedPage(ctx, pages, link)
		if err != nil {
			s.metrics.RecordFetch(false)
			log.WithFields(logrus.Fields{
				"url":   link.url,
				"fecha": link.fecha,
				"error": err,
			}).Warn("Skipping archived page after failure")
			continue
		}
		totalInserted += inserted
	}

	s.metrics.RecordInserts(totalInserted)
	s.metrics.RecordRun(time.Since(start))
	log.WithFields(logrus.Fields{
		"pages":         len(links),
		"rows_inserted": totalInserted,
		"duration":      time.Since(start),
	}).Info("Historical backfill completed")
	return totalInserted, nil
}

// newCollector builds a colly collector with browser-like headers and the
// configured inter-request delay.
func (s *IngestionService) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(s.scraper.Config().RequestTimeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      s.scraper.Config().BackfillDelay,
	}); err != nil {
		logrus.WithError(err).Warn("Failed to apply crawl pacing rule, continuing unpaced")
	}
	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")
	})
	return c
}

// collectArchiveLinks crawls the index page and returns the archived day
// links in listing order.
func (s *IngestionService) collectArchiveLinks(ctx context.Context, log *logrus.Entry) ([]archiveLink, error) {
	var links []archiveLink

	c := s.newCollector(ctx)
	c.OnHTML("ul.links.list-unstyled li a", func(e *colly.HTMLElement) {
		fecha, ok := ParseArchiveLinkDate(strings.TrimSpace(e.Text))
		if !ok {
			return
		}
		links = append(links, archiveLink{
			url:   e.Request.AbsoluteURL(e.Attr("href")),
			fecha: fecha,
		})
	})

	if err := c.Visit(s.scraper.Config().BaseURL + "/"); err != nil {
		s.metrics.RecordFetch(false)
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "INDEX_FETCH_FAILED", "IngestionService", "collectArchiveLinks", true)
	}
	c.Wait()
	s.metrics.RecordFetch(true)

	if len(links) == 0 {
		log.Warn("Archive index contained no recognizable draw links")
	}
	return links, nil
}

// archivePageFetcher reuses one synchronous collector across the archived
// page visits of a backfill run
type archivePageFetcher struct {
	collector *colly.Collector
	records   []models.DrawRecord
	parseErr  error
}

func newArchivePageFetcher(c *colly.Collector) *archivePageFetcher {
	f := &archivePageFetcher{collector: c}
	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			f.parseErr = shared.WrapError(err, shared.ErrorCategoryParse, "HTML_PARSE_FAILED", "IngestionService", "ingestArchivedPage", false)
			return
		}
		f.records = ExtractArchived(doc)
	})
	return f
}

// fetch visits one archived page and returns its extracted records. Visits
// are sequential, so reusing the result fields between calls is safe.
func (f *archivePageFetcher) fetch(url string) ([]models.DrawRecord, error) {
	f.records = nil
	f.parseErr = nil

	if err := f.collector.Visit(url); err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "PAGE_FETCH_FAILED", "IngestionService", "ingestArchivedPage", true)
	}
	f.collector.Wait()
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.records, nil
}

// ingestArchivedPage fetches one archived day page and stores its records
func (s *IngestionService) ingestArchivedPage(ctx context.Context, pages *archivePageFetcher, link archiveLink) (int64, error) {
	records, err := pages.fetch(link.url)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordFetch(true)
	s.metrics.RecordExtraction(len(records))

	if len(records) == 0 {
		logrus.WithFields(logrus.Fields{
			"url":   link.url,
			"fecha": link.fecha,
		}).Warn("Archived page yielded no draw records")
		return 0, nil
	}

	var inserted int64
	for _, record := range records {
		wrote, err := s.draws.InsertIgnoring(ctx, link.fecha, record.Sorteo, record.Numeros)
		if err != nil {
			return inserted, err
		}
		if wrote {
			inserted++
		}
	}
	return inserted, nil
}
