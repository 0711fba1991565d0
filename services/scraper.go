package services

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/models"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

// ScraperConfiguration contains all configurable parameters for the scraping service
type ScraperConfiguration struct {
	BaseURL             string
	RequestTimeout      time.Duration
	RateLimitDelay      time.Duration
	MaxRetryAttempts    int
	BackfillDelay       time.Duration
	MaxArchivedFailures int
}

// NewDefaultScraperConfiguration creates a configuration with sensible defaults
func NewDefaultScraperConfiguration(baseURL string) *ScraperConfiguration {
	if baseURL == "" {
		baseURL = "https://www.quini-6-resultados.com.ar"
	}
	return &ScraperConfiguration{
		BaseURL:             baseURL,
		RequestTimeout:      15 * time.Second,
		RateLimitDelay:      1 * time.Second,
		MaxRetryAttempts:    3,
		BackfillDelay:       3 * time.Second,
		MaxArchivedFailures: 10,
	}
}

// QuiniScrapingService fetches draw result pages and extracts the per-draw
// records out of the two markup shapes the site uses (current page and
// archived day pages).
type QuiniScrapingService struct {
	config     *ScraperConfiguration
	httpClient *http.Client
	pacer      *shared.FetchPacer
}

// NewQuiniScrapingService creates a scraping service with the given configuration
func NewQuiniScrapingService(config *ScraperConfiguration) *QuiniScrapingService {
	if config == nil {
		config = NewDefaultScraperConfiguration("")
	}
	return &QuiniScrapingService{
		config:     config,
		httpClient: shared.NewScraperHTTPClient(config.RequestTimeout),
		pacer:      shared.NewFetchPacer(config.RateLimitDelay),
	}
}

// Config exposes the active configuration
func (s *QuiniScrapingService) Config() *ScraperConfiguration {
	return s.config
}

// numbersPattern matches a drawn numbers string: two-digit groups separated
// by " - ", e.g. "03 - 11 - 24 - 29 - 37 - 42".
var numbersPattern = regexp.MustCompile(`^\d{2}( - \d{2})+$`)

// archiveLinkPattern captures day/month/year out of archive index link text
// like "Resultados del dia 07/09/2025".
var archiveLinkPattern = regexp.MustCompile(`del dia (\d{2})/(\d{2})/(\d{4})`)

// ExtractCurrent parses the current results page. Each draw sits in a table:
// a span.sorteo cell names the draw, and the following row holds the balls
// in td.nro cells.
func ExtractCurrent(doc *goquery.Document) []models.DrawRecord {
	var records []models.DrawRecord

	doc.Find("span.sorteo").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		if label == "" {
			return
		}

		var numbers []string
		s.Closest("tr").NextFiltered("tr").Find("td.nro").Each(func(_ int, cell *goquery.Selection) {
			value := strings.TrimSpace(cell.Text())
			if value != "" {
				numbers = append(numbers, value)
			}
		})
		if len(numbers) == 0 {
			return
		}

		records = append(records, models.DrawRecord{
			Sorteo:  label,
			Numeros: strings.Join(numbers, " - "),
		})
	})

	return records
}

// ExtractArchived parses an archived day page. Draw headings are
// h3.verdeyblanco elements and the numbers live in the next p.numeros
// sibling. Heading labels carry a "SORTEO " prefix and a couple of longer
// aliases which get normalized to the canonical draw names. Synthesized
// "POZO EXTRA" headings are skipped so re-ingesting an archived page never
// stores a derived draw as if it were scraped.
func ExtractArchived(doc *goquery.Document) []models.DrawRecord {
	var records []models.DrawRecord

	doc.Find("h3.verdeyblanco").Each(func(_ int, s *goquery.Selection) {
		label := normalizeArchivedLabel(s.Text())
		if label == "" {
			return
		}

		numbers := strings.TrimSpace(s.NextFiltered("p.numeros").Text())
		if !numbersPattern.MatchString(numbers) {
			return
		}

		records = append(records, models.DrawRecord{
			Sorteo:  label,
			Numeros: numbers,
		})
	})

	return records
}

// normalizeArchivedLabel cleans an archived page heading into a canonical
// draw name, returning "" for headings that should be skipped.
func normalizeArchivedLabel(raw string) string {
	label := strings.TrimSpace(raw)
	label = strings.TrimPrefix(label, "SORTEO ")
	label = strings.TrimSpace(label)

	if strings.Contains(label, PozoExtraLabel) {
		return ""
	}

	switch label {
	case "LA SEGUNDA DEL QUINI":
		return "LA SEGUNDA"
	case "QUINI QUE SIEMPRE SALE":
		return "SIEMPRE SALE"
	}
	return label
}

// ParseArchiveLinkDate extracts the draw date from archive index link text,
// returning it in ISO YYYY-MM-DD form. The second return value is false when
// the text does not contain a date.
func ParseArchiveLinkDate(text string) (string, bool) {
	m := archiveLinkPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[3] + "-" + m[2] + "-" + m[1], true
}

// FetchCurrentResults downloads the current results page and extracts its
// draw records.
func (s *QuiniScrapingService) FetchCurrentResults(ctx context.Context) ([]models.DrawRecord, error) {
	doc, err := s.fetchDocument(ctx, s.config.BaseURL+"/")
	if err != nil {
		return nil, err
	}

	records := ExtractCurrent(doc)
	if len(records) == 0 {
		return nil, shared.NewServiceError(
			shared.ErrorCategoryParse,
			"NO_RECORDS_EXTRACTED",
			"current results page contained no recognizable draw records",
			"QuiniScrapingService",
			"FetchCurrentResults",
			false,
			nil,
		)
	}

	logrus.WithField("record_count", len(records)).Info("Extracted current draw results")
	return records, nil
}

// fetchDocument performs a paced, retried GET and parses the body into a
// goquery document.
func (s *QuiniScrapingService) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	s.pacer.EnforceDelay()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_CREATION_FAILED", "QuiniScrapingService", "fetchDocument", false)
	}
	shared.SetBrowserHeaders(req)

	resp, err := shared.ExecuteWithRetry(s.httpClient, req, s.config.MaxRetryAttempts)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "PAGE_FETCH_FAILED", "QuiniScrapingService", "fetchDocument", true)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryParse, "HTML_PARSE_FAILED", "QuiniScrapingService", "fetchDocument", false)
	}
	return doc, nil
}
