package shared

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// NewScraperHTTPClient creates an HTTP client tuned for scraping the results
// site: bounded total timeout and a small connection pool, since every fetch
// goes to the same host.
func NewScraperHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
		},
	}
}

// SetBrowserHeaders sets headers that mimic a regular browser visit
func SetBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
}

// ExecuteWithRetry performs the request with exponential backoff. Only
// retryable failures (network errors, 5xx, 429) are attempted again.
func ExecuteWithRetry(client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// Client errors other than throttling will not improve on retry
				return nil, lastErr
			}
		}

		if attempt < maxAttempts {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			logrus.WithFields(logrus.Fields{
				"attempt":     attempt,
				"max_retries": maxAttempts,
				"backoff":     backoff,
				"url":         req.URL.String(),
				"error":       lastErr,
			}).Warn("Request failed, retrying after backoff")
			time.Sleep(backoff)
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}
