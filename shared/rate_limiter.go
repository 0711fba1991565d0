package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FetchPacer enforces a minimum delay between consecutive requests to the
// results site so sequential page fetches stay polite.
type FetchPacer struct {
	mutex           sync.Mutex
	lastRequestTime time.Time
	minimumDelay    time.Duration
}

// NewFetchPacer creates a pacer with the specified minimum delay between requests
func NewFetchPacer(minimumDelay time.Duration) *FetchPacer {
	return &FetchPacer{
		minimumDelay: minimumDelay,
	}
}

// EnforceDelay blocks until the minimum delay since the previous request has
// elapsed, then records the current request time.
func (p *FetchPacer) EnforceDelay() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	elapsed := time.Since(p.lastRequestTime)
	if elapsed < p.minimumDelay {
		waitTime := p.minimumDelay - elapsed
		logrus.WithFields(logrus.Fields{
			"wait_duration": waitTime,
			"minimum_delay": p.minimumDelay,
		}).Debug("Pacing fetch before next request")
		time.Sleep(waitTime)
	}

	p.lastRequestTime = time.Now()
}

// UpdateDelay changes the minimum delay between requests
func (p *FetchPacer) UpdateDelay(newDelay time.Duration) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.minimumDelay = newDelay
}
