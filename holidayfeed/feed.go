// Package holidayfeed fetches the public national-holiday feed and
// caches it in-process. The feed is best effort: holiday resolution must
// never fail a request because the feed is down, so a fetch failure
// degrades to the last known-good mapping.
package holidayfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a successful fetch is served without hitting
// the network again.
const DefaultTTL = 12 * time.Hour

// FetchFunc returns the feed's date -> holiday-name mapping.
type FetchFunc func(ctx context.Context) (map[string]string, error)

// Client fetches the feed over HTTP. The endpoint returns a JSON object
// keyed by YYYY-MM-DD; it requires no authentication and is treated as
// unreliable.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}
	var holidays map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

// Cache wraps a fetcher with a single process-wide TTL window. The clock
// is injected so the window is testable without real time.
type Cache struct {
	fetch FetchFunc
	now   func() time.Time
	ttl   time.Duration

	mu         sync.Mutex
	data       map[string]string
	fetchedAt  time.Time
	refreshing bool
}

func NewCache(fetch FetchFunc, now func() time.Time, ttl time.Duration) *Cache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{fetch: fetch, now: now, ttl: ttl}
}

// Holidays returns the feed mapping, fetching at most once per TTL
// window. On fetch failure it returns the last successful mapping, or an
// empty map if no fetch has ever succeeded. It never returns an error.
//
// The lock is never held across the network fetch: while one caller
// refreshes, everyone else keeps getting the stale mapping.
func (c *Cache) Holidays(ctx context.Context) map[string]string {
	c.mu.Lock()
	cached := c.data
	if cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return cached
	}
	if c.refreshing {
		c.mu.Unlock()
		if cached != nil {
			return cached
		}
		return map[string]string{}
	}
	c.refreshing = true
	c.mu.Unlock()

	fresh, err := c.fetch(ctx)

	c.mu.Lock()
	c.refreshing = false
	if err != nil {
		cached = c.data
		c.mu.Unlock()
		log.Warn().Err(err).Msg("holiday feed fetch failed, serving cached copy")
		if cached != nil {
			return cached
		}
		return map[string]string{}
	}
	c.data = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return fresh
}
