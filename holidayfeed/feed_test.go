package holidayfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestCacheServesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	calls := 0
	fetch := func(ctx context.Context) (map[string]string, error) {
		calls++
		return map[string]string{"2024-02-23": "Emperor's Birthday"}, nil
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)
	ctx := context.Background()

	first := cache.Holidays(ctx)
	if first["2024-02-23"] == "" {
		t.Fatal("expected fetched holiday")
	}

	clock.Advance(11 * time.Hour)
	cache.Holidays(ctx)
	if calls != 1 {
		t.Fatalf("fetch called %d times within TTL, want 1", calls)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	calls := 0
	fetch := func(ctx context.Context) (map[string]string, error) {
		calls++
		return map[string]string{}, nil
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)
	ctx := context.Background()

	cache.Holidays(ctx)
	clock.Advance(13 * time.Hour)
	cache.Holidays(ctx)
	if calls != 2 {
		t.Fatalf("fetch called %d times across TTL expiry, want 2", calls)
	}
}

func TestCacheFallsBackToLastGoodOnFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	fail := false
	fetch := func(ctx context.Context) (map[string]string, error) {
		if fail {
			return nil, errors.New("feed down")
		}
		return map[string]string{"2024-02-23": "Emperor's Birthday"}, nil
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)
	ctx := context.Background()

	cache.Holidays(ctx)
	fail = true
	clock.Advance(13 * time.Hour)

	got := cache.Holidays(ctx)
	if got["2024-02-23"] == "" {
		t.Fatal("expected stale copy to be served on fetch failure")
	}
}

func TestCacheEmptyBeforeFirstSuccess(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	fetch := func(ctx context.Context) (map[string]string, error) {
		return nil, errors.New("feed down")
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)

	got := cache.Holidays(context.Background())
	if got == nil {
		t.Fatal("expected empty map, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestCacheRetriesAfterFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	calls := 0
	fetch := func(ctx context.Context) (map[string]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("feed down")
		}
		return map[string]string{"2024-02-23": "Emperor's Birthday"}, nil
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)
	ctx := context.Background()

	if got := cache.Holidays(ctx); len(got) != 0 {
		t.Fatalf("expected empty map after failed fetch, got %v", got)
	}
	// A failure does not start a TTL window; the next call fetches again.
	if got := cache.Holidays(ctx); got["2024-02-23"] == "" {
		t.Fatal("expected recovery on next call")
	}
}

func TestCacheServesStaleWhileRefreshing(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	fetch := func(ctx context.Context) (map[string]string, error) {
		calls++
		if calls == 1 {
			return map[string]string{"2024-02-23": "Emperor's Birthday"}, nil
		}
		close(started)
		<-release
		return map[string]string{"2024-02-23": "Emperor's Birthday", "2024-03-20": "Vernal Equinox"}, nil
	}
	cache := NewCache(fetch, clock.Now, 12*time.Hour)
	ctx := context.Background()

	cache.Holidays(ctx)
	clock.Advance(13 * time.Hour)

	refreshed := make(chan map[string]string)
	go func() {
		refreshed <- cache.Holidays(ctx)
	}()
	<-started

	// A second caller must not block behind the slow fetch; it gets the
	// stale mapping instead.
	stale := cache.Holidays(ctx)
	if stale["2024-03-20"] != "" {
		t.Fatal("expected stale mapping while a refresh is in flight")
	}
	if stale["2024-02-23"] == "" {
		t.Fatal("expected last good mapping while a refresh is in flight")
	}

	close(release)
	got := <-refreshed
	if got["2024-03-20"] == "" {
		t.Fatal("expected refreshed mapping from the fetching caller")
	}
	if after := cache.Holidays(ctx); after["2024-03-20"] == "" {
		t.Fatal("expected refreshed mapping to be cached")
	}
}

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"2024-02-23":"Emperor's Birthday"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got["2024-02-23"] != "Emperor's Birthday" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestClientFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
