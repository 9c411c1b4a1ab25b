package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

const dateLayout = "2006-01-02"

type eventsResponse struct {
	Events []eventRecord `json:"events"`
}

// HTTPFetcher fetches events from a JSON events API:
//
//	GET {baseURL}?date=YYYY-MM-DD
//	{"events": [{"event_type": "...", "starts_at": "...", "objects": [...], "details": {...}}]}
//
// Decoded days are cached for cacheTTL.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	cache   *gocache.Cache
}

func NewHTTPFetcher(baseURL string, timeout, cacheTTL time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, day time.Time) ([]astro.Event, error) {
	date := day.Format(dateLayout)
	key := date + "@" + day.Location().String()
	if cached, ok := f.cache.Get(key); ok {
		return cached.([]astro.Event), nil
	}

	query := url.Values{}
	query.Set("date", date)
	reqURL := fmt.Sprintf("%s?%s", f.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("events api: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events api: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events api: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("events api: failed to read response: %w", err)
	}

	var payload eventsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("events api: failed to parse JSON: %w", err)
	}

	events, err := decodeRecords(payload.Events, day)
	if err != nil {
		return nil, fmt.Errorf("events api: %w", err)
	}

	f.cache.SetDefault(key, events)
	return events, nil
}
