package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/geocoder89/placeshare/internal/domain/place"
	"github.com/geocoder89/placeshare/internal/observability"
)

// ErrZeroResults means the provider answered but could not resolve the
// address. Handlers map it to a 404.
var ErrZeroResults = errors.New("no location for address")

type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxAttempts int
	prom        *observability.Prom
}

func New(baseURL, apiKey string, prom *observability.Prom) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxAttempts: 3,
		prom:        prom,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location place.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve turns a human-readable address into coordinates. Transport and
// provider 5xx failures are retried with capped backoff; a clean
// zero-results answer is not retried.
func (c *Client) Resolve(ctx context.Context, address string) (place.Location, error) {
	start := time.Now()

	loc, err := c.resolveWithRetry(ctx, address)

	outcome := "ok"

	if errors.Is(err, ErrZeroResults) {
		outcome = "zero_results"
	} else if err != nil {
		outcome = "error"
	}

	if c.prom != nil {
		c.prom.ObserveGeocode(outcome, time.Since(start))
	}

	return loc, err
}

func (c *Client) resolveWithRetry(ctx context.Context, address string) (place.Location, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return place.Location{}, ctx.Err()
			case <-time.After(retryBackoff(attempt - 1)):
			}
		}

		loc, retryable, err := c.resolveOnce(ctx, address)

		if err == nil {
			return loc, nil
		}

		if !retryable {
			return place.Location{}, err
		}

		lastErr = err
	}

	return place.Location{}, lastErr
}

func (c *Client) resolveOnce(ctx context.Context, address string) (loc place.Location, retryable bool, err error) {
	q := url.Values{}
	q.Set("address", address)

	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)

	if err != nil {
		return place.Location{}, false, err
	}

	resp, err := c.httpClient.Do(req)

	if err != nil {
		// transport error, worth another attempt
		return place.Location{}, true, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return place.Location{}, true, fmt.Errorf("geocoding provider returned %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return place.Location{}, false, fmt.Errorf("geocoding provider returned %d", resp.StatusCode)
	}

	var body geocodeResponse

	err = json.NewDecoder(resp.Body).Decode(&body)

	if err != nil {
		return place.Location{}, false, ErrZeroResults
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return place.Location{}, false, ErrZeroResults
	}

	return body.Results[0].Geometry.Location, false, nil
}

func retryBackoff(attempt int) time.Duration {
	base := 200 * time.Millisecond

	delay := base << attempt

	capDelay := 2 * time.Second

	if delay > capDelay {
		delay = capDelay
	}

	return delay
}
