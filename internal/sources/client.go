package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"narrative-tracker/internal/errors"
	"narrative-tracker/pkg/utils"
)

const defaultUserAgent = "narrative-tracker/0.1"

// httpClient wraps net/http with retry, pacing and JSON decoding shared by
// all source adapters.
type httpClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	retry     utils.RetryConfig
	userAgent string
}

// newHTTPClient builds an adapter client. requestsPerSecond paces calls to
// the platform; zero disables pacing.
func newHTTPClient(timeout time.Duration, requestsPerSecond float64) *httpClient {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &httpClient{
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
		retry:     utils.DefaultRetryConfig(),
		userAgent: defaultUserAgent,
	}
}

// getJSON fetches url and decodes the response body into target.
// A 429 maps to ErrRateLimited so adapters can skip instead of retrying.
func (c *httpClient) getJSON(ctx context.Context, url string, target interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrConnectionFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errors.ErrRateLimited
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(body, target)
}
