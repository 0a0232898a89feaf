package api

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// RequestsPerSecond is the sustained outgoing request rate
	RequestsPerSecond = 10
	// RequestBurst is the number of requests allowed above the sustained rate
	RequestBurst = 20
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	HTTPClient HTTPClient
	Limiter    *rate.Limiter
	Semaphore  chan struct{} // Limits concurrent requests
}

// NewBaseClient creates a new base client with rate limiting.
func NewBaseClient(httpClient HTTPClient) *BaseClient {
	return &BaseClient{
		HTTPClient: httpClient,
		Limiter:    rate.NewLimiter(RequestsPerSecond, RequestBurst),
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
	}
}

// Do sends req once the rate limiter and the semaphore allow it and returns
// the status code with the full body. Only transport failures are errors.
func (c *BaseClient) Do(ctx context.Context, req *http.Request) (int, []byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	select {
	case c.Semaphore <- struct{}{}:
		defer func() { <-c.Semaphore }()
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}

	resp, err := c.HTTPClient.Do(req.WithContext(ctx))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
