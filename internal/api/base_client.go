package api

import "context"

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// DefaultPageSize is the number of items requested per page
	DefaultPageSize = 100
)

// BaseClient contains common fields and functionality for all API clients.
// Follows DRY principle by extracting shared code.
type BaseClient struct {
	BaseURL    string
	HTTPClient HTTPClient
	Semaphore  chan struct{} // Limits concurrent requests
}

// NewBaseClient creates a new base client with rate limiting.
func NewBaseClient(baseURL string, httpClient HTTPClient) *BaseClient {
	return &BaseClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
	}
}

// Acquire claims a slot in the request semaphore, or fails when the context
// is cancelled first. Callers must call the returned release function.
func (c *BaseClient) Acquire(ctx context.Context) (func(), error) {
	select {
	case c.Semaphore <- struct{}{}:
		return func() { <-c.Semaphore }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
