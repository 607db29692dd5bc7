package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vilaca/issues-dashboard/internal/domain"
)

// IssueClient defines the interface for remote issue-listing clients.
// This follows Interface Segregation Principle - small, focused interface.
// Allows dependency inversion - consumers depend on this interface, not concrete implementations.
type IssueClient interface {
	// FetchIssues returns every issue and pull request for a repository,
	// paginating until the remote returns a short page. openOnly selects
	// the state filter (open vs all).
	FetchIssues(ctx context.Context, repo domain.RepoIdentifier, openOnly bool) ([]domain.Issue, error)

	// SetToken replaces the bearer token used for subsequent fetches.
	SetToken(token string)
}

// HTTPClient interface for HTTP operations (allows mocking in tests).
// Follows Interface Segregation Principle.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}

// AuthFailureHook is invoked when the remote API rejects the configured
// credentials (HTTP 401/403). The UI collaborator subscribes to prompt for
// a token; the core never touches presentation directly.
type AuthFailureHook func(status int)

// HTTPError is the typed failure raised by clients for non-2xx responses.
// The fetcher is the only component permitted to raise; layers above it
// convert errors into data.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}

// IsAuthFailure reports whether the error indicates missing or insufficient
// credentials (including rate limiting, which GitHub reports as 403).
func (e *HTTPError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
