package domain

import "time"

// RepoResult is the aggregated outcome of fetching one repository's issues
// and pull requests. Failures are data: a failed fetch produces a RepoResult
// with Success=false rather than an error.
type RepoResult struct {
	Repository   string    `json:"repository"`
	Issues       []Issue   `json:"issues"`
	PullRequests []Issue   `json:"pull_requests"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	FromCache    bool      `json:"from_cache,omitempty"`
}

// CacheStatus describes one cache entry as seen by Enumerate.
// Computed freshly on each call; never mutates the store.
type CacheStatus struct {
	Repository   string        `json:"repository"`
	StateFilter  string        `json:"state_filter"` // "open" or "all"
	Age          time.Duration `json:"age"`
	RemainingTTL time.Duration `json:"remaining_ttl"`
	Expired      bool          `json:"expired"`
}
