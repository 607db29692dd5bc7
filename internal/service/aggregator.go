package service

import (
	"context"
	"sync"
	"time"

	"github.com/vilaca/issues-dashboard/internal/api"
	"github.com/vilaca/issues-dashboard/internal/classify"
	"github.com/vilaca/issues-dashboard/internal/domain"
)

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// Cache abstracts the persistent result cache (Dependency Inversion Principle).
type Cache interface {
	Get(repo string, openOnly bool) (domain.RepoResult, time.Time, bool)
	Put(repo string, openOnly bool, result domain.RepoResult)
}

// Aggregator orchestrates fetch, classification and caching per repository.
// Follows Single Responsibility Principle - orchestrates, delegates the rest.
type Aggregator struct {
	client api.IssueClient
	cache  Cache
	logger Logger
}

// NewAggregator creates a new aggregator with injected dependencies (IoC).
func NewAggregator(client api.IssueClient, cache Cache, logger Logger) *Aggregator {
	return &Aggregator{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// FetchRepositoryData returns classified issues and pull requests for one
// repository: cache hit when fresh, otherwise fetch, classify and store.
// Failures are data - the result carries Success=false and an error message,
// nothing propagates to the caller.
func (a *Aggregator) FetchRepositoryData(ctx context.Context, repo domain.RepoIdentifier, openOnly bool) domain.RepoResult {
	return a.fetch(ctx, repo, openOnly, false)
}

// ForceRefresh bypasses the cache read but still writes the fresh result.
// This is the reload-button path.
func (a *Aggregator) ForceRefresh(ctx context.Context, repo domain.RepoIdentifier, openOnly bool) domain.RepoResult {
	return a.fetch(ctx, repo, openOnly, true)
}

func (a *Aggregator) fetch(ctx context.Context, repo domain.RepoIdentifier, openOnly bool, force bool) domain.RepoResult {
	repoName := repo.String()

	if !force {
		if cached, capturedAt, found := a.cache.Get(repoName, openOnly); found {
			a.logger.Printf("Cache hit: %s (%s, age %v)",
				repoName, domain.StateFilter(openOnly), time.Since(capturedAt).Round(time.Second))
			cached.FromCache = true
			cached.FetchedAt = capturedAt
			return cached
		}
		a.logger.Printf("Cache miss: %s (%s) - fetching from API", repoName, domain.StateFilter(openOnly))
	}

	items, err := a.client.FetchIssues(ctx, repo, openOnly)
	if err != nil {
		a.logger.Printf("Fetch failed for %s: %v", repoName, err)
		return domain.RepoResult{
			Repository:   repoName,
			Issues:       []domain.Issue{},
			PullRequests: []domain.Issue{},
			Success:      false,
			Error:        err.Error(),
			FetchedAt:    time.Now(),
		}
	}

	result := domain.RepoResult{
		Repository:   repoName,
		Issues:       []domain.Issue{},
		PullRequests: []domain.Issue{},
		Success:      true,
		FetchedAt:    time.Now(),
	}

	for _, item := range items {
		classified := classify.Classify(item, repoName)
		if classified.IsPullRequest {
			result.PullRequests = append(result.PullRequests, classified)
		} else {
			result.Issues = append(result.Issues, classified)
		}
	}

	// Two concurrent fetches for the same key may both reach this write;
	// last writer wins, which is fine for idempotent fetches of the same
	// remote resource.
	a.cache.Put(repoName, openOnly, result)

	return result
}

// FetchAll fetches every repository concurrently and waits for all of them.
// Results keep the input order; one failing repository never aborts or
// delays its siblings.
func (a *Aggregator) FetchAll(ctx context.Context, repos []domain.RepoIdentifier, openOnly bool, force bool) []domain.RepoResult {
	results := make([]domain.RepoResult, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, r domain.RepoIdentifier) {
			defer wg.Done()
			results[i] = a.fetch(ctx, r, openOnly, force)
		}(i, repo)
	}
	wg.Wait()

	return results
}
