package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vilaca/issues-dashboard/internal/api"
	"github.com/vilaca/issues-dashboard/internal/domain"
)

// Client implements api.IssueClient for the GitHub REST API.
// Follows Single Responsibility Principle - only handles GitHub API communication.
type Client struct {
	base          *api.BaseClient
	onAuthFailure api.AuthFailureHook

	mu    sync.RWMutex
	token string
}

// NewClient creates a new GitHub issues client.
// Uses dependency injection for HTTPClient and the auth-failure hook (IoC).
// onAuthFailure may be nil.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, onAuthFailure api.AuthFailureHook) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Client{
		base:          api.NewBaseClient(baseURL, httpClient),
		onAuthFailure: onAuthFailure,
		token:         config.Token,
	}
}

// SetToken replaces the bearer token used for subsequent requests.
// The token is explicit client state, never a package-level variable.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FetchIssues retrieves all issues and pull requests for a repository.
// Pages through results until the API returns a short page.
func (c *Client) FetchIssues(ctx context.Context, repo domain.RepoIdentifier, openOnly bool) ([]domain.Issue, error) {
	state := domain.StateFilter(openOnly)

	var items []domain.Issue
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/issues?state=%s&per_page=%d&page=%d",
			c.base.BaseURL, repo.Owner, repo.Name, state, api.DefaultPageSize, page)

		var ghIssues []githubIssue
		if err := c.doRequest(ctx, url, &ghIssues); err != nil {
			return nil, err
		}

		for _, gh := range ghIssues {
			items = append(items, convertIssue(gh))
		}

		if len(ghIssues) < api.DefaultPageSize {
			break
		}
	}

	return items, nil
}

// doRequest performs an HTTP request to the GitHub API.
// Follows Single Level of Abstraction Principle (SLAP).
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	release, err := c.base.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.base.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// apiError builds the typed error for a non-2xx response, preferring the
// human-readable message from the JSON error body over the status text.
// Signals the auth-failure hook on 401/403 so the UI can prompt for a token.
func (c *Client) apiError(resp *http.Response) error {
	message := http.StatusText(resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var errBody githubErrorBody
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		message = errBody.Message
	}

	httpErr := &api.HTTPError{Status: resp.StatusCode, Message: message}
	if httpErr.IsAuthFailure() && c.onAuthFailure != nil {
		c.onAuthFailure(resp.StatusCode)
	}

	return httpErr
}

// convertIssue converts a GitHub issue to the domain model.
// PR identification uses the pull_request marker field.
func convertIssue(gh githubIssue) domain.Issue {
	labels := make([]domain.Label, 0, len(gh.Labels))
	for _, l := range gh.Labels {
		labels = append(labels, domain.Label{Name: l.Name, Color: l.Color})
	}

	var milestone *domain.Milestone
	if gh.Milestone != nil {
		milestone = &domain.Milestone{Title: gh.Milestone.Title, DueOn: gh.Milestone.DueOn}
	}

	var typeHint *domain.TypeHint
	if gh.Type != nil && gh.Type.Name != "" {
		typeHint = &domain.TypeHint{Name: gh.Type.Name}
	}

	return domain.Issue{
		Number:        gh.Number,
		Title:         gh.Title,
		Body:          gh.Body,
		State:         gh.State,
		CreatedAt:     gh.CreatedAt,
		UpdatedAt:     gh.UpdatedAt,
		Comments:      gh.Comments,
		Labels:        labels,
		Milestone:     milestone,
		TypeHint:      typeHint,
		Reactions:     convertReactions(gh.Reactions),
		IsPullRequest: gh.PullRequest != nil,
	}
}

// convertReactions maps reaction kinds to counts, dropping zero counts.
func convertReactions(r *githubReactions) map[string]int {
	if r == nil {
		return nil
	}

	counts := map[string]int{
		"+1":       r.PlusOne,
		"-1":       r.MinusOne,
		"laugh":    r.Laugh,
		"hooray":   r.Hooray,
		"confused": r.Confused,
		"heart":    r.Heart,
		"rocket":   r.Rocket,
		"eyes":     r.Eyes,
	}
	for kind, count := range counts {
		if count == 0 {
			delete(counts, kind)
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

// GitHub API response types
type githubIssue struct {
	Number      int                    `json:"number"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	State       string                 `json:"state"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Comments    int                    `json:"comments"`
	Labels      []githubLabel          `json:"labels"`
	Milestone   *githubMilestone       `json:"milestone"`
	Type        *githubIssueType       `json:"type"`
	Reactions   *githubReactions       `json:"reactions"`
	PullRequest *githubPullRequestLink `json:"pull_request"`
}

type githubLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type githubMilestone struct {
	Title string     `json:"title"`
	DueOn *time.Time `json:"due_on"`
}

type githubIssueType struct {
	Name string `json:"name"`
}

type githubReactions struct {
	PlusOne  int `json:"+1"`
	MinusOne int `json:"-1"`
	Laugh    int `json:"laugh"`
	Hooray   int `json:"hooray"`
	Confused int `json:"confused"`
	Heart    int `json:"heart"`
	Rocket   int `json:"rocket"`
	Eyes     int `json:"eyes"`
}

type githubPullRequestLink struct {
	URL string `json:"url"`
}

type githubErrorBody struct {
	Message string `json:"message"`
}
