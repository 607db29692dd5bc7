package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/vilaca/issues-dashboard/internal/api"
	"github.com/vilaca/issues-dashboard/internal/domain"
)

// mockHTTPClient is a test double for HTTPClient.
// Follows FIRST principles - tests are Fast and Independent.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// TestFetchIssues tests retrieving issues and pull requests from GitHub.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestFetchIssues(t *testing.T) {
	// Arrange
	responseBody := `[
		{"number": 1, "title": "Crash on startup", "state": "open",
		 "labels": [{"name": "bug", "color": "d73a4a"}], "comments": 3,
		 "reactions": {"+1": 2, "eyes": 1}},
		{"number": 2, "title": "Add dark mode", "state": "open",
		 "pull_request": {"url": "https://api.github.com/repos/acme/widgets/pulls/2"}}
	]`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			// Verify request setup
			if got := req.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
				t.Errorf("expected versioned Accept header, got %q", got)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer Authorization header, got %q", got)
			}
			if req.URL.Query().Get("state") != "open" {
				t.Errorf("expected state=open, got %q", req.URL.Query().Get("state"))
			}
			if req.URL.Query().Get("per_page") != "100" {
				t.Errorf("expected per_page=100, got %q", req.URL.Query().Get("per_page"))
			}

			return jsonResponse(http.StatusOK, responseBody), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP, nil)
	repo := domain.RepoIdentifier{Owner: "acme", Name: "widgets"}

	// Act
	items, err := client.FetchIssues(context.Background(), repo, true)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].IsPullRequest {
		t.Error("expected item 1 to be an issue")
	}

	if !items[1].IsPullRequest {
		t.Error("expected item 2 to be a pull request")
	}

	if items[0].Labels[0].Name != "bug" {
		t.Errorf("expected label 'bug', got '%s'", items[0].Labels[0].Name)
	}

	if items[0].Reactions["+1"] != 2 {
		t.Errorf("expected 2 '+1' reactions, got %d", items[0].Reactions["+1"])
	}
}

// TestFetchIssues_NoToken tests that no Authorization header is sent without a token.
func TestFetchIssues_NoToken(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "" {
				t.Error("expected no Authorization header without a token")
			}
			return jsonResponse(http.StatusOK, `[]`), nil
		},
	}

	client := NewClient(api.ClientConfig{}, mockHTTP, nil)

	// Act
	items, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "widgets"}, false)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

// TestFetchIssues_Pagination tests paging until a short page is returned.
func TestFetchIssues_Pagination(t *testing.T) {
	// Arrange
	fullPage := make([]map[string]interface{}, api.DefaultPageSize)
	for i := range fullPage {
		fullPage[i] = map[string]interface{}{"number": i + 1, "title": fmt.Sprintf("issue %d", i+1)}
	}
	fullBody, _ := json.Marshal(fullPage)

	var pagesRequested []string
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			page := req.URL.Query().Get("page")
			pagesRequested = append(pagesRequested, page)

			if page == "1" {
				return jsonResponse(http.StatusOK, string(fullBody)), nil
			}
			return jsonResponse(http.StatusOK, `[{"number": 101, "title": "last one"}]`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "t"}, mockHTTP, nil)

	// Act
	items, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "widgets"}, true)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(items) != api.DefaultPageSize+1 {
		t.Fatalf("expected %d items, got %d", api.DefaultPageSize+1, len(items))
	}

	if len(pagesRequested) != 2 {
		t.Fatalf("expected 2 page requests, got %d (%v)", len(pagesRequested), pagesRequested)
	}
}

// TestFetchIssues_APIError tests the typed error for a non-2xx response,
// with the message parsed from the JSON error body.
func TestFetchIssues_APIError(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, `{"message": "Not Found", "documentation_url": "https://docs.github.com"}`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "t"}, mockHTTP, nil)

	// Act
	_, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "gone"}, true)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *api.HTTPError, got %T", err)
	}

	if httpErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", httpErr.Status)
	}

	if httpErr.Message != "Not Found" {
		t.Errorf("expected message 'Not Found', got '%s'", httpErr.Message)
	}
}

// TestFetchIssues_ErrorBodyFallback tests falling back to the HTTP status
// text when the error body is not JSON.
func TestFetchIssues_ErrorBodyFallback(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, `<html>gateway error</html>`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "t"}, mockHTTP, nil)

	// Act
	_, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "widgets"}, true)

	// Assert
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *api.HTTPError, got %T", err)
	}

	if httpErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("expected status text fallback, got '%s'", httpErr.Message)
	}
}

// TestFetchIssues_AuthFailureHook tests that 401/403 invoke the injected hook.
func TestFetchIssues_AuthFailureHook(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"message": "Bad credentials"}`), nil
		},
	}

	var hookStatus int
	hook := func(status int) { hookStatus = status }

	client := NewClient(api.ClientConfig{Token: "bad"}, mockHTTP, hook)

	// Act
	_, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "widgets"}, true)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if hookStatus != http.StatusUnauthorized {
		t.Errorf("expected hook to receive 401, got %d", hookStatus)
	}
}

// TestSetToken tests that a replaced token is used on the next request.
func TestSetToken(t *testing.T) {
	// Arrange
	var seen string
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			seen = req.Header.Get("Authorization")
			return jsonResponse(http.StatusOK, `[]`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "old"}, mockHTTP, nil)

	// Act
	client.SetToken("new-token")
	_, err := client.FetchIssues(context.Background(), domain.RepoIdentifier{Owner: "acme", Name: "widgets"}, true)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if seen != "Bearer new-token" {
		t.Errorf("expected 'Bearer new-token', got '%s'", seen)
	}
}
