// Package dashboard is the presentation boundary: a thin JSON surface the
// UI collaborator consumes. Rendering itself lives with the collaborator,
// not here.
package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/vilaca/issues-dashboard/internal/domain"
	"github.com/vilaca/issues-dashboard/internal/service"
)

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// IssueService interface for aggregation operations (Dependency Inversion Principle).
type IssueService interface {
	FetchAll(ctx context.Context, repos []domain.RepoIdentifier, openOnly bool, force bool) []domain.RepoResult
}

// CacheAdmin exposes the cache status and purge surface.
type CacheAdmin interface {
	Enumerate() []domain.CacheStatus
	DeleteAll(repos ...string) int
}

// Settings persists the dashboard's saved inputs.
type Settings interface {
	SaveToken(token string) error
	SaveRepoListText(text string) error
	LoadRepoListText() (string, error)
	SetConsent(granted bool) error
	GetConsent() (granted bool, decided bool, err error)
}

// TokenSetter applies a replacement bearer token to the fetch client.
type TokenSetter interface {
	SetToken(token string)
}

// Handler handles HTTP requests for the dashboard API.
// Each handler method has a Single Responsibility (SRP).
type Handler struct {
	logger       Logger
	issues       IssueService
	cacheAdmin   CacheAdmin
	settings     Settings
	tokens       TokenSetter
	auth         *AuthSignal
	defaultRepos []domain.RepoIdentifier
	openOnly     bool
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Logger       Logger
	Issues       IssueService
	CacheAdmin   CacheAdmin
	Settings     Settings
	Tokens       TokenSetter
	Auth         *AuthSignal
	DefaultRepos []domain.RepoIdentifier
	OpenOnly     bool
}

// NewHandler creates a new Handler with injected dependencies (Dependency Inversion Principle).
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		issues:       cfg.Issues,
		cacheAdmin:   cfg.CacheAdmin,
		settings:     cfg.Settings,
		tokens:       cfg.Tokens,
		auth:         cfg.Auth,
		defaultRepos: cfg.DefaultRepos,
		openOnly:     cfg.OpenOnly,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/issues", h.handleIssues)
	mux.HandleFunc("/api/cache", h.handleCacheStatus)
	mux.HandleFunc("/api/cache/clear", h.handleCacheClear)
	mux.HandleFunc("/api/token", h.handleToken)
	mux.HandleFunc("/api/consent", h.handleConsent)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// issuesResponse is the payload for /api/issues.
type issuesResponse struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	StateFilter   string              `json:"state_filter"`
	TokenRequired bool                `json:"token_required"`
	Results       []domain.RepoResult `json:"results"`
	Message       string              `json:"message,omitempty"`
}

// handleIssues serves classified issues and pull requests per repository.
// Query parameters: repos (comma/pipe list, wins over the saved list),
// state (open|all), refresh (bypass the cache read).
func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	reposParam := query.Get("repos")
	saved, err := h.settings.LoadRepoListText()
	if err != nil {
		h.logger.Printf("Failed to load saved repo list: %v", err)
	}

	repos := service.InitialRepos(reposParam, saved)
	if reposParam != "" {
		if err := h.settings.SaveRepoListText(reposParam); err != nil {
			h.logger.Printf("Failed to save repo list: %v", err)
		}
	}
	if len(repos) == 0 {
		repos = h.defaultRepos
	}

	openOnly := h.openOnly
	switch query.Get("state") {
	case domain.StateFilterOpen:
		openOnly = true
	case domain.StateFilterAll:
		openOnly = false
	}

	force := query.Get("refresh") == "1" || query.Get("refresh") == "true"

	response := issuesResponse{
		GeneratedAt: time.Now(),
		StateFilter: domain.StateFilter(openOnly),
		Results:     []domain.RepoResult{},
	}

	if len(repos) == 0 {
		response.Message = "no repositories configured"
		h.writeJSON(w, http.StatusOK, response)
		return
	}

	response.Results = h.issues.FetchAll(r.Context(), repos, openOnly, force)
	response.TokenRequired = h.auth.Required()

	// One failing repository renders as its own error entry; only a total
	// failure gets the explicit empty-state message.
	anySuccess := false
	for _, result := range response.Results {
		if result.Success {
			anySuccess = true
			break
		}
	}
	if !anySuccess {
		response.Message = "no repository data could be loaded"
	}

	h.writeJSON(w, http.StatusOK, response)
}

// handleCacheStatus lists cache entries with ages and remaining TTL.
func (h *Handler) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	statuses := h.cacheAdmin.Enumerate()
	if statuses == nil {
		statuses = []domain.CacheStatus{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": statuses})
}

// handleCacheClear purges cache entries: all of them, or only those for
// the repositories named in the repos parameter.
func (h *Handler) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var names []string
	for _, repo := range service.ParseRepoList(r.URL.Query().Get("repos")) {
		names = append(names, repo.String())
	}

	deleted := h.cacheAdmin.DeleteAll(names...)
	h.logger.Printf("Cache clear: %d entries deleted", deleted)
	h.writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// handleToken saves a bearer token and applies it to subsequent fetches.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	if err := h.settings.SaveToken(body.Token); err != nil {
		h.logger.Printf("Failed to save token: %v", err)
	}
	h.tokens.SetToken(body.Token)
	h.auth.Clear()

	h.writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// handleConsent reads (GET) or records (POST) the analytics-consent decision.
func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		granted, decided, err := h.settings.GetConsent()
		if err != nil {
			h.logger.Printf("Failed to read consent: %v", err)
		}
		h.writeJSON(w, http.StatusOK, map[string]bool{"granted": granted, "decided": decided})

	case http.MethodPost:
		granted := r.URL.Query().Get("granted") == "true"
		if err := h.settings.SetConsent(granted); err != nil {
			h.logger.Printf("Failed to record consent: %v", err)
		}
		h.writeJSON(w, http.StatusOK, map[string]bool{"granted": granted, "decided": true})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("Failed to encode response: %v", err)
	}
}

// StdLogger wraps the standard log package to implement Logger interface.
type StdLogger struct{}

func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

func (l *StdLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}
