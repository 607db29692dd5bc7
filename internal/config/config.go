package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	Port int `yaml:"port"`

	// GitHub configuration
	GitHubURL   string `yaml:"github_url"`
	GitHubToken string `yaml:"github_token"`

	// Watched repositories (comma or pipe separated "owner/name" list)
	WatchedRepos string `yaml:"watched_repos"`

	// Cache configuration
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CacheDBPath     string `yaml:"cache_db_path"`

	// OpenOnly selects the default state filter (open vs all)
	OpenOnly bool `yaml:"open_only"`
}

// Load loads configuration in precedence order: defaults, then an optional
// YAML file named by CONFIG_FILE, then environment variables (a .env file
// is read first when present).
func Load() (*Config, error) {
	// Missing .env is fine; environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            8080,
		GitHubURL:       "https://api.github.com",
		CacheTTLSeconds: 600,
		CacheDBPath:     "issues-dashboard.db",
		OpenOnly:        true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

// applyEnv overrides config fields from environment variables.
func applyEnv(cfg *Config) {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = p
		}
	}

	if v := os.Getenv("GITHUB_URL"); v != "" {
		cfg.GitHubURL = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHubToken = v
	}
	if v := os.Getenv("WATCHED_REPOS"); v != "" {
		cfg.WatchedRepos = v
	}
	if v := os.Getenv("CACHE_DB_PATH"); v != "" {
		cfg.CacheDBPath = v
	}

	if ttlStr := os.Getenv("CACHE_TTL_SECONDS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			cfg.CacheTTLSeconds = ttl
		}
	}

	if v := os.Getenv("OPEN_ONLY"); v != "" {
		cfg.OpenOnly = v == "true" || v == "1"
	}
}

// GetWatchedRepos returns the configured repository list entries.
func (c *Config) GetWatchedRepos() []string {
	if c.WatchedRepos == "" {
		return nil
	}

	repos := strings.FieldsFunc(c.WatchedRepos, func(r rune) bool {
		return r == ',' || r == '|'
	})
	result := make([]string, 0, len(repos))
	for _, repo := range repos {
		repo = strings.TrimSpace(repo)
		if repo != "" {
			result = append(result, repo)
		}
	}
	return result
}

// HasToken returns true if a GitHub token is configured.
func (c *Config) HasToken() bool {
	return c.GitHubToken != ""
}
