package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults tests loading config with no environment set.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	os.Unsetenv("PORT")
	os.Unsetenv("CONFIG_FILE")
	os.Unsetenv("CACHE_TTL_SECONDS")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}

	if cfg.GitHubURL != "https://api.github.com" {
		t.Errorf("expected default GitHub URL, got %s", cfg.GitHubURL)
	}

	if cfg.CacheTTLSeconds != 600 {
		t.Errorf("expected default TTL 600s, got %d", cfg.CacheTTLSeconds)
	}

	if !cfg.OpenOnly {
		t.Error("expected open-only default")
	}
}

// TestLoad_CustomPort tests loading config with custom port from environment.
func TestLoad_CustomPort(t *testing.T) {
	// Arrange
	os.Setenv("PORT", "3000")
	defer os.Unsetenv("PORT")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
}

// TestLoad_InvalidPort tests that invalid port falls back to default.
func TestLoad_InvalidPort(t *testing.T) {
	// Arrange
	os.Setenv("PORT", "invalid")
	defer os.Unsetenv("PORT")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080 for invalid input, got %d", cfg.Port)
	}
}

// TestLoad_YAMLFile tests the optional YAML config file, with environment
// variables still taking precedence.
func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("port: 9090\nwatched_repos: owner/a,owner/b\ncache_ttl_seconds: 120\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("CONFIG_FILE", path)
	os.Setenv("PORT", "7070")
	defer os.Unsetenv("CONFIG_FILE")
	defer os.Unsetenv("PORT")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 7070 {
		t.Errorf("expected env to override file port, got %d", cfg.Port)
	}

	if cfg.CacheTTLSeconds != 120 {
		t.Errorf("expected TTL 120 from file, got %d", cfg.CacheTTLSeconds)
	}

	repos := cfg.GetWatchedRepos()
	if len(repos) != 2 || repos[0] != "owner/a" {
		t.Errorf("expected 2 repos from file, got %v", repos)
	}
}

// TestLoad_MissingConfigFile tests that a named but absent file errors.
func TestLoad_MissingConfigFile(t *testing.T) {
	// Arrange
	os.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	defer os.Unsetenv("CONFIG_FILE")

	// Act
	_, err := Load()

	// Assert
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

// TestGetWatchedRepos tests list parsing with both delimiters.
func TestGetWatchedRepos(t *testing.T) {
	// Arrange
	cfg := &Config{WatchedRepos: "owner/a, owner/b|owner/c"}

	// Act
	repos := cfg.GetWatchedRepos()

	// Assert
	if len(repos) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(repos))
	}

	if repos[1] != "owner/b" {
		t.Errorf("expected 'owner/b', got '%s'", repos[1])
	}
}
