package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// Values come from an optional YAML file named by ETHEREAL_CONFIG, then
// environment variables override individual fields.
type Config struct {
	Port int `yaml:"port"`

	// GitHub configuration
	GitHubURL        string `yaml:"github_url"`
	GitHubGraphQLURL string `yaml:"github_graphql_url"`
	GitHubToken      string `yaml:"github_token"`

	// Blog repository: issues of Owner/Repo are the posts.
	// Creator restricts posts to issues opened by one user.
	Owner   string `yaml:"owner"`
	Repo    string `yaml:"repo"`
	Creator string `yaml:"creator"`

	PageSize int `yaml:"page_size"`

	// 0 disables the response cache
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// 0 disables background refreshing
	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds"`

	// Empty disables state snapshots
	SnapshotPath string `yaml:"snapshot_path"`

	// Site metadata used by the RSS feed
	SiteURL   string `yaml:"site_url"`
	SiteTitle string `yaml:"site_title"`
}

func defaults() *Config {
	return &Config{
		Port:             8080,
		GitHubURL:        "https://api.github.com",
		GitHubGraphQLURL: "https://api.github.com/graphql",
		PageSize:         10,
		SiteTitle:        "Ethereal",
	}
}

// Load loads configuration from the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("ETHEREAL_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.GitHubURL = getEnvOrDefault("GITHUB_URL", cfg.GitHubURL)
	cfg.GitHubGraphQLURL = getEnvOrDefault("GITHUB_GRAPHQL_URL", cfg.GitHubGraphQLURL)
	cfg.GitHubToken = getEnvOrDefault("GITHUB_TOKEN", cfg.GitHubToken)
	cfg.Owner = getEnvOrDefault("GITHUB_OWNER", cfg.Owner)
	cfg.Repo = getEnvOrDefault("GITHUB_REPO", cfg.Repo)
	cfg.Creator = getEnvOrDefault("GITHUB_CREATOR", cfg.Creator)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)
	cfg.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds)
	cfg.RefreshIntervalSeconds = getEnvInt("REFRESH_INTERVAL_SECONDS", cfg.RefreshIntervalSeconds)
	cfg.SnapshotPath = getEnvOrDefault("SNAPSHOT_PATH", cfg.SnapshotPath)
	cfg.SiteURL = strings.TrimRight(getEnvOrDefault("SITE_URL", cfg.SiteURL), "/")
	cfg.SiteTitle = getEnvOrDefault("SITE_TITLE", cfg.SiteTitle)

	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults().PageSize
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports missing settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("blog repository not configured: set GITHUB_OWNER and GITHUB_REPO")
	}
	return nil
}

// HasToken returns true if requests are authenticated.
func (c *Config) HasToken() bool {
	return c.GitHubToken != ""
}

// CacheTTL returns the response cache lifetime, 0 when caching is off.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RefreshInterval returns the background refresh period, 0 when off.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
