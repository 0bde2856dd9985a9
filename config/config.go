// Package config discovers and loads the rdm configuration file.
//
// The file is searched for in the working directory and then in each parent
// up to the filesystem root. Its directory also hosts the reference cache.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spiffcs/rdm/internal/constants"
	"gopkg.in/yaml.v3"
)

// Cache strategies accepted by cache_strategy.
const (
	CacheLazy  = "lazy"
	CacheEager = "eager"
)

// Config represents the application configuration
type Config struct {
	RedmineKey         string `json:"redmine_key,omitempty" yaml:"redmine_key,omitempty"`
	RedmineURL         string `json:"redmine_url" yaml:"redmine_url"`
	DefaultCloseStatus string `json:"default_close_status,omitempty" yaml:"default_close_status,omitempty"`

	// CacheStrategy is "lazy" (fetch each reference list on first use) or
	// "eager" (fetch statuses and users together when the cache is stale).
	CacheStrategy string `json:"cache_strategy,omitempty" yaml:"cache_strategy,omitempty"`

	// Retries is the number of extra attempts for failed GET requests. Zero disables retries.
	Retries        int `json:"retries,omitempty" yaml:"retries,omitempty"`
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`

	path    string
	baseURL *url.URL
}

// Discover walks from startDir up to the filesystem root and returns the
// first config file found. Every path tried is reported on failure.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", &Error{Kind: KindLoading, Path: startDir, Detail: err.Error()}
	}

	var searched []string
	for {
		for _, name := range constants.ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
			searched = append(searched, candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", &Error{Kind: KindNoConfigFile, SearchedPaths: searched}
}

// Find discovers the config file starting at startDir and loads it.
func Find(startDir string) (*Config, error) {
	path, err := Discover(startDir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads and validates the config file at path. Files ending in .yaml or
// .yml are decoded as YAML; everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindLoading, Path: path, Detail: err.Error()}
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, &Error{Kind: KindParsing, Path: path, Detail: err.Error()}
	}

	cfg.path = path
	if err := cfg.validate(); err != nil {
		return nil, &Error{Kind: KindParsing, Path: path, Detail: err.Error()}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RedmineURL == "" {
		return fmt.Errorf("redmine_url is required")
	}

	u, err := url.Parse(c.RedmineURL)
	if err != nil {
		return fmt.Errorf("redmine_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("redmine_url must be an http or https URL, got %q", c.RedmineURL)
	}
	if u.Host == "" {
		return fmt.Errorf("redmine_url has no host: %q", c.RedmineURL)
	}
	// Relative API paths resolve under the base, so it must end in a slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.baseURL = u

	switch c.CacheStrategy {
	case "", CacheLazy, CacheEager:
	default:
		return fmt.Errorf("cache_strategy must be %q or %q, got %q", CacheLazy, CacheEager, c.CacheStrategy)
	}

	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}

	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// BaseURL returns a copy of the normalized server URL (always ending in "/").
func (c *Config) BaseURL() *url.URL {
	if c.baseURL == nil {
		return nil
	}
	u := *c.baseURL
	return &u
}

// Host returns the server host, used as the keyring account.
func (c *Config) Host() string {
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.Host
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return constants.DefaultTimeout
}

// EagerCache reports whether both reference lists are fetched together on a stale cache.
func (c *Config) EagerCache() bool {
	return c.CacheStrategy == CacheEager
}

// ToYAML renders the configuration with the API key redacted.
func (c *Config) ToYAML() (string, error) {
	redacted := *c
	if redacted.RedmineKey != "" {
		redacted.RedmineKey = "********"
	}
	if redacted.CacheStrategy == "" {
		redacted.CacheStrategy = CacheLazy
	}

	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
