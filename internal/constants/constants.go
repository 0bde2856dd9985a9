// Package constants provides a centralized location for the fixed names and
// durations used throughout rdm.
package constants

import "time"

// Configuration discovery
const (
	// ConfigFileJSON is the primary configuration file name searched for in
	// the working directory and each of its parents.
	ConfigFileJSON = ".rdm.json"

	// ConfigFileYAML and ConfigFileYML are accepted alongside the JSON file.
	ConfigFileYAML = ".rdm.yaml"
	ConfigFileYML  = ".rdm.yml"

	// APIKeyEnv overrides the API key from the configuration file.
	APIKeyEnv = "RDM_API_KEY"

	// KeyringService is the service name used when storing API keys in the
	// OS keyring. The account is the Redmine host.
	KeyringService = "rdm"
)

// ConfigFileNames lists the configuration file names tried in each directory, in order.
var ConfigFileNames = []string{ConfigFileJSON, ConfigFileYAML, ConfigFileYML}

// Reference cache
const (
	// CacheFileName is the reference-data cache, stored next to the config file.
	CacheFileName = ".rdm-cache.json"

	// FreshnessWindow is the maximum age of the cache file before it is
	// treated as stale regardless of the config file's modification time.
	FreshnessWindow = 2 * time.Hour
)

// HTTP transport
const (
	// APIKeyHeader carries the Redmine API key on every request.
	APIKeyHeader = "X-Redmine-API-Key"

	// DefaultTimeout bounds a single HTTP request when the config does not set one.
	DefaultTimeout = 30 * time.Second

	// MaxRetryElapsed caps the total time spent retrying a GET request.
	MaxRetryElapsed = 30 * time.Second
)

// Issue list state filters, as understood by the issues.json endpoint.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "*"
)
