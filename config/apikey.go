package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/log"
	"github.com/zalando/go-keyring"
)

// APIKey resolves the Redmine API key. The RDM_API_KEY environment variable
// wins over redmine_key, which wins over the OS keyring entry for the host.
func (c *Config) APIKey() (string, error) {
	if key := os.Getenv(constants.APIKeyEnv); key != "" {
		log.Debug("using API key from environment", "var", constants.APIKeyEnv)
		return key, nil
	}
	if c.RedmineKey != "" {
		return c.RedmineKey, nil
	}

	key, err := keyring.Get(constants.KeyringService, c.Host())
	if err == nil && key != "" {
		log.Debug("using API key from keyring", "host", c.Host())
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Debug("keyring lookup failed", "host", c.Host(), "error", err)
	}

	return "", &Error{
		Kind:   KindParsing,
		Path:   c.path,
		Detail: fmt.Sprintf("no API key: set redmine_key, %s, or run 'rdm config set-key'", constants.APIKeyEnv),
	}
}

// StoreAPIKey saves key in the OS keyring for the configured host.
func (c *Config) StoreAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key must not be empty")
	}
	if err := keyring.Set(constants.KeyringService, c.Host(), key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}
