package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spiffcs/rdm/config"
	"github.com/spiffcs/rdm/internal/cache"
	"github.com/spiffcs/rdm/internal/log"
	"github.com/spiffcs/rdm/internal/redmine"
	"github.com/spiffcs/rdm/internal/service"
)

// session bundles what a command needs to talk to the server.
type session struct {
	cfg    *config.Config
	client *redmine.Client
	cache  *cache.Cache
}

// loadConfig loads --config when given, otherwise searches from the working directory.
func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Find(wd)
}

// configPath returns the config file that would be loaded, without loading it.
func configPath(opts *Options) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

func openSession(ctx context.Context, opts *Options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log.Debug("config loaded", "path", cfg.Path(), "url", cfg.BaseURL().String())

	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	client, err := redmine.NewClient(cfg.BaseURL(), key,
		redmine.WithTimeout(cfg.Timeout()),
		redmine.WithRetries(cfg.Retries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redmine client: %w", err)
	}

	strategy := cache.StrategyLazy
	if cfg.EagerCache() {
		strategy = cache.StrategyEager
	}

	c, err := cache.Open(ctx, client, cfg.Path(), cache.WithStrategy(strategy))
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, client: client, cache: c}, nil
}

func (s *session) service() *service.IssueService {
	return service.New(s.client, s.cache, s.cfg.DefaultCloseStatus)
}
