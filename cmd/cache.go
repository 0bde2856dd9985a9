package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/cache"
	"github.com/spiffcs/rdm/internal/output"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reference data cache",
		Long: `Manage the cache of issue statuses and users kept next to the config file.

The cache is used while it is newer than the config file and less than two
hours old.`,
	}

	cmd.AddCommand(newCmdCacheStats(opts))
	cmd.AddCommand(newCmdCacheClear(opts))
	cmd.AddCommand(newCmdCacheWarm(opts))

	return cmd
}

func newCmdCacheStats(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location, age and contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}

			info, err := cache.Inspect(path, time.Now())
			if err != nil {
				return err
			}
			return output.FormatCacheInfo(info, cmd.OutOrStdout())
		},
	}
}

func newCmdCacheClear(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}

			if err := cache.Clear(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

func newCmdCacheWarm(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Fetch issue statuses and users and rewrite the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}

			if err := s.cache.Warm(ctx); err != nil {
				return fmt.Errorf("failed to warm cache: %w", err)
			}

			snap := s.cache.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Cached %d issue statuses and %d users in %s.\n",
				len(snap.IssueStatuses), len(snap.Users), s.cache.Path())
			return nil
		},
	}
}
