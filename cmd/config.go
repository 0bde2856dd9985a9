package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/cache"
	"github.com/spiffcs/rdm/internal/output"
	"golang.org/x/term"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

A config file holds:
  redmine_url           Server URL (required)
  redmine_key           API key (or RDM_API_KEY, or 'rdm config set-key')
  default_close_status  Status used by 'rdm issue N close' without --status
  cache_strategy        lazy (default) or eager
  retries               Extra attempts for failed reads (default 0)
  timeout_seconds       Per-request timeout (default 30)`,
	}

	cmd.AddCommand(newCmdConfigPath(opts))
	cmd.AddCommand(newCmdConfigShow(opts))
	cmd.AddCommand(newCmdConfigSetKey(opts))

	return cmd
}

func newCmdConfigPath(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file in use and its cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			return output.FormatConfigPath(path, cache.PathFor(path), cmd.OutOrStdout())
		},
	}
}

func newCmdConfigShow(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the loaded configuration with the API key redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			yamlStr, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.Path(), yamlStr)
			return nil
		},
	}
}

func newCmdConfigSetKey(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the API key in the OS keyring",
		Long: `Store the API key for the configured server in the OS keyring.

Without an argument the key is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				key, err = readKey(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			if err := cfg.StoreAPIKey(strings.TrimSpace(key)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key stored for %s.\n", cfg.Host())
			return nil
		},
	}
}

// readKey reads a key without echo from a terminal, or a single line otherwise.
func readKey(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "API key: ")
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return line, nil
}
