package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	return newRootCmd(NewOptions())
}

func newRootCmd(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rdm",
		Short: "Redmine issue tracker client",
		Long: `A CLI for a Redmine server. It lists issues and changes their status,
resolving status and user names against a local cache of the server's
reference data (.rdm-cache.json, next to the config file).

The config file (.rdm.json, .rdm.yaml or .rdm.yml) is searched for in the
current directory and its parents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Initialize(opts.Verbosity, cmd.ErrOrStderr())
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file to use instead of searching for .rdm.json/.rdm.yaml")

	rootCmd.AddCommand(NewCmdIssues(opts))
	rootCmd.AddCommand(NewCmdIssue(opts))
	rootCmd.AddCommand(NewCmdStatuses(opts))
	rootCmd.AddCommand(NewCmdCache(opts))
	rootCmd.AddCommand(NewCmdConfig(opts))
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
