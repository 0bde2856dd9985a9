package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/output"
)

// NewCmdStatuses creates the statuses command.
func NewCmdStatuses(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List the server's issue statuses",
		Long:  `List the issue statuses known to the server, in the order used to resolve status names.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}

			statuses, err := s.cache.IssueStatuses(ctx)
			if err != nil {
				return err
			}
			return output.FormatStatuses(statuses, cmd.OutOrStdout())
		},
	}
}
