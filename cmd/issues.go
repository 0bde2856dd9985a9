package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/duration"
	"github.com/spiffcs/rdm/internal/output"
	"github.com/spiffcs/rdm/internal/service"
)

// NewCmdIssues creates the issues command.
func NewCmdIssues(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues",
		Long: `List the first page of issues, open issues by default.

--assigned-to takes "me", a numeric user id, or a login or name which is
matched against the cached user list.`,
		Example: `  rdm issues --assigned-to=me
  rdm issues --status="in prog" -o json
  rdm issues --closed --assigned-to=jsmith`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssues(cmd, opts)
		},
	}

	formats := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		formats[i] = string(f)
	}

	cmd.Flags().StringVarP(&opts.AssignedTo, "assigned-to", "a", "", "Only issues assigned to this user (me, id, login or name)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Only open issues (default)")
	cmd.Flags().BoolVar(&opts.Closed, "closed", false, "Only closed issues")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Open and closed issues")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Only issues with this status (name or prefix)")
	cmd.Flags().StringVar(&opts.UpdatedSince, "updated-since", "", "Only issues updated within this period (e.g. 36h, 2w, 6mo)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of issues (server default when 0)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", opts.Format, fmt.Sprintf("Output format (%s)", strings.Join(formats, ", ")))
	cmd.MarkFlagsMutuallyExclusive("open", "closed", "all", "status")

	return cmd
}

func runIssues(cmd *cobra.Command, opts *Options) error {
	format, err := output.ParseFormat(opts.Format)
	if err != nil {
		return &service.ArgumentError{Msg: err.Error()}
	}
	if opts.Limit < 0 {
		return &service.ArgumentError{Msg: "--limit must not be negative"}
	}

	var since time.Time
	if opts.UpdatedSince != "" {
		since, err = duration.Since(opts.UpdatedSince, time.Now())
		if err != nil {
			return &service.ArgumentError{Msg: err.Error()}
		}
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	list, err := s.service().ListIssues(ctx, service.ListOptions{
		AssignedTo:   opts.AssignedTo,
		State:        opts.state(),
		Status:       opts.Status,
		Limit:        opts.Limit,
		UpdatedSince: since,
	})
	if err != nil {
		return fmt.Errorf("failed to list issues: %w", err)
	}

	formatter, err := output.NewFormatter(format, s.client.IssueURL)
	if err != nil {
		return err
	}
	return formatter.FormatIssues(list, cmd.OutOrStdout())
}
