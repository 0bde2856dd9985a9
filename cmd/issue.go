package cmd

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/rdm/internal/model"
	"github.com/spiffcs/rdm/internal/service"
)

// Issue actions accepted after the issue number.
const (
	actionUpdate = "update"
	actionClose  = "close"
)

// NewCmdIssue creates the issue command.
func NewCmdIssue(opts *Options) *cobra.Command {
	var statusName string

	cmd := &cobra.Command{
		Use:   "issue <number|url> <update|close>",
		Short: "Change the status of an issue",
		Long: `Change the status of an issue.

The status is given by name; any unambiguous leading part of the name is
enough, compared case-insensitively ("in p" for "In Progress"). When several
statuses match, the first one in the server's order wins.

close without --status uses default_close_status from the config file.`,
		Example: `  rdm issue 1234 update --status="in prog"
  rdm issue 1234 close
  rdm issue 1234 close --status=rejected`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(cmd, opts, args[0], args[1], statusName)
		},
	}

	cmd.Flags().StringVarP(&statusName, "status", "s", "", "Status name or prefix")

	return cmd
}

// parseIssueNumber accepts "1234", "#1234" or an issue URL ending in /issues/1234.
func parseIssueNumber(arg string) (uint, error) {
	ref := strings.TrimPrefix(arg, "#")
	if u, err := url.Parse(arg); err == nil && u.Scheme != "" {
		ref = ""
		dir, last := path.Split(strings.TrimSuffix(u.Path, "/"))
		if path.Base(dir) == "issues" {
			ref = strings.TrimSuffix(last, ".json")
		}
	}

	n, err := strconv.ParseUint(ref, 10, 0)
	if err != nil || n == 0 {
		return 0, &service.ArgumentError{Msg: fmt.Sprintf("invalid issue number %q", arg)}
	}
	return uint(n), nil
}

func runIssue(cmd *cobra.Command, opts *Options, numberArg, action, statusName string) error {
	number, err := parseIssueNumber(numberArg)
	if err != nil {
		return err
	}

	switch action {
	case actionUpdate:
		if strings.TrimSpace(statusName) == "" {
			return &service.ArgumentError{Msg: "update requires --status"}
		}
	case actionClose:
	default:
		return &service.ArgumentError{Msg: fmt.Sprintf("unknown action %q (want %s or %s)", action, actionUpdate, actionClose)}
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	svc := s.service()

	var st model.IssueStatus
	if action == actionClose {
		st, err = svc.Close(ctx, number, statusName)
	} else {
		st, err = svc.UpdateStatus(ctx, number, statusName)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Issue #%d set to %s.\n", number, st.Name)
	return nil
}
