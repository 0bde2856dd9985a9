// Package output renders issues, statuses and cache details for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spiffcs/rdm/internal/redmine"
	"golang.org/x/term"
)

// Format is an output format accepted by `rdm issues -o`.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted formats, for flag help.
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// Formatter renders a page of issues.
type Formatter interface {
	FormatIssues(list *redmine.IssueList, w io.Writer) error
}

// IssueLinker returns the browser URL of an issue.
type IssueLinker func(number uint) string

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatTable, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", name, Formats)
}

// NewFormatter creates a formatter for format. An empty format means table.
func NewFormatter(format Format, link IssueLinker) (Formatter, error) {
	switch format {
	case FormatTable, "":
		return &TableFormatter{
			Link:       link,
			Hyperlinks: term.IsTerminal(int(os.Stdout.Fd())),
			Now:        time.Now,
		}, nil
	case FormatJSON:
		return &JSONFormatter{Pretty: true}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{Link: link}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
