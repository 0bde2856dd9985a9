package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/rdm/internal/format"
	"github.com/spiffcs/rdm/internal/model"
	"github.com/spiffcs/rdm/internal/redmine"
)

// Column widths for the issue table.
const (
	colID       = 7
	colTracker  = 10
	colStatus   = 14
	colPriority = 9
	colSubject  = 48
	colAssignee = 18
)

// TableFormatter writes issues as an aligned terminal table.
type TableFormatter struct {
	Link IssueLinker
	// Hyperlinks wraps issue numbers in OSC 8 links to Link.
	Hyperlinks bool
	Now        func() time.Time
}

// hyperlink wraps text in an OSC 8 terminal hyperlink.
func hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// FormatIssues writes a header, one row per issue and a paging footer.
func (f *TableFormatter) FormatIssues(list *redmine.IssueList, w io.Writer) error {
	if len(list.Issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	header := strings.Join([]string{
		format.PadRight("#", colID),
		format.PadRight("Tracker", colTracker),
		format.PadRight("Status", colStatus),
		format.PadRight("Priority", colPriority),
		format.PadRight("Subject", colSubject),
		format.PadRight("Assignee", colAssignee),
		"Updated",
	}, "  ")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", format.DisplayWidth(header)))

	for _, issue := range list.Issues {
		fmt.Fprintln(w, f.row(issue, now()))
	}

	if list.TotalCount > len(list.Issues) {
		fmt.Fprintf(w, "\nShowing %d of %d issues.\n", len(list.Issues), list.TotalCount)
	}
	return nil
}

func (f *TableFormatter) row(issue model.Issue, now time.Time) string {
	id := fmt.Sprintf("#%d", issue.ID)
	if f.Hyperlinks && f.Link != nil {
		id = hyperlink(id, f.Link(issue.ID))
	}

	updated := "-"
	if !issue.UpdatedOn.IsZero() {
		updated = format.Age(now.Sub(issue.UpdatedOn))
	}

	assignee := issue.Assignee()
	if assignee == "" {
		assignee = color.New(color.Faint).Sprint("-")
	} else {
		assignee = format.Truncate(assignee, colAssignee)
	}

	return strings.Join([]string{
		format.PadRight(id, colID),
		format.PadRight(format.Truncate(issue.Tracker.Name, colTracker), colTracker),
		format.PadRight(format.Truncate(issue.Status.Name, colStatus), colStatus),
		format.PadRight(colorPriority(format.Truncate(issue.Priority.Name, colPriority)), colPriority),
		format.PadRight(format.Truncate(issue.Subject, colSubject), colSubject),
		format.PadRight(assignee, colAssignee),
		updated,
	}, "  ")
}

// colorPriority colours Redmine's default priority names.
func colorPriority(name string) string {
	switch strings.ToLower(name) {
	case "immediate", "urgent":
		return color.RedString(name)
	case "high":
		return color.YellowString(name)
	case "low":
		return color.New(color.Faint).Sprint(name)
	default:
		return name
	}
}
