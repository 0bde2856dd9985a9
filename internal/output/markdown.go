package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/rdm/internal/redmine"
)

// MarkdownFormatter writes issues as a GitHub-flavoured markdown table.
type MarkdownFormatter struct {
	Link IssueLinker
}

// FormatIssues writes one table row per issue.
func (f *MarkdownFormatter) FormatIssues(list *redmine.IssueList, w io.Writer) error {
	if len(list.Issues) == 0 {
		_, err := fmt.Fprintln(w, "_No issues found._")
		return err
	}

	fmt.Fprintln(w, "| # | Tracker | Status | Priority | Subject | Assignee |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, issue := range list.Issues {
		id := fmt.Sprintf("#%d", issue.ID)
		if f.Link != nil {
			id = fmt.Sprintf("[#%d](%s)", issue.ID, f.Link(issue.ID))
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			id,
			escapeMarkdown(issue.Tracker.Name),
			escapeMarkdown(issue.Status.Name),
			escapeMarkdown(issue.Priority.Name),
			escapeMarkdown(issue.Subject),
			escapeMarkdown(issue.Assignee()),
		)
	}

	if list.TotalCount > len(list.Issues) {
		fmt.Fprintf(w, "\n_Showing %d of %d issues._\n", len(list.Issues), list.TotalCount)
	}
	return nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
