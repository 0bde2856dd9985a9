package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/rdm/internal/model"
	"github.com/spiffcs/rdm/internal/redmine"
)

// JSONFormatter writes issues as JSON.
type JSONFormatter struct {
	Pretty bool
}

// JSONOutput is the document written by JSONFormatter.
type JSONOutput struct {
	Issues     []model.Issue `json:"issues"`
	Shown      int           `json:"shown"`
	TotalCount int           `json:"total_count"`
}

// FormatIssues encodes list as a JSONOutput document.
func (f *JSONFormatter) FormatIssues(list *redmine.IssueList, w io.Writer) error {
	out := JSONOutput{
		Issues:     list.Issues,
		Shown:      len(list.Issues),
		TotalCount: list.TotalCount,
	}
	if out.Issues == nil {
		out.Issues = []model.Issue{}
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
