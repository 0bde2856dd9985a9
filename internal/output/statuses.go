package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spiffcs/rdm/internal/format"
	"github.com/spiffcs/rdm/internal/model"
)

// FormatStatuses writes the server's issue statuses in server order.
func FormatStatuses(statuses []model.IssueStatus, w io.Writer) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "No issue statuses defined.")
		return err
	}

	nameWidth := len("Name")
	for _, s := range statuses {
		nameWidth = max(nameWidth, format.DisplayWidth(s.Name))
	}

	header := fmt.Sprintf("%-4s  %s  %s", "ID", format.PadRight("Name", nameWidth), "Closed")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", format.DisplayWidth(header)))

	for _, s := range statuses {
		closed := ""
		if s.IsClosed {
			closed = color.GreenString("yes")
		}
		fmt.Fprintf(w, "%-4d  %s  %s\n", s.ID, format.PadRight(s.Name, nameWidth), closed)
	}
	return nil
}
