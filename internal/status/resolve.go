// Package status maps a user-typed status name fragment to an issue status id.
package status

import (
	"fmt"

	"github.com/spiffcs/rdm/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NotFoundError is returned when no status matches the query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No issue status matched '%s'", e.Query)
}

// Resolve returns the id of the first candidate whose name matches query.
func Resolve(query string, candidates []model.IssueStatus) (uint, error) {
	s, err := Find(query, candidates)
	if err != nil {
		return 0, err
	}
	return s.ID, nil
}

// Find returns the first candidate, in input order, whose name matches query.
// There is no scoring: an earlier weak match beats a later exact one.
func Find(query string, candidates []model.IssueStatus) (model.IssueStatus, error) {
	for _, c := range candidates {
		if Matches(query, c.Name) {
			return c, nil
		}
	}
	return model.IssueStatus{}, &NotFoundError{Query: query}
}

// Matches compares query and name rune by rune up to the shorter length,
// ignoring case. Runes past the end of the shorter string are not compared,
// so "closedextra" matches "Closed" and "" matches everything.
func Matches(query, name string) bool {
	lower := cases.Lower(language.Und)

	q, n := []rune(query), []rune(name)
	for i := 0; i < min(len(q), len(n)); i++ {
		if !foldEqual(lower, q[i], n[i]) {
			return false
		}
	}
	return true
}

// foldEqual lowercases a and b separately and compares the resulting rune
// sequences pairwise. Some runes lowercase to more than one rune (U+0130
// becomes "i" followed by a combining dot); only the overlap is compared.
func foldEqual(lower cases.Caser, a, b rune) bool {
	if a == b {
		return true
	}
	la := []rune(lower.String(string(a)))
	lb := []rune(lower.String(string(b)))
	for i := 0; i < min(len(la), len(lb)); i++ {
		if la[i] != lb[i] {
			return false
		}
	}
	return true
}
