// Package users finds a tracker user from a name typed on the command line.
package users

import (
	"fmt"
	"strings"

	"github.com/spiffcs/rdm/internal/model"
)

// NotFoundError is returned when no user matches the query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No user matched '%s'", e.Query)
}

// Match finds the user a query refers to. An exact, case-insensitive match on
// login or full name wins; otherwise the first user whose login, first name,
// last name or full name contains the query is returned.
func Match(query string, candidates []model.User) (model.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return model.User{}, &NotFoundError{Query: query}
	}

	for _, u := range candidates {
		if strings.ToLower(u.Login) == q || strings.ToLower(u.FullName()) == q {
			return u, nil
		}
	}

	for _, u := range candidates {
		for _, field := range []string{u.Login, u.FirstName, u.LastName, u.FullName()} {
			if strings.Contains(strings.ToLower(field), q) {
				return u, nil
			}
		}
	}

	return model.User{}, &NotFoundError{Query: query}
}
