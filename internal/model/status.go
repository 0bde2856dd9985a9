// Package model contains the Redmine domain types shared by the client,
// the reference cache and the command layer.
package model

// IssueStatus is a named workflow state on the tracker.
// Identity is ID; Name is what users type and what the resolver matches.
type IssueStatus struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed,omitempty"`
}

// User is a tracker account.
type User struct {
	ID        uint   `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// FullName returns the user's display name, "First Last".
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
