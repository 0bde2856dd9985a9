package model

import "time"

// Ref is the {id, name} pair Redmine embeds for projects, trackers,
// statuses, priorities and assignees.
type Ref struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Issue is the list view of a tracker issue.
type Issue struct {
	ID         uint      `json:"id"`
	Subject    string    `json:"subject"`
	Project    Ref       `json:"project"`
	Tracker    Ref       `json:"tracker"`
	Status     Ref       `json:"status"`
	Priority   Ref       `json:"priority"`
	AssignedTo *Ref      `json:"assigned_to,omitempty"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// Assignee returns the assignee's name, or "" when the issue is unassigned.
func (i Issue) Assignee() string {
	if i.AssignedTo == nil {
		return ""
	}
	return i.AssignedTo.Name
}
