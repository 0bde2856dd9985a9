// Package service drives the reference cache, the status resolver and the
// Redmine client to carry out rdm's commands.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spiffcs/rdm/internal/cache"
	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/log"
	"github.com/spiffcs/rdm/internal/model"
	"github.com/spiffcs/rdm/internal/redmine"
	"github.com/spiffcs/rdm/internal/status"
	"github.com/spiffcs/rdm/internal/users"
)

// IssueAPI is the subset of the Redmine client the service writes through.
type IssueAPI interface {
	UpdateIssueStatus(ctx context.Context, number, statusID uint) error
	ListIssues(ctx context.Context, f redmine.IssueFilter) (*redmine.IssueList, error)
}

// Ensure the Redmine client satisfies IssueAPI.
var _ IssueAPI = (*redmine.Client)(nil)

// IssueService implements the issue commands.
type IssueService struct {
	api                IssueAPI
	refs               cache.ReferenceData
	defaultCloseStatus string
}

// New creates an IssueService. defaultCloseStatus may be empty.
func New(api IssueAPI, refs cache.ReferenceData, defaultCloseStatus string) *IssueService {
	return &IssueService{
		api:                api,
		refs:               refs,
		defaultCloseStatus: defaultCloseStatus,
	}
}

// ResolveStatus maps a status name fragment to a status using the cached status list.
func (s *IssueService) ResolveStatus(ctx context.Context, name string) (model.IssueStatus, error) {
	statuses, err := s.refs.IssueStatuses(ctx)
	if err != nil {
		return model.IssueStatus{}, err
	}

	st, err := status.Find(name, statuses)
	if err != nil {
		return model.IssueStatus{}, err
	}

	log.Info("resolved status", "query", name, "id", st.ID, "name", st.Name)
	return st, nil
}

// UpdateStatus sets issue number to the status matching name and returns that status.
func (s *IssueService) UpdateStatus(ctx context.Context, number uint, name string) (model.IssueStatus, error) {
	if strings.TrimSpace(name) == "" {
		return model.IssueStatus{}, &ArgumentError{Msg: "update requires --status"}
	}

	st, err := s.ResolveStatus(ctx, name)
	if err != nil {
		return model.IssueStatus{}, err
	}

	if err := s.api.UpdateIssueStatus(ctx, number, st.ID); err != nil {
		return model.IssueStatus{}, err
	}
	return st, nil
}

// Close sets issue number to the status matching name, or to the configured
// default close status when name is empty.
func (s *IssueService) Close(ctx context.Context, number uint, name string) (model.IssueStatus, error) {
	if strings.TrimSpace(name) == "" {
		name = s.defaultCloseStatus
	}
	if strings.TrimSpace(name) == "" {
		return model.IssueStatus{}, &ArgumentError{
			Msg: "close requires --status or default_close_status in the config file",
		}
	}
	return s.UpdateStatus(ctx, number, name)
}

// ListOptions selects the issues shown by ListIssues.
type ListOptions struct {
	// AssignedTo is "me", a numeric user id, or a name matched against the cached users.
	AssignedTo string
	// State is constants.StateOpen or constants.StateClosed. Ignored when Status is set.
	State string
	// Status is a status name fragment resolved through the cache.
	Status string
	Limit  int
	// UpdatedSince drops issues last updated before this instant when non-zero.
	UpdatedSince time.Time
}

// ListIssues returns the first page of issues matching opts.
func (s *IssueService) ListIssues(ctx context.Context, opts ListOptions) (*redmine.IssueList, error) {
	filter := redmine.IssueFilter{
		State:        opts.State,
		Limit:        opts.Limit,
		UpdatedSince: opts.UpdatedSince,
	}
	if filter.State == "" {
		filter.State = constants.StateOpen
	}

	if opts.Status != "" {
		st, err := s.ResolveStatus(ctx, opts.Status)
		if err != nil {
			return nil, err
		}
		filter.StatusID = st.ID
	}

	if opts.AssignedTo != "" {
		id, err := s.resolveAssignee(ctx, opts.AssignedTo)
		if err != nil {
			return nil, err
		}
		filter.AssigneeID = id
	}

	return s.api.ListIssues(ctx, filter)
}

func (s *IssueService) resolveAssignee(ctx context.Context, who string) (string, error) {
	who = strings.TrimSpace(who)
	if strings.EqualFold(who, "me") {
		return "me", nil
	}
	if _, err := strconv.ParseUint(who, 10, 64); err == nil {
		return who, nil
	}

	all, err := s.refs.Users(ctx)
	if err != nil {
		return "", err
	}
	u, err := users.Match(who, all)
	if err != nil {
		return "", err
	}

	log.Info("resolved assignee", "query", who, "id", u.ID, "login", u.Login)
	return strconv.FormatUint(uint64(u.ID), 10), nil
}
