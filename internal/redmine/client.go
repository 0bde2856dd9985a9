// Package redmine is a minimal client for the Redmine REST API: reference
// data (issue statuses, users), issue listing and status updates.
package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/log"
	"github.com/spiffcs/rdm/internal/model"
)

// Client talks to a single Redmine server.
type Client struct {
	http          *http.Client
	baseURL       *url.URL
	retries       int
	retryInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetries enables up to n extra attempts for GET requests that failed
// with a transport or 5xx error. Writes are never retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithRetryInterval sets the initial backoff interval between retries.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// WithTransport replaces the underlying round tripper. The API key is still added.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport.(*apiKeyTransport).base = rt
	}
}

// NewClient creates a client for the server at baseURL, authenticating with apiKey.
func NewClient(baseURL *url.URL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == nil {
		return nil, fmt.Errorf("redmine base URL not provided")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("redmine API key not provided")
	}

	base := *baseURL
	if base.Path == "" || base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
	}

	c := &Client{
		http: &http.Client{
			Timeout: constants.DefaultTimeout,
			Transport: &apiKeyTransport{
				base: http.DefaultTransport,
				key:  apiKey,
			},
		},
		baseURL:       &base,
		retryInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the server URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// IssueURL returns the browser URL of an issue.
func (c *Client) IssueURL(number uint) string {
	return c.endpoint(fmt.Sprintf("issues/%d", number), nil).String()
}

// FetchIssueStatuses returns every issue status defined on the server, in server order.
func (c *Client) FetchIssueStatuses(ctx context.Context) ([]model.IssueStatus, error) {
	var body struct {
		IssueStatuses []model.IssueStatus `json:"issue_statuses"`
	}
	if err := c.get(ctx, c.endpoint("issue_statuses.json", nil), &body); err != nil {
		return nil, err
	}
	if body.IssueStatuses == nil {
		body.IssueStatuses = []model.IssueStatus{}
	}
	return body.IssueStatuses, nil
}

// FetchUsers returns the server's users. Redmine requires an admin key for this endpoint.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	var body struct {
		Users []model.User `json:"users"`
	}
	if err := c.get(ctx, c.endpoint("users.json", nil), &body); err != nil {
		return nil, err
	}
	if body.Users == nil {
		body.Users = []model.User{}
	}
	return body.Users, nil
}

// UpdateIssueStatus sets the status of issue number to statusID.
func (c *Client) UpdateIssueStatus(ctx context.Context, number, statusID uint) error {
	payload := map[string]map[string]uint{
		"issue": {"status_id": statusID},
	}
	u := c.endpoint(fmt.Sprintf("issues/%d.json", number), nil)
	return c.do(ctx, http.MethodPut, u, payload, nil)
}

// IssueFilter selects issues for ListIssues.
type IssueFilter struct {
	// State is one of constants.StateOpen, StateClosed, StateAll. Ignored when StatusID is set.
	State string
	// StatusID restricts the list to a single status.
	StatusID uint
	// AssigneeID is a user id or "me". Empty means any assignee.
	AssigneeID string
	// Limit is the page size; zero uses the server default.
	Limit int
	// UpdatedSince restricts the list to issues updated at or after this instant.
	UpdatedSince time.Time
}

func (f IssueFilter) values() url.Values {
	q := url.Values{}
	switch {
	case f.StatusID != 0:
		q.Set("status_id", strconv.FormatUint(uint64(f.StatusID), 10))
	case f.State != "":
		q.Set("status_id", f.State)
	default:
		q.Set("status_id", constants.StateOpen)
	}
	if f.AssigneeID != "" {
		q.Set("assigned_to_id", f.AssigneeID)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if !f.UpdatedSince.IsZero() {
		q.Set("updated_on", ">="+f.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// IssueList is a single page of issues.
type IssueList struct {
	Issues     []model.Issue `json:"issues"`
	TotalCount int           `json:"total_count"`
}

// ListIssues returns the first page of issues matching f.
func (c *Client) ListIssues(ctx context.Context, f IssueFilter) (*IssueList, error) {
	var list IssueList
	if err := c.get(ctx, c.endpoint("issues.json", f.values()), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) endpoint(path string, query url.Values) *url.URL {
	ref := &url.URL{Path: path}
	if query != nil {
		ref.RawQuery = query.Encode()
	}
	return c.baseURL.ResolveReference(ref)
}

// get performs a GET, retrying transient failures when retries are enabled.
func (c *Client) get(ctx context.Context, u *url.URL, out any) error {
	if c.retries <= 0 {
		return c.do(ctx, http.MethodGet, u, nil, out)
	}

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.do(ctx, http.MethodGet, u, nil, out)
		if err == nil {
			return nil
		}
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.retryable() {
			log.Debug("retrying request", "url", u.String(), "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(c.newBackoff(), ctx))
}

func (c *Client) newBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = constants.MaxRetryElapsed
	return backoff.WithMaxRetries(bo, uint64(c.retries))
}

// do sends a single request. A non-nil body is encoded as JSON; a non-nil
// out receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body, out any) error {
	target := u.String()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindHTTP, Method: method, URL: target, Detail: err.Error()}
		}
		log.Trace("request body", "method", method, "url", target, "body", string(data))
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Kind: KindHTTP, Method: method, URL: target, Detail: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindHTTP, Method: method, URL: target, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if apiErr := errorForStatus(method, target, resp.StatusCode); apiErr != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindHTTP, Method: method, URL: target, Detail: err.Error()}
	}
	log.Trace("response body", "method", method, "url", target, "body", string(data))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindResponse, Method: method, URL: target, Detail: err.Error()}
	}
	return nil
}
