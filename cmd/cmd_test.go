package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spiffcs/rdm/config"
	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/service"
	"github.com/spiffcs/rdm/internal/status"
)

// fakeRedmine serves the endpoints rdm uses and records writes.
type fakeRedmine struct {
	statusFetches atomic.Int32
	updates       atomic.Int32
	lastStatusID  atomic.Uint32
	lastQuery     atomic.Value
}

func (f *fakeRedmine) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /issue_statuses.json", func(w http.ResponseWriter, r *http.Request) {
		f.statusFetches.Add(1)
		_, _ = io.WriteString(w, `{"issue_statuses": [
			{"id": 1, "name": "New"},
			{"id": 2, "name": "In Progress"},
			{"id": 5, "name": "Closed", "is_closed": true},
			{"id": 6, "name": "Rejected", "is_closed": true}
		]}`)
	})
	mux.HandleFunc("GET /users.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"users": [{"id": 7, "login": "jdoe", "firstname": "Jane", "lastname": "Doe"}]}`)
	})
	mux.HandleFunc("PUT /issues/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Issue struct {
				StatusID uint32 `json:"status_id"`
			} `json:"issue"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updates.Add(1)
		f.lastStatusID.Store(body.Issue.StatusID)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /issues.json", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"issues": [{"id": 12, "subject": "Broken login",
			"tracker": {"id": 1, "name": "Bug"}, "status": {"id": 1, "name": "New"},
			"priority": {"id": 2, "name": "Normal"}}], "total_count": 1}`)
	})
	return mux
}

// setup starts a fake server and writes a config file pointing at it.
func setup(t *testing.T) (*fakeRedmine, string) {
	t.Helper()
	t.Setenv(constants.APIKeyEnv, "")

	fake := &fakeRedmine{}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFileJSON)
	cfg := map[string]string{
		"redmine_url":          server.URL,
		"redmine_key":          "secret-key",
		"default_close_status": "clo",
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return fake, path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNew(t *testing.T) {
	cmd := New()
	if cmd.Use != "rdm" {
		t.Errorf("expected Use to be 'rdm', got %q", cmd.Use)
	}

	want := []string{"issues", "issue", "statuses", "cache", "config", "version"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == cmd {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestHelpSucceeds(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help returned error: %v", err)
	}
	if !strings.Contains(out, "issues") {
		t.Errorf("help output missing subcommands:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-01-01")
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "rdm 1.2.3\n") || !strings.Contains(out, "abc123") {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestParseIssueNumber(t *testing.T) {
	tests := []struct {
		arg     string
		want    uint
		wantErr bool
	}{
		{"1234", 1234, false},
		{"#1234", 1234, false},
		{"https://redmine.example.com/issues/1234", 1234, false},
		{"https://redmine.example.com/redmine/issues/77/", 77, false},
		{"https://redmine.example.com/projects/web", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseIssueNumber(tt.arg)
			if tt.wantErr {
				var argErr *service.ArgumentError
				if !errors.As(err, &argErr) {
					t.Errorf("expected *service.ArgumentError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseIssueNumber(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestIssueArgumentErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	tests := []struct {
		name string
		args []string
	}{
		{"update without status", []string{"issue", "12", "update"}},
		{"bad number", []string{"issue", "twelve", "close"}},
		{"zero", []string{"issue", "0", "close"}},
		{"unknown action", []string{"issue", "12", "reopen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--config", missing)...)
			var argErr *service.ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("expected *service.ArgumentError before the config is read, got %v", err)
			}
		})
	}
}

func TestIssueClose(t *testing.T) {
	fake, path := setup(t)

	out, err := run(t, "issue", "12", "close", "--config", path)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if out != "Issue #12 set to Closed.\n" {
		t.Errorf("output = %q", out)
	}
	if fake.updates.Load() != 1 || fake.lastStatusID.Load() != 5 {
		t.Errorf("updates=%d status_id=%d", fake.updates.Load(), fake.lastStatusID.Load())
	}

	// The second command is served from the cache written by the first.
	out, err = run(t, "issue", "#12", "update", "--status", "REJ", "--config", path)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if out != "Issue #12 set to Rejected.\n" {
		t.Errorf("output = %q", out)
	}
	if n := fake.statusFetches.Load(); n != 1 {
		t.Errorf("issue statuses fetched %d times, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), constants.CacheFileName)); err != nil {
		t.Errorf("cache file not written: %v", err)
	}
}

func TestIssueUnknownStatus(t *testing.T) {
	fake, path := setup(t)

	_, err := run(t, "issue", "12", "update", "--status", "frozen", "--config", path)
	var nf *status.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *status.NotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), "frozen") {
		t.Errorf("error %q does not mention the query", err)
	}
	if fake.updates.Load() != 0 {
		t.Error("expected no update request")
	}
}

func TestIssues(t *testing.T) {
	fake, path := setup(t)

	out, err := run(t, "issues", "--assigned-to", "jane", "--status", "in p", "-o", "json", "--config", path)
	if err != nil {
		t.Fatalf("issues failed: %v", err)
	}

	query, _ := fake.lastQuery.Load().(string)
	if !strings.Contains(query, "assigned_to_id=7") || !strings.Contains(query, "status_id=2") {
		t.Errorf("query = %q", query)
	}

	var doc struct {
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil || doc.TotalCount != 1 {
		t.Errorf("unexpected JSON output (%v):\n%s", err, out)
	}
}

func TestIssuesFlagValidation(t *testing.T) {
	_, path := setup(t)

	if _, err := run(t, "issues", "--open", "--closed", "--config", path); err == nil {
		t.Error("expected --open and --closed to be rejected together")
	}

	for _, args := range [][]string{
		{"-o", "xml"},
		{"--updated-since", "soon"},
		{"--limit=-1"},
	} {
		_, err := run(t, append(append([]string{"issues"}, args...), "--config", path)...)
		var argErr *service.ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("%v: expected *service.ArgumentError, got %v", args, err)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	_, path := setup(t)

	out, err := run(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "secret-key") || !strings.Contains(out, "redmine_url:") {
		t.Errorf("config show output:\n%s", out)
	}

	out, err = run(t, "config", "path", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) || !strings.Contains(out, constants.CacheFileName) {
		t.Errorf("config path output:\n%s", out)
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "statuses", "--config", filepath.Join(t.TempDir(), ".rdm.json"))
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) || cfgErr.Kind != config.KindLoading {
		t.Fatalf("expected a loading error, got %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	_, path := setup(t)

	out, err := run(t, "cache", "stats", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not created yet") {
		t.Errorf("expected missing cache, got:\n%s", out)
	}

	out, err = run(t, "cache", "warm", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cached 4 issue statuses and 1 users") {
		t.Errorf("cache warm output = %q", out)
	}

	out, err = run(t, "statuses", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "In Progress") {
		t.Errorf("statuses output:\n%s", out)
	}

	if _, err := run(t, "cache", "clear", "--config", path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), constants.CacheFileName)); !os.IsNotExist(err) {
		t.Errorf("expected cache file to be removed, stat error: %v", err)
	}
}
