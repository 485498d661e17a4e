package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig("devclub")
	cfg.BaseURL = srv.URL
	return NewClient(cfg, testLogger()), srv
}

func TestViewer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, `{"id": 42, "login": "octocat"}`)
	}))

	v, err := client.Viewer(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("Viewer: %v", err)
	}
	if v.Login != "octocat" || v.ID != 42 {
		t.Errorf("Viewer = %+v", v)
	}
}

func TestViewer_ErrorPropagates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := client.Viewer(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for 401 /user response, got nil")
	}
}

func TestContributions(t *testing.T) {
	// Each query carries distinguishing terms; answer per query.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query().Get("q")
		count := 0
		switch {
		case strings.Contains(q, "is:merged") && strings.Contains(q, "org:devclub"):
			count = 2
		case strings.Contains(q, "org:devclub"):
			count = 4
		case strings.Contains(q, "is:merged"):
			count = 5
		default:
			count = 10
		}
		fmt.Fprintf(w, `{"total_count": %d}`, count)
	}))

	stats := client.Contributions(context.Background(), "tok", "octocat")

	if stats.TotalPRs != 10 || stats.MergedPRs != 5 || stats.OrgPRs != 4 || stats.OrgMergedPRs != 2 {
		t.Errorf("Contributions = %+v", stats)
	}
	if stats.Login != "octocat" {
		t.Errorf("Login = %q, want octocat", stats.Login)
	}
}

// A failed sub-query zero-fills its count without failing the others.
func TestContributions_PartialFailureZeroFills(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "is:merged") {
			// Both merged queries fail — rate limited.
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"total_count": 7}`)
	}))

	stats := client.Contributions(context.Background(), "tok", "octocat")

	if stats.TotalPRs != 7 || stats.OrgPRs != 7 {
		t.Errorf("successful queries should survive: %+v", stats)
	}
	if stats.MergedPRs != 0 || stats.OrgMergedPRs != 0 {
		t.Errorf("failed queries should zero-fill: %+v", stats)
	}
}

func TestOrgCommits(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/orgs/devclub/repos":
			fmt.Fprint(w, `[{"name":"site"},{"name":"bot"},{"name":"pending"}]`)
		case r.URL.Path == "/repos/devclub/site/stats/contributors":
			fmt.Fprint(w, `[{"total": 12, "author": {"login": "octocat"}}, {"total": 99, "author": {"login": "other"}}]`)
		case r.URL.Path == "/repos/devclub/bot/stats/contributors":
			fmt.Fprint(w, `[{"total": 3, "author": {"login": "octocat"}}]`)
		case r.URL.Path == "/repos/devclub/pending/stats/contributors":
			// GitHub still computing stats for this repo.
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	got := client.OrgCommits(context.Background(), "tok", "octocat")
	if got != 15 {
		t.Errorf("OrgCommits = %d, want 15 (12 + 3, 202 repo counts zero)", got)
	}
}

func TestOrgCommits_RepoListFailureReturnsZero(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if got := client.OrgCommits(context.Background(), "tok", "octocat"); got != 0 {
		t.Errorf("OrgCommits = %d, want 0 on listing failure", got)
	}
}
