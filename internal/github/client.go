// Package github is a minimal client for the pieces of the GitHub REST API the
// contribution aggregator needs: the authenticated-user endpoint, the
// search/issues endpoint (PR counts), and per-repository contributor
// statistics (commit counts).
//
// DEGRADED-RESULT POLICY:
// Aggregation is partial-failure tolerant. Each of the four PR search queries
// is independent; a non-2xx response or a decode failure contributes zero for
// that query only, never failing the whole aggregation. The same applies
// per-repository for commit stats. The one fatal case is Viewer — if we can't
// even resolve who the token belongs to, the caller has nothing to aggregate
// for and propagates the error.
//
// There is deliberately no retry/backoff here: a refresh runs inside one HTTP
// request, and a missed sub-query just means slightly stale numbers until the
// next refresh.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sakif/club-leaderboard/internal/model"
)

// Config holds the client's settings.
type Config struct {
	// BaseURL is the API root. Tests point this at an httptest server.
	BaseURL string

	// Org is the GitHub organisation whose repositories count as "org"
	// contributions (weighted higher by the scoring function).
	Org string

	// HTTPClient is the underlying transport. Leave nil for a default
	// client with a 15s timeout.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config pointed at the public GitHub API.
func DefaultConfig(org string) Config {
	return Config{
		BaseURL: "https://api.github.com",
		Org:     org,
	}
}

// Client talks to the GitHub REST API. It is stateless apart from its config —
// the bearer token is passed per call because each member's aggregation uses
// that member's own OAuth token.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client from the given config.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}
}

// Viewer is the authenticated user behind a token — the subset of the GitHub
// /user response we care about.
type Viewer struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Viewer resolves the identity behind an OAuth token via GET /user.
// Unlike the count queries, a failure here is returned to the caller: without
// an identity there is nothing to aggregate.
func (c *Client) Viewer(ctx context.Context, token string) (*Viewer, error) {
	var v Viewer
	if err := c.getJSON(ctx, token, "/user", nil, &v); err != nil {
		return nil, fmt.Errorf("github: fetching authenticated user: %w", err)
	}
	if v.Login == "" {
		return nil, fmt.Errorf("github: /user returned an empty login")
	}
	return &v, nil
}

// Contributions gathers the four PR counts for a user by issuing four
// independent search queries concurrently. Each query that fails contributes
// zero; the returned stats are always usable.
func (c *Client) Contributions(ctx context.Context, token, login string) model.ContributionStats {
	queries := [4]string{
		fmt.Sprintf("author:%s type:pr", login),
		fmt.Sprintf("author:%s type:pr is:merged", login),
		fmt.Sprintf("author:%s type:pr org:%s", login, c.cfg.Org),
		fmt.Sprintf("author:%s type:pr is:merged org:%s", login, c.cfg.Org),
	}

	var counts [4]int
	var wg sync.WaitGroup
	for i, q := range queries {
		i, q := i, q
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := c.searchCount(ctx, token, q)
			if err != nil {
				// Degrade to zero — one failed sub-query must not sink
				// the whole aggregation.
				c.logger.Warn("github search query failed, counting as zero",
					slog.String("query", q),
					slog.String("error", err.Error()),
				)
				return
			}
			counts[i] = n
		}()
	}
	wg.Wait()

	return model.ContributionStats{
		Login:        login,
		TotalPRs:     counts[0],
		MergedPRs:    counts[1],
		OrgPRs:       counts[2],
		OrgMergedPRs: counts[3],
	}
}

// OrgCommits sums the user's commit totals across every repository in the
// organisation, using the per-repo contributor statistics endpoint.
//
// GitHub computes contributor stats lazily: a 202 Accepted means "still
// crunching, try later". We treat that as no data yet (zero) rather than
// retrying — the next refresh will pick the numbers up.
func (c *Client) OrgCommits(ctx context.Context, token, login string) int {
	repos, err := c.orgRepos(ctx, token)
	if err != nil {
		c.logger.Warn("github org repo listing failed, commit count unavailable",
			slog.String("org", c.cfg.Org),
			slog.String("error", err.Error()),
		)
		return 0
	}

	totals := make([]int, len(repos))
	var wg sync.WaitGroup
	for i, repo := range repos {
		i, repo := i, repo
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := c.repoCommits(ctx, token, repo, login)
			if err != nil {
				c.logger.Warn("github contributor stats failed, counting as zero",
					slog.String("repo", repo),
					slog.String("error", err.Error()),
				)
				return
			}
			totals[i] = n
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range totals {
		total += n
	}
	return total
}

// searchCount runs one search/issues query and returns its total_count.
func (c *Client) searchCount(ctx context.Context, token, query string) (int, error) {
	var result struct {
		TotalCount int `json:"total_count"`
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", "1") // only the count matters, not the items

	if err := c.getJSON(ctx, token, "/search/issues", params, &result); err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

// orgRepos lists the organisation's repository names.
func (c *Client) orgRepos(ctx context.Context, token string) ([]string, error) {
	var repos []struct {
		Name string `json:"name"`
	}
	params := url.Values{}
	params.Set("per_page", "100")

	path := fmt.Sprintf("/orgs/%s/repos", c.cfg.Org)
	if err := c.getJSON(ctx, token, path, params, &repos); err != nil {
		return nil, err
	}

	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return names, nil
}

// repoCommits returns the user's commit total for one repository.
// A 202 response means GitHub is still computing the statistics — that counts
// as zero, not as an error.
func (c *Client) repoCommits(ctx context.Context, token, repo, login string) (int, error) {
	req, err := c.newRequest(ctx, token, fmt.Sprintf("/repos/%s/%s/stats/contributors", c.cfg.Org, repo), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted {
		// Stats not ready yet — no data, not an error.
		return 0, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var contributors []struct {
		Total  int `json:"total"`
		Author struct {
			Login string `json:"login"`
		} `json:"author"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&contributors); err != nil {
		return 0, fmt.Errorf("decoding contributor stats: %w", err)
	}

	for _, contributor := range contributors {
		if contributor.Author.Login == login {
			return contributor.Total, nil
		}
	}
	return 0, nil
}

// getJSON performs a GET and decodes a 2xx JSON response into out.
func (c *Client) getJSON(ctx context.Context, token, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, token, path, params)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// newRequest builds a GET request with the standard GitHub headers.
// Responses must never come from a cache — scores should reflect what GitHub
// reports right now.
func (c *Client) newRequest(ctx context.Context, token, path string, params url.Values) (*http.Request, error) {
	u := c.cfg.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Cache-Control", "no-cache")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
