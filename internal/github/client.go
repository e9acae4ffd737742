// Package github fetches commit history over the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorewood/stint/internal/output"
)

const defaultBaseURL = "https://api.github.com"

// Commit is a single commit in the reporting window.
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author"`
}

// Repo describes a repository the token can read.
type Repo struct {
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Owner        string `json:"owner"`
	Private      bool   `json:"private"`
	Organization string `json:"organization,omitempty"`
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the GitHub REST API v3.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
}

// New creates a client authenticated with the given token.
func New(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// User returns the login of the authenticated user. Used as a
// connectivity check before the workflow starts fetching commits.
func (c *Client) User(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/user", nil)
	if err != nil {
		return "", err
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse user response", err)
	}
	if user.Login == "" {
		return "", output.NewSystemError("GitHub returned no login for the authenticated user")
	}
	return user.Login, nil
}

// Repos lists the repositories the token can read, the user's own
// first, then organization repositories.
func (c *Client) Repos(ctx context.Context) ([]Repo, error) {
	body, err := c.get(ctx, "/user/repos", url.Values{
		"type":     {"all"},
		"sort":     {"updated"},
		"per_page": {"100"},
	})
	if err != nil {
		return nil, err
	}

	repos, err := parseRepoList(body, "")
	if err != nil {
		return nil, err
	}

	orgs, err := c.orgs(ctx)
	if err != nil {
		// Organization listing needs the read:org scope; a token
		// without it still works for the user's own repositories.
		return repos, nil
	}

	for _, org := range orgs {
		body, err := c.get(ctx, "/orgs/"+org+"/repos", url.Values{"per_page": {"100"}})
		if err != nil {
			continue
		}
		orgRepos, err := parseRepoList(body, org)
		if err != nil {
			continue
		}
		repos = append(repos, orgRepos...)
	}

	return repos, nil
}

// Commits returns the commits on the repository's default branch within
// the given window. The repo is the "owner/name" form.
func (c *Client) Commits(ctx context.Context, repo string, since, until time.Time) ([]Commit, error) {
	params := url.Values{"per_page": {"100"}}
	if !since.IsZero() {
		params.Set("since", since.Format(time.RFC3339))
	}
	if !until.IsZero() {
		params.Set("until", until.Format(time.RFC3339))
	}

	body, err := c.get(ctx, "/repos/"+repo+"/commits", params)
	if err != nil {
		return nil, err
	}

	return parseCommitList(body)
}

func (c *Client) orgs(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/user/orgs", nil)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse orgs response", err)
	}

	var orgs []string
	for _, o := range raw {
		orgs = append(orgs, o.Login)
	}
	return orgs, nil
}

func parseRepoList(body []byte, org string) ([]Repo, error) {
	var raw []struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Private  bool   `json:"private"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse repos response", err)
	}

	var repos []Repo
	for _, r := range raw {
		repos = append(repos, Repo{
			Name:         r.Name,
			FullName:     r.FullName,
			Owner:        r.Owner.Login,
			Private:      r.Private,
			Organization: org,
		})
	}
	return repos, nil
}

func parseCommitList(body []byte) ([]Commit, error) {
	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse commits response", err)
	}

	var commits []Commit
	for _, r := range raw {
		sha := r.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		date, err := time.Parse(time.RFC3339, r.Commit.Author.Date)
		if err != nil {
			// Skip commits with unparseable timestamps rather than
			// failing the whole window.
			continue
		}
		commits = append(commits, Commit{
			SHA:     sha,
			Message: r.Commit.Message,
			Date:    date,
			Author:  r.Commit.Author.Name,
		})
	}
	return commits, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("GitHub request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, output.NewUserError("invalid GitHub API token")
	case http.StatusNotFound:
		return nil, output.NewUserError("GitHub resource not found: " + path)
	default:
		errBody := string(body)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("GitHub API error (status %d): %s", resp.StatusCode, errBody))
	}
}
