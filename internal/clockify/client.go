// Package clockify manages time entries over the Clockify REST API v1.
package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/schedule"
)

const defaultBaseURL = "https://api.clockify.me/api/v1"

// Entry is an existing time entry in the workspace.
type Entry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Billable    bool      `json:"billable"`
	ProjectID   string    `json:"projectId"`
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one Clockify workspace.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	projectID   string
	httpClient  HTTPDoer

	userID string // resolved lazily, cached
}

// New creates a client for the given workspace. projectID may be empty
// when entries are not assigned to a project.
func New(apiKey, workspaceID, projectID string) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		workspaceID: workspaceID,
		projectID:   projectID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// User returns the name of the authenticated user and caches the user
// ID for entry listing.
func (c *Client) User(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return "", err
	}

	var user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse user response", err)
	}
	if user.ID == "" {
		return "", output.NewSystemError("Clockify returned no user ID")
	}

	c.userID = user.ID
	return user.Name, nil
}

// TimeEntries returns the user's entries overlapping [start, end].
func (c *Client) TimeEntries(ctx context.Context, start, end time.Time) ([]Entry, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"start":     {start.UTC().Format("2006-01-02T15:04:05Z")},
		"end":       {end.UTC().Format("2006-01-02T15:04:05Z")},
		"page-size": {"200"},
	}
	path := fmt.Sprintf("/workspaces/%s/user/%s/time-entries?%s", c.workspaceID, userID, params.Encode())

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return parseEntryList(body)
}

// CreateEntry creates a time entry for the given block.
func (c *Client) CreateEntry(ctx context.Context, block schedule.Block) error {
	day := block.Date.Format("2006-01-02")
	payload := map[string]any{
		"start":       fmt.Sprintf("%sT%s:00.000Z", day, block.Start),
		"end":         fmt.Sprintf("%sT%s:00.000Z", day, block.End),
		"description": block.Description,
		"billable":    block.Billable,
	}
	if c.projectID != "" {
		payload["projectId"] = c.projectID
	}

	path := "/workspaces/" + c.workspaceID + "/time-entries"
	_, err := c.do(ctx, http.MethodPost, path, payload)
	return err
}

// DeleteEntries removes every entry in [start, end]. Deletion is
// best-effort and non-transactional: it returns how many entries were
// removed along with an error describing any that were not.
func (c *Client) DeleteEntries(ctx context.Context, start, end time.Time) (int, error) {
	entries, err := c.TimeEntries(ctx, start, end)
	if err != nil {
		return 0, err
	}

	deleted := 0
	failed := 0
	for _, entry := range entries {
		path := "/workspaces/" + c.workspaceID + "/time-entries/" + entry.ID
		if _, err := c.do(ctx, http.MethodDelete, path, nil); err != nil {
			failed++
			continue
		}
		deleted++
	}

	if failed > 0 {
		return deleted, output.NewSystemError(fmt.Sprintf("failed to delete %d of %d entries", failed, len(entries)))
	}
	return deleted, nil
}

// LastEntryDate returns the start date of the most recent entry within
// the last 30 days. The second return is false when there are none.
func (c *Client) LastEntryDate(ctx context.Context) (time.Time, bool, error) {
	end := time.Now().UTC()
	entries, err := c.TimeEntries(ctx, end.AddDate(0, 0, -30), end)
	if err != nil {
		return time.Time{}, false, err
	}

	var latest time.Time
	for _, entry := range entries {
		if entry.Start.After(latest) {
			latest = entry.Start
		}
	}
	if latest.IsZero() {
		return time.Time{}, false, nil
	}
	return latest, true, nil
}

func (c *Client) resolveUserID(ctx context.Context) (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}
	if _, err := c.User(ctx); err != nil {
		return "", err
	}
	return c.userID, nil
}

func parseEntryList(body []byte) ([]Entry, error) {
	var raw []struct {
		ID           string `json:"id"`
		Description  string `json:"description"`
		Billable     bool   `json:"billable"`
		ProjectID    string `json:"projectId"`
		TimeInterval struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"timeInterval"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse time entries", err)
	}

	var entries []Entry
	for _, r := range raw {
		start, err := time.Parse(time.RFC3339, r.TimeInterval.Start)
		if err != nil {
			continue
		}
		// Running timers have no end; they are left out of replace
		// windows rather than truncated.
		end, err := time.Parse(time.RFC3339, r.TimeInterval.End)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			ID:          r.ID,
			Description: r.Description,
			Start:       start,
			End:         end,
			Billable:    r.Billable,
			ProjectID:   r.ProjectID,
		})
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("Clockify request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, output.NewUserError("invalid Clockify API key or workspace access")
	default:
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("Clockify API error (status %d): %s", resp.StatusCode, errBody))
	}
}
