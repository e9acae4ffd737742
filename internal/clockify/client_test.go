package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/stint/internal/schedule"
)

// scriptedDoer answers each request by method and exact path.
type scriptedDoer struct {
	routes map[string]response

	requests []*http.Request
	bodies   []string
}

type response struct {
	status int
	body   string
}

func (s *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	var reqBody string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		reqBody = string(b)
	}
	s.bodies = append(s.bodies, reqBody)

	key := req.Method + " " + req.URL.Path
	resp, ok := s.routes[key]
	if !ok {
		return &http.Response{StatusCode: 404, Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(resp.body))),
	}, nil
}

func newTestClient(routes map[string]response) (*Client, *scriptedDoer) {
	doer := &scriptedDoer{routes: routes}
	return &Client{
		baseURL:     "https://clockify.example.com",
		apiKey:      "key",
		workspaceID: "ws1",
		projectID:   "proj1",
		httpClient:  doer,
	}, doer
}

func TestUser(t *testing.T) {
	client, doer := newTestClient(map[string]response{
		"GET /user": {200, `{"id": "u1", "name": "Dev"}`},
	})

	name, err := client.User(context.Background())
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if name != "Dev" {
		t.Errorf("name = %q, want %q", name, "Dev")
	}
	if client.userID != "u1" {
		t.Errorf("userID = %q, want cached %q", client.userID, "u1")
	}
	if got := doer.requests[0].Header.Get("X-Api-Key"); got != "key" {
		t.Errorf("X-Api-Key = %q, want %q", got, "key")
	}
}

func TestTimeEntries(t *testing.T) {
	entriesJSON := `[
		{
			"id": "e1",
			"description": "Work on: parser",
			"billable": true,
			"projectId": "proj1",
			"timeInterval": {"start": "2024-06-17T09:00:00Z", "end": "2024-06-17T12:00:00Z"}
		},
		{
			"id": "e2",
			"description": "running timer",
			"billable": true,
			"projectId": "proj1",
			"timeInterval": {"start": "2024-06-17T13:00:00Z", "end": ""}
		}
	]`
	client, doer := newTestClient(map[string]response{
		"GET /user":                                {200, `{"id": "u1", "name": "Dev"}`},
		"GET /workspaces/ws1/user/u1/time-entries": {200, entriesJSON},
	})

	start := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	entries, err := client.TimeEntries(context.Background(), start, end)
	if err != nil {
		t.Fatalf("TimeEntries() error = %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (running timer skipped)", len(entries))
	}
	if entries[0].ID != "e1" {
		t.Errorf("ID = %q, want %q", entries[0].ID, "e1")
	}
	if entries[0].Start.Hour() != 9 || entries[0].End.Hour() != 12 {
		t.Errorf("interval = %v-%v, want 09:00-12:00", entries[0].Start, entries[0].End)
	}

	listReq := doer.requests[len(doer.requests)-1]
	query := listReq.URL.Query()
	if query.Get("start") != "2024-06-17T00:00:00Z" {
		t.Errorf("start = %q, want window start", query.Get("start"))
	}
	if query.Get("end") != "2024-06-21T00:00:00Z" {
		t.Errorf("end = %q, want window end", query.Get("end"))
	}
}

func TestCreateEntry(t *testing.T) {
	client, doer := newTestClient(map[string]response{
		"POST /workspaces/ws1/time-entries": {201, `{"id": "new"}`},
	})

	block := schedule.Block{
		Date:        time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		Start:       "09:00",
		End:         "11:00",
		Description: "Work on: importer retry",
		Billable:    true,
	}
	if err := client.CreateEntry(context.Background(), block); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(doer.bodies[0]), &payload); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if payload["start"] != "2024-06-17T09:00:00.000Z" {
		t.Errorf("start = %v, want ISO timestamp", payload["start"])
	}
	if payload["end"] != "2024-06-17T11:00:00.000Z" {
		t.Errorf("end = %v, want ISO timestamp", payload["end"])
	}
	if payload["projectId"] != "proj1" {
		t.Errorf("projectId = %v, want %q", payload["projectId"], "proj1")
	}
	if payload["billable"] != true {
		t.Errorf("billable = %v, want true", payload["billable"])
	}
}

func TestCreateEntry_NoProjectOmitsProjectID(t *testing.T) {
	client, doer := newTestClient(map[string]response{
		"POST /workspaces/ws1/time-entries": {201, `{}`},
	})
	client.projectID = ""

	block := schedule.Block{
		Date:  time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		Start: "09:00",
		End:   "10:00",
	}
	if err := client.CreateEntry(context.Background(), block); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if strings.Contains(doer.bodies[0], "projectId") {
		t.Errorf("body %q should omit projectId when unset", doer.bodies[0])
	}
}

func TestDeleteEntries(t *testing.T) {
	entriesJSON := `[
		{"id": "e1", "timeInterval": {"start": "2024-06-17T09:00:00Z", "end": "2024-06-17T10:00:00Z"}},
		{"id": "e2", "timeInterval": {"start": "2024-06-18T09:00:00Z", "end": "2024-06-18T10:00:00Z"}}
	]`
	client, doer := newTestClient(map[string]response{
		"GET /user":                                {200, `{"id": "u1", "name": "Dev"}`},
		"GET /workspaces/ws1/user/u1/time-entries": {200, entriesJSON},
		"DELETE /workspaces/ws1/time-entries/e1":   {204, ""},
		"DELETE /workspaces/ws1/time-entries/e2":   {204, ""},
	})

	start := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	deleted, err := client.DeleteEntries(context.Background(), start, end)
	if err != nil {
		t.Fatalf("DeleteEntries() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	deletes := 0
	for _, req := range doer.requests {
		if req.Method == http.MethodDelete {
			deletes++
		}
	}
	if deletes != 2 {
		t.Errorf("issued %d DELETE requests, want 2", deletes)
	}
}

func TestDeleteEntries_PartialFailure(t *testing.T) {
	entriesJSON := `[
		{"id": "e1", "timeInterval": {"start": "2024-06-17T09:00:00Z", "end": "2024-06-17T10:00:00Z"}},
		{"id": "e2", "timeInterval": {"start": "2024-06-18T09:00:00Z", "end": "2024-06-18T10:00:00Z"}}
	]`
	client, _ := newTestClient(map[string]response{
		"GET /user":                                {200, `{"id": "u1", "name": "Dev"}`},
		"GET /workspaces/ws1/user/u1/time-entries": {200, entriesJSON},
		"DELETE /workspaces/ws1/time-entries/e1":   {204, ""},
		"DELETE /workspaces/ws1/time-entries/e2":   {500, "boom"},
	})

	start := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	deleted, err := client.DeleteEntries(context.Background(), start, end)
	if err == nil {
		t.Fatal("DeleteEntries() expected error for partial failure")
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %q, want failure count", err.Error())
	}
}

func TestLastEntryDate(t *testing.T) {
	entriesJSON := `[
		{"id": "e1", "timeInterval": {"start": "2024-06-10T09:00:00Z", "end": "2024-06-10T10:00:00Z"}},
		{"id": "e2", "timeInterval": {"start": "2024-06-14T09:00:00Z", "end": "2024-06-14T10:00:00Z"}},
		{"id": "e3", "timeInterval": {"start": "2024-06-12T09:00:00Z", "end": "2024-06-12T10:00:00Z"}}
	]`
	client, _ := newTestClient(map[string]response{
		"GET /user":                                {200, `{"id": "u1", "name": "Dev"}`},
		"GET /workspaces/ws1/user/u1/time-entries": {200, entriesJSON},
	})

	latest, ok, err := client.LastEntryDate(context.Background())
	if err != nil {
		t.Fatalf("LastEntryDate() error = %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if latest.Format("2006-01-02") != "2024-06-14" {
		t.Errorf("latest = %v, want 2024-06-14", latest)
	}
}

func TestLastEntryDate_NoEntries(t *testing.T) {
	client, _ := newTestClient(map[string]response{
		"GET /user":                                {200, `{"id": "u1", "name": "Dev"}`},
		"GET /workspaces/ws1/user/u1/time-entries": {200, `[]`},
	})

	_, ok, err := client.LastEntryDate(context.Background())
	if err != nil {
		t.Fatalf("LastEntryDate() error = %v", err)
	}
	if ok {
		t.Error("ok = true, want false for empty history")
	}
}

func TestUnauthorized(t *testing.T) {
	client, _ := newTestClient(map[string]response{
		"GET /user": {401, `{"message": "unauthorized"}`},
	})

	_, err := client.User(context.Background())
	if err == nil {
		t.Fatal("User() expected error for 401")
	}
	if !strings.Contains(err.Error(), "invalid Clockify API key") {
		t.Errorf("error = %q, want invalid key message", err.Error())
	}
}
