package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studenthub/internal/records"
	"studenthub/internal/storage"
	logx "studenthub/pkg/logx"
)

func newTestServer(t *testing.T) (*Server, *records.Repo) {
	t.Helper()
	st, err := storage.Open(storage.Config{Driver: "file", Path: filepath.Join(t.TempDir(), "hub")}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	repo, err := records.New(context.Background(), st, nil, logx.Nop())
	if err != nil {
		t.Fatalf("records.New: %v", err)
	}
	srv := NewServer(repo, nil, logx.Nop())
	// 2026-08-31 is a Monday.
	srv.now = func() time.Time { return time.Date(2026, time.August, 31, 8, 50, 0, 0, time.UTC) }
	return srv, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"Essay","course":"History","dueDate":"2026-09-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body)
	}
	var created records.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Completed {
		t.Fatalf("unexpected task %+v", created)
	}

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/tasks/%d/toggle", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var toggled records.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &toggled)
	if !toggled.Completed {
		t.Fatal("toggle did not complete task")
	}

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty title status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"x","bogus":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rec.Code)
	}
}

func TestTodayEndpoint(t *testing.T) {
	t.Parallel()
	srv, repo := newTestServer(t)
	ctx := context.Background()
	repo.AddSchedule(ctx, records.ScheduleEntry{Course: "Calculus", Day: "Monday", Time: "9:00-10:30", Room: "B204"})
	repo.AddSchedule(ctx, records.ScheduleEntry{Course: "History", Day: "Tuesday", Time: "9:00-10:30"})
	repo.AddTask(ctx, records.Task{Title: "Essay", DueDate: "2026-09-01"})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Day     string `json:"day"`
		Classes []struct {
			Course string `json:"course"`
			Time   string `json:"time"`
			Status string `json:"status"`
		} `json:"classes"`
		DueSoon []struct {
			Status string `json:"status"`
		} `json:"dueSoon"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Day != "Monday" {
		t.Fatalf("day = %q", out.Day)
	}
	if len(out.Classes) != 1 || out.Classes[0].Course != "Calculus" {
		t.Fatalf("classes = %+v", out.Classes)
	}
	// 8:50 is inside the 30-minute upcoming window for a 9:00 class.
	if out.Classes[0].Status != "upcoming" {
		t.Fatalf("status = %q", out.Classes[0].Status)
	}
	if len(out.DueSoon) != 1 || out.DueSoon[0].Status != "upcoming" {
		t.Fatalf("dueSoon = %+v", out.DueSoon)
	}
}

func TestScheduleICSEndpoint(t *testing.T) {
	t.Parallel()
	srv, repo := newTestServer(t)
	repo.AddSchedule(context.Background(), records.ScheduleEntry{Course: "Calculus", Day: "Monday", Time: "9:00-10:30"})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/schedule.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Calculus") {
		t.Fatalf("missing event:\n%s", rec.Body)
	}
}

func TestGradesAndGPA(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/grades", `{"course":"Calculus","units":3,"grade":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodPost, "/api/grades", `{"course":"History","units":1,"grade":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/grades", "")
	var out struct {
		GPA float64 `json:"gpa"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := 3.5; out.GPA != want {
		t.Fatalf("gpa = %v, want %v", out.GPA, want)
	}
}

func TestFocusEndpoints(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/focus/session", `{"minutes":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var stats records.FocusStats
	_ = json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.SessionsToday != 1 || stats.MinutesToday != 25 {
		t.Fatalf("stats = %+v", stats)
	}

	rec = do(t, h, http.MethodPost, "/api/focus/session", `{"minutes":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero minutes status = %d", rec.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/profile", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty profile status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPut, "/api/profile", `{"studentId":"S-100","name":"Dee","program":"CS","semester":"3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d body = %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/api/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var p records.Profile
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if p.StudentID != "S-100" || p.Name != "Dee" {
		t.Fatalf("profile = %+v", p)
	}
}
