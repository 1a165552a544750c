// Package web exposes the hub over a JSON HTTP API, plus an iCalendar feed
// for calendar subscriptions.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"studenthub/internal/notifier"
	"studenthub/internal/records"
	logx "studenthub/pkg/logx"
)

type Config struct {
	Listen string
}

// History is the slice of the notifier the status endpoint needs.
type History interface {
	Snapshot() []notifier.HistoryItem
}

type Server struct {
	repo    *records.Repo
	history History
	log     logx.Logger
	mux     *http.ServeMux

	// now is swappable in tests.
	now func() time.Time
}

func NewServer(repo *records.Repo, history History, log logx.Logger) *Server {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Server{
		repo:    repo,
		history: history,
		log:     log,
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logMiddleware(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/overview", s.handleOverview)

	s.mux.HandleFunc("GET /api/today", s.handleToday)
	s.mux.HandleFunc("GET /api/schedule", s.handleWeekAgenda)
	s.mux.HandleFunc("GET /api/schedule.ics", s.handleScheduleICS)

	s.mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profile", s.handlePutProfile)

	s.mux.HandleFunc("GET /api/courses", s.handleListCourses)
	s.mux.HandleFunc("POST /api/courses", s.handleAddCourse)
	s.mux.HandleFunc("DELETE /api/courses/{id}", s.handleDeleteCourse)

	s.mux.HandleFunc("GET /api/schedules", s.handleListSchedules)
	s.mux.HandleFunc("POST /api/schedules", s.handleAddSchedule)
	s.mux.HandleFunc("DELETE /api/schedules/{id}", s.handleDeleteSchedule)

	s.mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handleAddTask)
	s.mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	s.mux.HandleFunc("GET /api/grades", s.handleListGrades)
	s.mux.HandleFunc("POST /api/grades", s.handleAddGrade)
	s.mux.HandleFunc("DELETE /api/grades/{id}", s.handleDeleteGrade)

	s.mux.HandleFunc("GET /api/achievements", s.handleListAchievements)
	s.mux.HandleFunc("POST /api/achievements", s.handleAddAchievement)
	s.mux.HandleFunc("DELETE /api/achievements/{id}", s.handleDeleteAchievement)

	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/projects", s.handleAddProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	s.mux.HandleFunc("GET /api/focus", s.handleFocusStats)
	s.mux.HandleFunc("POST /api/focus/session", s.handleFocusSession)

	s.mux.HandleFunc("GET /api/notifications", s.handleNotifications)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request",
			logx.String("method", r.Method),
			logx.String("path", r.URL.Path),
			logx.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
