package web

import (
	"errors"
	"net/http"
	"strconv"

	"studenthub/internal/ics"
	"studenthub/internal/notifier"
	"studenthub/internal/records"
	"studenthub/internal/schedule"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":    s.repo.Profile(),
		"gpa":        s.repo.GPA(),
		"courses":    len(s.repo.Courses()),
		"tasks":      len(s.repo.Tasks()),
		"focusStats": s.repo.FocusStats(now),
	})
}

func (s *Server) handleToday(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	agenda := schedule.TodayAgenda(s.repo.ScheduleSlots(), now)
	due := schedule.DueSoon(s.repo.Work(), now)
	writeJSON(w, http.StatusOK, map[string]any{
		"day":     now.Weekday().String(),
		"classes": agenda,
		"dueSoon": due,
	})
}

func (s *Server) handleWeekAgenda(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schedule.WeekAgenda(s.repo.ScheduleSlots()))
}

func (s *Server) handleScheduleICS(w http.ResponseWriter, _ *http.Request) {
	name := "Class Schedule"
	if p := s.repo.Profile(); p != nil && p.Name != "" {
		name = p.Name + "'s Classes"
	}
	body := ics.ExportWeekly(s.repo.ScheduleSlots(), name, s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	p := s.repo.Profile()
	if p == nil {
		writeError(w, http.StatusNotFound, "no profile yet")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p records.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	if p.StudentID == "" || p.Name == "" {
		writeError(w, http.StatusBadRequest, "studentId and name are required")
		return
	}
	if err := s.repo.SetProfile(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func deleteErr(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleListCourses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Courses())
}

func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	var c records.Course
	if !decodeBody(w, r, &c) {
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	out, err := s.repo.AddCourse(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteCourse(r.Context(), id))
}

func (s *Server) handleListSchedules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Schedules())
}

func (s *Server) handleAddSchedule(w http.ResponseWriter, r *http.Request) {
	var e records.ScheduleEntry
	if !decodeBody(w, r, &e) {
		return
	}
	if e.Course == "" || e.Day == "" || e.Time == "" {
		writeError(w, http.StatusBadRequest, "course, day and time are required")
		return
	}
	out, err := s.repo.AddSchedule(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteSchedule(r.Context(), id))
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Tasks())
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var t records.Task
	if !decodeBody(w, r, &t) {
		return
	}
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	out, err := s.repo.AddTask(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := s.repo.ToggleTask(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteTask(r.Context(), id))
}

func (s *Server) handleListGrades(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"grades": s.repo.Grades(),
		"gpa":    s.repo.GPA(),
	})
}

func (s *Server) handleAddGrade(w http.ResponseWriter, r *http.Request) {
	var g records.Grade
	if !decodeBody(w, r, &g) {
		return
	}
	if g.Course == "" || g.Units <= 0 {
		writeError(w, http.StatusBadRequest, "course and positive units are required")
		return
	}
	out, err := s.repo.AddGrade(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteGrade(r.Context(), id))
}

func (s *Server) handleListAchievements(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Achievements())
}

func (s *Server) handleAddAchievement(w http.ResponseWriter, r *http.Request) {
	var a records.Achievement
	if !decodeBody(w, r, &a) {
		return
	}
	if a.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	out, err := s.repo.AddAchievement(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteAchievement(r.Context(), id))
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Projects())
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var p records.Project
	if !decodeBody(w, r, &p) {
		return
	}
	if p.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	out, err := s.repo.AddProject(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleteErr(w, s.repo.DeleteProject(r.Context(), id))
}

func (s *Server) handleFocusStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.FocusStats(s.now()))
}

func (s *Server) handleFocusSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minutes int `json:"minutes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "minutes must be positive")
		return
	}
	out, err := s.repo.RecordFocusSession(r.Context(), s.now(), body.Minutes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	var items []notifier.HistoryItem
	if s.history != nil {
		items = s.history.Snapshot()
	}
	if items == nil {
		items = []notifier.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
