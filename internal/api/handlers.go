package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/models"
	"github.com/clockwork-dev/clockwork/internal/timesheet"
)

type startRequest struct {
	TaskID uint   `json:"task_id"`
	Note   string `json:"note"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	log, err := s.engine.Start(userID, req.TaskID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.engine.Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.engine.Resume)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.engine.Stop)
}

// transition runs one of the id-addressed timer mutations and returns the
// updated log.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, op func(userID, logID uint) (*models.TimeLog, error)) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	logID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	log, err := op(userID, logID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.engine.GetActive(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type manualRequest struct {
	TaskID    uint      `json:"task_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Note      string    `json:"note"`
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req manualRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	log, err := s.engine.RecordManual(userID, req.TaskID, req.StartTime, req.EndTime, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	logID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	log, err := s.approvals.Approve(actorID, logID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	logID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	log, err := s.approvals.Reject(actorID, logID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	filters, err := timesheetFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.sheets.Query(filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func timesheetFilters(r *http.Request) (timesheet.Filters, error) {
	q := r.URL.Query()
	var f timesheet.Filters

	if raw := q.Get("user_id"); raw != "" {
		id, err := parseID(raw, "user_id")
		if err != nil {
			return f, err
		}
		f.UserID = &id
	}
	if raw := q.Get("project_id"); raw != "" {
		id, err := parseID(raw, "project_id")
		if err != nil {
			return f, err
		}
		f.ProjectID = &id
	}
	f.TaskStatus = q.Get("task_status")
	f.ApprovalStatus = q.Get("status")

	if view := q.Get("view"); view != "" {
		f.View = timesheet.View(view)
		f.Date = time.Now()
		if raw := q.Get("date"); raw != "" {
			date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				return f, apperr.Validation("invalid date %q, use yyyy-mm-dd", raw)
			}
			f.Date = date
		}
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, apperr.Validation("invalid from %q, use RFC 3339", raw)
		}
		f.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, apperr.Validation("invalid to %q, use RFC 3339", raw)
		}
		f.To = &to
	}

	return f, nil
}

func parseID(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid %s %q", field, raw)
	}
	return uint(id), nil
}
