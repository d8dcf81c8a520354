// Package api is the HTTP binding of the timer engine, approval workflow
// and timesheet aggregator. Identity arrives as an X-User-ID header; real
// authentication sits in front of this service.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/approval"
	"github.com/clockwork-dev/clockwork/internal/timer"
	"github.com/clockwork-dev/clockwork/internal/timesheet"
)

type Server struct {
	engine    *timer.Engine
	approvals *approval.Workflow
	sheets    *timesheet.Aggregator
}

func New(engine *timer.Engine, approvals *approval.Workflow, sheets *timesheet.Aggregator) *Server {
	return &Server{engine: engine, approvals: approvals, sheets: sheets}
}

// Routes wires all endpoints into a mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /timers/start", s.handleStart)
	mux.HandleFunc("POST /timers/{id}/pause", s.handlePause)
	mux.HandleFunc("POST /timers/{id}/resume", s.handleResume)
	mux.HandleFunc("POST /timers/{id}/stop", s.handleStop)
	mux.HandleFunc("GET /timers/active", s.handleActive)
	mux.HandleFunc("POST /timelogs/manual", s.handleManual)
	mux.HandleFunc("POST /timelogs/{id}/approve", s.handleApprove)
	mux.HandleFunc("POST /timelogs/{id}/reject", s.handleReject)
	mux.HandleFunc("GET /timesheet", s.handleTimesheet)
	return mux
}

// ListenAndServe runs the HTTP server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("clockwork listening on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindState:
		status = http.StatusUnprocessableEntity
	case apperr.KindValidation:
		status = http.StatusBadRequest
	}

	body := errorBody{Error: err.Error()}
	if kind != 0 {
		body.Kind = kind.String()
	} else {
		log.Printf("internal error: %v", err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

// callerID reads the authenticated user id the identity layer injects.
func callerID(r *http.Request) (uint, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, apperr.Validation("X-User-ID header is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid X-User-ID %q", raw)
	}
	return uint(id), nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return uint(id), nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}
