// Package timer owns the single-active-timer-per-user invariant and all
// duration accrual. Durations are computed server-side from stored
// transition timestamps; client-reported elapsed time is never trusted.
package timer

import (
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/event"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type Engine struct {
	ledger *ledger.Ledger
	bus    *event.Bus
	locks  *userLocks
	now    func() time.Time
}

func New(l *ledger.Ledger, bus *event.Bus) *Engine {
	return &Engine{
		ledger: l,
		bus:    bus,
		locks:  newUserLocks(),
		now:    time.Now,
	}
}

// SetClock overrides the engine clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Start opens a new time log for the user against a task. Fails with a
// conflict if the user already has an open log, or if another user holds
// an active timer on the same task.
func (e *Engine) Start(userID, taskID uint, note string) (*models.TimeLog, error) {
	lock, err := e.locks.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	open, err := e.ledger.OpenLogForUser(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperr.Conflict("timer already running on task #%d, stop it first", open.TaskID)
	}

	taskOpen, err := e.ledger.OpenLogForTask(taskID)
	if err != nil {
		return nil, err
	}
	if taskOpen != nil {
		return nil, apperr.Conflict("task #%d already has an active timer (user #%d)", taskID, taskOpen.UserID)
	}

	task, err := e.ledger.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	log := models.TimeLog{
		TaskID:           taskID,
		UserID:           userID,
		ProjectID:        task.ProjectID,
		StartTime:        now,
		LastTransitionAt: now,
		Note:             note,
		Status:           models.ApprovalPending, // meaningless until closed
	}
	if err := e.ledger.CreateLog(&log); err != nil {
		return nil, err
	}

	if err := e.markInProgress(task); err != nil {
		return nil, err
	}
	log.Task = *task

	e.publish(event.TypeTimerStarted, &log)
	return &log, nil
}

// Pause suspends the user's running timer. Elapsed time since the last
// transition is credited before the pause boundary is recorded.
func (e *Engine) Pause(userID, logID uint) (*models.TimeLog, error) {
	lock, err := e.locks.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	log, err := e.ledger.GetUserLog(logID, userID)
	if err != nil {
		return nil, err
	}
	if !log.Open() {
		return nil, apperr.State("time log #%d already stopped", logID)
	}
	if log.IsPaused {
		return nil, apperr.State("time log #%d already paused", logID)
	}

	now := e.now()
	log.DurationSeconds += models.ElapsedSeconds(log.LastTransitionAt, now)
	log.IsPaused = true
	log.LastTransitionAt = now
	if err := e.ledger.SaveLog(log); err != nil {
		return nil, err
	}

	e.publish(event.TypeTimerPaused, log)
	return log, nil
}

// Resume restarts the user's paused timer. The pause span counts toward
// both total and paused time, so total always equals wall-clock since start.
func (e *Engine) Resume(userID, logID uint) (*models.TimeLog, error) {
	lock, err := e.locks.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	log, err := e.ledger.GetUserLog(logID, userID)
	if err != nil {
		return nil, err
	}
	if !log.Open() {
		return nil, apperr.State("time log #%d already stopped", logID)
	}
	if !log.IsPaused {
		return nil, apperr.State("time log #%d is not paused", logID)
	}

	now := e.now()
	span := models.ElapsedSeconds(log.LastTransitionAt, now)
	log.PausedSeconds += span
	log.DurationSeconds += span
	log.IsPaused = false
	log.LastTransitionAt = now
	if err := e.ledger.SaveLog(log); err != nil {
		return nil, err
	}

	task, err := e.ledger.GetTask(log.TaskID)
	if err != nil {
		return nil, err
	}
	if err := e.markInProgress(task); err != nil {
		return nil, err
	}

	e.publish(event.TypeTimerResumed, log)
	return log, nil
}

// Stop finalizes the user's open timer and leaves the log pending for the
// approval workflow. A second Stop on the same log is a state error and
// never double-counts time.
func (e *Engine) Stop(userID, logID uint) (*models.TimeLog, error) {
	lock, err := e.locks.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	log, err := e.ledger.GetUserLog(logID, userID)
	if err != nil {
		return nil, err
	}
	if !log.Open() {
		return nil, apperr.State("time log #%d already stopped", logID)
	}

	now := e.now()
	span := models.ElapsedSeconds(log.LastTransitionAt, now)
	if log.IsPaused {
		log.PausedSeconds += span
		log.IsPaused = false
	}
	log.DurationSeconds += span
	log.EndTime = &now
	if err := e.ledger.SaveLog(log); err != nil {
		return nil, err
	}

	e.publish(event.TypeTimerStopped, log)
	return log, nil
}

// Snapshot is the authoritative active-timer view a client seeds its
// display counter with.
type Snapshot struct {
	Log              *models.TimeLog `json:"time_log"`
	EffectiveSeconds int64           `json:"effective_duration_seconds"`
	AsOf             time.Time       `json:"as_of"`
}

// GetActive returns the user's active timer with a server-computed
// effective duration as of the call, or nil when no timer is open.
func (e *Engine) GetActive(userID uint) (*Snapshot, error) {
	log, err := e.ledger.OpenLogForUser(userID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, nil
	}

	now := e.now()
	return &Snapshot{
		Log:              log,
		EffectiveSeconds: log.EffectiveSeconds(now),
		AsOf:             now,
	}, nil
}

// RecordManual inserts a historical entry directly. Manual logs bypass the
// active-timer invariant and never touch task status.
func (e *Engine) RecordManual(userID, taskID uint, start, end time.Time, note string) (*models.TimeLog, error) {
	if !end.After(start) {
		return nil, apperr.Validation("end time must be after start time")
	}

	task, err := e.ledger.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	log := models.TimeLog{
		TaskID:           taskID,
		UserID:           userID,
		ProjectID:        task.ProjectID,
		StartTime:        start,
		EndTime:          &end,
		DurationSeconds:  models.ElapsedSeconds(start, end),
		LastTransitionAt: end,
		IsManual:         true,
		Note:             note,
		Status:           models.ApprovalPending,
	}
	if err := e.ledger.CreateLog(&log); err != nil {
		return nil, err
	}
	log.Task = *task
	return &log, nil
}

// markInProgress moves a todo task to in_progress. Other statuses are
// external territory and left alone.
func (e *Engine) markInProgress(task *models.Task) error {
	if task.Status != models.StatusTodo {
		return nil
	}
	task.Status = models.StatusInProgress
	return e.ledger.SaveTask(task)
}

func (e *Engine) publish(t event.Type, log *models.TimeLog) {
	e.bus.Publish(event.Event{
		Type:      t,
		TimeLogID: log.ID,
		TaskID:    log.TaskID,
		UserID:    log.UserID,
		Timestamp: e.now(),
	})
}
