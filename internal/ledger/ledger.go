// Package ledger is the storage layer for time logs and their referenced
// tasks, projects and users. It enforces referential integrity only; the
// timer engine and approval workflow are its sole mutators.
package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateLog appends a new time log record
func (l *Ledger) CreateLog(log *models.TimeLog) error {
	if err := l.db.First(&models.Task{}, log.TaskID).Error; err != nil {
		return apperr.NotFound("task #%d not found", log.TaskID)
	}
	if err := l.db.First(&models.User{}, log.UserID).Error; err != nil {
		return apperr.NotFound("user #%d not found", log.UserID)
	}
	return l.db.Create(log).Error
}

// GetLog retrieves a time log by ID with its task preloaded
func (l *Ledger) GetLog(id uint) (*models.TimeLog, error) {
	var log models.TimeLog
	err := l.db.Preload("Task").First(&log, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("time log #%d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// GetUserLog retrieves a time log and checks it belongs to userID. A log
// owned by someone else reads as not found, so callers cannot probe ids.
func (l *Ledger) GetUserLog(id, userID uint) (*models.TimeLog, error) {
	log, err := l.GetLog(id)
	if err != nil {
		return nil, err
	}
	if log.UserID != userID {
		return nil, apperr.NotFound("time log #%d not found", id)
	}
	return log, nil
}

// SaveLog persists in-place updates to a time log
func (l *Ledger) SaveLog(log *models.TimeLog) error {
	return l.db.Save(log).Error
}

// OpenLogForUser returns the user's open time log, or nil if none exists
func (l *Ledger) OpenLogForUser(userID uint) (*models.TimeLog, error) {
	var log models.TimeLog
	err := l.db.Where("user_id = ? AND end_time IS NULL AND is_manual = ?", userID, false).
		Preload("Task").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// OpenLogForTask returns the open time log against a task regardless of
// owner, or nil. A task carries at most one active timer across all users.
func (l *Ledger) OpenLogForTask(taskID uint) (*models.TimeLog, error) {
	var log models.TimeLog
	err := l.db.Where("task_id = ? AND end_time IS NULL AND is_manual = ?", taskID, false).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// QueryFilter narrows ledger queries; nil/zero fields are skipped
type QueryFilter struct {
	UserID         *uint
	ProjectID      *uint
	TaskID         *uint
	TaskStatus     string
	ApprovalStatus string
	From           *time.Time
	To             *time.Time // inclusive upper bound on start_time
}

// QueryLogs returns time logs matching the filter, oldest first
func (l *Ledger) QueryLogs(f QueryFilter) ([]models.TimeLog, error) {
	q := l.db.Model(&models.TimeLog{}).Preload("Task").Preload("Task.Project").Preload("User")

	if f.UserID != nil {
		q = q.Where("time_logs.user_id = ?", *f.UserID)
	}
	if f.ProjectID != nil {
		q = q.Where("time_logs.project_id = ?", *f.ProjectID)
	}
	if f.TaskID != nil {
		q = q.Where("time_logs.task_id = ?", *f.TaskID)
	}
	if f.ApprovalStatus != "" {
		q = q.Where("time_logs.status = ?", f.ApprovalStatus)
	}
	if f.TaskStatus != "" {
		q = q.Joins("JOIN tasks ON tasks.id = time_logs.task_id").
			Where("tasks.status = ?", f.TaskStatus)
	}
	if f.From != nil {
		q = q.Where("time_logs.start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("time_logs.start_time <= ?", *f.To)
	}

	var logs []models.TimeLog
	if err := q.Order("time_logs.start_time ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
