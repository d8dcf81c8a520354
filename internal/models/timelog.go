package models

import (
	"time"

	"gorm.io/gorm"
)

// Approval status of a closed time log. Eagerly set to pending on creation;
// it only means anything once EndTime is set.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// TimeLog represents one span of tracked work on a task
type TimeLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TaskID    uint `gorm:"not null;index" json:"task_id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"` // nil while the timer is open

	// DurationSeconds is total wall-clock time accrued since StartTime,
	// paused spans included; PausedSeconds is the paused share of it.
	// Both are advanced server-side at each transition, floor-truncated.
	DurationSeconds int64 `json:"duration_total_seconds"`
	PausedSeconds   int64 `json:"paused_duration_seconds"`

	IsPaused bool `gorm:"default:false" json:"is_paused"`
	IsManual bool `gorm:"default:false" json:"is_manual"` // manual entries never touch the active timer

	// LastTransitionAt marks the start of the current running or paused
	// span; all accrual math is anchored on it.
	LastTransitionAt time.Time `json:"-"`

	Note            string `json:"note"`
	Status          string `gorm:"default:pending;index" json:"status"` // pending, approved, rejected
	RejectionReason string `json:"rejection_reason,omitempty"`

	// Relationships
	Task Task `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"task"`
	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

// Open reports whether the timer behind this log is still running or paused.
func (t *TimeLog) Open() bool {
	return t.EndTime == nil
}

// EffectiveSeconds returns worked time net of pauses as of now. For a
// closed log this is fixed; for an open running log the span since the
// last transition is credited live. An open paused span cancels out, so
// the value holds steady while paused.
func (t *TimeLog) EffectiveSeconds(now time.Time) int64 {
	effective := t.DurationSeconds - t.PausedSeconds
	if t.Open() && !t.IsPaused {
		effective += ElapsedSeconds(t.LastTransitionAt, now)
	}
	if effective < 0 {
		return 0
	}
	return effective
}

// ElapsedSeconds floors to whole seconds so time is never over-credited.
func ElapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
