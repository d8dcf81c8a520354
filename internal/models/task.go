package models

import (
	"time"

	"gorm.io/gorm"
)

// Task status lifecycle. The timer engine only ever moves a task from
// StatusTodo to StatusInProgress; review/done stay under external control.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Project groups tasks for reporting
type Project struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"unique;not null" json:"name"`
}

// User is the minimal identity record the engine needs; authentication
// itself lives outside this service.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"unique;not null" json:"name"`
	Approver bool   `gorm:"default:false" json:"approver"` // may approve/reject time logs
}

// Task is a unit of work timers run against
type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title     string     `gorm:"not null" json:"title"`
	ProjectID uint       `gorm:"not null" json:"project_id"`
	Status    string     `gorm:"default:todo" json:"status"` // todo, in_progress, review, done
	Note      string     `json:"note"`
	DoneAt    *time.Time `json:"done_at"`

	// Relationships
	Project  Project   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"project"`
	TimeLogs []TimeLog `gorm:"foreignKey:TaskID" json:"time_logs,omitempty"`
}
