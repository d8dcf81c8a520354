// Package timesheet is the read-only reporting view over the time log
// ledger. It never writes; open logs are included at their live effective
// duration, so results for "today" move between polls without any mutation.
package timesheet

import (
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type View string

const (
	ViewDaily  View = "daily"
	ViewWeekly View = "weekly"
)

// Filters narrow a timesheet query. Date with a View expands to a calendar
// range; From/To give an explicit range instead.
type Filters struct {
	UserID         *uint
	ProjectID      *uint
	TaskStatus     string
	ApprovalStatus string
	View           View
	Date           time.Time // anchor for daily/weekly views
	From           *time.Time
	To             *time.Time
}

// Entry is a ledger record annotated with its effective duration
type Entry struct {
	models.TimeLog
	EffectiveSeconds int64 `json:"effective_duration_seconds"`
}

// Summary totals the filtered set. Abandoned timers can make individual
// durations very large; totals are plain sums, never clamped.
type Summary struct {
	TotalLogs            int     `json:"total_logs"`
	TotalDurationSeconds int64   `json:"total_duration_seconds"`
	TotalHours           float64 `json:"total_hours"`
}

type Result struct {
	Data    []Entry `json:"data"`
	Summary Summary `json:"summary"`
}

type Aggregator struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

func New(l *ledger.Ledger) *Aggregator {
	return &Aggregator{ledger: l, now: time.Now}
}

// SetClock overrides the aggregator clock. Tests only.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Query returns the matching time logs and their summary
func (a *Aggregator) Query(f Filters) (*Result, error) {
	from, to, err := f.dateRange()
	if err != nil {
		return nil, err
	}

	logs, err := a.ledger.QueryLogs(ledger.QueryFilter{
		UserID:         f.UserID,
		ProjectID:      f.ProjectID,
		TaskStatus:     f.TaskStatus,
		ApprovalStatus: f.ApprovalStatus,
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, err
	}

	now := a.now()
	result := &Result{Data: make([]Entry, 0, len(logs))}
	for _, log := range logs {
		effective := log.EffectiveSeconds(now)
		result.Data = append(result.Data, Entry{TimeLog: log, EffectiveSeconds: effective})
		result.Summary.TotalDurationSeconds += effective
	}
	result.Summary.TotalLogs = len(result.Data)
	result.Summary.TotalHours = float64(result.Summary.TotalDurationSeconds) / 3600

	return result, nil
}

// dateRange expands the view/date filters into an inclusive start_time
// range. Ranges are computed in the anchor date's location, so a day is
// the log's local calendar day rather than the viewer's.
func (f Filters) dateRange() (*time.Time, *time.Time, error) {
	if f.From != nil || f.To != nil {
		if f.View != "" {
			return nil, nil, apperr.Validation("use either a view date or an explicit range, not both")
		}
		return f.From, f.To, nil
	}

	switch f.View {
	case "":
		return nil, nil, nil
	case ViewDaily:
		day := startOfDay(f.Date)
		end := day.Add(24*time.Hour - time.Nanosecond)
		return &day, &end, nil
	case ViewWeekly:
		week := startOfWeek(f.Date)
		end := week.Add(7*24*time.Hour - time.Nanosecond)
		return &week, &end, nil
	default:
		return nil, nil, apperr.Validation("unknown view %q", f.View)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday beginning the week containing t
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
