package timesheet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/db"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type fixture struct {
	agg    *Aggregator
	ledger *ledger.Ledger
	user   *models.User
	task   *models.Task
	now    time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	led := ledger.New(gdb)
	user, err := led.GetOrCreateUser("alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	task, err := led.CreateTask("catalog the archives", "library", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	now := time.Date(2026, 8, 26, 17, 0, 0, 0, time.Local) // a Wednesday
	agg := New(led)
	agg.SetClock(func() time.Time { return now })

	return &fixture{agg: agg, ledger: led, user: user, task: task, now: now}
}

// closedLog inserts a finished log of the given effective length starting at start.
func (f *fixture) closedLog(t *testing.T, start time.Time, effective int64, status string) *models.TimeLog {
	t.Helper()

	end := start.Add(time.Duration(effective) * time.Second)
	log := &models.TimeLog{
		TaskID:           f.task.ID,
		UserID:           f.user.ID,
		ProjectID:        f.task.ProjectID,
		StartTime:        start,
		EndTime:          &end,
		DurationSeconds:  effective,
		LastTransitionAt: end,
		Status:           status,
	}
	if err := f.ledger.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}
	return log
}

func TestDailyTotals(t *testing.T) {
	f := setup(t)

	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local)
	f.closedLog(t, morning, 600, models.ApprovalPending)
	f.closedLog(t, morning.Add(1*time.Hour), 1200, models.ApprovalPending)
	f.closedLog(t, morning.Add(2*time.Hour), 1800, models.ApprovalApproved)
	// A log from the day before must not count
	f.closedLog(t, morning.AddDate(0, 0, -1), 4000, models.ApprovalPending)

	result, err := f.agg.Query(Filters{
		UserID: &f.user.ID,
		View:   ViewDaily,
		Date:   f.now,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if result.Summary.TotalLogs != 3 {
		t.Errorf("total logs = %d, want 3", result.Summary.TotalLogs)
	}
	if result.Summary.TotalDurationSeconds != 3600 {
		t.Errorf("total duration = %d, want 3600", result.Summary.TotalDurationSeconds)
	}
	if result.Summary.TotalHours != 1.0 {
		t.Errorf("total hours = %v, want 1.0", result.Summary.TotalHours)
	}
}

func TestWeeklyRange(t *testing.T) {
	f := setup(t)

	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)
	f.closedLog(t, monday, 600, models.ApprovalPending)
	f.closedLog(t, monday.AddDate(0, 0, 5), 900, models.ApprovalPending)   // Saturday, same week
	f.closedLog(t, monday.AddDate(0, 0, -1), 1200, models.ApprovalPending) // Sunday before

	result, err := f.agg.Query(Filters{View: ViewWeekly, Date: f.now})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if result.Summary.TotalLogs != 2 {
		t.Errorf("total logs = %d, want 2", result.Summary.TotalLogs)
	}
	if result.Summary.TotalDurationSeconds != 1500 {
		t.Errorf("total duration = %d, want 1500", result.Summary.TotalDurationSeconds)
	}
}

func TestApprovalStatusFilter(t *testing.T) {
	f := setup(t)

	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local)
	f.closedLog(t, morning, 600, models.ApprovalApproved)
	f.closedLog(t, morning.Add(time.Hour), 1200, models.ApprovalPending)
	f.closedLog(t, morning.Add(2*time.Hour), 300, models.ApprovalRejected)

	result, err := f.agg.Query(Filters{
		View:           ViewDaily,
		Date:           f.now,
		ApprovalStatus: models.ApprovalApproved,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if result.Summary.TotalLogs != 1 {
		t.Errorf("total logs = %d, want 1", result.Summary.TotalLogs)
	}
	if result.Summary.TotalDurationSeconds != 600 {
		t.Errorf("approved total = %d, want 600", result.Summary.TotalDurationSeconds)
	}
}

func TestOpenLogCountsLiveDuration(t *testing.T) {
	f := setup(t)

	// Started 40 minutes before the aggregator's "now", still running
	start := f.now.Add(-40 * time.Minute)
	log := &models.TimeLog{
		TaskID:           f.task.ID,
		UserID:           f.user.ID,
		ProjectID:        f.task.ProjectID,
		StartTime:        start,
		LastTransitionAt: start,
		Status:           models.ApprovalPending,
	}
	if err := f.ledger.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}

	result, err := f.agg.Query(Filters{View: ViewDaily, Date: f.now})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if result.Summary.TotalLogs != 1 {
		t.Fatalf("total logs = %d, want 1", result.Summary.TotalLogs)
	}
	if got := result.Data[0].EffectiveSeconds; got != 2400 {
		t.Errorf("live effective = %d, want 2400", got)
	}
}

func TestVeryLongDurationsAreNotAnError(t *testing.T) {
	f := setup(t)

	// A timer left running for a month
	start := f.now.Add(-30 * 24 * time.Hour)
	log := &models.TimeLog{
		TaskID:           f.task.ID,
		UserID:           f.user.ID,
		ProjectID:        f.task.ProjectID,
		StartTime:        start,
		LastTransitionAt: start,
		Status:           models.ApprovalPending,
	}
	if err := f.ledger.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}

	result, err := f.agg.Query(Filters{UserID: &f.user.ID})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := int64(30 * 24 * 3600)
	if result.Summary.TotalDurationSeconds != want {
		t.Errorf("total = %d, want %d", result.Summary.TotalDurationSeconds, want)
	}
}

func TestViewAndExplicitRangeAreExclusive(t *testing.T) {
	f := setup(t)

	from := f.now.Add(-time.Hour)
	_, err := f.agg.Query(Filters{View: ViewDaily, Date: f.now, From: &from})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("mixed filters error = %v, want validation", err)
	}
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 8, 26, 15, 0, 0, 0, time.Local), time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)},
		{"monday", time.Date(2026, 8, 24, 0, 30, 0, 0, time.Local), time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)},
		{"sunday", time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local), time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := startOfWeek(tc.in); !got.Equal(tc.want) {
				t.Errorf("startOfWeek(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
